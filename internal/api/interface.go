package api

import (
	"context"

	"github.com/diogo/webchat/internal/models"
)

// ChatClientInterface is what the chat session needs from the transport
type ChatClientInterface interface {
	// GetHistory fetches prior turns, oldest first
	GetHistory(ctx context.Context) ([]models.Message, error)
	// SendJSON posts a message and decodes the single JSON reply
	SendJSON(ctx context.Context, message string) (models.Reply, error)
	// SendStream posts a message and calls onReply for every streamed frame
	SendStream(ctx context.Context, message string, onReply func(models.Reply)) error
	// Subscribe opens an event stream and calls onEvent with each event's data
	Subscribe(ctx context.Context, message string, onEvent func(string)) error
	BaseURL() string
	Close()
}

var _ ChatClientInterface = (*Client)(nil)
