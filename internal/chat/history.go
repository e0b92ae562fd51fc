package chat

import (
	"context"

	"go.uber.org/zap"

	"github.com/diogo/webchat/internal/models"
)

// HistorySource fetches prior turns from the server
type HistorySource interface {
	GetHistory(ctx context.Context) ([]models.Message, error)
}

// HistoryLoader replays server-side history into the renderer
type HistoryLoader struct {
	source   HistorySource
	renderer *Renderer
	log      *zap.Logger
}

// NewHistoryLoader creates a loader
func NewHistoryLoader(source HistorySource, renderer *Renderer, log *zap.Logger) *HistoryLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryLoader{source: source, renderer: renderer, log: log}
}

// LoadHistory replaces the transcript with the server's history.
// On failure the error is logged, the transcript is left as it was, and the
// error is returned for callers that report it themselves.
func (h *HistoryLoader) LoadHistory(ctx context.Context) error {
	msgs, err := h.source.GetHistory(ctx)
	if err != nil {
		h.log.Error("failed to load history", zap.Error(err))
		return err
	}

	h.renderer.Replace(msgs)
	h.log.Debug("history loaded", zap.Int("turns", len(msgs)))
	return nil
}
