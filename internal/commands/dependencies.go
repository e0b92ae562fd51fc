package commands

import (
	"go.uber.org/zap"

	"github.com/diogo/webchat/internal/api"
	"github.com/diogo/webchat/internal/config"
	"github.com/diogo/webchat/internal/logging"
	"github.com/diogo/webchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(client api.ChatClientInterface, opts tui.Options) error
}

// ClientFactory builds the transport client for a configuration
type ClientFactory func(cfg config.Config, log *zap.Logger) (api.ChatClientInterface, error)

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient creates the chat server client.
	NewClient ClientFactory

	// TUI is the terminal user interface.
	TUI TUIInterface

	// NewLogger creates the session logger.
	NewLogger func(cfg config.Config) (*zap.Logger, func(), error)
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(client api.ChatClientInterface, opts tui.Options) error {
	return tui.RunChat(client, opts)
}

// DefaultClient creates a TLS client for cfg.ServerURL
func DefaultClient(cfg config.Config, log *zap.Logger) (api.ChatClientInterface, error) {
	return api.NewClient(cfg.ServerURL,
		api.WithTimeout(cfg.Timeout()),
		api.WithLogger(log.Named("api")),
	)
}

// DefaultLogger writes to the configured log file
func DefaultLogger(cfg config.Config) (*zap.Logger, func(), error) {
	return logging.New(logging.Options{File: cfg.LogFile, Verbose: cfg.Verbose})
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: DefaultClient,
		TUI:       &DefaultTUI{},
		NewLogger: DefaultLogger,
	}
}

// withDefaults fills any nil field with its production implementation
func (d *Dependencies) withDefaults() *Dependencies {
	if d == nil {
		return NewDependencies()
	}
	out := *d
	if out.NewClient == nil {
		out.NewClient = DefaultClient
	}
	if out.TUI == nil {
		out.TUI = &DefaultTUI{}
	}
	if out.NewLogger == nil {
		out.NewLogger = DefaultLogger
	}
	return &out
}
