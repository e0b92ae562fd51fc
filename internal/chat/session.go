package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/diogo/webchat/internal/api"
	"github.com/diogo/webchat/internal/models"
)

// Options configures a Session
type Options struct {
	Client    api.ChatClientInterface
	Container Container
	// Viewport and InputArea default to zero height when nil
	Viewport      Viewport
	InputArea     InputArea
	Transport     string
	SuppressEmpty bool
	Logger        *zap.Logger
	// OnReload, if set, runs after the view was cleared by a reload
	OnReload func()
}

// Session wires the renderer, history loader, sender and layout around one
// container. It is the UI context every front end drives.
type Session struct {
	Renderer *Renderer
	History  *HistoryLoader
	Sender   *Sender
	Layout   *Layout

	onReload func()
	log      *zap.Logger
}

// NewSession creates a session
func NewSession(opts Options) (*Session, error) {
	if opts.Client == nil {
		return nil, fmt.Errorf("chat client is required")
	}
	if opts.Container == nil {
		return nil, fmt.Errorf("container is required")
	}
	if opts.Transport != "" && !models.IsValidTransport(opts.Transport) {
		return nil, fmt.Errorf("invalid transport %q, must be one of %v", opts.Transport, models.AvailableTransports())
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var viewport Viewport = Fixed(0)
	if opts.Viewport != nil {
		viewport = opts.Viewport
	}
	var inputArea InputArea = Fixed(0)
	if opts.InputArea != nil {
		inputArea = opts.InputArea
	}

	s := &Session{onReload: opts.OnReload, log: log}
	s.Renderer = NewRenderer(opts.Container)
	s.History = NewHistoryLoader(opts.Client, s.Renderer, log.Named("history"))
	s.Layout = NewLayout(opts.Container, viewport, inputArea)
	s.Sender = NewSender(opts.Client, s.Renderer, s.History, SenderOptions{
		Transport:     opts.Transport,
		SuppressEmpty: opts.SuppressEmpty,
		Reloader:      s,
		Logger:        log.Named("sender"),
	})
	return s, nil
}

// Start sizes the layout and loads history, as on first page load
func (s *Session) Start(ctx context.Context) error {
	s.Layout.AdjustHeight()
	return s.History.LoadHistory(ctx)
}

// Reload clears the view and starts over
func (s *Session) Reload(ctx context.Context) {
	s.log.Debug("reloading view")
	s.Renderer.Clear()
	if s.onReload != nil {
		s.onReload()
	}
	_ = s.Start(ctx)
}
