package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/diogo/webchat/internal/api"
	"github.com/diogo/webchat/internal/models"
)

// State is where a submission is in its lifecycle
type State int

const (
	StateIdle State = iota
	StateSending
	StateCompleted
	StateFailed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CancelledText is rendered when the user abandons a request
const CancelledText = "Request cancelled."

// Result describes how a dispatch ended
type Result struct {
	State State
	// Rendered counts the reply nodes appended
	Rendered int
	// Reset is set when the server acknowledged a conversation reset
	Reset bool
	// Refresh is set when the server asked for a full reload
	Refresh bool
	// Cancelled is set when ctx ended the dispatch
	Cancelled bool
	Err       error
}

// Sender submits user input and renders the replies
type Sender struct {
	client        api.ChatClientInterface
	renderer      *Renderer
	history       *HistoryLoader
	reloader      Reloader
	transport     string
	suppressEmpty bool
	log           *zap.Logger

	// dispatchMu serialises dispatches so replies land in submission order
	dispatchMu sync.Mutex

	stateMu sync.RWMutex
	state   State
}

// SenderOptions configures a Sender
type SenderOptions struct {
	Transport     string
	SuppressEmpty bool
	Reloader      Reloader
	Logger        *zap.Logger
}

// NewSender creates a sender
func NewSender(client api.ChatClientInterface, renderer *Renderer, history *HistoryLoader, opts SenderOptions) *Sender {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	transport := opts.Transport
	if transport == "" {
		transport = models.TransportJSON
	}
	return &Sender{
		client:        client,
		renderer:      renderer,
		history:       history,
		reloader:      opts.Reloader,
		transport:     transport,
		suppressEmpty: opts.SuppressEmpty,
		log:           log,
	}
}

// State returns the state of the latest submission
func (s *Sender) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Transport returns the transport mode in use
func (s *Sender) Transport() string {
	return s.transport
}

func (s *Sender) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// Begin reads and clears the input, then renders it as a user message before
// anything is sent. It reports false when the submission was suppressed.
func (s *Sender) Begin(in Input) (string, bool) {
	text := in.Value()
	in.Reset()

	if s.suppressEmpty && strings.TrimSpace(text) == "" {
		return "", false
	}

	s.renderer.Render(text, models.RoleUser)
	s.setState(StateSending)
	return text, true
}

// Submit is Begin followed by Dispatch
func (s *Sender) Submit(ctx context.Context, in Input) Result {
	text, ok := s.Begin(in)
	if !ok {
		return Result{State: StateIdle}
	}
	return s.Dispatch(ctx, text)
}

// Dispatch sends text with the configured transport and renders what comes back.
// It never returns an error to the caller; failures are rendered and reported
// in the Result.
func (s *Sender) Dispatch(ctx context.Context, text string) Result {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.setState(StateSending)
	s.log.Debug("dispatching message", zap.String("transport", s.transport), zap.Int("length", len(text)))

	var res Result
	switch s.transport {
	case models.TransportSSE:
		res = s.subscribe(ctx, text)
	case models.TransportStream:
		res = s.stream(ctx, text)
	default:
		res = s.sendJSON(ctx, text)
	}

	s.setState(res.State)
	return res
}

func (s *Sender) sendJSON(ctx context.Context, text string) Result {
	reply, err := s.client.SendJSON(ctx, text)
	if err != nil {
		return s.fail(ctx, err)
	}

	res := Result{State: StateCompleted}
	switch reply.Kind {
	case models.ReplyRefresh:
		res.Refresh = true
		s.log.Info("server requested refresh")
		if s.reloader != nil {
			s.reloader.Reload(ctx)
		}
	case models.ReplyReset:
		res.Reset = true
		s.log.Info("conversation reset")
		_ = s.history.LoadHistory(ctx)
	default:
		if msg, ok := reply.Message(); ok {
			s.renderer.Render(msg.Content, models.RoleAI)
			res.Rendered++
		}
	}
	return res
}

func (s *Sender) stream(ctx context.Context, text string) Result {
	res := Result{State: StateCompleted}
	err := s.client.SendStream(ctx, text, func(reply models.Reply) {
		if msg, ok := reply.Message(); ok {
			s.renderer.Render(msg.Content, models.RoleAI)
			res.Rendered++
		}
	})
	if err != nil {
		failed := s.fail(ctx, err)
		failed.Rendered = res.Rendered
		return failed
	}
	return res
}

func (s *Sender) subscribe(ctx context.Context, text string) Result {
	res := Result{State: StateCompleted}
	err := s.client.Subscribe(ctx, text, func(data string) {
		s.renderer.Render(data, models.RoleAI)
		res.Rendered++
	})
	if err == nil {
		return res
	}

	res.State = StateFailed
	res.Err = err
	if isCancelled(ctx, err) {
		res.Cancelled = true
		s.renderer.Render(CancelledText, models.RoleSystem)
		return res
	}

	s.log.Error("event stream failed", zap.Error(err))
	s.renderer.Render(models.ConnectionErrorText, models.RoleAI)
	return res
}

// fail renders err as a system message. A cancelled request is not logged as an error.
func (s *Sender) fail(ctx context.Context, err error) Result {
	res := Result{State: StateFailed, Err: err}
	if isCancelled(ctx, err) {
		res.Cancelled = true
		s.log.Info("request cancelled")
		s.renderer.Render(CancelledText, models.RoleSystem)
		return res
	}

	s.log.Error("send failed", zap.String("transport", s.transport), zap.Error(err))
	s.renderer.Render(fmt.Sprintf("Error: %v", err), models.RoleSystem)
	return res
}

func isCancelled(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) && ctx.Err() != nil
}
