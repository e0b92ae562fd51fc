// Package chat implements the message exchange loop of the client: rendering
// messages into a container, loading history, sending input and keeping the
// transcript sized to the viewport.
//
// The loop does not know about terminals. Everything it touches is one of the
// small interfaces below, so the TUI, the one-shot CLI and tests can all drive
// the same Session.
package chat

import (
	"context"

	"github.com/diogo/webchat/internal/transcript"
)

// Container holds rendered nodes in display order
type Container interface {
	Append(n transcript.Node)
	Replace(nodes []transcript.Node)
	ScrollToBottom()
	SetHeight(h int)
}

// Input is the text field the user types into
type Input interface {
	Value() string
	Reset()
}

// Viewport reports the height available to the whole view
type Viewport interface {
	Height() int
}

// InputArea reports the height taken by the input and its chrome
type InputArea interface {
	Height() int
}

// Reloader reloads the whole view, as a page refresh would
type Reloader interface {
	Reload(ctx context.Context)
}

// Fixed is a Viewport or InputArea of constant height
type Fixed int

// Height returns the fixed height
func (f Fixed) Height() int { return int(f) }
