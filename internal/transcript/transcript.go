// Package transcript holds the ordered list of rendered chat messages.
package transcript

import (
	"sync"

	"github.com/google/uuid"

	"github.com/diogo/webchat/internal/models"
)

// Node is one rendered message. Nodes are never modified after Append.
type Node struct {
	ID     string
	Role   models.Role
	Class  string
	HTML   string // sanitized
	Source string // raw content as received
}

// NewNode creates a node with a fresh ID
func NewNode(role models.Role, source, sanitized string) Node {
	return Node{
		ID:     uuid.NewString(),
		Role:   role,
		Class:  role.Class(),
		HTML:   sanitized,
		Source: source,
	}
}

// Transcript is an append-only container of nodes.
// It only grows, or is replaced wholesale.
type Transcript struct {
	mu        sync.RWMutex
	nodes     []Node
	scrollTop int // index of the first node in view
	height    int
	version   uint64
	changes   chan struct{}
}

// New creates an empty transcript
func New() *Transcript {
	return &Transcript{
		changes: make(chan struct{}, 1),
	}
}

// Append adds a node to the end of the transcript
func (t *Transcript) Append(n Node) {
	t.mu.Lock()
	t.nodes = append(t.nodes, n)
	t.version++
	t.mu.Unlock()
	t.notify()
}

// Replace discards every node and installs nodes in their place
func (t *Transcript) Replace(nodes []Node) {
	t.mu.Lock()
	t.nodes = append([]Node(nil), nodes...)
	t.scrollTop = 0
	t.version++
	t.mu.Unlock()
	t.notify()
}

// Clear removes every node
func (t *Transcript) Clear() {
	t.Replace(nil)
}

// ScrollToBottom moves the scroll position to its maximum
func (t *Transcript) ScrollToBottom() {
	t.mu.Lock()
	t.scrollTop = t.scrollHeightLocked()
	t.mu.Unlock()
	t.notify()
}

// Scroll sets the scroll position, clamped to [0, ScrollHeight]
func (t *Transcript) Scroll(top int) {
	t.mu.Lock()
	if top < 0 {
		top = 0
	}
	if limit := t.scrollHeightLocked(); top > limit {
		top = limit
	}
	t.scrollTop = top
	t.mu.Unlock()
}

func (t *Transcript) scrollHeightLocked() int {
	if len(t.nodes) == 0 {
		return 0
	}
	return len(t.nodes) - 1
}

// ScrollTop returns the current scroll position
func (t *Transcript) ScrollTop() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrollTop
}

// ScrollHeight returns the maximum scroll position
func (t *Transcript) ScrollHeight() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrollHeightLocked()
}

// AtBottom reports whether the newest node is in view
func (t *Transcript) AtBottom() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.scrollTop >= t.scrollHeightLocked()
}

// SetHeight sets the display height, in rows. Negative values become zero.
func (t *Transcript) SetHeight(h int) {
	if h < 0 {
		h = 0
	}
	t.mu.Lock()
	changed := t.height != h
	t.height = h
	t.mu.Unlock()
	if changed {
		t.notify()
	}
}

// Height returns the display height
func (t *Transcript) Height() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.height
}

// Nodes returns a copy of the nodes in order
func (t *Transcript) Nodes() []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Len returns the number of nodes
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// Last returns the newest node with the given role
func (t *Transcript) Last(role models.Role) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i := len(t.nodes) - 1; i >= 0; i-- {
		if t.nodes[i].Role == role {
			return t.nodes[i], true
		}
	}
	return Node{}, false
}

// Version increases on every content change
func (t *Transcript) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Changes signals after mutations. Signals coalesce: one pending
// notification stands for any number of changes.
func (t *Transcript) Changes() <-chan struct{} {
	return t.changes
}

func (t *Transcript) notify() {
	select {
	case t.changes <- struct{}{}:
	default:
	}
}
