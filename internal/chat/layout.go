package chat

// Layout keeps the transcript sized to what the input leaves free
type Layout struct {
	container Container
	viewport  Viewport
	input     InputArea
}

// NewLayout creates a layout adjuster
func NewLayout(container Container, viewport Viewport, input InputArea) *Layout {
	return &Layout{container: container, viewport: viewport, input: input}
}

// AdjustHeight sets the container height to the viewport height minus the
// input area height, never below zero, and returns it.
func (l *Layout) AdjustHeight() int {
	h := l.viewport.Height() - l.input.Height()
	if h < 0 {
		h = 0
	}
	l.container.SetHeight(h)
	return h
}
