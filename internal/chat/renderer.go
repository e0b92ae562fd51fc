package chat

import (
	"github.com/diogo/webchat/internal/models"
	"github.com/diogo/webchat/internal/render"
	"github.com/diogo/webchat/internal/transcript"
)

// Renderer turns raw message content into sanitized nodes in a container.
// It is the only writer of the container.
type Renderer struct {
	container Container
}

// NewRenderer creates a renderer writing into container
func NewRenderer(container Container) *Renderer {
	return &Renderer{container: container}
}

// Render converts content from markdown, sanitizes it, appends it to the
// container and scrolls to the bottom. Unknown roles render as ai.
func (r *Renderer) Render(content string, role models.Role) transcript.Node {
	n := r.node(content, role)
	r.container.Append(n)
	r.container.ScrollToBottom()
	return n
}

// Replace swaps the whole container for msgs, rendered in order
func (r *Renderer) Replace(msgs []models.Message) []transcript.Node {
	nodes := make([]transcript.Node, 0, len(msgs))
	for _, m := range msgs {
		nodes = append(nodes, r.node(m.Content, m.Role))
	}
	r.container.Replace(nodes)
	r.container.ScrollToBottom()
	return nodes
}

// Clear empties the container
func (r *Renderer) Clear() {
	r.container.Replace(nil)
}

func (r *Renderer) node(content string, role models.Role) transcript.Node {
	role = models.ParseRole(string(role))
	return transcript.NewNode(role, content, render.SanitizedHTML(content))
}
