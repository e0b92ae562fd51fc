package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/webchat/internal/models"
	"github.com/diogo/webchat/internal/render"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
	ExportFormatHTML     ExportFormat = "html"
)

// ParseExportFormat validates a format name
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(s)); f {
	case ExportFormatMarkdown, ExportFormatJSON, ExportFormatHTML:
		return f, nil
	case "md":
		return ExportFormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown, json or html)", s)
	}
}

// FormatForPath picks an export format from a file extension, defaulting to markdown
func FormatForPath(path string) ExportFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ExportFormatJSON
	case ".html", ".htm":
		return ExportFormatHTML
	default:
		return ExportFormatMarkdown
	}
}

// Export renders nodes in the given format
func Export(nodes []Node, format ExportFormat) (string, error) {
	switch format {
	case ExportFormatMarkdown:
		return ExportMarkdown(nodes), nil
	case ExportFormatJSON:
		return ExportJSON(nodes)
	case ExportFormatHTML:
		return ExportHTML(nodes)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// ExportMarkdown writes each message under a role heading, using the raw source
func ExportMarkdown(nodes []Node) string {
	var sb strings.Builder

	sb.WriteString("# Chat transcript\n\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(nodes)))

	for i, n := range nodes {
		sb.WriteString("## ")
		sb.WriteString(n.Role.Label())
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(n.Source))
		sb.WriteString("\n")
		if i < len(nodes)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportJSON writes the history wire shape: [{content, role}]
func ExportJSON(nodes []Node) (string, error) {
	msgs := make([]models.Message, len(nodes))
	for i, n := range nodes {
		msgs[i] = models.Message{Content: n.Source, Role: n.Role}
	}
	data, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal transcript: %w", err)
	}
	return string(data), nil
}

var htmlDoc = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Chat transcript</title>
<style>
#chatbox { font-family: sans-serif; max-width: 48em; margin: auto; }
#chatbox > div { padding: .5em 1em; margin: .5em 0; border-radius: .5em; }
.user-message { background: #e3f2fd; margin-left: 4em !important; }
.ai-message { background: #f1f1f1; margin-right: 4em !important; }
.system-message { background: #fff3e0; font-style: italic; }
</style>
</head>
<body>
<div id="chatbox" data-exported="{{.Exported}}">
{{range .Nodes}}<div id="msg-{{.ID}}" class="{{.Class}}">{{.Body}}</div>
{{end}}</div>
</body>
</html>
`))

type htmlNode struct {
	ID    string
	Class string
	Body  template.HTML
}

// ExportHTML writes a standalone HTML page.
func ExportHTML(nodes []Node) (string, error) {
	data := struct {
		Exported string
		Nodes    []htmlNode
	}{
		Exported: time.Now().UTC().Format(time.RFC3339),
	}
	for _, n := range nodes {
		data.Nodes = append(data.Nodes, htmlNode{
			ID:    n.ID,
			Class: n.Class,
			Body:  template.HTML(render.Sanitize(n.HTML)),
		})
	}

	var buf bytes.Buffer
	if err := htmlDoc.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render transcript: %w", err)
	}
	return buf.String(), nil
}
