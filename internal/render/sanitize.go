package render

import (
	"bytes"
	"html"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Raw HTML in messages is passed through the markdown stage and removed by
// the sanitizer, the same split a browser markdown library plus a purifier uses.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+-]+$`)).OnElements("code")
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// SanitizedHTML converts message markup to HTML and strips anything executable.
// It never returns unsanitized output.
func SanitizedHTML(content string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		buf.Reset()
		buf.WriteString("<p>")
		buf.WriteString(html.EscapeString(content))
		buf.WriteString("</p>")
	}
	return policy.Sanitize(buf.String())
}

// Sanitize strips unsafe markup from an HTML fragment.
func Sanitize(fragment string) string {
	return policy.Sanitize(fragment)
}
