package render

import (
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	converterOnce sync.Once
	converter     *md.Converter
)

func htmlConverter() *md.Converter {
	converterOnce.Do(func() {
		converter = md.NewConverter("", true, nil)
	})
	return converter
}

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// Terminal renders a sanitized HTML fragment for the terminal.
// The fragment is sanitized again, converted back to markdown and drawn by glamour.
func Terminal(fragment string, opts Options) (string, error) {
	source, err := htmlConverter().ConvertString(Sanitize(fragment))
	if err != nil {
		return "", err
	}
	out, err := Markdown(source, opts)
	if err != nil {
		return source, err
	}
	return strings.TrimRight(out, "\n"), nil
}

// Text returns the visible text of an HTML fragment.
func Text(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Text())
}
