// Package render turns chat message markup into sanitized HTML and terminal output.
package render

import (
	"os"

	"github.com/diogo/webchat/internal/config"
)

// Options controls how a sanitized fragment is drawn on a terminal
type Options struct {
	Width            int    // wrap column
	Style            string // glamour style name or path to a JSON style
	EnableEmoji      bool
	PreserveNewLines bool
	TableWrap        bool
}

// DefaultOptions is an 80 column dark style
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// OptionsFromConfig reads the markdown section of cfg.
// A non-empty GLAMOUR_STYLE wins over the configured style.
func OptionsFromConfig(cfg config.Config) Options {
	opts := DefaultOptions()
	if cfg.Markdown.Style != "" {
		opts.Style = cfg.Markdown.Style
	}
	opts.EnableEmoji = cfg.Markdown.EnableEmoji
	opts.PreserveNewLines = cfg.Markdown.PreserveNewLines
	opts.TableWrap = cfg.Markdown.TableWrap

	if env := os.Getenv("GLAMOUR_STYLE"); env != "" {
		opts.Style = env
	}
	return opts
}

func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}
