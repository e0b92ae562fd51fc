package render

import (
	"strings"
	"testing"

	"github.com/diogo/webchat/internal/config"
)

func TestCacheKey(t *testing.T) {
	base := DefaultOptions()

	if cacheKey(base) == cacheKey(base.WithWidth(100)) {
		t.Error("Different widths should produce different keys")
	}
	if cacheKey(base) == cacheKey(base.WithStyle("light")) {
		t.Error("Different styles should produce different keys")
	}
	if cacheKey(base) != cacheKey(DefaultOptions()) {
		t.Error("Same options should produce same key")
	}
}

func TestPoolReuse(t *testing.T) {
	ClearCache()
	defer ClearCache()

	opts := DefaultOptions().WithStyle("notty")

	r, err := globalPool.get(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	globalPool.put(opts, r)
	globalPool.put(opts, nil)

	if _, err := globalPool.get(opts.WithWidth(40)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("expected 2 pooled option sets, got %d", CacheSize())
	}
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown("**hello** world", DefaultOptions().WithStyle("notty"))
	if err != nil {
		t.Fatalf("Markdown() error: %v", err)
	}
	if !strings.Contains(out, "hello") || !strings.Contains(out, "world") {
		t.Errorf("Markdown() = %q", out)
	}
}

func TestTerminal(t *testing.T) {
	fragment := SanitizedHTML("Some *text* and `code`")

	out, err := Terminal(fragment, DefaultOptions().WithStyle("notty"))
	if err != nil {
		t.Fatalf("Terminal() error: %v", err)
	}
	for _, want := range []string{"Some", "text", "code"} {
		if !strings.Contains(out, want) {
			t.Errorf("Terminal() = %q, want it to contain %q", out, want)
		}
	}
	if strings.HasSuffix(out, "\n") {
		t.Error("Terminal() should trim trailing newlines")
	}
}

func TestTerminal_ResanitizesInput(t *testing.T) {
	out, err := Terminal(`<p>ok</p><script>alert("x")</script>`, DefaultOptions().WithStyle("notty"))
	if err != nil {
		t.Fatalf("Terminal() error: %v", err)
	}
	if strings.Contains(out, "alert") {
		t.Errorf("Terminal() leaked script content: %q", out)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Hi there</p>", "Hi there"},
		{"<p><strong>bold</strong> text</p>", "bold text"},
		{"", ""},
		{"  <p> padded </p>\n", "padded"},
	}

	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Setenv("GLAMOUR_STYLE", "")

	cfg := config.DefaultConfig()
	cfg.Markdown.Style = "light"
	cfg.Markdown.EnableEmoji = false

	opts := OptionsFromConfig(cfg)
	if opts.Style != "light" {
		t.Errorf("Style = %q, want light", opts.Style)
	}
	if opts.EnableEmoji {
		t.Error("EnableEmoji should follow config")
	}

	t.Setenv("GLAMOUR_STYLE", "notty")
	if got := OptionsFromConfig(cfg).Style; got != "notty" {
		t.Errorf("GLAMOUR_STYLE should win, got %q", got)
	}
}

func TestTUIThemes(t *testing.T) {
	names := TUIThemeNames()
	if len(names) == 0 {
		t.Fatal("expected built-in themes")
	}
	for _, name := range names {
		if !SetTUITheme(name) {
			t.Errorf("SetTUITheme(%q) = false", name)
		}
		theme := GetTUITheme()
		if theme.Name != name {
			t.Errorf("active theme = %q, want %q", theme.Name, name)
		}
		if theme.User == "" || theme.AI == "" || theme.System == "" {
			t.Errorf("theme %q is missing role colors", name)
		}
	}

	SetTUITheme(DefaultTUITheme)
	if SetTUITheme("does-not-exist") {
		t.Error("unknown theme should be rejected")
	}
	if GetTUITheme().Name != DefaultTUITheme {
		t.Error("unknown theme should leave the active theme unchanged")
	}
}
