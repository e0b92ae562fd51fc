package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServerURL != "http://localhost:5000" {
		t.Errorf("Expected default server URL 'http://localhost:5000', got '%s'", cfg.ServerURL)
	}
	if cfg.Transport != "json" {
		t.Errorf("Expected default transport 'json', got '%s'", cfg.Transport)
	}
	if cfg.SuppressEmpty {
		t.Error("Expected SuppressEmpty to be false")
	}
	if cfg.FocusDelay() != 300*time.Millisecond {
		t.Errorf("Expected focus delay 300ms, got %v", cfg.FocusDelay())
	}
	if cfg.Timeout() != 120*time.Second {
		t.Errorf("Expected timeout 120s, got %v", cfg.Timeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	want := filepath.Join(home, ".webchat", "config.json")
	if path != want {
		t.Errorf("GetConfigPath() = %s, want %s", path, want)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Transport != DefaultConfig().Transport {
		t.Errorf("Expected defaults, got transport %q", cfg.Transport)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.ServerURL = "http://chat.local:8080"
	cfg.Transport = "stream"
	cfg.SuppressEmpty = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	info, err := os.Stat(filepath.Join(home, ".webchat", "config.json"))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config file mode = %o, want 600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if loaded.ServerURL != cfg.ServerURL || loaded.Transport != cfg.Transport || !loaded.SuppressEmpty {
		t.Errorf("LoadConfig() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".webchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	data, _ := json.Marshal(map[string]any{"transport": "sse"})
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Transport != "sse" {
		t.Errorf("Transport = %q, want sse", cfg.Transport)
	}
	if cfg.ServerURL != "http://localhost:5000" {
		t.Errorf("ServerURL = %q, want default", cfg.ServerURL)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".webchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.Transport != "json" {
		t.Errorf("expected defaults on parse error, got %q", cfg.Transport)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty url", func(c *Config) { c.ServerURL = " " }, true},
		{"no scheme", func(c *Config) { c.ServerURL = "localhost:5000" }, true},
		{"https", func(c *Config) { c.ServerURL = "https://chat.example.com" }, false},
		{"bad transport", func(c *Config) { c.Transport = "carrier-pigeon" }, true},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -1 }, true},
		{"negative focus delay", func(c *Config) { c.FocusDelayMs = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		check   func(Config) bool
		wantErr bool
	}{
		{"server_url", "http://x:1/", func(c Config) bool { return c.ServerURL == "http://x:1" }, false},
		{"transport", "stream", func(c Config) bool { return c.Transport == "stream" }, false},
		{"transport", "nope", nil, true},
		{"request_timeout", "30", func(c Config) bool { return c.RequestTimeout == 30 }, false},
		{"request_timeout", "-1", nil, true},
		{"focus_delay_ms", "0", func(c Config) bool { return c.FocusDelayMs == 0 }, false},
		{"suppress_empty", "true", func(c Config) bool { return c.SuppressEmpty }, false},
		{"verbose", "yes", nil, true},
		{"copy_to_clipboard", "1", func(c Config) bool { return c.CopyToClipboard }, false},
		{"markdown.style", "light", func(c Config) bool { return c.Markdown.Style == "light" }, false},
		{"tui_theme", "nord", func(c Config) bool { return c.TUITheme == "nord" }, false},
		{"unknown", "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("Set(%q, %q) did not apply: %+v", tt.key, tt.value, cfg)
			}
		})
	}
}
