// Package config handles configuration for webchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/diogo/webchat/internal/models"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// ServerURL is the base URL of the chat server, e.g. http://localhost:5000
	ServerURL string `json:"server_url"`
	// Transport selects how messages reach the server: json, stream or sse.
	Transport string `json:"transport"`
	// RequestTimeout bounds non-streaming requests, in seconds. Streams are
	// bounded only by cancellation.
	RequestTimeout int `json:"request_timeout"`
	// SuppressEmpty drops blank submissions instead of sending them.
	SuppressEmpty bool `json:"suppress_empty"`
	// FocusDelayMs is how long to wait after the input gains focus before
	// recomputing the layout.
	FocusDelayMs    int            `json:"focus_delay_ms"`
	Verbose         bool           `json:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty"`
	LogFile         string         `json:"log_file,omitempty"`
	Markdown        MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		ServerURL:       "http://localhost:5000",
		Transport:       models.TransportJSON,
		RequestTimeout:  120,
		SuppressEmpty:   false,
		FocusDelayMs:    300,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		LogFile:         filepath.Join(homeDir, ".webchat", "webchat.log"),
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Timeout returns RequestTimeout as a duration
func (c Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// FocusDelay returns FocusDelayMs as a duration
func (c Config) FocusDelay() time.Duration {
	return time.Duration(c.FocusDelayMs) * time.Millisecond
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server_url must not be empty")
	}
	if !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must start with http:// or https://, got %q", c.ServerURL)
	}
	if !models.IsValidTransport(c.Transport) {
		return fmt.Errorf("unknown transport %q (available: %s)", c.Transport, strings.Join(models.AvailableTransports(), ", "))
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.FocusDelayMs < 0 {
		return fmt.Errorf("focus_delay_ms must not be negative")
	}
	return nil
}

// Set assigns a configuration value by its JSON key
func (c *Config) Set(key, value string) error {
	switch key {
	case "server_url":
		c.ServerURL = strings.TrimRight(value, "/")
	case "transport":
		if !models.IsValidTransport(value) {
			return fmt.Errorf("unknown transport %q", value)
		}
		c.Transport = value
	case "request_timeout":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("request_timeout must be a non-negative integer")
		}
		c.RequestTimeout = n
	case "focus_delay_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("focus_delay_ms must be a non-negative integer")
		}
		c.FocusDelayMs = n
	case "suppress_empty", "verbose", "copy_to_clipboard":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false", key)
		}
		switch key {
		case "suppress_empty":
			c.SuppressEmpty = b
		case "verbose":
			c.Verbose = b
		default:
			c.CopyToClipboard = b
		}
	case "tui_theme":
		c.TUITheme = value
	case "log_file":
		c.LogFile = value
	case "markdown.style":
		c.Markdown.Style = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".webchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
