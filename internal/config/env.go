package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file
const (
	EnvServerURL = "WEBCHAT_SERVER_URL"
	EnvTransport = "WEBCHAT_TRANSPORT"
)

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// ApplyEnv overrides cfg with values from the environment
func ApplyEnv(cfg *Config) {
	applyLookup(cfg, os.LookupEnv)
}

func applyLookup(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvServerURL); ok && strings.TrimSpace(v) != "" {
		cfg.ServerURL = strings.TrimRight(strings.TrimSpace(v), "/")
	}
	if v, ok := lookup(EnvTransport); ok && strings.TrimSpace(v) != "" {
		cfg.Transport = strings.ToLower(strings.TrimSpace(v))
	}
}

// Load reads the config file, then applies .env and environment overrides.
func Load() (Config, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return cfg, err
	}
	if err := LoadDotEnv(".env"); err != nil {
		return cfg, err
	}
	ApplyEnv(&cfg)
	return cfg, nil
}
