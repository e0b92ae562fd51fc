package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyLookup(t *testing.T) {
	env := map[string]string{
		EnvServerURL: " http://remote:9000/ ",
		EnvTransport: "STREAM",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	applyLookup(&cfg, lookup)

	if cfg.ServerURL != "http://remote:9000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.Transport != "stream" {
		t.Errorf("Transport = %q", cfg.Transport)
	}
}

func TestApplyLookup_EmptyValuesIgnored(t *testing.T) {
	lookup := func(k string) (string, bool) { return "", true }

	cfg := DefaultConfig()
	applyLookup(&cfg, lookup)

	if cfg.ServerURL != DefaultConfig().ServerURL {
		t.Errorf("ServerURL changed to %q", cfg.ServerURL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("WEBCHAT_TRANSPORT=sse\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// t.Setenv registers cleanup; unset afterwards so godotenv can set it
	t.Setenv(EnvTransport, "")
	os.Unsetenv(EnvTransport)

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadDotEnv() returned error: %v", err)
	}
	if got := os.Getenv(EnvTransport); got != "sse" {
		t.Errorf("%s = %q, want sse", EnvTransport, got)
	}

	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	if cfg.Transport != "sse" {
		t.Errorf("Transport = %q, want sse", cfg.Transport)
	}
}

func TestLoadDotEnv_NoFiles(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Errorf("LoadDotEnv() with no files returned %v", err)
	}
}
