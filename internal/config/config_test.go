package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.API.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.API.BaseURL, DefaultBaseURL)
	}
	if cfg.Events.Delay() != 3*time.Second {
		t.Errorf("Delay() = %v, want 3s", cfg.Events.Delay())
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[api]
base_url = "http://jukebox.local:9000"
retries = 0

[tail]
emoji = false
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != "http://jukebox.local:9000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Retries != 0 {
		t.Errorf("Retries = %d, want 0 (explicit)", cfg.API.Retries)
	}
	if cfg.Tail.Emoji {
		t.Error("Tail.Emoji = true, want false")
	}
	if cfg.API.Timeout != 30 {
		t.Errorf("Timeout = %d, want default 30", cfg.API.Timeout)
	}
}

func TestLoadFromMissing(t *testing.T) {
	if _, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadFrom() should fail for a missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("JUKEBOX_API_BASE_URL", "http://10.0.0.5:8000")
	t.Setenv("JUKEBOX_EVENTS_RECONNECT_DELAY", "500")
	t.Setenv("JUKEBOX_LOG_LEVEL", "debug")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.API.BaseURL != "http://10.0.0.5:8000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Events.ReconnectDelay != 500 {
		t.Errorf("ReconnectDelay = %d", cfg.Events.ReconnectDelay)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://x" }, "scheme"},
		{"no host", func(c *Config) { c.API.BaseURL = "http://" }, "missing host"},
		{"retries", func(c *Config) { c.API.Retries = 50 }, "retries"},
		{"events path", func(c *Config) { c.Events.Path = "events" }, "must start with /"},
		{"theme", func(c *Config) { c.TUI.Theme = "neon" }, "invalid theme"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestSetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jukebox", "config.toml")

	if err := SetValue(path, "api.base_url", "http://pi.local:8000"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := SetValue(path, "tui.volume_step", "10"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}
	if err := SetValue(path, "tail.notify", "true"); err != nil {
		t.Fatalf("SetValue() error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.BaseURL != "http://pi.local:8000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.TUI.VolumeStep != 10 {
		t.Errorf("VolumeStep = %d", cfg.TUI.VolumeStep)
	}
	if !cfg.Tail.Notify {
		t.Error("Notify = false")
	}
}

func TestSetValueRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	if err := SetValue(path, "api", "x"); err == nil {
		t.Error("expected error for key without section")
	}
	if err := SetValue(path, "api.nope", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := SetValue(path, "api.timeout", "soon"); err == nil {
		t.Error("expected error for non-integer")
	}
	if err := SetValue(path, "tui.theme", "neon"); err == nil {
		t.Error("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("rejected values should not create the file")
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if err := WriteDefault(path); err == nil {
		t.Error("WriteDefault() should refuse to overwrite")
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API.Retries != 3 {
		t.Errorf("Retries = %d, want 3", cfg.API.Retries)
	}
}
