package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("base-url", "http://127.0.0.1:8080", "")
	flags.String("log-level", "warn", "")
	flags.Duration("timeout", 0, "")
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return flags
}

func load(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	v := viper.New()
	Defaults(v)
	if err := BindFlags(v, newFlags(t, args...)); err != nil {
		t.Fatalf("BindFlags() error = %v", err)
	}
	return Load(v)
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "http://127.0.0.1:8080" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Timeout != 0 {
		t.Errorf("Timeout = %s, want no timeout", cfg.Timeout)
	}
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTORCTL_BASE_URL", "http://backend:9000")
	t.Setenv("AUTORCTL_LOG_LEVEL", "debug")

	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "http://backend:9000" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTORCTL_BASE_URL", "http://backend:9000")

	cfg, err := load(t, "--base-url", "http://localhost:8081", "--timeout", "3s")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BaseURL != "http://localhost:8081" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %s", cfg.Timeout)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing scheme", []string{"--base-url", "127.0.0.1:8080"}},
		{"unsupported scheme", []string{"--base-url", "ftp://127.0.0.1"}},
		{"missing host", []string{"--base-url", "http://"}},
		{"negative timeout", []string{"--timeout=-1s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			if _, err := load(t, tt.args...); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
