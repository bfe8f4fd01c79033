package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

const sampleConfig = `
defaults:
  timeout: 5s
  health_samples: 3
providers:
  - name: local
    url: http://127.0.0.1:8545
  - name: remote
    url: ${TXDEBUG_TEST_URL}
    timeout: 20s
`

func TestLoad(t *testing.T) {
	t.Setenv("TXDEBUG_TEST_URL", "https://rpc.example.org/v1")
	path := filepath.Join(t.TempDir(), "providers.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.Timeout != 5*time.Second || cfg.Defaults.HealthSamples != 3 {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
	if len(cfg.Providers) != 2 {
		t.Fatalf("providers = %d, want 2", len(cfg.Providers))
	}
	if cfg.Providers[0].Timeout != 5*time.Second {
		t.Errorf("local timeout = %s, want inherited 5s", cfg.Providers[0].Timeout)
	}
	if cfg.Providers[1].URL != "https://rpc.example.org/v1" || cfg.Providers[1].Timeout != 20*time.Second {
		t.Errorf("remote = %+v", cfg.Providers[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("providers:\n  - name: a\n    url: http://localhost:8545\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Defaults.Timeout != DefaultTimeout || cfg.Defaults.HealthSamples != DefaultHealthSamples {
		t.Errorf("defaults = %+v", cfg.Defaults)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"no providers", "defaults:\n  timeout: 1s\n", "at least one provider"},
		{"unset env url", "providers:\n  - name: a\n    url: ${TXDEBUG_UNSET_VAR}\n", "url is required"},
		{"bad scheme", "providers:\n  - name: a\n    url: ws://localhost:8546\n", "invalid url scheme"},
		{"no host", "providers:\n  - name: a\n    url: http://\n", "missing scheme or host"},
		{"no name", "providers:\n  - url: http://localhost:8545\n", "name is required"},
		{"duplicate", "providers:\n  - name: a\n    url: http://x\n  - name: a\n    url: http://y\n", "duplicate"},
		{"negative samples", "defaults:\n  health_samples: -1\nproviders:\n  - name: a\n    url: http://x\n", "health_samples"},
		{"bad yaml", "providers: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := &Config{
		Defaults: Defaults{Timeout: 3 * time.Second},
		Providers: []Provider{
			{Name: "first", URL: "http://first:8545", Timeout: 3 * time.Second},
			{Name: "second", URL: "http://second:8545", Timeout: 7 * time.Second},
		},
	}

	tests := []struct {
		name     string
		cfg      *Config
		env      string
		provider string
		override string
		wantURL  string
		wantName string
		wantKind rpc.ErrorKind
	}{
		{name: "override wins", cfg: cfg, env: "http://env:8545", provider: "second", override: "http://flag:8545", wantURL: "http://flag:8545", wantName: "custom"},
		{name: "env before provider", cfg: cfg, env: "http://env:8545", provider: "second", wantURL: "http://env:8545", wantName: "env"},
		{name: "named provider", cfg: cfg, provider: "second", wantURL: "http://second:8545", wantName: "second"},
		{name: "first provider", cfg: cfg, wantURL: "http://first:8545", wantName: "first"},
		{name: "env without config", env: "http://env:8545", wantURL: "http://env:8545", wantName: "env"},
		{name: "unknown provider", cfg: cfg, provider: "third", wantKind: rpc.KindConfiguration},
		{name: "nothing configured", wantKind: rpc.KindConfiguration},
		{name: "bad override", cfg: cfg, override: "not a url", wantKind: rpc.KindConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EndpointEnv, tt.env)

			ep, err := Resolve(tt.cfg, tt.provider, tt.override)
			if tt.wantKind != 0 {
				if rpc.KindOf(err) != tt.wantKind {
					t.Fatalf("kind = %v, want %v (err: %v)", rpc.KindOf(err), tt.wantKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ep.URL != tt.wantURL || ep.Name != tt.wantName {
				t.Errorf("Resolve() = %+v, want %s at %s", ep, tt.wantName, tt.wantURL)
			}
			if ep.Timeout == 0 {
				t.Error("resolved timeout is zero")
			}
		})
	}
}
