// Package config loads the provider file and resolves which JSON-RPC
// endpoint a command talks to.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmagro/eth-tx-debugger/internal/rpc"
)

// EndpointEnv names the environment variable that overrides the config file.
const EndpointEnv = "ETHEREUM_RPC_URL"

// Default values applied when the file omits them.
const (
	DefaultTimeout       = 10 * time.Second
	DefaultHealthSamples = 10
)

// Config is the root of config/providers.yaml.
type Config struct {
	Providers []Provider `yaml:"providers"`
	Defaults  Defaults   `yaml:"defaults"`
}

// Provider is one named JSON-RPC endpoint.
type Provider struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`               // supports ${VAR} expansion
	Timeout time.Duration `yaml:"timeout,omitempty"` // inherits Defaults.Timeout when zero
}

type Defaults struct {
	Timeout       time.Duration `yaml:"timeout"`
	HealthSamples int           `yaml:"health_samples"`
}

// Validate applies defaults and checks every provider URL. Unusual
// timeouts are logged as warnings, not rejected.
func (c *Config) Validate() error {
	if c.Defaults.Timeout < 0 {
		return fmt.Errorf("defaults.timeout must be >= 0")
	}
	if c.Defaults.Timeout == 0 {
		c.Defaults.Timeout = DefaultTimeout
	}
	if c.Defaults.HealthSamples < 0 {
		return fmt.Errorf("defaults.health_samples must be >= 0")
	}
	if c.Defaults.HealthSamples == 0 {
		c.Defaults.HealthSamples = DefaultHealthSamples
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("at least one provider is required")
	}

	warnTimeout := func(scope string, d time.Duration) {
		const low = 500 * time.Millisecond
		const high = 2 * time.Minute
		if d < low {
			slog.Warn("timeout is very low; requests may fail under normal network jitter", "scope", scope, "timeout", d)
		}
		if d > high {
			slog.Warn("timeout is very high; failures may take a long time to surface", "scope", scope, "timeout", d)
		}
	}
	warnTimeout("defaults", c.Defaults.Timeout)

	seen := make(map[string]bool, len(c.Providers))
	for i := range c.Providers {
		p := &c.Providers[i]
		if p.Name == "" {
			return fmt.Errorf("provider #%d: name is required", i+1)
		}
		if seen[p.Name] {
			return fmt.Errorf("provider %s: duplicate name", p.Name)
		}
		seen[p.Name] = true

		if p.Timeout == 0 {
			p.Timeout = c.Defaults.Timeout
		}
		if err := ValidateURL(p.URL); err != nil {
			return fmt.Errorf("provider %s: %w", p.Name, err)
		}
		warnTimeout("provider "+p.Name, p.Timeout)
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs.
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url %q (missing scheme or host)", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url scheme %q (expected http or https)", u.Scheme)
	}
	return nil
}

// Load reads, expands and validates a YAML configuration file.
//
// URLs may reference environment variables with ${VAR}; an unset variable
// expands to the empty string and fails validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse is Load without the file read.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Endpoint is a resolved provider ready to dial.
type Endpoint struct {
	Name    string
	URL     string
	Timeout time.Duration
}

// Client builds the JSON-RPC client for the endpoint.
func (e Endpoint) Client() *rpc.Client {
	return rpc.NewClient(e.Name, e.URL, e.Timeout)
}

// Resolve picks the endpoint a command uses, in order: the explicit
// override URL, $ETHEREUM_RPC_URL, the provider called name, the first
// provider. cfg may be nil when no config file was loaded.
func Resolve(cfg *Config, name, override string) (Endpoint, error) {
	timeout := DefaultTimeout
	if cfg != nil {
		timeout = cfg.Defaults.Timeout
	}

	if override != "" {
		if err := ValidateURL(override); err != nil {
			return Endpoint{}, rpc.ConfigurationError("--rpc-url: " + err.Error())
		}
		return Endpoint{Name: "custom", URL: override, Timeout: timeout}, nil
	}
	if env := os.Getenv(EndpointEnv); env != "" {
		if err := ValidateURL(env); err != nil {
			return Endpoint{}, rpc.ConfigurationError(EndpointEnv + ": " + err.Error())
		}
		return Endpoint{Name: "env", URL: env, Timeout: timeout}, nil
	}

	if cfg == nil || len(cfg.Providers) == 0 {
		return Endpoint{}, rpc.ConfigurationError(
			fmt.Sprintf("no RPC endpoint: pass --rpc-url, set %s, or configure a provider", EndpointEnv))
	}
	if name == "" {
		p := cfg.Providers[0]
		return Endpoint{Name: p.Name, URL: p.URL, Timeout: p.Timeout}, nil
	}
	for _, p := range cfg.Providers {
		if p.Name == name {
			return Endpoint{Name: p.Name, URL: p.URL, Timeout: p.Timeout}, nil
		}
	}
	return Endpoint{}, rpc.ConfigurationError(fmt.Sprintf("provider %q not found in config", name))
}
