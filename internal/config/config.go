// Package config handles loading and saving user configuration for hoverword.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/f3rmion/hoverword/internal/agent"
	"github.com/f3rmion/hoverword/internal/lookup"
	"github.com/f3rmion/hoverword/internal/resolve"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file inside the config directory.
	FileName = "config.yaml"
	// SettingsFileName is the settings database inside the config directory.
	SettingsFileName = "settings.db"
)

// Config holds all user configuration for the agent.
type Config struct {
	Variant        string        `yaml:"variant"`         // phrase or single
	MaxWords       int           `yaml:"max_words"`       // Word bound for phrase lookups
	Debounce       time.Duration `yaml:"debounce"`        // Selection settle time
	RetryDelay     time.Duration `yaml:"retry_delay"`     // Delay before re-probing the service
	RetryPolicy    string        `yaml:"retry_policy"`    // interval or interaction
	EmptySelection string        `yaml:"empty_selection"` // clear or suppress
	RequestTimeout time.Duration `yaml:"request_timeout"` // Per-request HTTP timeout
	MaxInFlight    int           `yaml:"max_in_flight"`   // Concurrent lookup requests
	Browser        BrowserConfig `yaml:"browser"`
}

// BrowserConfig holds settings for the browser host.
type BrowserConfig struct {
	Headless   bool   `yaml:"headless"`
	Bin        string `yaml:"bin,omitempty"`         // Chrome binary, empty to let rod pick one
	ControlURL string `yaml:"control_url,omitempty"` // Attach to a running Chrome instead of launching
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Variant:        resolve.Phrase.String(),
		MaxWords:       resolve.DefaultMaxWords,
		Debounce:       agent.DefaultDebounce,
		RetryDelay:     agent.DefaultRetryDelay,
		RetryPolicy:    agent.RetryInterval.String(),
		EmptySelection: agent.ClearOnEmpty.String(),
		RequestTimeout: 5 * time.Second,
		MaxInFlight:    lookup.DefaultMaxInFlight,
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Validate checks that every enumerated field holds a known value and that
// numeric fields are positive.
func (c *Config) Validate() error {
	if _, err := resolve.ParseVariant(c.Variant); err != nil {
		return err
	}
	if _, err := agent.ParseRetryPolicy(c.RetryPolicy); err != nil {
		return err
	}
	if _, err := agent.ParseEmptySelectionPolicy(c.EmptySelection); err != nil {
		return err
	}
	if c.MaxWords < 1 {
		return fmt.Errorf("max_words must be at least 1, got %d", c.MaxWords)
	}
	if c.Debounce <= 0 || c.RetryDelay <= 0 || c.RequestTimeout <= 0 {
		return errors.New("debounce, retry_delay and request_timeout must be positive")
	}
	if c.MaxInFlight < 1 {
		return fmt.Errorf("max_in_flight must be at least 1, got %d", c.MaxInFlight)
	}
	return nil
}

// AgentOptions converts the configuration into agent options. Clock, Logger
// and Observer are left for the caller.
func (c *Config) AgentOptions() (agent.Options, error) {
	variant, err := resolve.ParseVariant(c.Variant)
	if err != nil {
		return agent.Options{}, err
	}
	retry, err := agent.ParseRetryPolicy(c.RetryPolicy)
	if err != nil {
		return agent.Options{}, err
	}
	empty, err := agent.ParseEmptySelectionPolicy(c.EmptySelection)
	if err != nil {
		return agent.Options{}, err
	}

	return agent.Options{
		Resolver:       resolve.New(variant, c.MaxWords),
		Debounce:       c.Debounce,
		RetryDelay:     c.RetryDelay,
		RetryPolicy:    retry,
		EmptySelection: empty,
	}, nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hoverword"), nil
}
