// Package config loads and validates the docconv CLI configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-docconv/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrInvalidWorkers  = errors.New("invalid worker count")
)

// Worker bounds; GOMAXPROCS-based auto-sizing applies within them.
const (
	MinWorkers = 1
	MaxWorkers = 16
)

// Config holds CLI configuration for conversions.
type Config struct {
	Timeout  string                   `yaml:"timeout"`  // Go duration string, empty = library default
	Workers  int                      `yaml:"workers"`  // 0 = auto
	Backends map[string]BackendConfig `yaml:"backends"` // keyed by backend name
}

// BackendConfig tunes one backend without changing code.
type BackendConfig struct {
	Disabled bool   `yaml:"disabled"` // exclude from every request
	Path     string `yaml:"path"`     // explicit binary path override
}

// DefaultConfig returns a neutral configuration.
func DefaultConfig() *Config {
	return &Config{Backends: map[string]BackendConfig{}}
}

// Validate checks timeout syntax and worker bounds.
func (c *Config) Validate() error {
	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, c.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, c.Timeout)
		}
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: %d (must be 0-%d, 0 = auto)", ErrInvalidWorkers, c.Workers, MaxWorkers)
	}
	return nil
}

// ParsedTimeout returns the configured timeout, or zero when unset.
// Call Validate first; a malformed value parses as zero here.
func (c *Config) ParsedTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// DisabledBackends returns the names of backends marked disabled,
// for use as a request exclusion set.
func (c *Config) DisabledBackends() []string {
	var names []string
	for name, bc := range c.Backends {
		if bc.Disabled {
			names = append(names, name)
		}
	}
	return names
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if strings.ContainsAny(nameOrPath, "/\\") {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/docconv/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "docconv", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
