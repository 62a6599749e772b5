// Package config holds runtime settings for sheetfetch.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ochairo/sheetfetch/internal/domain-adapters/gateways"
)

// Environment variables that override defaults
const (
	EnvOutputDir = "SHEETFETCH_OUTPUT_DIR"
	EnvTimeout   = "SHEETFETCH_TIMEOUT"
	EnvTargets   = "SHEETFETCH_TARGETS"
	EnvUserAgent = "SHEETFETCH_USER_AGENT"
	EnvNoBackup  = "SHEETFETCH_NO_BACKUP"
)

// Config defines configuration for the sheetfetch CLI.
type Config struct {
	OutputDir    string
	TargetsFile  string // Empty selects the built-in targets
	Timeout      time.Duration
	UserAgent    string
	TrackChanges bool
	SummaryPath  string
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		OutputDir:    "data",
		Timeout:      5 * time.Minute,
		UserAgent:    gateways.DefaultUserAgent,
		TrackChanges: true,
	}
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SHEETFETCH_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvTargets); v != "" {
		c.TargetsFile = v
	}
	if v := os.Getenv(EnvUserAgent); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvTimeout, err)
		}
		c.Timeout = d
	}
	if v := strings.ToLower(os.Getenv(EnvNoBackup)); v == "true" || v == "1" {
		c.TrackChanges = false
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("config: output directory is required")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.UserAgent == "" {
		return errors.New("config: user agent is required")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored. TrackChanges is not merged.
func (c Config) Merge(override Config) Config {
	if override.OutputDir != "" {
		c.OutputDir = override.OutputDir
	}
	if override.TargetsFile != "" {
		c.TargetsFile = override.TargetsFile
	}
	if override.Timeout != 0 {
		c.Timeout = override.Timeout
	}
	if override.UserAgent != "" {
		c.UserAgent = override.UserAgent
	}
	if override.SummaryPath != "" {
		c.SummaryPath = override.SummaryPath
	}
	return c
}
