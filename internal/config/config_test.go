package config

import (
	"testing"
	"time"

	"github.com/ochairo/sheetfetch/internal/domain-adapters/gateways"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	if cfg.OutputDir != "data" {
		t.Errorf("expected default output dir data, got %s", cfg.OutputDir)
	}
	if cfg.Timeout != 5*time.Minute {
		t.Errorf("expected default timeout 5m, got %v", cfg.Timeout)
	}
	if cfg.UserAgent != gateways.DefaultUserAgent {
		t.Errorf("expected default user agent, got %s", cfg.UserAgent)
	}
	if !cfg.TrackChanges {
		t.Error("expected change tracking on by default")
	}
	if cfg.TargetsFile != "" {
		t.Errorf("expected built-in targets by default, got %s", cfg.TargetsFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvOutputDir, "/tmp/sheets")
	t.Setenv(EnvTimeout, "90s")
	t.Setenv(EnvTargets, "targets.yml")
	t.Setenv(EnvUserAgent, "sheetfetch/1.0")
	t.Setenv(EnvNoBackup, "TRUE")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}

	if cfg.OutputDir != "/tmp/sheets" {
		t.Errorf("expected output dir /tmp/sheets, got %s", cfg.OutputDir)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("expected timeout 90s, got %v", cfg.Timeout)
	}
	if cfg.TargetsFile != "targets.yml" {
		t.Errorf("expected targets file targets.yml, got %s", cfg.TargetsFile)
	}
	if cfg.UserAgent != "sheetfetch/1.0" {
		t.Errorf("expected user agent sheetfetch/1.0, got %s", cfg.UserAgent)
	}
	if cfg.TrackChanges {
		t.Error("expected change tracking disabled")
	}
}

func TestLoadFromEnv_Unset(t *testing.T) {
	t.Setenv(EnvOutputDir, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvNoBackup, "0")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults to be untouched, got %+v", cfg)
	}
}

func TestLoadFromEnv_InvalidTimeout(t *testing.T) {
	t.Setenv(EnvTimeout, "five minutes")

	cfg := Default()
	if err := cfg.LoadFromEnv(); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "empty output dir", modify: func(c *Config) { c.OutputDir = " " }, wantErr: true},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "negative timeout", modify: func(c *Config) { c.Timeout = -time.Second }, wantErr: true},
		{name: "empty user agent", modify: func(c *Config) { c.UserAgent = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	merged := base.Merge(Config{
		OutputDir:   "out",
		Timeout:     time.Minute,
		SummaryPath: "summary.json",
	})

	if merged.OutputDir != "out" {
		t.Errorf("expected output dir out, got %s", merged.OutputDir)
	}
	if merged.Timeout != time.Minute {
		t.Errorf("expected timeout 1m, got %v", merged.Timeout)
	}
	if merged.SummaryPath != "summary.json" {
		t.Errorf("expected summary path, got %s", merged.SummaryPath)
	}
	if merged.UserAgent != base.UserAgent {
		t.Errorf("zero override should keep user agent, got %s", merged.UserAgent)
	}
	if !merged.TrackChanges {
		t.Error("merge should not touch change tracking")
	}
}
