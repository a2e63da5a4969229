// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

// Package config loads and validates the application configuration from
// layered sources: built-in defaults, an optional YAML file, and environment
// variables, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/viralforge/internal/viral"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Engine  EngineConfig  `koanf:"engine"`
	Storage StorageConfig `koanf:"storage"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host"`

	// Port is the listen port.
	Port int `koanf:"port"`

	// Timeout bounds request read/write; also the base for the server's
	// graceful shutdown deadline.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs is the per-IP request budget per RateLimitWindow.
	// Zero disables rate limiting.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit accounting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`
}

// EngineConfig mirrors the learning engine tunables.
type EngineConfig struct {
	MaxPatterns      int           `koanf:"max_patterns"`
	PatternThreshold float64       `koanf:"pattern_threshold"`
	HistorySize      int           `koanf:"history_size"`
	SuccessAlpha     float64       `koanf:"success_alpha"`
	MetricAlpha      float64       `koanf:"metric_alpha"`
	ConfidenceStep   float64       `koanf:"confidence_step"`
	MinMatchScore    float64       `koanf:"min_match_score"`
	RetentionMaxAge  time.Duration `koanf:"retention_max_age"`
	RetentionMinRate float64       `koanf:"retention_min_success_rate"`
	RetentionMinUse  int           `koanf:"retention_min_usage_count"`

	// SweepInterval is how often the maintenance service runs the
	// retention sweep and flushes dirty state.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// StorageConfig controls persistence.
type StorageConfig struct {
	// Backend selects the snapshot store: file or badger.
	Backend string `koanf:"backend"`

	// DataDir is the root directory for snapshots, exports, and the
	// badger database.
	DataDir string `koanf:"data_dir"`
}

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	engine := viral.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Engine: EngineConfig{
			MaxPatterns:      engine.MaxPatterns,
			PatternThreshold: engine.PatternThreshold,
			HistorySize:      engine.HistorySize,
			SuccessAlpha:     engine.SuccessAlpha,
			MetricAlpha:      engine.MetricAlpha,
			ConfidenceStep:   engine.ConfidenceStep,
			MinMatchScore:    engine.MinMatchScore,
			RetentionMaxAge:  engine.Retention.MaxAge,
			RetentionMinRate: engine.Retention.MinSuccessRate,
			RetentionMinUse:  engine.Retention.MinUsageCount,
			SweepInterval:    1 * time.Hour,
		},
		Storage: StorageConfig{
			Backend: "file",
			DataDir: "/data/viralforge",
		},
	}
}

// ToEngineConfig converts the flat engine section into the viral package's
// configuration type.
func (c *EngineConfig) ToEngineConfig() *viral.Config {
	return &viral.Config{
		MaxPatterns:      c.MaxPatterns,
		PatternThreshold: c.PatternThreshold,
		HistorySize:      c.HistorySize,
		SuccessAlpha:     c.SuccessAlpha,
		MetricAlpha:      c.MetricAlpha,
		ConfidenceStep:   c.ConfidenceStep,
		MinMatchScore:    c.MinMatchScore,
		Retention: viral.RetentionConfig{
			MaxAge:         c.RetentionMaxAge,
			MinSuccessRate: c.RetentionMinRate,
			MinUsageCount:  c.RetentionMinUse,
		},
	}
}

// Validate checks the configuration for consistency. Engine tunables are
// validated by the viral package's own Validate.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1,65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("server.rate_limit_reqs must be non-negative, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitReqs > 0 && c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("server.rate_limit_window must be positive when rate limiting is enabled, got %v", c.Server.RateLimitWindow)
	}

	switch c.Storage.Backend {
	case "file", "badger":
	default:
		return fmt.Errorf("storage.backend must be file or badger, got %q", c.Storage.Backend)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir must not be empty")
	}

	if c.Engine.SweepInterval <= 0 {
		return fmt.Errorf("engine.sweep_interval must be positive, got %v", c.Engine.SweepInterval)
	}
	if err := c.Engine.ToEngineConfig().Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	return nil
}
