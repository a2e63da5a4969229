// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := defaultConfig().Validate(); err != nil {
		t.Errorf("default configuration fails validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults pass",
			mutate: func(*Config) {},
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "non-positive timeout",
			mutate:  func(c *Config) { c.Server.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative rate limit",
			mutate:  func(c *Config) { c.Server.RateLimitReqs = -1 },
			wantErr: true,
		},
		{
			name: "rate limiting without window",
			mutate: func(c *Config) {
				c.Server.RateLimitReqs = 100
				c.Server.RateLimitWindow = 0
			},
			wantErr: true,
		},
		{
			name: "rate limiting disabled ignores window",
			mutate: func(c *Config) {
				c.Server.RateLimitReqs = 0
				c.Server.RateLimitWindow = 0
			},
		},
		{
			name:    "unknown storage backend",
			mutate:  func(c *Config) { c.Storage.Backend = "redis" },
			wantErr: true,
		},
		{
			name:   "badger backend accepted",
			mutate: func(c *Config) { c.Storage.Backend = "badger" },
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.Storage.DataDir = "" },
			wantErr: true,
		},
		{
			name:    "non-positive sweep interval",
			mutate:  func(c *Config) { c.Engine.SweepInterval = 0 },
			wantErr: true,
		},
		{
			name:    "engine tunables delegate to engine validation",
			mutate:  func(c *Config) { c.Engine.SuccessAlpha = 1.5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestToEngineConfig(t *testing.T) {
	ec := EngineConfig{
		MaxPatterns:      250,
		PatternThreshold: 0.6,
		HistorySize:      500,
		SuccessAlpha:     0.25,
		MetricAlpha:      0.35,
		ConfidenceStep:   0.05,
		MinMatchScore:    0.4,
		RetentionMaxAge:  14 * 24 * time.Hour,
		RetentionMinRate: 0.4,
		RetentionMinUse:  3,
		SweepInterval:    30 * time.Minute,
	}

	got := ec.ToEngineConfig()
	if got.MaxPatterns != 250 || got.PatternThreshold != 0.6 {
		t.Errorf("engine tunables not carried over: %+v", got)
	}
	if got.Retention.MaxAge != 14*24*time.Hour {
		t.Errorf("Retention.MaxAge = %v", got.Retention.MaxAge)
	}
	if got.Retention.MinSuccessRate != 0.4 || got.Retention.MinUsageCount != 3 {
		t.Errorf("retention tunables not carried over: %+v", got.Retention)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("converted config fails engine validation: %v", err)
	}
}
