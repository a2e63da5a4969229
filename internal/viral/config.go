// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"fmt"
	"time"
)

// Config contains all tunables of the learning engine.
type Config struct {
	// MaxPatterns caps the pattern store. Inserting past the cap evicts
	// the lowest-success pattern. Default: 500.
	MaxPatterns int `json:"max_patterns"`

	// PatternThreshold is the minimum viral score an observation needs
	// before any patterns are extracted from it. Default: 0.7.
	PatternThreshold float64 `json:"pattern_threshold"`

	// HistorySize bounds the in-memory learning session ring buffer.
	// Default: 1000.
	HistorySize int `json:"history_size"`

	// SuccessAlpha is the EMA weight of a new observation when blending
	// success rates: rate' = rate*(1-a) + new*a. Default: 0.2.
	SuccessAlpha float64 `json:"success_alpha"`

	// MetricAlpha is the EMA weight of a new observation when blending
	// individual performance metrics. Default: 0.3.
	MetricAlpha float64 `json:"metric_alpha"`

	// ConfidenceStep is added to a pattern's confidence on every reuse,
	// capped at 1.0. Default: 0.1.
	ConfidenceStep float64 `json:"confidence_step"`

	// MinMatchScore is the similarity below which a pattern is excluded
	// from prediction aggregation. Default: 0.5.
	MinMatchScore float64 `json:"min_match_score"`

	// Retention controls the conjunctive sweep of stale patterns.
	Retention RetentionConfig `json:"retention"`
}

// RetentionConfig controls the retention sweep. A pattern is removed only
// when ALL three conditions hold.
type RetentionConfig struct {
	// MaxAge is how long a pattern may go without an update. Default: 720h.
	MaxAge time.Duration `json:"max_age"`

	// MinSuccessRate is the success rate below which a stale pattern is
	// eligible for removal. Default: 0.5.
	MinSuccessRate float64 `json:"min_success_rate"`

	// MinUsageCount is the usage count below which a stale pattern is
	// eligible for removal. Default: 5.
	MinUsageCount int `json:"min_usage_count"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxPatterns:      500,
		PatternThreshold: 0.7,
		HistorySize:      1000,
		SuccessAlpha:     0.2,
		MetricAlpha:      0.3,
		ConfidenceStep:   0.1,
		MinMatchScore:    0.5,
		Retention: RetentionConfig{
			MaxAge:         30 * 24 * time.Hour,
			MinSuccessRate: 0.5,
			MinUsageCount:  5,
		},
	}
}

// Validate checks the configuration for internally consistent values.
func (c *Config) Validate() error {
	if c.MaxPatterns <= 0 {
		return fmt.Errorf("max_patterns must be positive, got %d", c.MaxPatterns)
	}
	if c.PatternThreshold < 0 || c.PatternThreshold > 1 {
		return fmt.Errorf("pattern_threshold must be in [0,1], got %v", c.PatternThreshold)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history_size must be positive, got %d", c.HistorySize)
	}
	if c.SuccessAlpha <= 0 || c.SuccessAlpha >= 1 {
		return fmt.Errorf("success_alpha must be in (0,1), got %v", c.SuccessAlpha)
	}
	if c.MetricAlpha <= 0 || c.MetricAlpha >= 1 {
		return fmt.Errorf("metric_alpha must be in (0,1), got %v", c.MetricAlpha)
	}
	if c.ConfidenceStep <= 0 || c.ConfidenceStep > 1 {
		return fmt.Errorf("confidence_step must be in (0,1], got %v", c.ConfidenceStep)
	}
	if c.MinMatchScore < 0 || c.MinMatchScore > 1 {
		return fmt.Errorf("min_match_score must be in [0,1], got %v", c.MinMatchScore)
	}
	if c.Retention.MaxAge <= 0 {
		return fmt.Errorf("retention.max_age must be positive, got %v", c.Retention.MaxAge)
	}
	if c.Retention.MinSuccessRate < 0 || c.Retention.MinSuccessRate > 1 {
		return fmt.Errorf("retention.min_success_rate must be in [0,1], got %v", c.Retention.MinSuccessRate)
	}
	if c.Retention.MinUsageCount < 0 {
		return fmt.Errorf("retention.min_usage_count must be non-negative, got %d", c.Retention.MinUsageCount)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}
