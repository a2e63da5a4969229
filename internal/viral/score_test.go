// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestViralScore(t *testing.T) {
	tests := []struct {
		name        string
		performance map[string]float64
		want        float64
	}{
		{
			name:        "empty performance scores zero",
			performance: map[string]float64{},
			want:        0.0,
		},
		{
			name:        "nil performance scores zero",
			performance: nil,
			want:        0.0,
		},
		{
			name:        "unknown metrics are ignored",
			performance: map[string]float64{"likes": 100, "subscribers": 50},
			want:        0.0,
		},
		{
			name:        "single metric renormalizes to its own weight",
			performance: map[string]float64{"views": 50},
			want:        0.5,
		},
		{
			name:        "values above 100 clamp to 1.0",
			performance: map[string]float64{"views": 250},
			want:        1.0,
		},
		{
			name:        "negative values clamp to 0",
			performance: map[string]float64{"views": -10},
			want:        0.0,
		},
		{
			name:        "sparse observation is not biased toward zero",
			performance: map[string]float64{"views": 90, "engagement_rate": 70},
			// (0.9*0.25 + 0.7*0.20) / (0.25 + 0.20)
			want: 0.365 / 0.45,
		},
		{
			name: "all metrics at 100 score 1.0",
			performance: map[string]float64{
				"views":             100,
				"engagement_rate":   100,
				"retention_rate":    100,
				"ctr":               100,
				"shares":            100,
				"comments":          100,
				"viral_coefficient": 100,
			},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ViralScore(tt.performance)
			if !almostEqual(got, tt.want) {
				t.Errorf("ViralScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 1},
	}

	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
