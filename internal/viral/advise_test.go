// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"strings"
	"testing"
	"time"
)

func containsSubstring(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

func TestTitleRecommendations(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		wantParts   []string
		absentParts []string
	}{
		{
			name:  "short bland title gets everything",
			title: "a quiet afternoon",
			wantParts: []string{
				"making title longer",
				"adding numbers",
				"question marks or exclamation points",
				"urgency words",
			},
		},
		{
			name:  "overlong title",
			title: strings.Repeat("very long title segment ", 4),
			wantParts: []string{
				"shortening title",
			},
			absentParts: []string{
				"making title longer",
			},
		},
		{
			name:  "fully optimized title gets nothing",
			title: "7 Investing Secrets You Must Know NOW! (2026 Guide)",
			absentParts: []string{
				"making title longer",
				"shortening title",
				"adding numbers",
				"question marks",
				"urgency words",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := titleRecommendations(tt.title)
			for _, part := range tt.wantParts {
				if !containsSubstring(recs, part) {
					t.Errorf("missing recommendation containing %q in %v", part, recs)
				}
			}
			for _, part := range tt.absentParts {
				if containsSubstring(recs, part) {
					t.Errorf("unexpected recommendation containing %q in %v", part, recs)
				}
			}
		})
	}
}

func TestThumbnailRecommendations(t *testing.T) {
	t.Run("weak thumbnail", func(t *testing.T) {
		recs := thumbnailRecommendations(Thumbnail{Contrast: 0.3})
		for _, part := range []string{"adding a face", "contrast", "text overlay"} {
			if !containsSubstring(recs, part) {
				t.Errorf("missing recommendation containing %q in %v", part, recs)
			}
		}
	})

	t.Run("strong thumbnail gets nothing", func(t *testing.T) {
		recs := thumbnailRecommendations(Thumbnail{HasFace: true, HasText: true, Contrast: 0.9})
		if len(recs) != 0 {
			t.Errorf("strong thumbnail produced recommendations: %v", recs)
		}
	})
}

func TestStrategyRecommendations(t *testing.T) {
	patterns := []Pattern{
		*testPattern("title_weak", 0.5, 1),
		*testPattern("title_strong", 0.95, 3),
		*testPattern("title_borderline", 0.8, 2), // not strictly above 0.8
	}

	recs := strategyRecommendations(patterns)
	if len(recs) != 1 {
		t.Fatalf("got %d strategy recommendations, want 1: %v", len(recs), recs)
	}
	if !strings.Contains(recs[0], "title strategy") {
		t.Errorf("recommendation = %q, want dimension name", recs[0])
	}
	if !strings.Contains(recs[0], "95.0%") {
		t.Errorf("recommendation = %q, want success percentage", recs[0])
	}
}

func TestStrategyRecommendationsCapsAtTopFive(t *testing.T) {
	patterns := make([]Pattern, 0, 8)
	for i := 0; i < 8; i++ {
		patterns = append(patterns, *testPattern(
			strings.Repeat("x", i+1), 0.9, 1))
	}

	recs := strategyRecommendations(patterns)
	if len(recs) != 5 {
		t.Errorf("got %d strategy recommendations, want 5", len(recs))
	}
}

func TestRecommendationsCap(t *testing.T) {
	e := newTestEngine(t)

	patterns := make([]Pattern, 0, 8)
	for i := 0; i < 8; i++ {
		patterns = append(patterns, *testPattern(strings.Repeat("y", i+1), 0.9, 1))
	}

	recs := e.recommendations(Content{
		Title:     "a quiet afternoon",
		Thumbnail: &Thumbnail{Contrast: 0.3},
	}, patterns)

	if len(recs) > maxRecommendations {
		t.Errorf("got %d recommendations, cap is %d", len(recs), maxRecommendations)
	}
}

func TestRiskFactors(t *testing.T) {
	earlyMorning := time.Date(2026, 8, 24, 4, 0, 0, 0, time.UTC)
	primeTime := time.Date(2026, 8, 24, 20, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		content Content
		want    int
	}{
		{
			name:    "clean content has no risks",
			content: Content{Title: "A Reasonable Title", UploadTime: &primeTime},
			want:    0,
		},
		{
			name:    "overlong title",
			content: Content{Title: strings.Repeat("long title ", 11)},
			want:    1,
		},
		{
			name:    "all caps title",
			content: Content{Title: "YOU WILL NOT BELIEVE THIS"},
			want:    1,
		},
		{
			name:    "early morning upload",
			content: Content{UploadTime: &earlyMorning},
			want:    1,
		},
		{
			name: "overlong video with long hook",
			content: Content{
				Structure: &Structure{TotalDuration: 1800, HookDuration: 45},
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risks := riskFactors(tt.content)
			if len(risks) != tt.want {
				t.Errorf("riskFactors() = %v, want %d risks", risks, tt.want)
			}
		})
	}
}

func TestIsAllUpper(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ALL CAPS TITLE", true},
		{"Mixed Case Title", false},
		{"lower case", false},
		{"CAPS WITH 123 AND !", true},
		{"12345 !?", false}, // no letters at all
		{"", false},
	}

	for _, tt := range tests {
		if got := isAllUpper(tt.in); got != tt.want {
			t.Errorf("isAllUpper(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
