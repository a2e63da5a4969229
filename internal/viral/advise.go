// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

const maxRecommendations = 10

// recommendations builds advice for a candidate item: dimension-specific
// gap analysis first, then strategy pointers from the strongest stored
// patterns. Capped at maxRecommendations.
func (e *Engine) recommendations(content Content, patterns []Pattern) []string {
	recs := []string{}

	if content.Title != "" {
		recs = append(recs, titleRecommendations(content.Title)...)
	}
	if content.Thumbnail != nil {
		recs = append(recs, thumbnailRecommendations(*content.Thumbnail)...)
	}

	recs = append(recs, strategyRecommendations(patterns)...)

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// titleRecommendations flags missing viral title elements.
func titleRecommendations(title string) []string {
	recs := []string{}

	if len(title) < 40 {
		recs = append(recs, "Consider making title longer (40-60 characters optimal)")
	} else if len(title) > 70 {
		recs = append(recs, "Consider shortening title (40-60 characters optimal)")
	}

	if !strings.ContainsFunc(title, unicode.IsDigit) {
		recs = append(recs, "Consider adding numbers to title for higher engagement")
	}

	if !strings.Contains(title, "?") && !strings.Contains(title, "!") {
		recs = append(recs, "Consider adding question marks or exclamation points for emotional impact")
	}

	if countContained(strings.ToUpper(title), urgencyWords) == 0 {
		recs = append(recs, "Consider adding urgency words like 'NOW' or 'INSTANT'")
	}

	return recs
}

// thumbnailRecommendations flags missing viral thumbnail elements.
func thumbnailRecommendations(t Thumbnail) []string {
	recs := []string{}

	if !t.HasFace {
		recs = append(recs, "Consider adding a face to thumbnail for higher CTR")
	}
	if t.Contrast < 0.7 {
		recs = append(recs, "Increase thumbnail contrast for better visibility")
	}
	if !t.HasText {
		recs = append(recs, "Consider adding text overlay to thumbnail")
	}

	return recs
}

// strategyRecommendations points at the dimensions behind the strongest
// stored patterns: the top five by success rate, when above 0.8.
func strategyRecommendations(patterns []Pattern) []string {
	top := make([]Pattern, len(patterns))
	copy(top, patterns)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].SuccessRate > top[j].SuccessRate
	})
	if len(top) > 5 {
		top = top[:5]
	}

	recs := []string{}
	for i := range top {
		p := &top[i]
		if p.SuccessRate > 0.8 {
			recs = append(recs, fmt.Sprintf("Consider applying %s strategy with %.1f%% success rate",
				p.ContentType, p.SuccessRate*100))
		}
	}
	return recs
}

// riskFactors flags content properties known to depress viral potential.
func riskFactors(content Content) []string {
	risks := []string{}

	if content.Title != "" {
		if len(content.Title) > 100 {
			risks = append(risks, "Title too long - may be truncated in search results")
		}
		if isAllUpper(content.Title) {
			risks = append(risks, "All-caps title may appear spammy")
		}
	}

	if content.UploadTime != nil && !content.UploadTime.IsZero() {
		if hour := content.UploadTime.Hour(); hour < 6 {
			risks = append(risks, "Upload time outside optimal hours (6 AM - 11 PM)")
		}
	}

	if content.Structure != nil {
		if content.Structure.TotalDuration > 1200 {
			risks = append(risks, "Video too long - may hurt retention rate")
		}
		if content.Structure.HookDuration > 30 {
			risks = append(risks, "Hook too long - viewers may lose interest")
		}
	}

	return risks
}

// isAllUpper reports whether the string contains letters and every letter
// is upper case.
func isAllUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
