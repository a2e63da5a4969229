// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"context"
	"math"
	"strings"
	"unicode"
)

// optimizeThreshold is the predicted score above which content is left
// untouched.
const optimizeThreshold = 0.7

// Optimize rewrites a candidate item toward the engine's strongest learned
// patterns. Content already predicted above the threshold is returned
// unchanged with its prediction attached.
func (e *Engine) Optimize(ctx context.Context, content Content) (*Optimization, error) {
	pred, err := e.Predict(ctx, content)
	if err != nil {
		return nil, err
	}

	opt := &Optimization{
		Content:    content,
		Log:        []string{},
		Prediction: pred,
	}

	if pred.OverallScore >= optimizeThreshold {
		return opt, nil
	}

	if content.Title != "" {
		if optimized := e.optimizeTitle(content.Title); optimized != content.Title {
			opt.Content.Title = optimized
			opt.Log = append(opt.Log, "Title optimized for viral potential")
		}
	}

	if content.Thumbnail != nil {
		if suggestions := e.optimizeThumbnail(*content.Thumbnail); len(suggestions) > 0 {
			opt.ThumbnailSuggestions = suggestions
			opt.Log = append(opt.Log, "Thumbnail optimization suggestions added")
		}
	}

	if content.Structure != nil {
		if suggestions := e.optimizeStructure(*content.Structure); len(suggestions) > 0 {
			opt.StructureSuggestions = suggestions
			opt.Log = append(opt.Log, "Content structure optimized")
		}
	}

	return opt, nil
}

// bestPattern returns the highest-success stored pattern of the dimension
// with a success rate above 0.8, or nil.
func (e *Engine) bestPattern(t ContentType) *Pattern {
	var best *Pattern
	patterns := e.store.All()
	for i := range patterns {
		p := &patterns[i]
		if p.ContentType != t || p.SuccessRate <= 0.8 {
			continue
		}
		if best == nil || p.SuccessRate > best.SuccessRate {
			best = p
		}
	}
	return best
}

// optimizeTitle applies the strongest title pattern's viral elements to a
// title that lacks them.
func (e *Engine) optimizeTitle(title string) string {
	best := e.bestPattern(ContentTitle)
	if best == nil {
		return title
	}
	elements, ok := best.Elements.(TitleFeatures)
	if !ok {
		return title
	}

	optimized := title

	if elements.HasNumbers && !strings.ContainsFunc(optimized, unicode.IsDigit) {
		if !hasQuestionPrefix(optimized) {
			optimized = "7 " + optimized
		}
	}

	if elements.HasQuestion && !strings.Contains(optimized, "?") {
		if hasQuestionPrefix(optimized) {
			optimized = strings.TrimRight(optimized, ".") + "?"
		}
	}

	if elements.UrgencyWords > 0 && countContained(strings.ToUpper(optimized), urgencyWords) == 0 {
		optimized += " (MUST WATCH)"
	}

	return optimized
}

// hasQuestionPrefix reports whether a title opens with an interrogative word.
func hasQuestionPrefix(title string) bool {
	for _, prefix := range []string{"How", "Why", "What", "When", "Where"} {
		if strings.HasPrefix(title, prefix) {
			return true
		}
	}
	return false
}

// optimizeThumbnail suggests thumbnail changes drawn from the strongest
// thumbnail pattern.
func (e *Engine) optimizeThumbnail(t Thumbnail) map[string]string {
	best := e.bestPattern(ContentThumbnail)
	if best == nil {
		return nil
	}
	elements, ok := best.Elements.(ThumbnailFeatures)
	if !ok {
		return nil
	}

	suggestions := make(map[string]string)

	if elements.HasFace && !t.HasFace {
		suggestions["add_face"] = "Add a human face for higher engagement"
	}
	if elements.TextOverlay && !t.HasText {
		suggestions["add_text"] = "Add text overlay for clarity"
	}
	if elements.ContrastLevel > 0.8 {
		suggestions["increase_contrast"] = "Increase contrast for better visibility"
	}
	if elements.FaceEmotion == "surprised" && t.FaceEmotion != "surprised" {
		suggestions["emotion"] = "Consider surprised facial expression for higher CTR"
	}

	return suggestions
}

// optimizeStructure suggests structural targets drawn from the strongest
// structure pattern. Suggestions are emitted only when the current value is
// meaningfully off target.
func (e *Engine) optimizeStructure(s Structure) map[string]float64 {
	best := e.bestPattern(ContentStructure)
	if best == nil {
		return nil
	}
	elements, ok := best.Elements.(StructureFeatures)
	if !ok {
		return nil
	}

	suggestions := make(map[string]float64)

	if math.Abs(s.HookDuration-elements.HookDuration) > 5 {
		suggestions["suggested_hook_duration"] = elements.HookDuration
	}
	if math.Abs(s.TotalDuration-elements.TotalDuration) > 120 {
		suggestions["suggested_total_duration"] = elements.TotalDuration
	}
	if elements.EngagementPeaks > len(s.EngagementPeaks) {
		suggestions["suggested_engagement_peaks"] = float64(elements.EngagementPeaks)
	}

	return suggestions
}
