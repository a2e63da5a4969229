// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import "math"

// Numeric match tolerances per dimension. A numeric feature contributes
// max(0, 1 - relative_error/tolerance) where relative_error is
// |current - pattern| / max(pattern, 1).
const (
	titleTolerance     = 0.2
	thumbnailTolerance = 0.3
	topicTolerance     = 0.5

	structureHookTolerance     = 0.5
	structureDurationTolerance = 0.3
	structureSegmentTolerance  = 0.4
	structureOtherTolerance    = 0.3

	// hourToleranceHours is the circular-distance window for upload hours.
	hourToleranceHours = 2.0
)

// MatchContent scores how well a content record matches a stored pattern,
// in [0,1]. The comparison is dispatched on the pattern's dimension; a
// pattern whose dimension is absent from the content scores 0.
func MatchContent(c Content, p *Pattern) float64 {
	switch p.ContentType {
	case ContentTitle:
		if c.Title == "" {
			return 0.0
		}
		elems, ok := p.Elements.(TitleFeatures)
		if !ok {
			return 0.0
		}
		return matchTitle(ExtractTitle(c.Title), elems)
	case ContentThumbnail:
		if c.Thumbnail == nil {
			return 0.0
		}
		elems, ok := p.Elements.(ThumbnailFeatures)
		if !ok {
			return 0.0
		}
		return matchThumbnail(ExtractThumbnail(*c.Thumbnail), elems)
	case ContentStructure:
		if c.Structure == nil {
			return 0.0
		}
		elems, ok := p.Elements.(StructureFeatures)
		if !ok {
			return 0.0
		}
		return matchStructure(ExtractStructure(*c.Structure), elems)
	case ContentTiming:
		if c.UploadTime == nil || c.UploadTime.IsZero() {
			return 0.0
		}
		elems, ok := p.Elements.(TimingFeatures)
		if !ok {
			return 0.0
		}
		return matchTiming(ExtractTiming(*c.UploadTime), elems)
	case ContentTopic:
		if len(c.Topics) == 0 {
			return 0.0
		}
		elems, ok := p.Elements.(TopicFeatures)
		if !ok {
			return 0.0
		}
		return matchTopics(ExtractTopics(c.Topics), elems)
	default:
		return 0.0
	}
}

// numMatch is the tolerance-scaled similarity of two numeric features.
func numMatch(current, pattern, tolerance float64) float64 {
	relErr := math.Abs(current-pattern) / math.Max(pattern, 1)
	return math.Max(0, 1-relErr/tolerance)
}

// boolMatch contributes 1 on equality, 0 otherwise.
func boolMatch(current, pattern bool) float64 {
	if current == pattern {
		return 1
	}
	return 0
}

// strMatch contributes 1 on exact equality, 0 otherwise.
func strMatch(current, pattern string) float64 {
	if current == pattern {
		return 1
	}
	return 0
}

// eqMatch contributes 1 on integer equality, 0 otherwise.
func eqMatch(current, pattern int) float64 {
	if current == pattern {
		return 1
	}
	return 0
}

func matchTitle(cur, pat TitleFeatures) float64 {
	score := numMatch(float64(cur.Length), float64(pat.Length), titleTolerance)
	score += numMatch(float64(cur.WordCount), float64(pat.WordCount), titleTolerance)
	score += boolMatch(cur.HasNumbers, pat.HasNumbers)
	score += boolMatch(cur.HasCaps, pat.HasCaps)
	score += boolMatch(cur.HasQuestion, pat.HasQuestion)
	score += boolMatch(cur.HasExclamation, pat.HasExclamation)
	score += numMatch(float64(cur.UrgencyWords), float64(pat.UrgencyWords), titleTolerance)
	score += numMatch(float64(cur.EmotionWords), float64(pat.EmotionWords), titleTolerance)
	return score / 8
}

func matchThumbnail(cur, pat ThumbnailFeatures) float64 {
	score := boolMatch(cur.HasFace, pat.HasFace)
	score += strMatch(cur.FaceEmotion, pat.FaceEmotion)
	score += strMatch(joinColors(cur.ColorScheme), joinColors(pat.ColorScheme))
	score += boolMatch(cur.TextOverlay, pat.TextOverlay)
	score += numMatch(cur.ContrastLevel, pat.ContrastLevel, thumbnailTolerance)
	score += numMatch(cur.Brightness, pat.Brightness, thumbnailTolerance)
	return score / 6
}

func joinColors(colors []string) string {
	out := ""
	for i, c := range colors {
		if i > 0 {
			out += ","
		}
		out += c
	}
	return out
}

func matchStructure(cur, pat StructureFeatures) float64 {
	score := numMatch(cur.HookDuration, pat.HookDuration, structureHookTolerance)
	score += numMatch(cur.TotalDuration, pat.TotalDuration, structureDurationTolerance)
	score += numMatch(float64(cur.SegmentCount), float64(pat.SegmentCount), structureSegmentTolerance)
	score += boolMatch(cur.HasCliffhanger, pat.HasCliffhanger)
	score += numMatch(cur.PacingScore, pat.PacingScore, structureOtherTolerance)
	score += numMatch(float64(cur.EngagementPeaks), float64(pat.EngagementPeaks), structureOtherTolerance)
	return score / 6
}

func matchTiming(cur, pat TimingFeatures) float64 {
	score := hourMatch(cur.Hour, pat.Hour)
	score += eqMatch(cur.DayOfWeek, pat.DayOfWeek)
	score += boolMatch(cur.IsWeekend, pat.IsWeekend)
	score += boolMatch(cur.IsPrimeTime, pat.IsPrimeTime)
	score += eqMatch(cur.Month, pat.Month)
	score += eqMatch(cur.Season, pat.Season)
	return score / 6
}

// hourMatch compares hours on the 24-hour circle: 23 and 1 are two hours
// apart, not twenty-two.
func hourMatch(cur, pat int) float64 {
	diff := math.Abs(float64(cur - pat))
	circular := math.Min(diff, 24-diff)
	return math.Max(0, 1-circular/hourToleranceHours)
}

func matchTopics(cur, pat TopicFeatures) float64 {
	score := strMatch(cur.PrimaryTopic, pat.PrimaryTopic)
	score += numMatch(float64(cur.TopicCount), float64(pat.TopicCount), topicTolerance)
	score += numMatch(float64(cur.TrendingTopics), float64(pat.TrendingTopics), topicTolerance)
	score += numMatch(float64(cur.EvergreenTopics), float64(pat.EvergreenTopics), topicTolerance)
	score += numMatch(cur.NicheSpecificity, pat.NicheSpecificity, topicTolerance)
	return score / 5
}
