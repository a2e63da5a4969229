// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Keyword tables used by the title and topic extractors. Matching is
// case-insensitive substring containment.
var (
	urgencyWords   = []string{"NOW", "URGENT", "BREAKING", "INSTANT"}
	emotionWords   = []string{"AMAZING", "SHOCKING", "INCREDIBLE", "UNBELIEVABLE"}
	trendingWords  = []string{"AI", "crypto", "finance", "investing", "money", "wealth", "passive income"}
	evergreenWords = []string{"how to", "tutorial", "guide", "tips", "basics", "beginner"}
)

// ExtractTitle derives title features. Deterministic and total.
func ExtractTitle(title string) TitleFeatures {
	upper := strings.ToUpper(title)
	return TitleFeatures{
		Length:         utf8.RuneCountInString(title),
		WordCount:      len(strings.Fields(title)),
		HasNumbers:     strings.ContainsFunc(title, unicode.IsDigit),
		HasCaps:        strings.ContainsFunc(title, unicode.IsUpper),
		HasQuestion:    strings.Contains(title, "?"),
		HasExclamation: strings.Contains(title, "!"),
		UrgencyWords:   countContained(upper, urgencyWords),
		EmotionWords:   countContained(upper, emotionWords),
	}
}

// ExtractThumbnail passes the caller-supplied descriptor through as a
// feature set. A missing face emotion defaults to "neutral".
func ExtractThumbnail(t Thumbnail) ThumbnailFeatures {
	emotion := t.FaceEmotion
	if emotion == "" {
		emotion = "neutral"
	}
	return ThumbnailFeatures{
		HasFace:       t.HasFace,
		FaceEmotion:   emotion,
		ColorScheme:   t.DominantColors,
		TextOverlay:   t.HasText,
		ContrastLevel: t.Contrast,
		Brightness:    t.Brightness,
	}
}

// ExtractStructure derives structural features from a video plan.
func ExtractStructure(s Structure) StructureFeatures {
	return StructureFeatures{
		HookDuration:    s.HookDuration,
		TotalDuration:   s.TotalDuration,
		SegmentCount:    len(s.Segments),
		HasCliffhanger:  s.HasCliffhanger,
		PacingScore:     s.PacingScore,
		EngagementPeaks: len(s.EngagementPeaks),
	}
}

// ExtractTiming derives timing features from an upload time.
// Day of week is 0=Monday..6=Sunday; season is 1=winter..4=autumn.
func ExtractTiming(t time.Time) TimingFeatures {
	hour := t.Hour()
	month := int(t.Month())
	day := weekday(t)
	return TimingFeatures{
		Hour:        hour,
		DayOfWeek:   day,
		IsWeekend:   day >= 5,
		IsPrimeTime: hour >= 18 && hour <= 22,
		Month:       month,
		Season:      (month%12 + 3) / 3,
	}
}

// weekday maps Go's Sunday-first weekday to a Monday-first index.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ExtractTopics derives topic features from an ordered topic list.
func ExtractTopics(topics []string) TopicFeatures {
	primary := "unknown"
	if len(topics) > 0 {
		primary = topics[0]
	}

	trending := 0
	evergreen := 0
	for _, topic := range topics {
		if containsAny(topic, trendingWords) {
			trending++
		}
		if containsAny(topic, evergreenWords) {
			evergreen++
		}
	}

	return TopicFeatures{
		PrimaryTopic:     primary,
		TopicCount:       len(topics),
		TrendingTopics:   trending,
		EvergreenTopics:  evergreen,
		NicheSpecificity: nicheSpecificity(topics),
	}
}

// nicheSpecificity scores how specific a topic list is: longer topic
// phrases are more niche. Average words per topic, normalized by 5 and
// capped at 1.0.
func nicheSpecificity(topics []string) float64 {
	if len(topics) == 0 {
		return 0.0
	}
	total := 0
	for _, topic := range topics {
		total += len(strings.Fields(topic))
	}
	avg := float64(total) / float64(len(topics))
	return clamp01(avg / 5.0)
}

// countContained counts how many of the given uppercase words occur in the
// already-uppercased haystack.
func countContained(upperHaystack string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(upperHaystack, w) {
			n++
		}
	}
	return n
}

// containsAny reports whether s contains any of the keywords, case-insensitively.
func containsAny(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// Extract runs every dimension extractor whose input is present in the
// content record, returning zero to five feature sets.
func Extract(c Content) []FeatureSet {
	sets := make([]FeatureSet, 0, 5)
	if c.Title != "" {
		sets = append(sets, ExtractTitle(c.Title))
	}
	if c.Thumbnail != nil {
		sets = append(sets, ExtractThumbnail(*c.Thumbnail))
	}
	if c.Structure != nil {
		sets = append(sets, ExtractStructure(*c.Structure))
	}
	if c.UploadTime != nil && !c.UploadTime.IsZero() {
		sets = append(sets, ExtractTiming(*c.UploadTime))
	}
	if len(c.Topics) > 0 {
		sets = append(sets, ExtractTopics(c.Topics))
	}
	return sets
}
