// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

// trendMinSamples is the minimum number of observations a content category
// needs before its trend is reported.
const trendMinSamples = 5

// Insights reports what the engine has learned so far: the strongest
// patterns, per-category performance trends, and self-assessment advice.
func (e *Engine) Insights() *Insights {
	e.mu.Lock()
	learn := e.learn
	trends := e.performanceTrends()
	e.mu.Unlock()

	top := e.store.TopBySuccess(10)
	summaries := make([]PatternSummary, 0, len(top))
	for i := range top {
		p := &top[i]
		summaries = append(summaries, PatternSummary{
			PatternID:   p.ID,
			ContentType: p.ContentType,
			SuccessRate: p.SuccessRate,
			Confidence:  p.Confidence,
			UsageCount:  p.UsageCount,
			KeyElements: keyElements(p.Elements),
		})
	}

	return &Insights{
		TotalPatterns:     e.store.Len(),
		LearningMetrics:   learn,
		TopPatterns:       summaries,
		PerformanceTrends: trends,
		Recommendations:   systemRecommendations(learn, e.store.Len()),
	}
}

// performanceTrends compares the recent average score of each content
// category against its overall average. Callers hold mu.
func (e *Engine) performanceTrends() map[string]Trend {
	trends := make(map[string]Trend)
	for contentType, scores := range e.perfMemory {
		if len(scores) < trendMinSamples {
			continue
		}

		recent := mean(scores[len(scores)-trendMinSamples:])
		overall := mean(scores)
		direction := "declining"
		if recent > overall {
			direction = "improving"
		}

		trends[contentType] = Trend{
			RecentAverage:  recent,
			OverallAverage: overall,
			Trend:          direction,
			SampleSize:     len(scores),
		}
	}
	return trends
}

// systemRecommendations advises on the health of the learning system itself.
func systemRecommendations(learn LearningMetrics, totalPatterns int) []string {
	recs := []string{}
	if learn.TotalPredictions > 0 {
		if learn.AccuracyRate < 0.7 {
			recs = append(recs, "System needs more training data for better accuracy")
		}
		if totalPatterns < 50 {
			recs = append(recs, "Collect more viral content examples to improve pattern recognition")
		}
	}
	return recs
}

// keyElements lists up to five feature names of a pattern, used as a
// human-readable summary of what the pattern captures.
func keyElements(fs FeatureSet) []string {
	fields := fs.Fields()
	if len(fields) > 5 {
		fields = fields[:5]
	}
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
