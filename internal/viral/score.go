// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

// metricWeights is the fixed contribution of each recognized performance
// metric to the viral score. Unknown metrics are ignored.
var metricWeights = map[string]float64{
	"views":             0.25,
	"engagement_rate":   0.20,
	"retention_rate":    0.15,
	"ctr":               0.15,
	"shares":            0.10,
	"comments":          0.10,
	"viral_coefficient": 0.05,
}

// ViralScore converts a raw performance observation into a single score in
// [0,1]. Each recognized metric is normalized to [0,1] by dividing by 100
// and clamping, then weighted; the result is renormalized by the weight of
// the metrics actually present so a sparse observation is not biased toward
// zero. An observation with no recognized metrics scores 0.
func ViralScore(performance map[string]float64) float64 {
	score := 0.0
	totalWeight := 0.0

	for metric, weight := range metricWeights {
		value, ok := performance[metric]
		if !ok {
			continue
		}

		normalized := value / 100.0
		if normalized > 1.0 {
			normalized = 1.0
		}
		if normalized < 0 {
			normalized = 0
		}

		score += normalized * weight
		totalWeight += weight
	}

	if totalWeight == 0 {
		return 0.0
	}
	return score / totalWeight
}

// clamp01 bounds v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
