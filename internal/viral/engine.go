// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/viralforge/internal/metrics"
)

// ErrNoSnapshot is returned by SnapshotStore.LoadSnapshot when no state has
// been persisted yet. A fresh deployment starts from an empty store.
var ErrNoSnapshot = errors.New("no snapshot available")

// Engine is the viral pattern learning and prediction engine. It owns the
// pattern store, the learning session history, and the cumulative metrics.
// All exported methods are safe for concurrent use.
type Engine struct {
	cfg    *Config
	logger zerolog.Logger
	store  *Store

	// mu serializes access to history, perfMemory, the learning metrics
	// and the dirty/save bookkeeping. Pattern access goes through the
	// store's own lock.
	mu sync.Mutex

	history    []LearningSession
	perfMemory map[string][]float64
	learn      LearningMetrics

	snapshots   SnapshotStore
	lastSavedAt time.Time
	dirty       bool
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	return &Engine{
		cfg:        cfg.Clone(),
		logger:     logger.With().Str("component", "viral-engine").Logger(),
		store:      NewStore(cfg.MaxPatterns),
		history:    make([]LearningSession, 0, cfg.HistorySize),
		perfMemory: make(map[string][]float64),
	}, nil
}

// SetSnapshotStore attaches the persistence backend. Must be called before
// Load; an engine without a snapshot store runs purely in memory.
func (e *Engine) SetSnapshotStore(s SnapshotStore) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapshots = s
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() *Config {
	return e.cfg.Clone()
}

// Observe learns from one content performance observation. Patterns are
// extracted only when the observation's viral score clears the configured
// threshold; the returned session records what was learned either way.
func (e *Engine) Observe(ctx context.Context, content Content, performance map[string]float64) (*LearningSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	score := ViralScore(performance)
	session := LearningSession{
		SessionID:   "session_" + uuid.NewString(),
		Content:     content,
		Performance: performance,
		Timestamp:   now,
	}

	if score >= e.cfg.PatternThreshold {
		sets := Extract(content)
		for _, fs := range sets {
			id := e.absorb(fs, score, performance, now)
			session.ExtractedPatterns = append(session.ExtractedPatterns, id)
		}
		session.LearningScore = float64(len(sets)) * score
	}

	e.mu.Lock()
	e.learn.PatternsLearned += int64(len(session.ExtractedPatterns))
	e.learn.LastLearningSession = now
	e.appendHistory(session)
	e.appendPerformance(content.Type, score)
	if len(session.ExtractedPatterns) > 0 {
		e.dirty = true
	}
	e.mu.Unlock()

	metrics.ObservationsTotal.Inc()
	metrics.PatternsStored.Set(float64(e.store.Len()))

	e.logger.Info().
		Str("session_id", session.SessionID).
		Float64("viral_score", score).
		Int("patterns_extracted", len(session.ExtractedPatterns)).
		Msg("learning session completed")

	return &session, nil
}

// absorb folds one extracted feature set into the store: a known fingerprint
// is blended with exponential moving averages, a new one is inserted with its
// dimension's confidence seed, evicting the worst pattern at capacity.
func (e *Engine) absorb(fs FeatureSet, score float64, performance map[string]float64, now time.Time) string {
	id := Fingerprint(fs)

	updated := e.store.Update(id, func(p *Pattern) {
		p.UsageCount++
		p.SuccessRate = p.SuccessRate*(1-e.cfg.SuccessAlpha) + score*e.cfg.SuccessAlpha
		p.Confidence = min(p.Confidence+e.cfg.ConfidenceStep, 1.0)
		p.LastUpdated = now
		for metric, value := range performance {
			if prev, ok := p.Metrics[metric]; ok {
				p.Metrics[metric] = prev*(1-e.cfg.MetricAlpha) + value*e.cfg.MetricAlpha
			} else {
				p.Metrics[metric] = value
			}
		}
	})
	if updated {
		metrics.PatternsLearnedTotal.WithLabelValues(fs.ContentType().String(), "updated").Inc()
		return id
	}

	p := &Pattern{
		ID:          id,
		ContentType: fs.ContentType(),
		Elements:    fs,
		Metrics:     copyMetrics(performance),
		SuccessRate: score,
		Confidence:  fs.ContentType().ConfidenceSeed(),
		LastUpdated: now,
		UsageCount:  0,
	}
	if evicted := e.store.Put(p); evicted != nil {
		metrics.PatternEvictionsTotal.Inc()
		e.logger.Debug().
			Str("evicted_id", evicted.ID).
			Float64("success_rate", evicted.SuccessRate).
			Msg("evicted worst pattern at capacity")
	}
	metrics.PatternsLearnedTotal.WithLabelValues(fs.ContentType().String(), "new").Inc()
	return id
}

// Predict scores a candidate content record against every stored pattern.
// Patterns below the minimum match score are ignored; the overall score is
// the mean of match*success*confidence over the significant matches.
func (e *Engine) Predict(ctx context.Context, content Content) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pred := &Prediction{
		MatchingPatterns: []PatternMatch{},
		Recommendations:  []string{},
		RiskFactors:      []string{},
	}

	totalScore := 0.0
	totalConfidence := 0.0
	patterns := e.store.All()
	for i := range patterns {
		p := &patterns[i]
		match := MatchContent(content, p)
		if match <= e.cfg.MinMatchScore {
			continue
		}

		pred.MatchingPatterns = append(pred.MatchingPatterns, PatternMatch{
			PatternID:   p.ID,
			ContentType: p.ContentType,
			MatchScore:  match,
			SuccessRate: p.SuccessRate,
			Confidence:  p.Confidence,
		})
		totalScore += match * p.SuccessRate * p.Confidence
		totalConfidence += p.Confidence
	}

	if n := len(pred.MatchingPatterns); n > 0 {
		pred.OverallScore = totalScore / float64(n)
		pred.Confidence = totalConfidence / float64(n)
		sort.SliceStable(pred.MatchingPatterns, func(i, j int) bool {
			return pred.MatchingPatterns[i].MatchScore > pred.MatchingPatterns[j].MatchScore
		})
	}

	pred.Recommendations = e.recommendations(content, patterns)
	pred.RiskFactors = riskFactors(content)

	e.mu.Lock()
	e.learn.TotalPredictions++
	e.recomputeAccuracy()
	e.mu.Unlock()

	metrics.PredictionsTotal.Inc()

	e.logger.Debug().
		Float64("overall_score", pred.OverallScore).
		Int("matching_patterns", len(pred.MatchingPatterns)).
		Msg("viral potential predicted")

	return pred, nil
}

// RecordPredictionOutcome feeds back whether a prior prediction proved
// correct, updating the accuracy counters that drive system recommendations.
func (e *Engine) RecordPredictionOutcome(success bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if success {
		e.learn.SuccessfulPredictions++
	}
	e.recomputeAccuracy()
	e.dirty = true
}

// recomputeAccuracy refreshes the derived accuracy rate. Callers hold mu.
func (e *Engine) recomputeAccuracy() {
	if e.learn.TotalPredictions > 0 {
		e.learn.AccuracyRate = float64(e.learn.SuccessfulPredictions) / float64(e.learn.TotalPredictions)
	}
}

// Sweep removes patterns that are simultaneously stale, unsuccessful, and
// rarely used, per the retention configuration. Returns the number removed.
func (e *Engine) Sweep(now time.Time) int {
	r := e.cfg.Retention
	removed := e.store.Sweep(r.MaxAge, r.MinSuccessRate, r.MinUsageCount, now)
	if removed > 0 {
		e.mu.Lock()
		e.dirty = true
		e.mu.Unlock()

		metrics.SweepRemovedTotal.Add(float64(removed))
		metrics.PatternsStored.Set(float64(e.store.Len()))
		e.logger.Info().Int("removed", removed).Msg("swept stale patterns")
	}
	return removed
}

// Patterns returns copies of all stored patterns in insertion order.
func (e *Engine) Patterns() []Pattern {
	return e.store.All()
}

// Metrics returns a copy of the cumulative learning metrics.
func (e *Engine) Metrics() LearningMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.learn
}

// Status reports the engine's operational snapshot.
func (e *Engine) Status() *Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	backend := "none"
	if e.snapshots != nil {
		backend = e.snapshots.Name()
	}

	return &Status{
		Status:          "active",
		TotalPatterns:   e.store.Len(),
		LearningMetrics: e.learn,
		HistoryLength:   len(e.history),
		StorageBackend:  backend,
		LastSavedAt:     e.lastSavedAt,
	}
}

// Load restores the engine from the snapshot store. A missing snapshot is
// not an error; the engine simply starts empty.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snapshots == nil {
		return nil
	}

	snap, err := e.snapshots.LoadSnapshot(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		e.logger.Info().Msg("no snapshot found, starting with empty pattern store")
		return nil
	}
	if err != nil {
		metrics.SnapshotErrorsTotal.WithLabelValues("load").Inc()
		return fmt.Errorf("load snapshot: %w", err)
	}

	e.store.Replace(snap.Patterns)
	e.learn = snap.Metrics
	e.lastSavedAt = snap.SavedAt
	e.dirty = false

	metrics.PatternsStored.Set(float64(e.store.Len()))
	e.logger.Info().
		Int("patterns", e.store.Len()).
		Time("saved_at", snap.SavedAt).
		Msg("restored pattern store from snapshot")
	return nil
}

// Save persists the full engine state unconditionally.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked(ctx)
}

// SaveIfDirty persists only when state changed since the last save. Used by
// the periodic maintenance loop.
func (e *Engine) SaveIfDirty(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.dirty {
		return nil
	}
	return e.saveLocked(ctx)
}

// saveLocked implements Save. Callers hold mu.
func (e *Engine) saveLocked(ctx context.Context) error {
	if e.snapshots == nil {
		return nil
	}

	snap := &Snapshot{
		SavedAt:  time.Now(),
		Patterns: e.store.All(),
		Metrics:  e.learn,
	}
	if err := e.snapshots.SaveSnapshot(ctx, snap); err != nil {
		metrics.SnapshotErrorsTotal.WithLabelValues("save").Inc()
		return fmt.Errorf("save snapshot: %w", err)
	}

	e.lastSavedAt = snap.SavedAt
	e.dirty = false
	e.logger.Debug().Int("patterns", len(snap.Patterns)).Msg("snapshot saved")
	return nil
}

// Shutdown flushes state and closes the snapshot store.
func (e *Engine) Shutdown(ctx context.Context) error {
	if err := e.Save(ctx); err != nil {
		e.logger.Error().Err(err).Msg("final save failed during shutdown")
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snapshots != nil {
		return e.snapshots.Close()
	}
	return nil
}

// ExportPatterns writes a portable export document. An empty path selects a
// timestamped default; the path actually written is returned.
func (e *Engine) ExportPatterns(ctx context.Context, path string) (string, error) {
	e.mu.Lock()
	learn := e.learn
	store := e.snapshots
	e.mu.Unlock()

	if store == nil {
		return "", errors.New("no snapshot store configured")
	}

	patterns := e.store.All()
	doc := &ExportDocument{
		ExportTimestamp: time.Now(),
		TotalPatterns:   len(patterns),
		LearningMetrics: learn,
		Patterns:        patterns,
	}

	written, err := store.WriteExport(ctx, path, doc)
	if err != nil {
		return "", fmt.Errorf("export patterns: %w", err)
	}

	e.logger.Info().Str("path", written).Int("patterns", len(patterns)).Msg("patterns exported")
	return written, nil
}

// ImportPatterns merges a previously exported document into the store. An
// incoming pattern wins only when its fingerprint is new or its success rate
// is strictly higher than the stored one. Returns the number imported.
func (e *Engine) ImportPatterns(ctx context.Context, path string) (int, error) {
	e.mu.Lock()
	store := e.snapshots
	e.mu.Unlock()

	if store == nil {
		return 0, errors.New("no snapshot store configured")
	}

	doc, err := store.ReadExport(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("import patterns: %w", err)
	}

	imported := 0
	for i := range doc.Patterns {
		incoming := &doc.Patterns[i]
		if existing, ok := e.store.Get(incoming.ID); ok && incoming.SuccessRate <= existing.SuccessRate {
			continue
		}
		if evicted := e.store.Put(incoming); evicted != nil {
			metrics.PatternEvictionsTotal.Inc()
		}
		imported++
	}

	if imported > 0 {
		e.mu.Lock()
		e.dirty = true
		e.mu.Unlock()
		metrics.PatternsStored.Set(float64(e.store.Len()))
		if err := e.SaveIfDirty(ctx); err != nil {
			return imported, err
		}
	}

	e.logger.Info().Str("path", path).Int("imported", imported).Msg("patterns imported")
	return imported, nil
}

// appendHistory appends a session to the bounded ring. Callers hold mu.
func (e *Engine) appendHistory(s LearningSession) {
	e.history = append(e.history, s)
	if len(e.history) > e.cfg.HistorySize {
		e.history = e.history[len(e.history)-e.cfg.HistorySize:]
	}
}

// appendPerformance records a viral score under the content's category
// label. Each category keeps at most HistorySize recent scores. Callers hold mu.
func (e *Engine) appendPerformance(contentType string, score float64) {
	if contentType == "" {
		contentType = "unknown"
	}
	scores := append(e.perfMemory[contentType], score)
	if len(scores) > e.cfg.HistorySize {
		scores = scores[len(scores)-e.cfg.HistorySize:]
	}
	e.perfMemory[contentType] = scores
}

func copyMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
