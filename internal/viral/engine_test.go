// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// memorySnapshotStore is an in-memory SnapshotStore for engine tests.
type memorySnapshotStore struct {
	snap      *Snapshot
	exports   map[string]*ExportDocument
	saveCalls int
	closed    bool
}

func newMemorySnapshotStore() *memorySnapshotStore {
	return &memorySnapshotStore{exports: make(map[string]*ExportDocument)}
}

func (m *memorySnapshotStore) SaveSnapshot(_ context.Context, snap *Snapshot) error {
	m.snap = snap
	m.saveCalls++
	return nil
}

func (m *memorySnapshotStore) LoadSnapshot(context.Context) (*Snapshot, error) {
	if m.snap == nil {
		return nil, ErrNoSnapshot
	}
	return m.snap, nil
}

func (m *memorySnapshotStore) WriteExport(_ context.Context, path string, doc *ExportDocument) (string, error) {
	if path == "" {
		path = "default_export.json"
	}
	m.exports[path] = doc
	return path, nil
}

func (m *memorySnapshotStore) ReadExport(_ context.Context, path string) (*ExportDocument, error) {
	doc, ok := m.exports[path]
	if !ok {
		return nil, fmt.Errorf("export %q not found", path)
	}
	return doc, nil
}

func (m *memorySnapshotStore) Name() string { return "memory" }

func (m *memorySnapshotStore) Close() error {
	m.closed = true
	return nil
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}
	return e
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPatterns = -1

	if _, err := NewEngine(cfg, zerolog.Nop()); err == nil {
		t.Error("NewEngine() accepted invalid config")
	}
}

func TestObserveBelowThreshold(t *testing.T) {
	e := newTestEngine(t)

	session, err := e.Observe(context.Background(), Content{Title: "Some Title"},
		map[string]float64{"views": 50})
	if err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}

	if len(session.ExtractedPatterns) != 0 {
		t.Errorf("extracted %d patterns from a sub-threshold observation", len(session.ExtractedPatterns))
	}
	if session.LearningScore != 0 {
		t.Errorf("LearningScore = %v, want 0", session.LearningScore)
	}
	if e.store.Len() != 0 {
		t.Errorf("store holds %d patterns, want 0", e.store.Len())
	}
}

func TestObserveExtractsPatterns(t *testing.T) {
	e := newTestEngine(t)
	upload := time.Date(2026, 8, 24, 20, 0, 0, 0, time.UTC)
	content := Content{
		Type:       "education",
		Title:      "7 Investing Tips You Need NOW!",
		Thumbnail:  &Thumbnail{HasFace: true, Contrast: 0.9},
		Structure:  &Structure{HookDuration: 10, TotalDuration: 480},
		UploadTime: &upload,
		Topics:     []string{"investing"},
	}

	session, err := e.Observe(context.Background(), content, map[string]float64{"views": 90})
	if err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}

	if len(session.ExtractedPatterns) != 5 {
		t.Fatalf("extracted %d patterns, want 5", len(session.ExtractedPatterns))
	}
	if !strings.HasPrefix(session.SessionID, "session_") {
		t.Errorf("SessionID = %q, want session_ prefix", session.SessionID)
	}
	if !almostEqual(session.LearningScore, 5*0.9) {
		t.Errorf("LearningScore = %v, want %v", session.LearningScore, 5*0.9)
	}
	if e.store.Len() != 5 {
		t.Errorf("store holds %d patterns, want 5", e.store.Len())
	}

	m := e.Metrics()
	if m.PatternsLearned != 5 {
		t.Errorf("PatternsLearned = %d, want 5", m.PatternsLearned)
	}
	if m.LastLearningSession.IsZero() {
		t.Error("LastLearningSession not set")
	}
}

func TestObserveFreshPatternStartsUnused(t *testing.T) {
	e := newTestEngine(t)

	session, err := e.Observe(context.Background(),
		Content{Title: "7 Investing Tips You Need NOW!"},
		map[string]float64{"views": 90})
	if err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}

	p, ok := e.store.Get(session.ExtractedPatterns[0])
	if !ok {
		t.Fatal("learned pattern missing from store")
	}
	if p.UsageCount != 0 {
		t.Errorf("UsageCount = %d, want 0 for a first observation", p.UsageCount)
	}
}

func TestObserveBlendsRepeatObservations(t *testing.T) {
	e := newTestEngine(t)
	content := Content{Title: "7 Investing Tips You Need NOW!"}

	if _, err := e.Observe(context.Background(), content, map[string]float64{"views": 90}); err != nil {
		t.Fatalf("first Observe() failed: %v", err)
	}
	session, err := e.Observe(context.Background(), content, map[string]float64{"views": 80})
	if err != nil {
		t.Fatalf("second Observe() failed: %v", err)
	}

	if e.store.Len() != 1 {
		t.Fatalf("store holds %d patterns, want 1 (same fingerprint)", e.store.Len())
	}

	p, ok := e.store.Get(session.ExtractedPatterns[0])
	if !ok {
		t.Fatal("blended pattern missing from store")
	}

	// success' = 0.9*(1-0.2) + 0.8*0.2
	if !almostEqual(p.SuccessRate, 0.88) {
		t.Errorf("SuccessRate = %v, want 0.88", p.SuccessRate)
	}
	// confidence' = seed 0.8 + step 0.1
	if !almostEqual(p.Confidence, 0.9) {
		t.Errorf("Confidence = %v, want 0.9", p.Confidence)
	}
	// Fresh insert starts at 0; only the repeat observation counts.
	if p.UsageCount != 1 {
		t.Errorf("UsageCount = %d, want 1", p.UsageCount)
	}
	// views' = 90*(1-0.3) + 80*0.3
	if !almostEqual(p.Metrics["views"], 87) {
		t.Errorf("blended views = %v, want 87", p.Metrics["views"])
	}
}

func TestObserveConfidenceCapsAtOne(t *testing.T) {
	e := newTestEngine(t)
	content := Content{Title: "7 Investing Tips You Need NOW!"}

	for i := 0; i < 10; i++ {
		if _, err := e.Observe(context.Background(), content, map[string]float64{"views": 90}); err != nil {
			t.Fatalf("Observe() failed: %v", err)
		}
	}

	patterns := e.Patterns()
	if len(patterns) != 1 {
		t.Fatalf("store holds %d patterns, want 1", len(patterns))
	}
	if patterns[0].Confidence > 1.0 {
		t.Errorf("Confidence = %v, exceeds 1.0", patterns[0].Confidence)
	}
}

func TestObserveCanceledContext(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Observe(ctx, Content{Title: "Some Title"}, map[string]float64{"views": 90}); err == nil {
		t.Error("Observe() with canceled context returned nil error")
	}
}

func TestPredictEmptyStore(t *testing.T) {
	e := newTestEngine(t)

	pred, err := e.Predict(context.Background(), Content{Title: "Some Title"})
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	if pred.OverallScore != 0 || pred.Confidence != 0 {
		t.Errorf("empty store prediction = %v/%v, want 0/0", pred.OverallScore, pred.Confidence)
	}
	if len(pred.MatchingPatterns) != 0 {
		t.Errorf("empty store produced %d matches", len(pred.MatchingPatterns))
	}
	if e.Metrics().TotalPredictions != 1 {
		t.Errorf("TotalPredictions = %d, want 1", e.Metrics().TotalPredictions)
	}
}

func TestPredictAggregation(t *testing.T) {
	e := newTestEngine(t)
	content := Content{Title: "7 Investing Tips You Need NOW!"}

	if _, err := e.Observe(context.Background(), content, map[string]float64{"views": 90}); err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}

	pred, err := e.Predict(context.Background(), content)
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	if len(pred.MatchingPatterns) != 1 {
		t.Fatalf("MatchingPatterns = %d, want 1", len(pred.MatchingPatterns))
	}

	// Perfect match: 1.0 * success 0.9 * title confidence seed 0.8.
	if !almostEqual(pred.OverallScore, 0.72) {
		t.Errorf("OverallScore = %v, want 0.72", pred.OverallScore)
	}
	if !almostEqual(pred.Confidence, 0.8) {
		t.Errorf("Confidence = %v, want 0.8", pred.Confidence)
	}
}

func TestPredictMatchesSortedByScore(t *testing.T) {
	e := newTestEngine(t)
	upload := time.Date(2026, 8, 24, 20, 0, 0, 0, time.UTC)
	learned := Content{
		Title:      "7 Investing Tips You Need NOW!",
		UploadTime: &upload,
	}
	if _, err := e.Observe(context.Background(), learned, map[string]float64{"views": 90}); err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}

	// Same title, upload time one hour off: title match 1.0, timing below.
	shifted := upload.Add(time.Hour)
	pred, err := e.Predict(context.Background(), Content{
		Title:      learned.Title,
		UploadTime: &shifted,
	})
	if err != nil {
		t.Fatalf("Predict() failed: %v", err)
	}

	for i := 1; i < len(pred.MatchingPatterns); i++ {
		if pred.MatchingPatterns[i].MatchScore > pred.MatchingPatterns[i-1].MatchScore {
			t.Errorf("matches not sorted by score descending: %v", pred.MatchingPatterns)
		}
	}
	if len(pred.MatchingPatterns) == 0 || pred.MatchingPatterns[0].ContentType != ContentTitle {
		t.Errorf("strongest match should be the title pattern: %+v", pred.MatchingPatterns)
	}
}

func TestRecordPredictionOutcome(t *testing.T) {
	e := newTestEngine(t)

	for i := 0; i < 4; i++ {
		if _, err := e.Predict(context.Background(), Content{Title: "Some Title"}); err != nil {
			t.Fatalf("Predict() failed: %v", err)
		}
	}
	e.RecordPredictionOutcome(true)
	e.RecordPredictionOutcome(true)
	e.RecordPredictionOutcome(true)
	e.RecordPredictionOutcome(false)

	m := e.Metrics()
	if m.TotalPredictions != 4 {
		t.Errorf("TotalPredictions = %d, want 4", m.TotalPredictions)
	}
	if m.SuccessfulPredictions != 3 {
		t.Errorf("SuccessfulPredictions = %d, want 3", m.SuccessfulPredictions)
	}
	if !almostEqual(m.AccuracyRate, 0.75) {
		t.Errorf("AccuracyRate = %v, want 0.75", m.AccuracyRate)
	}
}

func TestEngineSweep(t *testing.T) {
	e := newTestEngine(t)

	stale := testPattern("title_stale", 0.2, 1)
	stale.LastUpdated = time.Now().Add(-60 * 24 * time.Hour)
	e.store.Put(stale)
	e.store.Put(testPattern("title_fresh", 0.9, 10))

	removed := e.Sweep(time.Now())
	if removed != 1 {
		t.Fatalf("Sweep() removed %d, want 1", removed)
	}
	if e.store.Contains("title_stale") {
		t.Error("stale pattern survived sweep")
	}
	if !e.store.Contains("title_fresh") {
		t.Error("fresh pattern was swept")
	}
}

func TestEngineSaveAndLoadRoundTrip(t *testing.T) {
	store := newMemorySnapshotStore()

	e := newTestEngine(t)
	e.SetSnapshotStore(store)
	if _, err := e.Observe(context.Background(), Content{Title: "7 Investing Tips You Need NOW!"},
		map[string]float64{"views": 90}); err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}
	if err := e.Save(context.Background()); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	restored := newTestEngine(t)
	restored.SetSnapshotStore(store)
	if err := restored.Load(context.Background()); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if restored.store.Len() != 1 {
		t.Fatalf("restored store holds %d patterns, want 1", restored.store.Len())
	}
	if restored.Metrics().PatternsLearned != 1 {
		t.Errorf("restored PatternsLearned = %d, want 1", restored.Metrics().PatternsLearned)
	}

	status := restored.Status()
	if status.StorageBackend != "memory" {
		t.Errorf("StorageBackend = %q, want %q", status.StorageBackend, "memory")
	}
	if status.LastSavedAt.IsZero() {
		t.Error("LastSavedAt not restored")
	}
}

func TestEngineLoadMissingSnapshot(t *testing.T) {
	e := newTestEngine(t)
	e.SetSnapshotStore(newMemorySnapshotStore())

	if err := e.Load(context.Background()); err != nil {
		t.Errorf("Load() with no snapshot = %v, want nil", err)
	}
	if e.store.Len() != 0 {
		t.Errorf("store holds %d patterns after empty load", e.store.Len())
	}
}

func TestSaveIfDirty(t *testing.T) {
	store := newMemorySnapshotStore()
	e := newTestEngine(t)
	e.SetSnapshotStore(store)

	if err := e.SaveIfDirty(context.Background()); err != nil {
		t.Fatalf("SaveIfDirty() failed: %v", err)
	}
	if store.saveCalls != 0 {
		t.Errorf("clean engine saved %d times, want 0", store.saveCalls)
	}

	if _, err := e.Observe(context.Background(), Content{Title: "7 Investing Tips You Need NOW!"},
		map[string]float64{"views": 90}); err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}
	if err := e.SaveIfDirty(context.Background()); err != nil {
		t.Fatalf("SaveIfDirty() failed: %v", err)
	}
	if store.saveCalls != 1 {
		t.Errorf("dirty engine saved %d times, want 1", store.saveCalls)
	}

	// Second call without new changes is a no-op.
	if err := e.SaveIfDirty(context.Background()); err != nil {
		t.Fatalf("SaveIfDirty() failed: %v", err)
	}
	if store.saveCalls != 1 {
		t.Errorf("clean engine re-saved, saveCalls = %d", store.saveCalls)
	}
}

func TestEngineShutdownClosesStore(t *testing.T) {
	store := newMemorySnapshotStore()
	e := newTestEngine(t)
	e.SetSnapshotStore(store)

	if err := e.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	if !store.closed {
		t.Error("snapshot store not closed on shutdown")
	}
	if store.saveCalls != 1 {
		t.Errorf("shutdown saved %d times, want 1", store.saveCalls)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	store := newMemorySnapshotStore()
	e := newTestEngine(t)
	e.SetSnapshotStore(store)

	if _, err := e.Observe(context.Background(), Content{Title: "7 Investing Tips You Need NOW!"},
		map[string]float64{"views": 90}); err != nil {
		t.Fatalf("Observe() failed: %v", err)
	}

	path, err := e.ExportPatterns(context.Background(), "")
	if err != nil {
		t.Fatalf("ExportPatterns() failed: %v", err)
	}
	if path == "" {
		t.Fatal("ExportPatterns() returned empty path")
	}

	fresh := newTestEngine(t)
	fresh.SetSnapshotStore(store)
	imported, err := fresh.ImportPatterns(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportPatterns() failed: %v", err)
	}
	if imported != 1 {
		t.Errorf("imported %d patterns, want 1", imported)
	}
	if fresh.store.Len() != 1 {
		t.Errorf("store holds %d patterns after import, want 1", fresh.store.Len())
	}
}

func TestImportKeepsHigherLocalSuccess(t *testing.T) {
	store := newMemorySnapshotStore()

	weak := *testPattern("title_shared", 0.4, 1)
	strongNew := *testPattern("title_new", 0.9, 1)
	store.exports["doc.json"] = &ExportDocument{
		ExportTimestamp: time.Now(),
		TotalPatterns:   2,
		Patterns:        []Pattern{weak, strongNew},
	}

	e := newTestEngine(t)
	e.SetSnapshotStore(store)

	local := testPattern("title_shared", 0.8, 3)
	e.store.Put(local)

	imported, err := e.ImportPatterns(context.Background(), "doc.json")
	if err != nil {
		t.Fatalf("ImportPatterns() failed: %v", err)
	}
	if imported != 1 {
		t.Errorf("imported %d patterns, want 1 (only the new fingerprint)", imported)
	}

	kept, _ := e.store.Get("title_shared")
	if kept.SuccessRate != 0.8 {
		t.Errorf("local pattern overwritten by weaker import: SuccessRate = %v", kept.SuccessRate)
	}
	if !e.store.Contains("title_new") {
		t.Error("new pattern not imported")
	}
}

func TestImportOverwritesWeakerLocal(t *testing.T) {
	store := newMemorySnapshotStore()
	stronger := *testPattern("title_shared", 0.9, 5)
	store.exports["doc.json"] = &ExportDocument{
		ExportTimestamp: time.Now(),
		TotalPatterns:   1,
		Patterns:        []Pattern{stronger},
	}

	e := newTestEngine(t)
	e.SetSnapshotStore(store)
	e.store.Put(testPattern("title_shared", 0.4, 1))

	imported, err := e.ImportPatterns(context.Background(), "doc.json")
	if err != nil {
		t.Fatalf("ImportPatterns() failed: %v", err)
	}
	if imported != 1 {
		t.Errorf("imported %d patterns, want 1", imported)
	}

	kept, _ := e.store.Get("title_shared")
	if kept.SuccessRate != 0.9 {
		t.Errorf("stronger import did not win: SuccessRate = %v", kept.SuccessRate)
	}
}

func TestEngineEvictionAtCapacity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxPatterns = 3
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() failed: %v", err)
	}

	titles := []string{
		"7 Investing Tips You Need NOW!",
		"Why Saving Matters More Than You Think",
		"What Nobody Tells You About Index Funds",
		"How To Start A Budget This Weekend",
	}
	views := []float64{70, 80, 90, 95}

	for i, title := range titles {
		if _, err := e.Observe(context.Background(), Content{Title: title},
			map[string]float64{"views": views[i]}); err != nil {
			t.Fatalf("Observe(%q) failed: %v", title, err)
		}
	}

	if e.store.Len() != 3 {
		t.Fatalf("store holds %d patterns, want capacity 3", e.store.Len())
	}

	// The weakest observation (views 70, success 0.7) must be the one evicted.
	for _, p := range e.Patterns() {
		if almostEqual(p.SuccessRate, 0.7) {
			t.Errorf("lowest-success pattern still present: %+v", p)
		}
	}
}
