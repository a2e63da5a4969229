// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"sort"
	"sync"
	"time"
)

// Store is the capacity-bounded collection of learned patterns. It is safe
// for concurrent use: mutations are serialized by a single writer lock, and
// readers receive deep copies so no pattern escapes the lock.
type Store struct {
	mu       sync.RWMutex
	patterns map[string]*storeEntry
	max      int
	seq      uint64
}

// storeEntry pairs a pattern with its insertion sequence number, used as
// the final eviction tie-break.
type storeEntry struct {
	pattern *Pattern
	seq     uint64
}

// NewStore creates a pattern store holding at most max patterns.
func NewStore(max int) *Store {
	return &Store{
		patterns: make(map[string]*storeEntry, max),
		max:      max,
	}
}

// Len returns the number of stored patterns.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patterns)
}

// Get returns a copy of the pattern with the given ID.
func (s *Store) Get(id string) (*Pattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.patterns[id]
	if !ok {
		return nil, false
	}
	return e.pattern.Clone(), true
}

// Contains reports whether a pattern with the given ID is stored.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.patterns[id]
	return ok
}

// Put inserts or replaces a pattern. When inserting a new ID at capacity,
// the worst pattern is evicted first; the evicted pattern is returned.
func (s *Store) Put(p *Pattern) (evicted *Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.patterns[p.ID]; ok {
		e.pattern = p.Clone()
		return nil
	}

	if len(s.patterns) >= s.max {
		evicted = s.evictWorstLocked()
	}

	s.seq++
	s.patterns[p.ID] = &storeEntry{pattern: p.Clone(), seq: s.seq}
	return evicted
}

// Update applies fn to the stored pattern under the write lock. Returns
// false when the ID is absent.
func (s *Store) Update(id string, fn func(*Pattern)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.patterns[id]
	if !ok {
		return false
	}
	fn(e.pattern)
	return true
}

// EvictWorst removes and returns the pattern with the lowest success rate.
// Ties break to the lowest usage count, then the earliest insertion.
// Returns nil on an empty store.
func (s *Store) EvictWorst() *Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictWorstLocked()
}

// evictWorstLocked implements EvictWorst. Must be called with mu held.
func (s *Store) evictWorstLocked() *Pattern {
	var worst *storeEntry
	for _, e := range s.patterns {
		if worst == nil || lessEntry(e, worst) {
			worst = e
		}
	}
	if worst == nil {
		return nil
	}
	delete(s.patterns, worst.pattern.ID)
	return worst.pattern
}

// lessEntry orders entries by eviction priority: lowest success rate first,
// then lowest usage count, then earliest insertion.
func lessEntry(a, b *storeEntry) bool {
	if a.pattern.SuccessRate != b.pattern.SuccessRate {
		return a.pattern.SuccessRate < b.pattern.SuccessRate
	}
	if a.pattern.UsageCount != b.pattern.UsageCount {
		return a.pattern.UsageCount < b.pattern.UsageCount
	}
	return a.seq < b.seq
}

// Sweep removes patterns that are older than maxAge AND below minSuccess
// AND below minUsage. All three conditions are required. Returns the
// number removed.
func (s *Store) Sweep(maxAge time.Duration, minSuccess float64, minUsage int, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-maxAge)
	removed := 0
	for id, e := range s.patterns {
		p := e.pattern
		if p.LastUpdated.Before(cutoff) && p.SuccessRate < minSuccess && p.UsageCount < minUsage {
			delete(s.patterns, id)
			removed++
		}
	}
	return removed
}

// All returns copies of every stored pattern in insertion order. The copy
// is taken under the read lock so it is a consistent snapshot.
func (s *Store) All() []Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*storeEntry, 0, len(s.patterns))
	for _, e := range s.patterns {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	out := make([]Pattern, 0, len(entries))
	for _, e := range entries {
		out = append(out, *e.pattern.Clone())
	}
	return out
}

// TopBySuccess returns up to n pattern copies sorted by success rate,
// highest first. Ties keep insertion order for determinism.
func (s *Store) TopBySuccess(n int) []Pattern {
	all := s.All()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].SuccessRate > all[j].SuccessRate
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// Replace swaps the full contents of the store, used when restoring a
// snapshot. Patterns beyond capacity are dropped in input order.
func (s *Store) Replace(patterns []Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.patterns = make(map[string]*storeEntry, s.max)
	s.seq = 0
	for i := range patterns {
		if len(s.patterns) >= s.max {
			break
		}
		s.seq++
		p := patterns[i]
		s.patterns[p.ID] = &storeEntry{pattern: p.Clone(), seq: s.seq}
	}
}
