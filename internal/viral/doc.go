// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

// Package viral implements the pattern learning and prediction engine.
//
// # Architecture
//
// The engine learns from content performance observations and predicts the
// viral potential of new content:
//
//   - Scoring: raw performance metrics are folded into a weighted viral
//     score in [0,1]
//   - Extraction: high-scoring content yields feature sets across five
//     dimensions (title, thumbnail, structure, timing, topic)
//   - Learning: feature sets are fingerprinted into stable pattern IDs;
//     repeat observations blend into existing patterns with exponential
//     moving averages
//   - Prediction: new content is matched against stored patterns with
//     per-dimension tolerances and aggregated into an overall score with
//     recommendations and risk factors
//
// # Design Principles
//
//   - Deterministic: identical feature values always produce identical
//     pattern IDs, across processes and restarts
//   - Bounded: the pattern store, session history, and per-category
//     performance memory all have fixed capacities
//   - Auditable: every learning session is recorded with structured fields
//   - Durable: state persists through a pluggable SnapshotStore
//
// # Concurrency
//
// Engine methods are safe for concurrent use. The pattern store has its own
// lock; session history and cumulative metrics are guarded separately, so
// predictions never block behind snapshot writes.
package viral
