// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

// Package storage provides persistence backends for the viral pattern engine.
//
// Two backends implement viral.SnapshotStore:
//
//   - File: gob-encoded, gzip-compressed, checksummed snapshot files with
//     version tracking and pruning of old versions. Suitable for single-node
//     deployments with a data directory.
//   - Badger: an embedded BadgerDB key-value store holding one record per
//     pattern plus the learning metrics. Suitable when incremental durability
//     matters more than snapshot portability.
//
// Both backends share the portable JSON export format, which is plain,
// human-inspectable, and safe to exchange between deployments.
//
// # Snapshot Format (file backend)
//
//	filename: patterns_v{version}.gob.gz
//
//	structure:
//	  - Metadata (SavedAt, PatternCount, Checksum)
//	  - CompressedData (gzip-compressed gob-encoded viral.Snapshot)
//
// The checksum is SHA-256 over the uncompressed gob bytes and is verified
// on load; a corrupt snapshot fails loudly rather than silently feeding the
// engine bad patterns.
package storage
