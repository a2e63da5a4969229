// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/viralforge/internal/viral"
)

// Key prefixes for BadgerDB storage.
const (
	patternKeyPrefix = "pattern:"
	metaKey          = "meta:snapshot"
)

// badgerMeta is the snapshot bookkeeping record stored alongside patterns.
type badgerMeta struct {
	SavedAt string                `json:"saved_at"`
	Metrics viral.LearningMetrics `json:"metrics"`
}

// BadgerStore persists engine snapshots in an embedded BadgerDB. Each
// pattern is one JSON record, so a snapshot write only touches keys that
// changed plus a full delete of removed ones.
type BadgerStore struct {
	db      *badger.DB
	baseDir string
}

// NewBadgerStore opens (or creates) a BadgerDB at dir. Badger's own logger
// is disabled; operational logging happens at the engine level.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerStore{db: db, baseDir: dir}, nil
}

// Name implements viral.SnapshotStore.
func (s *BadgerStore) Name() string { return "badger" }

// Close implements viral.SnapshotStore.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot replaces the stored pattern set with the snapshot's contents.
func (s *BadgerStore) SaveSnapshot(ctx context.Context, snap *viral.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Collect keys that are no longer present so stale patterns do not
	// resurface on the next load.
	stale, err := s.stalePatternKeys(snap)
	if err != nil {
		return err
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range snap.Patterns {
		p := &snap.Patterns[i]
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal pattern %s: %w", p.ID, err)
		}
		if err := wb.Set([]byte(patternKeyPrefix+p.ID), data); err != nil {
			return fmt.Errorf("set pattern %s: %w", p.ID, err)
		}
	}

	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return fmt.Errorf("delete stale pattern: %w", err)
		}
	}

	meta := badgerMeta{
		SavedAt: snap.SavedAt.Format(time.RFC3339Nano),
		Metrics: snap.Metrics,
	}
	metaData, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal snapshot meta: %w", err)
	}
	if err := wb.Set([]byte(metaKey), metaData); err != nil {
		return fmt.Errorf("set snapshot meta: %w", err)
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush snapshot batch: %w", err)
	}
	return nil
}

// stalePatternKeys returns stored pattern keys absent from the snapshot.
func (s *BadgerStore) stalePatternKeys(snap *viral.Snapshot) ([][]byte, error) {
	keep := make(map[string]struct{}, len(snap.Patterns))
	for i := range snap.Patterns {
		keep[patternKeyPrefix+snap.Patterns[i].ID] = struct{}{}
	}

	var stale [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(patternKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if _, ok := keep[string(key)]; !ok {
				stale = append(stale, key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan stale patterns: %w", err)
	}
	return stale, nil
}

// LoadSnapshot reads every stored pattern plus the metrics record.
func (s *BadgerStore) LoadSnapshot(ctx context.Context) (*viral.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := &viral.Snapshot{}
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return viral.ErrNoSnapshot
		}
		if err != nil {
			return fmt.Errorf("get snapshot meta: %w", err)
		}

		var meta badgerMeta
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		}); err != nil {
			return fmt.Errorf("decode snapshot meta: %w", err)
		}
		snap.Metrics = meta.Metrics
		if t, err := time.Parse(time.RFC3339Nano, meta.SavedAt); err == nil {
			snap.SavedAt = t
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(patternKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var p viral.Pattern
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				return fmt.Errorf("decode pattern %s: %w", it.Item().Key(), err)
			}
			snap.Patterns = append(snap.Patterns, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// WriteExport implements viral.SnapshotStore using the shared JSON format.
// Exports land next to the database directory.
func (s *BadgerStore) WriteExport(ctx context.Context, path string, doc *viral.ExportDocument) (string, error) {
	if path == "" {
		path = defaultExportPath(filepath.Dir(s.baseDir), doc.ExportTimestamp)
	}
	return writeExportFile(ctx, path, doc)
}

// ReadExport implements viral.SnapshotStore.
func (s *BadgerStore) ReadExport(ctx context.Context, path string) (*viral.ExportDocument, error) {
	return readExportFile(ctx, path)
}
