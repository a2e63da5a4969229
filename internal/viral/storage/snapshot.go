// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/viralforge/internal/viral"
)

// keepSnapshotVersions is how many snapshot files survive pruning.
const keepSnapshotVersions = 3

func init() {
	// Snapshot gob encoding carries viral.FeatureSet interface values; the
	// concrete types must be registered before the first encode or decode.
	gob.Register(viral.TitleFeatures{})
	gob.Register(viral.ThumbnailFeatures{})
	gob.Register(viral.StructureFeatures{})
	gob.Register(viral.TimingFeatures{})
	gob.Register(viral.TopicFeatures{})
}

// SnapshotMetadata describes a stored snapshot file.
type SnapshotMetadata struct {
	// Version is the snapshot version (monotonically increasing).
	Version int `json:"version"`

	// SavedAt is when the snapshot was written.
	SavedAt time.Time `json:"saved_at"`

	// PatternCount is the number of patterns in the snapshot.
	PatternCount int `json:"pattern_count"`

	// Checksum is the SHA-256 checksum of the uncompressed snapshot data.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed snapshot size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// snapshotFile is the on-disk format for snapshot files.
type snapshotFile struct {
	Metadata       SnapshotMetadata
	CompressedData []byte
}

// FileStore persists engine snapshots as versioned files in a directory.
type FileStore struct {
	baseDir string
	mu      sync.Mutex
	version int
}

// NewFileStore creates a file-backed snapshot store at the given directory,
// scanning for existing snapshot versions.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil { //nolint:gosec // 0750 is acceptable for pattern storage
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &FileStore{baseDir: baseDir}
	if err := s.scanSnapshots(); err != nil {
		return nil, fmt.Errorf("scan existing snapshots: %w", err)
	}
	return s, nil
}

// Name implements viral.SnapshotStore.
func (s *FileStore) Name() string { return "file" }

// Close implements viral.SnapshotStore. The file backend holds no open
// resources between operations.
func (s *FileStore) Close() error { return nil }

// scanSnapshots finds the latest snapshot version in the directory.
func (s *FileStore) scanSnapshots() error {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(entry.Name(), "patterns_v%d.gob.gz", &version); err != nil {
			continue
		}
		if version > s.version {
			s.version = version
		}
	}
	return nil
}

// snapshotPath returns the file path for a snapshot version.
func (s *FileStore) snapshotPath(version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("patterns_v%d.gob.gz", version))
}

// SaveSnapshot writes the snapshot as the next version and prunes old ones.
func (s *FileStore) SaveSnapshot(ctx context.Context, snap *viral.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	rawData := buf.Bytes()

	hash := sha256.Sum256(rawData)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(rawData); err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	version := s.version + 1
	sf := snapshotFile{
		Metadata: SnapshotMetadata{
			Version:      version,
			SavedAt:      snap.SavedAt,
			PatternCount: len(snap.Patterns),
			Checksum:     hex.EncodeToString(hash[:]),
			SizeBytes:    int64(compressed.Len()),
		},
		CompressedData: compressed.Bytes(),
	}

	f, err := os.Create(s.snapshotPath(version)) //nolint:gosec // path is constructed from the configured base directory
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after write is reported via Encode

	if err := gob.NewEncoder(f).Encode(sf); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}

	s.version = version
	s.pruneLocked()
	s.writeMetricsSummary(&snap.Metrics)
	return nil
}

// LoadSnapshot reads the latest snapshot version, verifying its checksum.
func (s *FileStore) LoadSnapshot(ctx context.Context) (*viral.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.version == 0 {
		return nil, viral.ErrNoSnapshot
	}

	f, err := os.Open(s.snapshotPath(s.version)) //nolint:gosec // path is constructed from the configured base directory
	if err != nil {
		return nil, fmt.Errorf("open snapshot file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf snapshotFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	rawData, err := io.ReadAll(gzr)
	if err != nil {
		return nil, fmt.Errorf("read decompressed data: %w", err)
	}

	hash := sha256.Sum256(rawData)
	if checksum := hex.EncodeToString(hash[:]); checksum != sf.Metadata.Checksum {
		return nil, fmt.Errorf("checksum mismatch: expected %s, got %s", sf.Metadata.Checksum, checksum)
	}

	var snap viral.Snapshot
	if err := gob.NewDecoder(bytes.NewReader(rawData)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// WriteExport implements viral.SnapshotStore using the shared JSON format.
func (s *FileStore) WriteExport(ctx context.Context, path string, doc *viral.ExportDocument) (string, error) {
	if path == "" {
		path = defaultExportPath(s.baseDir, doc.ExportTimestamp)
	}
	return writeExportFile(ctx, path, doc)
}

// ReadExport implements viral.SnapshotStore.
func (s *FileStore) ReadExport(ctx context.Context, path string) (*viral.ExportDocument, error) {
	return readExportFile(ctx, path)
}

// pruneLocked deletes snapshot versions older than the newest
// keepSnapshotVersions. Callers hold mu.
func (s *FileStore) pruneLocked() {
	for v := s.version - keepSnapshotVersions; v > 0; v-- {
		path := s.snapshotPath(v)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		_ = os.Remove(path) //nolint:errcheck // prune failure leaves an extra file, nothing to recover
	}
}

// writeMetricsSummary drops a human-inspectable metrics file next to the
// snapshots. Best-effort; the gob snapshot remains the source of truth.
func (s *FileStore) writeMetricsSummary(m *viral.LearningMetrics) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(s.baseDir, "learning_metrics.json"), data, 0o600) //nolint:errcheck // summary file is advisory
}
