// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package storage

import (
	"fmt"
	"path/filepath"

	"github.com/tomtom215/viralforge/internal/viral"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// Open constructs the snapshot store named by backend, rooted at dataDir.
// The badger backend keeps its database in a subdirectory so exports and
// database files do not mix.
func Open(backend, dataDir string) (viral.SnapshotStore, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dataDir)
	case BackendBadger:
		return NewBadgerStore(filepath.Join(dataDir, "badger"))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
