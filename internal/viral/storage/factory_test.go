// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenBackends(t *testing.T) {
	tests := []struct {
		name     string
		backend  string
		wantName string
	}{
		{name: "file backend", backend: BackendFile, wantName: "file"},
		{name: "empty backend defaults to file", backend: "", wantName: "file"},
		{name: "badger backend", backend: BackendBadger, wantName: "badger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(tt.backend, t.TempDir())
			if err != nil {
				t.Fatalf("Open(%q) failed: %v", tt.backend, err)
			}
			defer store.Close()

			if store.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", store.Name(), tt.wantName)
			}
		})
	}
}

func TestOpenBadgerUsesSubdirectory(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(BackendBadger, dir)
	if err != nil {
		t.Fatalf("Open(badger) failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(filepath.Join(dir, "badger")); err != nil {
		t.Errorf("badger db subdirectory missing: %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Error("Open(redis) returned nil error")
	}
}
