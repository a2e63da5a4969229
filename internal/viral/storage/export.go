// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/viralforge/internal/viral"
)

// defaultExportPath builds the timestamped export filename used when the
// caller does not name one.
func defaultExportPath(baseDir string, ts time.Time) string {
	return filepath.Join(baseDir, fmt.Sprintf("patterns_export_%s.json", ts.Format("20060102_150405")))
}

// writeExportFile writes an export document as indented JSON. Exports are
// plain JSON rather than gob so they survive schema drift and can be
// inspected or exchanged between deployments.
func writeExportFile(ctx context.Context, path string, doc *viral.ExportDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write export file: %w", err)
	}
	return path, nil
}

// readExportFile reads a previously written export document.
func readExportFile(ctx context.Context, path string) (*viral.ExportDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // import path is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}

	var doc viral.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return &doc, nil
}
