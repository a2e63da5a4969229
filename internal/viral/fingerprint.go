// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package viral

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// fingerprintHexLen is the number of checksum hex characters kept in a
// pattern ID. 16 chars (64 bits) keeps collisions negligible at the store's
// capacity while staying readable in logs.
const fingerprintHexLen = 16

// Fingerprint derives the stable pattern ID for a feature set. The ID is a
// pure function of the dimension and the feature values: fields are
// serialized as sorted name=value pairs, prefixed with the dimension name,
// and hashed with SHA-256. Re-extracting identical content always yields
// the same ID, across processes and runs.
func Fingerprint(fs FeatureSet) string {
	canonical := canonicalForm(fs)
	sum := sha256.Sum256([]byte(canonical))
	return fs.ContentType().String() + "_" + hex.EncodeToString(sum[:])[:fingerprintHexLen]
}

// canonicalForm builds the order-independent serialization that is hashed.
func canonicalForm(fs FeatureSet) string {
	fields := fs.Fields()
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})

	var sb strings.Builder
	sb.WriteString(fs.ContentType().String())
	for _, f := range fields {
		sb.WriteByte('|')
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		sb.WriteString(formatFieldValue(f))
	}
	return sb.String()
}

// formatFieldValue renders a field value deterministically. Floats use the
// shortest round-trippable representation so 15 and 15.0 serialize alike.
func formatFieldValue(f Field) string {
	switch f.Kind {
	case FieldBool:
		return strconv.FormatBool(f.Bool)
	case FieldNum:
		return strconv.FormatFloat(f.Num, 'g', -1, 64)
	case FieldStr:
		return f.Str
	default:
		return ""
	}
}
