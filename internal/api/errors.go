// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

// Package api provides the HTTP surface of the viral pattern engine.
//
// errors.go - Common API error codes
package api

// Error codes returned inside the error envelope.
// The validation error code comes from the validation package's ToAPIError.
const (
	codeInvalidJSON   = "INVALID_JSON"
	codeInvalidQuery  = "INVALID_QUERY"
	codeInternalError = "INTERNAL_ERROR"
	codeStorageError  = "STORAGE_ERROR"
)
