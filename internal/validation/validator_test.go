// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package validation

import (
	"strings"
	"testing"
)

func TestGetValidatorSingleton(t *testing.T) {
	v1 := GetValidator()
	v2 := GetValidator()

	if v1 == nil {
		t.Fatal("GetValidator() returned nil")
	}
	if v1 != v2 {
		t.Error("GetValidator() returned different instances")
	}
}

type learnPayload struct {
	Title       string             `validate:"required,min=1,max=200"`
	Performance map[string]float64 `validate:"required,min=1"`
	Threshold   float64            `validate:"gte=0,lte=1"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		input   learnPayload
		wantErr bool
	}{
		{
			name: "valid payload",
			input: learnPayload{
				Title:       "7 Investing Tips",
				Performance: map[string]float64{"views": 90},
				Threshold:   0.7,
			},
		},
		{
			name: "missing title",
			input: learnPayload{
				Performance: map[string]float64{"views": 90},
			},
			wantErr: true,
		},
		{
			name: "empty performance map",
			input: learnPayload{
				Title:       "t",
				Performance: map[string]float64{},
			},
			wantErr: true,
		},
		{
			name: "threshold out of range",
			input: learnPayload{
				Title:       "t",
				Performance: map[string]float64{"views": 90},
				Threshold:   1.5,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorMessages(t *testing.T) {
	err := ValidateStruct(&learnPayload{Threshold: 2})
	if err == nil {
		t.Fatal("expected validation errors")
	}

	msg := err.Error()
	for _, want := range []string{"Title is required", "Performance is required", "less than or equal to 1"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	type single struct {
		Name string `validate:"required"`
	}

	err := ValidateStruct(&single{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	if apiErr.Message != "Name is required" {
		t.Errorf("Message = %q", apiErr.Message)
	}
	if apiErr.Details["field"] != "Name" {
		t.Errorf("Details.field = %v", apiErr.Details["field"])
	}
}

func TestToAPIErrorMultiple(t *testing.T) {
	err := ValidateStruct(&learnPayload{Threshold: 2})
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if len(err.Errors()) < 2 {
		t.Fatalf("Errors() = %d entries, want several", len(err.Errors()))
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %q", apiErr.Code)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Details.fields = %T, want field list", apiErr.Details["fields"])
	}
	if len(fields) != len(err.Errors()) {
		t.Errorf("fields = %d entries, want %d", len(fields), len(err.Errors()))
	}
}

func TestValidationErrorAccessors(t *testing.T) {
	type payload struct {
		Limit int `validate:"max=100"`
	}

	err := ValidateStruct(&payload{Limit: 500})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fieldErr := err.Errors()[0]
	if fieldErr.Field() != "Limit" {
		t.Errorf("Field() = %q", fieldErr.Field())
	}
	if fieldErr.Tag() != "max" {
		t.Errorf("Tag() = %q", fieldErr.Tag())
	}
	if fieldErr.Param() != "100" {
		t.Errorf("Param() = %q", fieldErr.Param())
	}
	if fieldErr.Value() != 500 {
		t.Errorf("Value() = %v", fieldErr.Value())
	}
	if !strings.Contains(fieldErr.Error(), "at most 100") {
		t.Errorf("Error() = %q", fieldErr.Error())
	}
}
