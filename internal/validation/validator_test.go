// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package validation

import (
	"strings"
	"sync"
	"testing"
)

func TestGetValidator_Singleton(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]interface{}, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = GetValidator()
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("GetValidator returned different instances")
		}
	}
}

func TestRecommendRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       RecommendRequest
		wantField string
		wantTag   string
	}{
		{"valid", RecommendRequest{Title: "Steins;Gate", K: 5}, "", ""},
		{"unicode title", RecommendRequest{Title: "Gintama°", K: 3}, "", ""},
		{"missing title", RecommendRequest{K: 5}, "title", "required"},
		{"blank title", RecommendRequest{Title: "   ", K: 5}, "title", "notblank"},
		{"title too long", RecommendRequest{Title: strings.Repeat("a", 513), K: 5}, "title", "max"},
		{"zero k", RecommendRequest{Title: "Monster", K: 0}, "k", "gte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("ValidateStruct() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateStruct() expected error")
			}
			errs := err.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), err)
			}
			if errs[0].Field() != tt.wantField || errs[0].Tag() != tt.wantTag {
				t.Errorf("error = %s/%s, want %s/%s", errs[0].Field(), errs[0].Tag(), tt.wantField, tt.wantTag)
			}
		})
	}
}

func TestSuggestAndListRequest(t *testing.T) {
	if err := ValidateStruct(&SuggestRequest{Prefix: "nar", Limit: 20}); err != nil {
		t.Errorf("valid SuggestRequest error = %v", err)
	}
	if err := ValidateStruct(&SuggestRequest{Limit: 0}); err != nil {
		t.Errorf("empty SuggestRequest error = %v", err)
	}
	if err := ValidateStruct(&SuggestRequest{Limit: 101}); err == nil {
		t.Error("SuggestRequest limit 101 should fail")
	}
	if err := ValidateStruct(&ListRequest{Limit: 0}); err == nil {
		t.Error("ListRequest limit 0 should fail")
	}
	if err := ValidateStruct(&ListRequest{Limit: 500}); err != nil {
		t.Errorf("ListRequest limit 500 error = %v", err)
	}
}

func TestToAPIError_SingleError(t *testing.T) {
	err := ValidateStruct(&RecommendRequest{K: 5})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr := err.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Code = %s, want VALIDATION_ERROR", apiErr.Code)
	}
	if apiErr.Message != "title is required" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "title is required")
	}
	if apiErr.Details["field"] != "title" || apiErr.Details["tag"] != "required" {
		t.Errorf("Details = %v", apiErr.Details)
	}
}

func TestToAPIError_MultipleErrors(t *testing.T) {
	err := ValidateStruct(&RecommendRequest{Title: "", K: -1})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr := err.ToAPIError()
	if !strings.Contains(apiErr.Message, "title: title is required") ||
		!strings.Contains(apiErr.Message, "k: k must be greater than or equal to 1") {
		t.Errorf("Message = %q", apiErr.Message)
	}
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Errorf("Details[fields] = %#v, want 2 entries", apiErr.Details["fields"])
	}
}

func TestToAPIError_Empty(t *testing.T) {
	apiErr := (&RequestValidationError{}).ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" || apiErr.Message != "Validation failed" {
		t.Errorf("ToAPIError() = %+v", apiErr)
	}
	if (&RequestValidationError{}).Error() != "validation failed" {
		t.Error("empty Error() message mismatch")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		req  interface{}
		want string
	}{
		{"blank", &RecommendRequest{Title: " ", K: 3}, "title must not be blank"},
		{"max string", &RecommendRequest{Title: strings.Repeat("x", 600), K: 3}, "title must be at most 512 characters"},
		{"max number", &SuggestRequest{Limit: 1000}, "limit must be at most 100"},
		{"min number", &ListRequest{Limit: 0}, "limit must be at least 1"},
		{"max prefix", &SuggestRequest{Prefix: strings.Repeat("p", 300)}, "q must be at most 256 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	err := ValidateStruct("not a struct")
	if err == nil {
		t.Fatal("expected error for non-struct input")
	}
	if got := err.Errors()[0].Field(); got != "unknown" {
		t.Errorf("Field() = %q, want unknown", got)
	}
}
