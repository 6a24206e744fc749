// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamcompare/internal/logging"
	"github.com/tomtom215/streamcompare/internal/recommend"
	"github.com/tomtom215/streamcompare/internal/validation"
)

func TestResponseWriter_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		write      func(rw *ResponseWriter)
		wantStatus int
		wantCode   string
	}{
		{"bad request", func(rw *ResponseWriter) { rw.BadRequest("x") }, http.StatusBadRequest, ErrCodeBadRequest},
		{"not found", func(rw *ResponseWriter) { rw.NotFound("x") }, http.StatusNotFound, ErrCodeNotFound},
		{"method", func(rw *ResponseWriter) { rw.MethodNotAllowed() }, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed},
		{"rate limited", func(rw *ResponseWriter) { rw.TooManyRequests("x") }, http.StatusTooManyRequests, ErrCodeTooManyRequests},
		{"internal", func(rw *ResponseWriter) { rw.InternalError("x") }, http.StatusInternalServerError, ErrCodeInternalError},
		{"unavailable", func(rw *ResponseWriter) { rw.ServiceUnavailable("x") }, http.StatusServiceUnavailable, ErrCodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(logging.ContextWithRequestID(req.Context(), "rid-1"))
			rec := httptest.NewRecorder()

			tt.write(NewResponseWriter(rec, req))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var resp APIResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Success || resp.Error == nil {
				t.Fatalf("response = %+v, want error", resp)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Error.Code, tt.wantCode)
			}
			if resp.Error.RequestID != "rid-1" || resp.Meta.RequestID != "rid-1" {
				t.Errorf("request id not propagated: %+v %+v", resp.Error, resp.Meta)
			}
		})
	}
}

func TestResponseWriter_ValidationError(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	verr := validation.ValidateStruct(&WeightsRequest{Price: intPtr(0), Coverage: intPtr(5)})
	if verr == nil {
		t.Fatal("expected validation error")
	}
	NewResponseWriter(rec, req).ValidationError(verr)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		Error struct {
			Code    string                 `json:"code"`
			Message string                 `json:"message"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("code = %q", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "price" {
		t.Errorf("details = %v, want field price", resp.Error.Details)
	}
	if resp.Error.Message != "price must be at least 1" {
		t.Errorf("message = %q", resp.Error.Message)
	}
}

func TestCompareRequest_ToWeights(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		weights *WeightsRequest
		want    recommend.Weights
	}{
		{
			name: "no weights object",
			want: recommend.Weights{Price: 5, Coverage: 5, Features: 5},
		},
		{
			name:    "all weights",
			weights: &WeightsRequest{Price: intPtr(1), Coverage: intPtr(10), Features: intPtr(3)},
			want:    recommend.Weights{Price: 1, Coverage: 10, Features: 3},
		},
		{
			name:    "only price",
			weights: &WeightsRequest{Price: intPtr(3)},
			want:    recommend.Weights{Price: 3, Coverage: 5, Features: 5},
		},
		{
			name:    "empty object",
			weights: &WeightsRequest{},
			want:    recommend.Weights{Price: 5, Coverage: 5, Features: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := CompareRequest{Weights: tt.weights}
			if got := req.ToWeights(); got != tt.want {
				t.Errorf("ToWeights() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func intPtr(v int) *int {
	return &v
}
