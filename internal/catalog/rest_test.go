// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newRESTServer(t *testing.T, handler http.HandlerFunc) *RESTProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultRESTConfig()
	cfg.BaseURL = srv.URL + "/rest/v1/"
	cfg.APIKey = "anon-key"
	cfg.RequestsPerSecond = 0
	cfg.RetryBackoff = time.Millisecond
	p, err := NewRESTProvider(cfg)
	if err != nil {
		t.Fatalf("NewRESTProvider: %v", err)
	}
	return p
}

func TestRESTProvider_Fetch(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	p := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "anon-key" || r.Header.Get("Authorization") != "Bearer anon-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		var body interface{}
		switch r.URL.Path {
		case "/rest/v1/services":
			body = doc.Services
		case "/rest/v1/channels":
			body = doc.Channels
		case "/rest/v1/service_channels":
			if r.URL.Query().Get("select") != "service_id,channel_id" {
				http.Error(w, "bad select", http.StatusBadRequest)
				return
			}
			body = doc.Mappings
		default:
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	})

	ctx := context.Background()
	services, err := p.FetchServices(ctx)
	if err != nil || len(services) != 3 {
		t.Fatalf("FetchServices = %d, %v", len(services), err)
	}
	channels, err := p.FetchChannels(ctx)
	if err != nil || len(channels) != 4 {
		t.Fatalf("FetchChannels = %d, %v", len(channels), err)
	}
	mappings, err := p.FetchServiceChannelMappings(ctx)
	if err != nil || len(mappings) != 6 {
		t.Fatalf("FetchServiceChannelMappings = %d, %v", len(mappings), err)
	}
}

func TestRESTProvider_RetriesOn429(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	if _, err := p.FetchChannels(context.Background()); err != nil {
		t.Fatalf("FetchChannels: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestRESTProvider_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := p.FetchChannels(context.Background()); err == nil {
		t.Fatal("want error")
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("calls = %d, want 1 + 3 retries", got)
	}
}

func TestRESTProvider_ClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	p := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	})

	_, err := p.FetchServices(context.Background())
	if err == nil || !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("err = %v, want body in error", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRESTProvider_BadJSON(t *testing.T) {
	t.Parallel()

	p := newRESTServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	})
	if _, err := p.FetchServices(context.Background()); err == nil {
		t.Error("want decode error")
	}
}

func TestNewRESTProvider_InvalidURL(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"", "not a url", "/relative"} {
		cfg := DefaultRESTConfig()
		cfg.BaseURL = u
		if _, err := NewRESTProvider(cfg); err == nil {
			t.Errorf("NewRESTProvider(%q): want error", u)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	tests := map[string]time.Duration{
		"":    0,
		"2":   2 * time.Second,
		"abc": 0,
		"-1":  0,
	}
	for in, want := range tests {
		if got := parseRetryAfter(in); got != want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", in, got, want)
		}
	}
}
