// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/streamcompare/internal/catalog"
	"github.com/tomtom215/streamcompare/internal/models"
	"github.com/tomtom215/streamcompare/internal/recommend"
)

// fakeSource serves a fixed snapshot or error.
type fakeSource struct {
	mu    sync.Mutex
	snap  *catalog.Snapshot
	err   error
	calls int
}

func (f *fakeSource) Snapshot(_ context.Context) (*catalog.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *fakeSource) Current() *catalog.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// testDocument has three services over five channels:
//
//	Alpha $10  channels 1 2 3
//	Beta  $20  channels 3 4 5
//	Gamma $5   channel  1
//
// Channel 6 exists but no service carries it.
func testDocument() catalog.Document {
	return catalog.Document{
		Services: []models.Service{
			{ID: 1, Name: "Alpha", MonthlyPrice: 10, MaxStreams: 2},
			{ID: 2, Name: "Beta", MonthlyPrice: 20, MaxStreams: 4},
			{ID: 3, Name: "Gamma", MonthlyPrice: 5, MaxStreams: 1, HasAds: true},
		},
		Channels: []models.Channel{
			{ID: 1, Name: "CNN", Category: "News"},
			{ID: 2, Name: "MSNBC", Category: "News"},
			{ID: 3, Name: "ESPN", Category: "Sports"},
			{ID: 4, Name: "Nick", Category: "Kids"},
			{ID: 5, Name: "Disney", Category: "Kids"},
			{ID: 6, Name: "KTLA", Category: "Local"},
		},
		Mappings: []models.ServiceChannel{
			{ServiceID: 1, ChannelID: 1},
			{ServiceID: 1, ChannelID: 2},
			{ServiceID: 1, ChannelID: 3},
			{ServiceID: 2, ChannelID: 3},
			{ServiceID: 2, ChannelID: 4},
			{ServiceID: 2, ChannelID: 5},
			{ServiceID: 3, ChannelID: 1},
		},
	}
}

func testSnapshot() *catalog.Snapshot {
	return catalog.NewSnapshot(testDocument(), catalog.SourceFile, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
}

func newTestHandler(t *testing.T, source CatalogSource) *Handler {
	t.Helper()
	engine, err := recommend.NewEngine(nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return NewHandler(engine, source, DefaultHandlerConfig(), zerolog.Nop())
}

// newTestServer returns a router with rate limiting disabled.
func newTestServer(t *testing.T, source CatalogSource) http.Handler {
	t.Helper()
	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(newTestHandler(t, source), NewChiMiddleware(cfg), 64<<10).SetupChi()
}

// envelope mirrors APIResponse with a raw payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if ct := rec.Header().Get("Content-Type"); ct != "" && bytes.HasPrefix([]byte(ct), []byte("application/json")) {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
		}
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
}
