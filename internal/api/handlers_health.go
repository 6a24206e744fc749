// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/streamcompare/internal/cache"
	"github.com/tomtom215/streamcompare/internal/logging"
)

// Health status values.
const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// LiveStatus is the body of the liveness probe.
type LiveStatus struct {
	Alive  bool    `json:"alive"`
	Uptime float64 `json:"uptime_seconds"`
}

// ReadyStatus is the body of the readiness probe.
type ReadyStatus struct {
	Status        string      `json:"status"`
	Uptime        float64     `json:"uptime_seconds"`
	CatalogSource string      `json:"catalog_source"`
	Version       string      `json:"catalog_version"`
	Stale         bool        `json:"catalog_stale"`
	LoadedAt      time.Time   `json:"catalog_loaded_at"`
	Services      int         `json:"services"`
	Channels      int         `json:"channels"`
	Mappings      int         `json:"mappings"`
	ResponseCache cache.Stats `json:"response_cache"`
}

// HealthLive handles liveness probe requests.
// Returns 200 OK if the process is alive, regardless of dependencies.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=LiveStatus}
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(LiveStatus{
		Alive:  true,
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests.
// Returns 200 once a catalog snapshot can be served, stale or not,
// and 503 otherwise.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=ReadyStatus}
// @Failure 503 {object} APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	snap, err := h.snapshot(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"Catalog not loaded", map[string]interface{}{"reason": err.Error()})
		return
	}

	status := statusHealthy
	if snap.Stale {
		status = statusDegraded
	}

	rw.Success(ReadyStatus{
		Status:        status,
		Uptime:        time.Since(h.startTime).Seconds(),
		CatalogSource: snap.Source,
		Version:       snap.Version,
		Stale:         snap.Stale,
		LoadedAt:      snap.LoadedAt,
		Services:      len(snap.Services()),
		Channels:      len(snap.Channels()),
		Mappings:      len(snap.Mappings()),
		ResponseCache: h.CacheStats(),
	})
}
