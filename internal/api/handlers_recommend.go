// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/streamcompare/internal/cache"
	"github.com/tomtom215/streamcompare/internal/logging"
	"github.com/tomtom215/streamcompare/internal/metrics"
	"github.com/tomtom215/streamcompare/internal/recommend"
)

// Recommendation kinds used as metric labels.
const (
	kindFull     = "full"
	kindServices = "services"
	kindBundles  = "bundles"
)

// ServicesResponse is the body of POST /recommendations/services.
type ServicesResponse struct {
	Recommendations      []recommend.ScoredService  `json:"recommendations"`
	SelectedChannelCount int                        `json:"selected_channel_count"`
	Metadata             recommend.ResponseMetadata `json:"metadata"`
}

// BundlesResponse is the body of POST /recommendations/bundles.
type BundlesResponse struct {
	Bundles              []recommend.Bundle         `json:"bundles"`
	BundleOutcome        recommend.BundleOutcome    `json:"bundle_outcome"`
	SelectedChannelCount int                        `json:"selected_channel_count"`
	Metadata             recommend.ResponseMetadata `json:"metadata"`
}

// compareCacheKey identifies a comparison against one catalog version.
type compareCacheKey struct {
	Version    string            `json:"version"`
	ChannelIDs []int             `json:"channel_ids"`
	Weights    recommend.Weights `json:"weights"`
}

// Recommendations handles POST /api/v1/recommendations
//
// @Summary Compare services for a channel selection
// @Description Scores every service against the selected channels and searches for 2-3 service bundles
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Channel selection and weights"
// @Success 200 {object} APIResponse{data=recommend.Response}
// @Failure 400 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /recommendations [post]
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	resp, meta, ok := h.compare(rw, r, kindFull)
	if !ok {
		return
	}
	rw.SuccessWithMeta(resp, meta)
}

// ServiceRecommendations handles POST /api/v1/recommendations/services
//
// @Summary Rank single services for a channel selection
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Channel selection and weights"
// @Success 200 {object} APIResponse{data=ServicesResponse}
// @Router /recommendations/services [post]
func (h *Handler) ServiceRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	resp, meta, ok := h.compare(rw, r, kindServices)
	if !ok {
		return
	}
	rw.SuccessWithMeta(ServicesResponse{
		Recommendations:      resp.Recommendations,
		SelectedChannelCount: resp.SelectedChannelCount,
		Metadata:             resp.Metadata,
	}, meta)
}

// BundleRecommendations handles POST /api/v1/recommendations/bundles
//
// @Summary Find service bundles for a channel selection
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param request body CompareRequest true "Channel selection and weights"
// @Success 200 {object} APIResponse{data=BundlesResponse}
// @Router /recommendations/bundles [post]
func (h *Handler) BundleRecommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	resp, meta, ok := h.compare(rw, r, kindBundles)
	if !ok {
		return
	}
	rw.SuccessWithMeta(BundlesResponse{
		Bundles:              resp.Bundles,
		BundleOutcome:        resp.BundleOutcome,
		SelectedChannelCount: resp.SelectedChannelCount,
		Metadata:             resp.Metadata,
	}, meta)
}

// compare decodes and validates the request, then runs the engine against
// the current catalog snapshot. On failure it writes the error response and
// returns ok=false.
func (h *Handler) compare(rw *ResponseWriter, r *http.Request, kind string) (*recommend.Response, *APIMeta, bool) {
	start := time.Now()
	ctx := r.Context()

	var req CompareRequest
	if !decodeAndValidate(rw, r, &req) {
		return nil, nil, false
	}

	snap, err := h.snapshot(ctx)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Catalog unavailable for comparison")
		rw.ServiceUnavailable("Catalog is temporarily unavailable")
		return nil, nil, false
	}

	selected := recommend.NormalizeSelection(req.ChannelIDs)
	if unknown := snap.UnknownChannels(selected); len(unknown) > 0 {
		rw.ErrorWithDetails(http.StatusBadRequest, ErrCodeUnknownChannels,
			fmt.Sprintf("%d unknown channel id(s)", len(unknown)),
			map[string]interface{}{"unknown_channel_ids": unknown})
		return nil, nil, false
	}

	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
	}
	weights := req.ToWeights()
	meta := catalogMeta(snap)

	key := cache.GenerateKey("compare", compareCacheKey{
		Version:    snap.Version,
		ChannelIDs: selected,
		Weights:    weights,
	})
	if resp, ok := h.cachedResponse(key, requestID); ok {
		meta.Cached = true
		metrics.RecordRecommendation(kind, len(selected), time.Since(start))
		return resp, meta, true
	}

	resp := h.engine.Compare(snap.Catalog(), recommend.Request{
		ChannelIDs: selected,
		Weights:    weights,
		RequestID:  requestID,
	})
	if h.responses != nil {
		h.responses.Set(key, resp)
	}

	metrics.RecordRecommendation(kind, len(selected), time.Since(start))
	metrics.RecordBundleSearch(resp.BundleOutcome.String(), resp.Metadata.CombinationsEvaluated)

	logging.Ctx(ctx).Debug().
		Str("kind", kind).
		Str("catalog_version", snap.Version).
		Int("selected_channels", resp.SelectedChannelCount).
		Int("recommendations", len(resp.Recommendations)).
		Int("bundles", len(resp.Bundles)).
		Str("bundle_outcome", resp.BundleOutcome.String()).
		Msg("Comparison served")

	return resp, meta, true
}

// cachedResponse returns a copy of a cached response stamped with requestID.
// Cached slices are shared and must not be modified.
func (h *Handler) cachedResponse(key, requestID string) (*recommend.Response, bool) {
	if h.responses == nil {
		return nil, false
	}
	cached, ok := h.responses.Get(key)
	metrics.RecordCacheLookup("responses", ok)
	if !ok {
		return nil, false
	}
	resp := *cached
	resp.Metadata.RequestID = requestID
	return &resp, true
}
