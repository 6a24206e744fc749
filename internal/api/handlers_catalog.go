// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/streamcompare/internal/logging"
	"github.com/tomtom215/streamcompare/internal/models"
	"github.com/tomtom215/streamcompare/internal/validation"
)

// ServiceSummary is a service with the number of channels it carries.
type ServiceSummary struct {
	models.Service
	ChannelCount int `json:"channel_count"`
}

// ServiceDetail is a service with its full channel lineup.
type ServiceDetail struct {
	models.Service
	Channels []models.Channel `json:"channels"`
}

// ListServices handles GET /api/v1/services
//
// @Summary List streaming services
// @Tags Catalog
// @Produce json
// @Success 200 {object} APIResponse{data=[]ServiceSummary}
// @Failure 503 {object} APIResponse
// @Router /services [get]
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	snap, err := h.snapshot(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Catalog unavailable")
		rw.ServiceUnavailable("Catalog is temporarily unavailable")
		return
	}

	services := snap.Services()
	out := make([]ServiceSummary, len(services))
	for i := range services {
		out[i] = ServiceSummary{
			Service:      services[i],
			ChannelCount: len(snap.ChannelsForService(services[i].ID)),
		}
	}

	meta := catalogMeta(snap)
	count := len(out)
	meta.Count = &count
	rw.SuccessWithMeta(out, meta)
}

// GetService handles GET /api/v1/services/{id}
//
// @Summary Get a service and its channel lineup
// @Tags Catalog
// @Produce json
// @Param id path int true "Service ID"
// @Success 200 {object} APIResponse{data=ServiceDetail}
// @Failure 400 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /services/{id} [get]
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	snap, err := h.snapshot(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Catalog unavailable")
		rw.ServiceUnavailable("Catalog is temporarily unavailable")
		return
	}

	svc, ok := snap.Service(id)
	if !ok {
		rw.NotFound("Service not found")
		return
	}

	rw.SuccessWithMeta(ServiceDetail{Service: svc, Channels: snap.ChannelsForService(id)}, catalogMeta(snap))
}

// ListChannels handles GET /api/v1/channels
//
// @Summary List channels, optionally filtered by category
// @Tags Catalog
// @Produce json
// @Param category query string false "Category (case-insensitive)"
// @Success 200 {object} APIResponse{data=[]models.Channel}
// @Router /channels [get]
func (h *Handler) ListChannels(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	req := ChannelListRequest{Category: r.URL.Query().Get("category")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr)
		return
	}

	snap, err := h.snapshot(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Catalog unavailable")
		rw.ServiceUnavailable("Catalog is temporarily unavailable")
		return
	}

	channels := snap.ChannelsByCategory(req.Category)
	if channels == nil {
		channels = []models.Channel{}
	}
	meta := catalogMeta(snap)
	count := len(channels)
	meta.Count = &count
	rw.SuccessWithMeta(channels, meta)
}

// ListCategories handles GET /api/v1/channels/categories
//
// @Summary List distinct channel categories
// @Tags Catalog
// @Produce json
// @Success 200 {object} APIResponse{data=[]string}
// @Router /channels/categories [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	snap, err := h.snapshot(r.Context())
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Catalog unavailable")
		rw.ServiceUnavailable("Catalog is temporarily unavailable")
		return
	}

	categories := snap.Categories()
	if categories == nil {
		categories = []string{}
	}
	rw.SuccessWithMeta(categories, catalogMeta(snap))
}
