// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

/*
Package api provides the HTTP interface for service comparison.

Routes are served by a Chi router built in SetupChi:

	POST /api/v1/recommendations           scores and bundles together
	POST /api/v1/recommendations/services  single services only
	POST /api/v1/recommendations/bundles   bundles only
	GET  /api/v1/services                  catalog services with channel counts
	GET  /api/v1/services/{id}             one service and its lineup
	GET  /api/v1/channels?category=        channels, optionally by category
	GET  /api/v1/channels/categories       distinct categories
	GET  /api/v1/health/live               liveness
	GET  /api/v1/health/ready              readiness (catalog loadable)
	GET  /metrics                          Prometheus exposition

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "catalog_version": "..."}}
	{"success": false, "error": {"code": "VALIDATION_FAILED", "message": "..."}}

Comparison requests carry channel_ids (at most 500, each > 0) and optional
weights (each 1-10, defaulting to 5). Channel ids missing from the catalog
are rejected with UNKNOWN_CHANNELS. Responses are memoized per catalog
version, selection and weights for ResponseCacheTTL.
*/
package api
