// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

// Package services provides suture.Service wrappers for server components.
//
// HTTPServerService turns http.Server's blocking ListenAndServe into a
// context-aware Serve with graceful shutdown. CatalogRefreshService keeps
// the catalog snapshot warm and prunes the response cache on a schedule.
package services
