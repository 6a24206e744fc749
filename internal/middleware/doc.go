// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

// Package middleware provides net/http middleware shared by the API router.
//
// Middleware here uses the http.HandlerFunc -> http.HandlerFunc shape; the
// api package adapts it for chi with chiMiddleware.
//
//   - RequestID: reads or generates X-Request-ID and seeds the logging context
//   - PrometheusMetrics: request count, latency and in-flight gauge, labelled
//     by chi route pattern so path parameters do not explode cardinality
//   - Compression: gzip responses for clients that accept it
//   - MaxBodySize: caps request body size
package middleware
