// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

/*
Package models defines the catalog data structures shared across StreamCompare.

The catalog is read-only from the application's point of view. It is owned by
an external store (SQL database, hosted REST backend, or a snapshot file) and
loaded through the catalog package.

Key Components:

  - Service: A subscription streaming service with pricing and feature flags
  - Channel: A live channel that a service may carry
  - ServiceChannel: The many-to-many mapping between services and channels

All types carry json, yaml and validate struct tags. Validation is performed
once at the catalog boundary so the recommendation engine can assume
well-formed records.
*/
package models
