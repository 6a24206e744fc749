// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

/*
Package supervisor runs the server's long-lived services under a suture v4
supervision tree.

The tree has two layers below the root:

	streamcompare
	├── catalog-layer   catalog refresh and response cache cleanup
	└── api-layer       HTTP server

A service that returns an error is restarted by its layer. Repeated
failures push the layer into backoff without touching the other layer,
so the HTTP server keeps answering from the last good catalog while the
refresh loop is failing.

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog into the zerolog stream.
*/
package supervisor
