// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

// Package recommend implements the channel-coverage recommendation engine.
//
// # Architecture
//
// Given the set of channels a user must have, the engine answers two
// questions:
//
//   - Scorer: which single services fit best, ranked by a weighted blend of
//     channel coverage, price, and features
//   - Bundle Search: which combinations of two or three services jointly
//     cover at least 80% of the selection at the best value
//
// Data flows one way: catalog snapshot, then Score, then Rank, then
// FindBundles. Bundle search only considers services the scorer ranked.
//
// # Scoring
//
// For a service S and a selection of N channels:
//
//	coverage = |channels(S) ∩ selection| / max(1, N)
//	price    = 1 - min(S.MonthlyPrice / PriceCeiling, 1)
//	features = (min(S.MaxStreams, 10) / 10 + (S.HasAds ? 0 : 1)) / 2
//	weighted = coverage*wc/10 + price*wp/10 + features*wf/10
//
// # Determinism
//
// Every function in this package is pure. Channel sets are sorted slices,
// sorts are stable, and no package-level state is mutated, so identical
// inputs always produce identical outputs in identical order.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//
//	resp := engine.Compare(recommend.Catalog{
//	    Services: services,
//	    Mappings: mappings,
//	}, recommend.Request{
//	    ChannelIDs: []int{1, 2, 3},
//	    Weights:    recommend.Weights{Price: 5, Coverage: 8, Features: 3},
//	})
//
// # Thread Safety
//
// The engine holds only immutable configuration and a logger and is safe for
// concurrent use.
package recommend
