// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package recommend

import (
	"math"
	"sort"
)

// floatTolerance absorbs rounding in coverage ratios so that thresholds
// compare the way the underlying channel counts do.
const floatTolerance = 1e-9

// FindBundles searches combinations of the top ranked services for bundles
// that cover at least MinBundleCoverage of the selection.
//
// Candidates are the services in ranked with at least one match, truncated
// to MaxBundleCandidates. Qualifying bundles are ranked by value (coverage
// per dollar), the best MaxBundles are kept, and those are put in display
// order: higher coverage first, except that bundles within CoverageTieBand
// of the best coverage in their group are ordered by lower total price.
// Bundles with a total price of zero have no defined value and are skipped.
func FindBundles(ranked []ScoredService, selected []int, cfg *Config) BundleResult {
	selected = NormalizeSelection(selected)
	candidates := bundleCandidates(ranked, cfg.MaxBundleCandidates)

	result := BundleResult{
		Bundles:    []Bundle{},
		Outcome:    BundleNotAttempted,
		Candidates: len(candidates),
	}
	if len(selected) == 0 || len(candidates) < 2 {
		return result
	}

	inSelection := make(map[int]struct{}, len(selected))
	for _, ch := range selected {
		inSelection[ch] = struct{}{}
	}

	var qualified []Bundle
	for _, k := range cfg.bundleSizes() {
		for _, combo := range Combinations(candidates, k) {
			result.Evaluated++
			bundle, ok := evaluateBundle(combo, inSelection, len(selected), cfg.MinBundleCoverage)
			if !ok {
				continue
			}
			result.Qualified++
			qualified = append(qualified, bundle)
		}
	}

	if len(qualified) == 0 {
		result.Outcome = BundleNoneFound
		return result
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].ValueScore > qualified[j].ValueScore
	})
	kept := qualified[:min(len(qualified), cfg.MaxBundles)]
	orderForDisplay(kept, cfg.CoverageTieBand)

	result.Bundles = kept
	result.Outcome = BundleFound
	return result
}

// bundleCandidates filters out zero-match services and caps the pool.
func bundleCandidates(ranked []ScoredService, limit int) []ScoredService {
	out := make([]ScoredService, 0, min(len(ranked), limit))
	for i := range ranked {
		if len(out) == limit {
			break
		}
		if ranked[i].SelectedChannelsCount > 0 {
			out = append(out, ranked[i])
		}
	}
	return out
}

// evaluateBundle computes coverage, price, value and unique attribution for
// one combination. It reports false when the bundle falls below the coverage
// floor or has no positive total price.
func evaluateBundle(members []ScoredService, inSelection map[int]struct{}, selectedCount int, minCoverage float64) (Bundle, bool) {
	// carriers counts how many members carry each covered channel.
	carriers := make(map[int]int)
	totalPrice := 0.0
	for i := range members {
		totalPrice += members[i].MonthlyPrice
		for _, ch := range members[i].CoveredChannelIDs {
			if _, ok := inSelection[ch]; ok {
				carriers[ch]++
			}
		}
	}

	coverage := coverageRatio(len(carriers), selectedCount)
	if coverage+floatTolerance < minCoverage {
		return Bundle{}, false
	}
	if totalPrice <= 0 || math.IsNaN(totalPrice) {
		return Bundle{}, false
	}

	covered := make([]int, 0, len(carriers))
	for ch := range carriers {
		covered = append(covered, ch)
	}
	sort.Ints(covered)

	ids := make([]int, len(members))
	unique := make(map[int][]int, len(members))
	for i := range members {
		ids[i] = members[i].ID
		own := make([]int, 0)
		for _, ch := range members[i].CoveredChannelIDs {
			if carriers[ch] == 1 {
				own = append(own, ch)
			}
		}
		unique[members[i].ID] = own
	}

	return Bundle{
		Services:            members,
		ServiceIDs:          ids,
		CoveredChannelCount: len(covered),
		CoveragePercentage:  coverage,
		CoveredChannelIDs:   covered,
		TotalPrice:          totalPrice,
		ValueScore:          coverage / totalPrice,
		UniqueChannels:      unique,
	}, true
}

// orderForDisplay sorts bundles by coverage descending, then groups each
// run of bundles within band of the run's highest coverage and orders that
// group by price ascending. The result does not depend on input order.
func orderForDisplay(bundles []Bundle, band float64) {
	sort.SliceStable(bundles, func(i, j int) bool {
		return bundles[i].CoveragePercentage > bundles[j].CoveragePercentage
	})
	for start := 0; start < len(bundles); {
		end := start + 1
		for end < len(bundles) &&
			bundles[start].CoveragePercentage-bundles[end].CoveragePercentage < band-floatTolerance {
			end++
		}
		group := bundles[start:end]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].TotalPrice < group[j].TotalPrice
		})
		start = end
	}
}
