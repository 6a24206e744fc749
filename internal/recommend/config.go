// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package recommend

import (
	"fmt"
	"slices"
)

// Config contains all tunables for the recommendation engine.
type Config struct {
	// PriceCeiling is the monthly price at which the price score reaches zero.
	// Default: 100.
	PriceCeiling float64 `json:"price_ceiling" koanf:"price_ceiling"`

	// MaxStreamsCap is the stream count at which the streams half of the
	// features score saturates.
	// Default: 10.
	MaxStreamsCap int `json:"max_streams_cap" koanf:"max_streams_cap"`

	// MaxRecommendations is the number of single-service picks returned.
	// Default: 5.
	MaxRecommendations int `json:"max_recommendations" koanf:"max_recommendations"`

	// MaxBundleCandidates is how many ranked services bundle search combines.
	// Combination count grows as C(n,3), so keep this small.
	// Default: 8.
	MaxBundleCandidates int `json:"max_bundle_candidates" koanf:"max_bundle_candidates"`

	// BundleSizes lists the combination sizes to evaluate.
	// Default: [2, 3].
	BundleSizes []int `json:"bundle_sizes" koanf:"bundle_sizes"`

	// MinBundleCoverage is the inclusive coverage floor for a bundle (0-1).
	// Default: 0.80.
	MinBundleCoverage float64 `json:"min_bundle_coverage" koanf:"min_bundle_coverage"`

	// MaxBundles is the number of bundles returned.
	// Default: 3.
	MaxBundles int `json:"max_bundles" koanf:"max_bundles"`

	// CoverageTieBand is the coverage difference below which two bundles are
	// ordered by price instead of coverage (0-1).
	// Default: 0.05.
	CoverageTieBand float64 `json:"coverage_tie_band" koanf:"coverage_tie_band"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		PriceCeiling:        100,
		MaxStreamsCap:       10,
		MaxRecommendations:  5,
		MaxBundleCandidates: 8,
		BundleSizes:         []int{2, 3},
		MinBundleCoverage:   0.80,
		MaxBundles:          3,
		CoverageTieBand:     0.05,
	}
}

// maxBundleSize bounds combination size to keep enumeration tractable.
const maxBundleSize = 4

// maxBundleCandidates bounds the candidate pool for the same reason.
const maxBundleCandidates = 16

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if c.PriceCeiling <= 0 {
		return fmt.Errorf("price_ceiling must be positive, got %f", c.PriceCeiling)
	}
	if c.MaxStreamsCap < 1 {
		return fmt.Errorf("max_streams_cap must be positive, got %d", c.MaxStreamsCap)
	}
	if c.MaxRecommendations < 1 {
		return fmt.Errorf("max_recommendations must be positive, got %d", c.MaxRecommendations)
	}
	if c.MaxBundleCandidates < 2 || c.MaxBundleCandidates > maxBundleCandidates {
		return fmt.Errorf("max_bundle_candidates must be in [2, %d], got %d", maxBundleCandidates, c.MaxBundleCandidates)
	}
	if len(c.BundleSizes) == 0 {
		return fmt.Errorf("bundle_sizes must not be empty")
	}
	for _, k := range c.BundleSizes {
		if k < 2 || k > maxBundleSize {
			return fmt.Errorf("bundle_sizes entries must be in [2, %d], got %d", maxBundleSize, k)
		}
	}
	if c.MinBundleCoverage <= 0 || c.MinBundleCoverage > 1 {
		return fmt.Errorf("min_bundle_coverage must be in (0, 1], got %f", c.MinBundleCoverage)
	}
	if c.MaxBundles < 1 {
		return fmt.Errorf("max_bundles must be positive, got %d", c.MaxBundles)
	}
	if c.CoverageTieBand < 0 || c.CoverageTieBand > 1 {
		return fmt.Errorf("coverage_tie_band must be in [0, 1], got %f", c.CoverageTieBand)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	clone.BundleSizes = slices.Clone(c.BundleSizes)
	return &clone
}

// bundleSizes returns the configured sizes, ascending and de-duplicated.
func (c *Config) bundleSizes() []int {
	sizes := slices.Clone(c.BundleSizes)
	slices.Sort(sizes)
	return slices.Compact(sizes)
}
