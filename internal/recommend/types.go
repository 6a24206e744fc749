// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package recommend

import (
	"time"

	"github.com/tomtom215/streamcompare/internal/models"
)

// Weight bounds for user preference sliders.
const (
	MinWeight = 1
	MaxWeight = 10
)

// Weights holds the user's relative preference for each scoring dimension.
// Each value is on a 1-10 scale and is divided by 10 when applied.
type Weights struct {
	// Price is the importance of a low monthly price.
	Price int `json:"price"`

	// Coverage is the importance of carrying the selected channels.
	Coverage int `json:"coverage"`

	// Features is the importance of streams and an ad-free plan.
	Features int `json:"features"`
}

// DefaultWeights returns neutral mid-scale weights.
func DefaultWeights() Weights {
	return Weights{Price: 5, Coverage: 5, Features: 5}
}

// Clamp returns a copy with every weight forced into [MinWeight, MaxWeight].
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Clamp() Weights {
	return Weights{
		Price:    clampInt(w.Price, MinWeight, MaxWeight),
		Coverage: clampInt(w.Coverage, MinWeight, MaxWeight),
		Features: clampInt(w.Features, MinWeight, MaxWeight),
	}
}

// InRange reports whether every weight is within [MinWeight, MaxWeight].
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) InRange() bool {
	return w == w.Clamp()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScoredService is a service annotated with its scores for one selection.
type ScoredService struct {
	models.Service

	// SelectedChannelsCount is how many selected channels the service carries.
	SelectedChannelsCount int `json:"selected_channels_count"`

	// CoveragePercentage is SelectedChannelsCount over the selection size (0-1).
	CoveragePercentage float64 `json:"coverage_percentage"`

	// PriceScore is 1 for free, 0 at or above the price ceiling.
	PriceScore float64 `json:"price_score"`

	// FeaturesScore blends simultaneous streams and ad-free status (0-1).
	FeaturesScore float64 `json:"features_score"`

	// WeightedScore is the combined ranking score.
	WeightedScore float64 `json:"weighted_score"`

	// CoveredChannelIDs lists the selected channels this service carries, ascending.
	CoveredChannelIDs []int `json:"covered_channel_ids"`
}

// Bundle is a combination of services that jointly covers the selection.
type Bundle struct {
	// Services are the bundle members in ranking order.
	Services []ScoredService `json:"services"`

	// ServiceIDs are the member IDs in the same order as Services.
	ServiceIDs []int `json:"service_ids"`

	// CoveredChannelCount is the number of selected channels any member carries.
	CoveredChannelCount int `json:"covered_channel_count"`

	// CoveragePercentage is CoveredChannelCount over the selection size (0-1).
	CoveragePercentage float64 `json:"coverage_percentage"`

	// CoveredChannelIDs lists the covered selected channels, ascending.
	CoveredChannelIDs []int `json:"covered_channel_ids"`

	// TotalPrice is the sum of member monthly prices.
	TotalPrice float64 `json:"total_price"`

	// ValueScore is coverage per dollar.
	ValueScore float64 `json:"value_score"`

	// UniqueChannels maps each member's service ID to the selected channels
	// only that member carries. Every member has an entry, possibly empty.
	UniqueChannels map[int][]int `json:"unique_channels"`
}

// Size returns the number of services in the bundle.
func (b *Bundle) Size() int {
	return len(b.Services)
}

// BundleOutcome distinguishes why a bundle list is empty.
type BundleOutcome int

const (
	// BundleNotAttempted means there were too few candidates to combine.
	BundleNotAttempted BundleOutcome = iota
	// BundleNoneFound means combinations were evaluated but none qualified.
	BundleNoneFound
	// BundleFound means at least one bundle qualified.
	BundleFound
)

// String returns a machine-readable name for the outcome.
func (o BundleOutcome) String() string {
	switch o {
	case BundleNotAttempted:
		return "not_attempted"
	case BundleNoneFound:
		return "none_found"
	case BundleFound:
		return "found"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so outcomes serialize by name.
func (o BundleOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// RecommendationResult is the output of scoring and ranking.
type RecommendationResult struct {
	// Recommendations are the top ranked services with at least one match.
	Recommendations []ScoredService `json:"recommendations"`

	// Ranked is every service with at least one match, best first.
	// Bundle search draws its candidates from here.
	Ranked []ScoredService `json:"-"`
}

// BundleResult is the output of bundle search.
type BundleResult struct {
	// Bundles are the qualifying bundles in final display order.
	Bundles []Bundle `json:"bundles"`

	// Outcome explains an empty Bundles list.
	Outcome BundleOutcome `json:"outcome"`

	// Candidates is the number of ranked services considered.
	Candidates int `json:"candidates"`

	// Evaluated is the number of combinations examined.
	Evaluated int `json:"evaluated"`

	// Qualified is the number of combinations that met the coverage floor.
	Qualified int `json:"qualified"`
}

// Catalog is the read-only data the engine scores against.
type Catalog struct {
	Services []models.Service
	Mappings []models.ServiceChannel
}

// Request represents a comparison request.
type Request struct {
	// ChannelIDs is the user's must-have channel selection.
	// Duplicates are ignored and order does not matter.
	ChannelIDs []int `json:"channel_ids"`

	// Weights are the user's preference sliders. Out-of-range values are clamped.
	Weights Weights `json:"weights"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is the full comparison result.
type Response struct {
	// Recommendations are the top single-service picks.
	Recommendations []ScoredService `json:"recommendations"`

	// Bundles are the top multi-service picks.
	Bundles []Bundle `json:"bundles"`

	// BundleOutcome explains an empty Bundles list.
	BundleOutcome BundleOutcome `json:"bundle_outcome"`

	// SelectedChannelCount is the size of the de-duplicated selection.
	SelectedChannelCount int `json:"selected_channel_count"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// Weights are the clamped weights actually applied.
	Weights Weights `json:"weights"`

	// ServicesScored is the number of services in the catalog.
	ServicesScored int `json:"services_scored"`

	// BundleCandidates is the number of services bundle search considered.
	BundleCandidates int `json:"bundle_candidates"`

	// CombinationsEvaluated is the number of bundles examined.
	CombinationsEvaluated int `json:"combinations_evaluated"`

	// LatencyMS is the total comparison latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// Timestamp is when the response was generated.
	Timestamp time.Time `json:"timestamp"`
}
