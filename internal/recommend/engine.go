// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package recommend

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/streamcompare/internal/models"
)

// Engine runs the scorer and bundle search with a fixed configuration.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
}

// NewEngine creates a new recommendation engine.
// A nil cfg uses DefaultConfig. The config is copied.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// ScoreAndRank returns the top single-service recommendations for the
// selection, plus the full ranked list for bundle search.
func (e *Engine) ScoreAndRank(services []models.Service, mappings []models.ServiceChannel, selected []int, weights Weights) RecommendationResult {
	return ScoreAndRank(services, mappings, selected, weights, e.config)
}

// RecommendBundles searches the ranked services for qualifying bundles.
func (e *Engine) RecommendBundles(ranked []ScoredService, selected []int) BundleResult {
	return FindBundles(ranked, selected, e.config)
}

// Compare runs the full pipeline: normalize the selection, clamp weights,
// score and rank services, then search bundles.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Compare(catalog Catalog, req Request) *Response {
	start := time.Now()

	if req.RequestID == "" {
		req.RequestID = generateRequestID()
	}
	selected := NormalizeSelection(req.ChannelIDs)
	weights := req.Weights.Clamp()

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Int("selected_channels", len(selected)).
		Logger()

	if req.Weights != weights {
		logger.Debug().
			Interface("requested", req.Weights).
			Interface("applied", weights).
			Msg("weights clamped into range")
	}

	recs := e.ScoreAndRank(catalog.Services, catalog.Mappings, selected, weights)
	bundles := e.RecommendBundles(recs.Ranked, selected)

	resp := &Response{
		Recommendations:      recs.Recommendations,
		Bundles:              bundles.Bundles,
		BundleOutcome:        bundles.Outcome,
		SelectedChannelCount: len(selected),
		Metadata: ResponseMetadata{
			RequestID:             req.RequestID,
			Weights:               weights,
			ServicesScored:        len(catalog.Services),
			BundleCandidates:      bundles.Candidates,
			CombinationsEvaluated: bundles.Evaluated,
			LatencyMS:             time.Since(start).Milliseconds(),
			Timestamp:             time.Now(),
		},
	}

	logger.Debug().
		Int("services", len(catalog.Services)).
		Int("matched", len(recs.Ranked)).
		Int("returned", len(resp.Recommendations)).
		Int("combinations", bundles.Evaluated).
		Int("bundles", len(resp.Bundles)).
		Str("bundle_outcome", bundles.Outcome.String()).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("comparison complete")

	return resp
}

// generateRequestID generates a unique request ID for tracing.
func generateRequestID() string {
	return "cmp-" + uuid.NewString()
}
