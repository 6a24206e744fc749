// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package recommend

import (
	"math"
	"sort"

	"github.com/tomtom215/streamcompare/internal/models"
)

// Score computes coverage, price, features and weighted scores for every
// service against the selection. Output order matches input order. Weights
// are clamped into range. The selection may be in any order and may repeat
// ids.
func Score(services []models.Service, mappings []models.ServiceChannel, selected []int, weights Weights, cfg *Config) []ScoredService {
	selected = NormalizeSelection(selected)
	w := weights.Clamp()
	byService := models.ChannelIDsByService(mappings)

	scored := make([]ScoredService, 0, len(services))
	for i := range services {
		svc := services[i]
		covered := intersectSorted(byService[svc.ID], selected)

		coverage := coverageRatio(len(covered), len(selected))
		price := priceScore(svc.MonthlyPrice, cfg.PriceCeiling)
		features := featuresScore(svc.MaxStreams, svc.HasAds, cfg.MaxStreamsCap)

		scored = append(scored, ScoredService{
			Service:               svc,
			SelectedChannelsCount: len(covered),
			CoveragePercentage:    coverage,
			PriceScore:            price,
			FeaturesScore:         features,
			WeightedScore:         weightedScore(coverage, price, features, w),
			CoveredChannelIDs:     covered,
		})
	}
	return scored
}

// Rank orders scored services by weighted score, best first, and drops
// services that carry none of the selected channels. Equal scores keep
// their input order. The input slice is not modified.
func Rank(scored []ScoredService) []ScoredService {
	ranked := make([]ScoredService, 0, len(scored))
	for i := range scored {
		if scored[i].SelectedChannelsCount > 0 {
			ranked = append(ranked, scored[i])
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].WeightedScore > ranked[j].WeightedScore
	})
	return ranked
}

// ScoreAndRank scores every service and returns the top recommendations.
// An empty selection yields an empty result.
func ScoreAndRank(services []models.Service, mappings []models.ServiceChannel, selected []int, weights Weights, cfg *Config) RecommendationResult {
	selected = NormalizeSelection(selected)
	if len(selected) == 0 {
		return RecommendationResult{
			Recommendations: []ScoredService{},
			Ranked:          []ScoredService{},
		}
	}

	ranked := Rank(Score(services, mappings, selected, weights, cfg))
	top := ranked[:min(len(ranked), cfg.MaxRecommendations)]

	return RecommendationResult{
		Recommendations: top,
		Ranked:          ranked,
	}
}

// priceScore is 1 for a free service, falling linearly to 0 at the ceiling.
func priceScore(price, ceiling float64) float64 {
	return 1 - math.Min(price/ceiling, 1)
}

// featuresScore averages saturated stream count and ad-free status.
func featuresScore(maxStreams int, hasAds bool, streamsCap int) float64 {
	streams := float64(min(maxStreams, streamsCap)) / float64(streamsCap)
	adFree := 1.0
	if hasAds {
		adFree = 0
	}
	return (streams + adFree) / 2
}

func weightedScore(coverage, price, features float64, w Weights) float64 {
	return coverage*float64(w.Coverage)/10 +
		price*float64(w.Price)/10 +
		features*float64(w.Features)/10
}
