// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package recommend

import (
	"reflect"
	"testing"

	"github.com/tomtom215/streamcompare/internal/models"
)

func TestScore_ThreeServices(t *testing.T) {
	t.Parallel()

	f := (&fixture{}).
		add(1, "A", 10, 1, 2, 3).
		add(2, "B", 15, 2, 3, 4).
		add(3, "C", 8, 1)
	weights := Weights{Coverage: 10, Price: 1, Features: 1}

	result := ScoreAndRank(f.services, f.mappings, []int{1, 2, 3, 4}, weights, DefaultConfig())

	if got, want := serviceIDs(result.Recommendations), []int{1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("recommendation order = %v, want %v", got, want)
	}

	tests := []struct {
		matches  int
		coverage float64
		weighted float64
	}{
		// features = (2/10 + 1) / 2 = 0.6 for every service
		{matches: 3, coverage: 0.75, weighted: 0.75 + 0.9*0.1 + 0.6*0.1},
		{matches: 3, coverage: 0.75, weighted: 0.75 + 0.85*0.1 + 0.6*0.1},
		{matches: 1, coverage: 0.25, weighted: 0.25 + 0.92*0.1 + 0.6*0.1},
	}
	for i, want := range tests {
		got := result.Recommendations[i]
		if got.SelectedChannelsCount != want.matches {
			t.Errorf("%s matches = %d, want %d", got.Name, got.SelectedChannelsCount, want.matches)
		}
		if !approxEqual(got.CoveragePercentage, want.coverage) {
			t.Errorf("%s coverage = %f, want %f", got.Name, got.CoveragePercentage, want.coverage)
		}
		if !approxEqual(got.WeightedScore, want.weighted) {
			t.Errorf("%s weighted = %f, want %f", got.Name, got.WeightedScore, want.weighted)
		}
	}

	if got := result.Recommendations[0].CoveredChannelIDs; !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("A covered channels = %v, want [1 2 3]", got)
	}
}

func TestScore_PreservesInputOrder(t *testing.T) {
	t.Parallel()

	f := (&fixture{}).
		add(5, "cheap", 1, 1).
		add(3, "none", 50).
		add(9, "full", 90, 1, 2)

	scored := Score(f.services, f.mappings, []int{1, 2}, DefaultWeights(), DefaultConfig())
	if got, want := serviceIDs(scored), []int{5, 3, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("Score order = %v, want %v", got, want)
	}
	if scored[1].SelectedChannelsCount != 0 || scored[1].CoveragePercentage != 0 {
		t.Errorf("unmapped service scored %+v", scored[1])
	}
}

func TestScore_SelectionOrderAndDuplicates(t *testing.T) {
	t.Parallel()

	f := (&fixture{}).add(1, "A", 10, 1, 2, 3)
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		selected []int
		matches  int
		coverage float64
	}{
		{name: "sorted", selected: []int{1, 2, 3, 4}, matches: 3, coverage: 0.75},
		{name: "unsorted", selected: []int{4, 1, 2, 3}, matches: 3, coverage: 0.75},
		{name: "reversed", selected: []int{4, 3, 2, 1}, matches: 3, coverage: 0.75},
		{name: "repeated ids", selected: []int{1, 1, 2, 3}, matches: 3, coverage: 1},
		{name: "unsorted repeats", selected: []int{3, 2, 3, 1, 2}, matches: 3, coverage: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			scored := Score(f.services, f.mappings, tt.selected, DefaultWeights(), cfg)
			if scored[0].SelectedChannelsCount != tt.matches {
				t.Errorf("matches = %d, want %d", scored[0].SelectedChannelsCount, tt.matches)
			}
			if !approxEqual(scored[0].CoveragePercentage, tt.coverage) {
				t.Errorf("coverage = %f, want %f", scored[0].CoveragePercentage, tt.coverage)
			}
			if !reflect.DeepEqual(scored[0].CoveredChannelIDs, []int{1, 2, 3}) {
				t.Errorf("covered = %v, want [1 2 3]", scored[0].CoveredChannelIDs)
			}
		})
	}

	before := []int{3, 1, 2}
	Score(f.services, f.mappings, before, DefaultWeights(), cfg)
	if !reflect.DeepEqual(before, []int{3, 1, 2}) {
		t.Errorf("selection modified to %v", before)
	}
}

// A service that is cheaper, covers at least as much and has at least as
// good features never scores below the other, whatever the weights.
func TestScore_DominatingServiceScoresHigher(t *testing.T) {
	t.Parallel()

	type svc struct {
		price    float64
		streams  int
		hasAds   bool
		channels []int
	}
	pairs := []struct {
		name string
		a, b svc
	}{
		{
			name: "cheaper same coverage same features",
			a:    svc{price: 10, streams: 2, channels: []int{1, 2}},
			b:    svc{price: 20, streams: 2, channels: []int{1, 2}},
		},
		{
			name: "cheaper more coverage",
			a:    svc{price: 5, streams: 2, channels: []int{1, 2, 3}},
			b:    svc{price: 15, streams: 2, channels: []int{1}},
		},
		{
			name: "cheaper ad free more streams",
			a:    svc{price: 12, streams: 4, channels: []int{2, 3}},
			b:    svc{price: 13, streams: 1, hasAds: true, channels: []int{2, 3}},
		},
		{
			name: "both above price ceiling",
			a:    svc{price: 120, streams: 10, channels: []int{1, 2, 3, 4}},
			b:    svc{price: 200, streams: 10, channels: []int{1, 2, 3, 4}},
		},
		{
			name: "free versus paid",
			a:    svc{price: 0, streams: 3, channels: []int{4}},
			b:    svc{price: 9.99, streams: 3, hasAds: true, channels: []int{4}},
		},
	}
	weights := []Weights{
		{Price: 1, Coverage: 1, Features: 1},
		{Price: 10, Coverage: 1, Features: 1},
		{Price: 1, Coverage: 10, Features: 1},
		{Price: 1, Coverage: 1, Features: 10},
		{Price: 5, Coverage: 5, Features: 5},
		{Price: 10, Coverage: 10, Features: 10},
		{Price: 3, Coverage: 7, Features: 2},
	}
	selected := []int{1, 2, 3, 4}
	cfg := DefaultConfig()

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := (&fixture{}).
				addService(models.Service{ID: 1, Name: "A", MonthlyPrice: tt.a.price, MaxStreams: tt.a.streams, HasAds: tt.a.hasAds}, tt.a.channels...).
				addService(models.Service{ID: 2, Name: "B", MonthlyPrice: tt.b.price, MaxStreams: tt.b.streams, HasAds: tt.b.hasAds}, tt.b.channels...)

			for _, w := range weights {
				scored := Score(f.services, f.mappings, selected, w, cfg)
				a, b := scored[0], scored[1]
				if a.CoveragePercentage < b.CoveragePercentage || a.FeaturesScore < b.FeaturesScore {
					t.Fatalf("fixture does not dominate: a=%+v b=%+v", a, b)
				}
				if a.WeightedScore < b.WeightedScore {
					t.Errorf("weights %+v: A scored %f < B %f", w, a.WeightedScore, b.WeightedScore)
				}
			}
		})
	}
}

func TestPriceScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price float64
		want  float64
	}{
		{price: 0, want: 1},
		{price: 25, want: 0.75},
		{price: 100, want: 0},
		{price: 250, want: 0},
	}
	for _, tt := range tests {
		if got := priceScore(tt.price, 100); !approxEqual(got, tt.want) {
			t.Errorf("priceScore(%v) = %v, want %v", tt.price, got, tt.want)
		}
	}
}

func TestFeaturesScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		streams int
		hasAds  bool
		want    float64
	}{
		{name: "one stream with ads", streams: 1, hasAds: true, want: 0.05},
		{name: "five streams ad free", streams: 5, hasAds: false, want: 0.75},
		{name: "ten streams ad free", streams: 10, hasAds: false, want: 1},
		{name: "streams saturate", streams: 40, hasAds: true, want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := featuresScore(tt.streams, tt.hasAds, 10); !approxEqual(got, tt.want) {
				t.Errorf("featuresScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore_WeightsClamped(t *testing.T) {
	t.Parallel()

	f := (&fixture{}).add(1, "A", 20, 1)
	cfg := DefaultConfig()

	low := Score(f.services, f.mappings, []int{1}, Weights{}, cfg)
	floor := Score(f.services, f.mappings, []int{1}, Weights{Price: 1, Coverage: 1, Features: 1}, cfg)
	if !approxEqual(low[0].WeightedScore, floor[0].WeightedScore) {
		t.Errorf("zero weights = %f, want clamped to %f", low[0].WeightedScore, floor[0].WeightedScore)
	}

	high := Score(f.services, f.mappings, []int{1}, Weights{Price: 50, Coverage: 11, Features: 99}, cfg)
	ceil := Score(f.services, f.mappings, []int{1}, Weights{Price: 10, Coverage: 10, Features: 10}, cfg)
	if !approxEqual(high[0].WeightedScore, ceil[0].WeightedScore) {
		t.Errorf("oversized weights = %f, want clamped to %f", high[0].WeightedScore, ceil[0].WeightedScore)
	}
}

func TestScore_CoverageWeightMonotonic(t *testing.T) {
	t.Parallel()

	f := (&fixture{}).add(1, "A", 30, 1, 2)
	selected := []int{1, 2, 3}
	cfg := DefaultConfig()

	prev := -1.0
	for wc := MinWeight; wc <= MaxWeight; wc++ {
		scored := Score(f.services, f.mappings, selected, Weights{Price: 4, Coverage: wc, Features: 4}, cfg)
		if scored[0].WeightedScore < prev {
			t.Fatalf("weighted score decreased at coverage weight %d: %f < %f", wc, scored[0].WeightedScore, prev)
		}
		prev = scored[0].WeightedScore
	}
}

func TestScore_MoreChannelsNeverLowersCoverage(t *testing.T) {
	t.Parallel()

	selected := []int{1, 2, 3, 4, 5}
	cfg := DefaultConfig()
	prev := -1.0
	for n := 0; n <= len(selected); n++ {
		f := (&fixture{}).add(1, "A", 10, selected[:n]...)
		scored := Score(f.services, f.mappings, selected, DefaultWeights(), cfg)
		cov := scored[0].CoveragePercentage
		if cov < 0 || cov > 1 {
			t.Fatalf("coverage %f out of [0,1]", cov)
		}
		if cov < prev {
			t.Fatalf("coverage decreased with %d channels: %f < %f", n, cov, prev)
		}
		prev = cov
	}
}

func TestScore_IgnoresDuplicateMappings(t *testing.T) {
	t.Parallel()

	services := []models.Service{{ID: 1, Name: "A", MonthlyPrice: 10, MaxStreams: 1}}
	mappings := []models.ServiceChannel{
		{ServiceID: 1, ChannelID: 1},
		{ServiceID: 1, ChannelID: 1},
	}
	scored := Score(services, mappings, []int{1, 2}, DefaultWeights(), DefaultConfig())
	if scored[0].SelectedChannelsCount != 1 {
		t.Errorf("matches = %d, want 1", scored[0].SelectedChannelsCount)
	}
}

func TestRank(t *testing.T) {
	t.Parallel()

	scored := []ScoredService{
		{Service: models.Service{ID: 1}, SelectedChannelsCount: 1, WeightedScore: 0.4},
		{Service: models.Service{ID: 2}, SelectedChannelsCount: 0, WeightedScore: 0.9},
		{Service: models.Service{ID: 3}, SelectedChannelsCount: 2, WeightedScore: 0.7},
		{Service: models.Service{ID: 4}, SelectedChannelsCount: 1, WeightedScore: 0.4},
	}

	ranked := Rank(scored)
	if got, want := serviceIDs(ranked), []int{3, 1, 4}; !reflect.DeepEqual(got, want) {
		t.Errorf("Rank() = %v, want %v", got, want)
	}
	if scored[0].ID != 1 || scored[1].ID != 2 {
		t.Error("Rank() modified its input")
	}
}

func TestScoreAndRank_TopFive(t *testing.T) {
	t.Parallel()

	f := &fixture{}
	for id := 1; id <= 7; id++ {
		f.add(id, "svc", float64(id*10), 1)
	}
	result := ScoreAndRank(f.services, f.mappings, []int{1}, DefaultWeights(), DefaultConfig())

	if len(result.Recommendations) != 5 {
		t.Errorf("recommendations = %d, want 5", len(result.Recommendations))
	}
	if len(result.Ranked) != 7 {
		t.Errorf("ranked = %d, want 7", len(result.Ranked))
	}
	// Cheaper is better when everything else is equal.
	if got, want := serviceIDs(result.Recommendations), []int{1, 2, 3, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestScoreAndRank_EmptySelection(t *testing.T) {
	t.Parallel()

	f := (&fixture{}).add(1, "A", 10, 1, 2)
	result := ScoreAndRank(f.services, f.mappings, nil, DefaultWeights(), DefaultConfig())

	if result.Recommendations == nil || len(result.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want empty non-nil slice", result.Recommendations)
	}
}

func TestScoreAndRank_NoMatches(t *testing.T) {
	t.Parallel()

	f := (&fixture{}).add(1, "A", 10, 1, 2)
	result := ScoreAndRank(f.services, f.mappings, []int{42}, DefaultWeights(), DefaultConfig())

	if len(result.Recommendations) != 0 {
		t.Errorf("recommendations = %v, want none", serviceIDs(result.Recommendations))
	}
}
