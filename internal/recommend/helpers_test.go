// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package recommend

import (
	"math"

	"github.com/tomtom215/streamcompare/internal/models"
)

// fixture builds a catalog from a compact service description.
type fixture struct {
	services []models.Service
	mappings []models.ServiceChannel
}

// add appends an ad-free, two-stream service carrying the given channels.
func (f *fixture) add(id int, name string, price float64, channels ...int) *fixture {
	return f.addService(models.Service{
		ID:           id,
		Name:         name,
		MonthlyPrice: price,
		MaxStreams:   2,
	}, channels...)
}

func (f *fixture) addService(svc models.Service, channels ...int) *fixture {
	f.services = append(f.services, svc)
	for _, ch := range channels {
		f.mappings = append(f.mappings, models.ServiceChannel{ServiceID: svc.ID, ChannelID: ch})
	}
	return f
}

func (f *fixture) catalog() Catalog {
	return Catalog{Services: f.services, Mappings: f.mappings}
}

// channelRange returns the inclusive range [from, to].
func channelRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func serviceIDs(scored []ScoredService) []int {
	ids := make([]int, len(scored))
	for i := range scored {
		ids[i] = scored[i].ID
	}
	return ids
}
