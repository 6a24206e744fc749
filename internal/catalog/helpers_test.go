// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"context"
	"sync"

	"github.com/tomtom215/streamcompare/internal/models"
)

// fakeProvider serves a fixed document and can be switched to fail.
type fakeProvider struct {
	mu    sync.Mutex
	doc   Document
	err   error
	calls int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeProvider) FetchServices(context.Context) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.doc.Services, nil
}

func (f *fakeProvider) FetchChannels(context.Context) ([]models.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.doc.Channels, nil
}

func (f *fakeProvider) FetchServiceChannelMappings(context.Context) ([]models.ServiceChannel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.doc.Mappings, nil
}

// sampleDocument is a small three-service catalog.
func sampleDocument() Document {
	return Document{
		Services: []models.Service{
			{ID: 2, Name: "Sling", MonthlyPrice: 40, MaxStreams: 3, HasAds: true, Features: []string{"DVR"}},
			{ID: 1, Name: "YouTube TV", MonthlyPrice: 72.99, MaxStreams: 3, Features: []string{"Unlimited DVR", "4K"}},
			{ID: 3, Name: "Philo", MonthlyPrice: 25, MaxStreams: 3, HasAds: true},
		},
		Channels: []models.Channel{
			{ID: 10, Name: "ESPN", Category: "Sports", Popularity: 9},
			{ID: 11, Name: "CNN", Category: "News", Popularity: 8},
			{ID: 12, Name: "AMC", Category: "Entertainment", Popularity: 6},
			{ID: 13, Name: "Fox Sports 1", Category: "sports", Popularity: 7},
		},
		Mappings: []models.ServiceChannel{
			{ServiceID: 1, ChannelID: 10},
			{ServiceID: 1, ChannelID: 11},
			{ServiceID: 1, ChannelID: 13},
			{ServiceID: 2, ChannelID: 10},
			{ServiceID: 2, ChannelID: 12},
			{ServiceID: 3, ChannelID: 12},
		},
	}
}
