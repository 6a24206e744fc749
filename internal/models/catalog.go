// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package models

import "sort"

// Service represents a subscription streaming service.
type Service struct {
	// ID is the unique service identifier
	ID int `json:"id" yaml:"id" validate:"required,gt=0"`

	// Name is the display name
	Name string `json:"name" yaml:"name" validate:"required,max=200"`

	// MonthlyPrice is the base subscription price in dollars
	MonthlyPrice float64 `json:"monthly_price" yaml:"monthly_price" validate:"gte=0,finite"`

	// MaxStreams is the number of simultaneous streams allowed
	MaxStreams int `json:"max_streams" yaml:"max_streams" validate:"gt=0"`

	// HasAds indicates the base plan shows advertisements
	HasAds bool `json:"has_ads" yaml:"has_ads"`

	// Features lists marketing features (DVR, 4K, offline downloads)
	Features []string `json:"features,omitempty" yaml:"features,omitempty" validate:"omitempty,dive,max=100"`

	// WebsiteURL is the provider signup page
	WebsiteURL string `json:"website_url,omitempty" yaml:"website_url,omitempty" validate:"omitempty,url"`
}

// Channel represents a live channel carried by one or more services.
type Channel struct {
	// ID is the unique channel identifier
	ID int `json:"id" yaml:"id" validate:"required,gt=0"`

	// Name is the display name
	Name string `json:"name" yaml:"name" validate:"required,max=200"`

	// Category groups channels for browsing (news, sports, kids)
	Category string `json:"category,omitempty" yaml:"category,omitempty" validate:"omitempty,max=100"`

	// Popularity is an editorial ranking hint, higher is more popular
	Popularity float64 `json:"popularity,omitempty" yaml:"popularity,omitempty" validate:"gte=0,finite"`
}

// ServiceChannel maps a channel onto a service that carries it.
type ServiceChannel struct {
	ServiceID int `json:"service_id" yaml:"service_id" validate:"required,gt=0"`
	ChannelID int `json:"channel_id" yaml:"channel_id" validate:"required,gt=0"`
}

// ChannelIDsByService groups mapping rows by service ID.
// Each channel list is sorted ascending and free of duplicates.
func ChannelIDsByService(mappings []ServiceChannel) map[int][]int {
	seen := make(map[ServiceChannel]struct{}, len(mappings))
	grouped := make(map[int][]int)
	for _, m := range mappings {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		grouped[m.ServiceID] = append(grouped[m.ServiceID], m.ChannelID)
	}
	for id := range grouped {
		sort.Ints(grouped[id])
	}
	return grouped
}
