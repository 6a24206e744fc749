// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package models

import (
	"reflect"
	"testing"
)

func TestChannelIDsByService(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mappings []ServiceChannel
		want     map[int][]int
	}{
		{
			name:     "empty",
			mappings: nil,
			want:     map[int][]int{},
		},
		{
			name: "sorted per service",
			mappings: []ServiceChannel{
				{ServiceID: 1, ChannelID: 30},
				{ServiceID: 2, ChannelID: 10},
				{ServiceID: 1, ChannelID: 10},
			},
			want: map[int][]int{1: {10, 30}, 2: {10}},
		},
		{
			name: "duplicates collapsed",
			mappings: []ServiceChannel{
				{ServiceID: 1, ChannelID: 10},
				{ServiceID: 1, ChannelID: 10},
				{ServiceID: 1, ChannelID: 20},
			},
			want: map[int][]int{1: {10, 20}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ChannelIDsByService(tt.mappings)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ChannelIDsByService() = %v, want %v", got, tt.want)
			}
		})
	}
}
