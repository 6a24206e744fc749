// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamcompare/internal/models"
	"github.com/tomtom215/streamcompare/internal/recommend"
)

// Snapshot is an immutable, indexed view of one catalog load.
// Callers must not modify the slices it returns.
type Snapshot struct {
	services []models.Service
	channels []models.Channel
	mappings []models.ServiceChannel

	serviceByID       map[int]int
	channelByID       map[int]int
	channelsByService map[int][]int
	categories        []string

	// Version is a content hash; equal catalogs have equal versions.
	Version string
	// Source names the provider the data came from.
	Source string
	// LoadedAt is when the data was fetched from the source.
	LoadedAt time.Time
	// Stale is set when the snapshot was served from the store after a
	// source failure.
	Stale bool
}

// NewSnapshot indexes doc. Services and channels are ordered by ID and
// mappings by (service, channel). Duplicate checks belong to the Loader.
func NewSnapshot(doc Document, source string, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		services:          append([]models.Service(nil), doc.Services...),
		channels:          append([]models.Channel(nil), doc.Channels...),
		mappings:          append([]models.ServiceChannel(nil), doc.Mappings...),
		serviceByID:       make(map[int]int, len(doc.Services)),
		channelByID:       make(map[int]int, len(doc.Channels)),
		channelsByService: models.ChannelIDsByService(doc.Mappings),
		Source:            source,
		LoadedAt:          loadedAt,
	}

	sort.SliceStable(s.services, func(i, j int) bool { return s.services[i].ID < s.services[j].ID })
	sort.SliceStable(s.channels, func(i, j int) bool { return s.channels[i].ID < s.channels[j].ID })
	sort.SliceStable(s.mappings, func(i, j int) bool {
		if s.mappings[i].ServiceID != s.mappings[j].ServiceID {
			return s.mappings[i].ServiceID < s.mappings[j].ServiceID
		}
		return s.mappings[i].ChannelID < s.mappings[j].ChannelID
	})

	for i := range s.services {
		s.serviceByID[s.services[i].ID] = i
	}
	seen := make(map[string]struct{})
	for i := range s.channels {
		s.channelByID[s.channels[i].ID] = i
		if cat := s.channels[i].Category; cat != "" {
			if _, ok := seen[cat]; !ok {
				seen[cat] = struct{}{}
				s.categories = append(s.categories, cat)
			}
		}
	}
	sort.Strings(s.categories)

	s.Version = s.hash()
	return s
}

func (s *Snapshot) hash() string {
	data, err := json.Marshal(s.Document())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Document returns the raw collections.
func (s *Snapshot) Document() Document {
	return Document{Services: s.services, Channels: s.channels, Mappings: s.mappings}
}

// Catalog returns the engine's view of the snapshot.
func (s *Snapshot) Catalog() recommend.Catalog {
	return recommend.Catalog{Services: s.services, Mappings: s.mappings}
}

// Services returns all services ordered by ID.
func (s *Snapshot) Services() []models.Service {
	return s.services
}

// Channels returns all channels ordered by ID.
func (s *Snapshot) Channels() []models.Channel {
	return s.channels
}

// Mappings returns all service/channel rows.
func (s *Snapshot) Mappings() []models.ServiceChannel {
	return s.mappings
}

// Service looks up a service by ID.
func (s *Snapshot) Service(id int) (models.Service, bool) {
	i, ok := s.serviceByID[id]
	if !ok {
		return models.Service{}, false
	}
	return s.services[i], true
}

// Channel looks up a channel by ID.
func (s *Snapshot) Channel(id int) (models.Channel, bool) {
	i, ok := s.channelByID[id]
	if !ok {
		return models.Channel{}, false
	}
	return s.channels[i], true
}

// ChannelsForService returns the channels a service carries, ordered by ID.
func (s *Snapshot) ChannelsForService(serviceID int) []models.Channel {
	ids := s.channelsByService[serviceID]
	out := make([]models.Channel, 0, len(ids))
	for _, id := range ids {
		if ch, ok := s.Channel(id); ok {
			out = append(out, ch)
		}
	}
	return out
}

// ChannelsByCategory returns channels whose category matches, ignoring case.
// An empty category returns every channel.
func (s *Snapshot) ChannelsByCategory(category string) []models.Channel {
	if category == "" {
		return s.channels
	}
	out := make([]models.Channel, 0)
	for i := range s.channels {
		if strings.EqualFold(s.channels[i].Category, category) {
			out = append(out, s.channels[i])
		}
	}
	return out
}

// Categories returns the distinct non-empty channel categories, sorted.
func (s *Snapshot) Categories() []string {
	return s.categories
}

// UnknownChannels returns the IDs in ids that are not in the catalog,
// in first-seen order without repeats.
func (s *Snapshot) UnknownChannels(ids []int) []int {
	var unknown []int
	reported := make(map[int]struct{})
	for _, id := range ids {
		if _, ok := s.channelByID[id]; ok {
			continue
		}
		if _, dup := reported[id]; dup {
			continue
		}
		reported[id] = struct{}{}
		unknown = append(unknown, id)
	}
	return unknown
}
