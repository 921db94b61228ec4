// Package sensor provides access to registered air-quality sensor feeds.
package sensor

import (
	"errors"

	"github.com/aircast/aircast/pkg/geo"
)

// Sensor errors.
var (
	ErrNoSensors           = errors.New("no sensors registered")
	ErrProviderUnavailable = errors.New("sensor feed unavailable")
	ErrMalformedFeed       = errors.New("malformed sensor feed")
)

// Descriptor identifies a registered sensor feed. Descriptors are
// configuration data: selection happens by nearest distance, never by
// hardcoded coordinate branching.
type Descriptor struct {
	// ID uniquely identifies the sensor within the registry.
	ID string `json:"id"`

	// Name is the human-readable station name.
	Name string `json:"name"`

	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`

	// Channel is the upstream channel identifier.
	Channel string `json:"channel"`

	// FeedURL optionally overrides the feed endpoint for this sensor.
	// When set, clients request it directly instead of building a URL
	// from the channel ID.
	FeedURL string `json:"feedUrl,omitempty"`
}

// Location returns the descriptor's coordinates.
func (d Descriptor) Location() geo.Point {
	return geo.Point{Lat: d.Lat, Lon: d.Lon}
}

// Match pairs a descriptor with its distance from a query point.
type Match struct {
	Descriptor Descriptor
	DistanceKm float64
}

// Registry is an immutable table of registered sensor descriptors.
type Registry struct {
	sensors []Descriptor
}

// NewRegistry creates a registry from a descriptor table.
func NewRegistry(sensors []Descriptor) *Registry {
	cp := make([]Descriptor, len(sensors))
	copy(cp, sensors)
	return &Registry{sensors: cp}
}

// All returns a copy of every registered descriptor.
func (r *Registry) All() []Descriptor {
	cp := make([]Descriptor, len(r.sensors))
	copy(cp, r.sensors)
	return cp
}

// Len returns the number of registered sensors.
func (r *Registry) Len() int {
	return len(r.sensors)
}

// NearestN returns up to n sensors ordered by distance from the query
// point. Ties keep registration order.
func (r *Registry) NearestN(lat, lon float64, n int) []Match {
	if n <= 0 || len(r.sensors) == 0 {
		return nil
	}

	origin := geo.Point{Lat: lat, Lon: lon}
	remaining := r.All()

	matches := make([]Match, 0, n)
	for len(remaining) > 0 && len(matches) < n {
		points := make([]geo.Point, len(remaining))
		for i, d := range remaining {
			points[i] = d.Location()
		}

		idx := geo.Nearest(origin, points)
		matches = append(matches, Match{
			Descriptor: remaining[idx],
			DistanceKm: geo.Distance(origin, points[idx]),
		})
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return matches
}

// Nearest returns the closest registered sensor to the query point.
func (r *Registry) Nearest(lat, lon float64) (Match, bool) {
	matches := r.NearestN(lat, lon, 1)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// ByFeedURL finds the descriptor whose feed URL matches exactly.
func (r *Registry) ByFeedURL(url string) (Descriptor, bool) {
	for _, d := range r.sensors {
		if d.FeedURL != "" && d.FeedURL == url {
			return d, true
		}
	}
	return Descriptor{}, false
}
