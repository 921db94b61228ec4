package sensor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/sensor"
)

func testRegistry() *sensor.Registry {
	return sensor.NewRegistry([]sensor.Descriptor{
		{ID: "ams-center", Name: "Amsterdam Centrum", Lat: 52.3702, Lon: 4.8952, Channel: "101"},
		{ID: "ams-west", Name: "Amsterdam West", Lat: 52.375, Lon: 4.85, Channel: "102"},
		{ID: "rtm-center", Name: "Rotterdam Centrum", Lat: 51.9225, Lon: 4.47917, Channel: "201",
			FeedURL: "https://feeds.example.com/rotterdam.json"},
	})
}

func TestRegistry_Nearest(t *testing.T) {
	r := testRegistry()

	m, ok := r.Nearest(52.37, 4.89)
	require.True(t, ok)
	assert.Equal(t, "ams-center", m.Descriptor.ID)
	assert.Less(t, m.DistanceKm, 1.0)
}

func TestRegistry_NearestN_Ordered(t *testing.T) {
	r := testRegistry()

	matches := r.NearestN(52.37, 4.89, 3)
	require.Len(t, matches, 3)

	assert.Equal(t, "ams-center", matches[0].Descriptor.ID)
	assert.Equal(t, "ams-west", matches[1].Descriptor.ID)
	assert.Equal(t, "rtm-center", matches[2].Descriptor.ID)
	assert.Less(t, matches[0].DistanceKm, matches[1].DistanceKm)
	assert.Less(t, matches[1].DistanceKm, matches[2].DistanceKm)
}

func TestRegistry_NearestN_CapsAtRegistrySize(t *testing.T) {
	r := testRegistry()
	assert.Len(t, r.NearestN(52.37, 4.89, 10), 3)
}

func TestRegistry_Nearest_Empty(t *testing.T) {
	r := sensor.NewRegistry(nil)
	_, ok := r.Nearest(52.37, 4.89)
	assert.False(t, ok)
}

func TestRegistry_ByFeedURL(t *testing.T) {
	r := testRegistry()

	d, ok := r.ByFeedURL("https://feeds.example.com/rotterdam.json")
	require.True(t, ok)
	assert.Equal(t, "rtm-center", d.ID)

	_, ok = r.ByFeedURL("https://feeds.example.com/unknown.json")
	assert.False(t, ok)
}

func TestRegistry_AllReturnsCopy(t *testing.T) {
	r := testRegistry()

	all := r.All()
	all[0].ID = "mutated"

	fresh := r.All()
	assert.Equal(t, "ams-center", fresh[0].ID)
}
