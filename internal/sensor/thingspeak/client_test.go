package thingspeak_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircast/aircast/internal/sensor"
	"github.com/aircast/aircast/internal/sensor/thingspeak"
)

const feedBody = `{
	"channel": {"id": 101, "name": "Amsterdam Centrum"},
	"feeds": [
		{"created_at": "2025-06-01T10:00:00Z", "field1": "42", "field2": "12.5", "field3": "20.1"},
		{"created_at": "2025-06-01T11:00:00Z", "field1": "-7", "field2": "-1"},
		{"created_at": "2025-06-01T12:00:00Z", "field1": "not-a-number"},
		{"created_at": "2025-06-01T13:00:00Z", "field1": "612", "field4": "33"},
		{"created_at": "2025-06-01T14:00:00Z", "field1": "55"}
	]
}`

func TestClient_FetchHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/channels/101/feeds.json", r.URL.Path)
		assert.Equal(t, "6", r.URL.Query().Get("results"))
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := thingspeak.NewClient(thingspeak.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	readings, err := client.FetchHistory(context.Background(), sensor.Descriptor{ID: "s1", Channel: "101"}, 6)
	require.NoError(t, err)

	// The unparseable entry is skipped; the rest survive with clamping.
	require.Len(t, readings, 4)

	assert.Equal(t, 42.0, readings[0].AQI)
	require.NotNil(t, readings[0].PM25)
	assert.Equal(t, 12.5, *readings[0].PM25)
	require.NotNil(t, readings[0].PM10)
	assert.Equal(t, 20.1, *readings[0].PM10)
	assert.Nil(t, readings[0].NO2)

	// Negative AQI clamps to 0, negative concentrations to 0.
	assert.Equal(t, 0.0, readings[1].AQI)
	require.NotNil(t, readings[1].PM25)
	assert.Equal(t, 0.0, *readings[1].PM25)

	// Out-of-range AQI clamps to the scale ceiling.
	assert.Equal(t, 500.0, readings[2].AQI)
	require.NotNil(t, readings[2].NO2)
	assert.Equal(t, 33.0, *readings[2].NO2)

	assert.Equal(t, 55.0, readings[3].AQI)
}

func TestClient_FetchCurrent_ReturnsNewest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := thingspeak.NewClient(thingspeak.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	reading, err := client.FetchCurrent(context.Background(), sensor.Descriptor{ID: "s1", Channel: "101"})
	require.NoError(t, err)
	assert.Equal(t, 55.0, reading.AQI)
}

func TestClient_FeedURLOverride(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(feedBody))
	}))
	defer server.Close()

	client := thingspeak.NewClient(thingspeak.ClientConfig{
		BaseURL:    "https://unused.example.com",
		HTTPClient: http.DefaultClient,
	})

	d := sensor.Descriptor{ID: "s1", Channel: "101", FeedURL: server.URL + "/custom/feed.json"}
	_, err := client.FetchHistory(context.Background(), d, 3)
	require.NoError(t, err)
	assert.Equal(t, "/custom/feed.json", gotPath)
}

func TestClient_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := thingspeak.NewClient(thingspeak.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchHistory(context.Background(), sensor.Descriptor{Channel: "101"}, 3)
	assert.ErrorIs(t, err, sensor.ErrProviderUnavailable)
}

func TestClient_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"channel": `))
	}))
	defer server.Close()

	client := thingspeak.NewClient(thingspeak.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchHistory(context.Background(), sensor.Descriptor{Channel: "101"}, 3)
	assert.ErrorIs(t, err, sensor.ErrMalformedFeed)
}

func TestClient_EmptyFeedCurrent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"channel": {"id": 101}, "feeds": []}`))
	}))
	defer server.Close()

	client := thingspeak.NewClient(thingspeak.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchCurrent(context.Background(), sensor.Descriptor{Channel: "101"})
	assert.ErrorIs(t, err, sensor.ErrMalformedFeed)
}
