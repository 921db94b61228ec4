// Package thingspeak provides a client for ThingSpeak-style channel feeds
// that publish aggregated AQI readings.
package thingspeak

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/sensor"
	"github.com/aircast/aircast/internal/upstream"
)

const (
	// ProviderName identifies this sensor feed provider.
	ProviderName = "thingspeak"

	// DefaultBaseURL is the base URL for the ThingSpeak API.
	DefaultBaseURL = "https://api.thingspeak.com"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the feed client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with defaults is created.
	HTTPClient HTTPDoer

	// Timeout for individual feed requests (default: 10s).
	Timeout time.Duration
}

// Client fetches readings from ThingSpeak-style channel feeds.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new feed client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = upstream.NewClient(upstream.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Feed field layout. Channels publish aggregated values as stringly-typed
// numbered fields; empty or missing fields mean the sensor did not report
// the value.
type feedResponse struct {
	Channel channelInfo `json:"channel"`
	Feeds   []feedEntry `json:"feeds"`
}

type channelInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type feedEntry struct {
	CreatedAt string `json:"created_at"`
	AQI       string `json:"field1"`
	PM25      string `json:"field2"`
	PM10      string `json:"field3"`
	NO2       string `json:"field4"`
	O3        string `json:"field5"`
	SO2       string `json:"field6"`
	CO        string `json:"field7"`
}

// FetchCurrent retrieves the most recent reading for a sensor.
func (c *Client) FetchCurrent(ctx context.Context, d sensor.Descriptor) (*aqi.Reading, error) {
	readings, err := c.FetchHistory(ctx, d, 1)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("%w: feed for channel %s has no entries", sensor.ErrMalformedFeed, d.Channel)
	}
	return &readings[len(readings)-1], nil
}

// FetchHistory retrieves the last count readings for a sensor, ordered
// oldest to newest. Entries that fail to parse an AQI value are skipped.
func (c *Client) FetchHistory(ctx context.Context, d sensor.Descriptor, count int) ([]aqi.Reading, error) {
	url := c.feedURL(d, count)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", sensor.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", sensor.ErrProviderUnavailable, resp.StatusCode)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("%w: decode feed: %s", sensor.ErrMalformedFeed, err)
	}

	readings := make([]aqi.Reading, 0, len(feed.Feeds))
	for i := range feed.Feeds {
		if r := toReading(&feed.Feeds[i]); r != nil {
			readings = append(readings, *r)
		}
	}

	return readings, nil
}

// feedURL builds the feed endpoint for a descriptor. An explicit FeedURL
// override wins over the channel-based default.
func (c *Client) feedURL(d sensor.Descriptor, count int) string {
	if d.FeedURL != "" {
		sep := "?"
		if strings.Contains(d.FeedURL, "?") {
			sep = "&"
		}
		return fmt.Sprintf("%s%sresults=%d", d.FeedURL, sep, count)
	}
	return fmt.Sprintf("%s/channels/%s/feeds.json?results=%d", c.baseURL, d.Channel, count)
}

// toReading converts a feed entry to a domain reading. Returns nil when
// the entry carries no parseable AQI value.
func toReading(e *feedEntry) *aqi.Reading {
	value, ok := parseField(e.AQI)
	if !ok {
		return nil
	}

	ts, _ := time.Parse(time.RFC3339, e.CreatedAt)

	return &aqi.Reading{
		AQI:       aqi.ClampAQI(value),
		PM25:      parseConcentration(e.PM25),
		PM10:      parseConcentration(e.PM10),
		NO2:       parseConcentration(e.NO2),
		O3:        parseConcentration(e.O3),
		SO2:       parseConcentration(e.SO2),
		CO:        parseConcentration(e.CO),
		Timestamp: ts,
	}
}

// parseField parses a stringly-typed feed field.
func parseField(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseConcentration parses an optional pollutant field, clamping
// negatives to zero. Absent or unparseable fields stay nil.
func parseConcentration(s string) *float64 {
	v, ok := parseField(s)
	if !ok {
		return nil
	}
	v = aqi.ClampConcentration(v)
	return &v
}
