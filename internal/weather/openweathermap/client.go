// Package openweathermap provides a client for the OpenWeatherMap API.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aircast/aircast/internal/upstream"
	"github.com/aircast/aircast/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// DefaultOneCallURL is the OpenWeatherMap OneCall API 3.0 base URL.
	DefaultOneCallURL = "https://api.openweathermap.org/data/3.0/onecall"
)

// msToKmh converts wind speed from m/s (OpenWeatherMap metric units) to km/h.
const msToKmh = 3.6

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// OneCallURL is the OneCall API URL (optional).
	OneCallURL string

	// HTTPClient is the HTTP client to use. If nil, a resilient client
	// with defaults is created.
	HTTPClient HTTPDoer
}

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	oneCallURL string
	httpClient HTTPDoer
}

// NewClient creates a new OpenWeatherMap client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	oneCallURL := cfg.OneCallURL
	if oneCallURL == "" {
		oneCallURL = DefaultOneCallURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = upstream.NewClient(upstream.DefaultClientConfig(ProviderName))
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		oneCallURL: oneCallURL,
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// API response types.

type currentWeatherResponse struct {
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Dt int64 `json:"dt"`
}

type oneCallResponse struct {
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	TimezoneOffset int64   `json:"timezone_offset"`
	Hourly         []struct {
		Dt       int64   `json:"dt"`
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
		Pressure float64 `json:"pressure"`
		WindSpd  float64 `json:"wind_speed"`
		Weather  []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
	} `json:"hourly"`
}

// GetCurrent fetches current weather for a location.
func (c *Client) GetCurrent(ctx context.Context, lat, lon float64) (*weather.Observation, error) {
	url := fmt.Sprintf("%s/weather?lat=%.6f&lon=%.6f&appid=%s&units=metric",
		c.baseURL, lat, lon, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var owmResp currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toObservation(&owmResp), nil
}

// GetForecast fetches an hourly forecast for a location.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64, hours int) (*weather.Forecast, error) {
	url := fmt.Sprintf("%s?lat=%.6f&lon=%.6f&appid=%s&units=metric&exclude=minutely,daily,alerts",
		c.oneCallURL, lat, lon, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var owmResp oneCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toForecast(&owmResp, hours), nil
}

// toObservation converts an OpenWeatherMap response to the domain model.
func (c *Client) toObservation(resp *currentWeatherResponse) *weather.Observation {
	obs := &weather.Observation{
		Lat:         resp.Coord.Lat,
		Lon:         resp.Coord.Lon,
		Temperature: resp.Main.Temp,
		Humidity:    resp.Main.Humidity,
		WindSpeed:   resp.Wind.Speed * msToKmh,
		Pressure:    resp.Main.Pressure,
		ObservedAt:  time.Unix(resp.Dt, 0),
		FetchedAt:   time.Now(),
	}

	if len(resp.Weather) > 0 {
		obs.Description = resp.Weather[0].Description
		obs.Icon = resp.Weather[0].Icon
	}

	return obs
}

// toForecast converts a OneCall response to the domain model. The hour of
// each point is the local hour of day at the forecast location.
func (c *Client) toForecast(resp *oneCallResponse, hours int) *weather.Forecast {
	n := len(resp.Hourly)
	if hours > 0 && hours < n {
		n = hours
	}

	forecast := &weather.Forecast{
		Lat:       resp.Lat,
		Lon:       resp.Lon,
		Hourly:    make([]weather.Point, 0, n),
		FetchedAt: time.Now(),
	}

	for _, h := range resp.Hourly[:n] {
		point := weather.Point{
			Hour:        time.Unix(h.Dt+resp.TimezoneOffset, 0).UTC().Hour(),
			Temperature: h.Temp,
			Humidity:    h.Humidity,
			WindSpeed:   h.WindSpd * msToKmh,
			Pressure:    h.Pressure,
		}
		if len(h.Weather) > 0 {
			point.Description = h.Weather[0].Description
			point.Icon = h.Weather[0].Icon
		}
		forecast.Hourly = append(forecast.Hourly, point)
	}

	return forecast
}
