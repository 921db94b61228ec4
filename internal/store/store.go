// Package store defines the persistence model for users, news items,
// monitoring stations, and per-sensor reading history.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/aircast/aircast/internal/aqi"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// User represents a registered user of the service.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewsItem is an air-quality related news entry served to clients.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Station describes a monitoring station exposed through the stations
// endpoint.
type Station struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Channel string  `json:"channel"`
}

// UserRepository manages user records.
type UserRepository interface {
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) error
}

// NewsRepository manages news items.
type NewsRepository interface {
	List(ctx context.Context) ([]NewsItem, error)
	Put(ctx context.Context, item *NewsItem) error
}

// StationRepository manages the station catalogue.
type StationRepository interface {
	List(ctx context.Context) ([]Station, error)
	Put(ctx context.Context, st *Station) error
}

// HistoryRepository retains recent readings per sensor for trend analysis
// when the upstream feed is short or unavailable.
type HistoryRepository interface {
	Append(ctx context.Context, sensorID string, readings ...aqi.Reading) error
	Recent(ctx context.Context, sensorID string, count int) ([]aqi.Reading, error)
}
