package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aircast/aircast/internal/aqi"
)

// historyCap bounds retained readings per sensor: four days of
// hourly samples.
const historyCap = 96

// Memory is an in-memory implementation of all repositories. Data lives
// for the lifetime of the process.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]*User
	news      map[string]*NewsItem
	stations  map[string]*Station
	histories map[string][]aqi.Reading
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]*User),
		news:      make(map[string]*NewsItem),
		stations:  make(map[string]*Station),
		histories: make(map[string][]aqi.Reading),
	}
}

// Get retrieves a user by ID.
func (m *Memory) Get(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	cpy := *u
	return &cpy, nil
}

// List returns all users ordered by creation time.
func (m *Memory) List(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// Create stores a new user, assigning an ID and creation time when absent.
func (m *Memory) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	cpy := *u
	m.users[u.ID] = &cpy
	return nil
}

// Update replaces an existing user.
func (m *Memory) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[u.ID]
	if !ok {
		return ErrNotFound
	}

	cpy := *u
	cpy.CreatedAt = existing.CreatedAt
	m.users[u.ID] = &cpy
	return nil
}

// Delete removes a user by ID.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// ListNews returns all news items ordered newest first.
func (m *Memory) ListNews(_ context.Context) ([]NewsItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]NewsItem, 0, len(m.news))
	for _, item := range m.news {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	return items, nil
}

// PutNews inserts or replaces a news item, assigning an ID when absent.
func (m *Memory) PutNews(_ context.Context, item *NewsItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	cpy := *item
	m.news[item.ID] = &cpy
	return nil
}

// ListStations returns all stations ordered by ID.
func (m *Memory) ListStations(_ context.Context) ([]Station, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stations := make([]Station, 0, len(m.stations))
	for _, st := range m.stations {
		stations = append(stations, *st)
	}
	sort.Slice(stations, func(i, j int) bool {
		return stations[i].ID < stations[j].ID
	})
	return stations, nil
}

// PutStation inserts or replaces a station, assigning an ID when absent.
func (m *Memory) PutStation(_ context.Context, st *Station) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if st.ID == "" {
		st.ID = uuid.NewString()
	}

	cpy := *st
	m.stations[st.ID] = &cpy
	return nil
}

// Append adds readings to a sensor's history, keeping at most historyCap
// of the most recent entries.
func (m *Memory) Append(_ context.Context, sensorID string, readings ...aqi.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := append(m.histories[sensorID], readings...)
	if len(history) > historyCap {
		trimmed := make([]aqi.Reading, historyCap)
		copy(trimmed, history[len(history)-historyCap:])
		history = trimmed
	}
	m.histories[sensorID] = history
	return nil
}

// Recent returns up to count of the most recent readings for a sensor,
// ordered oldest to newest. An unknown sensor yields an empty slice.
func (m *Memory) Recent(_ context.Context, sensorID string, count int) ([]aqi.Reading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.histories[sensorID]
	if count <= 0 || count > len(history) {
		count = len(history)
	}

	out := make([]aqi.Reading, count)
	copy(out, history[len(history)-count:])
	return out, nil
}

// NewsAdapter exposes Memory through the NewsRepository method names.
type newsAdapter struct{ m *Memory }

func (a newsAdapter) List(ctx context.Context) ([]NewsItem, error) { return a.m.ListNews(ctx) }
func (a newsAdapter) Put(ctx context.Context, item *NewsItem) error {
	return a.m.PutNews(ctx, item)
}

// News returns the store's NewsRepository view.
func (m *Memory) News() NewsRepository { return newsAdapter{m} }

type stationAdapter struct{ m *Memory }

func (a stationAdapter) List(ctx context.Context) ([]Station, error) { return a.m.ListStations(ctx) }
func (a stationAdapter) Put(ctx context.Context, st *Station) error {
	return a.m.PutStation(ctx, st)
}

// Stations returns the store's StationRepository view.
func (m *Memory) Stations() StationRepository { return stationAdapter{m} }

// Ensure Memory implements the repository interfaces.
var (
	_ UserRepository    = (*Memory)(nil)
	_ HistoryRepository = (*Memory)(nil)
)
