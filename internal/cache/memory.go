package cache

import (
	"context"
	"sync"
	"time"

	"github.com/spacesedan/tunecast/internal/models"
)

const DefaultTTL = 30 * time.Minute

type entry struct {
	track   models.Track
	expires time.Time
}

// MemoryCache is the default TrackCache: a mutex-guarded map with lazy TTL
// expiry. Good for a single instance; multi-instance deployments should use
// the Valkey-backed cache instead.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

func (m *MemoryCache) Get(_ context.Context, id string) (*models.Track, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		delete(m.entries, id)
		return nil, false
	}
	t := e.track
	return &t, true
}

func (m *MemoryCache) Put(_ context.Context, id string, track models.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = entry{
		track:   track,
		expires: time.Now().Add(m.ttl),
	}
}
