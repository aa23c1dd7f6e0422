package cache

import (
	"sync"
	"time"

	"weatheredge/internal/config"
	"weatheredge/internal/models"
)

// Clock supplies the current time; injectable so TTL expiry is testable
// against a fake clock.
type Clock func() time.Time

// DefaultCatalogKey is the catalog cache key when no category filter is set.
const DefaultCatalogKey = "all"

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Store is one key -> {value, timestamp} cache layer. Expiry is lazy: an
// entry older than the TTL is treated as absent on read and dropped then,
// never by a background timer.
type Store[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     Clock
	entries map[string]entry[T]
}

func NewStore[T any](ttl time.Duration, now Clock) *Store[T] {
	if now == nil {
		now = time.Now
	}
	return &Store[T]{
		ttl:     ttl,
		now:     now,
		entries: map[string]entry[T]{},
	}
}

func (s *Store[T]) Get(key string) (T, bool) {
	var zero T
	s.mu.RLock()
	it, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.ttl > 0 && s.now().Sub(it.storedAt) >= s.ttl {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the key.
		if cur, ok := s.entries[key]; ok && cur.storedAt.Equal(it.storedAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return it.value, true
}

func (s *Store[T]) Set(key string, value T) {
	s.mu.Lock()
	s.entries[key] = entry[T]{value: value, storedAt: s.now()}
	s.mu.Unlock()
}

func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store[T]) TTL() time.Duration { return s.ttl }

// Len counts non-expired entries.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	n := 0
	for _, it := range s.entries {
		if s.ttl > 0 && now.Sub(it.storedAt) >= s.ttl {
			continue
		}
		n++
	}
	return n
}

// Newest returns the storedAt of the freshest live entry, or nil when the
// store holds nothing usable.
func (s *Store[T]) Newest() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	var newest *time.Time
	for _, it := range s.entries {
		if s.ttl > 0 && now.Sub(it.storedAt) >= s.ttl {
			continue
		}
		ts := it.storedAt
		if newest == nil || ts.After(*newest) {
			newest = &ts
		}
	}
	return newest
}

// Service owns the four cache layers, constructed once per process and
// passed by reference into the ranking pipeline.
type Service struct {
	Catalog  *Store[[]models.Market]
	Detail   *Store[models.Market]
	Location *Store[[]models.Market]
	Tags     *Store[[]string]
}

func NewService(cfg config.CacheConfig, now Clock) *Service {
	return &Service{
		Catalog:  NewStore[[]models.Market](cfg.CatalogTTL, now),
		Detail:   NewStore[models.Market](cfg.DetailTTL, now),
		Location: NewStore[[]models.Market](cfg.LocationTTL, now),
		Tags:     NewStore[[]string](cfg.TagsTTL, now),
	}
}
