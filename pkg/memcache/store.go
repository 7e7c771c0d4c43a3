// pkg/memcache/store.go
package memcache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"time"
)

var ErrCacheMiss = errors.New("cache miss")

// Store is a small TTL key/value cache. Values are JSON encoded so the
// in-memory and Redis implementations behave the same.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Incr atomically increments a counter that never expires.
	Incr(ctx context.Context, key string) (int64, error)
	Close() error
}

type entry struct {
	data      []byte
	expiresAt time.Time // zero means no expiry
}

type InMemory struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

var _ Store = (*InMemory)(nil)

func NewInMemory() *InMemory {
	return &InMemory{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *InMemory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	e := entry{data: data}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = e
	return nil
}

func (s *InMemory) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return ErrCacheMiss
	}
	if s.expired(e) {
		s.evictExpired(key)
		return ErrCacheMiss
	}
	return json.Unmarshal(e.data, dest)
}

// evictExpired drops key only if it is still expired under the write lock;
// a Set may have replaced it since the read.
func (s *InMemory) evictExpired(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.data[key]; ok && s.expired(cur) {
		delete(s.data, key)
	}
}

func (s *InMemory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *InMemory) Incr(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if e, ok := s.data[key]; ok && !s.expired(e) {
		v, err := strconv.ParseInt(string(e.data), 10, 64)
		if err != nil {
			return 0, err
		}
		n = v
	}
	n++
	s.data[key] = entry{data: []byte(strconv.FormatInt(n, 10))}
	return n, nil
}

func (s *InMemory) Close() error { return nil }

func (s *InMemory) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

// GetOrSet returns the cached value for key, or calls fn and caches its
// result. Cache write failures are ignored.
func GetOrSet[T any](ctx context.Context, s Store, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var result T

	if err := s.Get(ctx, key, &result); err == nil {
		return result, nil
	}

	result, err := fn()
	if err != nil {
		return result, err
	}

	_ = s.Set(ctx, key, result, ttl)
	return result, nil
}
