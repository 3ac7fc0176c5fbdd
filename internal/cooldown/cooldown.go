// Package cooldown throttles repeat actions per key, backing the
// resend-verification cooldown.
package cooldown

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store grants at most one acquisition per key within ttl.
type Store interface {
	// Acquire reports whether the key was free. A successful acquisition
	// blocks further ones until ttl elapses.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

const keyPrefix = "cooldown:"

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, keyPrefix+key, 1, ttl).Result()
}

// MemoryStore is the single-process fallback when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, ok := s.entries[key]; ok && now.Before(until) {
		return false, nil
	}
	s.entries[key] = now.Add(ttl)
	return true, nil
}
