package kv

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const defaultCleanupInterval = 30 * time.Minute

// Memory keeps values in process memory. Entries expire after ttl;
// a ttl of zero keeps them until removed.
type Memory struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemory creates an in-memory store.
func NewMemory(ttl time.Duration) *Memory {
	expiration := ttl
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	return &Memory{
		cache: gocache.New(expiration, defaultCleanupInterval),
		ttl:   expiration,
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	v, found := m.cache.Get(key)
	if !found {
		return "", ErrNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrNotFound
	}
	return s, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.cache.Set(key, value, m.ttl)
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}
