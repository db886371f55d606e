// Package querycache memoizes upstream list reads per session for a short
// time. Mutations invalidate by key prefix so the next read refetches.
package querycache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is used when New gets a non positive ttl
const DefaultTTL = 30 * time.Second

type entry struct {
	value   interface{}
	expires time.Time
}

// Cache is safe for concurrent use
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]map[string]entry
	now      func() time.Time
}

// New creates a Cache
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{ttl: ttl, sessions: make(map[string]map[string]entry), now: time.Now}
}

// Get returns the live value stored under key for the session
func (c *Cache) Get(sessionID, key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.sessions[sessionID][key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		delete(c.sessions[sessionID], key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the session
func (c *Cache) Set(sessionID, key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys, ok := c.sessions[sessionID]
	if !ok {
		keys = make(map[string]entry)
		c.sessions[sessionID] = keys
	}
	keys[key] = entry{value: value, expires: c.now().Add(c.ttl)}
}

// Invalidate drops the session's keys starting with prefix
func (c *Cache) Invalidate(sessionID, prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.sessions[sessionID] {
		if strings.HasPrefix(key, prefix) {
			delete(c.sessions[sessionID], key)
		}
	}
}

// Drop forgets everything cached for the session
func (c *Cache) Drop(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
}

// Sweep removes expired entries and empty sessions
func (c *Cache) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, keys := range c.sessions {
		for key, e := range keys {
			if !now.Before(e.expires) {
				delete(keys, key)
			}
		}
		if len(keys) == 0 {
			delete(c.sessions, id)
		}
	}
}

// Run sweeps every interval until ctx is done
func (c *Cache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Fetch returns the cached value for key or loads and caches it. Errors
// are not cached.
func Fetch[T any](ctx context.Context, c *Cache, sessionID, key string, load func(context.Context) (T, error)) (T, error) {
	if c != nil && sessionID != "" {
		if v, ok := c.Get(sessionID, key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if c != nil && sessionID != "" {
		c.Set(sessionID, key, value)
	}
	return value, nil
}
