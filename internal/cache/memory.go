package cache

import (
	"context"
	"sync"
	"time"

	"solana-trade-scout/internal/domain"
)

// MemoryCache is an in-process TTL cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	token     domain.TokenRef
	expiresAt time.Time
}

// NewMemoryCache creates a memory cache with the given TTL.
// A non-positive TTL falls back to DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock sets a custom clock function for deterministic tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

// Compile-time interface check.
var _ TokenCache = (*MemoryCache)(nil)

// Get returns the cached token for a mint, or false on miss or expiry.
func (c *MemoryCache) Get(_ context.Context, mint string) (domain.TokenRef, bool) {
	key := domain.TokenRef{MintAddress: mint}.NormalizedMint()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return domain.TokenRef{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return domain.TokenRef{}, false
	}
	return entry.token, true
}

// Set stores a token under its mint.
func (c *MemoryCache) Set(_ context.Context, token domain.TokenRef) {
	if token.MintAddress == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[token.NormalizedMint()] = memoryEntry{
		token:     token,
		expiresAt: c.now().Add(c.ttl),
	}
}
