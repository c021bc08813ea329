package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"solana-trade-scout/internal/domain"
)

const redisKeyPrefix = "scout:token:"

// RedisCache stores token metadata in Redis with a TTL. Failures are
// treated as cache misses; the cache never blocks enrichment.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache against the given address.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Compile-time interface check.
var _ TokenCache = (*RedisCache)(nil)

// Get returns the cached token for a mint, or false on miss.
func (c *RedisCache) Get(ctx context.Context, mint string) (domain.TokenRef, bool) {
	key := redisKeyPrefix + domain.TokenRef{MintAddress: mint}.NormalizedMint()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Str("mint", mint).Msg("redis cache get failed")
		}
		return domain.TokenRef{}, false
	}

	var token domain.TokenRef
	if err := json.Unmarshal(data, &token); err != nil {
		log.Debug().Err(err).Str("mint", mint).Msg("redis cache entry corrupt")
		return domain.TokenRef{}, false
	}
	return token, true
}

// Set stores a token under its mint.
func (c *RedisCache) Set(ctx context.Context, token domain.TokenRef) {
	if token.MintAddress == "" {
		return
	}

	data, err := json.Marshal(token)
	if err != nil {
		return
	}
	key := redisKeyPrefix + token.NormalizedMint()
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Str("mint", token.MintAddress).Msg("redis cache set failed")
	}
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
