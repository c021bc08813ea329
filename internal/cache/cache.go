// Package cache provides a TTL cache for enriched token metadata so
// repeated validations of the same mint avoid redundant RPC lookups.
// Two backends: in-process memory (default) and Redis.
package cache

import (
	"context"
	"time"

	"solana-trade-scout/internal/domain"
)

// DefaultTTL is how long cached metadata stays fresh.
const DefaultTTL = time.Hour

// TokenCache caches enriched token references keyed by mint.
type TokenCache interface {
	// Get returns the cached token for a mint, or false on miss.
	Get(ctx context.Context, mint string) (domain.TokenRef, bool)

	// Set stores a token under its mint.
	Set(ctx context.Context, token domain.TokenRef)
}
