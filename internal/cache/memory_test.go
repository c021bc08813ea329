package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solana-trade-scout/internal/domain"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "MintA")
	require.False(t, ok)

	decimals := 9
	c.Set(ctx, domain.TokenRef{MintAddress: "MintA", Symbol: "AAA", Decimals: &decimals})

	got, ok := c.Get(ctx, "MintA")
	require.True(t, ok)
	require.Equal(t, "AAA", got.Symbol)
	require.Equal(t, 9, *got.Decimals)

	// Mint lookup is case-insensitive.
	_, ok = c.Get(ctx, "minta")
	require.True(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	current := time.Unix(1700000000, 0)
	c := NewMemoryCache(time.Minute).WithClock(func() time.Time { return current })
	ctx := context.Background()

	c.Set(ctx, domain.TokenRef{MintAddress: "MintA"})

	current = current.Add(30 * time.Second)
	_, ok := c.Get(ctx, "MintA")
	require.True(t, ok)

	current = current.Add(45 * time.Second)
	_, ok = c.Get(ctx, "MintA")
	require.False(t, ok)
}
