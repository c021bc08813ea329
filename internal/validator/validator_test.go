package validator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/tokenlist"
)

// Real mints so the base58 sanity check passes.
const (
	wsolMint = "So11111111111111111111111111111111111111112"
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	bonkMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
)

func writeLists(t *testing.T, wl []domain.WhitelistEntry, bl []domain.BlacklistEntry, patterns []domain.BlacklistPattern) *tokenlist.Registry {
	t.Helper()
	dir := t.TempDir()

	wlPath := filepath.Join(dir, "whitelist.json")
	blPath := filepath.Join(dir, "blacklist.json")

	wlData, err := json.Marshal(map[string]any{"tokens": wl})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(wlPath, wlData, 0o644))

	blData, err := json.Marshal(map[string]any{"tokens": bl, "patterns": patterns})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(blPath, blData, 0o644))

	return tokenlist.NewRegistry(tokenlist.Options{
		WhitelistPath: wlPath,
		BlacklistPath: blPath,
	})
}

func float(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

func TestValidate_WhitelistEnforced(t *testing.T) {
	registry := writeLists(t,
		[]domain.WhitelistEntry{{Mint: wsolMint, Symbol: "SOL", Trusted: true}},
		nil, nil)
	v := New(registry, Config{EnforceWhitelist: true, EnforceBlacklist: true}, nil)
	ctx := context.Background()

	res := v.Validate(ctx, domain.TokenRef{MintAddress: wsolMint, Name: "Wrapped SOL", Symbol: "SOL", Decimals: intp(9)}, nil)
	require.True(t, res.IsValid)
	require.True(t, res.IsWhitelisted)
	require.Empty(t, res.Reason)

	res = v.Validate(ctx, domain.TokenRef{MintAddress: bonkMint, Name: "Bonk", Symbol: "BONK"}, nil)
	require.False(t, res.IsValid)
	require.Equal(t, "token is not whitelisted", res.Reason)
}

func TestValidate_BlacklistBeatsLaterChecks(t *testing.T) {
	registry := writeLists(t, nil,
		[]domain.BlacklistEntry{{Mint: bonkMint, Reason: "rug history"}},
		nil)
	v := New(registry, Config{EnforceBlacklist: true, MinLiquidityUsd: 1000}, nil)

	// Liquidity is also below the floor, but the blacklist check runs first.
	res := v.Validate(context.Background(), domain.TokenRef{MintAddress: bonkMint}, float(10))
	require.False(t, res.IsValid)
	require.True(t, res.IsBlacklisted)
	require.Equal(t, "rug history", res.Reason)
	require.Equal(t, 1.0, res.RiskScore)
}

func TestValidate_PatternMatch(t *testing.T) {
	registry := writeLists(t, nil, nil,
		[]domain.BlacklistPattern{{NameContains: []string{"scam"}, Reason: "suspicious name"}})
	v := New(registry, Config{EnforceBlacklist: true}, nil)
	ctx := context.Background()

	for _, name := range []string{"scam token", "SCAM Coin", "MegaScamCoin"} {
		res := v.Validate(ctx, domain.TokenRef{MintAddress: bonkMint, Name: name, Symbol: "X"}, nil)
		require.False(t, res.IsValid, "name %q should be rejected", name)
		require.True(t, res.IsBlacklisted)
		require.Equal(t, "suspicious name", res.Reason)
	}

	res := v.Validate(ctx, domain.TokenRef{MintAddress: bonkMint, Name: "Honest Coin", Symbol: "HON", Decimals: intp(6)}, nil)
	require.True(t, res.IsValid)
}

func TestValidate_LiquidityGate(t *testing.T) {
	registry := writeLists(t, nil, nil, nil)
	v := New(registry, Config{MinLiquidityUsd: 1000}, nil)
	ctx := context.Background()
	token := domain.TokenRef{MintAddress: usdcMint, Name: "USD Coin", Symbol: "USDC", Decimals: intp(6)}

	res := v.Validate(ctx, token, float(999.99))
	require.False(t, res.IsValid)
	require.Contains(t, res.Reason, "below minimum")

	res = v.Validate(ctx, token, float(1000))
	require.True(t, res.IsValid)

	// No liquidity figure means the gate does not apply.
	res = v.Validate(ctx, token, nil)
	require.True(t, res.IsValid)
}

func TestValidate_RequiredMetadataAndDecimals(t *testing.T) {
	registry := writeLists(t, nil, nil, nil)
	v := New(registry, Config{RequireMetadata: true, RequireDecimals: true}, nil)
	ctx := context.Background()

	res := v.Validate(ctx, domain.TokenRef{MintAddress: usdcMint, Symbol: "USDC"}, nil)
	require.False(t, res.IsValid)
	require.Equal(t, "token metadata is required but missing", res.Reason)

	res = v.Validate(ctx, domain.TokenRef{MintAddress: usdcMint, Name: "USD Coin", Symbol: "USDC"}, nil)
	require.False(t, res.IsValid)
	require.Equal(t, "token decimals are required but missing", res.Reason)

	res = v.Validate(ctx, domain.TokenRef{MintAddress: usdcMint, Name: "USD Coin", Symbol: "USDC", Decimals: intp(6)}, nil)
	require.True(t, res.IsValid)
}

func TestValidate_MalformedMint(t *testing.T) {
	registry := writeLists(t, nil, nil, nil)
	v := New(registry, Config{}, nil)

	res := v.Validate(context.Background(), domain.TokenRef{MintAddress: "not-a-mint-0OIl"}, nil)
	require.False(t, res.IsValid)
	require.Equal(t, "malformed mint address", res.Reason)
	require.Equal(t, 1.0, res.RiskScore)
}

func TestValidate_RiskScoreRange(t *testing.T) {
	registry := writeLists(t,
		[]domain.WhitelistEntry{{Mint: wsolMint, Trusted: true}},
		nil, nil)
	v := New(registry, Config{MinLiquidityUsd: 1000}, nil)
	ctx := context.Background()

	// Trusted whitelisted token with full metadata and deep liquidity.
	low := v.Validate(ctx, domain.TokenRef{MintAddress: wsolMint, Name: "Wrapped SOL", Symbol: "SOL", Decimals: intp(9)}, float(50000))
	require.True(t, low.IsValid)

	// Anonymous token with nothing going for it.
	high := v.Validate(ctx, domain.TokenRef{MintAddress: bonkMint}, float(1200))
	require.True(t, high.IsValid)

	require.Less(t, low.RiskScore, high.RiskScore)
	require.GreaterOrEqual(t, low.RiskScore, 0.0)
	require.LessOrEqual(t, high.RiskScore, 1.0)
}

func TestValidateForSource_PerDexOverride(t *testing.T) {
	dir := t.TempDir()
	combined := filepath.Join(dir, "lists.json")
	data := `{
  "whitelist": { "tokens": [] },
  "blacklist": { "tokens": [], "patterns": [] },
  "tokenFilters": {
    "minLiquidityUsd": 2000,
    "minLiquidityByDex": { "raydium": 5000 }
  }
}`
	require.NoError(t, os.WriteFile(combined, []byte(data), 0o644))

	registry := tokenlist.NewRegistry(tokenlist.Options{CombinedPath: combined})
	v := New(registry, Config{MinLiquidityUsd: 1000}, nil)
	ctx := context.Background()
	token := domain.TokenRef{MintAddress: usdcMint, Name: "USD Coin", Symbol: "USDC", Decimals: intp(6)}

	// Global override raises the floor from 1000 to 2000.
	res := v.Validate(ctx, token, float(1500))
	require.False(t, res.IsValid)

	// The raydium override raises it further.
	res = v.ValidateForSource(ctx, token, float(3000), "raydium")
	require.False(t, res.IsValid)

	res = v.ValidateForSource(ctx, token, float(6000), "raydium")
	require.True(t, res.IsValid)

	// Unknown source falls back to the global override.
	res = v.ValidateForSource(ctx, token, float(3000), "orca")
	require.True(t, res.IsValid)
}
