// Package validator gates tokens through whitelist/blacklist membership,
// pattern matching and liquidity/metadata checks before they can become
// trading candidates.
package validator

import (
	"context"
	"fmt"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/observability"
	"solana-trade-scout/internal/solana"
	"solana-trade-scout/internal/tokenlist"
)

// Config holds the validation thresholds and switches.
type Config struct {
	EnforceWhitelist bool
	EnforceBlacklist bool
	RequireMetadata  bool
	RequireDecimals  bool
	MinLiquidityUsd  float64
}

// Validator produces a structured verdict for a token. All checks
// short-circuit: the first failing check decides the result.
type Validator struct {
	registry *tokenlist.Registry
	cfg      Config
	metrics  *observability.Metrics
}

// New creates a Validator over the given list registry.
func New(registry *tokenlist.Registry, cfg Config, metrics *observability.Metrics) *Validator {
	return &Validator{
		registry: registry,
		cfg:      cfg,
		metrics:  metrics,
	}
}

// Validate checks a token against the configured gates.
// liquidityUsd is optional; the liquidity gate only applies when it is set.
func (v *Validator) Validate(ctx context.Context, token domain.TokenRef, liquidityUsd *float64) domain.ValidationResult {
	return v.ValidateForSource(ctx, token, liquidityUsd, "")
}

// ValidateForSource is Validate with a DEX source for per-source
// liquidity overrides from the combined list file.
func (v *Validator) ValidateForSource(_ context.Context, token domain.TokenRef, liquidityUsd *float64, source string) domain.ValidationResult {
	v.registry.MaybeReload()
	v.countValidation()

	if !solana.IsValidMint(token.MintAddress) {
		return v.reject("mint", domain.Invalid("malformed mint address", 1.0))
	}

	wlEntry, whitelisted := v.registry.Whitelist(token.MintAddress)

	if v.cfg.EnforceWhitelist && !whitelisted {
		return v.reject("whitelist", domain.Invalid("token is not whitelisted", 0.8))
	}

	if v.cfg.EnforceBlacklist {
		if entry, ok := v.registry.Blacklist(token.MintAddress); ok {
			reason := entry.Reason
			if reason == "" {
				reason = "token is blacklisted"
			}
			result := domain.Invalid(reason, 1.0)
			result.IsBlacklisted = true
			return v.reject("blacklist", result)
		}
		if pattern, ok := v.registry.MatchPattern(token.Name, token.Symbol); ok {
			reason := pattern.Reason
			if reason == "" {
				reason = "token name or symbol matches a blacklist pattern"
			}
			result := domain.Invalid(reason, 1.0)
			result.IsBlacklisted = true
			return v.reject("pattern", result)
		}
	}

	if liquidityUsd != nil {
		min := v.minLiquidity(source)
		if *liquidityUsd < min {
			reason := fmt.Sprintf("liquidity %.2f USD below minimum %.2f USD", *liquidityUsd, min)
			return v.reject("liquidity", domain.Invalid(reason, v.riskScore(token, whitelisted, wlEntry, liquidityUsd)))
		}
	}

	if v.requireMetadata() && !token.HasMetadata() {
		return v.reject("metadata", domain.Invalid("token metadata is required but missing", v.riskScore(token, whitelisted, wlEntry, liquidityUsd)))
	}

	if v.requireDecimals() && token.Decimals == nil {
		return v.reject("decimals", domain.Invalid("token decimals are required but missing", v.riskScore(token, whitelisted, wlEntry, liquidityUsd)))
	}

	result := domain.Valid(v.riskScore(token, whitelisted, wlEntry, liquidityUsd))
	result.IsWhitelisted = whitelisted
	return result
}

// IsTrusted reports whether the mint has a trusted whitelist entry.
func (v *Validator) IsTrusted(mint string) bool {
	entry, ok := v.registry.Whitelist(mint)
	return ok && entry.Trusted
}

// minLiquidity resolves the liquidity floor: combined-file override first
// (per-DEX, then global), config default otherwise.
func (v *Validator) minLiquidity(source string) float64 {
	filters := v.registry.Filters()
	if source != "" {
		if min, ok := filters.MinLiquidityByDex[source]; ok {
			return min
		}
	}
	if filters.MinLiquidityUsd != nil {
		return *filters.MinLiquidityUsd
	}
	return v.cfg.MinLiquidityUsd
}

func (v *Validator) requireMetadata() bool {
	if f := v.registry.Filters(); f.RequireMetadata != nil {
		return *f.RequireMetadata
	}
	return v.cfg.RequireMetadata
}

func (v *Validator) requireDecimals() bool {
	if f := v.registry.Filters(); f.RequireDecimals != nil {
		return *f.RequireDecimals
	}
	return v.cfg.RequireDecimals
}

// riskScore is a deterministic heuristic in [0,1]. Whitelisting and
// trust lower it, missing metadata and thin liquidity raise it.
func (v *Validator) riskScore(token domain.TokenRef, whitelisted bool, wlEntry domain.WhitelistEntry, liquidityUsd *float64) float64 {
	score := 0.5
	if whitelisted {
		score -= 0.2
		if wlEntry.Trusted {
			score -= 0.1
		}
	}
	if !token.HasMetadata() {
		score += 0.1
	}
	if token.Decimals == nil {
		score += 0.1
	}
	if liquidityUsd != nil && *liquidityUsd < 2*v.cfg.MinLiquidityUsd {
		score += 0.1
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}

func (v *Validator) countValidation() {
	if v.metrics != nil {
		v.metrics.ValidationsTotal.Inc()
	}
}

func (v *Validator) reject(check string, result domain.ValidationResult) domain.ValidationResult {
	if v.metrics != nil {
		v.metrics.ValidationRejects.WithLabelValues(check).Inc()
	}
	return result
}
