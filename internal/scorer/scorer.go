// Package scorer turns discovered pools into scored trading candidates.
// Detection is best-effort: any failure along the way drops the pool
// with a debug log instead of propagating an error.
package scorer

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/observability"
	"solana-trade-scout/internal/pricing"
	"solana-trade-scout/internal/solana"
	"solana-trade-scout/internal/validator"
)

// Config holds the scoring thresholds.
type Config struct {
	// MaxInitialPriceUsd rejects tokens already priced above this.
	MaxInitialPriceUsd float64

	// MinLiquidityUsd rejects pools thinner than this.
	MinLiquidityUsd float64

	// TradeSizeUsd sizes the estimated entry used for the output amount.
	TradeSizeUsd float64

	// TargetProfitPct is the profit target the executor aims for.
	TargetProfitPct float64
}

// Scorer scores pools into opportunities.
type Scorer struct {
	validator *validator.Validator
	enricher  *validator.Enricher
	prices    pricing.Source
	cfg       Config
	metrics   *observability.Metrics
	now       func() time.Time
}

// New creates a Scorer.
func New(v *validator.Validator, e *validator.Enricher, prices pricing.Source, cfg Config, metrics *observability.Metrics) *Scorer {
	return &Scorer{
		validator: v,
		enricher:  e,
		prices:    prices,
		cfg:       cfg,
		metrics:   metrics,
		now:       time.Now,
	}
}

// WithClock sets a custom clock function for deterministic tests.
func (s *Scorer) WithClock(now func() time.Time) *Scorer {
	s.now = now
	return s
}

// Detect evaluates a discovered pool and returns a scored Opportunity,
// or nil when the pool should be skipped. Detect never returns an error.
func (s *Scorer) Detect(ctx context.Context, pool domain.PoolInfo) *domain.Opportunity {
	s.countPool()

	target, base, ok := identifyTokens(pool)
	if !ok {
		s.skip("identify")
		log.Debug().Str("pool", pool.Address).Msg("pool has no single base side")
		return nil
	}

	target = s.enricher.EnrichTokenInfo(ctx, target)

	verdict := s.validator.ValidateForSource(ctx, target, nil, pool.DEX)
	if !verdict.IsValid {
		s.skip("validation")
		log.Debug().
			Str("pool", pool.Address).
			Str("mint", target.MintAddress).
			Str("reason", verdict.Reason).
			Msg("target token rejected")
		return nil
	}

	quote, err := s.prices.Quote(ctx, pool, target.MintAddress)
	if err != nil {
		s.skip("pricing")
		log.Debug().Err(err).Str("pool", pool.Address).Msg("pool pricing failed")
		return nil
	}

	if quote.PriceUsd > s.cfg.MaxInitialPriceUsd {
		s.skip("price")
		log.Debug().
			Str("pool", pool.Address).
			Float64("priceUsd", quote.PriceUsd).
			Msg("token already priced above entry ceiling")
		return nil
	}
	if quote.LiquidityUsd < s.cfg.MinLiquidityUsd {
		s.skip("liquidity")
		log.Debug().
			Str("pool", pool.Address).
			Float64("liquidityUsd", quote.LiquidityUsd).
			Msg("pool liquidity below floor")
		return nil
	}

	nowMs := s.now().UnixMilli()
	ageSec := float64(nowMs-pool.FirstDetectedAt) / 1000

	trusted := target.IsTrusted || s.validator.IsTrusted(target.MintAddress)
	confidence := confidenceScore(quote.PriceUsd, quote.LiquidityUsd, ageSec)
	priority := priorityScore(confidence, ageSec, trusted)
	slippage := slippageForLiquidity(&quote.LiquidityUsd)

	amountIn := 0.0
	if quote.QuoteUsd > 0 {
		amountIn = s.cfg.TradeSizeUsd / quote.QuoteUsd
	}
	outAmount := pricing.SwapOut(quote.TargetReserve, quote.QuoteReserve, amountIn)

	opp := &domain.Opportunity{
		Pool:                 pool,
		TargetToken:          target,
		BaseToken:            base,
		EstimatedPriceUsd:    quote.PriceUsd,
		EstimatedSlippagePct: slippage,
		LiquidityUsd:         quote.LiquidityUsd,
		Confidence:           confidence,
		PriorityScore:        priority,
		Priority:             priority / 100,
		EstimatedOutAmount:   outAmount,
		EstimatedProfitPct:   s.cfg.TargetProfitPct - slippage,
		Timestamp:            nowMs,
	}

	if s.metrics != nil {
		s.metrics.OpportunitiesEmitted.Inc()
	}
	log.Info().
		Str("pool", pool.Address).
		Str("mint", target.MintAddress).
		Str("symbol", target.Symbol).
		Float64("priceUsd", quote.PriceUsd).
		Float64("liquidityUsd", quote.LiquidityUsd).
		Float64("confidence", confidence).
		Float64("priority", priority).
		Msg("opportunity detected")
	return opp
}

// identifyTokens splits the pool into (target, base). Exactly one side
// must be a known base mint; both or neither disqualifies the pool.
func identifyTokens(pool domain.PoolInfo) (target, base domain.TokenRef, ok bool) {
	aIsBase := solana.IsBaseMint(pool.TokenAMint)
	bIsBase := solana.IsBaseMint(pool.TokenBMint)
	if aIsBase == bIsBase {
		return domain.TokenRef{}, domain.TokenRef{}, false
	}

	if aIsBase {
		base = domain.TokenRef{MintAddress: pool.TokenAMint, Symbol: pool.TokenASymbol}
		target = domain.TokenRef{MintAddress: pool.TokenBMint, Symbol: pool.TokenBSymbol}
	} else {
		base = domain.TokenRef{MintAddress: pool.TokenBMint, Symbol: pool.TokenBSymbol}
		target = domain.TokenRef{MintAddress: pool.TokenAMint, Symbol: pool.TokenASymbol}
	}
	return target, base, true
}

// confidenceScore is the [0,1] quality heuristic.
func confidenceScore(priceUsd, liquidityUsd, ageSec float64) float64 {
	score := 0.5
	if priceUsd < 0.001 {
		score += 0.2
	}
	if liquidityUsd > 5000 {
		score += 0.2
	} else if liquidityUsd < 2000 {
		score -= 0.1
	}
	if ageSec < 60 {
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

// priorityScore ranks candidates relative to each other. Unbounded.
func priorityScore(confidence, ageSec float64, trusted bool) float64 {
	score := confidence * 100
	if ageSec < 60 {
		score += 20
	} else if ageSec < 300 {
		score += 10
	}
	if trusted {
		score += 50
	}
	return score
}

// slippageForLiquidity buckets expected slippage by pool depth.
// Unknown liquidity gets the worst tier.
func slippageForLiquidity(liquidityUsd *float64) float64 {
	if liquidityUsd == nil {
		return 10
	}
	switch liq := *liquidityUsd; {
	case liq > 10000:
		return 1
	case liq > 5000:
		return 2
	case liq > 2000:
		return 3
	case liq > 1000:
		return 5
	default:
		return 8
	}
}

func (s *Scorer) countPool() {
	if s.metrics != nil {
		s.metrics.PoolsObserved.Inc()
	}
}

func (s *Scorer) skip(stage string) {
	if s.metrics != nil {
		s.metrics.PoolsSkipped.WithLabelValues(stage).Inc()
	}
}
