package validator

import (
	"context"

	"github.com/rs/zerolog/log"

	"solana-trade-scout/internal/cache"
	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/solana"
)

// MetadataSource resolves on-chain metadata for a mint.
type MetadataSource interface {
	Lookup(ctx context.Context, mint string) (*solana.TokenMetadata, error)
}

// Enricher fills missing token metadata from a cache and, on miss,
// an on-chain metadata source.
type Enricher struct {
	cache  cache.TokenCache
	source MetadataSource
}

// NewEnricher creates an Enricher. Either argument may be nil; a nil
// cache skips caching and a nil source skips chain lookups.
func NewEnricher(c cache.TokenCache, source MetadataSource) *Enricher {
	return &Enricher{cache: c, source: source}
}

// EnrichTokenInfo returns a copy of token with missing symbol, name and
// decimals filled in where possible. Fields already set are kept as-is.
// On lookup failure the input is returned unchanged.
func (e *Enricher) EnrichTokenInfo(ctx context.Context, token domain.TokenRef) domain.TokenRef {
	if token.MintAddress == "" || complete(token) {
		return token
	}

	enriched := token
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, token.MintAddress); ok {
			enriched = merge(enriched, cached)
			if complete(enriched) {
				return enriched
			}
		}
	}

	if e.source == nil {
		return enriched
	}

	meta, err := e.source.Lookup(ctx, token.MintAddress)
	if err != nil || meta == nil {
		log.Debug().Err(err).Str("mint", token.MintAddress).Msg("token metadata lookup failed")
		return token
	}

	fromChain := domain.TokenRef{
		MintAddress: token.MintAddress,
		Name:        meta.Name,
		Symbol:      meta.Symbol,
		Decimals:    &meta.Decimals,
	}
	enriched = merge(enriched, fromChain)

	if e.cache != nil {
		e.cache.Set(ctx, enriched)
	}
	return enriched
}

// merge fills fields missing on dst from src. The mint is never touched.
func merge(dst, src domain.TokenRef) domain.TokenRef {
	if dst.Symbol == "" {
		dst.Symbol = src.Symbol
	}
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Decimals == nil && src.Decimals != nil {
		d := *src.Decimals
		dst.Decimals = &d
	}
	return dst
}

func complete(token domain.TokenRef) bool {
	return token.HasMetadata() && token.Decimals != nil
}
