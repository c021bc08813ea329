// Package pricing estimates pool prices and liquidity from on-chain
// vault reserves using the constant-product model.
package pricing

import (
	"context"
	"fmt"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/solana"
)

// Quote is a point-in-time price estimate for the target token of a pool.
type Quote struct {
	// PriceUsd is the USD price of one target token.
	PriceUsd float64

	// LiquidityUsd approximates total pool liquidity as twice the
	// USD value of the quote-side reserve.
	LiquidityUsd float64

	// TargetReserve and QuoteReserve are UI amounts of the two vaults.
	TargetReserve float64
	QuoteReserve  float64

	// QuoteUsd is the USD price of one quote-side token.
	QuoteUsd float64
}

// Source produces quotes for pools.
type Source interface {
	Quote(ctx context.Context, pool domain.PoolInfo, targetMint string) (*Quote, error)
}

// Estimator reads vault balances over RPC and applies the
// constant-product price model.
type Estimator struct {
	rpc         solana.RPCClient
	solPriceUsd float64
}

// NewEstimator creates an Estimator. solPriceUsd converts SOL-quoted
// pools to USD.
func NewEstimator(rpc solana.RPCClient, solPriceUsd float64) *Estimator {
	return &Estimator{rpc: rpc, solPriceUsd: solPriceUsd}
}

// Compile-time interface check.
var _ Source = (*Estimator)(nil)

// Quote fetches both vault balances and prices the target token in USD.
func (e *Estimator) Quote(ctx context.Context, pool domain.PoolInfo, targetMint string) (*Quote, error) {
	targetVault, quoteVault, quoteMint, err := splitVaults(pool, targetMint)
	if err != nil {
		return nil, err
	}

	quoteUsd, err := e.quoteUsd(quoteMint)
	if err != nil {
		return nil, err
	}

	targetBal, err := e.rpc.GetTokenAccountBalance(ctx, targetVault)
	if err != nil {
		return nil, fmt.Errorf("target vault %s: %w", targetVault, err)
	}
	quoteBal, err := e.rpc.GetTokenAccountBalance(ctx, quoteVault)
	if err != nil {
		return nil, fmt.Errorf("quote vault %s: %w", quoteVault, err)
	}

	if targetBal.UIAmount <= 0 || quoteBal.UIAmount <= 0 {
		return nil, fmt.Errorf("pool %s has empty reserves", pool.Address)
	}

	return &Quote{
		PriceUsd:      quoteBal.UIAmount / targetBal.UIAmount * quoteUsd,
		LiquidityUsd:  2 * quoteBal.UIAmount * quoteUsd,
		TargetReserve: targetBal.UIAmount,
		QuoteReserve:  quoteBal.UIAmount,
		QuoteUsd:      quoteUsd,
	}, nil
}

func (e *Estimator) quoteUsd(quoteMint string) (float64, error) {
	switch quoteMint {
	case solana.USDCMint:
		return 1.0, nil
	case solana.WSOLMint:
		if e.solPriceUsd <= 0 {
			return 0, fmt.Errorf("SOL price not configured")
		}
		return e.solPriceUsd, nil
	default:
		return 0, fmt.Errorf("unsupported quote mint %s", quoteMint)
	}
}

// splitVaults maps the pool's two sides onto (target, quote).
func splitVaults(pool domain.PoolInfo, targetMint string) (targetVault, quoteVault, quoteMint string, err error) {
	switch targetMint {
	case pool.TokenAMint:
		targetVault, quoteVault, quoteMint = pool.TokenAVault, pool.TokenBVault, pool.TokenBMint
	case pool.TokenBMint:
		targetVault, quoteVault, quoteMint = pool.TokenBVault, pool.TokenAVault, pool.TokenAMint
	default:
		return "", "", "", fmt.Errorf("mint %s not in pool %s", targetMint, pool.Address)
	}
	if targetVault == "" || quoteVault == "" {
		return "", "", "", fmt.Errorf("pool %s is missing vault addresses", pool.Address)
	}
	return targetVault, quoteVault, quoteMint, nil
}

// SwapOut returns the constant-product output of swapping amountIn
// quote tokens into the pool, ignoring fees.
func SwapOut(targetReserve, quoteReserve, amountIn float64) float64 {
	if targetReserve <= 0 || quoteReserve <= 0 || amountIn <= 0 {
		return 0
	}
	return targetReserve * amountIn / (quoteReserve + amountIn)
}
