// Package listener watches Raydium AMM v4 logs over a WebSocket
// subscription and emits PoolInfo for every newly initialized pool.
package listener

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/solana"
)

// RaydiumAMMV4 is the Raydium AMM v4 program ID.
const RaydiumAMMV4 = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"

const (
	maxTxRetries   = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Raydium initialize2 account indices within the transaction message.
// 4: AMM ID (pool), 8: coin mint, 9: pc mint, 10: coin vault, 11: pc vault.
const (
	initPoolIndex      = 4
	initCoinMintIndex  = 8
	initPcMintIndex    = 9
	initCoinVaultIndex = 10
	initPcVaultIndex   = 11
)

// Listener subscribes to pool-initialization logs and publishes pools.
type Listener struct {
	ws    solana.WSClient
	rpc   solana.RPCClient
	pools chan domain.PoolInfo
	now   func() time.Time
}

// New creates a Listener over the given WebSocket and RPC clients.
func New(ws solana.WSClient, rpc solana.RPCClient) *Listener {
	return &Listener{
		ws:    ws,
		rpc:   rpc,
		pools: make(chan domain.PoolInfo, 100),
		now:   time.Now,
	}
}

// WithClock sets a custom clock function for deterministic tests.
func (l *Listener) WithClock(now func() time.Time) *Listener {
	l.now = now
	return l
}

// Pools delivers discovered pools. Closed when Run returns.
func (l *Listener) Pools() <-chan domain.PoolInfo {
	return l.pools
}

// Run subscribes and processes notifications until the context is
// cancelled or the subscription channel closes.
func (l *Listener) Run(ctx context.Context) error {
	defer close(l.pools)

	logsCh, err := l.ws.SubscribeLogs(ctx, solana.LogsFilter{Mentions: []string{RaydiumAMMV4}})
	if err != nil {
		return err
	}
	log.Info().Str("program", RaydiumAMMV4).Msg("pool listener subscribed")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notif, ok := <-logsCh:
			if !ok {
				log.Warn().Msg("logs subscription channel closed")
				return nil
			}
			l.process(ctx, notif)
		}
	}
}

func (l *Listener) process(ctx context.Context, notif solana.LogNotification) {
	if notif.Err != nil {
		return
	}
	if !isPoolInitialization(notif.Logs) {
		return
	}

	tx, err := l.fetchTransaction(ctx, notif.Signature)
	if err != nil || tx == nil {
		log.Warn().Err(err).Str("signature", notif.Signature).Msg("pool init transaction fetch failed, pool dropped")
		return
	}

	var keys []string
	if tx.Message != nil {
		keys = tx.Message.AccountKeys
	}
	pool, ok := extractPool(keys)
	if !ok {
		log.Debug().Str("signature", notif.Signature).Int("accounts", len(keys)).Msg("pool init transaction has unexpected account layout")
		return
	}

	if tx.BlockTime > 0 {
		pool.FirstDetectedAt = tx.BlockTime * 1000
	} else {
		pool.FirstDetectedAt = l.now().UnixMilli()
	}

	log.Info().
		Str("pool", pool.Address).
		Str("tokenA", pool.TokenAMint).
		Str("tokenB", pool.TokenBMint).
		Msg("new pool discovered")

	select {
	case l.pools <- pool:
	case <-ctx.Done():
	}
}

// fetchTransaction retries with exponential backoff; fresh transactions
// often lag the log notification by a slot or two.
func (l *Listener) fetchTransaction(ctx context.Context, signature string) (*solana.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		tx, err := l.rpc.GetTransaction(ctx, signature)
		if err == nil && tx != nil {
			return tx, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		select {
		case <-time.After(baseRetryDelay * time.Duration(1<<attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// isPoolInitialization detects Raydium initialize2 in the log lines.
func isPoolInitialization(logs []string) bool {
	for _, line := range logs {
		if strings.Contains(line, "initialize2") || strings.Contains(line, "init_pc_amount") {
			return true
		}
	}
	return false
}

// extractPool reads the initialize2 account layout out of the message
// account keys. The layout is positional; transactions that do not fit
// are dropped rather than guessed at.
func extractPool(keys []string) (domain.PoolInfo, bool) {
	if len(keys) <= initPcVaultIndex {
		return domain.PoolInfo{}, false
	}
	pool := domain.PoolInfo{
		Address:     keys[initPoolIndex],
		DEX:         "raydium",
		TokenAMint:  keys[initCoinMintIndex],
		TokenBMint:  keys[initPcMintIndex],
		TokenAVault: keys[initCoinVaultIndex],
		TokenBVault: keys[initPcVaultIndex],
	}
	if pool.Address == "" || pool.TokenAMint == "" || pool.TokenBMint == "" {
		return domain.PoolInfo{}, false
	}
	return pool, true
}
