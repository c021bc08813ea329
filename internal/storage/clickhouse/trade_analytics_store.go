package clickhouse

import (
	"context"
	"fmt"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/storage"
)

// TradeAnalyticsStore implements storage.TradeAnalyticsStore using ClickHouse.
// Closed trades are appended as immutable rows for offline analysis; the
// JSON ledger remains the operational source of truth.
type TradeAnalyticsStore struct {
	conn *Conn
}

// NewTradeAnalyticsStore creates a new TradeAnalyticsStore.
func NewTradeAnalyticsStore(conn *Conn) *TradeAnalyticsStore {
	return &TradeAnalyticsStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeAnalyticsStore = (*TradeAnalyticsStore)(nil)

// EnsureSchema creates the closed_trades table if it does not exist.
func (s *TradeAnalyticsStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS closed_trades (
			trade_id             String,
			token_mint           String,
			token_symbol         String,
			strategy             String,
			buy_timestamp        Int64,
			sell_timestamp       Int64,
			buy_cost             Float64,
			sell_proceeds        Float64,
			profit               Float64,
			profit_pct           Float64,
			holding_time_sec     Float64,
			execution_latency_ms Int64
		)
		ENGINE = MergeTree()
		ORDER BY (sell_timestamp, trade_id)
	`
	if err := s.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure closed_trades schema: %w", err)
	}
	return nil
}

// InsertClosedTrade appends one closed trade row.
func (s *TradeAnalyticsStore) InsertClosedTrade(ctx context.Context, t *domain.TradeRecord) error {
	if t == nil || t.ID == "" {
		return storage.ErrInvalidInput
	}
	if t.Status != domain.TradeStatusClosed {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO closed_trades (
			trade_id, token_mint, token_symbol, strategy,
			buy_timestamp, sell_timestamp,
			buy_cost, sell_proceeds, profit, profit_pct,
			holding_time_sec, execution_latency_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	err := s.conn.Exec(ctx, query,
		t.ID, t.TokenMint, t.TokenSymbol, t.Strategy,
		t.BuyTimestamp, t.SellTimestamp,
		t.BuyCost, t.SellProceeds, t.Profit, t.ProfitPct,
		t.HoldingTimeSec, t.ExecutionLatencyMs,
	)
	if err != nil {
		return fmt.Errorf("insert closed trade: %w", err)
	}
	return nil
}
