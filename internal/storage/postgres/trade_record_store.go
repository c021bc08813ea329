package postgres

import (
	"context"
	"fmt"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/storage"
)

// TradeRecordStore implements storage.TradeRecordStore using PostgreSQL.
// The wholesale-rewrite contract maps to a transactional truncate + insert,
// keeping the table an exact mirror of the in-memory ledger.
type TradeRecordStore struct {
	pool *Pool
}

// NewTradeRecordStore creates a new TradeRecordStore.
func NewTradeRecordStore(pool *Pool) *TradeRecordStore {
	return &TradeRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

// EnsureSchema creates the trade_records table if it does not exist.
func (s *TradeRecordStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS trade_records (
			id                   TEXT PRIMARY KEY,
			token_mint           TEXT NOT NULL,
			token_symbol         TEXT NOT NULL DEFAULT '',
			token_name           TEXT NOT NULL DEFAULT '',
			buy_timestamp        BIGINT NOT NULL,
			buy_price            DOUBLE PRECISION NOT NULL,
			buy_amount           DOUBLE PRECISION NOT NULL,
			buy_cost             DOUBLE PRECISION NOT NULL,
			status               TEXT NOT NULL,
			sell_timestamp       BIGINT NOT NULL DEFAULT 0,
			sell_price           DOUBLE PRECISION NOT NULL DEFAULT 0,
			sell_amount          DOUBLE PRECISION NOT NULL DEFAULT 0,
			sell_proceeds        DOUBLE PRECISION NOT NULL DEFAULT 0,
			profit               DOUBLE PRECISION NOT NULL DEFAULT 0,
			profit_pct           DOUBLE PRECISION NOT NULL DEFAULT 0,
			holding_time_sec     DOUBLE PRECISION NOT NULL DEFAULT 0,
			strategy             TEXT NOT NULL DEFAULT '',
			execution_latency_ms BIGINT NOT NULL DEFAULT 0,
			reason               TEXT NOT NULL DEFAULT '',
			notes                TEXT[] NOT NULL DEFAULT '{}'
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure trade_records schema: %w", err)
	}
	return nil
}

// Save replaces the persisted ledger with the given records.
func (s *TradeRecordStore) Save(ctx context.Context, records []*domain.TradeRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE trade_records`); err != nil {
		return fmt.Errorf("truncate trade_records: %w", err)
	}

	query := `
		INSERT INTO trade_records (
			id, token_mint, token_symbol, token_name,
			buy_timestamp, buy_price, buy_amount, buy_cost,
			status,
			sell_timestamp, sell_price, sell_amount, sell_proceeds,
			profit, profit_pct, holding_time_sec,
			strategy, execution_latency_ms, reason, notes
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9,
			$10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19, $20
		)
	`
	for _, t := range records {
		if t == nil || t.ID == "" {
			return storage.ErrInvalidInput
		}
		notes := t.Notes
		if notes == nil {
			notes = []string{}
		}
		_, err := tx.Exec(ctx, query,
			t.ID, t.TokenMint, t.TokenSymbol, t.TokenName,
			t.BuyTimestamp, t.BuyPrice, t.BuyAmount, t.BuyCost,
			string(t.Status),
			t.SellTimestamp, t.SellPrice, t.SellAmount, t.SellProceeds,
			t.Profit, t.ProfitPct, t.HoldingTimeSec,
			t.Strategy, t.ExecutionLatencyMs, t.Reason, notes,
		)
		if err != nil {
			return fmt.Errorf("insert trade record %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Load returns all persisted records ordered by buy_timestamp ASC.
func (s *TradeRecordStore) Load(ctx context.Context) ([]*domain.TradeRecord, error) {
	query := `
		SELECT
			id, token_mint, token_symbol, token_name,
			buy_timestamp, buy_price, buy_amount, buy_cost,
			status,
			sell_timestamp, sell_price, sell_amount, sell_proceeds,
			profit, profit_pct, holding_time_sec,
			strategy, execution_latency_ms, reason, notes
		FROM trade_records
		ORDER BY buy_timestamp ASC, id ASC
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query trade records: %w", err)
	}
	defer rows.Close()

	records := []*domain.TradeRecord{}
	for rows.Next() {
		var t domain.TradeRecord
		var status string
		err := rows.Scan(
			&t.ID, &t.TokenMint, &t.TokenSymbol, &t.TokenName,
			&t.BuyTimestamp, &t.BuyPrice, &t.BuyAmount, &t.BuyCost,
			&status,
			&t.SellTimestamp, &t.SellPrice, &t.SellAmount, &t.SellProceeds,
			&t.Profit, &t.ProfitPct, &t.HoldingTimeSec,
			&t.Strategy, &t.ExecutionLatencyMs, &t.Reason, &t.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade record: %w", err)
		}
		t.Status = domain.TradeStatus(status)
		records = append(records, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade records: %w", err)
	}
	return records, nil
}
