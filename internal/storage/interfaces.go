package storage

import (
	"context"

	"solana-trade-scout/internal/domain"
)

// TradeRecordStore persists the full trade ledger. The ledger is the
// source of truth in memory; Save rewrites the stored state wholesale
// on every mutation, Load returns everything for startup recovery.
type TradeRecordStore interface {
	// Save replaces the persisted ledger with the given records.
	Save(ctx context.Context, records []*domain.TradeRecord) error

	// Load returns all persisted records. Returns an empty slice when
	// nothing has been persisted yet.
	Load(ctx context.Context) ([]*domain.TradeRecord, error)
}

// ReportStore persists analysis reports, one per analysis cycle.
type ReportStore interface {
	// Save persists a report. Reports for the same day overwrite each other.
	Save(ctx context.Context, report *domain.AnalysisReport) error

	// Latest returns the most recently persisted report.
	// Returns ErrNotFound when no report has been persisted.
	Latest(ctx context.Context) (*domain.AnalysisReport, error)
}

// TradeAnalyticsStore archives closed trades for offline analysis.
// Append-only; rows are never updated or deleted.
type TradeAnalyticsStore interface {
	// InsertClosedTrade appends one closed trade row.
	InsertClosedTrade(ctx context.Context, t *domain.TradeRecord) error
}
