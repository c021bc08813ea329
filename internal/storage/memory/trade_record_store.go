package memory

import (
	"context"
	"sync"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/storage"
)

// TradeRecordStore is an in-memory implementation of storage.TradeRecordStore.
// Useful for tests and fixture-driven report generation.
type TradeRecordStore struct {
	mu      sync.RWMutex
	records []*domain.TradeRecord
}

// NewTradeRecordStore creates a new in-memory trade record store.
func NewTradeRecordStore() *TradeRecordStore {
	return &TradeRecordStore{}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

// Save replaces the persisted ledger with the given records.
func (s *TradeRecordStore) Save(_ context.Context, records []*domain.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = copyRecords(records)
	return nil
}

// Load returns all persisted records.
func (s *TradeRecordStore) Load(_ context.Context) ([]*domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return copyRecords(s.records), nil
}

func copyRecords(records []*domain.TradeRecord) []*domain.TradeRecord {
	out := make([]*domain.TradeRecord, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		cp := *r
		cp.Notes = append([]string(nil), r.Notes...)
		out = append(out, &cp)
	}
	return out
}
