package memory

import (
	"context"
	"sync"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/storage"
)

// ReportStore is an in-memory implementation of storage.ReportStore.
// Keeps only the most recent report.
type ReportStore struct {
	mu     sync.RWMutex
	latest *domain.AnalysisReport
}

// NewReportStore creates a new in-memory report store.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

// Save persists a report.
func (s *ReportStore) Save(_ context.Context, report *domain.AnalysisReport) error {
	if report == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *report
	s.latest = &cp
	return nil
}

// Latest returns the most recently persisted report.
func (s *ReportStore) Latest(_ context.Context) (*domain.AnalysisReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, storage.ErrNotFound
	}
	cp := *s.latest
	return &cp, nil
}
