// Package jsonfile implements file-backed stores using JSON documents.
// The trade ledger is rewritten wholesale on every mutation; writes go
// through a temp file and rename so readers never observe partial state.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/storage"
)

// TradeRecordStore persists the ledger as a single JSON array file.
type TradeRecordStore struct {
	mu   sync.Mutex
	path string
}

// NewTradeRecordStore creates a store writing to the given file path.
// Parent directories are created on first save.
func NewTradeRecordStore(path string) *TradeRecordStore {
	return &TradeRecordStore{path: path}
}

// Compile-time interface check.
var _ storage.TradeRecordStore = (*TradeRecordStore)(nil)

// Save replaces the persisted ledger with the given records.
func (s *TradeRecordStore) Save(_ context.Context, records []*domain.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records == nil {
		records = []*domain.TradeRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal trade records: %w", err)
	}

	return writeFileAtomic(s.path, data)
}

// Load returns all persisted records. A missing file is not an error:
// it yields an empty ledger.
func (s *TradeRecordStore) Load(_ context.Context) ([]*domain.TradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.TradeRecord{}, nil
		}
		return nil, fmt.Errorf("read trade records: %w", err)
	}

	var records []*domain.TradeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse trade records: %w", err)
	}
	return records, nil
}

// writeFileAtomic writes data to path via a temp file and rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
