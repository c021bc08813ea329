package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/storage"
)

const reportFilePrefix = "report_"

// ReportStore persists one report file per day under a reports directory:
// reports/report_<YYYY-MM-DD>.json. A second run on the same day overwrites
// that day's file.
type ReportStore struct {
	mu  sync.Mutex
	dir string
}

// NewReportStore creates a store writing to the given directory.
func NewReportStore(dir string) *ReportStore {
	return &ReportStore{dir: dir}
}

// Compile-time interface check.
var _ storage.ReportStore = (*ReportStore)(nil)

// Save persists a report under the report's generation date.
func (s *ReportStore) Save(_ context.Context, report *domain.AnalysisReport) error {
	if report == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	date := time.UnixMilli(report.GeneratedAt).UTC().Format("2006-01-02")
	path := filepath.Join(s.dir, reportFilePrefix+date+".json")
	return writeFileAtomic(path, data)
}

// Latest returns the report with the newest date in the directory.
func (s *ReportStore) Latest(_ context.Context) (*domain.AnalysisReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, reportFilePrefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, storage.ErrNotFound
	}

	// Date-stamped names sort chronologically.
	sort.Strings(names)
	path := filepath.Join(s.dir, names[len(names)-1])

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}

	var report domain.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}
