package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/storage"
)

func TestTradeRecordStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "trades.json")
	store := NewTradeRecordStore(path)
	ctx := context.Background()

	records := []*domain.TradeRecord{
		{
			ID:           "1700000000000-abcd1234",
			TokenMint:    "MintAAA",
			TokenSymbol:  "AAA",
			BuyTimestamp: 1700000000000,
			BuyPrice:     0.001,
			BuyAmount:    1000,
			BuyCost:      1.0,
			Status:       domain.TradeStatusOpen,
			Strategy:     "take-profit",
			Notes:        []string{"first entry"},
		},
		{
			ID:             "1700000100000-efgh5678",
			TokenMint:      "MintBBB",
			BuyTimestamp:   1700000100000,
			BuyCost:        2.0,
			Status:         domain.TradeStatusClosed,
			SellTimestamp:  1700000200000,
			SellProceeds:   2.4,
			Profit:         0.4,
			ProfitPct:      20,
			HoldingTimeSec: 100,
		},
	}

	require.NoError(t, store.Save(ctx, records))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, records[0].ID, loaded[0].ID)
	require.Equal(t, []string{"first entry"}, loaded[0].Notes)
	require.Equal(t, 0.4, loaded[1].Profit)
	require.Equal(t, domain.TradeStatusClosed, loaded[1].Status)
}

func TestTradeRecordStore_MissingFileIsEmpty(t *testing.T) {
	store := NewTradeRecordStore(filepath.Join(t.TempDir(), "absent.json"))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestTradeRecordStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.json")
	store := NewTradeRecordStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []*domain.TradeRecord{{ID: "a"}, {ID: "b"}}))
	require.NoError(t, store.Save(ctx, []*domain.TradeRecord{{ID: "c"}}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "c", loaded[0].ID)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestTradeRecordStore_SaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.json")
	store := NewTradeRecordStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, nil))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestTradeRecordStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewTradeRecordStore(path).Load(context.Background())
	require.Error(t, err)
}

func TestReportStore_SaveAndLatest(t *testing.T) {
	dir := t.TempDir()
	store := NewReportStore(dir)
	ctx := context.Background()

	day := int64(24 * 60 * 60 * 1000)
	older := &domain.AnalysisReport{GeneratedAt: 1700000000000}
	newer := &domain.AnalysisReport{GeneratedAt: 1700000000000 + 3*day}

	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, newer.GeneratedAt, latest.GeneratedAt)
}

func TestReportStore_SameDayOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewReportStore(dir)
	ctx := context.Background()

	first := &domain.AnalysisReport{GeneratedAt: 1700000000000}
	second := &domain.AnalysisReport{GeneratedAt: 1700000000000 + 60*60*1000}

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	require.Equal(t, second.GeneratedAt, latest.GeneratedAt)
}

func TestReportStore_EmptyDirIsNotFound(t *testing.T) {
	store := NewReportStore(filepath.Join(t.TempDir(), "reports"))

	_, err := store.Latest(context.Background())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReportStore_SaveNilIsInvalid(t *testing.T) {
	store := NewReportStore(t.TempDir())
	require.ErrorIs(t, store.Save(context.Background(), nil), storage.ErrInvalidInput)
}
