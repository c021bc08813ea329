package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/storage/memory"
)

func newTestLedger(t *testing.T) (*Ledger, *memory.TradeRecordStore, *time.Time) {
	t.Helper()
	store := memory.NewTradeRecordStore()
	l, err := New(context.Background(), Options{Store: store})
	require.NoError(t, err)

	current := time.UnixMilli(1700000000000)
	l.WithClock(func() time.Time { return current })
	return l, store, &current
}

func TestRecordBuyAndSell(t *testing.T) {
	l, store, current := newTestLedger(t)
	ctx := context.Background()

	token := domain.TokenRef{MintAddress: "MintXYZ", Symbol: "XYZ", Name: "XYZ Token"}
	id := l.RecordBuy(ctx, token, 1000, 0.001, 1.0, "take-profit", 42, "new pool")
	require.NotEmpty(t, id)

	buyTs := current.UnixMilli()
	*current = current.Add(90 * time.Second)

	require.True(t, l.RecordSell(ctx, id, 0.0012, 1000, 1.2))

	records := l.TradeRecords(Filter{})
	require.Len(t, records, 1)
	rec := records[0]

	require.Equal(t, domain.TradeStatusClosed, rec.Status)
	require.InDelta(t, 0.2, rec.Profit, 1e-9)
	require.InDelta(t, 20, rec.ProfitPct, 1e-9)
	require.InDelta(t, 90, rec.HoldingTimeSec, 1e-9)
	require.Equal(t, buyTs, rec.BuyTimestamp)

	// Rollup after the single trade.
	perf, ok := l.TokenPerformance("mintxyz")
	require.True(t, ok)
	require.Equal(t, 1, perf.Trades)
	require.Equal(t, 1, perf.SuccessTrades)
	require.InDelta(t, 0.2, perf.AvgProfit, 1e-9)

	// The ledger persisted after both mutations.
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	require.Equal(t, domain.TradeStatusClosed, saved[0].Status)
}

func TestRecordSell_UnknownID(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	require.False(t, l.RecordSell(ctx, "nope", 1, 1, 1))
	require.Empty(t, l.TradeRecords(Filter{}))

	// Double-close is also refused.
	id := l.RecordBuy(ctx, domain.TokenRef{MintAddress: "MintA"}, 1, 1, 1, "s", 0, "")
	require.True(t, l.RecordSell(ctx, id, 1, 1, 1.5))
	require.False(t, l.RecordSell(ctx, id, 1, 1, 2))
}

func TestAddNote(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	id := l.RecordBuy(ctx, domain.TokenRef{MintAddress: "MintA"}, 1, 1, 1, "s", 0, "")
	require.True(t, l.AddNote(ctx, id, "first"))
	require.True(t, l.AddNote(ctx, id, "second"))
	require.False(t, l.AddNote(ctx, "nope", "x"))

	rec := l.TradeRecords(Filter{})[0]
	require.Equal(t, []string{"first", "second"}, rec.Notes)
}

func TestIncrementalRollupEqualsBatchAverage(t *testing.T) {
	l, _, current := newTestLedger(t)
	ctx := context.Background()

	profits := []float64{0.5, -0.2, 1.1, 0.0, -0.7, 0.3}
	var total float64
	for i, p := range profits {
		id := l.RecordBuy(ctx, domain.TokenRef{MintAddress: "MintA", Symbol: "A"}, 100, 0.01, 1.0, fmt.Sprintf("s%d", i%2), 0, "")
		*current = current.Add(time.Duration(10+i) * time.Second)
		require.True(t, l.RecordSell(ctx, id, 0.01, 100, 1.0+p))
		total += p
	}

	perf, ok := l.TokenPerformance("MintA")
	require.True(t, ok)
	require.Equal(t, len(profits), perf.Trades)
	require.InDelta(t, total/float64(len(profits)), perf.AvgProfit, 1e-9)
	require.InDelta(t, total, perf.TotalProfit, 1e-9)
}

func TestStrategyEvaluation_SuccessRateAndRiskReturn(t *testing.T) {
	l, _, current := newTestLedger(t)
	ctx := context.Background()

	// 10 trades, 4 profitable.
	for i := 0; i < 10; i++ {
		proceeds := 0.9
		if i < 4 {
			proceeds = 1.5
		}
		id := l.RecordBuy(ctx, domain.TokenRef{MintAddress: "MintA"}, 1, 1, 1.0, "trailing-stop", 0, "")
		*current = current.Add(time.Second)
		require.True(t, l.RecordSell(ctx, id, 1, 1, proceeds))
	}

	eval, ok := l.StrategyEvaluation("trailing-stop")
	require.True(t, ok)
	require.Equal(t, 10, eval.Trades)
	require.InDelta(t, 40, eval.SuccessRatePct, 1e-9)

	// avgProfit = (4*0.5 - 6*0.1)/10 = 0.14; ratio = 0.14/(1-0.4).
	require.InDelta(t, 0.14, eval.AvgProfit, 1e-9)
	require.InDelta(t, 0.14/0.6, eval.RiskReturnRatio, 1e-9)

	stats := l.Statistics()
	require.Equal(t, 10, stats.ClosedTrades)
	require.InDelta(t, 40, stats.SuccessRatePct, 1e-9)
}

func TestRiskReturnRatio_AllWinsIsZero(t *testing.T) {
	l, _, current := newTestLedger(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id := l.RecordBuy(ctx, domain.TokenRef{MintAddress: "MintA"}, 1, 1, 1.0, "take-profit", 0, "")
		*current = current.Add(time.Second)
		require.True(t, l.RecordSell(ctx, id, 1, 1, 1.2))
	}

	eval, ok := l.StrategyEvaluation("take-profit")
	require.True(t, ok)
	require.InDelta(t, 100, eval.SuccessRatePct, 1e-9)
	require.Zero(t, eval.RiskReturnRatio)
}

func TestTradeRecords_Filters(t *testing.T) {
	l, _, current := newTestLedger(t)
	ctx := context.Background()

	first := l.RecordBuy(ctx, domain.TokenRef{MintAddress: "MintA"}, 1, 1, 1, "s", 0, "")
	firstTs := current.UnixMilli()
	*current = current.Add(time.Hour)
	l.RecordBuy(ctx, domain.TokenRef{MintAddress: "MintB"}, 1, 1, 1, "s", 0, "")
	require.True(t, l.RecordSell(ctx, first, 1, 1, 1.1))

	open := l.TradeRecords(Filter{Status: domain.TradeStatusOpen})
	require.Len(t, open, 1)
	require.Equal(t, "MintB", open[0].TokenMint)

	closed := l.TradeRecords(Filter{Status: domain.TradeStatusClosed})
	require.Len(t, closed, 1)

	ranged := l.TradeRecords(Filter{From: firstTs + 1})
	require.Len(t, ranged, 1)
	require.Equal(t, "MintB", ranged[0].TokenMint)
}

func TestRetention_DropsOldClosedKeepsOpen(t *testing.T) {
	store := memory.NewTradeRecordStore()
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -120).UnixMilli()
	recent := time.Now().AddDate(0, 0, -5).UnixMilli()
	require.NoError(t, store.Save(ctx, []*domain.TradeRecord{
		{ID: "old-closed", TokenMint: "MintA", Status: domain.TradeStatusClosed, BuyTimestamp: old, SellTimestamp: old},
		{ID: "old-open", TokenMint: "MintB", Status: domain.TradeStatusOpen, BuyTimestamp: old},
		{ID: "recent-closed", TokenMint: "MintC", Status: domain.TradeStatusClosed, BuyTimestamp: recent, SellTimestamp: recent, Profit: 0.5},
	}))

	l, err := New(ctx, Options{Store: store})
	require.NoError(t, err)

	records := l.TradeRecords(Filter{})
	require.Len(t, records, 2)
	ids := []string{records[0].ID, records[1].ID}
	require.ElementsMatch(t, []string{"old-open", "recent-closed"}, ids)

	// Rollups were rebuilt from the surviving closed trades.
	perf, ok := l.TokenPerformance("MintC")
	require.True(t, ok)
	require.Equal(t, 1, perf.Trades)
	_, ok = l.TokenPerformance("MintA")
	require.False(t, ok)
}

func TestTradeIDsAreUnique(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := l.RecordBuy(ctx, domain.TokenRef{MintAddress: "MintA"}, 1, 1, 1, "s", 0, "")
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
