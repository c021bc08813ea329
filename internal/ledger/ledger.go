// Package ledger keeps the append-only record of executed trades and the
// per-token / per-strategy rollups derived from them. The in-memory state
// is the source of truth; persistence is best-effort and rewrites the
// stored ledger wholesale after every mutation.
package ledger

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"solana-trade-scout/internal/domain"
	"solana-trade-scout/internal/observability"
	"solana-trade-scout/internal/storage"
)

// DefaultRetentionDays is how long closed trades are kept across restarts.
const DefaultRetentionDays = 90

// Options configures a Ledger.
type Options struct {
	// Store persists the ledger. Required.
	Store storage.TradeRecordStore

	// Analytics receives every closed trade for offline analysis. Optional.
	Analytics storage.TradeAnalyticsStore

	// RetentionDays defaults to DefaultRetentionDays when zero. Applied
	// on load only and only to closed records.
	RetentionDays int

	// Metrics is optional.
	Metrics *observability.Metrics
}

// Ledger records buys and sells and maintains performance rollups.
type Ledger struct {
	mu         sync.Mutex
	records    []*domain.TradeRecord
	index      map[string]*domain.TradeRecord
	tokens     map[string]*domain.TokenPerformance // keyed by lower-cased mint
	strategies map[string]*domain.StrategyEvaluation

	opts Options
	now  func() time.Time
}

// New creates a Ledger and recovers persisted state. Closed records older
// than the retention horizon are dropped; open records are always kept.
func New(ctx context.Context, opts Options) (*Ledger, error) {
	if opts.RetentionDays <= 0 {
		opts.RetentionDays = DefaultRetentionDays
	}
	l := &Ledger{
		index:      make(map[string]*domain.TradeRecord),
		tokens:     make(map[string]*domain.TokenPerformance),
		strategies: make(map[string]*domain.StrategyEvaluation),
		opts:       opts,
		now:        time.Now,
	}

	records, err := opts.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trade records: %w", err)
	}

	horizon := time.Now().AddDate(0, 0, -opts.RetentionDays).UnixMilli()
	dropped := 0
	for _, rec := range records {
		if rec.IsClosed() && rec.SellTimestamp < horizon {
			dropped++
			continue
		}
		l.records = append(l.records, rec)
		l.index[rec.ID] = rec
	}

	// Rollups are rebuilt by replaying closed trades in sell order, so
	// the recovered state matches what incremental updates produced.
	closed := make([]*domain.TradeRecord, 0, len(l.records))
	for _, rec := range l.records {
		if rec.IsClosed() {
			closed = append(closed, rec)
		}
	}
	sort.Slice(closed, func(i, j int) bool { return closed[i].SellTimestamp < closed[j].SellTimestamp })
	for _, rec := range closed {
		l.applyClosed(rec)
	}

	if dropped > 0 {
		if err := opts.Store.Save(ctx, l.records); err != nil {
			log.Warn().Err(err).Msg("failed to persist ledger after retention cleanup")
		}
	}
	log.Info().
		Int("records", len(l.records)).
		Int("dropped", dropped).
		Msg("trade ledger loaded")
	return l, nil
}

// WithClock sets a custom clock function for deterministic tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// RecordBuy appends an open trade record and returns its id.
func (l *Ledger) RecordBuy(ctx context.Context, token domain.TokenRef, amount, price, cost float64, strategy string, latencyMs int64, reason string) string {
	nowMs := l.now().UnixMilli()
	rec := &domain.TradeRecord{
		ID:                 fmt.Sprintf("%d-%s", nowMs, uuid.NewString()[:8]),
		TokenMint:          token.MintAddress,
		TokenSymbol:        token.Symbol,
		TokenName:          token.Name,
		BuyTimestamp:       nowMs,
		BuyPrice:           price,
		BuyAmount:          amount,
		BuyCost:            cost,
		Status:             domain.TradeStatusOpen,
		Strategy:           strategy,
		ExecutionLatencyMs: latencyMs,
		Reason:             reason,
	}

	l.mu.Lock()
	l.records = append(l.records, rec)
	l.index[rec.ID] = rec
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	if l.opts.Metrics != nil {
		l.opts.Metrics.TradesOpened.Inc()
	}
	log.Info().
		Str("tradeId", rec.ID).
		Str("mint", rec.TokenMint).
		Float64("cost", cost).
		Str("strategy", strategy).
		Msg("buy recorded")

	l.persist(ctx, snapshot)
	return rec.ID
}

// RecordSell closes the trade with the given id. Returns false when the
// id is unknown or the trade is already closed.
func (l *Ledger) RecordSell(ctx context.Context, tradeID string, price, amount, proceeds float64) bool {
	l.mu.Lock()
	rec, ok := l.index[tradeID]
	if !ok || rec.IsClosed() {
		l.mu.Unlock()
		return false
	}

	nowMs := l.now().UnixMilli()
	rec.SellTimestamp = nowMs
	rec.SellPrice = price
	rec.SellAmount = amount
	rec.SellProceeds = proceeds
	rec.Status = domain.TradeStatusClosed
	rec.Profit = proceeds - rec.BuyCost
	if rec.BuyCost != 0 {
		rec.ProfitPct = rec.Profit / rec.BuyCost * 100
	}
	rec.HoldingTimeSec = float64(nowMs-rec.BuyTimestamp) / 1000

	l.applyClosed(rec)
	closed := *rec
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	if l.opts.Metrics != nil {
		l.opts.Metrics.TradesClosed.Inc()
	}
	log.Info().
		Str("tradeId", tradeID).
		Float64("profit", closed.Profit).
		Float64("profitPct", closed.ProfitPct).
		Msg("sell recorded")

	if l.opts.Analytics != nil {
		if err := l.opts.Analytics.InsertClosedTrade(ctx, &closed); err != nil {
			log.Warn().Err(err).Str("tradeId", tradeID).Msg("closed trade archive failed")
		}
	}
	l.persist(ctx, snapshot)
	return true
}

// AddNote appends a free-form note to an existing trade.
func (l *Ledger) AddNote(ctx context.Context, tradeID, text string) bool {
	l.mu.Lock()
	rec, ok := l.index[tradeID]
	if !ok {
		l.mu.Unlock()
		return false
	}
	rec.Notes = append(rec.Notes, text)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.persist(ctx, snapshot)
	return true
}

// applyClosed folds a newly closed trade into both rollups.
// Caller holds the lock.
func (l *Ledger) applyClosed(rec *domain.TradeRecord) {
	key := domain.TokenRef{MintAddress: rec.TokenMint}.NormalizedMint()
	perf, ok := l.tokens[key]
	if !ok {
		perf = &domain.TokenPerformance{
			Mint:   rec.TokenMint,
			Symbol: rec.TokenSymbol,
			Name:   rec.TokenName,
		}
		l.tokens[key] = perf
	}
	perf.Trades++
	if rec.Profit > 0 {
		perf.SuccessTrades++
	}
	perf.TotalProfit += rec.Profit
	perf.AvgProfit = perf.TotalProfit / float64(perf.Trades)
	perf.AvgHoldingTimeSec = (perf.AvgHoldingTimeSec*float64(perf.Trades-1) + rec.HoldingTimeSec) / float64(perf.Trades)
	perf.LastTradeTs = rec.SellTimestamp

	eval, ok := l.strategies[rec.Strategy]
	if !ok {
		eval = &domain.StrategyEvaluation{StrategyID: rec.Strategy}
		l.strategies[rec.Strategy] = eval
	}
	success := 0.0
	if rec.Profit > 0 {
		success = 1
	}
	prev := float64(eval.Trades)
	eval.Trades++
	n := float64(eval.Trades)
	eval.SuccessRatePct = (eval.SuccessRatePct*prev/100 + success) / n * 100
	eval.AvgProfit = (eval.AvgProfit*prev + rec.Profit) / n
	eval.AvgHoldingTimeSec = (eval.AvgHoldingTimeSec*prev + rec.HoldingTimeSec) / n

	ratio := eval.AvgProfit / (1 - eval.SuccessRatePct/100)
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 0
	}
	eval.RiskReturnRatio = ratio
}

// snapshotLocked copies the ledger for a persistence write.
// Caller holds the lock.
func (l *Ledger) snapshotLocked() []*domain.TradeRecord {
	out := make([]*domain.TradeRecord, len(l.records))
	for i, rec := range l.records {
		cp := *rec
		out[i] = &cp
	}
	return out
}

// persist writes the ledger snapshot. Failures are logged, never
// propagated; the in-memory state stays authoritative.
func (l *Ledger) persist(ctx context.Context, snapshot []*domain.TradeRecord) {
	if err := l.opts.Store.Save(ctx, snapshot); err != nil {
		if l.opts.Metrics != nil {
			l.opts.Metrics.PersistenceErrors.Inc()
		}
		log.Error().Err(err).Msg("trade ledger persistence failed")
	}
}
