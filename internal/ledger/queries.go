package ledger

import (
	"sort"

	"solana-trade-scout/internal/domain"
)

// Filter narrows TradeRecords results. Zero values mean "no constraint";
// From/To bound the buy timestamp (Unix ms, inclusive).
type Filter struct {
	Status domain.TradeStatus
	From   int64
	To     int64
}

// TradeRecords returns copies of the records matching the filter,
// ordered by buy timestamp ascending.
func (l *Ledger) TradeRecords(f Filter) []*domain.TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*domain.TradeRecord, 0, len(l.records))
	for _, rec := range l.records {
		if f.Status != "" && rec.Status != f.Status {
			continue
		}
		if f.From != 0 && rec.BuyTimestamp < f.From {
			continue
		}
		if f.To != 0 && rec.BuyTimestamp > f.To {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BuyTimestamp < out[j].BuyTimestamp })
	return out
}

// ClosedTrades returns copies of all closed records ordered by sell
// timestamp ascending, the shape the trend analyzer consumes.
func (l *Ledger) ClosedTrades() []*domain.TradeRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*domain.TradeRecord, 0, len(l.records))
	for _, rec := range l.records {
		if rec.IsClosed() {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SellTimestamp < out[j].SellTimestamp })
	return out
}

// Statistics computes the ledger-wide summary.
func (l *Ledger) Statistics() domain.TradeStatistics {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := domain.TradeStatistics{TotalTrades: len(l.records)}
	var holdingSum float64
	for _, rec := range l.records {
		if !rec.IsClosed() {
			stats.OpenTrades++
			continue
		}
		stats.ClosedTrades++
		if rec.Profit > 0 {
			stats.SuccessTrades++
		}
		stats.TotalProfit += rec.Profit
		holdingSum += rec.HoldingTimeSec
	}
	if stats.ClosedTrades > 0 {
		stats.SuccessRatePct = float64(stats.SuccessTrades) / float64(stats.ClosedTrades) * 100
		stats.AvgProfit = stats.TotalProfit / float64(stats.ClosedTrades)
		stats.AvgHoldingTimeSec = holdingSum / float64(stats.ClosedTrades)
	}
	return stats
}

// TokenPerformance returns the rollup for one mint (case-insensitive).
func (l *Ledger) TokenPerformance(mint string) (domain.TokenPerformance, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	perf, ok := l.tokens[domain.TokenRef{MintAddress: mint}.NormalizedMint()]
	if !ok {
		return domain.TokenPerformance{}, false
	}
	return *perf, true
}

// TokenPerformances returns all per-token rollups sorted by avgProfit
// descending.
func (l *Ledger) TokenPerformances() []domain.TokenPerformance {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.TokenPerformance, 0, len(l.tokens))
	for _, perf := range l.tokens {
		out = append(out, *perf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AvgProfit > out[j].AvgProfit })
	return out
}

// StrategyEvaluation returns the rollup for one strategy id.
func (l *Ledger) StrategyEvaluation(id string) (domain.StrategyEvaluation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	eval, ok := l.strategies[id]
	if !ok {
		return domain.StrategyEvaluation{}, false
	}
	return *eval, true
}

// StrategyEvaluations returns all per-strategy rollups sorted by
// avgProfit descending.
func (l *Ledger) StrategyEvaluations() []domain.StrategyEvaluation {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.StrategyEvaluation, 0, len(l.strategies))
	for _, eval := range l.strategies {
		out = append(out, *eval)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AvgProfit > out[j].AvgProfit })
	return out
}
