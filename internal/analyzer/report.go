package analyzer

import (
	"fmt"
	"sort"
	"time"

	"solana-trade-scout/internal/domain"
)

// strategyPreferenceRatio triggers a "prefer this strategy"
// recommendation when the best strategy outperforms the runner-up by it.
const strategyPreferenceRatio = 1.5

// LedgerSource is the ledger surface the report builder reads.
type LedgerSource interface {
	ClosedTrades() []*domain.TradeRecord
	Statistics() domain.TradeStatistics
	TokenPerformances() []domain.TokenPerformance
	StrategyEvaluations() []domain.StrategyEvaluation
}

// BuildReport assembles a full analysis report, or nil when there are
// not enough closed trades for trend analysis.
func BuildReport(source LedgerSource, minTrades int, now time.Time) *domain.AnalysisReport {
	closed := source.ClosedTrades()
	trend := AnalyzeTrend(closed, minTrades, now)
	if trend == nil {
		return nil
	}

	tokens := source.TokenPerformances()
	strategies := source.StrategyEvaluations()

	return &domain.AnalysisReport{
		GeneratedAt:      now.UnixMilli(),
		Trend:            trend,
		Overview:         buildOverview(source.Statistics(), closed),
		TokenRankings:    tokens,
		StrategyRankings: strategies,
		Recommendations:  recommendations(tokens, strategies),
	}
}

func buildOverview(stats domain.TradeStatistics, closed []*domain.TradeRecord) domain.ReportOverview {
	overview := domain.ReportOverview{
		TotalTrades:    stats.TotalTrades,
		OpenTrades:     stats.OpenTrades,
		ClosedTrades:   stats.ClosedTrades,
		SuccessRatePct: stats.SuccessRatePct,
		TotalProfit:    stats.TotalProfit,
		AvgProfit:      stats.AvgProfit,
		DailyProfit:    dailyProfit(closed),
	}

	for _, t := range closed {
		if overview.BestTrade == nil || t.Profit > overview.BestTrade.Profit {
			overview.BestTrade = summarize(t)
		}
		if overview.WorstTrade == nil || t.Profit < overview.WorstTrade.Profit {
			overview.WorstTrade = summarize(t)
		}
	}
	return overview
}

func summarize(t *domain.TradeRecord) *domain.TradeSummary {
	return &domain.TradeSummary{
		ID:          t.ID,
		TokenSymbol: t.TokenSymbol,
		Profit:      t.Profit,
		ProfitPct:   t.ProfitPct,
	}
}

// dailyProfit buckets closed trades by UTC sell day, chronologically.
func dailyProfit(closed []*domain.TradeRecord) []domain.DailyProfitPoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	var days []string
	for _, t := range closed {
		day := time.UnixMilli(t.SellTimestamp).UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
			days = append(days, day)
		}
		b.sum += t.Profit
		b.count++
	}
	sort.Strings(days)

	out := make([]domain.DailyProfitPoint, len(days))
	for i, day := range days {
		out[i] = domain.DailyProfitPoint{
			Date:   day,
			Profit: buckets[day].sum,
			Trades: buckets[day].count,
		}
	}
	return out
}

// recommendations derives textual guidance from the rankings: the best
// and worst token, and the leading strategy when it clearly outperforms
// the runner-up.
func recommendations(tokens []domain.TokenPerformance, strategies []domain.StrategyEvaluation) []string {
	var out []string

	if len(tokens) > 0 {
		best := tokens[0]
		if best.AvgProfit > 0 {
			out = append(out, fmt.Sprintf("Best performing token: %s (avg profit %.4f over %d trades).", tokenLabel(best), best.AvgProfit, best.Trades))
		}
		worst := tokens[len(tokens)-1]
		if worst.AvgProfit < 0 && worst.Mint != best.Mint {
			out = append(out, fmt.Sprintf("Worst performing token: %s (avg profit %.4f); consider blacklisting.", tokenLabel(worst), worst.AvgProfit))
		}
	}

	if len(strategies) >= 2 {
		best, second := strategies[0], strategies[1]
		if second.AvgProfit > 0 && best.AvgProfit/second.AvgProfit > strategyPreferenceRatio {
			out = append(out, fmt.Sprintf("Strategy %q outperforms %q by more than %.1fx average profit; prefer it for new positions.", best.StrategyID, second.StrategyID, strategyPreferenceRatio))
		}
	}
	return out
}

func tokenLabel(perf domain.TokenPerformance) string {
	if perf.Symbol != "" {
		return perf.Symbol
	}
	return perf.Mint
}
