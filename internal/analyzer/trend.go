// Package analyzer computes market trend signals and periodic analysis
// reports from the ledger's closed trades. Everything here is recomputed
// wholesale per cycle; nothing is incremental.
package analyzer

import (
	"math"
	"sort"
	"time"

	"solana-trade-scout/internal/domain"
)

// DefaultMinTrades is the minimum closed-trade count for analysis.
const DefaultMinTrades = 10

// trendWindow is how many trailing trend points feed the slope.
const trendWindow = 5

// dailyBucketThreshold switches the profit series to per-day buckets.
const dailyBucketThreshold = 7 * 24 * time.Hour

// AnalyzeTrend computes a MarketTrend from closed trades, or nil when
// fewer than minTrades are available. Insufficient data is a normal
// outcome, not an error.
func AnalyzeTrend(closed []*domain.TradeRecord, minTrades int, now time.Time) *domain.MarketTrend {
	if minTrades <= 0 {
		minTrades = DefaultMinTrades
	}
	if len(closed) < minTrades {
		return nil
	}

	trades := make([]*domain.TradeRecord, len(closed))
	copy(trades, closed)
	sort.Slice(trades, func(i, j int) bool { return trades[i].SellTimestamp < trades[j].SellTimestamp })

	startTs := trades[0].BuyTimestamp
	for _, t := range trades {
		if t.BuyTimestamp < startTs {
			startTs = t.BuyTimestamp
		}
	}
	endTs := now.UnixMilli()
	period := time.Duration(endTs-startTs) * time.Millisecond

	var totalProfit float64
	successCount := 0
	for _, t := range trades {
		totalProfit += t.Profit
		if t.Profit > 0 {
			successCount++
		}
	}

	profitTrend, tradeVolume := profitSeries(trades, period)
	volatility := populationStdDev(profitTrend)
	slope := trendSlope(lastN(profitTrend, trendWindow))

	return &domain.MarketTrend{
		PeriodDays:     period.Hours() / 24,
		StartTs:        startTs,
		EndTs:          endTs,
		TopPerformers:  topPerformers(trades),
		TotalTrades:    len(trades),
		SuccessRatePct: float64(successCount) / float64(len(trades)) * 100,
		AvgProfit:      totalProfit / float64(len(trades)),
		ProfitTrend:    profitTrend,
		TradeVolume:    tradeVolume,
		Volatility:     volatility,
		Signals:        classify(slope, volatility),
		Opportunities:  suggestions(classify(slope, volatility)),
	}
}

// profitSeries builds the trend series: per-day buckets when the period
// spans at least a week, one point per trade otherwise. Trades must be
// sorted by sell timestamp.
func profitSeries(trades []*domain.TradeRecord, period time.Duration) ([]float64, []int) {
	if period < dailyBucketThreshold {
		profits := make([]float64, len(trades))
		volume := make([]int, len(trades))
		for i, t := range trades {
			profits[i] = t.Profit
			volume[i] = 1
		}
		return profits, volume
	}

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	var days []string
	for _, t := range trades {
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

	profits := make([]float64, len(days))
	volume := make([]int, len(days))
	for i, day := range days {
		b := buckets[day]
		profits[i] = b.sum / float64(b.count)
		volume[i] = b.count
	}
	return profits, volume
}

// trendSlope is the ordinary-least-squares slope of the series against
// its indices. Degenerate inputs yield 0.
func trendSlope(series []float64) float64 {
	n := float64(len(series))
	if len(series) < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	slope := (n*sumXY - sumX*sumY) / denom
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}
	return slope
}

// populationStdDev is the population (not sample) standard deviation.
func populationStdDev(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	mean := sum / float64(len(series))

	var sq float64
	for _, v := range series {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(series)))
}

func lastN(series []float64, n int) []float64 {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

func classify(slope, volatility float64) domain.TrendSignals {
	signals := domain.TrendSignals{
		Bullish:  slope > 0.1,
		Bearish:  slope < -0.1,
		Sideways: math.Abs(slope) <= 0.1,
	}
	switch {
	case volatility > 1:
		signals.VolatilityLevel = domain.VolatilityHigh
	case volatility < 0.3:
		signals.VolatilityLevel = domain.VolatilityLow
	default:
		signals.VolatilityLevel = domain.VolatilityNormal
	}
	return signals
}

// suggestions maps the signal combination to fixed human-readable
// guidance. Deterministic lookup, no analytics.
func suggestions(signals domain.TrendSignals) []string {
	var out []string
	switch {
	case signals.Bullish:
		out = append(out, "Profit trend is rising; current entry criteria are working, consider maintaining position sizes.")
	case signals.Bearish:
		out = append(out, "Profit trend is falling; consider tightening entry criteria or reducing position sizes.")
	default:
		out = append(out, "Profit trend is flat; results are stable, review whether stricter filters could lift the average.")
	}

	switch signals.VolatilityLevel {
	case domain.VolatilityHigh:
		out = append(out, "Result volatility is high; widen stop-losses or reduce exposure per trade.")
	case domain.VolatilityLow:
		out = append(out, "Result volatility is low; outcomes are consistent, there may be room for larger positions.")
	default:
		out = append(out, "Result volatility is within the normal band.")
	}
	return out
}

// topPerformers ranks tokens with at least 3 trades by average profit
// and returns the top 5.
func topPerformers(trades []*domain.TradeRecord) []domain.TokenPerformance {
	byMint := make(map[string]*domain.TokenPerformance)
	for _, t := range trades {
		key := domain.TokenRef{MintAddress: t.TokenMint}.NormalizedMint()
		perf, ok := byMint[key]
		if !ok {
			perf = &domain.TokenPerformance{
				Mint:   t.TokenMint,
				Symbol: t.TokenSymbol,
				Name:   t.TokenName,
			}
			byMint[key] = perf
		}
		perf.Trades++
		if t.Profit > 0 {
			perf.SuccessTrades++
		}
		perf.TotalProfit += t.Profit
		perf.AvgProfit = perf.TotalProfit / float64(perf.Trades)
		perf.AvgHoldingTimeSec = (perf.AvgHoldingTimeSec*float64(perf.Trades-1) + t.HoldingTimeSec) / float64(perf.Trades)
		if t.SellTimestamp > perf.LastTradeTs {
			perf.LastTradeTs = t.SellTimestamp
		}
	}

	var out []domain.TokenPerformance
	for _, perf := range byMint {
		if perf.Trades >= 3 {
			out = append(out, *perf)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AvgProfit > out[j].AvgProfit })
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
