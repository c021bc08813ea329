package analyzer

import (
	"fmt"
	"strings"
	"time"

	"solana-trade-scout/internal/domain"
)

// RenderMarkdown renders an analysis report as a Markdown string.
func RenderMarkdown(r *domain.AnalysisReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Trading Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.UnixMilli(r.GeneratedAt).UTC().Format(time.RFC3339)))

	// Overview
	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.Overview.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Open Trades | %d |\n", r.Overview.OpenTrades))
	sb.WriteString(fmt.Sprintf("| Closed Trades | %d |\n", r.Overview.ClosedTrades))
	sb.WriteString(fmt.Sprintf("| Success Rate | %.1f%% |\n", r.Overview.SuccessRatePct))
	sb.WriteString(fmt.Sprintf("| Total Profit | %.4f |\n", r.Overview.TotalProfit))
	sb.WriteString(fmt.Sprintf("| Avg Profit | %.4f |\n", r.Overview.AvgProfit))
	sb.WriteString("\n")

	if r.Overview.BestTrade != nil {
		sb.WriteString(fmt.Sprintf("Best trade: %s %+.4f (%+.1f%%)\n", r.Overview.BestTrade.TokenSymbol, r.Overview.BestTrade.Profit, r.Overview.BestTrade.ProfitPct))
	}
	if r.Overview.WorstTrade != nil {
		sb.WriteString(fmt.Sprintf("Worst trade: %s %+.4f (%+.1f%%)\n", r.Overview.WorstTrade.TokenSymbol, r.Overview.WorstTrade.Profit, r.Overview.WorstTrade.ProfitPct))
	}
	sb.WriteString("\n")

	// Market trend
	if r.Trend != nil {
		sb.WriteString("## Market Trend\n\n")
		sb.WriteString(fmt.Sprintf("Period: %.1f days | Trades: %d | Success rate: %.1f%% | Volatility: %.4f (%s)\n\n",
			r.Trend.PeriodDays, r.Trend.TotalTrades, r.Trend.SuccessRatePct, r.Trend.Volatility, r.Trend.Signals.VolatilityLevel))
		sb.WriteString(fmt.Sprintf("Direction: %s\n\n", direction(r.Trend.Signals)))

		if len(r.Trend.Opportunities) > 0 {
			for _, o := range r.Trend.Opportunities {
				sb.WriteString(fmt.Sprintf("- %s\n", o))
			}
			sb.WriteString("\n")
		}

		if len(r.Trend.TopPerformers) > 0 {
			sb.WriteString("### Top Performers\n\n")
			sb.WriteString("| Token | Trades | Success | Avg Profit | Total Profit |\n")
			sb.WriteString("|-------|--------|---------|------------|--------------|\n")
			for _, p := range r.Trend.TopPerformers {
				sb.WriteString(fmt.Sprintf("| %s | %d | %d | %.4f | %.4f |\n",
					tokenLabel(p), p.Trades, p.SuccessTrades, p.AvgProfit, p.TotalProfit))
			}
			sb.WriteString("\n")
		}
	}

	// Daily profit
	if len(r.Overview.DailyProfit) > 0 {
		sb.WriteString("## Daily Profit\n\n")
		sb.WriteString("| Date | Profit | Trades |\n")
		sb.WriteString("|------|--------|--------|\n")
		for _, d := range r.Overview.DailyProfit {
			sb.WriteString(fmt.Sprintf("| %s | %+.4f | %d |\n", d.Date, d.Profit, d.Trades))
		}
		sb.WriteString("\n")
	}

	// Strategy rankings
	sb.WriteString("## Strategies\n\n")
	if len(r.StrategyRankings) > 0 {
		sb.WriteString("| Strategy | Trades | Success Rate | Avg Profit | Risk/Return |\n")
		sb.WriteString("|----------|--------|--------------|------------|-------------|\n")
		for _, s := range r.StrategyRankings {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.1f%% | %.4f | %.4f |\n",
				s.StrategyID, s.Trades, s.SuccessRatePct, s.AvgProfit, s.RiskReturnRatio))
		}
	} else {
		sb.WriteString("No strategy data available.\n")
	}
	sb.WriteString("\n")

	// Recommendations
	if len(r.Recommendations) > 0 {
		sb.WriteString("## Recommendations\n\n")
		for _, rec := range r.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func direction(s domain.TrendSignals) string {
	switch {
	case s.Bullish:
		return "bullish"
	case s.Bearish:
		return "bearish"
	default:
		return "sideways"
	}
}
