package domain

// TradeSummary is a compact reference to a single notable trade.
type TradeSummary struct {
	ID          string  `json:"id"`
	TokenSymbol string  `json:"tokenSymbol,omitempty"`
	Profit      float64 `json:"profit"`
	ProfitPct   float64 `json:"profitPct"`
}

// DailyProfitPoint is one day of aggregated profit in the overview series.
type DailyProfitPoint struct {
	Date   string  `json:"date"` // YYYY-MM-DD (UTC)
	Profit float64 `json:"profit"`
	Trades int     `json:"trades"`
}

// ReportOverview holds ledger-wide statistics for the analysis report.
type ReportOverview struct {
	TotalTrades    int                `json:"totalTrades"`
	OpenTrades     int                `json:"openTrades"`
	ClosedTrades   int                `json:"closedTrades"`
	SuccessRatePct float64            `json:"successRatePct"`
	TotalProfit    float64            `json:"totalProfit"`
	AvgProfit      float64            `json:"avgProfit"`
	BestTrade      *TradeSummary      `json:"bestTrade,omitempty"`
	WorstTrade     *TradeSummary      `json:"worstTrade,omitempty"`
	DailyProfit    []DailyProfitPoint `json:"dailyProfit,omitempty"`
}

// AnalysisReport aggregates the market trend with overview statistics,
// per-token and per-strategy rankings and textual recommendations.
// Recomputed wholesale once per analysis cycle and persisted.
type AnalysisReport struct {
	GeneratedAt      int64                `json:"generatedAt"` // Unix ms
	Trend            *MarketTrend         `json:"trend,omitempty"`
	Overview         ReportOverview       `json:"overview"`
	TokenRankings    []TokenPerformance   `json:"tokenRankings,omitempty"`
	StrategyRankings []StrategyEvaluation `json:"strategyRankings,omitempty"`
	Recommendations  []string             `json:"recommendations,omitempty"`
}
