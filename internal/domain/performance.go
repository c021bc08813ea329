package domain

// TokenPerformance is the per-mint rollup, updated incrementally on every
// newly closed trade for that mint (running-average update, not recomputed
// from scratch). Invariant: Trades >= SuccessTrades >= 0.
type TokenPerformance struct {
	Mint              string  `json:"mint"`
	Symbol            string  `json:"symbol,omitempty"`
	Name              string  `json:"name,omitempty"`
	Trades            int     `json:"trades"`
	SuccessTrades     int     `json:"successTrades"`
	AvgProfit         float64 `json:"avgProfit"`
	TotalProfit       float64 `json:"totalProfit"`
	AvgHoldingTimeSec float64 `json:"avgHoldingTimeSec"`
	LastTradeTs       int64   `json:"lastTradeTs"` // Unix ms
}

// TradeStatistics is the ledger-wide summary returned by the statistics
// query. Computed from the live ledger on each call.
type TradeStatistics struct {
	TotalTrades       int     `json:"totalTrades"`
	OpenTrades        int     `json:"openTrades"`
	ClosedTrades      int     `json:"closedTrades"`
	SuccessTrades     int     `json:"successTrades"`
	SuccessRatePct    float64 `json:"successRatePct"`
	TotalProfit       float64 `json:"totalProfit"`
	AvgProfit         float64 `json:"avgProfit"`
	AvgHoldingTimeSec float64 `json:"avgHoldingTimeSec"`
}

// StrategyEvaluation is the per-strategy rollup with the same incremental
// update discipline. Raw success counts are not stored; SuccessRatePct is
// maintained with a running percentage formula. RiskReturnRatio is always
// finite: 0 when the underlying division is not (SuccessRatePct == 100).
type StrategyEvaluation struct {
	StrategyID        string  `json:"strategyId"`
	Trades            int     `json:"trades"`
	SuccessRatePct    float64 `json:"successRatePct"`
	AvgProfit         float64 `json:"avgProfit"`
	AvgHoldingTimeSec float64 `json:"avgHoldingTimeSec"`
	RiskReturnRatio   float64 `json:"riskReturnRatio"`
}
