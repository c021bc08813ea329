package domain

// Volatility level constants for TrendSignals.VolatilityLevel.
const (
	VolatilityLow    = "low"
	VolatilityNormal = "normal"
	VolatilityHigh   = "high"
)

// TrendSignals classifies the market direction from the trend slope.
// Bullish: slope > 0.1, bearish: slope < -0.1, sideways otherwise.
type TrendSignals struct {
	Bullish         bool   `json:"bullish"`
	Bearish         bool   `json:"bearish"`
	Sideways        bool   `json:"sideways"`
	VolatilityLevel string `json:"volatilityLevel"`
}

// MarketTrend is the output of one analysis cycle, recomputed wholesale
// from all closed trades (not incremental).
type MarketTrend struct {
	PeriodDays     float64            `json:"periodDays"`
	StartTs        int64              `json:"startTs"` // Unix ms
	EndTs          int64              `json:"endTs"`   // Unix ms
	TopPerformers  []TokenPerformance `json:"topPerformers"` // at most 5
	TotalTrades    int                `json:"totalTrades"`
	SuccessRatePct float64            `json:"successRatePct"`
	AvgProfit      float64            `json:"avgProfit"`
	ProfitTrend    []float64          `json:"profitTrend"`
	TradeVolume    []int              `json:"tradeVolume"`
	Volatility     float64            `json:"volatility"`
	Signals        TrendSignals       `json:"signals"`
	Opportunities  []string           `json:"opportunities"`
}
