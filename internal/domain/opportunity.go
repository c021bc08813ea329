package domain

// Opportunity is a validated, scored trading candidate emitted once per
// detection call. Immutable after creation; consumed exactly once by the
// trade executor.
type Opportunity struct {
	Pool                 PoolInfo `json:"pool"`
	TargetToken          TokenRef `json:"targetToken"`
	BaseToken            TokenRef `json:"baseToken"`
	EstimatedPriceUsd    float64  `json:"estimatedPriceUsd"`
	EstimatedSlippagePct float64  `json:"estimatedSlippagePct"`
	LiquidityUsd         float64  `json:"liquidityUsd"`
	Confidence           float64  `json:"confidence"`    // [0,1]
	PriorityScore        float64  `json:"priorityScore"` // unbounded, ranking only
	Priority             float64  `json:"priority"`      // PriorityScore/100 for [0,1] consumers
	EstimatedOutAmount   float64  `json:"estimatedOutAmount,omitempty"`
	EstimatedProfitPct   float64  `json:"estimatedProfitPct"`
	Timestamp            int64    `json:"timestamp"` // Unix timestamp in milliseconds
}
