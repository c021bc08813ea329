package domain

// TradeStatus is the lifecycle state of a trade record.
type TradeStatus string

// Trade status constants. A record transitions Open -> Closed exactly once.
const (
	TradeStatusOpen   TradeStatus = "open"
	TradeStatusClosed TradeStatus = "closed"
)

// TradeRecord is one entry in the append-only performance ledger.
// Created on buy with status Open; mutated exactly once on the matching
// sell (status Closed, profit fields populated). Sell-side fields are
// meaningful only when Status == TradeStatusClosed.
type TradeRecord struct {
	ID          string `json:"id"`
	TokenMint   string `json:"tokenMint"`
	TokenSymbol string `json:"tokenSymbol,omitempty"`
	TokenName   string `json:"tokenName,omitempty"`

	// Buy side
	BuyTimestamp int64   `json:"buyTimestamp"` // Unix ms
	BuyPrice     float64 `json:"buyPrice"`
	BuyAmount    float64 `json:"buyAmount"`
	BuyCost      float64 `json:"buyCost"`

	Status TradeStatus `json:"status"`

	// Sell side
	SellTimestamp int64   `json:"sellTimestamp,omitempty"` // Unix ms
	SellPrice     float64 `json:"sellPrice,omitempty"`
	SellAmount    float64 `json:"sellAmount,omitempty"`
	SellProceeds  float64 `json:"sellProceeds,omitempty"`

	// Outcome: Profit = SellProceeds - BuyCost,
	// HoldingTimeSec = (SellTimestamp - BuyTimestamp) / 1000.
	Profit         float64 `json:"profit,omitempty"`
	ProfitPct      float64 `json:"profitPct,omitempty"`
	HoldingTimeSec float64 `json:"holdingTimeSec,omitempty"`

	Strategy           string   `json:"strategy"`
	ExecutionLatencyMs int64    `json:"executionLatencyMs"`
	Reason             string   `json:"reason,omitempty"`
	Notes              []string `json:"notes,omitempty"`
}

// IsClosed reports whether the record has completed its lifecycle.
func (t *TradeRecord) IsClosed() bool {
	return t.Status == TradeStatusClosed
}

// IsSuccess reports whether a closed trade realized positive profit.
func (t *TradeRecord) IsSuccess() bool {
	return t.Status == TradeStatusClosed && t.Profit > 0
}
