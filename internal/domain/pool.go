package domain

// PoolInfo describes a liquidity pool observed by the pool listener.
// Consumed read-only by the opportunity scorer.
type PoolInfo struct {
	Address         string `json:"address"`
	DEX             string `json:"dex"`
	TokenAMint      string `json:"tokenAMint"`
	TokenBMint      string `json:"tokenBMint"`
	TokenASymbol    string `json:"tokenASymbol,omitempty"`
	TokenBSymbol    string `json:"tokenBSymbol,omitempty"`
	TokenAVault     string `json:"tokenAVault,omitempty"`
	TokenBVault     string `json:"tokenBVault,omitempty"`
	FirstDetectedAt int64  `json:"firstDetectedAt"` // Unix timestamp in milliseconds
}
