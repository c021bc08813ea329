package domain

import "strings"

// TokenRef identifies a token by its mint address with optional metadata.
// Identity is the mint address, compared case-insensitively. Missing
// Symbol/Name/Decimals can be filled by enrichment, which returns a new
// value and never mutates the original.
type TokenRef struct {
	MintAddress string `json:"mintAddress"`
	Symbol      string `json:"symbol,omitempty"`
	Name        string `json:"name,omitempty"`
	Decimals    *int   `json:"decimals,omitempty"`
	IsTrusted   bool   `json:"isTrusted,omitempty"`
}

// NormalizedMint returns the lower-cased mint address used as map key.
func (t TokenRef) NormalizedMint() string {
	return strings.ToLower(t.MintAddress)
}

// HasMetadata reports whether both name and symbol are present.
func (t TokenRef) HasMetadata() bool {
	return t.Name != "" && t.Symbol != ""
}
