package domain

// WhitelistEntry admits a mint unconditionally when whitelist enforcement is on.
type WhitelistEntry struct {
	Mint    string `json:"mint"`
	Symbol  string `json:"symbol,omitempty"`
	Name    string `json:"name,omitempty"`
	Trusted bool   `json:"trusted,omitempty"`
}

// BlacklistEntry rejects a mint unconditionally.
type BlacklistEntry struct {
	Mint   string `json:"mint"`
	Symbol string `json:"symbol,omitempty"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// BlacklistPattern rejects tokens whose name or symbol contains any of the
// configured substrings. Matching is case-insensitive; any single match
// disqualifies the token.
type BlacklistPattern struct {
	NameContains   []string `json:"nameContains,omitempty"`
	SymbolContains []string `json:"symbolContains,omitempty"`
	Reason         string   `json:"reason,omitempty"`
}
