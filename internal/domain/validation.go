package domain

// ValidationResult is the verdict produced by the token validator.
// Produced fresh per call, never persisted.
type ValidationResult struct {
	IsValid       bool    `json:"isValid"`
	Reason        string  `json:"reason,omitempty"`
	IsWhitelisted bool    `json:"isWhitelisted,omitempty"`
	IsBlacklisted bool    `json:"isBlacklisted,omitempty"`
	RiskScore     float64 `json:"riskScore"`
}

// Valid builds a passing verdict.
func Valid(riskScore float64) ValidationResult {
	return ValidationResult{IsValid: true, RiskScore: riskScore}
}

// Invalid builds a failing verdict with a structured reason.
func Invalid(reason string, riskScore float64) ValidationResult {
	return ValidationResult{IsValid: false, Reason: reason, RiskScore: riskScore}
}
