package solana

// Well-known mints used to identify the quote side of a pool.
const (
	// WSOLMint is the wrapped SOL mint.
	WSOLMint = "So11111111111111111111111111111111111111112"

	// USDCMint is the Circle USDC mint.
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

// IsBaseMint reports whether the mint is one of the quote-side mints
// (wrapped SOL or USDC).
func IsBaseMint(mint string) bool {
	return mint == WSOLMint || mint == USDCMint
}
