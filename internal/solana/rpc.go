// Package solana provides a minimal JSON-RPC client for the on-chain
// lookups the pipeline needs: token mint accounts, Metaplex metadata
// and pool vault balances.
package solana

import "context"

// RPCClient defines the Solana RPC surface consumed by the pipeline.
type RPCClient interface {
	// GetAccountInfo retrieves account info by public key.
	// Returns nil (no error) when the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetTokenAccountBalance retrieves the balance of an SPL token account.
	GetTokenAccountBalance(ctx context.Context, pubkey string) (*TokenAmount, error)

	// GetTransaction retrieves a confirmed transaction by signature.
	GetTransaction(ctx context.Context, signature string) (*Transaction, error)
}

// AccountInfo represents Solana account information.
type AccountInfo struct {
	Lamports   uint64 `json:"lamports"`
	Owner      string `json:"owner"`
	Data       string `json:"data"` // base64 encoded
	Executable bool   `json:"executable"`
	RentEpoch  uint64 `json:"rentEpoch"`
}

// TokenAmount is an SPL token balance with decimals applied.
type TokenAmount struct {
	Amount   string  `json:"amount"` // raw integer amount as string
	Decimals int     `json:"decimals"`
	UIAmount float64 `json:"uiAmount"`
}

// Transaction represents a confirmed Solana transaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
	Message   *TransactionMessage
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err         interface{}
	LogMessages []string
}

// TransactionMessage contains the parsed transaction message.
type TransactionMessage struct {
	AccountKeys []string
}
