package solana

import "context"

// WSClient is the Solana WebSocket subscription surface the pool
// listener consumes.
type WSClient interface {
	// SubscribeLogs subscribes to logs mentioning the given filter.
	SubscribeLogs(ctx context.Context, filter LogsFilter) (<-chan LogNotification, error)

	// Close closes the connection and all subscription channels.
	Close() error
}

// LogsFilter selects which transaction logs to receive.
type LogsFilter struct {
	// Mentions filters to logs mentioning any of these addresses.
	// Empty means all logs.
	Mentions []string
}

// LogNotification is one logsNotification message.
type LogNotification struct {
	Signature string
	Slot      int64
	Logs      []string
	Err       interface{}
}
