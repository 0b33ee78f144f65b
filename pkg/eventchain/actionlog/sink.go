package actionlog

import "errors"

// Sink persists log entries beyond the in-memory bound.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Append stores one entry.
	Append(e Entry) error

	// List returns up to limit stored entries ordered by sequence,
	// oldest first. limit <= 0 returns everything.
	List(limit int) ([]Entry, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for sink operations.
var (
	// ErrSinkClosed indicates the sink has been closed.
	ErrSinkClosed = errors.New("action log sink closed")
)
