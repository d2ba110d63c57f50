package repository

import (
	"context"
	"time"

	"faucetdrop-bot/internal/model"
)

// ClaimStore defines cooldown and throttle state access methods.
// Implementations never call the payout service and have no side effects
// beyond their own storage.
type ClaimStore interface {
	// Get retrieves the claim record for a user. Returns nil, nil if the
	// user has never claimed.
	Get(ctx context.Context, userID int64) (*model.ClaimRecord, error)

	// Put overwrites the claim record for the record's user.
	Put(ctx context.Context, rec *model.ClaimRecord) error

	// RecordAttempt marks the start of the retry-throttle window.
	RecordAttempt(ctx context.Context, userID int64, at time.Time) error

	// LastAttempt returns when the user last started a payout attempt.
	// Returns the zero time if no attempt is recorded.
	LastAttempt(ctx context.Context, userID int64) (time.Time, error)

	// Close closes the store.
	Close() error
}

// HistoryRepository defines the append-only record of successful claims.
type HistoryRepository interface {
	// Append durably appends one entry. A failed append must not corrupt
	// entries already written.
	Append(ctx context.Context, entry model.HistoryEntry) error

	// ReadAll returns all entries in append order. Empty slice if none.
	ReadAll(ctx context.Context) ([]model.HistoryEntry, error)

	// Clear removes all persisted entries. Irreversible.
	Clear(ctx context.Context) error

	// Close closes the repository connection.
	Close() error
}
