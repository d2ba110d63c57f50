package payout

import (
	"context"

	"faucetdrop-bot/internal/model"
)

// Client defines the outbound payout call. Implementations make at most one
// request per Send; retry policy belongs to the caller, never the client,
// because a blind retry could double-pay.
type Client interface {
	// Send transfers the configured amount to the destination email and
	// returns the normalized result. Send never returns an error: every
	// failure mode is a PayoutResult variant the caller must handle.
	Send(ctx context.Context, toEmail string) model.PayoutResult
}
