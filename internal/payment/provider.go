// Package payment abstracts the external payment provider. The core persists
// only statuses and amounts; card details and webhooks live on the other side
// of this interface.
package payment

import "context"

// Provider exposes the two operations the escrow ledger needs. Both are
// opaque: a capture either succeeds with a reference or fails, and state must
// not change when it fails.
type Provider interface {
	// Capture charges the renter and returns a provider reference for later
	// refunds.
	Capture(ctx context.Context, renterID int64, amountCents int64) (string, error)

	// Refund returns amountCents of a prior capture to the renter.
	Refund(ctx context.Context, paymentRef string, amountCents int64) error

	// Payout releases amountCents of a prior capture to the owner.
	Payout(ctx context.Context, paymentRef string, ownerID int64, amountCents int64) error
}
