package payment

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockProvider is an in-memory provider for development and tests, mirroring
// how local evidence storage stands in for blob storage. It tracks captured
// balances per reference so refunds and payouts can never exceed the capture.
type MockProvider struct {
	mu       sync.Mutex
	captured map[string]int64 // remaining balance per payment ref
}

func NewMockProvider() *MockProvider {
	return &MockProvider{captured: make(map[string]int64)}
}

func (p *MockProvider) Capture(ctx context.Context, renterID int64, amountCents int64) (string, error) {
	if amountCents <= 0 {
		return "", fmt.Errorf("capture amount must be positive, got %d", amountCents)
	}
	ref := uuid.New().String()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.captured[ref] = amountCents
	return ref, nil
}

func (p *MockProvider) Refund(ctx context.Context, paymentRef string, amountCents int64) error {
	return p.draw(paymentRef, amountCents)
}

func (p *MockProvider) Payout(ctx context.Context, paymentRef string, ownerID int64, amountCents int64) error {
	return p.draw(paymentRef, amountCents)
}

func (p *MockProvider) draw(paymentRef string, amountCents int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	balance, ok := p.captured[paymentRef]
	if !ok {
		return fmt.Errorf("unknown payment reference %s", paymentRef)
	}
	if amountCents > balance {
		return fmt.Errorf("amount %d exceeds remaining balance %d for %s", amountCents, balance, paymentRef)
	}
	p.captured[paymentRef] = balance - amountCents
	return nil
}

// Remaining reports the undistributed balance for a capture (test helper).
func (p *MockProvider) Remaining(paymentRef string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.captured[paymentRef]
}
