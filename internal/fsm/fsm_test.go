package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gearshare-backend/internal/domain"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct {
		from, to domain.BookingStatus
	}{
		{domain.BookingStatusPending, domain.BookingStatusApproved},
		{domain.BookingStatusPending, domain.BookingStatusCancelled},
		{domain.BookingStatusApproved, domain.BookingStatusAwaitingPickupInspection},
		{domain.BookingStatusApproved, domain.BookingStatusCancelled},
		{domain.BookingStatusAwaitingPickupInspection, domain.BookingStatusActive},
		{domain.BookingStatusAwaitingPickupInspection, domain.BookingStatusCancelled},
		{domain.BookingStatusActive, domain.BookingStatusAwaitingReturnInspection},
		{domain.BookingStatusActive, domain.BookingStatusCancelled},
		{domain.BookingStatusAwaitingReturnInspection, domain.BookingStatusPendingOwnerReview},
		{domain.BookingStatusPendingOwnerReview, domain.BookingStatusCompleted},
		{domain.BookingStatusPendingOwnerReview, domain.BookingStatusDisputed},
		{domain.BookingStatusDisputed, domain.BookingStatusCompleted},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct {
		from, to domain.BookingStatus
	}{
		{domain.BookingStatusPending, domain.BookingStatusActive},
		{domain.BookingStatusPending, domain.BookingStatusCompleted},
		{domain.BookingStatusApproved, domain.BookingStatusActive},
		{domain.BookingStatusAwaitingReturnInspection, domain.BookingStatusCancelled},
		{domain.BookingStatusPendingOwnerReview, domain.BookingStatusCancelled},
		{domain.BookingStatusDisputed, domain.BookingStatusCancelled},
		{domain.BookingStatusCompleted, domain.BookingStatusPending},
		{domain.BookingStatusCancelled, domain.BookingStatusApproved},
		{domain.BookingStatusActive, domain.BookingStatusPendingOwnerReview},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be denied", tc.from, tc.to)
	}
}

func TestTerminalStatuses(t *testing.T) {
	assert.Empty(t, NextStatuses(domain.BookingStatusCompleted))
	assert.Empty(t, NextStatuses(domain.BookingStatusCancelled))
	assert.True(t, domain.BookingStatusCompleted.IsTerminal())
	assert.True(t, domain.BookingStatusCancelled.IsTerminal())
	assert.False(t, domain.BookingStatusDisputed.IsTerminal())
}

func TestUnknownStatus(t *testing.T) {
	assert.False(t, Known(domain.BookingStatus("SHIPPED")))
	assert.False(t, CanTransition(domain.BookingStatus("SHIPPED"), domain.BookingStatusCompleted))
	assert.True(t, Known(domain.BookingStatusPending))
}
