// Package fsm defines the booking lifecycle graph. The transition table is
// the single source of truth for which status changes are legal; guards and
// side effects live in the booking service, persistence of the optimistic
// status swap lives in the repository.
package fsm

import (
	"gearshare-backend/internal/domain"
)

var transitions = map[domain.BookingStatus]map[domain.BookingStatus]struct{}{
	domain.BookingStatusPending: {
		domain.BookingStatusApproved:  {},
		domain.BookingStatusCancelled: {},
	},
	domain.BookingStatusApproved: {
		domain.BookingStatusAwaitingPickupInspection: {},
		domain.BookingStatusCancelled:                {},
	},
	domain.BookingStatusAwaitingPickupInspection: {
		domain.BookingStatusActive:    {},
		domain.BookingStatusCancelled: {},
	},
	domain.BookingStatusActive: {
		domain.BookingStatusAwaitingReturnInspection: {},
		// Cancellation from ACTIVE is additionally policy-guarded: it is only
		// legal while no pickup inspection exists, which the service checks.
		domain.BookingStatusCancelled: {},
	},
	domain.BookingStatusAwaitingReturnInspection: {
		domain.BookingStatusPendingOwnerReview: {},
	},
	domain.BookingStatusPendingOwnerReview: {
		domain.BookingStatusCompleted: {},
		domain.BookingStatusDisputed:  {},
	},
	domain.BookingStatusDisputed: {
		domain.BookingStatusCompleted: {},
	},
	domain.BookingStatusCompleted: {},
	domain.BookingStatusCancelled: {},
}

// CanTransition reports whether the lifecycle graph allows moving from one
// status to another.
func CanTransition(from, to domain.BookingStatus) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// NextStatuses returns the statuses reachable from the given one.
func NextStatuses(from domain.BookingStatus) []domain.BookingStatus {
	allowed := transitions[from]
	out := make([]domain.BookingStatus, 0, len(allowed))
	for s := range allowed {
		out = append(out, s)
	}
	return out
}

// Known reports whether the status appears in the lifecycle graph at all.
func Known(s domain.BookingStatus) bool {
	_, ok := transitions[s]
	return ok
}
