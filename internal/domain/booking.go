package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending                  BookingStatus = "PENDING"
	BookingStatusApproved                 BookingStatus = "APPROVED"
	BookingStatusAwaitingPickupInspection BookingStatus = "AWAITING_PICKUP_INSPECTION"
	BookingStatusActive                   BookingStatus = "ACTIVE"
	BookingStatusAwaitingReturnInspection BookingStatus = "AWAITING_RETURN_INSPECTION"
	BookingStatusPendingOwnerReview       BookingStatus = "PENDING_OWNER_REVIEW"
	BookingStatusCompleted                BookingStatus = "COMPLETED"
	BookingStatusCancelled                BookingStatus = "CANCELLED"
	BookingStatusDisputed                 BookingStatus = "DISPUTED"
)

// DateHoldingStatuses are the statuses that reserve the equipment's date
// range. A booking in any of these blocks overlapping requests.
var DateHoldingStatuses = []BookingStatus{
	BookingStatusApproved,
	BookingStatusAwaitingPickupInspection,
	BookingStatusActive,
}

// IsTerminal reports whether no further transition may leave this status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type BookingRequest struct {
	ID               int64         `json:"id"`
	EquipmentID      int64         `json:"equipment_id"`
	RenterID         int64         `json:"renter_id"`
	OwnerID          int64         `json:"owner_id"`
	StartDate        time.Time     `json:"start_date"` // calendar date, inclusive
	EndDate          time.Time     `json:"end_date"`   // calendar date, exclusive for overlap purposes
	Status           BookingStatus `json:"status"`
	Insurance        InsuranceType `json:"insurance_type"`
	TotalAmountCents int64         `json:"total_amount_cents"`
	ActivatedAt      *time.Time    `json:"activated_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Days returns the rental duration with the end date exclusive.
func (b *BookingRequest) Days() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}

// DatesOverlap reports whether two half-open date ranges [s1,e1) and [s2,e2)
// intersect. Returning the same day another rental starts is allowed.
func DatesOverlap(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
