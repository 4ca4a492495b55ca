package domain

import "time"

type EventType string

const (
	EventBookingRequested EventType = "booking_requested"
	EventBookingApproved  EventType = "booking_approved"
	EventBookingCancelled EventType = "booking_cancelled"
	EventPickupSubmitted  EventType = "pickup_submitted"
	EventReturnStarted    EventType = "return_started"
	EventReturnSubmitted  EventType = "return_submitted"
	EventBookingCompleted EventType = "booking_completed"
	EventClaimFiled       EventType = "claim_filed"
	EventClaimResolved    EventType = "claim_resolved"
)

// Event is raised by the state machine on every committed transition. The
// core only emits; delivery (email, push, websockets) is a subscriber concern.
type Event struct {
	ID         string            `json:"id"` // uuid
	Type       EventType         `json:"type"`
	BookingID  int64             `json:"booking_id"`
	ActorID    int64             `json:"actor_id"`
	Status     BookingStatus     `json:"status"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
