package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "PENDING"
	PaymentStatusSucceeded         PaymentStatus = "SUCCEEDED"
	PaymentStatusRefunded          PaymentStatus = "REFUNDED"
	PaymentStatusPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

type EscrowStatus string

const (
	EscrowStatusHeld             EscrowStatus = "HELD"
	EscrowStatusReleasedToOwner  EscrowStatus = "RELEASED_TO_OWNER"
	EscrowStatusRefundedToRenter EscrowStatus = "REFUNDED_TO_RENTER"
	EscrowStatusSplit            EscrowStatus = "SPLIT"
)

// EscrowPayment tracks the money captured for a booking. Amounts are integer
// cents. The escrow only leaves HELD once the booking is COMPLETED, CANCELLED,
// or the claim sub-flow resolved.
type EscrowPayment struct {
	ID              int64         `json:"id"`
	BookingID       int64         `json:"booking_request_id"`
	PaymentRef      string        `json:"payment_ref"` // opaque provider reference
	TotalCents      int64         `json:"total_amount_cents"`
	SubtotalCents   int64         `json:"subtotal_cents"`
	ServiceFeeCents int64         `json:"service_fee_cents"`
	InsuranceCents  int64         `json:"insurance_cents"`
	DepositCents    int64         `json:"deposit_cents"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	EscrowStatus    EscrowStatus  `json:"escrow_status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
