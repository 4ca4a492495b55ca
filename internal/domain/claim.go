package domain

import "time"

type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "PENDING"
	ClaimStatusDisputed ClaimStatus = "DISPUTED"
	ClaimStatusResolved ClaimStatus = "RESOLVED"
	ClaimStatusRejected ClaimStatus = "REJECTED"
)

// DamageClaim is filed by the owner against a submitted return inspection,
// only while the claim window is open, at most once per booking.
type DamageClaim struct {
	ID                 int64       `json:"id"`
	BookingID          int64       `json:"booking_id"`
	FiledBy            int64       `json:"filed_by"`
	DamageDescription  string      `json:"damage_description"`
	EstimatedCostCents int64       `json:"estimated_cost_cents"`
	EvidencePhotoRefs  []string    `json:"evidence_photo_refs"`
	RepairQuotes       []string    `json:"repair_quotes"`
	Status             ClaimStatus `json:"status"`
	// DeductionCents is set on resolution and capped at the booking deposit.
	DeductionCents int64      `json:"deduction_cents"`
	FiledAt        time.Time  `json:"filed_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}
