package domain

import "time"

type InspectionType string

const (
	InspectionTypePickup InspectionType = "PICKUP"
	InspectionTypeReturn InspectionType = "RETURN"
)

type ConditionStatus string

const (
	ConditionGood    ConditionStatus = "GOOD"
	ConditionFair    ConditionStatus = "FAIR"
	ConditionDamaged ConditionStatus = "DAMAGED"
)

// Rank maps a condition to its ordinal value for degradation comparison.
// Higher is better.
func (c ConditionStatus) Rank() int {
	switch c {
	case ConditionGood:
		return 3
	case ConditionFair:
		return 2
	case ConditionDamaged:
		return 1
	default:
		return 0
	}
}

type ChecklistItem struct {
	ItemName string          `json:"item_name"`
	Status   ConditionStatus `json:"status"`
	Notes    string          `json:"notes,omitempty"`
}

// Inspection is an immutable evidence record. Corrections happen through the
// damage-claim sub-flow, never by editing an existing record.
type Inspection struct {
	ID               int64           `json:"id"`
	BookingID        int64           `json:"booking_id"`
	Type             InspectionType  `json:"inspection_type"`
	PhotoRefs        []string        `json:"photo_refs"` // opaque evidence-storage references
	Checklist        []ChecklistItem `json:"checklist_items"`
	ConditionNotes   string          `json:"condition_notes"`
	VerifiedByOwner  bool            `json:"verified_by_owner"`
	VerifiedByRenter bool            `json:"verified_by_renter"`
	Geolocation      string          `json:"geolocation,omitempty"`
	Timestamp        time.Time       `json:"timestamp"`
}

// DegradedItem records one checklist item whose condition worsened between
// pickup and return.
type DegradedItem struct {
	Name string          `json:"name"`
	From ConditionStatus `json:"from"`
	To   ConditionStatus `json:"to"`
}

// ComparisonReport is the output of comparing a pickup inspection against a
// return inspection.
type ComparisonReport struct {
	Degraded bool           `json:"degraded"`
	Items    []DegradedItem `json:"items"`
}
