package domain

type ConflictCode string

const (
	ConflictOverlap     ConflictCode = "overlap"
	ConflictMinimumDays ConflictCode = "minimum_days"
	ConflictMaximumDays ConflictCode = "maximum_days"
)

// ConflictReason is one violated availability rule. A single check may report
// several (an overlap and a duration violation at once).
type ConflictReason struct {
	Code      ConflictCode `json:"code"`
	Message   string       `json:"message"`
	BookingID int64        `json:"booking_id,omitempty"` // set for overlap conflicts
}

// AvailabilityResult is a point-in-time verdict. Approval re-validates
// atomically; a true here does not reserve anything.
type AvailabilityResult struct {
	Available bool             `json:"available"`
	Conflicts []ConflictReason `json:"conflicts,omitempty"`
}

// Booking duration bounds in days.
const (
	MinRentalDays = 1
	MaxRentalDays = 30
)
