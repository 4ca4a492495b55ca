package repository

import (
	"context"
	"errors"
	"time"

	"gearshare-backend/internal/domain"
)

// Sentinel errors the postgres layer maps low-level failures onto. Services
// translate these into the structured domain error taxonomy.
var (
	ErrNotFound = errors.New("record not found")
	// ErrStaleStatus means an optimistic status-guarded update matched zero
	// rows: a concurrent transition already advanced the booking.
	ErrStaleStatus = errors.New("booking status already advanced")
	// ErrDatesUnavailable means the atomic approval re-check found a
	// conflicting date-holding booking.
	ErrDatesUnavailable = errors.New("dates no longer available")
	// ErrDuplicate maps unique-constraint violations (second inspection of a
	// type, second claim on a booking).
	ErrDuplicate = errors.New("record already exists")
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.BookingRequest) error
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)

	// UpdateStatus flips the booking status only if it still holds the
	// expected one, serializing concurrent transition attempts. activatedAt
	// is persisted when non-nil. Returns ErrStaleStatus on a lost race.
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, activatedAt *time.Time) error

	// ApproveIfAvailable commits PENDING→APPROVED in a single statement that
	// re-checks date-range overlap against every date-holding booking on the
	// same equipment. Returns ErrStaleStatus if the booking left PENDING,
	// ErrDatesUnavailable if a conflicting booking won the race.
	ApproveIfAvailable(ctx context.Context, id int64) error

	// ListHolding returns bookings on the equipment whose status holds a date
	// range and whose [start,end) intersects the given range, excluding
	// excludeID when non-zero.
	ListHolding(ctx context.Context, equipmentID int64, start, end time.Time, excludeID int64) ([]domain.BookingRequest, error)

	ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error)
	ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error)

	// ListExpiredReviews returns bookings sitting in PENDING_OWNER_REVIEW
	// whose claim window has elapsed with no claim filed, as of now.
	ListExpiredReviews(ctx context.Context, now time.Time) ([]domain.BookingRequest, error)
}

type InspectionRepository interface {
	// Create persists a new inspection; a second inspection of the same type
	// for a booking fails with ErrDuplicate.
	Create(ctx context.Context, ins *domain.Inspection) error
	GetByBooking(ctx context.Context, bookingID int64, typ domain.InspectionType) (*domain.Inspection, error)
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Inspection, error)
}

type EscrowRepository interface {
	Create(ctx context.Context, e *domain.EscrowPayment) error
	GetByBooking(ctx context.Context, bookingID int64) (*domain.EscrowPayment, error)
	Update(ctx context.Context, e *domain.EscrowPayment) error

	// ListHeld returns every escrow still in HELD, for reconciliation of
	// settlements interrupted between the status commit and the money legs.
	ListHeld(ctx context.Context) ([]domain.EscrowPayment, error)
}

type ClaimRepository interface {
	// Create persists a new claim; a second claim on the same booking fails
	// with ErrDuplicate.
	Create(ctx context.Context, c *domain.DamageClaim) error
	GetByID(ctx context.Context, id int64) (*domain.DamageClaim, error)
	GetByBooking(ctx context.Context, bookingID int64) (*domain.DamageClaim, error)
	Update(ctx context.Context, c *domain.DamageClaim) error
}

// EquipmentRepository is read-only to this core; listing CRUD is an external
// surface.
type EquipmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
}
