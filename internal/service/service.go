package service

import (
	"context"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/utils"
)

type AvailabilityService interface {
	// CheckAvailability returns a point-in-time verdict for the equipment and
	// date range. Rule violations come back as structured conflicts, not
	// errors; an error means the check itself could not run.
	CheckAvailability(ctx context.Context, equipmentID int64, start, end time.Time, excludeBookingID int64) (*domain.AvailabilityResult, error)
}

type BookingService interface {
	CreateBookingRequest(ctx context.Context, renterID, equipmentID int64, start, end time.Time, insurance domain.InsuranceType) (*domain.BookingRequest, *utils.BookingCostBreakdown, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*domain.BookingRequest, error)
	ApproveBooking(ctx context.Context, ownerID, bookingID int64) (*domain.BookingRequest, error)
	CancelBooking(ctx context.Context, userID, bookingID int64, reason string) (*domain.BookingRequest, error)
	InitiateReturn(ctx context.Context, userID, bookingID int64) (*domain.BookingRequest, error)
	ConfirmReturn(ctx context.Context, ownerID, bookingID int64) (*domain.BookingRequest, error)
	ListBookings(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error)
	ListLendings(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error)

	// ExpireClaimWindows completes every booking whose owner-review window has
	// elapsed with no claim filed. Idempotent; returns how many it completed.
	ExpireClaimWindows(ctx context.Context, now time.Time) (int, error)

	// ReconcileEscrows retries the money legs for escrows left HELD after
	// their booking already reached a settled status, recovering settlements
	// interrupted by a payment-provider fault. Idempotent; returns how many
	// escrows it settled.
	ReconcileEscrows(ctx context.Context) (int, error)
}

// InspectionSubmission is the renter's evidence package for a pickup or
// return inspection.
type InspectionSubmission struct {
	PhotoRefs      []string
	Checklist      []domain.ChecklistItem
	ConditionNotes string
	Geolocation    string
	// Confirmed is the renter's explicit sign-off; submissions without it are
	// rejected.
	Confirmed bool
}

type InspectionService interface {
	SubmitInspection(ctx context.Context, renterID, bookingID int64, typ domain.InspectionType, sub InspectionSubmission) (*domain.Inspection, error)
	GetComparison(ctx context.Context, userID, bookingID int64) (*domain.ComparisonReport, error)
	ListInspections(ctx context.Context, userID, bookingID int64) ([]domain.Inspection, error)
}

// ClaimInput is what the owner files against a return inspection.
type ClaimInput struct {
	DamageDescription  string
	EstimatedCostCents int64
	EvidencePhotoRefs  []string
	RepairQuotes       []string
}

// ClaimResolution settles a filed claim. Resolution is RESOLVED (deduction
// applies, capped at the deposit), REJECTED (full deposit refund), or
// DISPUTED (escalated; funds stay held).
type ClaimResolution struct {
	Resolution     domain.ClaimStatus
	DeductionCents int64
}

type ClaimService interface {
	FileClaim(ctx context.Context, ownerID, bookingID int64, in ClaimInput) (*domain.DamageClaim, error)
	GetClaim(ctx context.Context, userID, claimID int64) (*domain.DamageClaim, error)
	ResolveClaim(ctx context.Context, actorID, claimID int64, res ClaimResolution) (*domain.DamageClaim, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentName string, days int) error
	SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentName string, totalCents int64) error
	SendBookingCancellationNotification(ctx context.Context, email, equipmentName, reason string) error
	SendReturnStartedNotification(ctx context.Context, ownerEmail, renterName, equipmentName string) error
	SendReturnSubmittedNotification(ctx context.Context, ownerEmail, equipmentName string, windowHours int) error
	SendBookingCompletionNotification(ctx context.Context, email, role, equipmentName string, amountCents int64) error
	SendClaimFiledNotification(ctx context.Context, renterEmail, equipmentName string, estimatedCents int64) error
	SendClaimResolvedNotification(ctx context.Context, email, equipmentName string, resolution string, deductionCents int64) error
	SendReturnReminderNotification(ctx context.Context, renterEmail, equipmentName string, endDate time.Time) error
}
