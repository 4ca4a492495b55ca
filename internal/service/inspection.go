package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/repository"
	"gearshare-backend/internal/utils"
)

// MinInspectionPhotos is the evidence floor for either inspection type.
const MinInspectionPhotos = 3

type inspectionService struct {
	bookingRepo   repository.BookingRepository
	inspRepo      repository.InspectionRepository
	equipmentRepo repository.EquipmentRepository
	userRepo      repository.UserRepository
	emailSvc      EmailService
	notifier      *notifier
	now           func() time.Time
}

func NewInspectionService(
	bookingRepo repository.BookingRepository,
	inspRepo repository.InspectionRepository,
	equipmentRepo repository.EquipmentRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
) InspectionService {
	return &inspectionService{
		bookingRepo:   bookingRepo,
		inspRepo:      inspRepo,
		equipmentRepo: equipmentRepo,
		userRepo:      userRepo,
		emailSvc:      emailSvc,
		notifier:      newNotifier(noteRepo),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func validateSubmission(sub InspectionSubmission) error {
	if len(sub.PhotoRefs) < MinInspectionPhotos {
		return domain.NewValidationError(fmt.Sprintf("at least %d photos are required, got %d", MinInspectionPhotos, len(sub.PhotoRefs)))
	}
	if len(sub.Checklist) == 0 {
		return domain.NewValidationError("at least one checklist item is required")
	}
	for _, item := range sub.Checklist {
		if item.ItemName == "" {
			return domain.NewValidationError("checklist item name must not be empty")
		}
		if item.Status.Rank() == 0 {
			return domain.NewValidationError(fmt.Sprintf("unknown condition status %q for item %q", item.Status, item.ItemName))
		}
	}
	if !sub.Confirmed {
		return domain.NewValidationError("inspection must be explicitly confirmed by the renter")
	}
	return nil
}

func (s *inspectionService) SubmitInspection(ctx context.Context, renterID, bookingID int64, typ domain.InspectionType, sub InspectionSubmission) (*domain.Inspection, error) {
	logger.EnterMethod("SubmitInspection", "renter_id", renterID, "booking_id", bookingID, "type", typ)

	if typ != domain.InspectionTypePickup && typ != domain.InspectionTypeReturn {
		return nil, domain.NewValidationError(fmt.Sprintf("unknown inspection type %q", typ))
	}
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}
	if b.RenterID != renterID {
		return nil, domain.NewPolicyViolation(bookingID, "not_renter", "only the renter may submit inspections")
	}

	var expected domain.BookingStatus
	var action string
	switch typ {
	case domain.InspectionTypePickup:
		expected, action = domain.BookingStatusAwaitingPickupInspection, "submit pickup inspection"
	case domain.InspectionTypeReturn:
		expected, action = domain.BookingStatusAwaitingReturnInspection, "submit return inspection"
	}
	if b.Status != expected {
		return nil, domain.NewInvalidTransition(bookingID, b.Status, action)
	}

	ins := &domain.Inspection{
		BookingID:        bookingID,
		Type:             typ,
		PhotoRefs:        sub.PhotoRefs,
		Checklist:        sub.Checklist,
		ConditionNotes:   sub.ConditionNotes,
		VerifiedByRenter: true,
		Geolocation:      sub.Geolocation,
		Timestamp:        s.now(),
	}
	if err := s.inspRepo.Create(ctx, ins); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.NewPolicyViolation(bookingID, "inspection_exists",
				fmt.Sprintf("a %s inspection was already submitted for this booking", typ))
		}
		return nil, err
	}

	// The inspection record is immutable evidence; the status swap after it is
	// optimistic, so a concurrent transition surfaces as a lost race here.
	switch typ {
	case domain.InspectionTypePickup:
		activatedAt := ins.Timestamp
		err = s.bookingRepo.UpdateStatus(ctx, bookingID, expected, domain.BookingStatusActive, &activatedAt)
	case domain.InspectionTypeReturn:
		err = s.bookingRepo.UpdateStatus(ctx, bookingID, expected, domain.BookingStatusPendingOwnerReview, nil)
	}
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			current, rerr := s.bookingRepo.GetByID(ctx, bookingID)
			if rerr != nil {
				return nil, rerr
			}
			return nil, domain.NewInvalidTransition(bookingID, current.Status, action)
		}
		return nil, err
	}

	b, err = s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	owner, _ := s.userRepo.GetByID(ctx, b.OwnerID)
	switch typ {
	case domain.InspectionTypePickup:
		s.notifier.publish(ctx, domain.EventPickupSubmitted, b, renterID, b.OwnerID,
			"Rental Active",
			fmt.Sprintf("The pickup inspection for booking %d was submitted. The rental is now active.", b.ID))
	case domain.InspectionTypeReturn:
		if eq != nil && owner != nil {
			_ = s.emailSvc.SendReturnSubmittedNotification(ctx, owner.Email, eq.Name, eq.ClaimWindowHours())
		}
		s.notifier.publish(ctx, domain.EventReturnSubmitted, b, renterID, b.OwnerID,
			"Return Inspection Submitted",
			fmt.Sprintf("The return inspection for booking %d is in. Review it or file a claim before the window closes.", b.ID))
	}

	return ins, nil
}

func (s *inspectionService) GetComparison(ctx context.Context, userID, bookingID int64) (*domain.ComparisonReport, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.NewPolicyViolation(bookingID, "not_a_party", "only the renter or owner may view the comparison")
	}

	pickup, err := s.inspRepo.GetByBooking(ctx, bookingID, domain.InspectionTypePickup)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError("no pickup inspection on file")
		}
		return nil, err
	}
	ret, err := s.inspRepo.GetByBooking(ctx, bookingID, domain.InspectionTypeReturn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError("no return inspection on file")
		}
		return nil, err
	}

	report := utils.CompareInspections(pickup, ret)
	return &report, nil
}

func (s *inspectionService) ListInspections(ctx context.Context, userID, bookingID int64) ([]domain.Inspection, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.NewPolicyViolation(bookingID, "not_a_party", "only the renter or owner may view inspections")
	}
	return s.inspRepo.ListByBooking(ctx, bookingID)
}
