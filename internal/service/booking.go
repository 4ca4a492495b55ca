package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/fsm"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/payment"
	"gearshare-backend/internal/repository"
	"gearshare-backend/internal/utils"
)

type bookingService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
	escrowRepo    repository.EscrowRepository
	claimRepo     repository.ClaimRepository
	inspRepo      repository.InspectionRepository
	userRepo      repository.UserRepository
	availability  AvailabilityService
	payments      payment.Provider
	emailSvc      EmailService
	notifier      *notifier
	// ownerFeeShare is the percentage of the service fee paid out to the owner
	// on completion.
	ownerFeeShare int64
	now           func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	equipmentRepo repository.EquipmentRepository,
	escrowRepo repository.EscrowRepository,
	claimRepo repository.ClaimRepository,
	inspRepo repository.InspectionRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	availability AvailabilityService,
	payments payment.Provider,
	emailSvc EmailService,
	ownerFeeSharePercent int64,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		escrowRepo:    escrowRepo,
		claimRepo:     claimRepo,
		inspRepo:      inspRepo,
		userRepo:      userRepo,
		availability:  availability,
		payments:      payments,
		emailSvc:      emailSvc,
		notifier:      newNotifier(noteRepo),
		ownerFeeShare: ownerFeeSharePercent,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookingService) CreateBookingRequest(ctx context.Context, renterID, equipmentID int64, start, end time.Time, insurance domain.InsuranceType) (*domain.BookingRequest, *utils.BookingCostBreakdown, error) {
	logger.EnterMethod("CreateBookingRequest", "renter_id", renterID, "equipment_id", equipmentID)

	eq, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, domain.NewValidationError(fmt.Sprintf("equipment %d not found", equipmentID))
		}
		return nil, nil, err
	}
	if eq.OwnerID == renterID {
		return nil, nil, domain.NewPolicyViolation(0, "own_equipment", "cannot book your own equipment")
	}

	avail, err := s.availability.CheckAvailability(ctx, equipmentID, start, end, 0)
	if err != nil {
		return nil, nil, err
	}
	if !avail.Available {
		derr := domain.NewConflictError("requested dates are not available", 0)
		derr.Conflicts = avail.Conflicts
		return nil, nil, derr
	}

	deposit := utils.ComputeDeposit(eq)
	breakdown, err := utils.ComputeBookingTotal(eq, start, end, insurance, deposit)
	if err != nil {
		return nil, nil, domain.NewValidationError(err.Error())
	}

	booking := &domain.BookingRequest{
		EquipmentID:      equipmentID,
		RenterID:         renterID,
		OwnerID:          eq.OwnerID,
		StartDate:        start,
		EndDate:          end,
		Status:           domain.BookingStatusPending,
		Insurance:        insurance,
		TotalAmountCents: breakdown.TotalCents,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, nil, err
	}

	renter, _ := s.userRepo.GetByID(ctx, renterID)
	owner, _ := s.userRepo.GetByID(ctx, eq.OwnerID)
	if renter != nil && owner != nil {
		_ = s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, renter.Name, eq.Name, breakdown.Days)
	}
	s.notifier.publish(ctx, domain.EventBookingRequested, booking, renterID, eq.OwnerID,
		"New Booking Request",
		fmt.Sprintf("New request for %s, %s to %s", eq.Name, start.Format("2006-01-02"), end.Format("2006-01-02")))

	return booking, &breakdown, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*domain.BookingRequest, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.NewPolicyViolation(bookingID, "not_a_party", "only the renter or owner may view this booking")
	}

	// Reads settle an elapsed claim window on the spot so callers never see a
	// stale PENDING_OWNER_REVIEW.
	if b.Status == domain.BookingStatusPendingOwnerReview {
		expired, err := s.expireIfWindowElapsed(ctx, b)
		if err != nil {
			logger.ErrorContext(ctx, "lazy claim-window expiry failed", "booking_id", b.ID, "error", err)
		} else if expired {
			return s.bookingRepo.GetByID(ctx, bookingID)
		}
	}
	return b, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, ownerID, bookingID int64) (*domain.BookingRequest, error) {
	logger.EnterMethod("ApproveBooking", "owner_id", ownerID, "booking_id", bookingID)

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, domain.NewPolicyViolation(bookingID, "not_owner", "only the equipment owner may approve")
	}
	if !fsm.CanTransition(b.Status, domain.BookingStatusApproved) {
		return nil, domain.NewInvalidTransition(bookingID, b.Status, "approve")
	}

	// Cheap pre-check so an obviously lost race fails before any money moves.
	avail, err := s.availability.CheckAvailability(ctx, b.EquipmentID, b.StartDate, b.EndDate, b.ID)
	if err != nil {
		return nil, err
	}
	if !avail.Available {
		derr := domain.NewConflictError("dates are no longer available", bookingID)
		derr.Conflicts = avail.Conflicts
		return nil, derr
	}

	eq, err := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	if err != nil {
		return nil, err
	}
	deposit := utils.ComputeDeposit(eq)
	breakdown, err := utils.ComputeBookingTotal(eq, b.StartDate, b.EndDate, b.Insurance, deposit)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	// Capture before committing the approval: a booking never reaches APPROVED
	// unless its payment succeeded. The capture is compensated with a refund
	// if the atomic re-check loses the race.
	paymentRef, err := s.payments.Capture(ctx, b.RenterID, breakdown.TotalCents)
	if err != nil {
		return nil, domain.NewUpstreamFailure("payment capture failed", err)
	}

	if err := s.bookingRepo.ApproveIfAvailable(ctx, bookingID); err != nil {
		s.refundCapture(ctx, paymentRef, breakdown.TotalCents, bookingID)
		switch {
		case errors.Is(err, repository.ErrDatesUnavailable):
			return nil, domain.NewConflictError("dates are no longer available", bookingID)
		case errors.Is(err, repository.ErrStaleStatus):
			current, rerr := s.bookingRepo.GetByID(ctx, bookingID)
			if rerr != nil {
				return nil, rerr
			}
			return nil, domain.NewInvalidTransition(bookingID, current.Status, "approve")
		default:
			return nil, err
		}
	}

	escrow := &domain.EscrowPayment{
		BookingID:       bookingID,
		PaymentRef:      paymentRef,
		TotalCents:      breakdown.TotalCents,
		SubtotalCents:   breakdown.SubtotalCents,
		ServiceFeeCents: breakdown.ServiceFeeCents,
		InsuranceCents:  breakdown.InsuranceCents,
		DepositCents:    breakdown.DepositCents,
		PaymentStatus:   domain.PaymentStatusSucceeded,
		EscrowStatus:    domain.EscrowStatusHeld,
	}
	if err := s.escrowRepo.Create(ctx, escrow); err != nil {
		// Roll everything back: money and status both return to where they
		// were before the call.
		s.refundCapture(ctx, paymentRef, breakdown.TotalCents, bookingID)
		if uerr := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusApproved, domain.BookingStatusCancelled, nil); uerr != nil {
			logger.ErrorContext(ctx, "failed to cancel booking after escrow create failure", "booking_id", bookingID, "error", uerr)
		}
		return nil, domain.NewUpstreamFailure("failed to record escrow", err)
	}

	// The paid approval immediately enters the pickup sub-phase; both statuses
	// hold the date range.
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusApproved, domain.BookingStatusAwaitingPickupInspection, nil); err != nil {
		return nil, err
	}

	b, err = s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	if renter != nil {
		_ = s.emailSvc.SendBookingApprovalNotification(ctx, renter.Email, eq.Name, breakdown.TotalCents)
	}
	s.notifier.publish(ctx, domain.EventBookingApproved, b, ownerID, b.RenterID,
		"Booking Approved",
		fmt.Sprintf("Your booking for %s was approved and paid. Submit the pickup inspection to start the rental.", eq.Name))

	return b, nil
}

// refundCapture compensates a capture whose booking could not be committed.
// Failures are logged for manual reconciliation; there is no state to unwind.
func (s *bookingService) refundCapture(ctx context.Context, paymentRef string, amountCents, bookingID int64) {
	if err := s.payments.Refund(ctx, paymentRef, amountCents); err != nil {
		logger.ErrorContext(ctx, "compensating refund failed",
			"booking_id", bookingID, "payment_ref", paymentRef, "amount_cents", amountCents, "error", err)
	}
}

func (s *bookingService) CancelBooking(ctx context.Context, userID, bookingID int64, reason string) (*domain.BookingRequest, error) {
	logger.EnterMethod("CancelBooking", "user_id", userID, "booking_id", bookingID)

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.NewPolicyViolation(bookingID, "not_a_party", "only the renter or owner may cancel")
	}
	if !fsm.CanTransition(b.Status, domain.BookingStatusCancelled) {
		return nil, domain.NewInvalidTransition(bookingID, b.Status, "cancel")
	}

	// Once the renter documented pickup the equipment changed hands; the
	// booking must run through the return flow instead.
	if b.Status == domain.BookingStatusActive || b.Status == domain.BookingStatusAwaitingPickupInspection {
		if _, ierr := s.inspRepo.GetByBooking(ctx, bookingID, domain.InspectionTypePickup); ierr == nil {
			return nil, domain.NewPolicyViolation(bookingID, "pickup_documented", "cannot cancel after the pickup inspection was submitted")
		} else if !errors.Is(ierr, repository.ErrNotFound) {
			return nil, ierr
		}
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, b.Status, domain.BookingStatusCancelled, nil); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			current, rerr := s.bookingRepo.GetByID(ctx, bookingID)
			if rerr != nil {
				return nil, rerr
			}
			return nil, domain.NewInvalidTransition(bookingID, current.Status, "cancel")
		}
		return nil, err
	}

	if err := s.refundEscrow(ctx, bookingID); err != nil {
		return nil, err
	}

	b, err = s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	counterpart := b.OwnerID
	if userID == b.OwnerID {
		counterpart = b.RenterID
	}
	other, _ := s.userRepo.GetByID(ctx, counterpart)
	if other != nil && eq != nil {
		_ = s.emailSvc.SendBookingCancellationNotification(ctx, other.Email, eq.Name, reason)
	}
	s.notifier.publish(ctx, domain.EventBookingCancelled, b, userID, counterpart,
		"Booking Cancelled",
		fmt.Sprintf("Booking %d was cancelled. Any payment is refunded in full.", b.ID))

	return b, nil
}

// refundEscrow returns the full captured amount to the renter. No-op when no
// escrow exists or it already left HELD.
func (s *bookingService) refundEscrow(ctx context.Context, bookingID int64) error {
	esc, err := s.escrowRepo.GetByBooking(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if esc.EscrowStatus != domain.EscrowStatusHeld {
		return nil
	}
	if err := s.payments.Refund(ctx, esc.PaymentRef, esc.TotalCents); err != nil {
		return domain.NewUpstreamFailure("refund failed", err)
	}
	esc.PaymentStatus = domain.PaymentStatusRefunded
	esc.EscrowStatus = domain.EscrowStatusRefundedToRenter
	return s.escrowRepo.Update(ctx, esc)
}

func (s *bookingService) InitiateReturn(ctx context.Context, userID, bookingID int64) (*domain.BookingRequest, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.NewPolicyViolation(bookingID, "not_a_party", "only the renter or owner may initiate a return")
	}
	if !fsm.CanTransition(b.Status, domain.BookingStatusAwaitingReturnInspection) {
		return nil, domain.NewInvalidTransition(bookingID, b.Status, "initiate return")
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, b.Status, domain.BookingStatusAwaitingReturnInspection, nil); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			current, rerr := s.bookingRepo.GetByID(ctx, bookingID)
			if rerr != nil {
				return nil, rerr
			}
			return nil, domain.NewInvalidTransition(bookingID, current.Status, "initiate return")
		}
		return nil, err
	}

	b, err = s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, b.OwnerID)
	if eq != nil && renter != nil && owner != nil {
		_ = s.emailSvc.SendReturnStartedNotification(ctx, owner.Email, renter.Name, eq.Name)
	}
	s.notifier.publish(ctx, domain.EventReturnStarted, b, userID, b.OwnerID,
		"Return Started",
		fmt.Sprintf("The return of booking %d has started. Awaiting the renter's return inspection.", b.ID))

	return b, nil
}

func (s *bookingService) ConfirmReturn(ctx context.Context, ownerID, bookingID int64) (*domain.BookingRequest, error) {
	logger.EnterMethod("ConfirmReturn", "owner_id", ownerID, "booking_id", bookingID)

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, domain.NewPolicyViolation(bookingID, "not_owner", "only the equipment owner may confirm the return")
	}
	if b.Status != domain.BookingStatusPendingOwnerReview {
		return nil, domain.NewInvalidTransition(bookingID, b.Status, "confirm return")
	}

	if err := s.completeReview(ctx, b, ownerID, 0); err != nil {
		return nil, err
	}
	return s.bookingRepo.GetByID(ctx, bookingID)
}

// completeReview routes a PENDING_OWNER_REVIEW booking to COMPLETED and
// releases the escrow. The status swap is the serialization point: a
// concurrent claim filing or duplicate confirm loses with InvalidTransition.
func (s *bookingService) completeReview(ctx context.Context, b *domain.BookingRequest, actorID int64, deductionCents int64) error {
	if err := s.bookingRepo.UpdateStatus(ctx, b.ID, domain.BookingStatusPendingOwnerReview, domain.BookingStatusCompleted, nil); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			current, rerr := s.bookingRepo.GetByID(ctx, b.ID)
			if rerr != nil {
				return rerr
			}
			return domain.NewInvalidTransition(b.ID, current.Status, "complete")
		}
		return err
	}
	b.Status = domain.BookingStatusCompleted

	if err := s.settleEscrow(ctx, b, deductionCents); err != nil {
		return err
	}

	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, b.OwnerID)
	if eq != nil && renter != nil && owner != nil {
		esc, eerr := s.escrowRepo.GetByBooking(ctx, b.ID)
		if eerr == nil {
			rel := utils.ComputeRelease(esc, deductionCents, s.ownerFeeShare)
			_ = s.emailSvc.SendBookingCompletionNotification(ctx, owner.Email, "owner", eq.Name, rel.OwnerPayoutCents)
			_ = s.emailSvc.SendBookingCompletionNotification(ctx, renter.Email, "renter", eq.Name, rel.RenterRefundCents)
		}
	}
	s.notifier.publish(ctx, domain.EventBookingCompleted, b, actorID, b.RenterID,
		"Booking Completed",
		fmt.Sprintf("Booking %d is complete. Escrowed funds have been released.", b.ID))
	return nil
}

func (s *bookingService) settleEscrow(ctx context.Context, b *domain.BookingRequest, deductionCents int64) error {
	return releaseHeldEscrow(ctx, s.escrowRepo, s.payments, b, deductionCents, s.ownerFeeShare)
}

// releaseHeldEscrow releases held funds per the completion split. Idempotent:
// a settled escrow is left alone, and the row only leaves HELD once both
// provider legs succeeded, so a failed attempt can be retried.
func releaseHeldEscrow(ctx context.Context, escrowRepo repository.EscrowRepository, payments payment.Provider, b *domain.BookingRequest, deductionCents, ownerFeeShare int64) error {
	esc, err := escrowRepo.GetByBooking(ctx, b.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if esc.EscrowStatus != domain.EscrowStatusHeld {
		return nil
	}

	rel := utils.ComputeRelease(esc, deductionCents, ownerFeeShare)
	if rel.RenterRefundCents > 0 {
		if err := payments.Refund(ctx, esc.PaymentRef, rel.RenterRefundCents); err != nil {
			return domain.NewUpstreamFailure("deposit refund failed", err)
		}
	}
	if rel.OwnerPayoutCents > 0 {
		if err := payments.Payout(ctx, esc.PaymentRef, b.OwnerID, rel.OwnerPayoutCents); err != nil {
			return domain.NewUpstreamFailure("owner payout failed", err)
		}
	}

	if rel.ClaimDeductionCents > 0 {
		esc.EscrowStatus = domain.EscrowStatusSplit
	} else {
		esc.EscrowStatus = domain.EscrowStatusReleasedToOwner
	}
	if rel.RenterRefundCents > 0 {
		esc.PaymentStatus = domain.PaymentStatusPartiallyRefunded
	}
	return escrowRepo.Update(ctx, esc)
}

// expireIfWindowElapsed completes the booking if its claim window has elapsed
// with no claim on file. Returns whether it completed anything.
func (s *bookingService) expireIfWindowElapsed(ctx context.Context, b *domain.BookingRequest) (bool, error) {
	ret, err := s.inspRepo.GetByBooking(ctx, b.ID, domain.InspectionTypeReturn)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	eq, err := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	if err != nil {
		return false, err
	}
	deadline := ret.Timestamp.Add(time.Duration(eq.ClaimWindowHours()) * time.Hour)
	if s.now().Before(deadline) {
		return false, nil
	}
	if _, err := s.claimRepo.GetByBooking(ctx, b.ID); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	if err := s.completeReview(ctx, b, 0, 0); err != nil {
		// A concurrent claim or confirm won the race; nothing to expire.
		if domain.IsKind(err, domain.ErrKindInvalidTransition) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *bookingService) ExpireClaimWindows(ctx context.Context, now time.Time) (int, error) {
	logger.EnterMethod("ExpireClaimWindows", "now", now)

	expired, err := s.bookingRepo.ListExpiredReviews(ctx, now)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range expired {
		b := expired[i]
		if err := s.completeReview(ctx, &b, 0, 0); err != nil {
			// Lost to a concurrent confirm or claim; skip and keep sweeping.
			if domain.IsKind(err, domain.ErrKindInvalidTransition) {
				continue
			}
			logger.ErrorContext(ctx, "claim-window sweep failed for booking", "booking_id", b.ID, "error", err)
			continue
		}
		completed++
	}
	return completed, nil
}

// ReconcileEscrows settles escrows stranded in HELD by a payment fault that
// hit after the booking's status commit. Completed bookings settle with their
// resolved claim deduction (zero without one); cancelled bookings refund in
// full. Bookings still mid-lifecycle are left alone.
func (s *bookingService) ReconcileEscrows(ctx context.Context) (int, error) {
	logger.EnterMethod("ReconcileEscrows")

	held, err := s.escrowRepo.ListHeld(ctx)
	if err != nil {
		return 0, err
	}

	settled := 0
	for i := range held {
		bookingID := held[i].BookingID
		b, err := s.bookingRepo.GetByID(ctx, bookingID)
		if err != nil {
			logger.ErrorContext(ctx, "escrow reconciliation could not load booking", "booking_id", bookingID, "error", err)
			continue
		}

		switch b.Status {
		case domain.BookingStatusCancelled:
			err = s.refundEscrow(ctx, bookingID)
		case domain.BookingStatusCompleted:
			var deduction int64
			claim, cerr := s.claimRepo.GetByBooking(ctx, bookingID)
			if cerr == nil && claim.Status == domain.ClaimStatusResolved {
				deduction = claim.DeductionCents
			} else if cerr != nil && !errors.Is(cerr, repository.ErrNotFound) {
				logger.ErrorContext(ctx, "escrow reconciliation could not load claim", "booking_id", bookingID, "error", cerr)
				continue
			}
			err = releaseHeldEscrow(ctx, s.escrowRepo, s.payments, b, deduction, s.ownerFeeShare)
		default:
			continue
		}
		if err != nil {
			logger.ErrorContext(ctx, "escrow reconciliation failed for booking", "booking_id", bookingID, "error", err)
			continue
		}
		settled++
	}
	return settled, nil
}

func (s *bookingService) ListBookings(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	return s.bookingRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *bookingService) ListLendings(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	return s.bookingRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
}
