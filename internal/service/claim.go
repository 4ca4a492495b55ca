package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/payment"
	"gearshare-backend/internal/repository"
)

type claimService struct {
	bookingRepo   repository.BookingRepository
	claimRepo     repository.ClaimRepository
	inspRepo      repository.InspectionRepository
	equipmentRepo repository.EquipmentRepository
	escrowRepo    repository.EscrowRepository
	userRepo      repository.UserRepository
	payments      payment.Provider
	emailSvc      EmailService
	notifier      *notifier
	ownerFeeShare int64
	now           func() time.Time
}

func NewClaimService(
	bookingRepo repository.BookingRepository,
	claimRepo repository.ClaimRepository,
	inspRepo repository.InspectionRepository,
	equipmentRepo repository.EquipmentRepository,
	escrowRepo repository.EscrowRepository,
	userRepo repository.UserRepository,
	noteRepo repository.NotificationRepository,
	payments payment.Provider,
	emailSvc EmailService,
	ownerFeeSharePercent int64,
) ClaimService {
	return &claimService{
		bookingRepo:   bookingRepo,
		claimRepo:     claimRepo,
		inspRepo:      inspRepo,
		equipmentRepo: equipmentRepo,
		escrowRepo:    escrowRepo,
		userRepo:      userRepo,
		payments:      payments,
		emailSvc:      emailSvc,
		notifier:      newNotifier(noteRepo),
		ownerFeeShare: ownerFeeSharePercent,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *claimService) FileClaim(ctx context.Context, ownerID, bookingID int64, in ClaimInput) (*domain.DamageClaim, error) {
	logger.EnterMethod("FileClaim", "owner_id", ownerID, "booking_id", bookingID)

	if in.DamageDescription == "" {
		return nil, domain.NewValidationError("damage description is required")
	}
	if in.EstimatedCostCents <= 0 {
		return nil, domain.NewValidationError("estimated cost must be positive")
	}
	if len(in.EvidencePhotoRefs) == 0 {
		return nil, domain.NewValidationError("at least one evidence photo is required")
	}

	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("booking %d not found", bookingID))
		}
		return nil, err
	}
	if b.OwnerID != ownerID {
		return nil, domain.NewPolicyViolation(bookingID, "not_owner", "only the equipment owner may file a claim")
	}
	if b.Status != domain.BookingStatusPendingOwnerReview {
		return nil, domain.NewInvalidTransition(bookingID, b.Status, "file claim")
	}

	ret, err := s.inspRepo.GetByBooking(ctx, bookingID, domain.InspectionTypeReturn)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError("no return inspection on file")
		}
		return nil, err
	}
	eq, err := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	if err != nil {
		return nil, err
	}
	// The window is open while now < deadline; the deadline instant itself
	// belongs to expiry.
	deadline := ret.Timestamp.Add(time.Duration(eq.ClaimWindowHours()) * time.Hour)
	if !s.now().Before(deadline) {
		return nil, domain.NewPolicyViolation(bookingID, "claim_window_closed",
			fmt.Sprintf("claim window closed at %s", deadline.Format(time.RFC3339)))
	}

	claim := &domain.DamageClaim{
		BookingID:          bookingID,
		FiledBy:            ownerID,
		DamageDescription:  in.DamageDescription,
		EstimatedCostCents: in.EstimatedCostCents,
		EvidencePhotoRefs:  in.EvidencePhotoRefs,
		RepairQuotes:       in.RepairQuotes,
		Status:             domain.ClaimStatusPending,
		FiledAt:            s.now(),
	}
	if err := s.claimRepo.Create(ctx, claim); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.NewPolicyViolation(bookingID, "claim_exists", "a claim was already filed for this booking")
		}
		return nil, err
	}

	// The claim row exists first; the status swap serializes against window
	// expiry. If expiry won, the claim is voided so funds are not re-held.
	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, domain.BookingStatusPendingOwnerReview, domain.BookingStatusDisputed, nil); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			s.voidClaim(ctx, claim)
			current, rerr := s.bookingRepo.GetByID(ctx, bookingID)
			if rerr != nil {
				return nil, rerr
			}
			return nil, domain.NewInvalidTransition(bookingID, current.Status, "file claim")
		}
		return nil, err
	}
	b.Status = domain.BookingStatusDisputed

	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	if renter != nil {
		_ = s.emailSvc.SendClaimFiledNotification(ctx, renter.Email, eq.Name, in.EstimatedCostCents)
	}
	s.notifier.publish(ctx, domain.EventClaimFiled, b, ownerID, b.RenterID,
		"Damage Claim Filed",
		fmt.Sprintf("A damage claim was filed on booking %d. Funds stay in escrow until it is resolved.", b.ID))

	return claim, nil
}

// voidClaim rejects a claim that lost the race against window expiry.
func (s *claimService) voidClaim(ctx context.Context, claim *domain.DamageClaim) {
	resolvedAt := s.now()
	claim.Status = domain.ClaimStatusRejected
	claim.ResolvedAt = &resolvedAt
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		logger.ErrorContext(ctx, "failed to void claim after lost expiry race",
			"claim_id", claim.ID, "booking_id", claim.BookingID, "error", err)
	}
}

func (s *claimService) GetClaim(ctx context.Context, userID, claimID int64) (*domain.DamageClaim, error) {
	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("claim %d not found", claimID))
		}
		return nil, err
	}
	b, err := s.bookingRepo.GetByID(ctx, claim.BookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != userID && b.OwnerID != userID {
		return nil, domain.NewPolicyViolation(claim.BookingID, "not_a_party", "only the renter or owner may view this claim")
	}
	return claim, nil
}

func (s *claimService) ResolveClaim(ctx context.Context, actorID, claimID int64, res ClaimResolution) (*domain.DamageClaim, error) {
	logger.EnterMethod("ResolveClaim", "actor_id", actorID, "claim_id", claimID, "resolution", res.Resolution)

	switch res.Resolution {
	case domain.ClaimStatusResolved, domain.ClaimStatusRejected, domain.ClaimStatusDisputed:
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("unknown claim resolution %q", res.Resolution))
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NewValidationError(fmt.Sprintf("claim %d not found", claimID))
		}
		return nil, err
	}
	if claim.Status != domain.ClaimStatusPending {
		return nil, domain.NewPolicyViolation(claim.BookingID, "claim_settled",
			fmt.Sprintf("claim is already %s", claim.Status))
	}

	b, err := s.bookingRepo.GetByID(ctx, claim.BookingID)
	if err != nil {
		return nil, err
	}
	if b.RenterID != actorID && b.OwnerID != actorID {
		return nil, domain.NewPolicyViolation(claim.BookingID, "not_a_party", "only the renter or owner may resolve this claim")
	}
	if b.Status != domain.BookingStatusDisputed {
		return nil, domain.NewInvalidTransition(claim.BookingID, b.Status, "resolve claim")
	}

	// A deduction needs the charged party's consent: only the renter accepts
	// or contests, and only the filer can withdraw their own claim.
	switch res.Resolution {
	case domain.ClaimStatusResolved, domain.ClaimStatusDisputed:
		if actorID != b.RenterID {
			return nil, domain.NewPolicyViolation(claim.BookingID, "not_claim_respondent", "only the renter may accept or contest a claim")
		}
	case domain.ClaimStatusRejected:
		if actorID != claim.FiledBy {
			return nil, domain.NewPolicyViolation(claim.BookingID, "not_claim_filer", "only the filer may withdraw a claim")
		}
	}

	var deduction int64
	if res.Resolution == domain.ClaimStatusResolved {
		if res.DeductionCents < 0 {
			return nil, domain.NewValidationError("deduction must not be negative")
		}
		deduction = res.DeductionCents
		if esc, eerr := s.escrowRepo.GetByBooking(ctx, claim.BookingID); eerr == nil && deduction > esc.DepositCents {
			deduction = esc.DepositCents
		}
	}

	resolvedAt := s.now()
	claim.Status = res.Resolution
	claim.DeductionCents = deduction
	claim.ResolvedAt = &resolvedAt
	if err := s.claimRepo.Update(ctx, claim); err != nil {
		return nil, err
	}

	// An escalated claim keeps the booking DISPUTED and the escrow held;
	// support settles it out of band.
	if res.Resolution == domain.ClaimStatusDisputed {
		s.notifyResolution(ctx, b, claim, 0)
		return claim, nil
	}

	if err := s.bookingRepo.UpdateStatus(ctx, claim.BookingID, domain.BookingStatusDisputed, domain.BookingStatusCompleted, nil); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			current, rerr := s.bookingRepo.GetByID(ctx, claim.BookingID)
			if rerr != nil {
				return nil, rerr
			}
			return nil, domain.NewInvalidTransition(claim.BookingID, current.Status, "resolve claim")
		}
		return nil, err
	}
	b.Status = domain.BookingStatusCompleted

	if err := releaseHeldEscrow(ctx, s.escrowRepo, s.payments, b, deduction, s.ownerFeeShare); err != nil {
		return nil, err
	}

	s.notifyResolution(ctx, b, claim, deduction)
	return claim, nil
}

func (s *claimService) notifyResolution(ctx context.Context, b *domain.BookingRequest, claim *domain.DamageClaim, deduction int64) {
	eq, _ := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	renter, _ := s.userRepo.GetByID(ctx, b.RenterID)
	owner, _ := s.userRepo.GetByID(ctx, b.OwnerID)
	if eq != nil && renter != nil && owner != nil {
		_ = s.emailSvc.SendClaimResolvedNotification(ctx, renter.Email, eq.Name, string(claim.Status), deduction)
		_ = s.emailSvc.SendClaimResolvedNotification(ctx, owner.Email, eq.Name, string(claim.Status), deduction)
	}
	s.notifier.publish(ctx, domain.EventClaimResolved, b, claim.FiledBy, b.RenterID,
		"Claim "+string(claim.Status),
		fmt.Sprintf("The damage claim on booking %d is %s.", b.ID, claim.Status))
}
