package service

import (
	"context"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type availabilityService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
}

func NewAvailabilityService(bookingRepo repository.BookingRepository, equipmentRepo repository.EquipmentRepository) AvailabilityService {
	return &availabilityService{bookingRepo: bookingRepo, equipmentRepo: equipmentRepo}
}

func (s *availabilityService) CheckAvailability(ctx context.Context, equipmentID int64, start, end time.Time, excludeBookingID int64) (*domain.AvailabilityResult, error) {
	if !end.After(start) {
		return nil, domain.NewValidationError("end date must be after start date")
	}
	if _, err := s.equipmentRepo.GetByID(ctx, equipmentID); err != nil {
		if err == repository.ErrNotFound {
			return nil, domain.NewValidationError(fmt.Sprintf("equipment %d not found", equipmentID))
		}
		return nil, err
	}

	result := &domain.AvailabilityResult{}

	days := int(end.Sub(start).Hours() / 24)
	if days < domain.MinRentalDays {
		result.Conflicts = append(result.Conflicts, domain.ConflictReason{
			Code:    domain.ConflictMinimumDays,
			Message: fmt.Sprintf("rental must be at least %d day(s), requested %d", domain.MinRentalDays, days),
		})
	}
	if days > domain.MaxRentalDays {
		result.Conflicts = append(result.Conflicts, domain.ConflictReason{
			Code:    domain.ConflictMaximumDays,
			Message: fmt.Sprintf("rental must be at most %d days, requested %d", domain.MaxRentalDays, days),
		})
	}

	holding, err := s.bookingRepo.ListHolding(ctx, equipmentID, start, end, excludeBookingID)
	if err != nil {
		return nil, err
	}
	for _, b := range holding {
		result.Conflicts = append(result.Conflicts, domain.ConflictReason{
			Code: domain.ConflictOverlap,
			Message: fmt.Sprintf("dates overlap booking %d (%s to %s)",
				b.ID, b.StartDate.Format("2006-01-02"), b.EndDate.Format("2006-01-02")),
			BookingID: b.ID,
		})
	}

	result.Available = len(result.Conflicts) == 0
	return result, nil
}
