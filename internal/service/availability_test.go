package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gearshare-backend/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestAvailabilityService_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	equipment := &domain.Equipment{ID: 5, OwnerID: 10, Name: "Excavator", DailyRateCents: 2500}

	t.Run("Overlap With Approved Booking", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		equipmentRepo := new(MockEquipmentRepo)
		svc := NewAvailabilityService(bookingRepo, equipmentRepo)

		// Booking X holds 07-01 to 07-05; a request for 07-03 to 07-06 overlaps.
		equipmentRepo.On("GetByID", ctx, int64(5)).Return(equipment, nil)
		bookingRepo.On("ListHolding", ctx, int64(5), date("2024-07-03"), date("2024-07-06"), int64(0)).Return([]domain.BookingRequest{
			{ID: 42, EquipmentID: 5, StartDate: date("2024-07-01"), EndDate: date("2024-07-05"), Status: domain.BookingStatusApproved},
		}, nil)

		res, err := svc.CheckAvailability(ctx, 5, date("2024-07-03"), date("2024-07-06"), 0)
		assert.NoError(t, err)
		assert.False(t, res.Available)
		assert.Len(t, res.Conflicts, 1)
		assert.Equal(t, domain.ConflictOverlap, res.Conflicts[0].Code)
		assert.Equal(t, int64(42), res.Conflicts[0].BookingID)
	})

	t.Run("Back To Back Is Available", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		equipmentRepo := new(MockEquipmentRepo)
		svc := NewAvailabilityService(bookingRepo, equipmentRepo)

		equipmentRepo.On("GetByID", ctx, int64(5)).Return(equipment, nil)
		bookingRepo.On("ListHolding", ctx, int64(5), date("2024-07-05"), date("2024-07-08"), int64(0)).Return([]domain.BookingRequest{}, nil)

		res, err := svc.CheckAvailability(ctx, 5, date("2024-07-05"), date("2024-07-08"), 0)
		assert.NoError(t, err)
		assert.True(t, res.Available)
		assert.Empty(t, res.Conflicts)
	})

	t.Run("Too Long Reports Maximum Days", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		equipmentRepo := new(MockEquipmentRepo)
		svc := NewAvailabilityService(bookingRepo, equipmentRepo)

		equipmentRepo.On("GetByID", ctx, int64(5)).Return(equipment, nil)
		bookingRepo.On("ListHolding", ctx, int64(5), date("2024-07-01"), date("2024-08-15"), int64(0)).Return([]domain.BookingRequest{}, nil)

		res, err := svc.CheckAvailability(ctx, 5, date("2024-07-01"), date("2024-08-15"), 0)
		assert.NoError(t, err)
		assert.False(t, res.Available)
		assert.Len(t, res.Conflicts, 1)
		assert.Equal(t, domain.ConflictMaximumDays, res.Conflicts[0].Code)
	})

	t.Run("Overlap And Duration Violations Stack", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		equipmentRepo := new(MockEquipmentRepo)
		svc := NewAvailabilityService(bookingRepo, equipmentRepo)

		equipmentRepo.On("GetByID", ctx, int64(5)).Return(equipment, nil)
		bookingRepo.On("ListHolding", ctx, int64(5), date("2024-07-01"), date("2024-08-15"), int64(0)).Return([]domain.BookingRequest{
			{ID: 42, StartDate: date("2024-07-01"), EndDate: date("2024-07-05"), Status: domain.BookingStatusActive},
		}, nil)

		res, err := svc.CheckAvailability(ctx, 5, date("2024-07-01"), date("2024-08-15"), 0)
		assert.NoError(t, err)
		assert.False(t, res.Available)
		assert.Len(t, res.Conflicts, 2)
	})

	t.Run("Inverted Dates Are A Validation Error", func(t *testing.T) {
		bookingRepo := new(MockBookingRepo)
		equipmentRepo := new(MockEquipmentRepo)
		svc := NewAvailabilityService(bookingRepo, equipmentRepo)

		_, err := svc.CheckAvailability(ctx, 5, date("2024-07-05"), date("2024-07-01"), 0)
		assert.Error(t, err)
		assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
	})
}
