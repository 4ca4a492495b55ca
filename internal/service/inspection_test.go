package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

func validSubmission() InspectionSubmission {
	return InspectionSubmission{
		PhotoRefs: []string{"ph-1", "ph-2", "ph-3"},
		Checklist: []domain.ChecklistItem{
			{ItemName: "tires", Status: domain.ConditionGood},
			{ItemName: "bucket", Status: domain.ConditionGood},
		},
		ConditionNotes: "clean",
		Confirmed:      true,
	}
}

type inspectionFixture struct {
	bookingRepo   *MockBookingRepo
	inspRepo      *MockInspectionRepo
	equipmentRepo *MockEquipmentRepo
	userRepo      *MockUserRepo
	noteRepo      *MockNotificationRepo
	emailSvc      *MockEmailService
	svc           *inspectionService
}

func newInspectionFixture() *inspectionFixture {
	f := &inspectionFixture{
		bookingRepo:   new(MockBookingRepo),
		inspRepo:      new(MockInspectionRepo),
		equipmentRepo: new(MockEquipmentRepo),
		userRepo:      new(MockUserRepo),
		noteRepo:      new(MockNotificationRepo),
		emailSvc:      new(MockEmailService),
	}
	f.svc = NewInspectionService(f.bookingRepo, f.inspRepo, f.equipmentRepo, f.userRepo, f.noteRepo, f.emailSvc).(*inspectionService)
	return f
}

func TestInspectionService_SubmitInspection(t *testing.T) {
	ctx := context.Background()

	t.Run("Pickup Activates The Rental", func(t *testing.T) {
		f := newInspectionFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusAwaitingPickupInspection
		submittedAt := date("2024-06-01").Add(9 * time.Hour)
		f.svc.now = func() time.Time { return submittedAt }

		f.bookingRepo.On("GetByID", ctx, int64(1)).Return(b, nil)
		f.inspRepo.On("Create", ctx, mock.AnythingOfType("*domain.Inspection")).Return(nil)
		f.bookingRepo.On("UpdateStatus", ctx, int64(1), domain.BookingStatusAwaitingPickupInspection, domain.BookingStatusActive, &submittedAt).Return(nil)
		f.equipmentRepo.On("GetByID", ctx, int64(5)).Return(testEquipment, nil)
		f.userRepo.On("GetByID", ctx, mock.Anything).Return(nil, repository.ErrNotFound)
		f.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		ins, err := f.svc.SubmitInspection(ctx, 2, 1, domain.InspectionTypePickup, validSubmission())
		assert.NoError(t, err)
		assert.Equal(t, domain.InspectionTypePickup, ins.Type)
		assert.True(t, ins.VerifiedByRenter)
		assert.Equal(t, submittedAt, ins.Timestamp)
	})

	t.Run("Return Hands The Booking To The Owner", func(t *testing.T) {
		f := newInspectionFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusAwaitingReturnInspection

		f.bookingRepo.On("GetByID", ctx, int64(1)).Return(b, nil)
		f.inspRepo.On("Create", ctx, mock.AnythingOfType("*domain.Inspection")).Return(nil)
		f.bookingRepo.On("UpdateStatus", ctx, int64(1), domain.BookingStatusAwaitingReturnInspection, domain.BookingStatusPendingOwnerReview, (*time.Time)(nil)).Return(nil)
		f.equipmentRepo.On("GetByID", ctx, int64(5)).Return(testEquipment, nil)
		f.userRepo.On("GetByID", ctx, mock.Anything).Return(nil, repository.ErrNotFound)
		f.noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

		ins, err := f.svc.SubmitInspection(ctx, 2, 1, domain.InspectionTypeReturn, validSubmission())
		assert.NoError(t, err)
		assert.Equal(t, domain.InspectionTypeReturn, ins.Type)
	})

	t.Run("Only The Renter May Submit", func(t *testing.T) {
		f := newInspectionFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusAwaitingPickupInspection
		f.bookingRepo.On("GetByID", ctx, int64(1)).Return(b, nil)

		_, err := f.svc.SubmitInspection(ctx, 10, 1, domain.InspectionTypePickup, validSubmission())
		assert.True(t, domain.IsKind(err, domain.ErrKindPolicy))
		f.inspRepo.AssertNotCalled(t, "Create", ctx, mock.Anything)
	})

	t.Run("Wrong Phase Is An Invalid Transition", func(t *testing.T) {
		f := newInspectionFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusActive
		f.bookingRepo.On("GetByID", ctx, int64(1)).Return(b, nil)

		_, err := f.svc.SubmitInspection(ctx, 2, 1, domain.InspectionTypePickup, validSubmission())
		assert.True(t, domain.IsKind(err, domain.ErrKindInvalidTransition))
	})

	t.Run("Too Few Photos Fails Validation", func(t *testing.T) {
		f := newInspectionFixture()
		sub := validSubmission()
		sub.PhotoRefs = sub.PhotoRefs[:2]

		_, err := f.svc.SubmitInspection(ctx, 2, 1, domain.InspectionTypePickup, sub)
		assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
		f.bookingRepo.AssertNotCalled(t, "GetByID", ctx, mock.Anything)
	})

	t.Run("Unconfirmed Submission Fails Validation", func(t *testing.T) {
		f := newInspectionFixture()
		sub := validSubmission()
		sub.Confirmed = false

		_, err := f.svc.SubmitInspection(ctx, 2, 1, domain.InspectionTypePickup, sub)
		assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
	})

	t.Run("Unknown Condition Fails Validation", func(t *testing.T) {
		f := newInspectionFixture()
		sub := validSubmission()
		sub.Checklist[0].Status = domain.ConditionStatus("SPOTLESS")

		_, err := f.svc.SubmitInspection(ctx, 2, 1, domain.InspectionTypePickup, sub)
		assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
	})

	t.Run("Duplicate Inspection Is A Policy Violation", func(t *testing.T) {
		f := newInspectionFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusAwaitingPickupInspection
		f.bookingRepo.On("GetByID", ctx, int64(1)).Return(b, nil)
		f.inspRepo.On("Create", ctx, mock.AnythingOfType("*domain.Inspection")).Return(repository.ErrDuplicate)

		_, err := f.svc.SubmitInspection(ctx, 2, 1, domain.InspectionTypePickup, validSubmission())
		assert.True(t, domain.IsKind(err, domain.ErrKindPolicy))
		var derr *domain.Error
		assert.ErrorAs(t, err, &derr)
		assert.Equal(t, "inspection_exists", derr.Reason)
		f.bookingRepo.AssertNotCalled(t, "UpdateStatus", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInspectionService_GetComparison(t *testing.T) {
	ctx := context.Background()

	t.Run("Degradation Between Pickup And Return", func(t *testing.T) {
		f := newInspectionFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusPendingOwnerReview
		f.bookingRepo.On("GetByID", ctx, int64(1)).Return(b, nil)
		f.inspRepo.On("GetByBooking", ctx, int64(1), domain.InspectionTypePickup).Return(&domain.Inspection{
			Checklist: []domain.ChecklistItem{{ItemName: "tires", Status: domain.ConditionGood}},
		}, nil)
		f.inspRepo.On("GetByBooking", ctx, int64(1), domain.InspectionTypeReturn).Return(&domain.Inspection{
			Checklist: []domain.ChecklistItem{{ItemName: "tires", Status: domain.ConditionDamaged}},
		}, nil)

		report, err := f.svc.GetComparison(ctx, 10, 1)
		assert.NoError(t, err)
		assert.True(t, report.Degraded)
		assert.Len(t, report.Items, 1)
	})

	t.Run("Missing Return Inspection", func(t *testing.T) {
		f := newInspectionFixture()
		b := pendingBooking()
		f.bookingRepo.On("GetByID", ctx, int64(1)).Return(b, nil)
		f.inspRepo.On("GetByBooking", ctx, int64(1), domain.InspectionTypePickup).Return(&domain.Inspection{}, nil)
		f.inspRepo.On("GetByBooking", ctx, int64(1), domain.InspectionTypeReturn).Return(nil, repository.ErrNotFound)

		_, err := f.svc.GetComparison(ctx, 2, 1)
		assert.True(t, domain.IsKind(err, domain.ErrKindValidation))
	})

	t.Run("Strangers May Not View", func(t *testing.T) {
		f := newInspectionFixture()
		f.bookingRepo.On("GetByID", ctx, int64(1)).Return(pendingBooking(), nil)

		_, err := f.svc.GetComparison(ctx, 77, 1)
		assert.True(t, domain.IsKind(err, domain.ErrKindPolicy))
	})
}
