package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gearshare-backend/internal/domain"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.BookingRequest) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, activatedAt *time.Time) error {
	args := m.Called(ctx, id, from, to, activatedAt)
	return args.Error(0)
}
func (m *MockBookingRepo) ApproveIfAvailable(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookingRepo) ListHolding(ctx context.Context, equipmentID int64, start, end time.Time, excludeID int64) ([]domain.BookingRequest, error) {
	args := m.Called(ctx, equipmentID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	return args.Get(0).([]domain.BookingRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	return args.Get(0).([]domain.BookingRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListExpiredReviews(ctx context.Context, now time.Time) ([]domain.BookingRequest, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}

// MockInspectionRepo
type MockInspectionRepo struct {
	mock.Mock
}

func (m *MockInspectionRepo) Create(ctx context.Context, ins *domain.Inspection) error {
	args := m.Called(ctx, ins)
	return args.Error(0)
}
func (m *MockInspectionRepo) GetByBooking(ctx context.Context, bookingID int64, typ domain.InspectionType) (*domain.Inspection, error) {
	args := m.Called(ctx, bookingID, typ)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inspection), args.Error(1)
}
func (m *MockInspectionRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Inspection, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Inspection), args.Error(1)
}

// MockEscrowRepo
type MockEscrowRepo struct {
	mock.Mock
}

func (m *MockEscrowRepo) Create(ctx context.Context, e *domain.EscrowPayment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEscrowRepo) GetByBooking(ctx context.Context, bookingID int64) (*domain.EscrowPayment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EscrowPayment), args.Error(1)
}
func (m *MockEscrowRepo) Update(ctx context.Context, e *domain.EscrowPayment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEscrowRepo) ListHeld(ctx context.Context) ([]domain.EscrowPayment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EscrowPayment), args.Error(1)
}

// MockClaimRepo
type MockClaimRepo struct {
	mock.Mock
}

func (m *MockClaimRepo) Create(ctx context.Context, c *domain.DamageClaim) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockClaimRepo) GetByID(ctx context.Context, id int64) (*domain.DamageClaim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DamageClaim), args.Error(1)
}
func (m *MockClaimRepo) GetByBooking(ctx context.Context, bookingID int64) (*domain.DamageClaim, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DamageClaim), args.Error(1)
}
func (m *MockClaimRepo) Update(ctx context.Context, c *domain.DamageClaim) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

// MockEquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockPaymentProvider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) Capture(ctx context.Context, renterID int64, amountCents int64) (string, error) {
	args := m.Called(ctx, renterID, amountCents)
	return args.String(0), args.Error(1)
}
func (m *MockPaymentProvider) Refund(ctx context.Context, paymentRef string, amountCents int64) error {
	args := m.Called(ctx, paymentRef, amountCents)
	return args.Error(0)
}
func (m *MockPaymentProvider) Payout(ctx context.Context, paymentRef string, ownerID int64, amountCents int64) error {
	args := m.Called(ctx, paymentRef, ownerID, amountCents)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentName string, days int) error {
	args := m.Called(ctx, ownerEmail, renterName, equipmentName, days)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentName string, totalCents int64) error {
	args := m.Called(ctx, renterEmail, equipmentName, totalCents)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCancellationNotification(ctx context.Context, email, equipmentName, reason string) error {
	args := m.Called(ctx, email, equipmentName, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnStartedNotification(ctx context.Context, ownerEmail, renterName, equipmentName string) error {
	args := m.Called(ctx, ownerEmail, renterName, equipmentName)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnSubmittedNotification(ctx context.Context, ownerEmail, equipmentName string, windowHours int) error {
	args := m.Called(ctx, ownerEmail, equipmentName, windowHours)
	return args.Error(0)
}
func (m *MockEmailService) SendBookingCompletionNotification(ctx context.Context, email, role, equipmentName string, amountCents int64) error {
	args := m.Called(ctx, email, role, equipmentName, amountCents)
	return args.Error(0)
}
func (m *MockEmailService) SendClaimFiledNotification(ctx context.Context, renterEmail, equipmentName string, estimatedCents int64) error {
	args := m.Called(ctx, renterEmail, equipmentName, estimatedCents)
	return args.Error(0)
}
func (m *MockEmailService) SendClaimResolvedNotification(ctx context.Context, email, equipmentName string, resolution string, deductionCents int64) error {
	args := m.Called(ctx, email, equipmentName, resolution, deductionCents)
	return args.Error(0)
}
func (m *MockEmailService) SendReturnReminderNotification(ctx context.Context, renterEmail, equipmentName string, endDate time.Time) error {
	args := m.Called(ctx, renterEmail, equipmentName, endDate)
	return args.Error(0)
}
