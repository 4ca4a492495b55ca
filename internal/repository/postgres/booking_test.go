package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

func bookingRows(id int64, status domain.BookingStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "equipment_id", "renter_id", "owner_id", "start_date", "end_date", "status", "insurance_type", "total_amount_cents", "activated_at", "created_at", "updated_at"}).
		AddRow(id, 5, 2, 10, now, now.Add(72*time.Hour), status, "BASIC", 13250, nil, now, now)
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		b := &domain.BookingRequest{
			EquipmentID:      5,
			RenterID:         2,
			OwnerID:          10,
			StartDate:        time.Now(),
			EndDate:          time.Now().Add(72 * time.Hour),
			Status:           domain.BookingStatusPending,
			Insurance:        domain.InsuranceBasic,
			TotalAmountCents: 13250,
		}

		mock.ExpectQuery("INSERT INTO booking_requests").
			WithArgs(b.EquipmentID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate, b.Status, b.Insurance, b.TotalAmountCents).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, time.Now(), time.Now()))

		err := repo.Create(ctx, b)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), b.ID)
	})
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM booking_requests WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(bookingRows(1, domain.BookingStatusPending))

		b, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), b.ID)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.Equal(t, domain.InsuranceBasic, b.Insurance)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM booking_requests WHERE id = \\$1").
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE booking_requests").
			WithArgs(domain.BookingStatusCompleted, nil, int64(1), domain.BookingStatusPendingOwnerReview).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, 1, domain.BookingStatusPendingOwnerReview, domain.BookingStatusCompleted, nil)
		assert.NoError(t, err)
	})

	t.Run("Stale Status Matches No Row", func(t *testing.T) {
		mock.ExpectExec("UPDATE booking_requests").
			WithArgs(domain.BookingStatusCompleted, nil, int64(1), domain.BookingStatusPendingOwnerReview).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, 1, domain.BookingStatusPendingOwnerReview, domain.BookingStatusCompleted, nil)
		assert.ErrorIs(t, err, repository.ErrStaleStatus)
	})
}

func TestBookingRepository_ApproveIfAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE booking_requests b").
			WithArgs(domain.BookingStatusApproved, int64(1), domain.BookingStatusPending, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ApproveIfAvailable(ctx, 1)
		assert.NoError(t, err)
	})

	t.Run("Overlap Lost The Race", func(t *testing.T) {
		mock.ExpectExec("UPDATE booking_requests b").
			WithArgs(domain.BookingStatusApproved, int64(1), domain.BookingStatusPending, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		// Still PENDING on re-read, so the overlap subquery blocked the update.
		mock.ExpectQuery("SELECT (.+) FROM booking_requests WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(bookingRows(1, domain.BookingStatusPending))

		err := repo.ApproveIfAvailable(ctx, 1)
		assert.ErrorIs(t, err, repository.ErrDatesUnavailable)
	})

	t.Run("Exclusion Constraint Rejects Concurrent Overlap", func(t *testing.T) {
		// Two snapshot-isolated approvals can both pass the NOT EXISTS check;
		// the overlap exclusion constraint fails the loser at commit.
		mock.ExpectExec("UPDATE booking_requests b").
			WithArgs(domain.BookingStatusApproved, int64(1), domain.BookingStatusPending, sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23P01", Constraint: "booking_requests_no_overlap"})

		err := repo.ApproveIfAvailable(ctx, 1)
		assert.ErrorIs(t, err, repository.ErrDatesUnavailable)
	})

	t.Run("Status Changed Underneath", func(t *testing.T) {
		mock.ExpectExec("UPDATE booking_requests b").
			WithArgs(domain.BookingStatusApproved, int64(1), domain.BookingStatusPending, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT (.+) FROM booking_requests WHERE id = \\$1").
			WithArgs(int64(1)).
			WillReturnRows(bookingRows(1, domain.BookingStatusCancelled))

		err := repo.ApproveIfAvailable(ctx, 1)
		assert.ErrorIs(t, err, repository.ErrStaleStatus)
	})
}

func TestBookingRepository_ListHolding(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Returns Overlapping Holders", func(t *testing.T) {
		start := time.Now()
		end := start.Add(72 * time.Hour)
		mock.ExpectQuery("SELECT (.+) FROM booking_requests").
			WithArgs(int64(5), sqlmock.AnyArg(), end, start, int64(0)).
			WillReturnRows(bookingRows(42, domain.BookingStatusApproved))

		got, err := repo.ListHolding(ctx, 5, start, end, 0)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, int64(42), got[0].ID)
	})

	t.Run("Empty Range", func(t *testing.T) {
		start := time.Now()
		end := start.Add(24 * time.Hour)
		mock.ExpectQuery("SELECT (.+) FROM booking_requests").
			WithArgs(int64(5), sqlmock.AnyArg(), end, start, int64(0)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		got, err := repo.ListHolding(ctx, 5, start, end, 0)
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}
