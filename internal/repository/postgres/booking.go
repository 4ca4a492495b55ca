package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

const bookingColumns = `id, equipment_id, renter_id, owner_id, start_date, end_date, status, insurance_type, total_amount_cents, activated_at, created_at, updated_at`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}) (*domain.BookingRequest, error) {
	b := &domain.BookingRequest{}
	err := row.Scan(&b.ID, &b.EquipmentID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate, &b.Status, &b.Insurance, &b.TotalAmountCents, &b.ActivatedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.BookingRequest) error {
	query := `INSERT INTO booking_requests (equipment_id, renter_id, owner_id, start_date, end_date, status, insurance_type, total_amount_cents, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()) RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		b.EquipmentID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate, b.Status, b.Insurance, b.TotalAmountCents,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking_requests WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus, activatedAt *time.Time) error {
	query := `UPDATE booking_requests
	          SET status = $1, activated_at = COALESCE($2, activated_at), updated_at = NOW()
	          WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, to, activatedAt, id, from)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrStaleStatus
	}
	return nil
}

// ApproveIfAvailable commits PENDING→APPROVED with the overlap re-check in
// the same statement. The NOT EXISTS subquery rejects conflicts already
// committed; the booking_requests_no_overlap exclusion constraint is the
// ground truth for the remaining race, where two approvals run concurrently
// and neither snapshot sees the other. The loser's UPDATE fails with an
// exclusion violation, surfaced as ErrDatesUnavailable.
func (r *bookingRepository) ApproveIfAvailable(ctx context.Context, id int64) error {
	query := `UPDATE booking_requests b
	          SET status = $1, updated_at = NOW()
	          WHERE b.id = $2 AND b.status = $3
	            AND NOT EXISTS (
	              SELECT 1 FROM booking_requests c
	              WHERE c.equipment_id = b.equipment_id
	                AND c.id <> b.id
	                AND c.status = ANY($4)
	                AND c.start_date < b.end_date
	                AND c.end_date > b.start_date
	            )`
	res, err := r.db.ExecContext(ctx, query,
		domain.BookingStatusApproved, id, domain.BookingStatusPending, holdingStatusArray())
	if isExclusionViolation(err) {
		return repository.ErrDatesUnavailable
	}
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	// Zero rows: either the booking left PENDING or a conflicting booking won
	// the race. Re-read to tell the caller which.
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status != domain.BookingStatusPending {
		return repository.ErrStaleStatus
	}
	return repository.ErrDatesUnavailable
}

func holdingStatusArray() interface{} {
	statuses := make([]string, len(domain.DateHoldingStatuses))
	for i, s := range domain.DateHoldingStatuses {
		statuses[i] = string(s)
	}
	return pqStringArray(statuses)
}

func (r *bookingRepository) ListHolding(ctx context.Context, equipmentID int64, start, end time.Time, excludeID int64) ([]domain.BookingRequest, error) {
	query := `SELECT ` + bookingColumns + ` FROM booking_requests
	          WHERE equipment_id = $1
	            AND status = ANY($2)
	            AND start_date < $3
	            AND end_date > $4
	            AND id <> $5
	          ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, equipmentID, holdingStatusArray(), end, start, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.BookingRequest
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) listByParty(ctx context.Context, column string, partyID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `SELECT ` + bookingColumns + ` FROM booking_requests WHERE ` + column + ` = $1`
	args := []interface{}{partyID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.BookingRequest
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	return r.listByParty(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.BookingRequest, int32, error) {
	return r.listByParty(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *bookingRepository) ListExpiredReviews(ctx context.Context, now time.Time) ([]domain.BookingRequest, error) {
	query := `SELECT b.id, b.equipment_id, b.renter_id, b.owner_id, b.start_date, b.end_date, b.status, b.insurance_type, b.total_amount_cents, b.activated_at, b.created_at, b.updated_at
	          FROM booking_requests b
	          JOIN inspections i ON i.booking_id = b.id AND i.inspection_type = $1
	          JOIN equipment e ON e.id = b.equipment_id
	          WHERE b.status = $2
	            AND NOT EXISTS (SELECT 1 FROM damage_claims dc WHERE dc.booking_id = b.id)
	            AND i.inspected_at + make_interval(hours => COALESCE(NULLIF(e.deposit_refund_timeline_hours, 0), 48)) < $3`
	rows, err := r.db.QueryContext(ctx, query, domain.InspectionTypeReturn, domain.BookingStatusPendingOwnerReview, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.BookingRequest
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
