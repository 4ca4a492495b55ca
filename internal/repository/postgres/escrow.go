package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type escrowRepository struct {
	db *sql.DB
}

func NewEscrowRepository(db *sql.DB) repository.EscrowRepository {
	return &escrowRepository{db: db}
}

func (r *escrowRepository) Create(ctx context.Context, e *domain.EscrowPayment) error {
	query := `INSERT INTO escrow_payments (booking_request_id, payment_ref, total_amount_cents, subtotal_cents, service_fee_cents, insurance_cents, deposit_cents, payment_status, escrow_status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()) RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		e.BookingID, e.PaymentRef, e.TotalCents, e.SubtotalCents, e.ServiceFeeCents,
		e.InsuranceCents, e.DepositCents, e.PaymentStatus, e.EscrowStatus,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *escrowRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.EscrowPayment, error) {
	e := &domain.EscrowPayment{}
	query := `SELECT id, booking_request_id, payment_ref, total_amount_cents, subtotal_cents, service_fee_cents, insurance_cents, deposit_cents, payment_status, escrow_status, created_at, updated_at
	          FROM escrow_payments WHERE booking_request_id = $1`
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&e.ID, &e.BookingID, &e.PaymentRef, &e.TotalCents, &e.SubtotalCents, &e.ServiceFeeCents,
		&e.InsuranceCents, &e.DepositCents, &e.PaymentStatus, &e.EscrowStatus, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *escrowRepository) ListHeld(ctx context.Context) ([]domain.EscrowPayment, error) {
	query := `SELECT id, booking_request_id, payment_ref, total_amount_cents, subtotal_cents, service_fee_cents, insurance_cents, deposit_cents, payment_status, escrow_status, created_at, updated_at
	          FROM escrow_payments WHERE escrow_status = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, domain.EscrowStatusHeld)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var escrows []domain.EscrowPayment
	for rows.Next() {
		e := domain.EscrowPayment{}
		if err := rows.Scan(
			&e.ID, &e.BookingID, &e.PaymentRef, &e.TotalCents, &e.SubtotalCents, &e.ServiceFeeCents,
			&e.InsuranceCents, &e.DepositCents, &e.PaymentStatus, &e.EscrowStatus, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		escrows = append(escrows, e)
	}
	return escrows, rows.Err()
}

func (r *escrowRepository) Update(ctx context.Context, e *domain.EscrowPayment) error {
	query := `UPDATE escrow_payments SET payment_status = $1, escrow_status = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, e.PaymentStatus, e.EscrowStatus, e.ID)
	return err
}
