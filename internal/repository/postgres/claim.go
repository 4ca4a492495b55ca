package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type claimRepository struct {
	db *sql.DB
}

func NewClaimRepository(db *sql.DB) repository.ClaimRepository {
	return &claimRepository{db: db}
}

const claimColumns = `id, booking_id, filed_by, damage_description, estimated_cost_cents, evidence_photo_refs, repair_quotes, status, deduction_cents, filed_at, resolved_at`

func (r *claimRepository) Create(ctx context.Context, c *domain.DamageClaim) error {
	query := `INSERT INTO damage_claims (booking_id, filed_by, damage_description, estimated_cost_cents, evidence_photo_refs, repair_quotes, status, deduction_cents, filed_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		c.BookingID, c.FiledBy, c.DamageDescription, c.EstimatedCostCents,
		pq.Array(c.EvidencePhotoRefs), pq.Array(c.RepairQuotes), c.Status, c.DeductionCents, c.FiledAt,
	).Scan(&c.ID)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *claimRepository) scan(row interface {
	Scan(dest ...interface{}) error
}) (*domain.DamageClaim, error) {
	c := &domain.DamageClaim{}
	err := row.Scan(&c.ID, &c.BookingID, &c.FiledBy, &c.DamageDescription, &c.EstimatedCostCents,
		pq.Array(&c.EvidencePhotoRefs), pq.Array(&c.RepairQuotes), &c.Status, &c.DeductionCents, &c.FiledAt, &c.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *claimRepository) GetByID(ctx context.Context, id int64) (*domain.DamageClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM damage_claims WHERE id = $1`
	c, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *claimRepository) GetByBooking(ctx context.Context, bookingID int64) (*domain.DamageClaim, error) {
	query := `SELECT ` + claimColumns + ` FROM damage_claims WHERE booking_id = $1`
	c, err := r.scan(r.db.QueryRowContext(ctx, query, bookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *claimRepository) Update(ctx context.Context, c *domain.DamageClaim) error {
	query := `UPDATE damage_claims SET status = $1, deduction_cents = $2, resolved_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, c.Status, c.DeductionCents, c.ResolvedAt, c.ID)
	return err
}
