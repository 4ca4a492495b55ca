package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type inspectionRepository struct {
	db *sql.DB
}

func NewInspectionRepository(db *sql.DB) repository.InspectionRepository {
	return &inspectionRepository{db: db}
}

func (r *inspectionRepository) Create(ctx context.Context, ins *domain.Inspection) error {
	checklist, err := json.Marshal(ins.Checklist)
	if err != nil {
		return fmt.Errorf("marshal checklist: %w", err)
	}

	query := `INSERT INTO inspections (booking_id, inspection_type, photo_refs, checklist_items, condition_notes, verified_by_owner, verified_by_renter, geolocation, inspected_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	err = r.db.QueryRowContext(ctx, query,
		ins.BookingID, ins.Type, pq.Array(ins.PhotoRefs), checklist, ins.ConditionNotes,
		ins.VerifiedByOwner, ins.VerifiedByRenter, ins.Geolocation, ins.Timestamp,
	).Scan(&ins.ID)
	if isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *inspectionRepository) scan(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Inspection, error) {
	ins := &domain.Inspection{}
	var checklist []byte
	err := row.Scan(&ins.ID, &ins.BookingID, &ins.Type, pq.Array(&ins.PhotoRefs), &checklist,
		&ins.ConditionNotes, &ins.VerifiedByOwner, &ins.VerifiedByRenter, &ins.Geolocation, &ins.Timestamp)
	if err != nil {
		return nil, err
	}
	if len(checklist) > 0 {
		if err := json.Unmarshal(checklist, &ins.Checklist); err != nil {
			return nil, fmt.Errorf("unmarshal checklist: %w", err)
		}
	}
	return ins, nil
}

const inspectionColumns = `id, booking_id, inspection_type, photo_refs, checklist_items, condition_notes, verified_by_owner, verified_by_renter, geolocation, inspected_at`

func (r *inspectionRepository) GetByBooking(ctx context.Context, bookingID int64, typ domain.InspectionType) (*domain.Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE booking_id = $1 AND inspection_type = $2`
	ins, err := r.scan(r.db.QueryRowContext(ctx, query, bookingID, typ))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ins, nil
}

func (r *inspectionRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Inspection, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE booking_id = $1 ORDER BY inspected_at`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []domain.Inspection
	for rows.Next() {
		ins, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		inspections = append(inspections, *ins)
	}
	return inspections, rows.Err()
}
