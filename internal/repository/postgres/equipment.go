package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/repository"
)

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	eq := &domain.Equipment{}
	query := `SELECT id, owner_id, name, daily_rate_cents, damage_deposit_cents, damage_deposit_percentage, deposit_refund_timeline_hours, created_at, updated_at
	          FROM equipment WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&eq.ID, &eq.OwnerID, &eq.Name, &eq.DailyRateCents, &eq.DamageDepositCents,
		&eq.DamageDepositPercentage, &eq.DepositRefundTimelineHrs, &eq.CreatedAt, &eq.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// Custom per-day rate overrides, keyed by calendar date.
	rateQuery := `SELECT to_char(rate_date, 'YYYY-MM-DD'), rate_cents FROM equipment_day_rates WHERE equipment_id = $1`
	rows, err := r.db.QueryContext(ctx, rateQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var day string
		var cents int64
		if err := rows.Scan(&day, &cents); err != nil {
			return nil, err
		}
		if eq.CustomDayRates == nil {
			eq.CustomDayRates = make(map[string]int64)
		}
		eq.CustomDayRates[day] = cents
	}
	return eq, rows.Err()
}
