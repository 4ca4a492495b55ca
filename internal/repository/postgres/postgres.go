package postgres

import (
	"database/sql"

	"gearshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.BookingRepository
	repository.InspectionRepository
	repository.EscrowRepository
	repository.ClaimRepository
	repository.EquipmentRepository
	repository.UserRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		BookingRepository:      NewBookingRepository(db),
		InspectionRepository:   NewInspectionRepository(db),
		EscrowRepository:       NewEscrowRepository(db),
		ClaimRepository:        NewClaimRepository(db),
		EquipmentRepository:    NewEquipmentRepository(db),
		UserRepository:         NewUserRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}
