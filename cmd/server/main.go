package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	httpapi "gearshare-backend/internal/api/http"
	"gearshare-backend/internal/config"
	"gearshare-backend/internal/jobs"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/payment"
	"gearshare-backend/internal/repository/postgres"
	"gearshare-backend/internal/scheduler"
	"gearshare-backend/internal/security"
	"gearshare-backend/internal/service"
	"gearshare-backend/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting GearShare Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if err := runMigrations(db, cfg.Database.MigrationsDir); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := postgres.NewStore(db)

	tokenValidator := security.NewTokenValidator(cfg.JWT.Secret)

	var evidenceStorage storage.EvidenceStorage
	switch cfg.Storage.Type {
	case "", "local":
		logger.Info("Using local evidence storage", "upload_dir", cfg.Storage.UploadDir)
		local, err := storage.NewLocalEvidenceStorage(cfg.Storage.UploadDir)
		if err != nil {
			logger.Error("Failed to initialize evidence storage", "error", err)
			log.Fatalf("Failed to initialize evidence storage: %v", err)
		}
		evidenceStorage = local
	default:
		logger.Error("Unsupported storage type", "type", cfg.Storage.Type)
		log.Fatalf("Storage type '%s' not yet implemented", cfg.Storage.Type)
	}

	paymentProvider := payment.NewMockProvider()

	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	availabilitySvc := service.NewAvailabilityService(store.BookingRepository, store.EquipmentRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.EquipmentRepository,
		store.EscrowRepository,
		store.ClaimRepository,
		store.InspectionRepository,
		store.UserRepository,
		store.NotificationRepository,
		availabilitySvc,
		paymentProvider,
		emailSvc,
		cfg.Booking.OwnerFeeSharePercent,
	)
	inspectionSvc := service.NewInspectionService(
		store.BookingRepository,
		store.InspectionRepository,
		store.EquipmentRepository,
		store.UserRepository,
		store.NotificationRepository,
		emailSvc,
	)
	claimSvc := service.NewClaimService(
		store.BookingRepository,
		store.ClaimRepository,
		store.InspectionRepository,
		store.EquipmentRepository,
		store.EscrowRepository,
		store.UserRepository,
		store.NotificationRepository,
		paymentProvider,
		emailSvc,
		cfg.Booking.OwnerFeeSharePercent,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Bookings:      bookingSvc,
		Inspections:   inspectionSvc,
		Claims:        claimSvc,
		Availability:  availabilitySvc,
		Notifications: noteSvc,
		Evidence:      evidenceStorage,
		Validator:     tokenValidator,
		MaxUploadMB:   cfg.Storage.MaxFileSizeMB,
	})

	jobRunner := jobs.NewJobRunner(db, &jobs.Services{
		Booking: bookingSvc,
		Email:   emailSvc,
	}, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
}

func runMigrations(db *sql.DB, migrationsDir string) error {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	logger.Info("Database migrations applied")
	return nil
}
