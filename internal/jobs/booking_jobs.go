package jobs

import (
	"context"
	"time"

	"gearshare-backend/internal/logger"
)

// ExpireClaimWindows completes bookings whose owner-review window elapsed
// with no claim filed, releasing the escrow. The sweep is idempotent: a
// booking is only completed once and a lost race is skipped. It also
// reconciles escrows left HELD by a payment fault mid-settlement.
func (jr *JobRunner) ExpireClaimWindows() {
	jr.runWithRecovery("ExpireClaimWindows", func() {
		ctx := context.Background()

		count, err := jr.services.Booking.ExpireClaimWindows(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to expire claim windows", "error", err)
			return
		}
		logger.Info("Expired claim windows", "completed", count)

		settled, err := jr.services.Booking.ReconcileEscrows(ctx)
		if err != nil {
			logger.Error("Failed to reconcile held escrows", "error", err)
			return
		}
		if settled > 0 {
			logger.Info("Reconciled held escrows", "settled", settled)
		}
	})
}

// SendReturnReminders emails renters whose active rental is due back today
// or overdue.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()

		query := `
			SELECT b.id, b.end_date, u.email, e.name
			FROM booking_requests b
			JOIN users u ON u.id = b.renter_id
			JOIN equipment e ON e.id = b.equipment_id
			WHERE b.status = 'ACTIVE'
			  AND b.end_date <= $1
		`

		rows, err := jr.db.QueryContext(ctx, query, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to query due rentals", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				bookingID     int64
				endDate       time.Time
				email         string
				equipmentName string
			)
			if err := rows.Scan(&bookingID, &endDate, &email, &equipmentName); err != nil {
				logger.Error("Failed to scan due rental", "error", err)
				continue
			}
			if err := jr.services.Email.SendReturnReminderNotification(ctx, email, equipmentName, endDate); err != nil {
				logger.Error("Failed to send return reminder", "booking_id", bookingID, "error", err)
				continue
			}
			logger.Debug("Sent return reminder", "booking_id", bookingID, "end_date", endDate)
			count++
		}
		if err := rows.Err(); err != nil {
			logger.Error("Error iterating due rentals", "error", err)
			return
		}

		logger.Info("Sent return reminders", "count", count)
	})
}
