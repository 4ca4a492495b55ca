package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"gearshare-backend/internal/logger"
)

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(ctx context.Context, toEmail, subject, body string) error {
	logger.ExternalServiceCall("sendgrid", "send", "to", toEmail, "subject", subject)

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "send", err, "to", toEmail)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
		logger.ExternalServiceResult("sendgrid", "send", err, "to", toEmail)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "send", nil, "to", toEmail)
	return nil
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func (s *emailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, equipmentName string, days int) error {
	subject := fmt.Sprintf("New booking request for %s", equipmentName)
	body := fmt.Sprintf("Hello,\n\n%s requested to rent %s for %d day(s).\n\nReview the request in your dashboard to approve or decline.\n\nThe GearShare Team", renterName, equipmentName, days)
	return s.send(ctx, ownerEmail, subject, body)
}

func (s *emailService) SendBookingApprovalNotification(ctx context.Context, renterEmail, equipmentName string, totalCents int64) error {
	subject := fmt.Sprintf("Booking approved: %s", equipmentName)
	body := fmt.Sprintf("Hello,\n\nYour booking for %s was approved. %s has been charged and is held in escrow.\n\nSubmit the pickup inspection when you collect the equipment.\n\nThe GearShare Team", equipmentName, dollars(totalCents))
	return s.send(ctx, renterEmail, subject, body)
}

func (s *emailService) SendBookingCancellationNotification(ctx context.Context, email, equipmentName, reason string) error {
	subject := fmt.Sprintf("Booking cancelled: %s", equipmentName)
	body := fmt.Sprintf("Hello,\n\nThe booking for %s was cancelled. Any captured payment is refunded in full.", equipmentName)
	if reason != "" {
		body += fmt.Sprintf("\n\nReason: %s", reason)
	}
	body += "\n\nThe GearShare Team"
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendReturnStartedNotification(ctx context.Context, ownerEmail, renterName, equipmentName string) error {
	subject := fmt.Sprintf("Return started: %s", equipmentName)
	body := fmt.Sprintf("Hello,\n\n%s started the return of %s. You will be notified when the return inspection is submitted.\n\nThe GearShare Team", renterName, equipmentName)
	return s.send(ctx, ownerEmail, subject, body)
}

func (s *emailService) SendReturnSubmittedNotification(ctx context.Context, ownerEmail, equipmentName string, windowHours int) error {
	subject := fmt.Sprintf("Return inspection submitted: %s", equipmentName)
	body := fmt.Sprintf("Hello,\n\nThe return inspection for %s is in. You have %d hours to review it and file a damage claim; after that the deposit is refunded automatically.\n\nThe GearShare Team", equipmentName, windowHours)
	return s.send(ctx, ownerEmail, subject, body)
}

func (s *emailService) SendBookingCompletionNotification(ctx context.Context, email, role, equipmentName string, amountCents int64) error {
	subject := fmt.Sprintf("Booking completed: %s", equipmentName)
	var body string
	if role == "owner" {
		body = fmt.Sprintf("Hello,\n\nThe booking for %s is complete. %s has been released to you.\n\nThe GearShare Team", equipmentName, dollars(amountCents))
	} else {
		body = fmt.Sprintf("Hello,\n\nThe booking for %s is complete. Your deposit refund of %s is on its way.\n\nThe GearShare Team", equipmentName, dollars(amountCents))
	}
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendClaimFiledNotification(ctx context.Context, renterEmail, equipmentName string, estimatedCents int64) error {
	subject := fmt.Sprintf("Damage claim filed: %s", equipmentName)
	body := fmt.Sprintf("Hello,\n\nThe owner filed a damage claim on your booking for %s with an estimated cost of %s. Funds stay in escrow until the claim is resolved.\n\nThe GearShare Team", equipmentName, dollars(estimatedCents))
	return s.send(ctx, renterEmail, subject, body)
}

func (s *emailService) SendClaimResolvedNotification(ctx context.Context, email, equipmentName string, resolution string, deductionCents int64) error {
	subject := fmt.Sprintf("Damage claim %s: %s", resolution, equipmentName)
	body := fmt.Sprintf("Hello,\n\nThe damage claim on the booking for %s is %s.", equipmentName, resolution)
	if deductionCents > 0 {
		body += fmt.Sprintf(" %s was deducted from the deposit.", dollars(deductionCents))
	}
	body += "\n\nThe GearShare Team"
	return s.send(ctx, email, subject, body)
}

func (s *emailService) SendReturnReminderNotification(ctx context.Context, renterEmail, equipmentName string, endDate time.Time) error {
	subject := fmt.Sprintf("Return reminder: %s", equipmentName)
	body := fmt.Sprintf("Hello,\n\nYour rental of %s is due back on %s. Start the return and submit the return inspection to get your deposit back.\n\nThe GearShare Team", equipmentName, endDate.Format("2006-01-02"))
	return s.send(ctx, renterEmail, subject, body)
}
