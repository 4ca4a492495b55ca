package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/repository"
)

// notifier is the subscriber side of the lifecycle events: every committed
// transition emits an event, which lands as a persisted notification row for
// the recipient. Delivery is best-effort and never fails the transition.
type notifier struct {
	noteRepo repository.NotificationRepository
}

func newNotifier(noteRepo repository.NotificationRepository) *notifier {
	return &notifier{noteRepo: noteRepo}
}

// publish records the event and fans it out to the recipient's notification
// feed. Errors are logged, not returned.
func (n *notifier) publish(ctx context.Context, typ domain.EventType, b *domain.BookingRequest, actorID, recipientID int64, title, message string) {
	evt := domain.Event{
		ID:        uuid.NewString(),
		Type:      typ,
		BookingID: b.ID,
		ActorID:   actorID,
		Status:    b.Status,
		Attributes: map[string]string{
			"booking_id": fmt.Sprintf("%d", b.ID),
			"type":       string(typ),
		},
		OccurredAt: time.Now().UTC(),
	}
	logger.InfoContext(ctx, "booking event",
		"event_id", evt.ID, "event_type", evt.Type, "booking_id", evt.BookingID, "status", evt.Status)

	note := &domain.Notification{
		UserID:     recipientID,
		Title:      title,
		Message:    message,
		Attributes: evt.Attributes,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.ErrorContext(ctx, "failed to persist notification",
			"event_id", evt.ID, "user_id", recipientID, "error", err)
	}
}
