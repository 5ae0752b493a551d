package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/quietloop/reviser/internal/domain"
)

const defaultOverdueScanLimit = 1000

// ScheduleReminderInput holds the parameters for enqueueing one reminder.
type ScheduleReminderInput struct {
	RecipientID uuid.UUID
	Category    domain.NotificationCategory
	Urgent      bool
	Title       string
	Body        string
	Data        []byte
	ScheduledAt time.Time // zero means now
}

// Validate checks all fields and collects all errors.
func (i *ScheduleReminderInput) Validate() error {
	var errs []domain.FieldError

	if i.RecipientID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "recipient_id", Message: "required"})
	}
	if !i.Category.IsValid() {
		errs = append(errs, domain.FieldError{Field: "category", Message: "unknown category"})
	}
	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ScheduleReminder enqueues a SCHEDULED message for a later queue pass.
// Policy checks happen at delivery time, not here.
func (m *Manager) ScheduleReminder(ctx context.Context, input ScheduleReminderInput) (*domain.NotificationMessage, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	at := input.ScheduledAt
	if at.IsZero() {
		at = m.clock.Now()
	}

	msg := domain.NewNotificationMessage(input.RecipientID, input.Category, input.Urgent, input.Title, input.Body, input.Data, at)

	queued, err := m.messages.Enqueue(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("enqueue message: %w", err)
	}

	m.log.InfoContext(ctx, "reminder scheduled",
		slog.String("message_id", queued.ID.String()),
		slog.String("recipient_id", input.RecipientID.String()),
		slog.String("category", string(input.Category)),
		slog.Time("scheduled_at", at),
	)

	return queued, nil
}

// ScanOverdue enqueues one OVERDUE_ALERT per learner with overdue reviews.
// A learner who already has an overdue alert from today, in any status, is
// skipped so repeated scans stay quiet. limit caps the number of learners per
// scan, 0 meaning the default. Returns the number of alerts enqueued.
func (m *Manager) ScanOverdue(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = defaultOverdueScanLimit
	}

	now := m.clock.Now()

	summaries, err := m.overdue.ListOverdueLearners(ctx, now, limit)
	if err != nil {
		return 0, fmt.Errorf("list overdue learners: %w", err)
	}

	enqueued := 0
	for _, summary := range summaries {
		settings, err := m.settingsOrDefault(ctx, summary.LearnerID)
		if err != nil {
			m.log.ErrorContext(ctx, "load settings for overdue scan",
				slog.String("learner_id", summary.LearnerID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}

		tz, tzErr := time.LoadLocation(settings.Timezone)
		if tzErr != nil {
			tz = time.UTC
		}
		local := now.In(tz)
		dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz).UTC()

		exists, err := m.messages.ExistsScheduledToday(ctx, summary.LearnerID, domain.CategoryOverdueAlert, dayStart)
		if err != nil {
			m.log.ErrorContext(ctx, "check existing overdue alert",
				slog.String("learner_id", summary.LearnerID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		if exists {
			continue
		}

		msg := domain.NewNotificationMessage(
			summary.LearnerID,
			domain.CategoryOverdueAlert,
			false,
			"Reviews waiting",
			overdueBody(summary.Count),
			nil,
			now,
		)
		if _, err := m.messages.Enqueue(ctx, msg); err != nil {
			m.log.ErrorContext(ctx, "enqueue overdue alert",
				slog.String("learner_id", summary.LearnerID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		enqueued++
	}

	m.log.InfoContext(ctx, "overdue scan completed",
		slog.Int("learners", len(summaries)),
		slog.Int("enqueued", enqueued),
	)

	return enqueued, nil
}

func overdueBody(count int) string {
	if count == 1 {
		return "You have 1 overdue review."
	}
	return fmt.Sprintf("You have %d overdue reviews.", count)
}
