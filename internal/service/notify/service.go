package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/quietloop/reviser/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type settingsRepo interface {
	GetByLearnerID(ctx context.Context, learnerID uuid.UUID) (*domain.NotificationSettings, error)
	Upsert(ctx context.Context, settings domain.NotificationSettings) (*domain.NotificationSettings, error)
}

type messageRepo interface {
	Enqueue(ctx context.Context, msg *domain.NotificationMessage) (*domain.NotificationMessage, error)
	ListPending(ctx context.Context, until time.Time, limit int) ([]*domain.NotificationMessage, error)
	// MarkSent and MarkSuppressed finalize a pending message and report whether
	// this call won. A false return means another batch got there first.
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error)
	MarkSuppressed(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	MarkFailed(ctx context.Context, id uuid.UUID) error
	ExistsScheduledToday(ctx context.Context, recipientID uuid.UUID, category domain.NotificationCategory, dayStart time.Time) (bool, error)
}

type overdueRepo interface {
	ListOverdueLearners(ctx context.Context, now time.Time, limit int) ([]domain.OverdueSummary, error)
}

type sender interface {
	Send(ctx context.Context, msg *domain.NotificationMessage, channels []domain.DeliveryChannel) error
}

// ---------------------------------------------------------------------------
// Manager
// ---------------------------------------------------------------------------

// Manager implements the notification business logic: learner preferences,
// the delivery policy and idempotent batch processing of the message queue.
type Manager struct {
	settings settingsRepo
	messages messageRepo
	overdue  overdueRepo
	sender   sender
	log      *slog.Logger
	clock    clockwork.Clock
}

// NewManager creates a new notification manager.
func NewManager(
	log *slog.Logger,
	settings settingsRepo,
	messages messageRepo,
	overdue overdueRepo,
	snd sender,
	clock clockwork.Clock,
) *Manager {
	return &Manager{
		settings: settings,
		messages: messages,
		overdue:  overdue,
		sender:   snd,
		log:      log.With("service", "notify"),
		clock:    clock,
	}
}

// settingsOrDefault loads the learner's stored settings, falling back to the
// defaults when nothing was ever saved.
func (m *Manager) settingsOrDefault(ctx context.Context, learnerID uuid.UUID) (domain.NotificationSettings, error) {
	stored, err := m.settings.GetByLearnerID(ctx, learnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultNotificationSettings(learnerID), nil
		}
		return domain.NotificationSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return *stored, nil
}
