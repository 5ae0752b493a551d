package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/quietloop/reviser/internal/domain"
	"github.com/quietloop/reviser/internal/service/queue/sm2"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type scheduleRepo interface {
	Create(ctx context.Context, schedule *domain.ReviewSchedule) (*domain.ReviewSchedule, error)
	GetByID(ctx context.Context, scheduleID uuid.UUID) (*domain.ReviewSchedule, error)
	Update(ctx context.Context, schedule *domain.ReviewSchedule, expectedVersion int) (*domain.ReviewSchedule, error)
	Delete(ctx context.Context, learnerID, scheduleID uuid.UUID) error
	ListDue(ctx context.Context, learnerID uuid.UUID, until time.Time, limit int) ([]*domain.ReviewSchedule, error)
	ListOverdue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewSchedule, error)
	CountActive(ctx context.Context, learnerID uuid.UUID) (int, error)
	CountDueBefore(ctx context.Context, learnerID uuid.UUID, before time.Time) (int, error)
	CountOverdue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error)
}

type recordRepo interface {
	Create(ctx context.Context, record *domain.StudyRecord) (*domain.StudyRecord, error)
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID, limit, offset int) ([]*domain.StudyRecord, int, error)
	CountToday(ctx context.Context, learnerID uuid.UUID, dayStart time.Time) (int, error)
	SumResponseTimeToday(ctx context.Context, learnerID uuid.UUID, dayStart time.Time) (int, error)
	RecentOutcomes(ctx context.Context, learnerID uuid.UUID, limit int) ([]bool, error)
	GetStreakDays(ctx context.Context, learnerID uuid.UUID, dayStart time.Time, lastNDays int, timezone string) ([]domain.DayReviewCount, error)
}

type settingsRepo interface {
	GetByLearnerID(ctx context.Context, learnerID uuid.UUID) (*domain.NotificationSettings, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the review queue business logic: scheduling items,
// recording feedback transitions, priority ordering and learner statistics.
type Service struct {
	schedules scheduleRepo
	records   recordRepo
	settings  settingsRepo
	tx        txManager
	log       *slog.Logger
	clock     clockwork.Clock
	params    sm2.Params
}

// NewService creates a new review queue service.
func NewService(
	log *slog.Logger,
	schedules scheduleRepo,
	records recordRepo,
	settings settingsRepo,
	tx txManager,
	clock clockwork.Clock,
	params sm2.Params,
) (*Service, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduling params: %w", err)
	}

	return &Service{
		schedules: schedules,
		records:   records,
		settings:  settings,
		tx:        tx,
		log:       log.With("service", "queue"),
		clock:     clock,
		params:    params,
	}, nil
}

// loadOwned fetches a schedule and verifies the caller owns it.
func (s *Service) loadOwned(ctx context.Context, learnerID, scheduleID uuid.UUID) (*domain.ReviewSchedule, error) {
	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule.LearnerID != learnerID {
		return nil, domain.ErrUnauthorized
	}
	return schedule, nil
}
