package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quietloop/reviser/internal/domain"
	"github.com/quietloop/reviser/pkg/ctxutil"
)

// ScheduleItem puts an item on the learner's review queue, due immediately.
// At most one schedule exists per (learner, item) pair; a second attempt
// surfaces as domain.ErrAlreadyExists.
func (s *Service) ScheduleItem(ctx context.Context, input ScheduleItemInput) (*domain.ReviewSchedule, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	schedule := domain.NewReviewSchedule(learnerID, input.ItemID, s.params.DefaultEase, now)

	created, err := s.schedules.Create(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}

	s.log.InfoContext(ctx, "item scheduled",
		slog.String("learner_id", learnerID.String()),
		slog.String("item_id", input.ItemID.String()),
		slog.String("schedule_id", created.ID.String()),
	)

	return created, nil
}

// PostponeReview pushes a review out by the given duration, bounded to 30 days
// per call.
func (s *Service) PostponeReview(ctx context.Context, input AdjustScheduleInput) (*domain.ReviewSchedule, error) {
	return s.adjust(ctx, input, "review postponed", func(sched *domain.ReviewSchedule) error {
		return sched.Postpone(input.By, s.clock.Now())
	})
}

// AdvanceReview pulls a review in by the given duration, bounded to 7 days per
// call. The review never moves into the past.
func (s *Service) AdvanceReview(ctx context.Context, input AdjustScheduleInput) (*domain.ReviewSchedule, error) {
	return s.adjust(ctx, input, "review advanced", func(sched *domain.ReviewSchedule) error {
		return sched.Advance(input.By, s.clock.Now())
	})
}

func (s *Service) adjust(ctx context.Context, input AdjustScheduleInput, msg string, apply func(*domain.ReviewSchedule) error) (*domain.ReviewSchedule, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	schedule, err := s.loadOwned(ctx, learnerID, input.ScheduleID)
	if err != nil {
		return nil, err
	}

	expectedVersion := schedule.Version
	if err := apply(schedule); err != nil {
		return nil, err
	}

	updated, err := s.schedules.Update(ctx, schedule, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	s.log.InfoContext(ctx, msg,
		slog.String("learner_id", learnerID.String()),
		slog.String("schedule_id", schedule.ID.String()),
		slog.Time("next_review_at", updated.NextReviewAt),
	)

	return updated, nil
}

// MarkCompleted retires a schedule: the item is considered learned and stops
// appearing in the queue. Its review history is kept.
func (s *Service) MarkCompleted(ctx context.Context, input RemoveItemInput) (*domain.ReviewSchedule, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	schedule, err := s.loadOwned(ctx, learnerID, input.ScheduleID)
	if err != nil {
		return nil, err
	}

	expectedVersion := schedule.Version
	if err := schedule.MarkCompleted(s.clock.Now()); err != nil {
		return nil, err
	}

	updated, err := s.schedules.Update(ctx, schedule, expectedVersion)
	if err != nil {
		return nil, fmt.Errorf("update schedule: %w", err)
	}

	s.log.InfoContext(ctx, "schedule completed",
		slog.String("learner_id", learnerID.String()),
		slog.String("schedule_id", schedule.ID.String()),
		slog.Int("review_count", updated.ReviewCount),
	)

	return updated, nil
}

// RemoveItem takes an item off the queue. Schedules that were ever completed
// hold review history and are archived; so is any removal that asks to
// preserve statistics. Only a never-completed schedule without that flag is
// hard-deleted together with its records.
func (s *Service) RemoveItem(ctx context.Context, input RemoveItemInput) error {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	schedule, err := s.loadOwned(ctx, learnerID, input.ScheduleID)
	if err != nil {
		return err
	}

	if input.PreserveStatistics || !schedule.CanPurge() {
		expectedVersion := schedule.Version
		if err := schedule.Archive(s.clock.Now()); err != nil {
			return err
		}
		if _, err := s.schedules.Update(ctx, schedule, expectedVersion); err != nil {
			return fmt.Errorf("archive schedule: %w", err)
		}

		s.log.InfoContext(ctx, "schedule archived",
			slog.String("learner_id", learnerID.String()),
			slog.String("schedule_id", schedule.ID.String()),
		)
		return nil
	}

	if err := s.schedules.Delete(ctx, learnerID, schedule.ID); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	s.log.InfoContext(ctx, "schedule purged",
		slog.String("learner_id", learnerID.String()),
		slog.String("schedule_id", schedule.ID.String()),
	)
	return nil
}
