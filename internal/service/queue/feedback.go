package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quietloop/reviser/internal/domain"
	"github.com/quietloop/reviser/internal/service/queue/sm2"
	"github.com/quietloop/reviser/pkg/ctxutil"
)

// SubmitFeedback records a review outcome and advances the schedule.
//
// The schedule update and the study record are written in one transaction.
// The update is version-checked: a concurrent submission for the same schedule
// surfaces as domain.ErrConflict and changes nothing.
func (s *Service) SubmitFeedback(ctx context.Context, input SubmitFeedbackInput) (*FeedbackResult, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()

	schedule, err := s.loadOwned(ctx, learnerID, input.ScheduleID)
	if err != nil {
		return nil, err
	}

	if schedule.State != domain.ScheduleStateActive {
		return nil, fmt.Errorf("schedule %s in state %s: %w", schedule.ID, schedule.State, domain.ErrInvalidState)
	}

	// First review gets the fixed initial grant; later reviews run the
	// recurrence against the schedule's current state.
	var calc sm2.Result
	if schedule.ReviewCount == 0 {
		calc, err = sm2.Initial(s.params, mapFeedback(input.Feedback), now)
	} else {
		calc, err = sm2.Next(s.params, sm2.State{
			IntervalDays:        schedule.IntervalDays,
			EaseFactor:          schedule.EaseFactor,
			ConsecutiveFailures: schedule.ConsecutiveFailures,
		}, mapFeedback(input.Feedback), now)
	}
	if err != nil {
		return nil, fmt.Errorf("compute transition: %w", err)
	}

	expectedVersion := schedule.Version
	prevInterval := schedule.IntervalDays
	prevEase := schedule.EaseFactor
	if err := schedule.ApplyTransition(calc.IntervalDays, calc.EaseFactor, calc.ConsecutiveFailures, calc.NextReviewAt, now); err != nil {
		return nil, err
	}
	record := domain.NewStudyRecord(schedule, input.Feedback, input.ResponseTimeSeconds, input.AnswerPayload, now)

	var updated *domain.ReviewSchedule
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var updateErr error
		updated, updateErr = s.schedules.Update(txCtx, schedule, expectedVersion)
		if updateErr != nil {
			return fmt.Errorf("update schedule: %w", updateErr)
		}

		if _, recErr := s.records.Create(txCtx, record); recErr != nil {
			return fmt.Errorf("create study record: %w", recErr)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "feedback recorded",
		slog.String("learner_id", learnerID.String()),
		slog.String("schedule_id", schedule.ID.String()),
		slog.String("feedback", string(input.Feedback)),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Int("review_count", updated.ReviewCount),
	)

	return &FeedbackResult{
		Schedule:             updated,
		Record:               record,
		PreviousIntervalDays: prevInterval,
		PreviousEaseFactor:   prevEase,
	}, nil
}

// GetHistory returns the study records of a schedule with pagination,
// newest first.
func (s *Service) GetHistory(ctx context.Context, input GetHistoryInput) ([]*domain.StudyRecord, int, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, 0, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	if _, err := s.loadOwned(ctx, learnerID, input.ScheduleID); err != nil {
		return nil, 0, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultQueueLimit
	}

	records, total, err := s.records.ListBySchedule(ctx, input.ScheduleID, limit, input.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list study records: %w", err)
	}

	s.log.InfoContext(ctx, "history retrieved",
		slog.String("learner_id", learnerID.String()),
		slog.String("schedule_id", input.ScheduleID.String()),
		slog.Int("count", len(records)),
		slog.Int("total", total),
	)

	return records, total, nil
}

// mapFeedback maps domain ReviewFeedback to the policy grade.
func mapFeedback(f domain.ReviewFeedback) sm2.Feedback {
	switch f {
	case domain.FeedbackAgain:
		return sm2.Again
	case domain.FeedbackHard:
		return sm2.Hard
	case domain.FeedbackEasy:
		return sm2.Easy
	default:
		return sm2.Good
	}
}
