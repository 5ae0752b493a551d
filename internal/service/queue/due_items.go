package queue

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/quietloop/reviser/internal/domain"
	"github.com/quietloop/reviser/internal/service/queue/sm2"
	"github.com/quietloop/reviser/pkg/ctxutil"
)

const defaultQueueLimit = 50

// GetDueItems returns the learner's review queue: every schedule due by the
// end of the learner's current day, in presentation order. UpcomingWindow
// replaces that horizon with an explicit now-relative one.
//
// Ordering is a total order over five keys: priority bucket (high first),
// overdue before upcoming, earlier review time first, then lower ease factor
// (the learner's weakest items), then schedule ID as the final tiebreak.
//
// The page is fetched in review-time order before ranking. When a learner has
// more due items than the limit, the queue is the soonest-due subset; a
// high-priority item due later in the window can fall outside it until the
// backlog shrinks.
func (s *Service) GetDueItems(ctx context.Context, input GetDueItemsInput) ([]DueItem, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultQueueLimit
	}

	now := s.clock.Now()

	until := now.Add(input.UpcomingWindow)
	if input.UpcomingWindow == 0 {
		tz, err := s.learnerTimezone(ctx, learnerID)
		if err != nil {
			return nil, err
		}
		until = NextDayStart(now, tz)
	}

	schedules, err := s.schedules.ListDue(ctx, learnerID, until, limit)
	if err != nil {
		return nil, fmt.Errorf("list due schedules: %w", err)
	}

	items := make([]DueItem, 0, len(schedules))
	for _, sched := range schedules {
		items = append(items, s.decorate(sched, now))
	}
	sortQueue(items)

	overdue := 0
	for _, it := range items {
		if it.Overdue {
			overdue++
		}
	}

	s.log.InfoContext(ctx, "review queue generated",
		slog.String("learner_id", learnerID.String()),
		slog.Int("total", len(items)),
		slog.Int("overdue", overdue),
	)

	return items, nil
}

// GetOverdueItems returns only reviews already past due, most neglected first.
func (s *Service) GetOverdueItems(ctx context.Context, input GetOverdueItemsInput) ([]DueItem, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = defaultQueueLimit
	}

	now := s.clock.Now()

	schedules, err := s.schedules.ListOverdue(ctx, learnerID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue schedules: %w", err)
	}

	items := make([]DueItem, 0, len(schedules))
	for _, sched := range schedules {
		items = append(items, s.decorate(sched, now))
	}
	// Repo returns oldest review time first already; keep that order.

	s.log.InfoContext(ctx, "overdue items listed",
		slog.String("learner_id", learnerID.String()),
		slog.Int("total", len(items)),
	)

	return items, nil
}

// learnerTimezone resolves the learner's configured timezone. Learners without
// stored settings get UTC.
func (s *Service) learnerTimezone(ctx context.Context, learnerID uuid.UUID) (*time.Location, error) {
	settings, err := s.settings.GetByLearnerID(ctx, learnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return time.UTC, nil
		}
		return nil, fmt.Errorf("load settings: %w", err)
	}
	return ParseTimezone(settings.Timezone), nil
}

// decorate computes the presentation metadata for one schedule. Retention
// runs through the policy curve so the configured decay applies.
func (s *Service) decorate(sched *domain.ReviewSchedule, now time.Time) DueItem {
	overdue := sched.IsOverdue(now)
	return DueItem{
		Schedule:        sched,
		Priority:        priorityBucket(sched, now),
		Overdue:         overdue,
		MinutesUntilDue: sched.MinutesUntilDue(now),
		Retention:       sm2.Retention(s.params, now.Sub(sched.UpdatedAt), sched.IntervalDays, sched.EaseFactor),
		Difficulty:      sched.DifficultyLevel(),
	}
}

// priorityBucket ranks a schedule for queue ordering. Overdue reviews, failure
// streaks and struggling items are urgent; reviews due within the hour are
// medium; everything else is low.
func priorityBucket(sched *domain.ReviewSchedule, now time.Time) domain.PriorityBucket {
	switch {
	case sched.IsOverdue(now),
		sched.ConsecutiveFailures > 0,
		sched.DifficultyLevel() == domain.DifficultyAdvanced:
		return domain.PriorityHigh
	case sched.NextReviewAt.Sub(now) <= time.Hour:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// sortQueue orders items by the five-key comparison. The ID tiebreak makes the
// order deterministic for identical schedules.
func sortQueue(items []DueItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Overdue != b.Overdue {
			return a.Overdue
		}
		if !a.Schedule.NextReviewAt.Equal(b.Schedule.NextReviewAt) {
			return a.Schedule.NextReviewAt.Before(b.Schedule.NextReviewAt)
		}
		if a.Schedule.EaseFactor != b.Schedule.EaseFactor {
			return a.Schedule.EaseFactor < b.Schedule.EaseFactor
		}
		return bytes.Compare(a.Schedule.ID[:], b.Schedule.ID[:]) < 0
	})
}
