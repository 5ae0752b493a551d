package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quietloop/reviser/internal/domain"
	"github.com/quietloop/reviser/pkg/ctxutil"
)

const recentOutcomeWindow = 20

// Daily review counts separating the productivity tiers.
const (
	focusedThreshold = 20
	intenseThreshold = 60
)

// GetStatistics returns aggregated review metrics for the learner. Day
// boundaries follow the learner's configured timezone; learners without
// stored settings get the defaults (UTC).
func (s *Service) GetStatistics(ctx context.Context) (domain.Statistics, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return domain.Statistics{}, domain.ErrUnauthorized
	}

	now := s.clock.Now()

	settings, err := s.settings.GetByLearnerID(ctx, learnerID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Statistics{}, fmt.Errorf("load settings: %w", err)
		}
		defaults := domain.DefaultNotificationSettings(learnerID)
		settings = &defaults
	}

	tz := ParseTimezone(settings.Timezone)
	dayStart := DayStart(now, tz)
	nextDayStart := NextDayStart(now, tz)

	totalScheduled, err := s.schedules.CountActive(ctx, learnerID)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("count active schedules: %w", err)
	}

	dueRemaining, err := s.schedules.CountDueBefore(ctx, learnerID, nextDayStart)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("count due today: %w", err)
	}

	overdueCount, err := s.schedules.CountOverdue(ctx, learnerID, now)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("count overdue: %w", err)
	}

	completedToday, err := s.records.CountToday(ctx, learnerID, dayStart)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("count reviews today: %w", err)
	}

	timeSpent, err := s.records.SumResponseTimeToday(ctx, learnerID, dayStart)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("sum response time: %w", err)
	}

	outcomes, err := s.records.RecentOutcomes(ctx, learnerID, recentOutcomeWindow)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("recent outcomes: %w", err)
	}

	streakDays, err := s.records.GetStreakDays(ctx, learnerID, dayStart, 365, settings.Timezone)
	if err != nil {
		return domain.Statistics{}, fmt.Errorf("get streak days: %w", err)
	}

	localNow := now.In(tz)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, tz)
	streak := calculateStreak(streakDays, today)

	stats := domain.Statistics{
		TotalScheduled:        totalScheduled,
		DueToday:              dueRemaining + completedToday,
		OverdueCount:          overdueCount,
		CompletedToday:        completedToday,
		StreakDays:            streak,
		AverageRetention:      averageRetention(outcomes),
		TotalTimeSpentSeconds: timeSpent,
		ProductivityTier:      productivityTier(completedToday),
	}
	if stats.DueToday > 0 {
		stats.CompletionRate = float64(completedToday) / float64(stats.DueToday) * 100
	}
	if timeSpent > 0 {
		stats.Efficiency = float64(completedToday) / (float64(timeSpent) / 60)
	}

	s.log.InfoContext(ctx, "statistics calculated",
		slog.String("learner_id", learnerID.String()),
		slog.Int("total_scheduled", totalScheduled),
		slog.Int("due_today", stats.DueToday),
		slog.Int("completed_today", completedToday),
		slog.Int("streak", streak),
	)

	return stats, nil
}

// averageRetention is the percentage of correct answers over the most recent
// records; zero when there is no history yet.
func averageRetention(outcomes []bool) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	correct := 0
	for _, ok := range outcomes {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(outcomes)) * 100
}

func productivityTier(completedToday int) domain.ProductivityTier {
	switch {
	case completedToday == 0:
		return domain.TierIdle
	case completedToday < focusedThreshold:
		return domain.TierCasual
	case completedToday < intenseThreshold:
		return domain.TierFocused
	default:
		return domain.TierIntense
	}
}

// calculateStreak counts consecutive days with at least one review, walking
// backward from today. days must be sorted DESC by date. A day without
// reviews yet today does not break the streak; the walk starts at yesterday.
func calculateStreak(days []domain.DayReviewCount, today time.Time) int {
	if len(days) == 0 {
		return 0
	}

	sameDay := func(a, b time.Time) bool {
		return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
	}

	expected := today
	if !sameDay(days[0].Date, today) {
		expected = today.AddDate(0, 0, -1)
	}

	streak := 0
	for _, d := range days {
		if !sameDay(d.Date, expected) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}
