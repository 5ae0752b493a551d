package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quietloop/reviser/internal/domain"
)

// SeedSchedule creates an ACTIVE review schedule due now for a fresh item.
// Returns the filled domain.ReviewSchedule.
func SeedSchedule(t *testing.T, pool *pgxpool.Pool, learnerID uuid.UUID) domain.ReviewSchedule {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.ReviewSchedule{
		ID:           uuid.New(),
		LearnerID:    learnerID,
		ItemID:       uuid.New(),
		State:        domain.ScheduleStateActive,
		IntervalDays: 1,
		EaseFactor:   2.5,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	insertSchedule(t, pool, ctx, &s)
	return s
}

// SeedScheduleDueAt creates an ACTIVE schedule with an explicit review time.
func SeedScheduleDueAt(t *testing.T, pool *pgxpool.Pool, learnerID uuid.UUID, dueAt time.Time) domain.ReviewSchedule {
	t.Helper()

	s := SeedSchedule(t, pool, learnerID)
	s.NextReviewAt = dueAt.UTC().Truncate(time.Microsecond)

	_, err := pool.Exec(context.Background(),
		`UPDATE review_schedules SET next_review_at = $2 WHERE id = $1`,
		s.ID, s.NextReviewAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedScheduleDueAt update: %v", err)
	}
	return s
}

// SeedRecord creates a study record for the schedule's next transition and
// bumps the seed sequence so consecutive calls never collide.
func SeedRecord(t *testing.T, pool *pgxpool.Pool, s *domain.ReviewSchedule, seq int, feedback domain.ReviewFeedback, createdAt time.Time) domain.StudyRecord {
	t.Helper()
	ctx := context.Background()

	rec := domain.StudyRecord{
		ID:               uuid.New(),
		LearnerID:        s.LearnerID,
		ItemID:           s.ItemID,
		ScheduleID:       s.ID,
		TransitionSeq:    seq,
		Feedback:         feedback,
		IsCorrect:        !feedback.IsFailure(),
		PerformanceScore: 80,
		StudyPattern:     domain.StudyPatternUntimed,
		CreatedAt:        createdAt.UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO study_records (id, learner_id, item_id, schedule_id, transition_seq, feedback,
		 is_correct, response_time_seconds, answer_payload, performance_score, study_pattern, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.LearnerID, rec.ItemID, rec.ScheduleID, rec.TransitionSeq, rec.Feedback,
		rec.IsCorrect, nil, nil, rec.PerformanceScore, rec.StudyPattern, rec.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedRecord insert: %v", err)
	}
	return rec
}

func insertSchedule(t *testing.T, pool *pgxpool.Pool, ctx context.Context, s *domain.ReviewSchedule) {
	t.Helper()

	_, err := pool.Exec(ctx,
		`INSERT INTO review_schedules (id, learner_id, item_id, state, interval_days, ease_factor,
		 next_review_at, review_count, consecutive_failures, version, completed_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.LearnerID, s.ItemID, s.State, s.IntervalDays, s.EaseFactor,
		s.NextReviewAt, s.ReviewCount, s.ConsecutiveFailures, s.Version,
		s.CompletedAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: insert schedule: %v", err)
	}
}
