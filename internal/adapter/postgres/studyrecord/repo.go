// Package studyrecord implements the StudyRecord repository using PostgreSQL.
// Records are append-only; aggregate statistics (counts, streaks, response time
// sums) are computed entirely in SQL.
package studyrecord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quietloop/reviser/internal/adapter/postgres"
	"github.com/quietloop/reviser/internal/domain"
)

// Repo provides study record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new study record repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const recordColumns = `id, learner_id, item_id, schedule_id, transition_seq, feedback,
is_correct, response_time_seconds, answer_payload, performance_score, study_pattern, created_at`

// ---------------------------------------------------------------------------
// Raw SQL
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO study_records (
    id, learner_id, item_id, schedule_id, transition_seq, feedback,
    is_correct, response_time_seconds, answer_payload, performance_score, study_pattern, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + recordColumns

const listByScheduleSQL = `
SELECT ` + recordColumns + `
FROM study_records
WHERE schedule_id = $1
ORDER BY transition_seq DESC
LIMIT $2 OFFSET $3`

const countByScheduleSQL = `SELECT count(*) FROM study_records WHERE schedule_id = $1`

const countTodaySQL = `
SELECT count(*) FROM study_records
WHERE learner_id = $1 AND created_at >= $2`

const sumResponseTimeTodaySQL = `
SELECT coalesce(sum(response_time_seconds), 0) FROM study_records
WHERE learner_id = $1 AND created_at >= $2`

const recentOutcomesSQL = `
SELECT is_correct FROM study_records
WHERE learner_id = $1
ORDER BY created_at DESC
LIMIT $2`

// getStreakDaysSQL groups by the learner's local calendar day so a review at
// 23:30 in Berlin counts toward the Berlin date, not the UTC one.
const getStreakDaysSQL = `
SELECT
    date_trunc('day', created_at AT TIME ZONE $4)::date AS review_date,
    count(*) AS review_count
FROM study_records
WHERE learner_id = $1 AND created_at >= $2
GROUP BY review_date
ORDER BY review_date DESC
LIMIT $3`

// transitionSeqConstraint is the unique index guarding exactly-once feedback
// per schedule transition. Keep in sync with the migration.
const transitionSeqConstraint = "study_records_schedule_transition_key"

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create appends a study record. A duplicate (schedule, transition) pair means
// the same feedback submission already landed and maps to domain.ErrConflict.
func (r *Repo) Create(ctx context.Context, rec *domain.StudyRecord) (*domain.StudyRecord, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var responseTime pgtype.Int4
	if rec.ResponseTimeSeconds != nil {
		responseTime = pgtype.Int4{Int32: int32(*rec.ResponseTimeSeconds), Valid: true}
	}

	row := querier.QueryRow(ctx, createSQL,
		rec.ID, rec.LearnerID, rec.ItemID, rec.ScheduleID, rec.TransitionSeq, rec.Feedback,
		rec.IsCorrect, responseTime, rec.AnswerPayload, rec.PerformanceScore, rec.StudyPattern, rec.CreatedAt,
	)

	created, err := scanRecord(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == transitionSeqConstraint {
			return nil, fmt.Errorf("study_record for schedule %s seq %d: %w", rec.ScheduleID, rec.TransitionSeq, domain.ErrConflict)
		}
		return nil, mapError(err, "study_record", rec.ID)
	}
	return created, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListBySchedule returns records for a schedule, newest transition first,
// with limit/offset pagination. Returns records, total count, and error.
func (r *Repo) ListBySchedule(ctx context.Context, scheduleID uuid.UUID, limit, offset int) ([]*domain.StudyRecord, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := querier.QueryRow(ctx, countByScheduleSQL, scheduleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count study_records by schedule: %w", err)
	}

	// limit=0 means "no limit" — use a large value for SQL LIMIT
	effectiveLimit := limit
	if effectiveLimit <= 0 {
		effectiveLimit = 2147483647
	}

	rows, err := querier.Query(ctx, listByScheduleSQL, scheduleID, effectiveLimit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list study_records by schedule: %w", err)
	}
	defer rows.Close()

	var records []*domain.StudyRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan study_record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate study_records: %w", err)
	}

	if records == nil {
		records = []*domain.StudyRecord{}
	}
	return records, total, nil
}

// CountToday returns the count of reviews for a learner since dayStart.
// dayStart is already in UTC.
func (r *Repo) CountToday(ctx context.Context, learnerID uuid.UUID, dayStart time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countTodaySQL, learnerID, dayStart).Scan(&count); err != nil {
		return 0, fmt.Errorf("count today reviews: %w", err)
	}
	return count, nil
}

// SumResponseTimeToday returns the total seconds spent on timed reviews since
// dayStart. Untimed reviews contribute nothing.
func (r *Repo) SumResponseTimeToday(ctx context.Context, learnerID uuid.UUID, dayStart time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var sum int
	if err := querier.QueryRow(ctx, sumResponseTimeTodaySQL, learnerID, dayStart).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum response time today: %w", err)
	}
	return sum, nil
}

// RecentOutcomes returns the correctness of the learner's most recent reviews,
// newest first, up to limit entries.
func (r *Repo) RecentOutcomes(ctx context.Context, learnerID uuid.UUID, limit int) ([]bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, recentOutcomesSQL, learnerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []bool
	for rows.Next() {
		var correct bool
		if err := rows.Scan(&correct); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		outcomes = append(outcomes, correct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}

	if outcomes == nil {
		outcomes = []bool{}
	}
	return outcomes, nil
}

// GetStreakDays returns daily review counts grouped by the learner's local
// day, ordered by date DESC, limited to lastNDays entries.
func (r *Repo) GetStreakDays(ctx context.Context, learnerID uuid.UUID, dayStart time.Time, lastNDays int, timezone string) ([]domain.DayReviewCount, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	from := dayStart.AddDate(0, 0, -lastNDays)

	rows, err := querier.Query(ctx, getStreakDaysSQL, learnerID, from, lastNDays, timezone)
	if err != nil {
		return nil, fmt.Errorf("get streak days: %w", err)
	}
	defer rows.Close()

	var counts []domain.DayReviewCount
	for rows.Next() {
		var dc domain.DayReviewCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan streak day: %w", err)
		}
		counts = append(counts, dc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate streak days: %w", err)
	}

	if counts == nil {
		counts = []domain.DayReviewCount{}
	}
	return counts, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

// scanRecord reads one row in recordColumns order.
func scanRecord(row pgx.Row) (*domain.StudyRecord, error) {
	var (
		rec          domain.StudyRecord
		feedback     string
		pattern      string
		responseTime pgtype.Int4
	)
	err := row.Scan(
		&rec.ID, &rec.LearnerID, &rec.ItemID, &rec.ScheduleID, &rec.TransitionSeq, &feedback,
		&rec.IsCorrect, &responseTime, &rec.AnswerPayload, &rec.PerformanceScore, &pattern, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Feedback = domain.ReviewFeedback(feedback)
	rec.StudyPattern = domain.StudyPattern(pattern)
	if responseTime.Valid {
		v := int(responseTime.Int32)
		rec.ResponseTimeSeconds = &v
	}
	return &rec, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity string, id uuid.UUID) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		case "40001": // serialization_failure
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrConflict)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}
