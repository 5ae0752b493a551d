// Package schedule implements the ReviewSchedule repository using PostgreSQL.
// Fixed-shape queries use raw SQL; listing and counting build their predicates
// with squirrel so due/overdue filters share one code path.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quietloop/reviser/internal/adapter/postgres"
	"github.com/quietloop/reviser/internal/domain"
)

// Repo provides review schedule persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review schedule repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// scheduleColumns is the canonical column order for every SELECT and RETURNING
// clause in this package. scanSchedule depends on it.
const scheduleColumns = `id, learner_id, item_id, state, interval_days, ease_factor,
next_review_at, review_count, consecutive_failures, version, completed_at, created_at, updated_at`

// ---------------------------------------------------------------------------
// Raw SQL for fixed-shape queries
// ---------------------------------------------------------------------------

const createSQL = `
INSERT INTO review_schedules (
    id, learner_id, item_id, state, interval_days, ease_factor,
    next_review_at, review_count, consecutive_failures, version, completed_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + scheduleColumns

const getByIDSQL = `
SELECT ` + scheduleColumns + `
FROM review_schedules
WHERE id = $1`

const getByLearnerAndItemSQL = `
SELECT ` + scheduleColumns + `
FROM review_schedules
WHERE learner_id = $1 AND item_id = $2`

// updateSQL increments version itself; the WHERE clause carries the version the
// caller observed. Zero rows affected on an existing schedule means a
// concurrent transition won.
const updateSQL = `
UPDATE review_schedules SET
    state = $3,
    interval_days = $4,
    ease_factor = $5,
    next_review_at = $6,
    review_count = $7,
    consecutive_failures = $8,
    version = version + 1,
    completed_at = $9,
    updated_at = $10
WHERE id = $1 AND version = $2
RETURNING ` + scheduleColumns

const deleteSQL = `DELETE FROM review_schedules WHERE id = $1 AND learner_id = $2`

const existsSQL = `SELECT EXISTS (SELECT 1 FROM review_schedules WHERE id = $1)`

const listOverdueLearnersSQL = `
SELECT learner_id, count(*) AS overdue_count, min(next_review_at) AS oldest_due
FROM review_schedules
WHERE state = 'ACTIVE' AND next_review_at < $1
GROUP BY learner_id
ORDER BY oldest_due ASC
LIMIT $2`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new schedule. A second schedule for the same
// (learner, item) pair maps to domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, s *domain.ReviewSchedule) (*domain.ReviewSchedule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		s.ID, s.LearnerID, s.ItemID, s.State, s.IntervalDays, s.EaseFactor,
		s.NextReviewAt, s.ReviewCount, s.ConsecutiveFailures, s.Version,
		s.CompletedAt, s.CreatedAt, s.UpdatedAt,
	)

	created, err := scanSchedule(row)
	if err != nil {
		return nil, mapError(err, "review_schedule", s.ID)
	}
	return created, nil
}

// Update persists a schedule transition guarded by optimistic concurrency.
// expectedVersion is the version the caller loaded; a mismatch on an existing
// schedule returns domain.ErrConflict, a missing schedule domain.ErrNotFound.
func (r *Repo) Update(ctx context.Context, s *domain.ReviewSchedule, expectedVersion int) (*domain.ReviewSchedule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, updateSQL,
		s.ID, expectedVersion,
		s.State, s.IntervalDays, s.EaseFactor, s.NextReviewAt,
		s.ReviewCount, s.ConsecutiveFailures, s.CompletedAt, s.UpdatedAt,
	)

	updated, err := scanSchedule(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapError(err, "review_schedule", s.ID)
	}

	// Zero rows: distinguish a stale version from a vanished schedule.
	var exists bool
	if err := querier.QueryRow(ctx, existsSQL, s.ID).Scan(&exists); err != nil {
		return nil, mapError(err, "review_schedule", s.ID)
	}
	if exists {
		return nil, fmt.Errorf("review_schedule %s version %d: %w", s.ID, expectedVersion, domain.ErrConflict)
	}
	return nil, fmt.Errorf("review_schedule %s: %w", s.ID, domain.ErrNotFound)
}

// Delete hard-deletes a schedule owned by the learner.
// Returns domain.ErrNotFound if 0 rows affected.
func (r *Repo) Delete(ctx context.Context, learnerID, scheduleID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, deleteSQL, scheduleID, learnerID)
	if err != nil {
		return mapError(err, "review_schedule", scheduleID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("review_schedule %s: %w", scheduleID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a schedule by its ID.
func (r *Repo) GetByID(ctx context.Context, scheduleID uuid.UUID) (*domain.ReviewSchedule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSchedule(querier.QueryRow(ctx, getByIDSQL, scheduleID))
	if err != nil {
		return nil, mapError(err, "review_schedule", scheduleID)
	}
	return s, nil
}

// GetByLearnerAndItem returns the unique schedule for a (learner, item) pair.
func (r *Repo) GetByLearnerAndItem(ctx context.Context, learnerID, itemID uuid.UUID) (*domain.ReviewSchedule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSchedule(querier.QueryRow(ctx, getByLearnerAndItemSQL, learnerID, itemID))
	if err != nil {
		return nil, mapError(err, "review_schedule", itemID)
	}
	return s, nil
}

// ListDue returns active schedules due at or before `until`, soonest first.
// The limit cuts by review time; callers re-ranking the page see only the
// soonest-due subset of an over-limit backlog.
func (r *Repo) ListDue(ctx context.Context, learnerID uuid.UUID, until time.Time, limit int) ([]*domain.ReviewSchedule, error) {
	return r.list(ctx, activeFor(learnerID).Where(squirrel.LtOrEq{"next_review_at": until}), limit)
}

// ListOverdue returns active schedules whose review time has passed, oldest first.
func (r *Repo) ListOverdue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewSchedule, error) {
	return r.list(ctx, activeFor(learnerID).Where(squirrel.Lt{"next_review_at": now}), limit)
}

// CountActive returns the number of active schedules for a learner.
func (r *Repo) CountActive(ctx context.Context, learnerID uuid.UUID) (int, error) {
	return r.count(ctx, activeFor(learnerID))
}

// CountDueBefore returns active schedules due strictly before the given time.
func (r *Repo) CountDueBefore(ctx context.Context, learnerID uuid.UUID, before time.Time) (int, error) {
	return r.count(ctx, activeFor(learnerID).Where(squirrel.Lt{"next_review_at": before}))
}

// CountOverdue returns active schedules whose review time has passed.
func (r *Repo) CountOverdue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error) {
	return r.count(ctx, activeFor(learnerID).Where(squirrel.Lt{"next_review_at": now}))
}

// ListOverdueLearners aggregates overdue schedules per learner for the
// notification scan, learners with the oldest debt first.
func (r *Repo) ListOverdueLearners(ctx context.Context, now time.Time, limit int) ([]domain.OverdueSummary, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listOverdueLearnersSQL, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list overdue learners: %w", err)
	}
	defer rows.Close()

	var summaries []domain.OverdueSummary
	for rows.Next() {
		var s domain.OverdueSummary
		if err := rows.Scan(&s.LearnerID, &s.Count, &s.OldestDue); err != nil {
			return nil, fmt.Errorf("scan overdue summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overdue summaries: %w", err)
	}

	if summaries == nil {
		summaries = []domain.OverdueSummary{}
	}
	return summaries, nil
}

// ---------------------------------------------------------------------------
// Predicate helpers
// ---------------------------------------------------------------------------

// activeFor is the base predicate every listing and count starts from.
func activeFor(learnerID uuid.UUID) squirrel.SelectBuilder {
	return psql.Select().
		From("review_schedules").
		Where(squirrel.Eq{"learner_id": learnerID, "state": domain.ScheduleStateActive})
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder, limit int) ([]*domain.ReviewSchedule, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := query.
		Columns(scheduleColumns).
		OrderBy("next_review_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build schedule list query: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list review_schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*domain.ReviewSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review_schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review_schedules: %w", err)
	}

	if schedules == nil {
		schedules = []*domain.ReviewSchedule{}
	}
	return schedules, nil
}

func (r *Repo) count(ctx context.Context, query squirrel.SelectBuilder) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := query.Columns("count(*)").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build schedule count query: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count review_schedules: %w", err)
	}
	return count, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

// scanSchedule reads one row in scheduleColumns order.
func scanSchedule(row pgx.Row) (*domain.ReviewSchedule, error) {
	var (
		s     domain.ReviewSchedule
		state string
	)
	err := row.Scan(
		&s.ID, &s.LearnerID, &s.ItemID, &state, &s.IntervalDays, &s.EaseFactor,
		&s.NextReviewAt, &s.ReviewCount, &s.ConsecutiveFailures, &s.Version,
		&s.CompletedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.State = domain.ScheduleState(state)
	return &s, nil
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
