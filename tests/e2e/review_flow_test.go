//go:build e2e

package e2e_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quietloop/reviser/internal/domain"
	"github.com/quietloop/reviser/internal/service/queue"
)

// ---------------------------------------------------------------------------
// Full review lifecycle: schedule -> due queue -> feedback -> statistics ->
// completion.
// ---------------------------------------------------------------------------

func TestE2E_ReviewFlow_ScheduleToCompletion(t *testing.T) {
	env := setupEnv(t)
	learner := uuid.New()
	ctx := learnerCtx(learner)

	// Schedule an item; it is due immediately.
	itemID := uuid.New()
	created, err := env.Queue.ScheduleItem(ctx, queue.ScheduleItemInput{ItemID: itemID})
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStateActive, created.State)
	assert.Equal(t, 0, created.ReviewCount)

	// Scheduling the same item twice is rejected.
	_, err = env.Queue.ScheduleItem(ctx, queue.ScheduleItemInput{ItemID: itemID})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	// The item shows up in the due queue.
	items, err := env.Queue.GetDueItems(ctx, queue.GetDueItemsInput{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, created.ID, items[0].Schedule.ID)

	// First review: GOOD grants the initial one-day interval.
	rt := 30
	result, err := env.Queue.SubmitFeedback(ctx, queue.SubmitFeedbackInput{
		ScheduleID:          created.ID,
		Feedback:            domain.FeedbackGood,
		ResponseTimeSeconds: &rt,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Schedule.ReviewCount)
	assert.Equal(t, 1, result.Schedule.IntervalDays)
	assert.Equal(t, 1, result.Schedule.Version)
	assert.Equal(t, 2.5, result.Schedule.EaseFactor)
	assert.True(t, result.Schedule.NextReviewAt.After(created.NextReviewAt))
	require.NotNil(t, result.Record)
	assert.Equal(t, 1, result.Record.TransitionSeq)

	// The item left the due queue (next review is a day away).
	items, err = env.Queue.GetDueItems(ctx, queue.GetDueItemsInput{})
	require.NoError(t, err)
	assert.Empty(t, items)

	// History holds the single record.
	records, total, err := env.Queue.GetHistory(ctx, queue.GetHistoryInput{ScheduleID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, records, 1)
	assert.Equal(t, domain.FeedbackGood, records[0].Feedback)

	// Statistics reflect the completed review.
	stats, err := env.Queue.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalScheduled)
	assert.Equal(t, 1, stats.CompletedToday)
	assert.Equal(t, 30, stats.TotalTimeSpentSeconds)
	assert.Equal(t, float64(100), stats.AverageRetention)

	// Mark the item learned; feedback is no longer accepted.
	completed, err := env.Queue.MarkCompleted(ctx, queue.RemoveItemInput{ScheduleID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleStateCompleted, completed.State)
	require.NotNil(t, completed.CompletedAt)

	_, err = env.Queue.SubmitFeedback(ctx, queue.SubmitFeedbackInput{
		ScheduleID: created.ID,
		Feedback:   domain.FeedbackGood,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ---------------------------------------------------------------------------
// Failure path: AGAIN resets the interval and raises the priority.
// ---------------------------------------------------------------------------

func TestE2E_ReviewFlow_FailureRaisesPriority(t *testing.T) {
	env := setupEnv(t)
	learner := uuid.New()
	ctx := learnerCtx(learner)

	created, err := env.Queue.ScheduleItem(ctx, queue.ScheduleItemInput{ItemID: uuid.New()})
	require.NoError(t, err)

	result, err := env.Queue.SubmitFeedback(ctx, queue.SubmitFeedbackInput{
		ScheduleID: created.ID,
		Feedback:   domain.FeedbackAgain,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Schedule.ConsecutiveFailures)
	assert.InDelta(t, 2.3, result.Schedule.EaseFactor, 1e-9)

	// A failure streak keeps the item urgent even before it is due again.
	items, err := env.Queue.GetDueItems(ctx, queue.GetDueItemsInput{UpcomingWindow: 24 * time.Hour})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.PriorityHigh, items[0].Priority)
}

// ---------------------------------------------------------------------------
// Administrative adjustments: postpone and advance.
// ---------------------------------------------------------------------------

func TestE2E_ReviewFlow_PostponeAndAdvance(t *testing.T) {
	env := setupEnv(t)
	learner := uuid.New()
	ctx := learnerCtx(learner)

	created, err := env.Queue.ScheduleItem(ctx, queue.ScheduleItemInput{ItemID: uuid.New()})
	require.NoError(t, err)

	postponed, err := env.Queue.PostponeReview(ctx, queue.AdjustScheduleInput{
		ScheduleID: created.ID,
		By:         48 * time.Hour,
	})
	require.NoError(t, err)
	assert.True(t, postponed.NextReviewAt.Equal(created.NextReviewAt.Add(48*time.Hour)),
		"NextReviewAt = %v, want %v", postponed.NextReviewAt, created.NextReviewAt.Add(48*time.Hour))
	assert.Equal(t, 1, postponed.Version)

	// Advancing never moves the review into the past.
	advanced, err := env.Queue.AdvanceReview(ctx, queue.AdjustScheduleInput{
		ScheduleID: created.ID,
		By:         7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	assert.False(t, advanced.NextReviewAt.After(time.Now().Add(time.Minute)))
	assert.Equal(t, 2, advanced.Version)

	// Over-limit postpone is rejected.
	_, err = env.Queue.PostponeReview(ctx, queue.AdjustScheduleInput{
		ScheduleID: created.ID,
		By:         31 * 24 * time.Hour,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---------------------------------------------------------------------------
// Removal: archive preserves rows, purge deletes them.
// ---------------------------------------------------------------------------

func TestE2E_ReviewFlow_RemoveItem(t *testing.T) {
	env := setupEnv(t)
	learner := uuid.New()
	ctx := learnerCtx(learner)

	// Removal with preserved statistics archives the schedule.
	archivedSched, err := env.Queue.ScheduleItem(ctx, queue.ScheduleItemInput{ItemID: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, env.Queue.RemoveItem(ctx, queue.RemoveItemInput{
		ScheduleID:         archivedSched.ID,
		PreserveStatistics: true,
	}))

	var state string
	err = env.Pool.QueryRow(ctx,
		`SELECT state FROM review_schedules WHERE id = $1`, archivedSched.ID).Scan(&state)
	require.NoError(t, err)
	assert.Equal(t, "ARCHIVED", state)

	// Plain removal of a never-completed schedule hard-deletes the row.
	purgedSched, err := env.Queue.ScheduleItem(ctx, queue.ScheduleItemInput{ItemID: uuid.New()})
	require.NoError(t, err)
	require.NoError(t, env.Queue.RemoveItem(ctx, queue.RemoveItemInput{ScheduleID: purgedSched.ID}))

	var exists bool
	err = env.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM review_schedules WHERE id = $1)`, purgedSched.ID).Scan(&exists)
	require.NoError(t, err)
	assert.False(t, exists, "purged schedule should be gone")

	// Neither shows up in the due queue anymore.
	items, err := env.Queue.GetDueItems(ctx, queue.GetDueItemsInput{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

// ---------------------------------------------------------------------------
// Ownership: one learner cannot touch another learner's schedule.
// ---------------------------------------------------------------------------

func TestE2E_ReviewFlow_OwnershipEnforced(t *testing.T) {
	env := setupEnv(t)
	owner := uuid.New()
	intruder := uuid.New()

	created, err := env.Queue.ScheduleItem(learnerCtx(owner), queue.ScheduleItemInput{ItemID: uuid.New()})
	require.NoError(t, err)

	_, err = env.Queue.SubmitFeedback(learnerCtx(intruder), queue.SubmitFeedbackInput{
		ScheduleID: created.ID,
		Feedback:   domain.FeedbackGood,
	})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized), "expected ErrUnauthorized, got %v", err)

	err = env.Queue.RemoveItem(learnerCtx(intruder), queue.RemoveItemInput{ScheduleID: created.ID})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// The owner's schedule is untouched.
	items, err := env.Queue.GetDueItems(learnerCtx(owner), queue.GetDueItemsInput{})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
