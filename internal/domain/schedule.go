package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Adjustment bounds for administrative schedule changes. A single call may not
// push a review out by more than MaxPostpone or pull it in by more than MaxAdvance.
const (
	MaxPostpone = 30 * 24 * time.Hour
	MaxAdvance  = 7 * 24 * time.Hour
)

// Ease factor domain and interval cap shared by the whole engine.
const (
	MinEaseFactor   = 1.0
	MaxEaseFactor   = 5.0
	MaxIntervalDays = 365
)

// retentionDecay shapes the forgetting curve in RetentionProbability.
const retentionDecay = 2.5

// ReviewSchedule is the per (learner, item) spaced-repetition state machine.
// Exactly one schedule may exist per pair.
type ReviewSchedule struct {
	ID                  uuid.UUID
	LearnerID           uuid.UUID
	ItemID              uuid.UUID
	State               ScheduleState
	IntervalDays        int
	EaseFactor          float64
	NextReviewAt        time.Time
	ReviewCount         int
	ConsecutiveFailures int
	// Version guards concurrent transitions; every successful update increments it.
	Version     int
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewReviewSchedule creates the first ACTIVE schedule for a (learner, item) pair.
// The item is due immediately so the first review can happen right away.
func NewReviewSchedule(learnerID, itemID uuid.UUID, defaultEase float64, now time.Time) *ReviewSchedule {
	return &ReviewSchedule{
		ID:           uuid.New(),
		LearnerID:    learnerID,
		ItemID:       itemID,
		State:        ScheduleStateActive,
		IntervalDays: 1,
		EaseFactor:   defaultEase,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsOverdue reports whether the scheduled review time has passed.
// False at exactly NextReviewAt, true one instant later.
func (s *ReviewSchedule) IsOverdue(now time.Time) bool {
	return s.NextReviewAt.Before(now)
}

// MinutesUntilDue returns minutes until the next review; negative when overdue.
func (s *ReviewSchedule) MinutesUntilDue(now time.Time) int {
	return int(s.NextReviewAt.Sub(now).Minutes())
}

// RetentionProbability estimates the chance the learner still recalls the item,
// decaying exponentially with time elapsed since the last transition. The curve
// is monotonically decreasing in elapsed time and increasing in ease factor.
func (s *ReviewSchedule) RetentionProbability(now time.Time) float64 {
	elapsed := now.Sub(s.UpdatedAt)
	if elapsed <= 0 {
		return 1.0
	}
	elapsedDays := elapsed.Hours() / 24
	stability := float64(s.IntervalDays) * s.EaseFactor
	return math.Exp(-elapsedDays * retentionDecay / stability)
}

// DifficultyLevel buckets the ease factor into a coarse difficulty estimate.
func (s *ReviewSchedule) DifficultyLevel() DifficultyLevel {
	switch {
	case s.EaseFactor < 2.0:
		return DifficultyAdvanced
	case s.EaseFactor < 3.0:
		return DifficultyIntermediate
	default:
		return DifficultyBeginner
	}
}

// ApplyTransition writes the outcome of a policy calculation onto the schedule.
// Only legal from ACTIVE.
func (s *ReviewSchedule) ApplyTransition(intervalDays int, easeFactor float64, consecutiveFailures int, nextReviewAt, now time.Time) error {
	if s.State != ScheduleStateActive {
		return fmt.Errorf("schedule %s in state %s: %w", s.ID, s.State, ErrInvalidState)
	}
	if intervalDays < 1 || intervalDays > MaxIntervalDays {
		return fmt.Errorf("interval %d out of range: %w", intervalDays, ErrValidation)
	}
	if easeFactor < MinEaseFactor || easeFactor > MaxEaseFactor {
		return fmt.Errorf("ease factor %.2f out of range: %w", easeFactor, ErrValidation)
	}

	s.IntervalDays = intervalDays
	s.EaseFactor = easeFactor
	s.ConsecutiveFailures = consecutiveFailures
	s.NextReviewAt = nextReviewAt
	s.ReviewCount++
	s.UpdatedAt = now
	return nil
}

// Postpone pushes the next review out by d. Bounded to MaxPostpone per call to
// prevent schedule drift abuse.
func (s *ReviewSchedule) Postpone(d time.Duration, now time.Time) error {
	if s.State != ScheduleStateActive {
		return fmt.Errorf("schedule %s in state %s: %w", s.ID, s.State, ErrInvalidState)
	}
	if d <= 0 {
		return NewValidationError("duration", "must be positive")
	}
	if d > MaxPostpone {
		return NewValidationError("duration", "cannot postpone more than 30 days in one call")
	}
	s.NextReviewAt = s.NextReviewAt.Add(d)
	s.UpdatedAt = now
	return nil
}

// Advance pulls the next review in by d, bounded to MaxAdvance per call.
// The review time never moves into the past; at most it becomes now.
func (s *ReviewSchedule) Advance(d time.Duration, now time.Time) error {
	if s.State != ScheduleStateActive {
		return fmt.Errorf("schedule %s in state %s: %w", s.ID, s.State, ErrInvalidState)
	}
	if d <= 0 {
		return NewValidationError("duration", "must be positive")
	}
	if d > MaxAdvance {
		return NewValidationError("duration", "cannot advance more than 7 days in one call")
	}
	at := s.NextReviewAt.Add(-d)
	if at.Before(now) {
		at = now
	}
	s.NextReviewAt = at
	s.UpdatedAt = now
	return nil
}

// MarkCompleted retires the schedule. Terminal for feedback purposes.
func (s *ReviewSchedule) MarkCompleted(now time.Time) error {
	if s.State != ScheduleStateActive {
		return fmt.Errorf("schedule %s in state %s: %w", s.ID, s.State, ErrInvalidState)
	}
	s.State = ScheduleStateCompleted
	s.CompletedAt = &now
	s.UpdatedAt = now
	return nil
}

// Archive soft-deletes the schedule, preserving its statistics.
func (s *ReviewSchedule) Archive(now time.Time) error {
	if s.State == ScheduleStateArchived {
		return fmt.Errorf("schedule %s already archived: %w", s.ID, ErrInvalidState)
	}
	s.State = ScheduleStateArchived
	s.UpdatedAt = now
	return nil
}

// CanPurge reports whether a hard delete is allowed. A schedule that was ever
// completed holds review history and must be archived instead, unless the caller
// explicitly asks to preserve statistics (which archives rather than deletes).
func (s *ReviewSchedule) CanPurge() bool {
	return s.CompletedAt == nil
}
