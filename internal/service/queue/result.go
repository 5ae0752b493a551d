package queue

import (
	"github.com/quietloop/reviser/internal/domain"
)

// DueItem is a schedule decorated with presentation metadata for the queue.
type DueItem struct {
	Schedule        *domain.ReviewSchedule
	Priority        domain.PriorityBucket
	Overdue         bool
	MinutesUntilDue int // negative when overdue
	Retention       float64
	Difficulty      domain.DifficultyLevel
}

// FeedbackResult is the outcome of a feedback submission: the schedule after
// the transition, the study record that captured it, and the pre-transition
// interval and ease so callers can show what the answer changed.
type FeedbackResult struct {
	Schedule *domain.ReviewSchedule
	Record   *domain.StudyRecord

	PreviousIntervalDays int
	PreviousEaseFactor   float64
}
