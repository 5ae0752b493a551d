package domain

import (
	"time"

	"github.com/google/uuid"
)

// Response-time thresholds for study pattern classification, in seconds.
const (
	rapidResponseSeconds  = 10
	steadyResponseSeconds = 60
)

// StudyRecord is the immutable log of one completed review. Each record is
// causally linked to exactly one schedule transition: (ScheduleID, TransitionSeq)
// is unique, where TransitionSeq is the schedule's review count after the
// transition. That key gives exactly-once visibility for feedback submissions.
type StudyRecord struct {
	ID                  uuid.UUID
	LearnerID           uuid.UUID
	ItemID              uuid.UUID
	ScheduleID          uuid.UUID
	TransitionSeq       int
	Feedback            ReviewFeedback
	IsCorrect           bool
	ResponseTimeSeconds *int
	AnswerPayload       []byte
	PerformanceScore    int
	StudyPattern        StudyPattern
	CreatedAt           time.Time
}

// NewStudyRecord derives the record for a schedule transition.
func NewStudyRecord(s *ReviewSchedule, feedback ReviewFeedback, responseTime *int, answer []byte, now time.Time) *StudyRecord {
	return &StudyRecord{
		ID:                  uuid.New(),
		LearnerID:           s.LearnerID,
		ItemID:              s.ItemID,
		ScheduleID:          s.ID,
		TransitionSeq:       s.ReviewCount,
		Feedback:            feedback,
		IsCorrect:           !feedback.IsFailure(),
		ResponseTimeSeconds: responseTime,
		AnswerPayload:       answer,
		PerformanceScore:    performanceScore(feedback, responseTime),
		StudyPattern:        classifyPattern(responseTime),
		CreatedAt:           now,
	}
}

// performanceScore grades a single review: a base score per feedback kind minus
// a small penalty for slow responses, floored at zero.
func performanceScore(feedback ReviewFeedback, responseTime *int) int {
	var base int
	switch feedback {
	case FeedbackEasy:
		base = 100
	case FeedbackGood:
		base = 80
	case FeedbackHard:
		base = 60
	default:
		base = 0
	}

	if responseTime != nil {
		switch {
		case *responseTime >= steadyResponseSeconds:
			base -= 10
		case *responseTime >= 30:
			base -= 5
		}
	}

	if base < 0 {
		return 0
	}
	return base
}

func classifyPattern(responseTime *int) StudyPattern {
	if responseTime == nil {
		return StudyPatternUntimed
	}
	switch {
	case *responseTime < rapidResponseSeconds:
		return StudyPatternRapid
	case *responseTime <= steadyResponseSeconds:
		return StudyPatternSteady
	default:
		return StudyPatternDeliberate
	}
}

// DayReviewCount holds the review count for a specific date.
type DayReviewCount struct {
	Date  time.Time
	Count int
}
