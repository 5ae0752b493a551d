package domain

import (
	"time"

	"github.com/google/uuid"
)

// OverdueSummary aggregates a learner's overdue reviews for notification scans.
type OverdueSummary struct {
	LearnerID uuid.UUID
	Count     int
	OldestDue time.Time
}

// Statistics holds aggregated review metrics for one learner.
type Statistics struct {
	TotalScheduled        int
	DueToday              int // today's full workload, including reviews already done
	OverdueCount          int
	CompletedToday        int
	StreakDays            int
	AverageRetention      float64 // percent correct over the most recent records
	TotalTimeSpentSeconds int     // today's reviews only

	// Derived metrics; all zero-safe (no due items or no time spent yields 0).
	CompletionRate   float64 // CompletedToday / DueToday * 100
	Efficiency       float64 // reviews per minute of study time
	ProductivityTier ProductivityTier
}
