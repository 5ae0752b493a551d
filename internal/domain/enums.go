package domain

// ReviewFeedback represents the learner's self-assessed recall quality.
// Difficulty ordering: AGAIN < HARD < GOOD < EASY. AGAIN is the sole failure signal.
type ReviewFeedback string

const (
	FeedbackAgain ReviewFeedback = "AGAIN"
	FeedbackHard  ReviewFeedback = "HARD"
	FeedbackGood  ReviewFeedback = "GOOD"
	FeedbackEasy  ReviewFeedback = "EASY"
)

func (f ReviewFeedback) String() string { return string(f) }

func (f ReviewFeedback) IsValid() bool {
	switch f {
	case FeedbackAgain, FeedbackHard, FeedbackGood, FeedbackEasy:
		return true
	}
	return false
}

// IsFailure reports whether the feedback counts as a failed recall.
func (f ReviewFeedback) IsFailure() bool { return f == FeedbackAgain }

// ScheduleState represents the lifecycle state of a review schedule.
// PURGED schedules are hard-deleted and never appear as rows.
type ScheduleState string

const (
	ScheduleStateActive    ScheduleState = "ACTIVE"
	ScheduleStateCompleted ScheduleState = "COMPLETED"
	ScheduleStateArchived  ScheduleState = "ARCHIVED"
)

func (s ScheduleState) String() string { return string(s) }

func (s ScheduleState) IsValid() bool {
	switch s {
	case ScheduleStateActive, ScheduleStateCompleted, ScheduleStateArchived:
		return true
	}
	return false
}

// PriorityBucket ranks due items for presentation order.
type PriorityBucket int

const (
	PriorityLow PriorityBucket = iota
	PriorityMedium
	PriorityHigh
)

func (p PriorityBucket) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// DifficultyLevel buckets a schedule's ease factor.
// Higher ease means the item is easier for the learner.
type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "BEGINNER"
	DifficultyIntermediate DifficultyLevel = "INTERMEDIATE"
	DifficultyAdvanced     DifficultyLevel = "ADVANCED"
)

func (d DifficultyLevel) String() string { return string(d) }

// StudyPattern classifies a single review by response time.
type StudyPattern string

const (
	StudyPatternRapid      StudyPattern = "RAPID"
	StudyPatternSteady     StudyPattern = "STEADY"
	StudyPatternDeliberate StudyPattern = "DELIBERATE"
	StudyPatternUntimed    StudyPattern = "UNTIMED"
)

func (p StudyPattern) String() string { return string(p) }

// NotificationCategory identifies the kind of reminder.
type NotificationCategory string

const (
	CategoryReviewReminder  NotificationCategory = "REVIEW_REMINDER"
	CategoryOverdueAlert    NotificationCategory = "OVERDUE_ALERT"
	CategoryStreakMilestone NotificationCategory = "STREAK_MILESTONE"
	CategoryDailySummary    NotificationCategory = "DAILY_SUMMARY"
)

func (c NotificationCategory) String() string { return string(c) }

func (c NotificationCategory) IsValid() bool {
	switch c {
	case CategoryReviewReminder, CategoryOverdueAlert, CategoryStreakMilestone, CategoryDailySummary:
		return true
	}
	return false
}

// NotificationStatus tracks a queued message.
// SCHEDULED messages are pending; SENT and SUPPRESSED are terminal.
// FAILED messages stay eligible for a later batch.
type NotificationStatus string

const (
	NotificationScheduled  NotificationStatus = "SCHEDULED"
	NotificationSent       NotificationStatus = "SENT"
	NotificationSuppressed NotificationStatus = "SUPPRESSED"
	NotificationFailed     NotificationStatus = "FAILED"
)

func (s NotificationStatus) String() string { return string(s) }

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationScheduled, NotificationSent, NotificationSuppressed, NotificationFailed:
		return true
	}
	return false
}

// DeliveryChannel is a preferred notification transport, in learner priority order.
type DeliveryChannel string

const (
	ChannelPush  DeliveryChannel = "PUSH"
	ChannelEmail DeliveryChannel = "EMAIL"
	ChannelInApp DeliveryChannel = "IN_APP"
)

func (c DeliveryChannel) String() string { return string(c) }

func (c DeliveryChannel) IsValid() bool {
	switch c {
	case ChannelPush, ChannelEmail, ChannelInApp:
		return true
	}
	return false
}

// ProductivityTier grades a learner's daily output.
type ProductivityTier string

const (
	TierIdle    ProductivityTier = "IDLE"
	TierCasual  ProductivityTier = "CASUAL"
	TierFocused ProductivityTier = "FOCUSED"
	TierIntense ProductivityTier = "INTENSE"
)

func (t ProductivityTier) String() string { return string(t) }
