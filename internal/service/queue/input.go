package queue

import (
	"time"

	"github.com/google/uuid"
	"github.com/quietloop/reviser/internal/domain"
)

// ScheduleItemInput holds the parameters for putting an item on the review queue.
type ScheduleItemInput struct {
	ItemID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *ScheduleItemInput) Validate() error {
	var errs []domain.FieldError

	if i.ItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SubmitFeedbackInput holds the parameters for recording a review outcome.
type SubmitFeedbackInput struct {
	ScheduleID          uuid.UUID
	Feedback            domain.ReviewFeedback
	ResponseTimeSeconds *int
	AnswerPayload       []byte
}

// Validate checks all fields and collects all errors.
func (i *SubmitFeedbackInput) Validate() error {
	var errs []domain.FieldError

	if i.ScheduleID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "schedule_id", Message: "required"})
	}
	if !i.Feedback.IsValid() {
		errs = append(errs, domain.FieldError{Field: "feedback", Message: "must be AGAIN, HARD, GOOD, or EASY"})
	}
	if i.ResponseTimeSeconds != nil && *i.ResponseTimeSeconds < 0 {
		errs = append(errs, domain.FieldError{Field: "response_time_seconds", Message: "must be non-negative"})
	}
	if i.ResponseTimeSeconds != nil && *i.ResponseTimeSeconds > 3600 {
		errs = append(errs, domain.FieldError{Field: "response_time_seconds", Message: "max 1 hour"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetDueItemsInput holds the parameters for fetching the review queue.
type GetDueItemsInput struct {
	Limit int
	// UpcomingWindow replaces the default end-of-day horizon with an explicit
	// now-relative window. Zero keeps the default.
	UpcomingWindow time.Duration
}

// Validate checks all fields and collects all errors.
func (i *GetDueItemsInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.UpcomingWindow < 0 || i.UpcomingWindow > 24*time.Hour {
		errs = append(errs, domain.FieldError{Field: "upcoming_window", Message: "must be between 0 and 24 hours"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetOverdueItemsInput holds the parameters for fetching overdue reviews.
type GetOverdueItemsInput struct {
	Limit int
}

// Validate checks all fields and collects all errors.
func (i *GetOverdueItemsInput) Validate() error {
	var errs []domain.FieldError

	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// AdjustScheduleInput holds the parameters for postponing or advancing a review.
type AdjustScheduleInput struct {
	ScheduleID uuid.UUID
	By         time.Duration
}

// Validate checks all fields and collects all errors.
func (i *AdjustScheduleInput) Validate() error {
	var errs []domain.FieldError

	if i.ScheduleID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "schedule_id", Message: "required"})
	}
	if i.By <= 0 {
		errs = append(errs, domain.FieldError{Field: "by", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RemoveItemInput holds the parameters for taking an item off the queue.
type RemoveItemInput struct {
	ScheduleID uuid.UUID
	// PreserveStatistics forces an archive even when a hard delete is allowed.
	PreserveStatistics bool
}

// Validate checks all fields and collects all errors.
func (i *RemoveItemInput) Validate() error {
	var errs []domain.FieldError

	if i.ScheduleID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "schedule_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetHistoryInput holds the parameters for fetching a schedule's review history.
type GetHistoryInput struct {
	ScheduleID uuid.UUID
	Limit      int
	Offset     int
}

// Validate checks all fields and collects all errors.
func (i *GetHistoryInput) Validate() error {
	var errs []domain.FieldError

	if i.ScheduleID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "schedule_id", Message: "required"})
	}
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
