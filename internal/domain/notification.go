package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuietHours is a daily window during which non-urgent notifications are
// suppressed, in minutes from local midnight. A window where Start == End is
// empty. Start > End means the window wraps midnight (e.g. 22:00-08:00).
type QuietHours struct {
	StartMinute int
	EndMinute   int
}

// Contains reports whether the local time t falls inside the window.
func (q QuietHours) Contains(t time.Time, tz *time.Location) bool {
	if q.StartMinute == q.EndMinute {
		return false
	}
	local := t.In(tz)
	m := local.Hour()*60 + local.Minute()
	if q.StartMinute < q.EndMinute {
		return m >= q.StartMinute && m < q.EndMinute
	}
	// Wraps midnight.
	return m >= q.StartMinute || m < q.EndMinute
}

// IsValid reports whether both bounds are minutes of a day.
func (q QuietHours) IsValid() bool {
	return q.StartMinute >= 0 && q.StartMinute < 24*60 &&
		q.EndMinute >= 0 && q.EndMinute < 24*60
}

// NotificationSettings holds a learner's reminder preferences.
type NotificationSettings struct {
	LearnerID        uuid.UUID
	Enabled          bool
	ReviewReminders  bool
	OverdueAlerts    bool
	StreakMilestones bool
	DailySummary     bool
	QuietHours       QuietHours
	Timezone         string
	Channels         []DeliveryChannel
	UpdatedAt        time.Time
}

// DefaultNotificationSettings returns settings for a learner who has never
// customized anything: all categories on, 22:00-08:00 quiet hours, UTC.
func DefaultNotificationSettings(learnerID uuid.UUID) NotificationSettings {
	return NotificationSettings{
		LearnerID:        learnerID,
		Enabled:          true,
		ReviewReminders:  true,
		OverdueAlerts:    true,
		StreakMilestones: true,
		DailySummary:     true,
		QuietHours:       QuietHours{StartMinute: 22 * 60, EndMinute: 8 * 60},
		Timezone:         "UTC",
		Channels:         []DeliveryChannel{ChannelPush, ChannelInApp},
	}
}

// CategoryEnabled reports whether the learner has the given category switched on.
func (s NotificationSettings) CategoryEnabled(c NotificationCategory) bool {
	switch c {
	case CategoryReviewReminder:
		return s.ReviewReminders
	case CategoryOverdueAlert:
		return s.OverdueAlerts
	case CategoryStreakMilestone:
		return s.StreakMilestones
	case CategoryDailySummary:
		return s.DailySummary
	}
	return false
}

// SettingsUpdate carries partial changes to notification settings.
// Nil fields are left untouched.
type SettingsUpdate struct {
	Enabled          *bool
	ReviewReminders  *bool
	OverdueAlerts    *bool
	StreakMilestones *bool
	DailySummary     *bool
	QuietHours       *QuietHours
	Timezone         *string
	Channels         []DeliveryChannel
}

// ApplyUpdates merges the partial update into a copy of the settings and
// validates the result. The receiver is never mutated.
func (s NotificationSettings) ApplyUpdates(u SettingsUpdate) (NotificationSettings, error) {
	result := s

	if u.Enabled != nil {
		result.Enabled = *u.Enabled
	}
	if u.ReviewReminders != nil {
		result.ReviewReminders = *u.ReviewReminders
	}
	if u.OverdueAlerts != nil {
		result.OverdueAlerts = *u.OverdueAlerts
	}
	if u.StreakMilestones != nil {
		result.StreakMilestones = *u.StreakMilestones
	}
	if u.DailySummary != nil {
		result.DailySummary = *u.DailySummary
	}
	if u.QuietHours != nil {
		result.QuietHours = *u.QuietHours
	}
	if u.Timezone != nil {
		result.Timezone = *u.Timezone
	}
	if u.Channels != nil {
		result.Channels = append([]DeliveryChannel(nil), u.Channels...)
	}

	var errs []FieldError
	if !result.QuietHours.IsValid() {
		errs = append(errs, FieldError{Field: "quiet_hours", Message: "bounds must be minutes within a day"})
	}
	if _, err := time.LoadLocation(result.Timezone); err != nil {
		errs = append(errs, FieldError{Field: "timezone", Message: "unknown timezone"})
	}
	for _, ch := range result.Channels {
		if !ch.IsValid() {
			errs = append(errs, FieldError{Field: "channels", Message: "unknown channel " + string(ch)})
		}
	}
	if len(errs) > 0 {
		return NotificationSettings{}, NewValidationErrors(errs)
	}

	return result, nil
}

// NotificationMessage is one queued reminder. State machine:
// SCHEDULED -> SENT, SCHEDULED -> SUPPRESSED, SCHEDULED -> FAILED (retryable).
type NotificationMessage struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	Category    NotificationCategory
	Urgent      bool
	Title       string
	Body        string
	Data        []byte
	Status      NotificationStatus
	ScheduledAt time.Time
	SentAt      *time.Time
	Attempts    int
}

// NewNotificationMessage queues a SCHEDULED message.
func NewNotificationMessage(recipientID uuid.UUID, category NotificationCategory, urgent bool, title, body string, data []byte, scheduledAt time.Time) *NotificationMessage {
	return &NotificationMessage{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Category:    category,
		Urgent:      urgent,
		Title:       title,
		Body:        body,
		Data:        data,
		Status:      NotificationScheduled,
		ScheduledAt: scheduledAt,
	}
}
