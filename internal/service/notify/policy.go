package notify

import (
	"time"

	"github.com/quietloop/reviser/internal/domain"
)

// Decision is the outcome of a delivery policy check.
type Decision int

const (
	Deliver Decision = iota
	Suppress
)

// Reason explains a suppression. Empty for delivered messages.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonDisabled    Reason = "notifications_disabled"
	ReasonCategoryOff Reason = "category_disabled"
	ReasonQuietHours  Reason = "quiet_hours"
)

// ShouldSend applies the learner's preferences to one message. Pure: no I/O,
// no clock.
//
// Urgent messages skip the quiet hours check but still respect the master
// switch and category toggles.
func ShouldSend(settings domain.NotificationSettings, msg *domain.NotificationMessage, now time.Time) (Decision, Reason) {
	if !settings.Enabled {
		return Suppress, ReasonDisabled
	}
	if !settings.CategoryEnabled(msg.Category) {
		return Suppress, ReasonCategoryOff
	}
	if !msg.Urgent {
		tz, err := time.LoadLocation(settings.Timezone)
		if err != nil {
			tz = time.UTC
		}
		if settings.QuietHours.Contains(now, tz) {
			return Suppress, ReasonQuietHours
		}
	}
	return Deliver, ReasonNone
}
