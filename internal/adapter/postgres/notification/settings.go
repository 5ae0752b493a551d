// Package notification implements the notification settings and message
// repositories using PostgreSQL.
package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quietloop/reviser/internal/adapter/postgres"
	"github.com/quietloop/reviser/internal/domain"
)

// SettingsRepo provides notification settings persistence backed by PostgreSQL.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

// NewSettingsRepo creates a new notification settings repository.
func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

const settingsColumns = `learner_id, enabled, review_reminders, overdue_alerts, streak_milestones,
daily_summary, quiet_start_minute, quiet_end_minute, timezone, channels, updated_at`

const getSettingsSQL = `
SELECT ` + settingsColumns + `
FROM notification_settings
WHERE learner_id = $1`

// upsertSettingsSQL stores one row per learner; a second save overwrites.
const upsertSettingsSQL = `
INSERT INTO notification_settings (
    learner_id, enabled, review_reminders, overdue_alerts, streak_milestones,
    daily_summary, quiet_start_minute, quiet_end_minute, timezone, channels, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (learner_id) DO UPDATE SET
    enabled = EXCLUDED.enabled,
    review_reminders = EXCLUDED.review_reminders,
    overdue_alerts = EXCLUDED.overdue_alerts,
    streak_milestones = EXCLUDED.streak_milestones,
    daily_summary = EXCLUDED.daily_summary,
    quiet_start_minute = EXCLUDED.quiet_start_minute,
    quiet_end_minute = EXCLUDED.quiet_end_minute,
    timezone = EXCLUDED.timezone,
    channels = EXCLUDED.channels,
    updated_at = EXCLUDED.updated_at
RETURNING ` + settingsColumns

// GetByLearnerID returns the learner's stored settings.
// Returns domain.ErrNotFound when the learner never saved any.
func (r *SettingsRepo) GetByLearnerID(ctx context.Context, learnerID uuid.UUID) (*domain.NotificationSettings, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSettings(querier.QueryRow(ctx, getSettingsSQL, learnerID))
	if err != nil {
		return nil, mapError(err, "notification_settings", learnerID)
	}
	return s, nil
}

// Upsert stores the learner's settings, replacing any previous row.
func (r *SettingsRepo) Upsert(ctx context.Context, settings domain.NotificationSettings) (*domain.NotificationSettings, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	channels := make([]string, len(settings.Channels))
	for i, ch := range settings.Channels {
		channels[i] = string(ch)
	}

	row := querier.QueryRow(ctx, upsertSettingsSQL,
		settings.LearnerID, settings.Enabled, settings.ReviewReminders, settings.OverdueAlerts,
		settings.StreakMilestones, settings.DailySummary,
		settings.QuietHours.StartMinute, settings.QuietHours.EndMinute,
		settings.Timezone, channels, settings.UpdatedAt,
	)

	stored, err := scanSettings(row)
	if err != nil {
		return nil, mapError(err, "notification_settings", settings.LearnerID)
	}
	return stored, nil
}

// scanSettings reads one row in settingsColumns order.
func scanSettings(row pgx.Row) (*domain.NotificationSettings, error) {
	var (
		s        domain.NotificationSettings
		channels []string
	)
	err := row.Scan(
		&s.LearnerID, &s.Enabled, &s.ReviewReminders, &s.OverdueAlerts, &s.StreakMilestones,
		&s.DailySummary, &s.QuietHours.StartMinute, &s.QuietHours.EndMinute,
		&s.Timezone, &channels, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Channels = make([]domain.DeliveryChannel, len(channels))
	for i, ch := range channels {
		s.Channels[i] = domain.DeliveryChannel(ch)
	}
	return &s, nil
}
