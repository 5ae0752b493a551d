package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quietloop/reviser/internal/domain"
	"github.com/quietloop/reviser/pkg/ctxutil"
)

// GetSettings returns the authenticated learner's notification settings,
// falling back to the defaults when nothing was ever saved.
func (m *Manager) GetSettings(ctx context.Context) (domain.NotificationSettings, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return domain.NotificationSettings{}, domain.ErrUnauthorized
	}

	return m.settingsOrDefault(ctx, learnerID)
}

// UpdateSettings applies a partial update to the authenticated learner's
// notification settings. Invalid timezones, quiet hour bounds and channels
// are rejected before anything is stored.
func (m *Manager) UpdateSettings(ctx context.Context, update domain.SettingsUpdate) (domain.NotificationSettings, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return domain.NotificationSettings{}, domain.ErrUnauthorized
	}

	current, err := m.settingsOrDefault(ctx, learnerID)
	if err != nil {
		return domain.NotificationSettings{}, err
	}

	merged, err := current.ApplyUpdates(update)
	if err != nil {
		return domain.NotificationSettings{}, err
	}
	merged.UpdatedAt = m.clock.Now()

	stored, err := m.settings.Upsert(ctx, merged)
	if err != nil {
		return domain.NotificationSettings{}, fmt.Errorf("store settings: %w", err)
	}

	m.log.InfoContext(ctx, "notification settings updated",
		slog.String("learner_id", learnerID.String()),
		slog.Bool("enabled", stored.Enabled),
		slog.String("timezone", stored.Timezone),
	)

	return *stored, nil
}
