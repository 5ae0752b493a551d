package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quietloop/reviser/internal/domain"
)

const defaultBatchSize = 100

// BatchResult summarizes one queue pass.
type BatchResult struct {
	Processed  int
	Sent       int
	Suppressed int
	Failed     int
	Skipped    int // finalized by a concurrent batch
}

// ProcessQueue runs one delivery pass: pull up to batchSize pending messages,
// apply the learner's policy to each and dispatch the survivors.
//
// The pass is idempotent per message. SENT and SUPPRESSED are terminal; a
// message finalized by an overlapping invocation is skipped, not re-sent.
// Failures are recorded on the message and do not abort the batch.
func (m *Manager) ProcessQueue(ctx context.Context, batchSize int) (BatchResult, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	now := m.clock.Now()

	pending, err := m.messages.ListPending(ctx, now, batchSize)
	if err != nil {
		return BatchResult{}, fmt.Errorf("list pending messages: %w", err)
	}

	var result BatchResult
	for _, msg := range pending {
		result.Processed++
		m.processOne(ctx, msg, &result)
	}

	m.log.InfoContext(ctx, "notification batch processed",
		slog.Int("processed", result.Processed),
		slog.Int("sent", result.Sent),
		slog.Int("suppressed", result.Suppressed),
		slog.Int("failed", result.Failed),
		slog.Int("skipped", result.Skipped),
	)

	return result, nil
}

func (m *Manager) processOne(ctx context.Context, msg *domain.NotificationMessage, result *BatchResult) {
	now := m.clock.Now()

	settings, err := m.settingsOrDefault(ctx, msg.RecipientID)
	if err != nil {
		m.recordFailure(ctx, msg, err)
		result.Failed++
		return
	}

	decision, reason := ShouldSend(settings, msg, now)
	if decision == Suppress {
		won, err := m.messages.MarkSuppressed(ctx, msg.ID, string(reason))
		if err != nil {
			m.recordFailure(ctx, msg, err)
			result.Failed++
			return
		}
		if !won {
			result.Skipped++
			return
		}
		m.log.InfoContext(ctx, "notification suppressed",
			slog.String("message_id", msg.ID.String()),
			slog.String("recipient_id", msg.RecipientID.String()),
			slog.String("reason", string(reason)),
		)
		result.Suppressed++
		return
	}

	if err := m.sender.Send(ctx, msg, settings.Channels); err != nil {
		m.recordFailure(ctx, msg, fmt.Errorf("%w: %w", domain.ErrDelivery, err))
		result.Failed++
		return
	}

	won, err := m.messages.MarkSent(ctx, msg.ID, now)
	if err != nil {
		m.recordFailure(ctx, msg, err)
		result.Failed++
		return
	}
	if !won {
		result.Skipped++
		return
	}

	m.log.InfoContext(ctx, "notification sent",
		slog.String("message_id", msg.ID.String()),
		slog.String("recipient_id", msg.RecipientID.String()),
		slog.String("category", string(msg.Category)),
	)
	result.Sent++
}

// recordFailure marks the message FAILED so a later batch retries it. The
// marking itself is best effort; a failure here only gets logged.
func (m *Manager) recordFailure(ctx context.Context, msg *domain.NotificationMessage, cause error) {
	m.log.ErrorContext(ctx, "notification delivery failed",
		slog.String("message_id", msg.ID.String()),
		slog.String("recipient_id", msg.RecipientID.String()),
		slog.String("error", cause.Error()),
	)
	if err := m.messages.MarkFailed(ctx, msg.ID); err != nil {
		m.log.ErrorContext(ctx, "mark failed",
			slog.String("message_id", msg.ID.String()),
			slog.String("error", err.Error()),
		)
	}
}
