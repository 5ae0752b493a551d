package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/quietloop/reviser/internal/adapter/postgres"
	"github.com/quietloop/reviser/internal/domain"
)

// MessageRepo provides notification message persistence backed by PostgreSQL.
type MessageRepo struct {
	pool *pgxpool.Pool
}

// NewMessageRepo creates a new notification message repository.
func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

const messageColumns = `id, recipient_id, category, urgent, title, body, data, status, scheduled_at, sent_at, attempts`

const enqueueSQL = `
INSERT INTO notification_messages (
    id, recipient_id, category, urgent, title, body, data, status, scheduled_at, sent_at, attempts
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + messageColumns

// listPendingSQL picks up both fresh messages and earlier delivery failures.
const listPendingSQL = `
SELECT ` + messageColumns + `
FROM notification_messages
WHERE status IN ('SCHEDULED', 'FAILED') AND scheduled_at <= $1
ORDER BY scheduled_at ASC
LIMIT $2`

// markSentSQL finalizes a message only if no other batch got there first.
// Zero rows affected means this call lost the race.
const markSentSQL = `
UPDATE notification_messages
SET status = 'SENT', sent_at = $2, attempts = attempts + 1
WHERE id = $1 AND status IN ('SCHEDULED', 'FAILED')`

const markSuppressedSQL = `
UPDATE notification_messages
SET status = 'SUPPRESSED', suppress_reason = $2
WHERE id = $1 AND status IN ('SCHEDULED', 'FAILED')`

const markFailedSQL = `
UPDATE notification_messages
SET status = 'FAILED', attempts = attempts + 1
WHERE id = $1 AND status IN ('SCHEDULED', 'FAILED')`

const existsScheduledTodaySQL = `
SELECT EXISTS (
    SELECT 1 FROM notification_messages
    WHERE recipient_id = $1 AND category = $2 AND scheduled_at >= $3
)`

// Enqueue stores a new SCHEDULED message.
func (r *MessageRepo) Enqueue(ctx context.Context, msg *domain.NotificationMessage) (*domain.NotificationMessage, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, enqueueSQL,
		msg.ID, msg.RecipientID, msg.Category, msg.Urgent, msg.Title, msg.Body,
		msg.Data, msg.Status, msg.ScheduledAt, msg.SentAt, msg.Attempts,
	)

	stored, err := scanMessage(row)
	if err != nil {
		return nil, mapError(err, "notification_message", msg.ID)
	}
	return stored, nil
}

// ListPending returns deliverable messages whose scheduled time has arrived,
// oldest first, up to limit entries.
func (r *MessageRepo) ListPending(ctx context.Context, until time.Time, limit int) ([]*domain.NotificationMessage, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listPendingSQL, until, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.NotificationMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification_message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification_messages: %w", err)
	}

	if messages == nil {
		messages = []*domain.NotificationMessage{}
	}
	return messages, nil
}

// MarkSent transitions a pending message to SENT and reports whether this call
// won. A false return means another batch already finalized the message.
func (r *MessageRepo) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, markSentSQL, id, sentAt)
	if err != nil {
		return false, mapError(err, "notification_message", id)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkSuppressed transitions a pending message to SUPPRESSED, recording why,
// and reports whether this call won. A false return means another batch
// already finalized the message.
func (r *MessageRepo) MarkSuppressed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, markSuppressedSQL, id, reason)
	if err != nil {
		return false, mapError(err, "notification_message", id)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkFailed records a delivery failure. The message stays eligible for a
// later batch.
func (r *MessageRepo) MarkFailed(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, markFailedSQL, id); err != nil {
		return mapError(err, "notification_message", id)
	}
	return nil
}

// ExistsScheduledToday reports whether any message of the category was already
// queued for the recipient since dayStart, in any status.
func (r *MessageRepo) ExistsScheduledToday(ctx context.Context, recipientID uuid.UUID, category domain.NotificationCategory, dayStart time.Time) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, existsScheduledTodaySQL, recipientID, category, dayStart).Scan(&exists); err != nil {
		return false, fmt.Errorf("check scheduled today: %w", err)
	}
	return exists, nil
}

// scanMessage reads one row in messageColumns order.
func scanMessage(row pgx.Row) (*domain.NotificationMessage, error) {
	var (
		msg      domain.NotificationMessage
		category string
		status   string
	)
	err := row.Scan(
		&msg.ID, &msg.RecipientID, &category, &msg.Urgent, &msg.Title, &msg.Body,
		&msg.Data, &status, &msg.ScheduledAt, &msg.SentAt, &msg.Attempts,
	)
	if err != nil {
		return nil, err
	}
	msg.Category = domain.NotificationCategory(category)
	msg.Status = domain.NotificationStatus(status)
	return &msg, nil
}
