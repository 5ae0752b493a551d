// Package delivery contains notification transport adapters.
package delivery

import (
	"context"
	"log/slog"

	"github.com/quietloop/reviser/internal/domain"
)

// LogSender writes every dispatched notification to the structured log instead
// of an external gateway. It backs local runs and environments without a push
// or email provider; real transports implement the same Send signature.
type LogSender struct {
	log *slog.Logger
}

// NewLogSender creates a log-backed notification sender.
func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log.With("sender", "log")}
}

// Send records the message on the log. It never fails.
func (s *LogSender) Send(ctx context.Context, msg *domain.NotificationMessage, channels []domain.DeliveryChannel) error {
	chans := make([]string, len(channels))
	for i, ch := range channels {
		chans[i] = string(ch)
	}

	s.log.InfoContext(ctx, "notification dispatched",
		slog.String("message_id", msg.ID.String()),
		slog.String("recipient_id", msg.RecipientID.String()),
		slog.String("category", string(msg.Category)),
		slog.String("title", msg.Title),
		slog.Any("channels", chans),
	)
	return nil
}
