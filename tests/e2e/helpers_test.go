//go:build e2e

package e2e_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/quietloop/reviser/internal/adapter/delivery"
	"github.com/quietloop/reviser/internal/adapter/postgres"
	"github.com/quietloop/reviser/internal/adapter/postgres/notification"
	"github.com/quietloop/reviser/internal/adapter/postgres/schedule"
	"github.com/quietloop/reviser/internal/adapter/postgres/studyrecord"
	"github.com/quietloop/reviser/internal/adapter/postgres/testhelper"
	"github.com/quietloop/reviser/internal/service/notify"
	"github.com/quietloop/reviser/internal/service/queue"
	"github.com/quietloop/reviser/internal/service/queue/sm2"
	"github.com/quietloop/reviser/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// testEnv wires the real services against the test database.
// ---------------------------------------------------------------------------

type testEnv struct {
	Pool   *pgxpool.Pool
	Queue  *queue.Service
	Notify *notify.Manager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupEnv builds the full service stack on real repositories. The database
// is shared across tests; isolation comes from fresh learner IDs per test.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t: t}, nil))
	clock := clockwork.NewRealClock()

	scheduleRepo := schedule.New(pool)
	recordRepo := studyrecord.New(pool)
	settingsRepo := notification.NewSettingsRepo(pool)
	messageRepo := notification.NewMessageRepo(pool)

	svc, err := queue.NewService(
		logger,
		scheduleRepo,
		recordRepo,
		settingsRepo,
		postgres.NewTxManager(pool),
		clock,
		sm2.DefaultParams(),
	)
	if err != nil {
		t.Fatalf("create queue service: %v", err)
	}

	mgr := notify.NewManager(
		logger,
		settingsRepo,
		messageRepo,
		scheduleRepo,
		delivery.NewLogSender(logger),
		clock,
	)

	return &testEnv{Pool: pool, Queue: svc, Notify: mgr}
}

// daysAgo returns a timestamp n days in the past.
func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

// learnerCtx returns a context authenticated as the given learner.
func learnerCtx(id uuid.UUID) context.Context {
	return ctxutil.WithLearnerID(context.Background(), id)
}

// messageStatus reads a notification message's status straight from the database.
func messageStatus(t *testing.T, pool *pgxpool.Pool, id uuid.UUID) string {
	t.Helper()
	var status string
	err := pool.QueryRow(
		context.Background(),
		`SELECT status FROM notification_messages WHERE id = $1`,
		id,
	).Scan(&status)
	if err != nil {
		t.Fatalf("messageStatus query: %v", err)
	}
	return status
}

// messagesFor returns (id, status) pairs of all messages queued for a recipient.
func messagesFor(t *testing.T, pool *pgxpool.Pool, recipientID uuid.UUID) map[uuid.UUID]string {
	t.Helper()
	rows, err := pool.Query(
		context.Background(),
		`SELECT id, status FROM notification_messages WHERE recipient_id = $1`,
		recipientID,
	)
	if err != nil {
		t.Fatalf("messagesFor query: %v", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]string)
	for rows.Next() {
		var id uuid.UUID
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			t.Fatalf("messagesFor scan: %v", err)
		}
		out[id] = status
	}
	return out
}
