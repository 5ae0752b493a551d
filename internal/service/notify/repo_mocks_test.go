package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quietloop/reviser/internal/domain"
)

var _ settingsRepo = &settingsRepoMock{}

type settingsRepoMock struct {
	GetByLearnerIDFunc func(ctx context.Context, learnerID uuid.UUID) (*domain.NotificationSettings, error)
	UpsertFunc         func(ctx context.Context, settings domain.NotificationSettings) (*domain.NotificationSettings, error)

	calls struct {
		GetByLearnerID []struct {
			LearnerID uuid.UUID
		}
		Upsert []struct {
			Settings domain.NotificationSettings
		}
	}
	lock sync.RWMutex
}

func (mock *settingsRepoMock) GetByLearnerID(ctx context.Context, learnerID uuid.UUID) (*domain.NotificationSettings, error) {
	if mock.GetByLearnerIDFunc == nil {
		panic("settingsRepoMock.GetByLearnerIDFunc: method is nil but settingsRepo.GetByLearnerID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByLearnerID = append(mock.calls.GetByLearnerID, struct {
		LearnerID uuid.UUID
	}{LearnerID: learnerID})
	mock.lock.Unlock()
	return mock.GetByLearnerIDFunc(ctx, learnerID)
}

func (mock *settingsRepoMock) Upsert(ctx context.Context, settings domain.NotificationSettings) (*domain.NotificationSettings, error) {
	if mock.UpsertFunc == nil {
		panic("settingsRepoMock.UpsertFunc: method is nil but settingsRepo.Upsert was just called")
	}
	mock.lock.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, struct {
		Settings domain.NotificationSettings
	}{Settings: settings})
	mock.lock.Unlock()
	return mock.UpsertFunc(ctx, settings)
}

func (mock *settingsRepoMock) UpsertCalls() []struct {
	Settings domain.NotificationSettings
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Upsert
}

var _ messageRepo = &messageRepoMock{}

type messageRepoMock struct {
	EnqueueFunc              func(ctx context.Context, msg *domain.NotificationMessage) (*domain.NotificationMessage, error)
	ListPendingFunc          func(ctx context.Context, until time.Time, limit int) ([]*domain.NotificationMessage, error)
	MarkSentFunc             func(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error)
	MarkSuppressedFunc       func(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	MarkFailedFunc           func(ctx context.Context, id uuid.UUID) error
	ExistsScheduledTodayFunc func(ctx context.Context, recipientID uuid.UUID, category domain.NotificationCategory, dayStart time.Time) (bool, error)

	calls struct {
		Enqueue []struct {
			Msg *domain.NotificationMessage
		}
		MarkSent []struct {
			ID     uuid.UUID
			SentAt time.Time
		}
		MarkSuppressed []struct {
			ID     uuid.UUID
			Reason string
		}
		MarkFailed []struct {
			ID uuid.UUID
		}
	}
	lock sync.RWMutex
}

func (mock *messageRepoMock) Enqueue(ctx context.Context, msg *domain.NotificationMessage) (*domain.NotificationMessage, error) {
	if mock.EnqueueFunc == nil {
		panic("messageRepoMock.EnqueueFunc: method is nil but messageRepo.Enqueue was just called")
	}
	mock.lock.Lock()
	mock.calls.Enqueue = append(mock.calls.Enqueue, struct {
		Msg *domain.NotificationMessage
	}{Msg: msg})
	mock.lock.Unlock()
	return mock.EnqueueFunc(ctx, msg)
}

func (mock *messageRepoMock) EnqueueCalls() []struct {
	Msg *domain.NotificationMessage
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Enqueue
}

func (mock *messageRepoMock) ListPending(ctx context.Context, until time.Time, limit int) ([]*domain.NotificationMessage, error) {
	if mock.ListPendingFunc == nil {
		panic("messageRepoMock.ListPendingFunc: method is nil but messageRepo.ListPending was just called")
	}
	return mock.ListPendingFunc(ctx, until, limit)
}

func (mock *messageRepoMock) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) (bool, error) {
	if mock.MarkSentFunc == nil {
		panic("messageRepoMock.MarkSentFunc: method is nil but messageRepo.MarkSent was just called")
	}
	mock.lock.Lock()
	mock.calls.MarkSent = append(mock.calls.MarkSent, struct {
		ID     uuid.UUID
		SentAt time.Time
	}{ID: id, SentAt: sentAt})
	mock.lock.Unlock()
	return mock.MarkSentFunc(ctx, id, sentAt)
}

func (mock *messageRepoMock) MarkSentCalls() []struct {
	ID     uuid.UUID
	SentAt time.Time
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.MarkSent
}

func (mock *messageRepoMock) MarkSuppressed(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	if mock.MarkSuppressedFunc == nil {
		panic("messageRepoMock.MarkSuppressedFunc: method is nil but messageRepo.MarkSuppressed was just called")
	}
	mock.lock.Lock()
	mock.calls.MarkSuppressed = append(mock.calls.MarkSuppressed, struct {
		ID     uuid.UUID
		Reason string
	}{ID: id, Reason: reason})
	mock.lock.Unlock()
	return mock.MarkSuppressedFunc(ctx, id, reason)
}

func (mock *messageRepoMock) MarkSuppressedCalls() []struct {
	ID     uuid.UUID
	Reason string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.MarkSuppressed
}

func (mock *messageRepoMock) MarkFailed(ctx context.Context, id uuid.UUID) error {
	if mock.MarkFailedFunc == nil {
		panic("messageRepoMock.MarkFailedFunc: method is nil but messageRepo.MarkFailed was just called")
	}
	mock.lock.Lock()
	mock.calls.MarkFailed = append(mock.calls.MarkFailed, struct {
		ID uuid.UUID
	}{ID: id})
	mock.lock.Unlock()
	return mock.MarkFailedFunc(ctx, id)
}

func (mock *messageRepoMock) MarkFailedCalls() []struct {
	ID uuid.UUID
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.MarkFailed
}

func (mock *messageRepoMock) ExistsScheduledToday(ctx context.Context, recipientID uuid.UUID, category domain.NotificationCategory, dayStart time.Time) (bool, error) {
	if mock.ExistsScheduledTodayFunc == nil {
		panic("messageRepoMock.ExistsScheduledTodayFunc: method is nil but messageRepo.ExistsScheduledToday was just called")
	}
	return mock.ExistsScheduledTodayFunc(ctx, recipientID, category, dayStart)
}

var _ overdueRepo = &overdueRepoMock{}

type overdueRepoMock struct {
	ListOverdueLearnersFunc func(ctx context.Context, now time.Time, limit int) ([]domain.OverdueSummary, error)
}

func (mock *overdueRepoMock) ListOverdueLearners(ctx context.Context, now time.Time, limit int) ([]domain.OverdueSummary, error) {
	if mock.ListOverdueLearnersFunc == nil {
		panic("overdueRepoMock.ListOverdueLearnersFunc: method is nil but overdueRepo.ListOverdueLearners was just called")
	}
	return mock.ListOverdueLearnersFunc(ctx, now, limit)
}

var _ sender = &senderMock{}

type senderMock struct {
	SendFunc func(ctx context.Context, msg *domain.NotificationMessage, channels []domain.DeliveryChannel) error

	calls struct {
		Send []struct {
			Msg      *domain.NotificationMessage
			Channels []domain.DeliveryChannel
		}
	}
	lock sync.RWMutex
}

func (mock *senderMock) Send(ctx context.Context, msg *domain.NotificationMessage, channels []domain.DeliveryChannel) error {
	if mock.SendFunc == nil {
		panic("senderMock.SendFunc: method is nil but sender.Send was just called")
	}
	mock.lock.Lock()
	mock.calls.Send = append(mock.calls.Send, struct {
		Msg      *domain.NotificationMessage
		Channels []domain.DeliveryChannel
	}{Msg: msg, Channels: channels})
	mock.lock.Unlock()
	return mock.SendFunc(ctx, msg, channels)
}

func (mock *senderMock) SendCalls() []struct {
	Msg      *domain.NotificationMessage
	Channels []domain.DeliveryChannel
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Send
}
