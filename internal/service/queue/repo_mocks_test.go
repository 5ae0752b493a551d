package queue

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quietloop/reviser/internal/domain"
)

var _ scheduleRepo = &scheduleRepoMock{}

type scheduleRepoMock struct {
	CreateFunc         func(ctx context.Context, schedule *domain.ReviewSchedule) (*domain.ReviewSchedule, error)
	GetByIDFunc        func(ctx context.Context, scheduleID uuid.UUID) (*domain.ReviewSchedule, error)
	UpdateFunc         func(ctx context.Context, schedule *domain.ReviewSchedule, expectedVersion int) (*domain.ReviewSchedule, error)
	DeleteFunc         func(ctx context.Context, learnerID, scheduleID uuid.UUID) error
	ListDueFunc        func(ctx context.Context, learnerID uuid.UUID, until time.Time, limit int) ([]*domain.ReviewSchedule, error)
	ListOverdueFunc    func(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewSchedule, error)
	CountActiveFunc    func(ctx context.Context, learnerID uuid.UUID) (int, error)
	CountDueBeforeFunc func(ctx context.Context, learnerID uuid.UUID, before time.Time) (int, error)
	CountOverdueFunc   func(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error)

	calls struct {
		Create []struct {
			Schedule *domain.ReviewSchedule
		}
		GetByID []struct {
			ScheduleID uuid.UUID
		}
		Update []struct {
			Schedule        *domain.ReviewSchedule
			ExpectedVersion int
		}
		Delete []struct {
			LearnerID  uuid.UUID
			ScheduleID uuid.UUID
		}
		ListDue []struct {
			LearnerID uuid.UUID
			Until     time.Time
			Limit     int
		}
		ListOverdue []struct {
			LearnerID uuid.UUID
			Now       time.Time
			Limit     int
		}
		CountActive []struct {
			LearnerID uuid.UUID
		}
		CountDueBefore []struct {
			LearnerID uuid.UUID
			Before    time.Time
		}
		CountOverdue []struct {
			LearnerID uuid.UUID
			Now       time.Time
		}
	}
	lock sync.RWMutex
}

func (mock *scheduleRepoMock) Create(ctx context.Context, schedule *domain.ReviewSchedule) (*domain.ReviewSchedule, error) {
	if mock.CreateFunc == nil {
		panic("scheduleRepoMock.CreateFunc: method is nil but scheduleRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct {
		Schedule *domain.ReviewSchedule
	}{Schedule: schedule})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, schedule)
}

func (mock *scheduleRepoMock) CreateCalls() []struct {
	Schedule *domain.ReviewSchedule
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *scheduleRepoMock) GetByID(ctx context.Context, scheduleID uuid.UUID) (*domain.ReviewSchedule, error) {
	if mock.GetByIDFunc == nil {
		panic("scheduleRepoMock.GetByIDFunc: method is nil but scheduleRepo.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct {
		ScheduleID uuid.UUID
	}{ScheduleID: scheduleID})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, scheduleID)
}

func (mock *scheduleRepoMock) GetByIDCalls() []struct {
	ScheduleID uuid.UUID
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GetByID
}

func (mock *scheduleRepoMock) Update(ctx context.Context, schedule *domain.ReviewSchedule, expectedVersion int) (*domain.ReviewSchedule, error) {
	if mock.UpdateFunc == nil {
		panic("scheduleRepoMock.UpdateFunc: method is nil but scheduleRepo.Update was just called")
	}
	mock.lock.Lock()
	mock.calls.Update = append(mock.calls.Update, struct {
		Schedule        *domain.ReviewSchedule
		ExpectedVersion int
	}{Schedule: schedule, ExpectedVersion: expectedVersion})
	mock.lock.Unlock()
	return mock.UpdateFunc(ctx, schedule, expectedVersion)
}

func (mock *scheduleRepoMock) UpdateCalls() []struct {
	Schedule        *domain.ReviewSchedule
	ExpectedVersion int
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Update
}

func (mock *scheduleRepoMock) Delete(ctx context.Context, learnerID, scheduleID uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("scheduleRepoMock.DeleteFunc: method is nil but scheduleRepo.Delete was just called")
	}
	mock.lock.Lock()
	mock.calls.Delete = append(mock.calls.Delete, struct {
		LearnerID  uuid.UUID
		ScheduleID uuid.UUID
	}{LearnerID: learnerID, ScheduleID: scheduleID})
	mock.lock.Unlock()
	return mock.DeleteFunc(ctx, learnerID, scheduleID)
}

func (mock *scheduleRepoMock) DeleteCalls() []struct {
	LearnerID  uuid.UUID
	ScheduleID uuid.UUID
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Delete
}

func (mock *scheduleRepoMock) ListDue(ctx context.Context, learnerID uuid.UUID, until time.Time, limit int) ([]*domain.ReviewSchedule, error) {
	if mock.ListDueFunc == nil {
		panic("scheduleRepoMock.ListDueFunc: method is nil but scheduleRepo.ListDue was just called")
	}
	mock.lock.Lock()
	mock.calls.ListDue = append(mock.calls.ListDue, struct {
		LearnerID uuid.UUID
		Until     time.Time
		Limit     int
	}{LearnerID: learnerID, Until: until, Limit: limit})
	mock.lock.Unlock()
	return mock.ListDueFunc(ctx, learnerID, until, limit)
}

func (mock *scheduleRepoMock) ListDueCalls() []struct {
	LearnerID uuid.UUID
	Until     time.Time
	Limit     int
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.ListDue
}

func (mock *scheduleRepoMock) ListOverdue(ctx context.Context, learnerID uuid.UUID, now time.Time, limit int) ([]*domain.ReviewSchedule, error) {
	if mock.ListOverdueFunc == nil {
		panic("scheduleRepoMock.ListOverdueFunc: method is nil but scheduleRepo.ListOverdue was just called")
	}
	mock.lock.Lock()
	mock.calls.ListOverdue = append(mock.calls.ListOverdue, struct {
		LearnerID uuid.UUID
		Now       time.Time
		Limit     int
	}{LearnerID: learnerID, Now: now, Limit: limit})
	mock.lock.Unlock()
	return mock.ListOverdueFunc(ctx, learnerID, now, limit)
}

func (mock *scheduleRepoMock) CountActive(ctx context.Context, learnerID uuid.UUID) (int, error) {
	if mock.CountActiveFunc == nil {
		panic("scheduleRepoMock.CountActiveFunc: method is nil but scheduleRepo.CountActive was just called")
	}
	mock.lock.Lock()
	mock.calls.CountActive = append(mock.calls.CountActive, struct {
		LearnerID uuid.UUID
	}{LearnerID: learnerID})
	mock.lock.Unlock()
	return mock.CountActiveFunc(ctx, learnerID)
}

func (mock *scheduleRepoMock) CountDueBefore(ctx context.Context, learnerID uuid.UUID, before time.Time) (int, error) {
	if mock.CountDueBeforeFunc == nil {
		panic("scheduleRepoMock.CountDueBeforeFunc: method is nil but scheduleRepo.CountDueBefore was just called")
	}
	mock.lock.Lock()
	mock.calls.CountDueBefore = append(mock.calls.CountDueBefore, struct {
		LearnerID uuid.UUID
		Before    time.Time
	}{LearnerID: learnerID, Before: before})
	mock.lock.Unlock()
	return mock.CountDueBeforeFunc(ctx, learnerID, before)
}

func (mock *scheduleRepoMock) CountOverdue(ctx context.Context, learnerID uuid.UUID, now time.Time) (int, error) {
	if mock.CountOverdueFunc == nil {
		panic("scheduleRepoMock.CountOverdueFunc: method is nil but scheduleRepo.CountOverdue was just called")
	}
	mock.lock.Lock()
	mock.calls.CountOverdue = append(mock.calls.CountOverdue, struct {
		LearnerID uuid.UUID
		Now       time.Time
	}{LearnerID: learnerID, Now: now})
	mock.lock.Unlock()
	return mock.CountOverdueFunc(ctx, learnerID, now)
}

var _ recordRepo = &recordRepoMock{}

type recordRepoMock struct {
	CreateFunc               func(ctx context.Context, record *domain.StudyRecord) (*domain.StudyRecord, error)
	ListByScheduleFunc       func(ctx context.Context, scheduleID uuid.UUID, limit, offset int) ([]*domain.StudyRecord, int, error)
	CountTodayFunc           func(ctx context.Context, learnerID uuid.UUID, dayStart time.Time) (int, error)
	SumResponseTimeTodayFunc func(ctx context.Context, learnerID uuid.UUID, dayStart time.Time) (int, error)
	RecentOutcomesFunc       func(ctx context.Context, learnerID uuid.UUID, limit int) ([]bool, error)
	GetStreakDaysFunc        func(ctx context.Context, learnerID uuid.UUID, dayStart time.Time, lastNDays int, timezone string) ([]domain.DayReviewCount, error)

	calls struct {
		Create []struct {
			Record *domain.StudyRecord
		}
		ListBySchedule []struct {
			ScheduleID uuid.UUID
			Limit      int
			Offset     int
		}
		CountToday []struct {
			LearnerID uuid.UUID
			DayStart  time.Time
		}
	}
	lock sync.RWMutex
}

func (mock *recordRepoMock) Create(ctx context.Context, record *domain.StudyRecord) (*domain.StudyRecord, error) {
	if mock.CreateFunc == nil {
		panic("recordRepoMock.CreateFunc: method is nil but recordRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct {
		Record *domain.StudyRecord
	}{Record: record})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, record)
}

func (mock *recordRepoMock) CreateCalls() []struct {
	Record *domain.StudyRecord
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *recordRepoMock) ListBySchedule(ctx context.Context, scheduleID uuid.UUID, limit, offset int) ([]*domain.StudyRecord, int, error) {
	if mock.ListByScheduleFunc == nil {
		panic("recordRepoMock.ListByScheduleFunc: method is nil but recordRepo.ListBySchedule was just called")
	}
	mock.lock.Lock()
	mock.calls.ListBySchedule = append(mock.calls.ListBySchedule, struct {
		ScheduleID uuid.UUID
		Limit      int
		Offset     int
	}{ScheduleID: scheduleID, Limit: limit, Offset: offset})
	mock.lock.Unlock()
	return mock.ListByScheduleFunc(ctx, scheduleID, limit, offset)
}

func (mock *recordRepoMock) CountToday(ctx context.Context, learnerID uuid.UUID, dayStart time.Time) (int, error) {
	if mock.CountTodayFunc == nil {
		panic("recordRepoMock.CountTodayFunc: method is nil but recordRepo.CountToday was just called")
	}
	mock.lock.Lock()
	mock.calls.CountToday = append(mock.calls.CountToday, struct {
		LearnerID uuid.UUID
		DayStart  time.Time
	}{LearnerID: learnerID, DayStart: dayStart})
	mock.lock.Unlock()
	return mock.CountTodayFunc(ctx, learnerID, dayStart)
}

func (mock *recordRepoMock) SumResponseTimeToday(ctx context.Context, learnerID uuid.UUID, dayStart time.Time) (int, error) {
	if mock.SumResponseTimeTodayFunc == nil {
		panic("recordRepoMock.SumResponseTimeTodayFunc: method is nil but recordRepo.SumResponseTimeToday was just called")
	}
	return mock.SumResponseTimeTodayFunc(ctx, learnerID, dayStart)
}

func (mock *recordRepoMock) RecentOutcomes(ctx context.Context, learnerID uuid.UUID, limit int) ([]bool, error) {
	if mock.RecentOutcomesFunc == nil {
		panic("recordRepoMock.RecentOutcomesFunc: method is nil but recordRepo.RecentOutcomes was just called")
	}
	return mock.RecentOutcomesFunc(ctx, learnerID, limit)
}

func (mock *recordRepoMock) GetStreakDays(ctx context.Context, learnerID uuid.UUID, dayStart time.Time, lastNDays int, timezone string) ([]domain.DayReviewCount, error) {
	if mock.GetStreakDaysFunc == nil {
		panic("recordRepoMock.GetStreakDaysFunc: method is nil but recordRepo.GetStreakDays was just called")
	}
	return mock.GetStreakDaysFunc(ctx, learnerID, dayStart, lastNDays, timezone)
}

var _ settingsRepo = &settingsRepoMock{}

type settingsRepoMock struct {
	GetByLearnerIDFunc func(ctx context.Context, learnerID uuid.UUID) (*domain.NotificationSettings, error)

	calls struct {
		GetByLearnerID []struct {
			LearnerID uuid.UUID
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

func (mock *settingsRepoMock) GetByLearnerIDCalls() []struct {
	LearnerID uuid.UUID
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.GetByLearnerID
}

var _ txManager = &txManagerMock{}

// txManagerMock runs the callback in-place, no transaction semantics.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc != nil {
		return mock.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}
