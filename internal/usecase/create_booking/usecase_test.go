package create_booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowup-team/booking-service/internal/domain"
	bookingRepo "github.com/glowup-team/booking-service/internal/infra/storage/booking"
	scheduleRepo "github.com/glowup-team/booking-service/internal/infra/storage/schedule"
	"github.com/glowup-team/booking-service/internal/integrations/catalogservice"
	"github.com/glowup-team/booking-service/pkg/ptr"
	"github.com/glowup-team/booking-service/pkg/timegrid"
)

// --- фейки зависимостей ---

// memBookingRepo потокобезопасный in-memory репозиторий. Create воспроизводит
// exclusion constraint БД: пересекающаяся вставка отклоняется под общим локом.
type memBookingRepo struct {
	mu       sync.Mutex
	nextID   int64
	bookings []*domain.Booking
}

func (m *memBookingRepo) GetForMasterAndDate(_ context.Context, masterID int64, date time.Time) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.MasterID == masterID && b.Date.Equal(date) && b.Occupies() {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *memBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot := timegrid.Interval{StartMinute: booking.StartMinute, EndMinute: booking.EndMinute}
	for _, existing := range m.bookings {
		if existing.MasterID != booking.MasterID || !existing.Date.Equal(booking.Date) || !existing.Occupies() {
			continue
		}
		if timegrid.Overlaps(slot, timegrid.Interval{StartMinute: existing.StartMinute, EndMinute: existing.EndMinute}) {
			return nil, bookingRepo.ErrSlotConflict
		}
	}

	m.nextID++
	stored := *booking
	stored.ID = m.nextID
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.bookings = append(m.bookings, &stored)

	result := stored
	return &result, nil
}

type memScheduleRepo struct {
	rules   []*domain.WeeklyRule
	dayOffs map[string]*domain.DayOff
}

func (m *memScheduleRepo) GetActiveRulesForWeekday(_ context.Context, masterID int64, weekday int) ([]*domain.WeeklyRule, error) {
	result := make([]*domain.WeeklyRule, 0)
	for _, r := range m.rules {
		if r.MasterID == masterID && r.Weekday == weekday && r.Active {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *memScheduleRepo) GetDayOff(_ context.Context, masterID int64, date time.Time) (*domain.DayOff, error) {
	if d, ok := m.dayOffs[date.Format(domain.DateFormat)]; ok && d.MasterID == masterID {
		return d, nil
	}
	return nil, scheduleRepo.ErrDayOffNotFound
}

type fakeCatalog struct {
	master  *catalogservice.Master
	service *catalogservice.Service
}

func (f *fakeCatalog) GetMaster(_ context.Context, masterID int64) (*catalogservice.Master, error) {
	if f.master == nil || f.master.ID != masterID {
		return nil, catalogservice.ErrMasterNotFound
	}
	return f.master, nil
}

func (f *fakeCatalog) GetMasterService(_ context.Context, _, serviceID int64) (*catalogservice.Service, error) {
	if f.service == nil || f.service.ID != serviceID {
		return nil, catalogservice.ErrServiceNotFound
	}
	return f.service, nil
}

// serialTxManager имитирует сериализуемые транзакции, выполняя их по одной
type serialTxManager struct {
	mu sync.Mutex
}

func (m *serialTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx)
}

type countingNotifier struct {
	mu      sync.Mutex
	created int
}

func (n *countingNotifier) NotifyBookingCreated(context.Context, *domain.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created++
}

type nopMetrics struct{}

func (nopMetrics) IncBookingsCreated()  {}
func (nopMetrics) IncBookingConflicts() {}
func (nopMetrics) IncTxRetries()        {}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

// --- сборка тестового окружения ---

const (
	testMasterID  = int64(7)
	testServiceID = int64(42)
)

type env struct {
	uc       *UseCase
	bookings *memBookingRepo
	schedule *memScheduleRepo
	notifier *countingNotifier
}

func newEnv(t *testing.T, now time.Time) *env {
	t.Helper()

	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	bookings := &memBookingRepo{}
	schedule := &memScheduleRepo{
		rules: []*domain.WeeklyRule{{
			ID:               1,
			MasterID:         testMasterID,
			Weekday:          int(date.Weekday()),
			StartMinute:      9 * 60,
			EndMinute:        18 * 60,
			BreakStartMinute: ptr.Ptr(13 * 60),
			BreakEndMinute:   ptr.Ptr(14 * 60),
			Active:           true,
		}},
		dayOffs: map[string]*domain.DayOff{},
	}
	catalog := &fakeCatalog{
		master:  &catalogservice.Master{ID: testMasterID, SalonID: 3, Active: true},
		service: &catalogservice.Service{ID: testServiceID, Name: "Haircut", DurationMinutes: 60, Price: 50, Active: true},
	}
	notifier := &countingNotifier{}

	uc := NewUseCase(bookings, schedule, catalog, notifier, &serialTxManager{}, nopMetrics{}, Config{
		AdvanceBookingDays: 60,
	}, nopLogger{})
	uc.timeProvider = fixedTime{t: now}

	return &env{uc: uc, bookings: bookings, schedule: schedule, notifier: notifier}
}

func testRequest(startTime string) *Request {
	return &Request{
		ClientID:  1,
		MasterID:  testMasterID,
		ServiceID: testServiceID,
		Date:      time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		StartTime: startTime,
	}
}

// --- тесты ---

func TestExecute_CreatesPendingBooking(t *testing.T) {
	e := newEnv(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	resp, err := e.uc.Execute(context.Background(), testRequest("10:00"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, "10:00", resp.StartTime)
	assert.Equal(t, "11:00", resp.EndTime)
	assert.Equal(t, "Haircut", resp.ServiceName)
	assert.NotEmpty(t, resp.ReferenceCode)
	assert.Equal(t, 1, e.notifier.created)
}

func TestExecute_EndTimeDerivedFromService(t *testing.T) {
	e := newEnv(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	resp, err := e.uc.Execute(context.Background(), testRequest("16:30"))
	require.NoError(t, err)

	// 16:30 + 60 минут услуги = 17:30, помещается в смену до 18:00
	assert.Equal(t, "17:30", resp.EndTime)
}

func TestExecute_OverlapRejected(t *testing.T) {
	e := newEnv(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	_, err := e.uc.Execute(context.Background(), testRequest("10:00"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		startTime string
	}{
		{name: "identical interval", startTime: "10:00"},
		{name: "starts inside existing", startTime: "10:30"},
		{name: "ends inside existing", startTime: "09:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.Execute(context.Background(), testRequest(tt.startTime))
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
		})
	}
}

func TestExecute_BackToBackAllowed(t *testing.T) {
	e := newEnv(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	_, err := e.uc.Execute(context.Background(), testRequest("10:00"))
	require.NoError(t, err)

	// Слот, начинающийся ровно в конце существующего - не конфликт
	_, err = e.uc.Execute(context.Background(), testRequest("11:00"))
	assert.NoError(t, err)
}

func TestExecute_SlotAcrossBreakRejected(t *testing.T) {
	e := newEnv(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	// 12:30 + 60 минут пересекает перерыв 13:00-14:00
	_, err := e.uc.Execute(context.Background(), testRequest("12:30"))
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_SlotPastClosingRejected(t *testing.T) {
	e := newEnv(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	// 17:30 + 60 минут выходит за конец смены 18:00
	_, err := e.uc.Execute(context.Background(), testRequest("17:30"))
	assert.ErrorIs(t, err, ErrOutsideWorkingHours)
}

func TestExecute_DayOffRejected(t *testing.T) {
	e := newEnv(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	e.schedule.dayOffs["2026-03-09"] = &domain.DayOff{
		MasterID: testMasterID,
		Date:     time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
	}

	_, err := e.uc.Execute(context.Background(), testRequest("10:00"))
	assert.ErrorIs(t, err, ErrMasterDayOff)
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	e := newEnv(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	first, err := e.uc.Execute(context.Background(), testRequest("10:00"))
	require.NoError(t, err)

	// Отменяем напрямую в хранилище и бронируем тот же интервал снова
	for _, b := range e.bookings.bookings {
		if b.ID == first.ID {
			b.Status = domain.StatusCancelledByClient
		}
	}

	_, err = e.uc.Execute(context.Background(), testRequest("10:00"))
	assert.NoError(t, err)
}

func TestExecute_ConcurrentRequestsSingleWinner(t *testing.T) {
	e := newEnv(t, time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := testRequest("10:00")
			req.ClientID = int64(i + 1)
			_, errs[i] = e.uc.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
	}

	assert.Equal(t, 1, successes, "ровно один из конкурентных запросов должен получить слот")
	assert.Len(t, e.bookings.bookings, 1)
	assert.Equal(t, 1, e.notifier.created)
}

func TestExecute_MinBookingNotice(t *testing.T) {
	// сегодня 09:30, минимальное время до записи 60 минут
	now := time.Date(2026, 3, 9, 9, 30, 0, 0, time.UTC)
	e := newEnv(t, now)
	e.uc.config.MinBookingNoticeMinutes = 60

	_, err := e.uc.Execute(context.Background(), testRequest("10:00"))
	assert.ErrorIs(t, err, ErrTooLateToBook)

	_, err = e.uc.Execute(context.Background(), testRequest("11:00"))
	assert.NoError(t, err)
}
