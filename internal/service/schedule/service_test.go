package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glowup-team/booking-service/internal/domain"
	scheduleRepo "github.com/glowup-team/booking-service/internal/infra/storage/schedule"
	"github.com/glowup-team/booking-service/internal/service/schedule/models"
	"github.com/glowup-team/booking-service/pkg/ptr"
)

type fakeScheduleRepo struct {
	rules   map[int64]*domain.WeeklyRule
	dayOffs map[int64]*domain.DayOff
	nextID  int64
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{
		rules:   make(map[int64]*domain.WeeklyRule),
		dayOffs: make(map[int64]*domain.DayOff),
	}
}

func (r *fakeScheduleRepo) CreateRule(_ context.Context, rule *domain.WeeklyRule) (*domain.WeeklyRule, error) {
	r.nextID++
	created := *rule
	created.ID = r.nextID
	r.rules[created.ID] = &created
	return &created, nil
}

func (r *fakeScheduleRepo) UpdateRule(_ context.Context, rule *domain.WeeklyRule) error {
	if _, ok := r.rules[rule.ID]; !ok {
		return scheduleRepo.ErrRuleNotFound
	}
	copied := *rule
	r.rules[rule.ID] = &copied
	return nil
}

func (r *fakeScheduleRepo) DeleteRule(_ context.Context, masterID, ruleID int64) error {
	rule, ok := r.rules[ruleID]
	if !ok || rule.MasterID != masterID {
		return scheduleRepo.ErrRuleNotFound
	}
	delete(r.rules, ruleID)
	return nil
}

func (r *fakeScheduleRepo) GetRuleByID(_ context.Context, id int64) (*domain.WeeklyRule, error) {
	rule, ok := r.rules[id]
	if !ok {
		return nil, scheduleRepo.ErrRuleNotFound
	}
	copied := *rule
	return &copied, nil
}

func (r *fakeScheduleRepo) GetRulesByMaster(_ context.Context, masterID int64) ([]*domain.WeeklyRule, error) {
	var result []*domain.WeeklyRule
	for _, rule := range r.rules {
		if rule.MasterID == masterID {
			result = append(result, rule)
		}
	}
	return result, nil
}

func (r *fakeScheduleRepo) CreateDayOff(_ context.Context, dayOff *domain.DayOff) (*domain.DayOff, error) {
	for _, existing := range r.dayOffs {
		if existing.MasterID == dayOff.MasterID && existing.Date.Equal(dayOff.Date) {
			return nil, scheduleRepo.ErrDuplicateDayOff
		}
	}
	r.nextID++
	created := *dayOff
	created.ID = r.nextID
	r.dayOffs[created.ID] = &created
	return &created, nil
}

func (r *fakeScheduleRepo) DeleteDayOff(_ context.Context, masterID, dayOffID int64) error {
	dayOff, ok := r.dayOffs[dayOffID]
	if !ok || dayOff.MasterID != masterID {
		return scheduleRepo.ErrDayOffNotFound
	}
	delete(r.dayOffs, dayOffID)
	return nil
}

func (r *fakeScheduleRepo) GetDayOffsByMaster(_ context.Context, masterID int64, from, to time.Time) ([]*domain.DayOff, error) {
	var result []*domain.DayOff
	for _, dayOff := range r.dayOffs {
		if dayOff.MasterID != masterID {
			continue
		}
		if dayOff.Date.Before(from) || dayOff.Date.After(to) {
			continue
		}
		result = append(result, dayOff)
	}
	return result, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func ruleRequest(masterID int64, weekday int, start, end string) *models.UpsertRuleRequest {
	return &models.UpsertRuleRequest{
		MasterID:  masterID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
		Active:    true,
	}
}

func TestCreateRule(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(), nopLogger{})

	req := ruleRequest(10, 1, "09:00", "18:00")
	req.BreakStartTime = ptr.Ptr("13:00")
	req.BreakEndTime = ptr.Ptr("14:00")

	resp, err := svc.CreateRule(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "09:00", resp.StartTime)
	assert.Equal(t, "18:00", resp.EndTime)
	require.NotNil(t, resp.BreakStartTime)
	assert.Equal(t, "13:00", *resp.BreakStartTime)
}

func TestCreateRule_Invalid(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(), nopLogger{})

	tests := []struct {
		name string
		req  *models.UpsertRuleRequest
	}{
		{name: "bad time format", req: ruleRequest(10, 1, "9am", "18:00")},
		{name: "end before start", req: ruleRequest(10, 1, "18:00", "09:00")},
		{name: "weekday out of range", req: ruleRequest(10, 7, "09:00", "18:00")},
		{name: "break without end", req: func() *models.UpsertRuleRequest {
			r := ruleRequest(10, 1, "09:00", "18:00")
			r.BreakStartTime = ptr.Ptr("13:00")
			return r
		}()},
		{name: "break outside working hours", req: func() *models.UpsertRuleRequest {
			r := ruleRequest(10, 1, "09:00", "18:00")
			r.BreakStartTime = ptr.Ptr("18:30")
			r.BreakEndTime = ptr.Ptr("19:00")
			return r
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRule(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateRule_OverlapSameWeekday(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(), nopLogger{})

	_, err := svc.CreateRule(context.Background(), ruleRequest(10, 1, "09:00", "14:00"))
	require.NoError(t, err)

	_, err = svc.CreateRule(context.Background(), ruleRequest(10, 1, "13:00", "18:00"))
	assert.ErrorIs(t, err, ErrRuleOverlap)

	// Встык - не пересечение
	_, err = svc.CreateRule(context.Background(), ruleRequest(10, 1, "14:00", "18:00"))
	assert.NoError(t, err)

	// Другой день недели свободен
	_, err = svc.CreateRule(context.Background(), ruleRequest(10, 2, "09:00", "14:00"))
	assert.NoError(t, err)
}

func TestUpdateRule(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := NewService(repo, nopLogger{})

	created, err := svc.CreateRule(context.Background(), ruleRequest(10, 1, "09:00", "14:00"))
	require.NoError(t, err)

	// Правило не конфликтует само с собой при обновлении
	updated, err := svc.UpdateRule(context.Background(), created.ID, ruleRequest(10, 1, "10:00", "15:00"))
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.StartTime)

	_, err = svc.UpdateRule(context.Background(), 999, ruleRequest(10, 1, "10:00", "15:00"))
	assert.ErrorIs(t, err, ErrRuleNotFound)
}

func TestDeleteRule(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := NewService(repo, nopLogger{})

	created, err := svc.CreateRule(context.Background(), ruleRequest(10, 1, "09:00", "14:00"))
	require.NoError(t, err)

	// Чужой мастер не может удалить правило
	err = svc.DeleteRule(context.Background(), 99, created.ID)
	assert.ErrorIs(t, err, ErrRuleNotFound)

	err = svc.DeleteRule(context.Background(), 10, created.ID)
	require.NoError(t, err)
	assert.Empty(t, repo.rules)
}

func TestCreateDayOff(t *testing.T) {
	svc := NewService(newFakeScheduleRepo(), nopLogger{})

	req := &models.CreateDayOffRequest{MasterID: 10, Date: "2026-09-14", Reason: "отпуск"}

	resp, err := svc.CreateDayOff(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-14", resp.Date)

	_, err = svc.CreateDayOff(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicateDayOff)

	_, err = svc.CreateDayOff(context.Background(), &models.CreateDayOffRequest{MasterID: 10, Date: "14.09.2026"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteDayOff(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := NewService(repo, nopLogger{})

	created, err := svc.CreateDayOff(context.Background(), &models.CreateDayOffRequest{MasterID: 10, Date: "2026-09-14"})
	require.NoError(t, err)

	err = svc.DeleteDayOff(context.Background(), 99, created.ID)
	assert.ErrorIs(t, err, ErrDayOffNotFound)

	err = svc.DeleteDayOff(context.Background(), 10, created.ID)
	require.NoError(t, err)
}

func TestGetMasterSchedule(t *testing.T) {
	repo := newFakeScheduleRepo()
	svc := NewService(repo, nopLogger{})

	_, err := svc.CreateRule(context.Background(), ruleRequest(10, 1, "09:00", "18:00"))
	require.NoError(t, err)
	_, err = svc.CreateDayOff(context.Background(), &models.CreateDayOffRequest{MasterID: 10, Date: "2026-09-14"})
	require.NoError(t, err)
	// Выходной за пределами периода
	_, err = svc.CreateDayOff(context.Background(), &models.CreateDayOffRequest{MasterID: 10, Date: "2026-12-31"})
	require.NoError(t, err)

	from := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)

	resp, err := svc.GetMasterSchedule(context.Background(), 10, from, to)
	require.NoError(t, err)
	assert.Len(t, resp.Rules, 1)
	require.Len(t, resp.DayOffs, 1)
	assert.Equal(t, "2026-09-14", resp.DayOffs[0].Date)
}
