package schedule

import (
	"context"
	"time"

	"github.com/glowup-team/booking-service/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	CreateRule(ctx context.Context, rule *domain.WeeklyRule) (*domain.WeeklyRule, error)
	UpdateRule(ctx context.Context, rule *domain.WeeklyRule) error
	DeleteRule(ctx context.Context, masterID, ruleID int64) error
	GetRuleByID(ctx context.Context, id int64) (*domain.WeeklyRule, error)
	GetRulesByMaster(ctx context.Context, masterID int64) ([]*domain.WeeklyRule, error)
	CreateDayOff(ctx context.Context, dayOff *domain.DayOff) (*domain.DayOff, error)
	DeleteDayOff(ctx context.Context, masterID, dayOffID int64) error
	GetDayOffsByMaster(ctx context.Context, masterID int64, from, to time.Time) ([]*domain.DayOff, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
