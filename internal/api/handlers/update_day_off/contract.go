package update_day_off

import (
	"context"

	"github.com/glowup-team/booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateDayOff(ctx context.Context, req *models.CreateDayOffRequest) (*models.DayOffResponse, error)
	DeleteDayOff(ctx context.Context, masterID, dayOffID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
