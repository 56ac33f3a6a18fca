package get_master_schedule

import (
	"context"
	"time"

	"github.com/glowup-team/booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	GetMasterSchedule(ctx context.Context, masterID int64, from, to time.Time) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
