package update_schedule

import (
	"context"

	"github.com/glowup-team/booking-service/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateRule(ctx context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error)
	UpdateRule(ctx context.Context, ruleID int64, req *models.UpsertRuleRequest) (*models.RuleResponse, error)
	DeleteRule(ctx context.Context, masterID, ruleID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
