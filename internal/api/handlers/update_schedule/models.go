package update_schedule

import "github.com/glowup-team/booking-service/internal/service/schedule/models"

// RuleRequest тело запроса на создание или обновление правила расписания.
// ID мастера берется из пути, не из тела
type RuleRequest struct {
	Weekday        int     `json:"weekday"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	BreakStartTime *string `json:"breakStartTime,omitempty"`
	BreakEndTime   *string `json:"breakEndTime,omitempty"`
	Active         bool    `json:"active"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервисного слоя
func (r *RuleRequest) ToServiceRequest(masterID int64) *models.UpsertRuleRequest {
	return &models.UpsertRuleRequest{
		MasterID:       masterID,
		Weekday:        r.Weekday,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		BreakStartTime: r.BreakStartTime,
		BreakEndTime:   r.BreakEndTime,
		Active:         r.Active,
	}
}
