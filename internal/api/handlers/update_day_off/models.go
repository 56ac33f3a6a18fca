package update_day_off

import "github.com/glowup-team/booking-service/internal/service/schedule/models"

// DayOffRequest тело запроса на создание выходного дня.
// ID мастера берется из пути, не из тела
type DayOffRequest struct {
	Date   string `json:"date"` // "2026-03-08"
	Reason string `json:"reason,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервисного слоя
func (r *DayOffRequest) ToServiceRequest(masterID int64) *models.CreateDayOffRequest {
	return &models.CreateDayOffRequest{
		MasterID: masterID,
		Date:     r.Date,
		Reason:   r.Reason,
	}
}
