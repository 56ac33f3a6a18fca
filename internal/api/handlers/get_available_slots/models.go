package get_available_slots

import (
	"github.com/glowup-team/booking-service/internal/domain"
	getAvailableSlots "github.com/glowup-team/booking-service/internal/usecase/get_available_slots"
)

// SlotResponse HTTP-модель слота
type SlotResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// AvailableSlotsResponse HTTP-модель ответа со слотами
type AvailableSlotsResponse struct {
	Date            string         `json:"date"`
	MasterID        int64          `json:"masterId"`
	MasterName      string         `json:"masterName"`
	ServiceID       int64          `json:"serviceId"`
	DurationMinutes int            `json:"durationMinutes"`
	AvailableSlots  []SlotResponse `json:"availableSlots"`
	Reason          string         `json:"reason,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Available: s.Available,
		}
	}

	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		MasterID:        resp.MasterID,
		MasterName:      resp.MasterName,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		AvailableSlots:  slots,
		Reason:          resp.Reason,
	}
}
