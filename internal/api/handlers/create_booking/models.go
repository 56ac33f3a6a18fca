package create_booking

import (
	"time"

	"github.com/glowup-team/booking-service/internal/domain"
	createBooking "github.com/glowup-team/booking-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model.
// Конец слота не принимается: он выводится из длительности услуги.
type CreateBookingRequest struct {
	MasterID  int64   `json:"masterId"`
	ServiceID int64   `json:"serviceId"`
	Date      string  `json:"date"`      // "2026-03-09"
	StartTime string  `json:"startTime"` // "10:00"
	Notes     *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	ReferenceCode string  `json:"referenceCode"`
	ClientID      int64   `json:"clientId"`
	MasterID      int64   `json:"masterId"`
	SalonID       int64   `json:"salonId"`
	ServiceID     int64   `json:"serviceId"`
	Date          string  `json:"date"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	ServiceName   string  `json:"serviceName"`
	ServicePrice  float64 `json:"servicePrice"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(clientID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		ClientID:  clientID,
		MasterID:  r.MasterID,
		ServiceID: r.ServiceID,
		Date:      date,
		StartTime: r.StartTime,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		ReferenceCode: resp.ReferenceCode,
		ClientID:      resp.ClientID,
		MasterID:      resp.MasterID,
		SalonID:       resp.SalonID,
		ServiceID:     resp.ServiceID,
		Date:          resp.Date.Format(domain.DateFormat),
		StartTime:     resp.StartTime,
		EndTime:       resp.EndTime,
		Status:        resp.Status,
		ServiceName:   resp.ServiceName,
		ServicePrice:  resp.ServicePrice,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
