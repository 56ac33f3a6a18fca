package create_booking

import "time"

// Request модель запроса на создание бронирования.
// Клиент передает только время начала: конец вычисляется сервером из
// длительности услуги в каталоге и не принимается извне.
type Request struct {
	ClientID  int64     // ID клиента
	MasterID  int64     // ID мастера
	ServiceID int64     // ID услуги
	Date      time.Time // Дата записи (без времени)
	StartTime string    // Время начала, "10:00"
	Notes     *string   // Заметки клиента (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID            int64     `json:"id"`
	ReferenceCode string    `json:"referenceCode"`
	ClientID      int64     `json:"clientId"`
	MasterID      int64     `json:"masterId"`
	SalonID       int64     `json:"salonId"`
	ServiceID     int64     `json:"serviceId"`
	Date          time.Time `json:"date"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	Status        string    `json:"status"`
	ServiceName   string    `json:"serviceName"`
	ServicePrice  float64   `json:"servicePrice"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
