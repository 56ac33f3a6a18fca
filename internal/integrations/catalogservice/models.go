package catalogservice

// Master модель мастера из каталога салонов
type Master struct {
	ID       int64  `json:"id"`
	SalonID  int64  `json:"salon_id"`
	FullName string `json:"full_name"`
	Active   bool   `json:"active"`
}

// Service модель услуги из каталога салонов
type Service struct {
	ID              int64   `json:"id"`
	SalonID         int64   `json:"salon_id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
	Active          bool    `json:"active"`
}

// ErrorResponse модель ошибки от каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
