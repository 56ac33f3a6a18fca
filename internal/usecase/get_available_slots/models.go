package get_available_slots

import "time"

// Request модель запроса на получение доступных слотов
type Request struct {
	MasterID  int64     // ID мастера
	ServiceID int64     // ID услуги
	Date      time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов.
// Пустой список слотов - валидный результат; Reason объясняет его клиенту.
type Response struct {
	Date            time.Time // Дата, на которую запрашивались слоты
	MasterID        int64     // ID мастера
	MasterName      string    // Имя мастера из каталога
	ServiceID       int64     // ID услуги
	DurationMinutes int       // Длительность услуги
	Slots           []Slot    // Список доступных слотов
	Reason          string    // Причина пустого списка ("" если слоты есть)
}

// Slot модель временного слота длиной ровно в услугу
type Slot struct {
	StartTime string // Время начала слота, "10:00"
	EndTime   string // Время конца слота, "11:00"
	Available bool   // Всегда true: занятые интервалы в ответ не попадают
}
