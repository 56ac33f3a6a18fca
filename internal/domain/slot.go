package domain

// Причины отсутствия доступных слотов. Пустой список слотов - не ошибка,
// а валидный результат с объяснением для клиента.
const (
	ReasonDayOff      = "day off"
	ReasonNoSchedule  = "no schedule configured"
	ReasonFullyBooked = "fully booked"
)
