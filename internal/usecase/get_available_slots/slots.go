package get_available_slots

import (
	"time"

	"github.com/glowup-team/booking-service/internal/domain"
	"github.com/glowup-team/booking-service/pkg/timegrid"
)

// resolveWorkingIntervals разворачивает недельные правила в итоговые рабочие
// интервалы дня: из каждого правила вычитается его перерыв, результаты всех
// правил сливаются в упорядоченный непересекающийся список
func resolveWorkingIntervals(rules []*domain.WeeklyRule) []timegrid.Interval {
	intervals := make([]timegrid.Interval, 0, len(rules))
	for _, rule := range rules {
		intervals = append(intervals, rule.Resolve()...)
	}

	if len(intervals) == 0 {
		return []timegrid.Interval{}
	}
	return timegrid.Merge(intervals)
}

// occupiedIntervals собирает занятые интервалы из бронирований.
// Отмененные бронирования сетку не занимают и отбрасываются.
func occupiedIntervals(bookings []*domain.Booking) []timegrid.Interval {
	intervals := make([]timegrid.Interval, 0, len(bookings))
	for _, booking := range bookings {
		if !booking.Occupies() {
			continue
		}
		intervals = append(intervals, timegrid.Interval{
			StartMinute: booking.StartMinute,
			EndMinute:   booking.EndMinute,
		})
	}
	return intervals
}

// generateSlots строит кандидатов слотов длиной ровно в услугу:
// из каждого рабочего интервала вычитается занятость, по оставшимся
// свободным отрезкам скользит окно с шагом granularity.
//
// Примеры (granularity=30, услуга 60 минут, работа 09:00-18:00, перерыв 13:00-14:00):
// - Без бронирований: 09:00..12:00 и 14:00..17:00
// - Бронирование 10:00-11:00: из утренних остаются 09:00, 11:00, 11:30, 12:00
// - Бронирование, граничащее со слотом (заканчивается в его начале) - НЕ конфликт
func generateSlots(
	working []timegrid.Interval,
	occupied []timegrid.Interval,
	durationMinutes int,
	granularityMinutes int,
) []timegrid.Interval {
	slots := make([]timegrid.Interval, 0)
	for _, work := range working {
		free := timegrid.Subtract(work, occupied)
		slots = append(slots, timegrid.Windows(free, durationMinutes, granularityMinutes)...)
	}
	return slots
}

// filterPastSlots отбрасывает слоты, начинающиеся раньше, чем через
// minBookingNoticeMinutes от текущего момента. Применяется только к
// запросам на сегодня: для будущих дат все слоты проходят.
func filterPastSlots(
	slots []timegrid.Interval,
	requestDate time.Time,
	now time.Time,
	minBookingNoticeMinutes int,
) []timegrid.Interval {
	if !isSameDay(requestDate, now) {
		return slots
	}

	minAllowedMinute := now.Hour()*60 + now.Minute() + minBookingNoticeMinutes

	filtered := make([]timegrid.Interval, 0, len(slots))
	for _, slot := range slots {
		if slot.StartMinute >= minAllowedMinute {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	// Обнуляем время, чтобы сравнивать только даты
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
