package domain

import (
	"fmt"
	"time"

	"github.com/glowup-team/booking-service/pkg/timegrid"
)

// WeeklyRule задает повторяющиеся рабочие часы мастера на день недели.
// Weekday: 0 = воскресенье ... 6 = суббота (как time.Weekday).
// Обычно на (master, weekday) приходится одно правило, но модель допускает
// ноль или несколько; пересечение активных правил одного дня отклоняется
// при записи.
type WeeklyRule struct {
	ID               int64
	MasterID         int64
	Weekday          int
	StartMinute      int
	EndMinute        int
	BreakStartMinute *int
	BreakEndMinute   *int
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate проверяет инварианты правила: startMinute < endMinute, и если
// перерыв задан — startMinute <= breakStart < breakEnd <= endMinute.
func (r *WeeklyRule) Validate() error {
	if r.Weekday < 0 || r.Weekday > 6 {
		return fmt.Errorf("%w: weekday %d outside [0..6]", ErrInvalidWeeklyRule, r.Weekday)
	}

	if _, err := timegrid.NewInterval(r.StartMinute, r.EndMinute); err != nil {
		return fmt.Errorf("%w: working hours: %v", ErrInvalidWeeklyRule, err)
	}

	if (r.BreakStartMinute == nil) != (r.BreakEndMinute == nil) {
		return fmt.Errorf("%w: break must have both start and end", ErrInvalidWeeklyRule)
	}

	if r.BreakStartMinute != nil {
		br, err := timegrid.NewInterval(*r.BreakStartMinute, *r.BreakEndMinute)
		if err != nil {
			return fmt.Errorf("%w: break: %v", ErrInvalidWeeklyRule, err)
		}
		if !r.WorkingInterval().Contains(br) {
			return fmt.Errorf("%w: break %s outside working hours %s",
				ErrInvalidWeeklyRule, br, r.WorkingInterval())
		}
	}

	return nil
}

// WorkingInterval возвращает рабочий интервал правила без учета перерыва
func (r *WeeklyRule) WorkingInterval() timegrid.Interval {
	return timegrid.Interval{StartMinute: r.StartMinute, EndMinute: r.EndMinute}
}

// BreakInterval возвращает интервал перерыва, если он задан
func (r *WeeklyRule) BreakInterval() (timegrid.Interval, bool) {
	if r.BreakStartMinute == nil || r.BreakEndMinute == nil {
		return timegrid.Interval{}, false
	}
	return timegrid.Interval{StartMinute: *r.BreakStartMinute, EndMinute: *r.BreakEndMinute}, true
}

// Resolve возвращает рабочие интервалы правила с вычтенным перерывом.
// Перерыв, накрывающий весь рабочий интервал, дает пустой результат —
// это валидное состояние (перерыв на весь день).
func (r *WeeklyRule) Resolve() []timegrid.Interval {
	if !r.Active {
		return []timegrid.Interval{}
	}

	br, ok := r.BreakInterval()
	if !ok {
		return []timegrid.Interval{r.WorkingInterval()}
	}
	return timegrid.Subtract(r.WorkingInterval(), []timegrid.Interval{br})
}

// DayOff задает исключительный выходной: на эту дату мастер полностью
// недоступен независимо от WeeklyRule. Запись неизменяема, удаляется целиком.
type DayOff struct {
	ID        int64
	MasterID  int64
	Date      time.Time // календарная дата без времени
	Reason    string    // человекочитаемая причина для отображения клиенту
	CreatedAt time.Time
}
