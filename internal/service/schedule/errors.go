package schedule

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило расписания не найдено
	ErrRuleNotFound = errors.New("schedule rule not found")

	// ErrDayOffNotFound возвращается, когда выходной не найден
	ErrDayOffNotFound = errors.New("day off not found")

	// ErrDuplicateDayOff возвращается при повторном выходном на ту же дату
	ErrDuplicateDayOff = errors.New("day off already exists for this date")

	// ErrRuleOverlap возвращается, когда правило пересекается с существующим
	// правилом мастера на тот же день недели
	ErrRuleOverlap = errors.New("rule overlaps an existing rule for this weekday")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
