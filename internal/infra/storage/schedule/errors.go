package schedule

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило расписания не найдено
	ErrRuleNotFound = errors.New("schedule.repository: weekly rule not found")

	// ErrDayOffNotFound возвращается, когда выходной не найден
	ErrDayOffNotFound = errors.New("schedule.repository: day off not found")

	// ErrDuplicateDayOff возвращается при попытке создать второй выходной на ту же дату
	ErrDuplicateDayOff = errors.New("schedule.repository: day off already exists for this date")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
