package create_booking

import "errors"

var (
	// ErrMasterNotFound возвращается, когда мастер не найден
	ErrMasterNotFound = errors.New("master not found")

	// ErrMasterInactive возвращается, когда мастер не принимает записи
	ErrMasterInactive = errors.New("master is not accepting bookings")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceNotProvided возвращается, когда мастер не оказывает услугу
	ErrServiceNotProvided = errors.New("master does not provide this service")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("date is too far in the future")

	// ErrTooLateToBook возвращается при нарушении минимального времени до записи
	ErrTooLateToBook = errors.New("too late to book this slot")

	// ErrMasterDayOff возвращается, когда на запрошенную дату у мастера выходной
	ErrMasterDayOff = errors.New("master has a day off on this date")

	// ErrOutsideWorkingHours возвращается, когда слот не помещается в рабочие часы
	ErrOutsideWorkingHours = errors.New("slot is outside working hours")

	// ErrSlotNotAvailable возвращается, когда запрошенный интервал уже занят
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
