package domain

import "errors"

// Default configuration values
const (
	DefaultSlotGranularityMinutes  = 30 // шаг сетки слотов, независим от длительности услуги
	DefaultMinBookingNoticeMinutes = 0
	DefaultAdvanceBookingDays      = 60
)

// Business validation constants
const (
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxDayOffReasonLength       = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

var (
	// ErrInvalidWeeklyRule возвращается при нарушении инвариантов правила расписания
	ErrInvalidWeeklyRule = errors.New("domain: invalid weekly rule")
)

// CancelledStatuses список статусов, освобождающих интервал на сетке.
// Используется при загрузке занятости.
var CancelledStatuses = []BookingStatus{
	StatusCancelledByClient,
	StatusCancelledBySalon,
}

// ActiveStatuses список статусов, занимающих интервал на сетке
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusNoShow,
}
