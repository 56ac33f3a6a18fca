package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending           BookingStatus = "pending"
	StatusConfirmed         BookingStatus = "confirmed"
	StatusCompleted         BookingStatus = "completed"
	StatusCancelledByClient BookingStatus = "cancelled_by_client"
	StatusCancelledBySalon  BookingStatus = "cancelled_by_salon"
	StatusNoShow            BookingStatus = "no_show"
)

// Booking represents a client's appointment with a master.
// StartMinute/EndMinute are minutes since local midnight of Date; the pair is
// a half-open interval [start, end). EndMinute - StartMinute equals the
// service duration at creation time and is never re-derived afterwards.
type Booking struct {
	ID            int64
	ReferenceCode string // публичный код бронирования для клиента
	MasterID      int64
	SalonID       int64 // денормализованная ссылка для отчетности
	ServiceID     int64
	ClientID      int64
	Date          time.Time
	StartMinute   int
	EndMinute     int
	Status        BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Occupies returns true if the booking consumes time on the master's grid.
// Только отмененные бронирования освобождают интервал; completed и no_show
// остаются занятыми (они в прошлом и нужны для аудита).
func (b *Booking) Occupies() bool {
	return b.Status != StatusCancelledByClient && b.Status != StatusCancelledBySalon
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByClient || b.Status == StatusCancelledBySalon
}

// IsTerminal returns true if no further status transitions are allowed
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusCancelledByClient, StatusCancelledBySalon, StatusNoShow:
		return true
	}
	return false
}

// DurationMinutes returns the snapshotted service duration
func (b *Booking) DurationMinutes() int {
	return b.EndMinute - b.StartMinute
}

// statusTransitions таблица допустимых переходов статусов:
// pending → confirmed → completed
// pending → cancelled_by_client
// pending|confirmed → cancelled_by_salon
// confirmed → no_show
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelledByClient, StatusCancelledBySalon},
	StatusConfirmed: {StatusCompleted, StatusCancelledBySalon, StatusNoShow},
}

// CanTransitionTo reports whether the booking may move to the target status
func (b *Booking) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range statusTransitions[b.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the value is a known booking status
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted,
		StatusCancelledByClient, StatusCancelledBySalon, StatusNoShow:
		return true
	}
	return false
}

// MasterBookingsFilter фильтр для получения бронирований мастера
type MasterBookingsFilter struct {
	MasterID        int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные бронирования
}
