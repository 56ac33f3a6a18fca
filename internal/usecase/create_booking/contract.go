package create_booking

import (
	"context"
	"time"

	"github.com/glowup-team/booking-service/internal/domain"
	"github.com/glowup-team/booking-service/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetForMasterAndDate(ctx context.Context, masterID int64, date time.Time) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	GetActiveRulesForWeekday(ctx context.Context, masterID int64, weekday int) ([]*domain.WeeklyRule, error)
	GetDayOff(ctx context.Context, masterID int64, date time.Time) (*domain.DayOff, error)
}

// CatalogClient интерфейс клиента каталога салонов
type CatalogClient interface {
	GetMaster(ctx context.Context, masterID int64) (*catalogservice.Master, error)
	GetMasterService(ctx context.Context, masterID, serviceID int64) (*catalogservice.Service, error)
}

// NotificationSink интерфейс отправки уведомлений, best-effort
type NotificationSink interface {
	NotifyBookingCreated(ctx context.Context, booking *domain.Booking)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс для счетчиков бронирований
type Metrics interface {
	IncBookingsCreated()
	IncBookingConflicts()
	IncTxRetries()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
