package bookings

import (
	"context"

	"github.com/glowup-team/booking-service/internal/domain"
	"github.com/glowup-team/booking-service/internal/integrations/catalogservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReferenceCode(ctx context.Context, code string) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByMasterWithFilter(ctx context.Context, filter domain.MasterBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// CatalogClient интерфейс клиента каталога салонов
type CatalogClient interface {
	GetMaster(ctx context.Context, masterID int64) (*catalogservice.Master, error)
}

// NotificationSink интерфейс отправки уведомлений о событиях бронирований.
// Реализации не возвращают ошибок: доставка best-effort
type NotificationSink interface {
	NotifyBookingCancelled(ctx context.Context, booking *domain.Booking, reason string)
	NotifyStatusChanged(ctx context.Context, booking *domain.Booking)
}

// Metrics интерфейс бизнес-метрик бронирований
type Metrics interface {
	IncBookingsCancelled(initiator string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
