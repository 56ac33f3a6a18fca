package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowup-team/booking-service/internal/domain"
	bookingRepo "github.com/glowup-team/booking-service/internal/infra/storage/booking"
	catalogClient "github.com/glowup-team/booking-service/internal/integrations/catalogservice"
	"github.com/glowup-team/booking-service/internal/service/bookings/models"
)

// Service сервис для работы с существующими бронированиями: просмотр,
// списки, отмена и смена статусов. Создание бронирований живет в
// отдельном usecase с транзакционной защитой от двойной записи.
type Service struct {
	bookingRepo   BookingRepository
	catalogClient CatalogClient
	notifier      NotificationSink
	metrics       Metrics
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	catalogClient CatalogClient,
	notifier NotificationSink,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		notifier:      notifier,
		metrics:       metrics,
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - клиент видит только свои бронирования,
// мастер - бронирования своего салона
func (s *Service) GetByID(ctx context.Context, id int64, actorID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for actor=%d", id, actorID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkActorAccess(ctx, booking, actorID); err != nil {
		s.logger.Warn("GetByID: access denied for actor=%d to booking id=%d", actorID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetByReferenceCode получает бронирование по публичному коду
func (s *Service) GetByReferenceCode(ctx context.Context, code string, actorID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByReferenceCode: fetching booking code=%s for actor=%d", code, actorID)

	booking, err := s.bookingRepo.GetByReferenceCode(ctx, code)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByReferenceCode: booking code=%s not found", code)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByReferenceCode: repository error for code=%s: %v", code, err)
		return nil, fmt.Errorf("%w: GetByReferenceCode - repository error: %v", ErrInternal, err)
	}

	if err := s.checkActorAccess(ctx, booking, actorID); err != nil {
		s.logger.Warn("GetByReferenceCode: access denied for actor=%d to booking code=%s", actorID, code)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetMasterBookings получает бронирования мастера с гибкой фильтрацией:
// по периоду, статусу и включению отмененных. Доступно самому мастеру
// и мастерам того же салона.
//
// Примеры использования:
// - Все активные бронирования: GetMasterBookings(ctx, &GetMasterBookingsRequest{MasterID: 123, ActorID: 123})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отмененные: IncludeInactive = true
func (s *Service) GetMasterBookings(ctx context.Context, req *models.GetMasterBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetMasterBookings: fetching bookings for master=%d, actor=%d", req.MasterID, req.ActorID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if err := s.checkSalonAccess(ctx, req.MasterID, req.ActorID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetMasterBookings: invalid filter for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByMasterWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetMasterBookings: repository error for master=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: GetMasterBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetMasterBookings: successfully fetched %d bookings for master=%d", len(bookings), req.MasterID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить только свое бронирование (cancelled_by_client)
// Мастер салона может отменить любое бронирование салона (cancelled_by_salon)
// Отмененный интервал сразу освобождает сетку мастера
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by actor=%d", bookingID, req.ActorID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Определяем статус отмены в зависимости от того, кто отменяет
	var cancelStatus domain.BookingStatus

	if booking.ClientID == req.ActorID {
		cancelStatus = domain.StatusCancelledByClient
	} else {
		if err := s.checkSalonAccess(ctx, booking.MasterID, req.ActorID); err != nil {
			s.logger.Warn("Cancel: access denied for actor=%d to cancel booking id=%d", req.ActorID, bookingID)
			return ErrAccessDenied
		}
		cancelStatus = domain.StatusCancelledBySalon
	}

	// Проверяем переход по таблице статусов: подтвержденное бронирование
	// клиент отменить уже не может, только салон
	if !booking.CanTransitionTo(cancelStatus) {
		s.logger.Warn("Cancel: transition %s -> %s not allowed for booking id=%d",
			booking.Status, cancelStatus, bookingID)
		return ErrCannotCancel
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if cancelStatus == domain.StatusCancelledByClient {
		s.metrics.IncBookingsCancelled("client")
	} else {
		s.metrics.IncBookingsCancelled("salon")
	}

	booking.Status = cancelStatus
	s.notifier.NotifyBookingCancelled(ctx, booking, req.CancellationReason)

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return nil
}

// UpdateStatus обновляет статус бронирования по таблице допустимых переходов
// Доступно только мастерам салона
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by actor=%d",
		bookingID, req.Status, req.ActorID)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if err := s.checkSalonAccess(ctx, booking.MasterID, req.ActorID); err != nil {
		return err
	}

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if !booking.CanTransitionTo(newStatus) {
		s.logger.Warn("UpdateStatus: transition %s -> %s not allowed for booking id=%d",
			booking.Status, newStatus, bookingID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found during update", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	booking.Status = newStatus
	s.notifier.NotifyStatusChanged(ctx, booking)

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return nil
}

// Вспомогательные методы

// checkActorAccess проверяет, что актор имеет доступ к бронированию
// Клиент видит свое бронирование, мастер салона - бронирования салона
func (s *Service) checkActorAccess(ctx context.Context, booking *domain.Booking, actorID int64) error {
	if booking.ClientID == actorID {
		return nil
	}

	if err := s.checkSalonAccess(ctx, booking.MasterID, actorID); err != nil {
		// Ошибка уже залогирована в checkSalonAccess
		return ErrAccessDenied
	}

	return nil
}

// checkSalonAccess проверяет, что актор - это сам мастер либо мастер того же салона
func (s *Service) checkSalonAccess(ctx context.Context, masterID int64, actorID int64) error {
	if masterID == actorID {
		return nil
	}

	master, err := s.catalogClient.GetMaster(ctx, masterID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrMasterNotFound) {
			s.logger.Warn("checkSalonAccess: master id=%d not found", masterID)
			return ErrMasterNotFound
		}
		s.logger.Error("checkSalonAccess: failed to get master id=%d: %v", masterID, err)
		return fmt.Errorf("%w: checkSalonAccess - failed to get master: %v", ErrInternal, err)
	}

	actor, err := s.catalogClient.GetMaster(ctx, actorID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrMasterNotFound) {
			s.logger.Warn("checkSalonAccess: actor=%d is not a master", actorID)
			return ErrAccessDenied
		}
		s.logger.Error("checkSalonAccess: failed to get actor id=%d: %v", actorID, err)
		return fmt.Errorf("%w: checkSalonAccess - failed to get actor: %v", ErrInternal, err)
	}

	if actor.SalonID != master.SalonID {
		s.logger.Warn("checkSalonAccess: actor=%d belongs to another salon", actorID)
		return ErrAccessDenied
	}

	return nil
}
