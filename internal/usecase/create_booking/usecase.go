package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/glowup-team/booking-service/internal/domain"
	bookingRepo "github.com/glowup-team/booking-service/internal/infra/storage/booking"
	scheduleRepo "github.com/glowup-team/booking-service/internal/infra/storage/schedule"
	catalogClient "github.com/glowup-team/booking-service/internal/integrations/catalogservice"
	"github.com/glowup-team/booking-service/pkg/timegrid"
	"github.com/glowup-team/booking-service/pkg/txmanager"
)

// Паузы перед повтором сериализуемой транзакции
const (
	retryBackoff = 50 * time.Millisecond
	maxAttempts  = 2
)

// Config настройки создания бронирований
type Config struct {
	MinBookingNoticeMinutes int // минимальное время до начала слота сегодня
	AdvanceBookingDays      int // горизонт записи, 0 - без ограничений
}

// UseCase use case создания бронирования. Проверка занятости и вставка
// выполняются в одной сериализуемой транзакции с блокировкой строк
// занятости, поэтому два конкурентных запроса на пересекающиеся интервалы
// не могут пройти оба: второй получает ErrSlotNotAvailable.
type UseCase struct {
	bookingRepo   BookingRepository
	scheduleRepo  ScheduleRepository
	catalogClient CatalogClient
	notifier      NotificationSink
	txManager     TransactionManager
	metrics       Metrics
	timeProvider  TimeProvider
	config        Config
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	catalogClient CatalogClient,
	notifier NotificationSink,
	txManager TransactionManager,
	metrics Metrics,
	config Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		scheduleRepo:  scheduleRepo,
		catalogClient: catalogClient,
		notifier:      notifier,
		txManager:     txManager,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		config:        config,
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%d, master=%d, service=%d, date=%s, time=%s",
		req.ClientID, req.MasterID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты относительно горизонта записи
	if err := validateDate(req.Date, now, uc.config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем мастера
	master, err := uc.catalogClient.GetMaster(ctx, req.MasterID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrMasterNotFound) {
			uc.logger.Warn("CreateBooking: master id=%d not found", req.MasterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("CreateBooking: failed to get master id=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	if !master.Active {
		uc.logger.Warn("CreateBooking: master id=%d is inactive", req.MasterID)
		return nil, ErrMasterInactive
	}

	// 5. Получаем услугу: длительность определяет конец слота, клиент
	// ее не передает
	service, err := uc.catalogClient.GetMasterService(ctx, req.MasterID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, catalogClient.ErrServiceNotFound):
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, catalogClient.ErrServiceNotProvided):
			uc.logger.Warn("CreateBooking: master id=%d does not provide service id=%d",
				req.MasterID, req.ServiceID)
			return nil, ErrServiceNotProvided
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	startMinute, err := timegrid.ParseClock(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	slot, err := timegrid.NewInterval(startMinute, startMinute+service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: slot does not fit the day: %v", err)
		return nil, ErrOutsideWorkingHours
	}

	// 6. Проверяем минимальное время до записи
	if err := validateBookingTime(req.Date, startMinute, now, uc.config.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 7. Резервируем слот в сериализуемой транзакции, с одним повтором
	// при serialization failure
	result, err := uc.reserveWithRetry(ctx, req, master.SalonID, service, slot)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, code=%s", result.ID, result.ReferenceCode)

	uc.metrics.IncBookingsCreated()
	uc.notifier.NotifyBookingCreated(ctx, result)

	return &Response{
		ID:            result.ID,
		ReferenceCode: result.ReferenceCode,
		ClientID:      result.ClientID,
		MasterID:      result.MasterID,
		SalonID:       result.SalonID,
		ServiceID:     result.ServiceID,
		Date:          result.Date,
		StartTime:     timegrid.FormatClock(result.StartMinute),
		EndTime:       timegrid.FormatClock(result.EndMinute),
		Status:        string(result.Status),
		ServiceName:   result.ServiceName,
		ServicePrice:  result.ServicePrice,
		Notes:         result.Notes,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

// reserveWithRetry выполняет резервирование, повторяя транзакцию один раз,
// если БД прервала ее из-за конфликта сериализации. Повтор безопасен:
// проверка занятости выполняется заново в новой транзакции.
func (uc *UseCase) reserveWithRetry(
	ctx context.Context,
	req *Request,
	salonID int64,
	service *catalogClient.Service,
	slot timegrid.Interval,
) (*domain.Booking, error) {
	var result *domain.Booking
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err = uc.reserve(ctx, req, salonID, service, slot)
		if err == nil {
			return result, nil
		}

		if !isSerializationFailure(err) || attempt == maxAttempts {
			return nil, err
		}

		uc.logger.Warn("CreateBooking: serialization failure on attempt %d, retrying: %v", attempt, err)
		uc.metrics.IncTxRetries()

		select {
		case <-time.After(retryBackoff):
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrInternal, ctx.Err())
		}
	}

	return nil, err
}

// reserve проверяет доступность слота и вставляет бронирование в одной
// сериализуемой транзакции
func (uc *UseCase) reserve(
	ctx context.Context,
	req *Request,
	salonID int64,
	service *catalogClient.Service,
	slot timegrid.Interval,
) (*domain.Booking, error) {
	var result *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Выходной проверяется внутри транзакции: он мог появиться
		// между показом слотов и попыткой записи
		_, err := uc.scheduleRepo.GetDayOff(txCtx, req.MasterID, req.Date)
		switch {
		case err == nil:
			uc.logger.Warn("CreateBooking: master=%d has a day off on %s",
				req.MasterID, req.Date.Format(domain.DateFormat))
			return ErrMasterDayOff
		case !errors.Is(err, scheduleRepo.ErrDayOffNotFound):
			uc.logger.Error("CreateBooking: failed to check day off: %v", err)
			return fmt.Errorf("%w: failed to check day off: %v", ErrInternal, err)
		}

		// Слот должен целиком помещаться в рабочие интервалы дня
		rules, err := uc.scheduleRepo.GetActiveRulesForWeekday(txCtx, req.MasterID, int(req.Date.Weekday()))
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get schedule rules: %v", err)
			return fmt.Errorf("%w: failed to get schedule rules: %v", ErrInternal, err)
		}

		working := make([]timegrid.Interval, 0, len(rules))
		for _, rule := range rules {
			working = append(working, rule.Resolve()...)
		}

		if !fitsWorkingIntervals(slot, timegrid.Merge(working)) {
			uc.logger.Warn("CreateBooking: slot %s outside working hours for master=%d", slot, req.MasterID)
			return ErrOutsideWorkingHours
		}

		// Загружаем занятость с блокировкой строк (FOR UPDATE) и проверяем
		// пересечения по половинно-открытым интервалам
		bookings, err := uc.bookingRepo.GetForMasterAndDate(txCtx, req.MasterID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		if conflict := findOverlap(slot, bookings); conflict != nil {
			uc.logger.Warn("CreateBooking: slot %s overlaps booking id=%d", slot, conflict.ID)
			uc.metrics.IncBookingConflicts()
			return ErrSlotNotAvailable
		}

		booking := &domain.Booking{
			ReferenceCode: uuid.NewString(),
			ClientID:      req.ClientID,
			MasterID:      req.MasterID,
			SalonID:       salonID,
			ServiceID:     req.ServiceID,
			Date:          req.Date,
			StartMinute:   slot.StartMinute,
			EndMinute:     slot.EndMinute,
			Status:        domain.StatusPending,
			// Денормализация данных услуги на момент записи
			ServiceName:  service.Name,
			ServicePrice: service.Price,
			Notes:        req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			// Exclusion constraint - последний рубеж: даже если проверка выше
			// не увидела конкурента, БД не даст записать пересечение
			if errors.Is(err, bookingRepo.ErrSlotConflict) {
				uc.logger.Warn("CreateBooking: exclusion constraint rejected slot %s for master=%d",
					slot, req.MasterID)
				uc.metrics.IncBookingConflicts()
				return ErrSlotNotAvailable
			}
			if isSerializationFailure(err) {
				return err
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// isSerializationFailure распознает прерывание транзакции, которое безопасно
// повторить: serialization failure или deadlock, на уровне запроса или коммита
func isSerializationFailure(err error) bool {
	return errors.Is(err, bookingRepo.ErrSerializationFailure) ||
		errors.Is(err, txmanager.ErrSerialization)
}
