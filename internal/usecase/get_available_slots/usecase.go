package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/glowup-team/booking-service/internal/domain"
	scheduleRepo "github.com/glowup-team/booking-service/internal/infra/storage/schedule"
	catalogClient "github.com/glowup-team/booking-service/internal/integrations/catalogservice"
	"github.com/glowup-team/booking-service/pkg/timegrid"
)

// Config настройки генерации слотов
type Config struct {
	SlotGranularityMinutes  int // шаг сетки начал слотов
	MinBookingNoticeMinutes int // минимальное время до начала слота сегодня
	AdvanceBookingDays      int // горизонт записи, 0 - без ограничений
}

// UseCase use case для получения доступных слотов записи к мастеру.
// Слоты вычисляются заново на каждый запрос: расписание минус выходной
// минус перерывы минус занятость. Результат нигде не кэшируется.
type UseCase struct {
	bookingRepo   BookingRepository
	scheduleRepo  ScheduleRepository
	catalogClient CatalogClient
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
	metrics Metrics,
	config Config,
	logger Logger,
) *UseCase {
	if config.SlotGranularityMinutes <= 0 {
		config.SlotGranularityMinutes = domain.DefaultSlotGranularityMinutes
	}

	return &UseCase{
		bookingRepo:   bookingRepo,
		scheduleRepo:  scheduleRepo,
		catalogClient: catalogClient,
		metrics:       metrics,
		timeProvider:  &RealTimeProvider{},
		config:        config,
		logger:        logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: master=%d, service=%d, date=%s",
		req.MasterID, req.ServiceID, req.Date.Format(domain.DateFormat))

	uc.metrics.IncSlotQueries()

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Валидация даты относительно горизонта записи
	if err := validateDate(req.Date, now, uc.config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 4. Получаем мастера
	master, err := uc.catalogClient.GetMaster(ctx, req.MasterID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrMasterNotFound) {
			uc.logger.Warn("GetAvailableSlots: master id=%d not found", req.MasterID)
			return nil, ErrMasterNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get master id=%d: %v", req.MasterID, err)
		return nil, fmt.Errorf("%w: failed to get master: %v", ErrInternal, err)
	}

	if !master.Active {
		uc.logger.Warn("GetAvailableSlots: master id=%d is inactive", req.MasterID)
		return nil, ErrMasterInactive
	}

	// 5. Получаем услугу в исполнении этого мастера (длительность и цена)
	service, err := uc.catalogClient.GetMasterService(ctx, req.MasterID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, catalogClient.ErrServiceNotFound):
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, catalogClient.ErrServiceNotProvided):
			uc.logger.Warn("GetAvailableSlots: master id=%d does not provide service id=%d",
				req.MasterID, req.ServiceID)
			return nil, ErrServiceNotProvided
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	emptyResponse := func(reason string) *Response {
		return &Response{
			Date:            req.Date,
			MasterID:        req.MasterID,
			MasterName:      master.FullName,
			ServiceID:       req.ServiceID,
			DurationMinutes: service.DurationMinutes,
			Slots:           []Slot{},
			Reason:          reason,
		}
	}

	// 6. Выходной день перекрывает любое недельное правило
	dayOff, err := uc.scheduleRepo.GetDayOff(ctx, req.MasterID, req.Date)
	switch {
	case err == nil:
		uc.logger.Info("GetAvailableSlots: master=%d has a day off on %s",
			req.MasterID, req.Date.Format(domain.DateFormat))
		reason := domain.ReasonDayOff
		if dayOff.Reason != "" {
			reason = fmt.Sprintf("%s: %s", domain.ReasonDayOff, dayOff.Reason)
		}
		return emptyResponse(reason), nil
	case !errors.Is(err, scheduleRepo.ErrDayOffNotFound):
		uc.logger.Error("GetAvailableSlots: failed to check day off: %v", err)
		return nil, fmt.Errorf("%w: failed to check day off: %v", ErrInternal, err)
	}

	// 7. Разворачиваем недельные правила в рабочие интервалы дня
	weekday := int(req.Date.Weekday())
	rules, err := uc.scheduleRepo.GetActiveRulesForWeekday(ctx, req.MasterID, weekday)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule rules: %v", ErrInternal, err)
	}

	working := resolveWorkingIntervals(rules)
	if len(working) == 0 {
		uc.logger.Info("GetAvailableSlots: master=%d has no schedule for weekday=%d", req.MasterID, weekday)
		return emptyResponse(domain.ReasonNoSchedule), nil
	}

	// 8. Загружаем занятость мастера на дату
	bookings, err := uc.bookingRepo.GetForMasterAndDate(ctx, req.MasterID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 9. Генерируем слоты: свободные отрезки, окна длиной в услугу
	candidates := generateSlots(
		working,
		occupiedIntervals(bookings),
		service.DurationMinutes,
		uc.config.SlotGranularityMinutes,
	)

	// 10. Для сегодняшней даты отбрасываем уже прошедшие слоты
	candidates = filterPastSlots(candidates, req.Date, now, uc.config.MinBookingNoticeMinutes)

	if len(candidates) == 0 {
		uc.logger.Info("GetAvailableSlots: no free slots for master=%d on %s",
			req.MasterID, req.Date.Format(domain.DateFormat))
		return emptyResponse(domain.ReasonFullyBooked), nil
	}

	slots := make([]Slot, len(candidates))
	for i, c := range candidates {
		slots[i] = Slot{
			StartTime: timegrid.FormatClock(c.StartMinute),
			EndTime:   timegrid.FormatClock(c.EndMinute),
			Available: true,
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for master=%d, service=%d, date=%s",
		len(slots), req.MasterID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		MasterID:        req.MasterID,
		MasterName:      master.FullName,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes,
		Slots:           slots,
	}, nil
}
