package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/glowup-team/booking-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/glowup-team/booking-service/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/glowup-team/booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/glowup-team/booking-service/internal/api/handlers/get_booking"
	getClientBookingsHandler "github.com/glowup-team/booking-service/internal/api/handlers/get_client_bookings"
	getMasterBookingsHandler "github.com/glowup-team/booking-service/internal/api/handlers/get_master_bookings"
	getMasterScheduleHandler "github.com/glowup-team/booking-service/internal/api/handlers/get_master_schedule"
	updateBookingStatusHandler "github.com/glowup-team/booking-service/internal/api/handlers/update_booking_status"
	updateDayOffHandler "github.com/glowup-team/booking-service/internal/api/handlers/update_day_off"
	updateScheduleHandler "github.com/glowup-team/booking-service/internal/api/handlers/update_schedule"
	"github.com/glowup-team/booking-service/internal/api/middleware"
	"github.com/glowup-team/booking-service/internal/config"
	"github.com/glowup-team/booking-service/internal/domain"
	bookingRepo "github.com/glowup-team/booking-service/internal/infra/storage/booking"
	scheduleRepo "github.com/glowup-team/booking-service/internal/infra/storage/schedule"
	catalogServiceClient "github.com/glowup-team/booking-service/internal/integrations/catalogservice"
	notifierClient "github.com/glowup-team/booking-service/internal/integrations/notifier"
	bookingsService "github.com/glowup-team/booking-service/internal/service/bookings"
	scheduleService "github.com/glowup-team/booking-service/internal/service/schedule"
	createBookingUC "github.com/glowup-team/booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/glowup-team/booking-service/internal/usecase/get_available_slots"
	"github.com/glowup-team/booking-service/pkg/dbmetrics"
	"github.com/glowup-team/booking-service/pkg/logger"
	"github.com/glowup-team/booking-service/pkg/metrics"
	"github.com/glowup-team/booking-service/pkg/simpletxmanager"
	"github.com/glowup-team/booking-service/pkg/txmanager"
)

func main() {
	// Подхватываем .env до чтения конфигурации (пароль БД и т.п.)
	_ = godotenv.Load()

	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент каталога салонов
	catalogClient := catalogServiceClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog service client initialized (url=%s timeout=%ds)",
		cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	// Сервис уведомлений опционален: без URL события просто не доставляются
	type EventSink interface {
		NotifyBookingCreated(ctx context.Context, booking *domain.Booking)
		NotifyBookingCancelled(ctx context.Context, booking *domain.Booking, reason string)
		NotifyStatusChanged(ctx context.Context, booking *domain.Booking)
	}
	var eventSink EventSink = notifierClient.NopNotifier{}
	if cfg.Notifier.URL != "" {
		eventSink = notifierClient.NewClient(
			cfg.Notifier.URL,
			time.Duration(cfg.Notifier.Timeout)*time.Second,
			log,
		)
		log.Info("Notifier client initialized (url=%s timeout=%ds)", cfg.Notifier.URL, cfg.Notifier.Timeout)
	} else {
		log.Warn("Notifier is not configured, booking events will not be delivered")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository  *bookingRepo.Repository
		scheduleRepository *scheduleRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Бизнес-метрики: заглушка, когда прометей выключен
	var (
		bookingMetrics bookingsService.Metrics     = metrics.Nop{}
		slotsMetrics   getAvailableSlotsUC.Metrics = metrics.Nop{}
		createMetrics  createBookingUC.Metrics     = metrics.Nop{}
	)
	if cfg.Metrics.Enabled {
		bookingMetrics = metricsCollector
		slotsMetrics = metricsCollector
		createMetrics = metricsCollector
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		catalogClient,
		eventSink,
		bookingMetrics,
		log,
	)
	scheduleSvc := scheduleService.NewService(scheduleRepository, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogClient,
		eventSink,
		txMgr,
		createMetrics,
		createBookingUC.Config{
			MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
			AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
		},
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		scheduleRepository,
		catalogClient,
		slotsMetrics,
		getAvailableSlotsUC.Config{
			SlotGranularityMinutes:  cfg.Booking.SlotGranularityMinutes,
			MinBookingNoticeMinutes: cfg.Booking.MinBookingNoticeMinutes,
			AdvanceBookingDays:      cfg.Booking.AdvanceBookingDays,
		},
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getClientBookings := getClientBookingsHandler.NewHandler(bookingSvc, log)
	getMasterBookings := getMasterBookingsHandler.NewHandler(bookingSvc, log)
	getMasterSchedule := getMasterScheduleHandler.NewHandler(scheduleSvc, log)
	updateSchedule := updateScheduleHandler.NewHandler(scheduleSvc, log)
	updateDayOff := updateDayOffHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты записи к мастеру
	api.HandleFunc("/masters/{masterId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Расписание мастера (правила и выходные)
	api.HandleFunc("/masters/{masterId}/schedule",
		getMasterSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Получение бронирования по коду подтверждения
	protected.HandleFunc("/bookings/by-code/{referenceCode}", getBooking.HandleByCode).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Смена статуса бронирования (подтверждение, завершение, неявка)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований клиента
	protected.HandleFunc("/clients/{clientId}/bookings", getClientBookings.Handle).Methods(http.MethodGet)

	// --- Управление мастером (для сотрудников салона) ---
	// Список бронирований мастера
	protected.HandleFunc("/masters/{masterId}/bookings", getMasterBookings.Handle).Methods(http.MethodGet)

	// Недельные правила расписания
	protected.HandleFunc("/masters/{masterId}/schedule/rules",
		updateSchedule.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/masters/{masterId}/schedule/rules/{ruleId}",
		updateSchedule.HandleUpdate).Methods(http.MethodPut)
	protected.HandleFunc("/masters/{masterId}/schedule/rules/{ruleId}",
		updateSchedule.HandleDelete).Methods(http.MethodDelete)

	// Выходные дни
	protected.HandleFunc("/masters/{masterId}/day-offs",
		updateDayOff.HandleCreate).Methods(http.MethodPost)
	protected.HandleFunc("/masters/{masterId}/day-offs/{dayOffId}",
		updateDayOff.HandleDelete).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
