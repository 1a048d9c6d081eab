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
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	createBookingHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/delete_booking"
	getAvailableFarmsHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/get_available_farms"
	getBookingHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/get_booking"
	getBookingsHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/get_bookings"
	getFarmAvailabilityHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/get_farm_availability"
	getFarmStatisticsHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/get_farm_statistics"
	getInvoiceHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/get_invoice"
	getUserOrdersHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/get_user_orders"
	updateBookingHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/update_booking"
	updatePaymentStatusHandler "github.com/m04kA/FMH-BookingService/internal/api/handlers/update_payment_status"
	"github.com/m04kA/FMH-BookingService/internal/api/middleware"
	"github.com/m04kA/FMH-BookingService/internal/config"
	bookingRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/booking"
	farmhouseRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/farmhouse"
	userRepo "github.com/m04kA/FMH-BookingService/internal/infra/storage/user"
	bookingsService "github.com/m04kA/FMH-BookingService/internal/service/bookings"
	"github.com/m04kA/FMH-BookingService/internal/service/statussweep"
	createBookingUC "github.com/m04kA/FMH-BookingService/internal/usecase/create_booking"
	getAvailableFarmsUC "github.com/m04kA/FMH-BookingService/internal/usecase/get_available_farms"
	updatePaymentStatusUC "github.com/m04kA/FMH-BookingService/internal/usecase/update_payment_status"
	"github.com/m04kA/FMH-BookingService/pkg/dbmetrics"
	"github.com/m04kA/FMH-BookingService/pkg/logger"
	"github.com/m04kA/FMH-BookingService/pkg/metrics"
	"github.com/m04kA/FMH-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/FMH-BookingService/pkg/txmanager"
)

// noopSweepMetrics заглушка метрик sweep-воркера при выключенных метриках
type noopSweepMetrics struct{}

func (noopSweepMetrics) ObserveSweepPass(pass string, updated, failures int) {}

func main() {
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

	log.Info("Starting FMH-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
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

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository   *bookingRepo.Repository
		farmhouseRepository *farmhouseRepo.Repository
		userRepository      *userRepo.Repository
	)

	// Интерфейс transaction manager, общий для обеих реализаций
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		farmhouseRepository = farmhouseRepo.NewRepository(wrappedDB)
		userRepository = userRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		farmhouseRepository = farmhouseRepo.NewRepository(db)
		userRepository = userRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		farmhouseRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		farmhouseRepository,
		userRepository,
		txMgr,
		log,
	)

	getAvailableFarmsUseCase := getAvailableFarmsUC.NewUseCase(
		bookingRepository,
		farmhouseRepository,
		log,
	)

	updatePaymentStatusUseCase := updatePaymentStatusUC.NewUseCase(
		bookingRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableFarms := getAvailableFarmsHandler.NewHandler(getAvailableFarmsUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBookings := getBookingsHandler.NewHandler(bookingSvc, log)
	getFarmAvailability := getFarmAvailabilityHandler.NewHandler(bookingSvc, log)
	getFarmStatistics := getFarmStatisticsHandler.NewHandler(bookingSvc, log)
	getInvoice := getInvoiceHandler.NewHandler(bookingSvc, log)
	getUserOrders := getUserOrdersHandler.NewHandler(bookingSvc, log)
	updateBooking := updateBookingHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	updatePaymentStatus := updatePaymentStatusHandler.NewHandler(updatePaymentStatusUseCase, log)

	// Запускаем фоновый пересчёт статусов бронирований
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()

	if cfg.Sweep.Enabled {
		var sweepMetrics statussweep.Metrics = noopSweepMetrics{}
		if cfg.Metrics.Enabled {
			sweepMetrics = metricsCollector
		}

		sweepSvc := statussweep.NewService(bookingRepository, sweepMetrics, log).
			WithIntervals(
				time.Duration(cfg.Sweep.DueIntervalMinutes)*time.Minute,
				time.Duration(cfg.Sweep.HourlyIntervalMinutes)*time.Minute,
				time.Duration(cfg.Sweep.DailyIntervalHours)*time.Hour,
			)
		go sweepSvc.Run(sweepCtx)
		log.Info("Booking status sweep worker started")
	}

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
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

	// Создание бронирования: авторизация опциональна, гости бронируют
	// по контактным данным
	api.Handle("/bookings",
		middleware.OptionalAuth(http.HandlerFunc(createBooking.Handle))).Methods(http.MethodPost)

	// Подбор доступных ферм на дату
	api.HandleFunc("/bookings/available-farms", getAvailableFarms.Handle).Methods(http.MethodGet)

	// Публичный инвойс по токену
	api.HandleFunc("/bookings/invoice/{token}", getInvoice.Handle).Methods(http.MethodGet)

	// Занятые интервалы фермы
	api.HandleFunc("/bookings/farm/{farmhouseId}/availability",
		getFarmAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Список бронирований с фильтрацией (админ)
	protected.HandleFunc("/bookings", getBookings.Handle).Methods(http.MethodGet)

	// История заказов пользователя
	protected.HandleFunc("/bookings/user/{userId}", getUserOrders.Handle).Methods(http.MethodGet)

	// Статистика фермы (админ)
	protected.HandleFunc("/bookings/farm/{farmhouseId}/statistics",
		getFarmStatistics.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Административное редактирование бронирования
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPatch)

	// Удаление бронирования (админ)
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)

	// Смена платёжного статуса
	protected.HandleFunc("/bookings/{bookingId}/payment-status",
		updatePaymentStatus.Handle).Methods(http.MethodPatch)

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

	// Останавливаем sweep-воркер
	stopSweep()

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
