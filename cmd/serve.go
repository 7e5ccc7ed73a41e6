package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	cancelAttemptHandler "github.com/wellside/barber-booking/internal/api/handlers/cancel_booking_attempt"
	cancelBookingHandler "github.com/wellside/barber-booking/internal/api/handlers/cancel_booking"
	confirmAttemptHandler "github.com/wellside/barber-booking/internal/api/handlers/confirm_booking_attempt"
	getActiveBookingHandler "github.com/wellside/barber-booking/internal/api/handlers/get_active_booking"
	getAttemptHandler "github.com/wellside/barber-booking/internal/api/handlers/get_booking_attempt"
	getAvailableSlotsHandler "github.com/wellside/barber-booking/internal/api/handlers/get_available_slots"
	getBarberBookingsHandler "github.com/wellside/barber-booking/internal/api/handlers/get_barber_bookings"
	getBookingHandler "github.com/wellside/barber-booking/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/wellside/barber-booking/internal/api/handlers/get_user_bookings"
	getWorkingHoursHandler "github.com/wellside/barber-booking/internal/api/handlers/get_working_hours"
	listBarbersHandler "github.com/wellside/barber-booking/internal/api/handlers/list_barbers"
	listServicesHandler "github.com/wellside/barber-booking/internal/api/handlers/list_services"
	startAttemptHandler "github.com/wellside/barber-booking/internal/api/handlers/start_booking_attempt"
	updateBookingStatusHandler "github.com/wellside/barber-booking/internal/api/handlers/update_booking_status"
	updateWorkingHoursHandler "github.com/wellside/barber-booking/internal/api/handlers/update_working_hours"
	"github.com/wellside/barber-booking/internal/api/middleware"
	"github.com/wellside/barber-booking/internal/auth"
	"github.com/wellside/barber-booking/internal/domain"
	"github.com/wellside/barber-booking/internal/infra/sessionstore"
	barberRepo "github.com/wellside/barber-booking/internal/infra/storage/barber"
	bookingRepo "github.com/wellside/barber-booking/internal/infra/storage/booking"
	catalogRepo "github.com/wellside/barber-booking/internal/infra/storage/catalog"
	"github.com/wellside/barber-booking/internal/notification"
	barbersService "github.com/wellside/barber-booking/internal/service/barbers"
	bookingsService "github.com/wellside/barber-booking/internal/service/bookings"
	catalogService "github.com/wellside/barber-booking/internal/service/catalog"
	bookingAttemptUC "github.com/wellside/barber-booking/internal/usecase/booking_attempt"
	createBookingUC "github.com/wellside/barber-booking/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/wellside/barber-booking/internal/usecase/get_available_slots"
	"github.com/wellside/barber-booking/pkg/dbmetrics"
	"github.com/wellside/barber-booking/pkg/metrics"
	"github.com/wellside/barber-booking/pkg/simpletxmanager"
	"github.com/wellside/barber-booking/pkg/txmanager"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP API",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting barber-booking API...")

	loc, err := cfg.Business.Location()
	if err != nil {
		return err
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	db, err := openDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	// Исполнитель запросов для репозиториев (с метриками или без)
	var (
		executor dbmetrics.DBExecutor
		txMgr    *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")
		executor = wrappedDB
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		executor = db
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	bookingRepository := bookingRepo.NewRepository(executor)
	barberRepository := barberRepo.NewRepository(executor)
	catalogRepository := catalogRepo.NewRepository(executor)

	// Redis: снимки попыток бронирования и очередь уведомлений
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to ping redis at %s: %w", cfg.Redis.Addr, err)
	}
	log.Info("Successfully connected to redis (addr=%s, db=%d)", cfg.Redis.Addr, cfg.Redis.DB)

	snapshotStore := sessionstore.NewStore(redisClient, time.Duration(cfg.Redis.SessionTTL)*time.Second)

	identity := auth.NewProvider()
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Фоновый диспетчер уведомлений, бронирования не ждут отправки писем
	dispatchCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcherDone := make(chan struct{})

	var notifier createBookingUC.Notifier
	if cfg.Notifications.Enabled {
		queueClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer queueClient.Close()

		dispatcher := notification.NewDispatcher(
			bookingRepository,
			queueClient,
			notification.Settings{Location: loc, Currency: cfg.Business.Currency},
			notification.QueueSettings{
				Queue:       cfg.Queue.Queue,
				MaxRetry:    cfg.Queue.MaxRetry,
				TaskTimeout: time.Duration(cfg.Queue.TaskTimeout) * time.Second,
			},
			cfg.Notifications.BufferSize,
			metricsCollector,
			log.With("notification"),
		)
		go func() {
			defer close(dispatcherDone)
			dispatcher.Run(dispatchCtx)
		}()
		notifier = dispatcher
		log.Info("Notifications enabled (queue=%s)", cfg.Queue.Queue)
	} else {
		close(dispatcherDone)
		log.Warn("Notifications disabled")
	}

	// Инициализируем use cases
	breakWindow := domain.BreakWindow{Start: cfg.Business.BreakStart, End: cfg.Business.BreakEnd}

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		barberRepository,
		getAvailableSlotsUC.Settings{
			Location:     loc,
			Break:        breakWindow,
			Unit:         cfg.Business.SlotUnit(),
			MaxDaysAhead: cfg.Business.MaxDaysAhead,
		},
		log,
	)

	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		barberRepository,
		identity,
		notifier,
		txMgr,
		metricsCollector,
		createBookingUC.Settings{
			Location:     loc,
			Break:        breakWindow,
			Unit:         cfg.Business.SlotUnit(),
			MaxDaysAhead: cfg.Business.MaxDaysAhead,
		},
		log,
	)

	attemptManager := bookingAttemptUC.NewManager(
		createBookingUseCase,
		identity,
		bookingAttemptUC.Settings{
			GracePeriod: cfg.Business.GracePeriod(),
			Retention:   cfg.Business.AttemptRetention(),
		},
		log.With("booking_attempt"),
	).WithSnapshotStore(snapshotStore).WithMetrics(metricsCollector)

	if _, err := attemptManager.RestorePending(context.Background()); err != nil {
		log.Error("Failed to restore pending booking attempts: %v", err)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		identity,
		notifier,
		metricsCollector,
		bookingsService.Settings{
			Location:           loc,
			CancellationCutoff: cfg.Business.CancellationCutoff(),
		},
		log,
	)
	barberSvc := barbersService.NewService(barberRepository, identity, log)
	catalogSvc := catalogService.NewService(catalogRepository, cfg.Business.Currency, log)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	startAttempt := startAttemptHandler.NewHandler(attemptManager, log)
	getAttempt := getAttemptHandler.NewHandler(attemptManager, log)
	cancelAttempt := cancelAttemptHandler.NewHandler(attemptManager, log)
	confirmAttempt := confirmAttemptHandler.NewHandler(attemptManager, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getActiveBooking := getActiveBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getBarberBookings := getBarberBookingsHandler.NewHandler(bookingSvc, log)
	listBarbers := listBarbersHandler.NewHandler(barberSvc, log)
	getWorkingHours := getWorkingHoursHandler.NewHandler(barberSvc, log)
	updateWorkingHours := updateWorkingHoursHandler.NewHandler(barberSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/barbers", listBarbers.Handle).Methods(http.MethodGet)
	api.HandleFunc("/barbers/{barberId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/barbers/{barberId}/working-hours", getWorkingHours.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют Bearer токен)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(tokenManager))

	// --- Попытки бронирования (обратный отсчёт) ---
	protected.HandleFunc("/booking-attempts", startAttempt.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/booking-attempts/{attemptId}", getAttempt.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/booking-attempts/{attemptId}/cancel", cancelAttempt.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/booking-attempts/{attemptId}/confirm", confirmAttempt.Handle).Methods(http.MethodPost)

	// --- Бронирования ---
	// /bookings/active регистрируется раньше /bookings/{bookingId}
	protected.HandleFunc("/bookings/active", getActiveBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Барберы и администратор ---
	protected.HandleFunc("/barbers/{barberId}/bookings", getBarberBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/barbers/{barberId}/working-hours", updateWorkingHours.Handle).Methods(http.MethodPut)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Попытки в обратном отсчёте остаются в Redis и продолжатся после перезапуска
	log.Info("Suspended %d booking attempts", attemptManager.SuspendAll())

	// Уже начатые фиксации должны успеть опубликовать событие до остановки диспетчера
	if n, err := attemptManager.WaitConfirming(shutdownCtx); err != nil {
		log.Error("Shutdown timeout while %d booking attempts were committing: %v", n, err)
	} else if n > 0 {
		log.Info("Waited for %d committing booking attempts", n)
	}

	stopDispatcher()
	<-dispatcherDone

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	log.Info("Server stopped gracefully")
	return nil
}
