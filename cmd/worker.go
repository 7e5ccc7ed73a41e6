package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	profileRepo "github.com/wellside/barber-booking/internal/infra/storage/profile"
	"github.com/wellside/barber-booking/internal/integrations/resend"
	"github.com/wellside/barber-booking/internal/notification"
	"github.com/wellside/barber-booking/pkg/dbmetrics"
	"github.com/wellside/barber-booking/pkg/metrics"
)

var workerMetricsAddr string

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Запустить обработчик email уведомлений",
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().StringVar(&workerMetricsAddr, "metrics-addr", ":9091", "Адрес endpoint метрик воркера")
}

func runWorker(_ *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Close()

	log.Info("Starting barber-booking notification worker...")

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})
	defer close(stopMetricsCh)

	db, err := openDatabase(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	var executor dbmetrics.DBExecutor = db
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName + "_worker")
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)

		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, promhttp.Handler())
		metricsSrv := &http.Server{
			Addr:              workerMetricsAddr,
			Handler:           metricsMux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("Prometheus metrics endpoint exposed at %s%s", workerMetricsAddr, cfg.Metrics.Path)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("Metrics server failed: %v", err)
			}
		}()
		defer metricsSrv.Close()
	}

	mailer := resend.NewClient(resend.Settings{
		BaseURL:     cfg.Resend.URL,
		APIKey:      cfg.Resend.APIKey,
		Timeout:     time.Duration(cfg.Resend.Timeout) * time.Second,
		MaxFailures: uint32(cfg.Resend.MaxFailures),
		OpenTimeout: time.Duration(cfg.Resend.OpenTimeout) * time.Second,
	}, log.With("resend"))

	emailHandler := notification.NewEmailHandler(
		profileRepo.NewRepository(executor),
		mailer,
		notification.WorkerSettings{
			From:       cfg.Notifications.From,
			AdminEmail: cfg.Notifications.AdminEmail,
		},
		metricsCollector,
		log.With("notification"),
	)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				cfg.Queue.Queue: 1,
			},
			ShutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(notification.TypeBookingEmail, emailHandler)

	// Run блокируется до SIGINT/SIGTERM и дожидается текущих задач
	log.Info("Worker listening on queue %s (concurrency=%d)", cfg.Queue.Queue, cfg.Queue.Concurrency)
	if err := srv.Run(mux); err != nil {
		log.Error("Worker stopped with error: %v", err)
		return err
	}

	log.Info("Worker stopped gracefully")
	return nil
}
