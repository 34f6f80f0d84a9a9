package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/thewellnesslondon/wellness-connect/internal/api/router"
	appconfig "github.com/thewellnesslondon/wellness-connect/internal/config"
	"github.com/thewellnesslondon/wellness-connect/internal/followups"
	"github.com/thewellnesslondon/wellness-connect/internal/http/handlers"
	"github.com/thewellnesslondon/wellness-connect/internal/notify"
	"github.com/thewellnesslondon/wellness-connect/internal/observability/metrics"
	"github.com/thewellnesslondon/wellness-connect/internal/qualification"
	"github.com/thewellnesslondon/wellness-connect/internal/scheduling"
	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting wellness-connect API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Storage: pgx pool for appointments, database/sql for qualification.
	var (
		schedRepo scheduling.Repository
		qualRepo  qualification.Repository
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open db", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		schedRepo = scheduling.NewPostgresRepository(pool)
		qualRepo = qualification.NewPostgresRepository(db)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		schedRepo = scheduling.NewInMemoryRepository()
		qualRepo = qualification.NewInMemoryRepository()
	}

	// Metrics registry with process and Go runtime collectors.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	qualMetrics := metrics.NewQualificationMetrics(registry)
	schedMetrics := metrics.NewSchedulingMetrics(registry)

	// Outbound messaging degrades to log-only when WhatsApp is not
	// configured, so local runs do not need credentials.
	var messenger notify.Messenger
	if cfg.WhatsAppToken != "" && cfg.WhatsAppPhoneNumberID != "" {
		waClient, err := notify.NewWhatsAppClient(notify.WhatsAppConfig{
			BaseURL:       cfg.WhatsAppBaseURL,
			Token:         cfg.WhatsAppToken,
			PhoneNumberID: cfg.WhatsAppPhoneNumberID,
			Timeout:       cfg.WhatsAppSendTimeout,
			Logger:        logger,
		})
		if err != nil {
			logger.Error("failed to create whatsapp client", "error", err)
			os.Exit(1)
		}
		messenger = waClient
	} else {
		logger.Warn("whatsapp not configured, outbound messages log only")
		messenger = notify.LogMessenger{Logger: logger}
	}
	notifier := notify.NewService(messenger, cfg.BusinessName, cfg.BusinessPhone, cfg.BusinessAddress, logger)

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	followupSvc := followups.NewService(rdb, messenger, cfg.MaxFollowUps, logger)

	qualifier := qualification.NewQualifier(qualRepo, logger, qualMetrics)
	scheduler := scheduling.NewScheduler(schedRepo, notifier, logger, schedMetrics)

	schedulingHandler := handlers.NewSchedulingHandler(scheduler, logger).
		WithFollowUps(followupSvc, time.Duration(cfg.FollowUpDelayHours)*time.Hour)

	r := router.New(&router.Config{
		Logger:          logger,
		Qualification:   handlers.NewQualificationHandler(qualifier, logger),
		Scheduling:      schedulingHandler,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		StaffAuthSecret: cfg.AdminJWTSecret,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
