package main

import (
	"context"
	"crypto/tls"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/thewellnesslondon/wellness-connect/internal/config"
	"github.com/thewellnesslondon/wellness-connect/internal/followups"
	"github.com/thewellnesslondon/wellness-connect/internal/notify"
	"github.com/thewellnesslondon/wellness-connect/internal/scheduling"
	"github.com/thewellnesslondon/wellness-connect/pkg/logging"
)

// The follow-up worker drives the two periodic jobs: day-before appointment
// reminders and scheduled follow-up content. Nothing here self-schedules;
// every send happens inside a poll tick.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.DatabaseURL == "" {
		logger.Error("follow-up worker requires DATABASE_URL")
		os.Exit(1)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisOpts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()

	var messenger notify.Messenger
	if cfg.WhatsAppToken != "" && cfg.WhatsAppPhoneNumberID != "" {
		messenger, err = notify.NewWhatsAppClient(notify.WhatsAppConfig{
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
	} else {
		logger.Warn("whatsapp not configured, follow-ups log only")
		messenger = notify.LogMessenger{Logger: logger}
	}

	notifier := notify.NewService(messenger, cfg.BusinessName, cfg.BusinessPhone, cfg.BusinessAddress, logger)
	scheduler := scheduling.NewScheduler(scheduling.NewPostgresRepository(pool), notifier, logger, nil)
	followupSvc := followups.NewService(rdb, messenger, cfg.MaxFollowUps, logger)

	interval := cfg.WorkerPollInterval
	if interval <= 0 {
		interval = time.Minute
	}

	go run(ctx, logger, interval, scheduler, followupSvc)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("follow-up worker shutting down")
	cancel()
	time.Sleep(2 * time.Second)
}

func run(ctx context.Context, logger *logging.Logger, interval time.Duration, scheduler *scheduling.Scheduler, followupSvc *followups.Service) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// lastReminderDate gates reminders to one pass per calendar day.
	lastReminderDate := ""

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			today := time.Now().Format("2006-01-02")
			if today != lastReminderDate {
				sent, err := scheduler.SendAppointmentReminders(ctx)
				if err != nil {
					logger.Error("reminder pass failed", "error", err)
				} else {
					logger.Info("reminder pass complete", "sent", sent)
					lastReminderDate = today
				}
			}

			if _, err := followupSvc.ProcessScheduledFollowUps(ctx); err != nil {
				logger.Error("follow-up pass failed", "error", err)
			}
		}
	}
}
