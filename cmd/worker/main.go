package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/scienceclub/hallhub/internal/app"
	"github.com/scienceclub/hallhub/internal/observability"
	"github.com/scienceclub/hallhub/internal/platform/cache"
	"github.com/scienceclub/hallhub/internal/platform/db"
	"github.com/scienceclub/hallhub/internal/reports"
	"github.com/scienceclub/hallhub/internal/shared"
	"github.com/scienceclub/hallhub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	client, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	idempotencyStore := shared.NewIdempotencyStore(pool)

	reportsRepo := reports.NewRepository(pool)
	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := reports.NewService(reportsRepo, reportsCache)

	remindersJob := jobs.NewBookingRemindersJob(pool, client, logger, metrics, cfg.ReminderEmail)
	warmupJob := jobs.NewReportWarmupJob(reportsService, logger, metrics)

	mailer := &jobs.Mailer{
		Host:   cfg.SMTPHost,
		Port:   cfg.SMTPPort,
		From:   cfg.SMTPFrom,
		Logger: logger,
	}

	// Report cache versions bump over pubsub when bookings change.
	if err := reportsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Mailer:    mailer,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeBookingReminders, Handler: remindersJob.Handle},
			{Type: jobs.TaskTypeReportWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskTypeIdempotencyCleanup, Handler: func(ctx context.Context, t *asynq.Task) error {
				return idempotencyStore.Cleanup(ctx, 48*time.Hour)
			}},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 6 * * *", Task: asynq.NewTask(jobs.TaskTypeBookingReminders, nil), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "15 5 * * *", Task: asynq.NewTask(jobs.TaskTypeReportWarmup, nil), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "45 4 * * *", Task: asynq.NewTask(jobs.TaskTypeIdempotencyCleanup, nil), Options: []asynq.Option{asynq.MaxRetry(2)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
