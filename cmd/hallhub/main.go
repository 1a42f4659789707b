package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/scienceclub/hallhub/internal/access"
	"github.com/scienceclub/hallhub/internal/app"
	"github.com/scienceclub/hallhub/internal/audit"
	audithttp "github.com/scienceclub/hallhub/internal/audit/http"
	"github.com/scienceclub/hallhub/internal/auth"
	"github.com/scienceclub/hallhub/internal/bookings"
	"github.com/scienceclub/hallhub/internal/observability"
	"github.com/scienceclub/hallhub/internal/platform/cache"
	"github.com/scienceclub/hallhub/internal/platform/db"
	"github.com/scienceclub/hallhub/internal/reports"
	"github.com/scienceclub/hallhub/internal/resources"
	"github.com/scienceclub/hallhub/internal/shared"
	"github.com/scienceclub/hallhub/internal/students"
	"github.com/scienceclub/hallhub/internal/users"
	"github.com/scienceclub/hallhub/internal/view"
	"github.com/scienceclub/hallhub/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

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

	sessionManager := shared.NewSessionManager(redisClient, "hallhub_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	auditRecorder := shared.NewAuditRecorder(dbpool)
	idempotencyStore := shared.NewIdempotencyStore(dbpool)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, templates, sessionManager, csrfManager)

	usersRepo := users.NewRepository(dbpool)
	usersService := users.NewService(usersRepo, auditRecorder, logger)

	accessMW := access.Middleware{Directory: usersService, Logger: logger}

	usersHandler := users.NewHandler(logger, usersService, templates, csrfManager, accessMW)

	resourcesRepo := resources.NewRepository(dbpool)
	resourcesService := resources.NewService(resourcesRepo, auditRecorder, logger)
	resourcesHandler := resources.NewHandler(logger, resourcesService, templates, csrfManager, accessMW)

	studentsRepo := students.NewRepository(dbpool)
	studentsService := students.NewService(studentsRepo)
	studentsHandler := students.NewHandler(logger, studentsService, templates, csrfManager, accessMW)

	reportsRepo := reports.NewRepository(dbpool)
	reportsCache := reports.NewCache(redisClient, cfg.ReportCacheTTL)
	reportsService := reports.NewService(reportsRepo, reportsCache)
	reportsHandler := reports.NewHandler(logger, reportsService, templates, csrfManager, accessMW)

	bookingsRepo := bookings.NewRepository(dbpool)
	bookingsService := bookings.NewService(bookingsRepo, idempotencyStore, auditRecorder, reportsService, logger)
	bookingsHandler := bookings.NewHandler(logger, bookingsService, resourcesService, templates, csrfManager, accessMW)

	auditRepo := audit.NewRepository(dbpool)
	auditService := audit.NewService(auditRepo)
	auditExporter := audit.NewExporter()
	auditHandler := audithttp.NewHandler(logger, auditService, templates, auditExporter, csrfManager, accessMW)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		Templates:        templates,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		UsersHandler:     usersHandler,
		ResourcesHandler: resourcesHandler,
		StudentsHandler:  studentsHandler,
		BookingsHandler:  bookingsHandler,
		ReportsHandler:   reportsHandler,
		AuditHandler:     auditHandler,
		JobsHandler:      jobsHandler,
		AccessMiddleware: accessMW,
		Dashboard:        app.NewDashboardRepository(dbpool),
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
