package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/smilecrest/practice-engine/pkg/auth"
	"github.com/smilecrest/practice-engine/pkg/clock"
	"github.com/smilecrest/practice-engine/pkg/config"
	"github.com/smilecrest/practice-engine/pkg/database"
	"github.com/smilecrest/practice-engine/pkg/handlers"
	"github.com/smilecrest/practice-engine/pkg/middleware"
	"github.com/smilecrest/practice-engine/pkg/repositories"
	"github.com/smilecrest/practice-engine/pkg/services"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfg, err := config.Load("config.yaml", Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.Strings("rooms", cfg.Scheduling.Rooms))

	// Migrations run over database/sql; the pool below serves requests.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal("Failed to configure auth", zap.Error(err))
	}

	// Repositories
	staffRepo := repositories.NewStaffRepository(db.Pool)
	leaveRepo := repositories.NewLeaveRepository(db.Pool)
	scheduleRepo := repositories.NewScheduleRepository(db.Pool)
	kpiRepo := repositories.NewKPIRepository(db.Pool)
	warningRepo := repositories.NewWarningRepository(db.Pool)
	eventRepo := repositories.NewEventRepository(db.Pool)
	notificationRepo := repositories.NewNotificationRepository(db.Pool)
	auditRepo := repositories.NewAuditRepository(db.Pool)

	// Services
	txm := database.NewTxManager(db.Pool)
	clk := clock.New()
	auditSvc := services.NewAuditService(auditRepo, logger)
	notifySvc := services.NewNotificationService(notificationRepo, logger)
	eventSvc := services.NewEventService(eventRepo)
	staffSvc := services.NewStaffService(staffRepo, auditSvc, logger)
	leaveSvc := services.NewLeaveService(leaveRepo, scheduleRepo, staffRepo, eventRepo, notifySvc, auditSvc, txm, logger)
	schedulerSvc := services.NewSchedulerService(scheduleRepo, leaveRepo, staffRepo, cfg.Scheduling, txm, clk, logger)
	scheduleSvc := services.NewScheduleService(scheduleRepo, leaveRepo, staffRepo, cfg.Scheduling, auditSvc, logger)
	warningSvc := services.NewWarningService(warningRepo, staffRepo, eventRepo, notifySvc, auditSvc, logger)
	kpiSvc := services.NewKPIService(kpiRepo, staffRepo, eventRepo, notifySvc, warningSvc, auditSvc, txm, clk, logger)

	// HTTP
	mw := auth.NewMiddleware(tokens, logger)
	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(staffSvc, tokens, logger).RegisterRoutes(mux)
	handlers.NewStaffHandler(staffSvc, eventSvc, logger).RegisterRoutes(mux, mw)
	handlers.NewScheduleHandler(schedulerSvc, scheduleSvc, clk, logger).RegisterRoutes(mux, mw)
	handlers.NewLeaveHandler(leaveSvc, clk, logger).RegisterRoutes(mux, mw)
	handlers.NewKPIHandler(kpiSvc, clk, logger).RegisterRoutes(mux, mw)
	handlers.NewWarningHandler(warningSvc, logger).RegisterRoutes(mux, mw)
	handlers.NewNotificationHandler(notifySvc, logger).RegisterRoutes(mux, mw)
	handlers.NewAuditHandler(auditSvc, logger).RegisterRoutes(mux, mw)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting practice-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
