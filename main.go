package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"salonbiz-backend/config"
	"salonbiz-backend/models"
	"salonbiz-backend/routes"
	"salonbiz-backend/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := config.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := config.InitTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Fatal("failed to initialise tracing", zap.Error(err))
	}

	db, err := config.ConnectDB(cfg.DatabaseOptions())
	if err != nil {
		logger.Fatal("failed to connect database", zap.Error(err))
	}
	if err := models.Migrate(db); err != nil {
		logger.Fatal("failed to migrate schema", zap.Error(err))
	}
	if err := services.EnsureReferenceData(ctx, db, logger); err != nil {
		logger.Fatal("failed to seed reference data", zap.Error(err))
	}

	metrics := config.NewMetrics()
	opts := services.Options{
		Logger:   logger,
		Metrics:  metrics,
		Location: cfg.ReportingLocation,
		Auth: services.AuthConfig{
			Secret:     cfg.JWTSecret,
			AccessTTL:  cfg.JWTAccessTTL,
			RefreshTTL: cfg.JWTRefreshTTL,
		},
	}
	if cfg.TwilioConfigured() {
		opts.Sender = services.NewTwilioSender(cfg)
	} else {
		logger.Info("twilio not configured, notifications will be skipped")
	}
	svc := services.New(db, opts)

	if cfg.RemindersEnabled {
		reminders := svc.Reminders(logger, cfg.ReminderSchedule, cfg.ReportingLocation)
		if err := reminders.Start(); err != nil {
			logger.Fatal("failed to start reminder job", zap.Error(err))
		}
		defer reminders.Stop()
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.SetupRouter(routes.Deps{
		Services:    svc,
		Logger:      logger,
		Metrics:     metrics,
		CORSOrigins: cfg.CORSOrigins,
		Location:    cfg.ReportingLocation,
	})
	printRoutes(r, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Warn("tracer shutdown failed", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}

func printRoutes(r *gin.Engine, logger *zap.Logger) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
