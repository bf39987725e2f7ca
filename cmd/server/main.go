package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/app"
	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/scheduler"
	"github.com/mamadbah2/herdbook/internal/server/handlers"
	"github.com/mamadbah2/herdbook/internal/server/router"
	authsvc "github.com/mamadbah2/herdbook/internal/service/auth"
	dashboardsvc "github.com/mamadbah2/herdbook/internal/service/dashboard"
	feedsvc "github.com/mamadbah2/herdbook/internal/service/feed"
	healthsvc "github.com/mamadbah2/herdbook/internal/service/health"
	herdsvc "github.com/mamadbah2/herdbook/internal/service/herd"
	milksvc "github.com/mamadbah2/herdbook/internal/service/milk"
	notifysvc "github.com/mamadbah2/herdbook/internal/service/notify"
	userssvc "github.com/mamadbah2/herdbook/internal/service/users"
	whatsappclient "github.com/mamadbah2/herdbook/pkg/clients/whatsapp"
	"github.com/mamadbah2/herdbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Development))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Open(ctx, cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init storage", zap.Error(err))
	}
	defer func() {
		if err := application.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close connections", zap.Error(err))
		}
	}()

	sessions, err := application.Sessions(ctx)
	if err != nil {
		baseLogger.Fatal("failed to init sessions", zap.Error(err))
	}

	stores := application.Stores
	loc := cfg.Location()

	authService := authsvc.NewService(stores.Users, sessions, cfg.Auth.SessionTTL, baseLogger.Named("svc.auth"))
	healthService := healthsvc.NewService(stores, loc, baseLogger.Named("svc.health"))

	engine := router.New(router.Options{
		AuthRequired:   cfg.Auth.Required,
		CookieName:     cfg.Auth.CookieName,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, router.Handlers{
		Auth:    handlers.NewAuthHandler(authService, cfg.Auth, baseLogger.Named("handlers.auth")),
		Cattle:  handlers.NewCattleHandler(herdsvc.NewService(stores, loc, baseLogger.Named("svc.herd")), baseLogger.Named("handlers.cattle")),
		Milk:    handlers.NewMilkHandler(milksvc.NewService(stores, loc, baseLogger.Named("svc.milk")), baseLogger.Named("handlers.milk")),
		Health:  handlers.NewHealthHandler(healthService, baseLogger.Named("handlers.health")),
		Feed:    handlers.NewFeedHandler(feedsvc.NewService(stores, loc, baseLogger.Named("svc.feed")), baseLogger.Named("handlers.feed")),
		Users:   handlers.NewUserHandler(userssvc.NewService(stores.Users, baseLogger.Named("svc.users")), baseLogger.Named("handlers.users")),
		Reports: handlers.NewReportHandler(dashboardsvc.NewService(stores, loc, baseLogger.Named("svc.dashboard")), application.Reporting, baseLogger.Named("handlers.reports")),
	}, authService, baseLogger.Named("router"))

	if cfg.Scheduler.Enabled {
		var notifier scheduler.Notifier
		if cfg.WhatsAppEnabled() {
			notifier = notifysvc.NewService(stores, whatsappclient.NewClient(cfg.WhatsApp), cfg.WhatsApp.AlertRecipient, loc, baseLogger.Named("svc.notify"))
			baseLogger.Info("whatsapp alerts enabled")
		} else {
			baseLogger.Warn("whatsapp not configured, alert digest disabled")
		}

		sched := scheduler.NewScheduler(cfg.Scheduler, loc, application.Reporting, healthService, notifier, baseLogger.Named("scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
