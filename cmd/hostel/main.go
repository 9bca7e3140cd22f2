package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/hostel-dashboard/internal/application"
	"github.com/example/hostel-dashboard/internal/config"
	httptransport "github.com/example/hostel-dashboard/internal/http"
	"github.com/example/hostel-dashboard/internal/logging"
	"github.com/example/hostel-dashboard/internal/metrics"
	"github.com/example/hostel-dashboard/internal/persistence"
	"github.com/example/hostel-dashboard/internal/persistence/driver"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stdout, slog.LevelInfo).Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel)

	storage, err := driver.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	handler, err := newHandler(ctx, cfg, storage, metrics.NewRegistry(), logger)
	if err != nil {
		logger.Error("failed to build stores", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("hostel dashboard API listening", "addr", server.Addr, "storage_driver", cfg.StorageDriver)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// newHandler hydrates the stores from storage and assembles the API.
func newHandler(ctx context.Context, cfg config.Config, storage persistence.Backend, registry *metrics.Registry, logger *slog.Logger) (http.Handler, error) {
	credentials, err := application.DemoCredentials()
	if err != nil {
		return nil, fmt.Errorf("build demo credentials: %w", err)
	}

	store, err := application.NewDataStoreWithLogger(ctx, storage, nil, time.Now, logger)
	if err != nil {
		return nil, err
	}
	store.SetObserver(registry)

	sessions := application.NewSessionManager(storage, application.SessionConfig{
		Credentials:   credentials,
		LoginDelay:    cfg.LoginDelay,
		RegisterDelay: cfg.RegisterDelay,
		Logger:        logger,
		Observer:      registry,
	})
	tokens := httptransport.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL, time.Now)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Resolver:      httptransport.NewSessionResolver(sessions, tokens),
		Sessions:      httptransport.NewSessionHandler(sessions, tokens, logger),
		Dashboard:     httptransport.NewDashboardHandler(store, logger),
		Outpass:       httptransport.NewOutpassHandler(store, logger),
		Complaints:    httptransport.NewComplaintHandler(store, logger),
		Menu:          httptransport.NewMenuHandler(store, logger),
		Announcements: httptransport.NewAnnouncementHandler(store, logger),
		Attendance:    httptransport.NewAttendanceHandler(store, logger),
		Students:      httptransport.NewStudentHandler(store, logger),
		Health:        httptransport.NewHealthHandler(storage, logger),
		Metrics:       registry.Handler(),
		Observer:      registry,
		Logger:        logger,
		Middleware:    []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	}), nil
}
