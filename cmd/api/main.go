package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-tracker/internal/config"
	"github.com/cmlabs-hris/attendance-tracker/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/attendance-tracker/internal/handler/http"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-tracker/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-tracker/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-tracker/internal/service/attendance"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}
	if err := cfg.ValidateStorage(); err != nil {
		log.Fatal("Invalid storage config: ", err)
	}

	logger := appHTTP.NewLogger(os.Stdout, cfg.App.SlogLevel(), "attendance-api", cfg.App.Env)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	attendanceRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize attendance storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	hub := sse.NewHub()
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, hub)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc, hub)

	router := appHTTP.NewRouter(attendanceHandler, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.FrontendURL,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end when the signal context is cancelled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", "http://localhost"+server.Addr, "storage", cfg.Storage.Driver)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", "error", err)
		}
	}
}

func openStore(ctx context.Context, cfg *config.Config) (attendance.AttendanceRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverSQLite:
		repo, err := sqlite.New(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close() }, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{})
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return postgresql.NewAttendanceRepository(db), db.Close, nil
	}
}
