package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BaGreal2/movieweb/internal/config"
	"github.com/BaGreal2/movieweb/internal/datamanager"
	"github.com/BaGreal2/movieweb/internal/db"
	"github.com/BaGreal2/movieweb/internal/handler"
	"github.com/BaGreal2/movieweb/internal/omdb"
	"github.com/BaGreal2/movieweb/internal/password"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	provider := omdb.NewClient(cfg.OMDbAPIKey, logger,
		omdb.WithBaseURL(cfg.OMDbURL),
		omdb.WithRateLimit(cfg.OMDbRatePerSec),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dm, closeStore, err := newDataManager(ctx, cfg, provider, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(dm, cfg.JWTSecret, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", slog.String("addr", srv.Addr), slog.String("backend", cfg.Backend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newDataManager builds the store selected by cfg.Backend. The returned func
// releases it.
func newDataManager(ctx context.Context, cfg *config.Config, provider datamanager.MovieInfoProvider, logger *slog.Logger) (datamanager.DataManager, func(), error) {
	hasher := password.NewBcrypt()

	switch cfg.Backend {
	case config.BackendJSON:
		dm, err := datamanager.NewJSONDataManager(cfg.JSONDataFile, provider, hasher, logger)
		if err != nil {
			return nil, nil, err
		}
		return dm, func() {}, nil

	case config.BackendSQLite, config.BackendPostgres:
		dialect, dsn, err := cfg.SQL()
		if err != nil {
			return nil, nil, err
		}
		conn, err := db.Open(dialect, dsn)
		if err != nil {
			return nil, nil, err
		}
		if err := db.CreateTables(ctx, conn, dialect); err != nil {
			conn.Close()
			return nil, nil, err
		}
		logger.Info("Database connection established", slog.String("dialect", string(dialect)))
		return datamanager.NewSQLDataManager(conn, dialect, provider, hasher, logger), closer(conn, logger), nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func closer(conn *sql.DB, logger *slog.Logger) func() {
	return func() {
		if err := conn.Close(); err != nil {
			logger.Error("Failed to close database", slog.Any("error", err))
		}
	}
}
