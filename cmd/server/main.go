// Command server runs the receipt issuing HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"emisor/internal/config"
	"emisor/internal/domain/receipt"
	v1 "emisor/internal/infrastructure/http/v1"
	"emisor/internal/infrastructure/storage/postgres"
	"emisor/internal/infrastructure/storage/postgres/receipt_repo"
	"emisor/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(ctx, "failed to load config", "error", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		logger.Fatal(ctx, "failed to create logger", "error", err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalw("server exited with error", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	poolCfg := postgres.DefaultPoolConfig(cfg.DB.DSN())
	poolCfg.MaxConns = cfg.DB.MaxConns
	poolCfg.MinConns = cfg.DB.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	log.Infow("connected to database", "host", cfg.DB.Host, "database", cfg.DB.Name)

	txManager := postgres.NewTxManager(pool)
	receiptRepo := receipt_repo.NewReceiptRepo(txManager)
	receiptService := receipt.NewService(receiptRepo, txManager)

	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		ReceiptService: receiptService,
		CORSOrigins:    cfg.CORS.Origins(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "port", cfg.App.Port, "env", cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infow("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Infow("server stopped")
	return nil
}
