package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"cashflow/app/categories"
	"cashflow/app/dictionaries"
	"cashflow/app/operations"
	"cashflow/app/subcategories"
	"cashflow/config"
	"cashflow/logging"
	"cashflow/models"
	"cashflow/server"
	"cashflow/storage"
)

func main() {
	// .env is optional; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Mode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if err := storage.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal("apply migrations", zap.Error(err))
	}

	db, err := storage.NewPostgresDB(cfg.DatabaseURL, cfg.MaxIdleConns, cfg.MaxOpenConns)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}

	handlers := server.Handlers{
		Statuses:      dictionaries.NewHandler(models.NewStatusRepository(db)),
		Types:         dictionaries.NewHandler(models.NewTypeRepository(db)),
		Categories:    categories.NewHandler(models.NewCategoryRepository(db)),
		Subcategories: subcategories.NewHandler(models.NewSubcategoryRepository(db)),
		Operations:    operations.NewHandler(models.NewOperationRepository(db), cfg.PageSize),
	}

	srv := server.New(logger, cfg.Addr, cfg.Mode, handlers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
		logger.Info("server stopped")
	}
}
