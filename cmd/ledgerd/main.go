package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/ledgerbook/internal/adapters/objectstore"
	portsrepo "github.com/SscSPs/ledgerbook/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerbook/internal/core/services"
	"github.com/SscSPs/ledgerbook/internal/handlers"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/SscSPs/ledgerbook/internal/platform/config"
	"github.com/SscSPs/ledgerbook/internal/repositories/database/sqlite"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 15 * time.Second

// @title ledgerbook API
// @version 1.0
// @description Personal finance ledger: banks, fiscal years, accounts, categories, transactions and backups.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by /auth/unlock.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	images, err := newImageStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize image store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if closer, ok := images.(io.Closer); ok {
		defer closer.Close()
	}

	storeOpts := []sqlite.StoreOption{sqlite.WithLogger(logger)}
	if images != nil {
		storeOpts = append(storeOpts, sqlite.WithImageStore(images, cfg.ImageKey))
		logger.Info("Durable database image enabled", slog.String("store", cfg.ImageStore), slog.String("key", cfg.ImageKey))
	}
	store := sqlite.NewStore(cfg.DBPath, storeOpts...)
	if err := store.Open(ctx); err != nil {
		logger.Error("Failed to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Error closing database", slog.String("error", cerr.Error()))
		}
	}()

	container := services.NewServiceContainer(cfg, sqlite.NewRepositoryProvider(store))

	if cfg.ApplyPendingRestore {
		result, err := container.Backup.ApplyPendingRestore(ctx)
		if err != nil {
			// The staged snapshot is consumed either way; keep serving the current data.
			logger.Error("Failed to apply staged restore", slog.String("error", err.Error()))
		} else if result != nil {
			logger.Info("Staged restore applied",
				slog.Int64("bank_id", result.Scope.BankID),
				slog.Int("year", result.Scope.Year),
				slog.Int("transactions", result.TransactionsRestored),
			)
		}
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if err := container.System.Persist(shutdownCtx); err != nil {
		logger.Error("Failed to persist database on shutdown", slog.String("error", err.Error()))
	}
}

// newImageStore returns the configured blob store, or nil when durable images are off.
func newImageStore(ctx context.Context, cfg *config.Config) (portsrepo.BlobStore, error) {
	switch cfg.ImageStore {
	case config.ImageStoreFile:
		return objectstore.NewFileStore(cfg.ImageStoreDir)
	case config.ImageStoreGCS:
		return objectstore.NewGCSStore(ctx, cfg.GCSBucket, "", cfg.GCSCredentialsFile)
	default:
		return nil, nil
	}
}
