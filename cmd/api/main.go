package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zip-gate/internal/config"
	"zip-gate/internal/database"
	"zip-gate/internal/handler"
	"zip-gate/internal/repository"
	"zip-gate/internal/router"
	"zip-gate/internal/seed"
	"zip-gate/internal/service"
	"zip-gate/internal/session"
	"zip-gate/internal/token"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting zip-gate API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool and schema
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repository
	codeRepo := repository.NewCodeRepository(pool, logger)

	// Seed code records at startup when configured
	if cfg.Seed.Enabled {
		if err := seedCodes(ctx, cfg.Seed, codeRepo, logger); err != nil {
			return fmt.Errorf("failed to seed codes: %w", err)
		}
	}

	// Initialize the session-scoped check result store
	sessions := session.NewStore(cfg.Session.TTL)
	defer sessions.Close()

	// Initialize the check token manager
	tokens, err := token.NewManager(cfg.Token.Secret, cfg.Token.TTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// Initialize services
	codeService := service.NewCodeService(codeRepo, logger)
	checkService := service.NewCheckService(codeRepo, sessions, logger)

	// Initialize HTTP handlers
	codesHandler := handler.NewCodesHandler(codeService, logger)
	checkHandler := handler.NewCheckHandler(checkService, tokens, logger)

	// Initialize router
	mux := router.New(codesHandler, checkHandler, cfg.Auth.AdminAPIKey, cfg.Server.RequestTimeout, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// seedCodes loads code records from the configured source and imports the
// ones not already present.
func seedCodes(ctx context.Context, cfg config.SeedConfig, codeRepo repository.CodeRepository, logger zerolog.Logger) error {
	var (
		loader seed.Loader
		source string
	)

	switch cfg.Source {
	case "s3":
		s3Loader, err := seed.NewS3Loader(ctx, cfg.Bucket, cfg.Region, logger)
		if err != nil {
			return fmt.Errorf("initialize S3 loader: %w", err)
		}
		loader = s3Loader
		source = cfg.Key
	default:
		loader = seed.NewFileLoader(logger)
		source = cfg.Path
	}

	entries, err := loader.Load(ctx, source)
	if err != nil {
		return err
	}

	count, err := seed.NewImporter(codeRepo, logger).Import(ctx, entries)
	if err != nil {
		return err
	}

	logger.Info().Int("imported", count).Str("source", cfg.Source).Msg("seed import completed")
	return nil
}
