package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/medisave/internal/adapters/analytics"
	"github.com/SscSPs/medisave/internal/adapters/bank"
	"github.com/SscSPs/medisave/internal/adapters/llm"
	"github.com/SscSPs/medisave/internal/adapters/messaging"
	portsrepo "github.com/SscSPs/medisave/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/medisave/internal/core/ports/services"
	"github.com/SscSPs/medisave/internal/core/services"
	"github.com/SscSPs/medisave/internal/handlers"
	"github.com/SscSPs/medisave/internal/middleware"
	"github.com/SscSPs/medisave/internal/platform/config"
	"github.com/SscSPs/medisave/internal/repositories/database/pgsql"
	"github.com/SscSPs/medisave/internal/repositories/database/sqlite"
	"github.com/SscSPs/medisave/internal/repositories/file"
	"github.com/SscSPs/medisave/internal/repositories/memory"
	"github.com/SscSPs/medisave/internal/utils"
	"github.com/SscSPs/medisave/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title MediSave API
// @version 1.0
// @description Medical expense ledger with AI receipt scanning and spending insights.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	store := services.NewStore(cfg, repos)
	loaded := store.Load(middleware.WithLogger(ctx, logger))
	logger.Info("Ledger loaded", slog.Int("records", loaded), slog.String("backend", cfg.StorageBackend))

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogHost, logger)
	defer posthogClient.Close()

	collab, closeCollab := setupCollaborators(ctx, cfg, logger, posthogClient)
	defer closeCollab()

	container := services.NewServiceContainer(cfg, store, collab)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	if err := handlers.RegisterRoutes(r, cfg, container); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// setupRepositories opens the configured durable slot backend.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	noop := func() {}

	switch cfg.StorageBackend {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage; the ledger is lost on restart")
		return memory.NewRepositoryProvider(memory.NewSlotRepository()), noop, nil

	case config.StorageSQLite:
		repo, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, noop, fmt.Errorf("open sqlite storage: %w", err)
		}
		return sqlite.NewRepositoryProvider(repo), closeWith(repo, logger, "sqlite"), nil

	case config.StoragePostgres:
		logger.Info("Running database migrations...")
		applied, err := pgsql.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, noop, fmt.Errorf("apply migrations: %w", err)
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}

		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, noop, fmt.Errorf("initialize database pool: %w", err)
		}
		return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool, logger) }, nil

	default:
		repo, err := file.NewSlotRepository(cfg.StorageFileDir)
		if err != nil {
			return portsrepo.RepositoryProvider{}, noop, fmt.Errorf("open file storage: %w", err)
		}
		return file.NewRepositoryProvider(repo), noop, nil
	}
}

// setupCollaborators builds the optional outbound clients. Anything that is
// not configured or fails to start is left out and the matching feature
// degrades.
func setupCollaborators(ctx context.Context, cfg *config.Config, logger *slog.Logger, posthogClient *utils.PosthogClientWrapper) (services.Collaborators, func()) {
	var collab services.Collaborators
	var closers []func()

	if cfg.AIEnabled() {
		model, err := llm.NewOpenAIClient(llm.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.OpenAITimeout,
		})
		if err != nil {
			logger.Error("Failed to create completion client", slog.String("error", err.Error()))
		} else {
			collab.Model = model
		}
	}

	if cfg.BankEnabled() {
		bankClient, err := bank.NewClient(ctx, bank.Config{
			BaseURL:           cfg.BankAPIBaseURL,
			APIKey:            cfg.BankAPIKey,
			AccountID:         cfg.BankAccountID,
			OAuthTokenURL:     cfg.BankOAuthTokenURL,
			OAuthClientID:     cfg.BankOAuthClientID,
			OAuthClientSecret: cfg.BankOAuthClientSecret,
		})
		if err != nil {
			logger.Error("Failed to create bank client", slog.String("error", err.Error()))
		} else {
			collab.Bank = bankClient
		}
	}

	if cfg.AMQPURL != "" {
		publisher, err := messaging.NewDeltaPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			logger.Error("Failed to connect delta publisher, continuing without it", slog.String("error", err.Error()))
		} else {
			collab.Listeners = append(collab.Listeners, publisher)
			closers = append(closers, closeWith(publisher, logger, "amqp"))
		}
	}

	if posthogClient.IsInitialized() {
		collab.Listeners = append(collab.Listeners, portssvc.DeltaListener(analytics.NewDeltaTracker(posthogClient)))
	}

	return collab, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
}

func closeWith(c io.Closer, logger *slog.Logger, name string) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Error("Failed to close resource", slog.String("resource", name), slog.String("error", err.Error()))
		}
	}
}
