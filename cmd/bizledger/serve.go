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

	portsrepo "github.com/SscSPs/bizledger/internal/core/ports/repositories"
	"github.com/SscSPs/bizledger/internal/core/services"
	"github.com/SscSPs/bizledger/internal/dto"
	"github.com/SscSPs/bizledger/internal/handlers"
	"github.com/SscSPs/bizledger/internal/middleware"
	"github.com/SscSPs/bizledger/internal/platform/config"
	"github.com/SscSPs/bizledger/internal/repositories/cache"
	"github.com/SscSPs/bizledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/bizledger/internal/repositories/memory"
	"github.com/SscSPs/bizledger/migrations"
	"github.com/SscSPs/bizledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	infra, closeInfra, err := openInfrastructure(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeInfra()

	if err := dto.RegisterGinValidators(); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}
	serviceContainer := services.NewServiceContainer(cfg, store, infra)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	if cfg.RateLimit != "" {
		rl, err := middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
		}
		r.Use(middleware.RateLimit(rl))
	}
	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	if cfg.AutoMigrate {
		logger.Info("Running database migrations...")
		m, err := database.NewMigrator(cfg.DatabaseURL, migrations.FS)
		if err != nil {
			return nil, nil, err
		}
		upErr := m.Up()
		if cerr := m.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
		if upErr != nil {
			return nil, nil, upErr
		}
		logger.Info("Database migrations applied successfully.")
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database pool: %w", err)
	}
	logger.Info("Database connection pool established.")
	return pgsql.NewStore(pool), func() { database.ClosePgxPool(pool) }, nil
}

// openInfrastructure connects the optional Redis-backed report cache and conversion lock.
func openInfrastructure(ctx context.Context, cfg *config.Config, logger *slog.Logger) (services.Infrastructure, func(), error) {
	if cfg.RedisAddress == "" {
		logger.Info("REDIS_ADDRESS not set; report cache and conversion lock disabled")
		return services.Infrastructure{}, func() {}, nil
	}
	client, err := cache.NewRedisClient(ctx, cfg.RedisAddress)
	if err != nil {
		return services.Infrastructure{}, nil, err
	}
	infra := services.Infrastructure{Locker: cache.NewRedisLocker(client)}
	if cfg.ReportCacheTTL > 0 {
		infra.Cache = cache.NewRedisReportCache(client)
	}
	logger.Info("Connected to Redis", slog.String("address", cfg.RedisAddress))
	return infra, func() {
		if err := client.Close(); err != nil {
			logger.Error("Error closing Redis client", slog.String("error", err.Error()))
		}
	}, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSAllowedOrigins
	}
	c.AddAllowMethods("PATCH")
	c.AddAllowHeaders("Authorization")
	c.AddExposeHeaders("Content-Disposition", "X-Request-ID")
	return c
}
