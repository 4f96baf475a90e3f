package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eskoubar95-tech/findjobabroad/internal/api"
	v0 "github.com/eskoubar95-tech/findjobabroad/internal/api/v0"
	"github.com/eskoubar95-tech/findjobabroad/internal/clicks"
	"github.com/eskoubar95-tech/findjobabroad/internal/config"
	"github.com/eskoubar95-tech/findjobabroad/internal/db"
	"github.com/eskoubar95-tech/findjobabroad/internal/feed"
	"github.com/eskoubar95-tech/findjobabroad/internal/logger"
	"github.com/eskoubar95-tech/findjobabroad/internal/scheduler"
	"github.com/eskoubar95-tech/findjobabroad/internal/store"
	syncengine "github.com/eskoubar95-tech/findjobabroad/internal/sync"
	"github.com/eskoubar95-tech/findjobabroad/internal/sync/runlog"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync API server",
	Long: `Start the sync API server.

The server requires a configuration file (--config) that specifies:
- Database connection parameters
- Feed adapter selection (mock or http)
- Sync policy (staleness window, optional in-process schedule)
- Optional Redis cache for apply redirects

See examples/ directory for sample configurations.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	serverRequestTimeout   = 60 * time.Second // A sync pass runs inside the request
	serverReadTimeout      = 10 * time.Second
	serverWriteTimeout     = 65 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout      = 60 * time.Second
)

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides config)")
	serveCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		logger.Fatalf("Failed to bind address flag: %v", err)
	}
	if err := viper.BindPFlag("config", serveCmd.Flags().Lookup("config")); err != nil {
		logger.Fatalf("Failed to bind config flag: %v", err)
	}

	if err := serveCmd.MarkFlagRequired("config"); err != nil {
		logger.Fatalf("Failed to mark config flag as required: %v", err)
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	configPath := viper.GetString("config")
	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Infof("Loaded configuration from %s (feed: %s)", configPath, cfg.Feed.Type)

	address := viper.GetString("address")
	if address == "" {
		address = cfg.Server.GetAddress()
	}

	if cfg.Database == nil {
		return fmt.Errorf("database configuration is required")
	}
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	docs, err := store.NewPostgresStore(pool)
	if err != nil {
		return fmt.Errorf("failed to create document store: %w", err)
	}
	runs, err := runlog.NewDBStore(pool)
	if err != nil {
		return fmt.Errorf("failed to create run log store: %w", err)
	}

	adapter, err := feed.NewAdapter(&cfg.Feed)
	if err != nil {
		return fmt.Errorf("failed to create feed adapter: %w", err)
	}

	engine := syncengine.NewEngine(docs, runs, adapter, syncengine.Config{
		ExpiryWindow:    cfg.Sync.GetExpiryWindow(),
		StaleBatchLimit: cfg.Sync.GetStaleBatchLimit(),
	})

	// Redis is optional; without it apply redirects hit the database directly.
	var cache *redis.Client
	if cfg.Redis != nil {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to parse redis URL: %w", err)
		}
		cache = redis.NewClient(opts)
		if err := cache.Ping(ctx).Err(); err != nil {
			logger.Warnf("Redis unreachable, apply redirects will skip the cache: %v", err)
		}
		defer func() {
			if closeErr := cache.Close(); closeErr != nil {
				logger.Errorf("Error closing redis client: %v", closeErr)
			}
		}()
	}

	recorder, err := clicks.NewDBRecorder(pool)
	if err != nil {
		return fmt.Errorf("failed to create click recorder: %w", err)
	}
	tracker := clicks.NewTracker(docs, recorder, cache)

	syncSecret, err := cfg.Server.GetSyncSecret()
	if err != nil {
		logger.Warnf("Sync secret not configured, sync endpoints will reject all requests: %v", err)
	}

	routes := v0.NewRoutes(engine, runs, tracker, docs)
	router := api.NewServer(routes, syncSecret,
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(serverRequestTimeout),
			api.LoggingMiddleware,
		),
	)

	// Optional in-process scheduler; an external cron hitting the sync
	// endpoint works the same way.
	var sched *scheduler.Scheduler
	if cfg.Sync.Schedule != "" {
		sched = scheduler.New(engine, cfg.Sync.Schedule)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("invalid sync schedule: %w", err)
		}
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	go func() {
		logger.Infof("Server listening on %s", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logger.Info("Server shutdown complete")
	return nil
}
