package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eskoubar95-tech/findjobabroad/internal/config"
	"github.com/eskoubar95-tech/findjobabroad/internal/db"
	"github.com/eskoubar95-tech/findjobabroad/internal/feed"
	"github.com/eskoubar95-tech/findjobabroad/internal/logger"
	"github.com/eskoubar95-tech/findjobabroad/internal/store"
	syncengine "github.com/eskoubar95-tech/findjobabroad/internal/sync"
	"github.com/eskoubar95-tech/findjobabroad/internal/sync/runlog"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation pass and exit",
	Long: `Run a single feed reconciliation pass against the configured database
and exit. The pass is recorded in the sync run log exactly like a pass
triggered over HTTP, and fails with a non-zero exit code if another run
is already in progress.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().String("config", "", "Path to configuration file (YAML format, required)")
	if err := syncCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
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

	result, err := engine.Run(ctx, syncengine.TriggeredByManual)
	if err != nil {
		if errors.Is(err, syncengine.ErrSyncInProgress) {
			if running, findErr := runs.FindRunning(ctx); findErr == nil && running != nil {
				return fmt.Errorf("sync already in progress (run %s, started %s)",
					running.ID, running.StartedAt.Format(time.RFC3339))
			}
		}
		return fmt.Errorf("sync failed: %w", err)
	}

	logger.Infof("Sync complete: %d new, %d updated, %d expired",
		result.NewCount, result.UpdatedCount, result.InactiveCount)
	return nil
}
