// Package scheduler wires up the cron job that periodically triggers a full
// reconciliation pass, for deployments without an external cron hitting the
// sync endpoint.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/eskoubar95-tech/findjobabroad/internal/logger"
	syncengine "github.com/eskoubar95-tech/findjobabroad/internal/sync"
)

// Scheduler wraps robfig/cron around the reconciliation engine.
type Scheduler struct {
	cron   *cron.Cron
	engine *syncengine.Engine
	spec   string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler firing on the given cron spec.
func New(engine *syncengine.Engine, spec string) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		engine: engine,
		spec:   spec,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runPass(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	logger.Infof("Sync scheduler started (spec: %s)", s.spec)
	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running pass.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Sync scheduler stopped")
}

// runPass triggers one reconciliation pass. Conflicts with a concurrent run
// are expected and skipped quietly; real failures are logged and left for
// the next tick.
func (s *Scheduler) runPass(ctx context.Context) {
	result, err := s.engine.Run(ctx, syncengine.TriggeredByCron)
	if err != nil {
		if errors.Is(err, syncengine.ErrSyncInProgress) {
			logger.Info("Scheduled sync skipped: another run is in progress")
			return
		}
		logger.Errorf("Scheduled sync failed: %v", err)
		return
	}

	logger.Infof("Scheduled sync complete: %d new, %d updated, %d expired",
		result.NewCount, result.UpdatedCount, result.InactiveCount)
}
