package worker

import (
	"context"
	"fmt"
	"time"

	"fifa-tracker/internal/config"
	"fifa-tracker/internal/constants"
	"fifa-tracker/internal/service"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Reconciler periodically rebuilds every participant's aggregate,
// correcting whatever drift the optimistic per-match increments have
// accumulated since the last sweep. This is the server-side stand-in
// for the source app's fixed-interval page refresh.
type Reconciler struct {
	scheduler gocron.Scheduler
	stats     *service.StatsService
	interval  time.Duration
	logger    zerolog.Logger
}

func NewReconciler(cfg *config.Config, stats *service.StatsService, logger zerolog.Logger) (*Reconciler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Reconciler{
		scheduler: scheduler,
		stats:     stats,
		interval:  cfg.ReconcileInterval,
		logger:    logger,
	}, nil
}

func (r *Reconciler) Start() error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.run),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation job: %w", err)
	}

	r.scheduler.Start()
	r.logger.Info().Dur("interval", r.interval).Msg("stats reconciler started")
	return nil
}

func (r *Reconciler) Stop() error {
	r.logger.Info().Msg("stopping stats reconciler")
	return r.scheduler.Shutdown()
}

func (r *Reconciler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()

	start := time.Now()
	if err := r.stats.RecomputeAll(ctx); err != nil {
		r.logger.Warn().Err(err).Msg("reconciliation sweep incomplete")
		return
	}
	r.logger.Debug().Dur("took", time.Since(start)).Msg("reconciliation sweep completed")
}
