package app

import (
	"context"
	"errors"
	"time"

	"github.com/bobmcallan/navcalc/internal/common"
	"github.com/bobmcallan/navcalc/internal/interfaces"
	"github.com/bobmcallan/navcalc/internal/services/funds"
)

// startSyncScheduler rebuilds the fund activity directory on a fixed
// interval. The first run happens one interval after startup so a fresh
// deployment doesn't hammer the provider while still warming up.
func startSyncScheduler(ctx context.Context, fundsService interfaces.FundsService, logger *common.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Sync scheduler: stopped")
			return
		case <-ticker.C:
			runScheduledSync(ctx, fundsService, logger)
		}
	}
}

func runScheduledSync(ctx context.Context, fundsService interfaces.FundsService, logger *common.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Sync scheduler: recovered from panic")
		}
	}()

	start := time.Now()
	job, err := fundsService.Sync(ctx)
	if err != nil {
		if errors.Is(err, funds.ErrSyncInProgress) {
			logger.Info().Msg("Sync scheduler: previous sync still running, skipping tick")
			return
		}
		logger.Warn().Err(err).Msg("Sync scheduler: fund directory sync failed")
		return
	}

	logger.Info().
		Str("job_id", job.ID).
		Int("active", job.ActiveCount).
		Dur("elapsed", time.Since(start)).
		Msg("Sync scheduler: fund directory sync complete")
}
