package workers

import (
	"context"
	"time"

	"github.com/izzat2702/KognitDeck/internal/logger"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services"
)

const (
	sweepInterval = 6 * time.Hour
	sweepBatch    = 500
)

// RolloverWorker periodically resets usage counters for users whose anchor
// fell into a previous month. The gate also rolls over lazily on read, so
// the sweep only exists to keep dormant accounts and reporting accurate;
// correctness never depends on it running.
type RolloverWorker struct {
	users repositories.UserRepository
	usage services.UsageService
	now   func() time.Time
	batch int
}

func NewRolloverWorker(users repositories.UserRepository, usage services.UsageService) *RolloverWorker {
	return &RolloverWorker{users: users, usage: usage, now: time.Now, batch: sweepBatch}
}

func (w *RolloverWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *RolloverWorker) run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	// First sweep shortly after startup rather than a full interval later.
	w.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("rollover worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *RolloverWorker) sweep(ctx context.Context) {
	now := w.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	total := 0
	for {
		due, err := w.users.FindDueForRollover(ctx, monthStart, w.batch)
		if err != nil {
			logger.WorkerLog("rollover", "sweep query", err)
			return
		}
		if len(due) == 0 {
			break
		}

		reset := 0
		for i := range due {
			if _, err := w.usage.RolloverIfDue(ctx, &due[i]); err != nil {
				logger.WorkerLog("rollover", "reset user "+due[i].ID, err)
				continue
			}
			reset++
		}
		total += reset
		if len(due) < w.batch {
			break
		}
		// A full batch with no successful resets would come back unchanged
		// on the next query; stop and let the next sweep retry.
		if reset == 0 {
			logger.Warn("rollover sweep made no progress, stopping", "worker", "rollover", "batch", len(due))
			break
		}
	}

	if total > 0 {
		logger.Info("rollover sweep complete", "worker", "rollover", "users_reset", total)
	}
}
