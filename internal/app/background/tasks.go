package background

import (
	"context"
	"log/slog"
	"time"
)

// IdleEvicter closes sessions that have not been used for a while.
type IdleEvicter interface {
	EvictIdle() int
	Count() int
}

type BackgroundTasks struct {
	Sessions      IdleEvicter
	JanitorPeriod time.Duration
	Logger        *slog.Logger
}

func NewBackgroundTasks(sessions IdleEvicter, janitorPeriod time.Duration, logger *slog.Logger) *BackgroundTasks {
	if janitorPeriod <= 0 {
		janitorPeriod = time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BackgroundTasks{
		Sessions:      sessions,
		JanitorPeriod: janitorPeriod,
		Logger:        logger.With("component", "background"),
	}
}

// Run blocks until ctx is done.
func (bt *BackgroundTasks) Run(ctx context.Context) error {
	bt.startSessionJanitor(ctx)
	return nil
}

func (bt *BackgroundTasks) startSessionJanitor(ctx context.Context) {
	ticker := time.NewTicker(bt.JanitorPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := bt.Sessions.EvictIdle(); n > 0 {
				bt.Logger.Info("idle sessions evicted", "evicted", n, "open", bt.Sessions.Count())
			}
		}
	}
}
