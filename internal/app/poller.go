package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/quill/internal/cms"
	"github.com/five82/quill/internal/state"
)

const (
	defaultPollInterval = 5 * time.Second
	maxBackoff          = 30 * time.Second
)

// statsSource is the part of cms.Backend the poller reads.
type statsSource interface {
	FetchStats(ctx context.Context) (cms.Stats, error)
	FetchProfile(ctx context.Context) (cms.Profile, error)
}

// StartPoller launches a background goroutine that refreshes stats and the
// profile. Consecutive failures back off exponentially up to maxBackoff. It
// returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client statsSource, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	go func() {
		for {
			refresh(ctx, store, client, logger)
			wait := calculateBackoff(store.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// calculateBackoff doubles base once per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	d := base
	for i := 0; i < failures && d < maxBackoff; i++ {
		d *= 2
	}
	return min(d, maxBackoff)
}

func refresh(ctx context.Context, store *state.Store, client statsSource, logger *slog.Logger) {
	stats, err := client.FetchStats(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		logger.Warn("stats poll failed", slog.Any("error", err))
		return
	}
	profile, err := client.FetchProfile(ctx)
	if err != nil {
		store.Update(nil, nil, err)
		logger.Warn("profile poll failed", slog.Any("error", err))
		return
	}
	store.Update(&stats, &profile, nil)
	logger.Debug("poll ok", slog.Int64("views", stats.Views))
}
