package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"mediadash/internal/models"
)

// ViewSource hands out accumulated panel view counts. Implemented by
// *metrics.Recorder.
type ViewSource interface {
	Drain() map[models.PanelViewKey]int64
	Restore(map[models.PanelViewKey]int64)
}

// ViewSink persists panel view counts. Implemented by *db.DB.
type ViewSink interface {
	AddPanelViews(ctx context.Context, counts map[models.PanelViewKey]int64) error
}

// StatsFlusher periodically writes recorded panel views to the database.
type StatsFlusher struct {
	source   ViewSource
	sink     ViewSink
	interval time.Duration
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

// NewStatsFlusher creates a new stats flusher.
func NewStatsFlusher(source ViewSource, sink ViewSink, interval time.Duration, logger *slog.Logger) *StatsFlusher {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        "panel-views-flush",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 3 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	return &StatsFlusher{
		source:   source,
		sink:     sink,
		interval: interval,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		logger:   logger,
	}
}

// Start begins the background flush loop. It flushes one last time after ctx
// is cancelled so counts recorded before shutdown are kept.
func (f *StatsFlusher) Start(ctx context.Context) {
	f.logger.Info("stats flusher started", "interval", f.interval)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			final, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			f.Flush(final)
			cancel()
			f.logger.Info("stats flusher stopped")
			return
		case <-ticker.C:
			f.Flush(ctx)
		}
	}
}

// Flush writes the pending counts. On failure the counts are put back for
// the next attempt.
func (f *StatsFlusher) Flush(ctx context.Context) error {
	counts := f.source.Drain()
	if len(counts) == 0 {
		return nil
	}

	_, err := f.breaker.Execute(func() (interface{}, error) {
		return nil, f.sink.AddPanelViews(ctx, counts)
	})
	if err != nil {
		f.source.Restore(counts)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			f.logger.Debug("stats flush skipped, circuit open", "pending", len(counts))
		} else {
			f.logger.Error("stats flush failed", "pending", len(counts), "error", err)
		}
		return err
	}

	f.logger.Debug("stats flushed", "counters", len(counts))
	return nil
}

// State reports the circuit breaker state.
func (f *StatsFlusher) State() gobreaker.State {
	return f.breaker.State()
}
