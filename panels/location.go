package panels

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"food-delivery-client/models"
)

// LocationSource yields the device's current position fix. The shell plugs
// in the real device integration; tests script it.
type LocationSource interface {
	Fix() (models.Location, error)
}

// StaticLocationSource always reports the same coordinate.
type StaticLocationSource models.Location

func (s StaticLocationSource) Fix() (models.Location, error) {
	return models.Location(s), nil
}

// LocationReporter periodically pushes position fixes to the platform while
// a driver panel is mounted. Failures are counted and logged, never
// surfaced, and never stop the loop; callers can read the counter and decide
// when a run of failures is worth telling the driver about.
type LocationReporter struct {
	interval time.Duration
	source   LocationSource
	report   func(context.Context, models.Location) error
	logger   *slog.Logger

	failures atomic.Int64
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewLocationReporter builds a reporter that posts fixes from source via
// report every interval.
func NewLocationReporter(interval time.Duration, source LocationSource,
	report func(context.Context, models.Location) error, logger *slog.Logger) *LocationReporter {
	return &LocationReporter{
		interval: interval,
		source:   source,
		report:   report,
		logger:   logger,
	}
}

// Start begins reporting. The loop runs until Stop or the parent context is
// cancelled.
func (r *LocationReporter) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.run(ctx)
}

// Stop cancels the reporting loop and waits for it to exit.
func (r *LocationReporter) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

// Failures returns how many pushes have failed since Start.
func (r *LocationReporter) Failures() int64 {
	return r.failures.Load()
}

func (r *LocationReporter) run(ctx context.Context) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		loc, err := r.source.Fix()
		if err != nil {
			r.failures.Add(1)
			r.logger.Warn("no position fix", "error", err, "failures", r.failures.Load())
			continue
		}
		if err := r.report(ctx, loc); err != nil {
			if ctx.Err() != nil {
				return
			}
			r.failures.Add(1)
			r.logger.Warn("location push failed", "error", err, "failures", r.failures.Load())
		}
	}
}
