package conn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of row-returning statements.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of exec statements.
	TotalExecs atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of statement errors.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the average statement duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
	)
}

// SlowQueryHook is called when a statement exceeds the slow threshold.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// Observer records statement executions for a model: counts, total
// duration, errors and slow statements. The model layer reports every
// executed statement to its observer.
type Observer struct {
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// ObserverOption configures an Observer.
type ObserverOption func(*Observer)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) ObserverOption {
	return func(o *Observer) { o.slowThreshold = d }
}

// WithSlowQueryHook sets a callback for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) ObserverOption {
	return func(o *Observer) { o.slowHook = hook }
}

// WithSlowQueryLog logs slow statements with the given structured
// logger. A nil logger uses slog.Default.
func WithSlowQueryLog(logger *slog.Logger) ObserverOption {
	if logger == nil {
		logger = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, query string, args []any, duration time.Duration) {
		logger.WarnContext(ctx, "slow query detected", "duration", duration, "query", query, "args", args)
	})
}

// NewObserver returns an Observer with a 100ms slow threshold.
func NewObserver(opts ...ObserverOption) *Observer {
	o := &Observer{
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (o *Observer) QueryStats() *QueryStats { return o.stats }

// SlowThreshold returns the current slow statement threshold.
func (o *Observer) SlowThreshold() time.Duration {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (o *Observer) SetSlowThreshold(d time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.slowThreshold = d
}

// Record reports one executed statement. isQuery distinguishes
// row-returning statements from execs. Safe for a nil receiver, so
// callers do not need to guard the unconfigured case.
func (o *Observer) Record(ctx context.Context, query string, args []any, start time.Time, err error, isQuery bool) {
	if o == nil {
		return
	}
	duration := time.Since(start)
	if isQuery {
		o.stats.TotalQueries.Add(1)
	} else {
		o.stats.TotalExecs.Add(1)
	}
	o.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		o.stats.Errors.Add(1)
	}

	o.mu.RLock()
	threshold := o.slowThreshold
	hook := o.slowHook
	o.mu.RUnlock()

	if duration > threshold {
		o.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, args, duration)
		}
	}
}
