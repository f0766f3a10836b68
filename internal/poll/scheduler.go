// Package poll drives the task cache from the backend on a fixed interval.
//
// The refresh model is deliberately best-effort, not a reliable sync
// protocol: a failed tick is skipped silently and the next one tries again.
// Ticks are processed serially by a single owning goroutine, so the cache is
// never replaced out of order; each snapshot additionally carries a
// monotonically increasing sequence number so any future concurrent fetch
// path can discard late arrivals.
package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"tasklab/internal/logging"
	"tasklab/internal/metrics"
	"tasklab/internal/task"
)

// TaskLister fetches the full task collection; satisfied by gateway.Client.
type TaskLister interface {
	ListTasks(ctx context.Context) ([]task.Record, error)
}

// Scheduler runs the poll loop. It starts idle; Start moves it to active
// exactly once, immediately after login, and there is no way back to idle —
// the loop runs for the remainder of the process once started (Stop exists
// for orderly process shutdown only, not for the login flow).
type Scheduler struct {
	lister   TaskLister
	cache    *task.Cache
	interval time.Duration
	logger   logging.Logger
	metrics  *metrics.Metrics

	// notify is invoked after every applied snapshot, outside the cache
	// lock. Shells use it to wake their render loop.
	notify func(seq uint64)

	seq     atomic.Uint64
	started atomic.Bool
	stop    chan struct{}
	stopped sync.Once
	done    chan struct{}
}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithLogger attaches a logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// WithMetrics attaches poll instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithNotify registers the snapshot hook. Must be set before Start; the hook
// is called from the scheduler's goroutine.
func WithNotify(notify func(seq uint64)) Option {
	return func(s *Scheduler) { s.notify = notify }
}

// New returns an idle scheduler.
func New(lister TaskLister, cache *task.Cache, interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		lister:   lister,
		cache:    cache,
		interval: interval,
		logger:   logging.Nop(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.OrNop(s.logger)
	return s
}

// Active reports whether the loop has been started.
func (s *Scheduler) Active() bool {
	return s.started.Load()
}

// Start fires one immediate poll and then polls on the fixed interval.
// Subsequent calls are no-ops.
func (s *Scheduler) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
}

func (s *Scheduler) run() {
	defer close(s.done)

	s.pollOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.pollOnce()
		}
	}
}

// pollOnce performs one fetch-and-replace cycle. Failures are logged at
// debug level and otherwise swallowed: no user-visible signal, no backoff,
// no cancellation of the timer.
func (s *Scheduler) pollOnce() {
	seq := s.seq.Add(1)
	start := time.Now()

	tasks, err := s.lister.ListTasks(context.Background())
	s.metrics.ObservePoll(err, time.Since(start), len(tasks))
	if err != nil {
		s.logger.Debug("poll %d skipped: %v", seq, err)
		return
	}

	if !s.cache.Apply(seq, tasks) {
		s.logger.Debug("poll %d stale, discarded", seq)
		return
	}

	s.logger.Debug("poll %d applied %d tasks", seq, len(tasks))
	if s.notify != nil {
		s.notify(seq)
	}
}

// Stop ends the loop for process shutdown and waits for it to drain.
// Stopping a never-started scheduler is a no-op.
func (s *Scheduler) Stop() {
	if !s.started.Load() {
		return
	}
	s.stopped.Do(func() { close(s.stop) })
	<-s.done
}
