package main

import (
	"sync"

	"tasklab/internal/config"
	"tasklab/internal/controller"
	"tasklab/internal/gateway"
	"tasklab/internal/logging"
	"tasklab/internal/metrics"
	"tasklab/internal/poll"
	"tasklab/internal/session"
	"tasklab/internal/task"
)

// snapshotNotifier forwards poll snapshots into whatever sink is attached.
// The scheduler is built before the TUI program exists, so the sink is bound
// late; notifications arriving before that are dropped.
type snapshotNotifier struct {
	mu   sync.RWMutex
	sink func(seq uint64)
}

func (n *snapshotNotifier) attach(sink func(seq uint64)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sink = sink
}

func (n *snapshotNotifier) notify(seq uint64) {
	n.mu.RLock()
	sink := n.sink
	n.mu.RUnlock()
	if sink != nil {
		sink(seq)
	}
}

// Container wires the engine components for one process. Everything hangs
// off this struct; there are no package-level globals to couple against.
type Container struct {
	Config     config.Config
	Logger     logging.Logger
	Session    *session.Store
	Cache      *task.Cache
	Gateway    *gateway.Client
	Metrics    *metrics.Metrics
	Scheduler  *poll.Scheduler
	Controller *controller.Controller

	notifier *snapshotNotifier
}

func buildContainer(overrides ...config.Option) (*Container, error) {
	cfg, err := config.Load(overrides...)
	if err != nil {
		return nil, err
	}

	logger := logging.NewComponentLogger("tasklab")
	if cfg.Debug {
		logger.SetLevel(logging.LevelDebug)
	} else {
		logger.SetLevel(logging.LevelInfo)
	}

	store := session.NewStore()
	cache := task.NewCache()
	m := metrics.New()

	gw := gateway.New(cfg.ServerURL, store,
		gateway.WithHTTPClient(newHTTPClient(cfg)),
		gateway.WithBodyLimit(cfg.BodyLimit),
		gateway.WithLogger(logging.NewComponentLogger("gateway")),
	)

	notifier := &snapshotNotifier{}
	scheduler := poll.New(gw, cache, cfg.PollInterval,
		poll.WithLogger(logging.NewComponentLogger("poll")),
		poll.WithMetrics(m),
		poll.WithNotify(notifier.notify),
	)

	ctrl := controller.New(store, cache, gw, scheduler,
		controller.WithLogger(logging.NewComponentLogger("controller")),
		controller.WithAlertDuration(cfg.AlertDuration),
	)

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Session:    store,
		Cache:      cache,
		Gateway:    gw,
		Metrics:    m,
		Scheduler:  scheduler,
		Controller: ctrl,
		notifier:   notifier,
	}, nil
}

// Cleanup stops the poll loop if it ever started.
func (c *Container) Cleanup() {
	c.Scheduler.Stop()
}
