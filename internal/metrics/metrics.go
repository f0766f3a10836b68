// Package metrics instruments the poll loop. Counters live on a private
// registry so tests and multiple shells never fight over the global one;
// the web shell exposes the registry at /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks poll outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	pollSuccesses prometheus.Counter
	pollFailures  prometheus.Counter
	pollDuration  prometheus.Histogram
	tasksInCache  prometheus.Gauge
}

// New returns metrics registered on a fresh private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pollSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasklab_poll_successes_total",
			Help: "Task list polls that completed and replaced the snapshot.",
		}),
		pollFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tasklab_poll_failures_total",
			Help: "Task list polls skipped due to transport or decode errors.",
		}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tasklab_poll_duration_seconds",
			Help:    "Latency of task list polls.",
			Buckets: prometheus.DefBuckets,
		}),
		tasksInCache: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tasklab_tasks_in_cache",
			Help: "Tasks held in the latest snapshot.",
		}),
	}

	m.registry.MustRegister(m.pollSuccesses, m.pollFailures, m.pollDuration, m.tasksInCache)
	return m
}

// ObservePoll records the outcome of one poll tick.
func (m *Metrics) ObservePoll(err error, elapsed time.Duration, taskCount int) {
	if m == nil {
		return
	}
	m.pollDuration.Observe(elapsed.Seconds())
	if err != nil {
		m.pollFailures.Inc()
		return
	}
	m.pollSuccesses.Inc()
	m.tasksInCache.Set(float64(taskCount))
}

// Handler serves the private registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
