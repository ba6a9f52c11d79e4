// Package metrics exposes the engine's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every metric emitted by an Engine.
type Metrics struct {
	tickDuration prometheus.Histogram

	bodiesAlive prometheus.Gauge
	timescale   prometheus.Gauge

	merges         prometheus.Counter
	bodiesDropped  prometheus.Counter
	tickBuildFails prometheus.Counter
}

// New creates and registers the engine's metrics against reg. Each
// Engine owns its own registry so that constructing many engines
// (tests, Clone) never collides on the global default registerer.
func New(reg prometheus.Registerer) *Metrics {
	namespace := "nbody"
	subsystem := "engine"
	factory := promauto.With(reg)

	return &Metrics{
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of a single Engine.Update call",
			Buckets:   prometheus.DefBuckets,
		}),

		bodiesAlive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bodies_alive",
			Help:      "Live body count after the last tick's compaction",
		}),

		timescale: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "timescale",
			Help:      "Current simulated-seconds-per-real-second factor",
		}),

		merges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "merges_total",
			Help:      "Total number of body merges applied",
		}),

		bodiesDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bodies_dropped_total",
			Help:      "Total number of Push calls rejected at capacity",
		}),

		tickBuildFails: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tick_build_failures_total",
			Help:      "Total number of ticks whose octree build failed",
		}),
	}
}

// ObserveTick records a tick's duration in seconds.
func (m *Metrics) ObserveTick(seconds float64) {
	m.tickDuration.Observe(seconds)
}

// SetBodiesAlive records the live body count after compaction.
func (m *Metrics) SetBodiesAlive(n int) {
	m.bodiesAlive.Set(float64(n))
}

// SetTimescale records the engine's current timescale.
func (m *Metrics) SetTimescale(timescale float64) {
	m.timescale.Set(timescale)
}

// AddMerges increments the merge counter by n.
func (m *Metrics) AddMerges(n int) {
	m.merges.Add(float64(n))
}

// IncBodiesDropped increments the dropped-push counter.
func (m *Metrics) IncBodiesDropped() {
	m.bodiesDropped.Inc()
}

// IncTickBuildFailures increments the tick-build-failure counter.
func (m *Metrics) IncTickBuildFailures() {
	m.tickBuildFails.Inc()
}
