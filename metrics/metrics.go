// Package metrics exports runtime events as Prometheus metrics.
//
// Metrics collected:
//   - syncstate_signal_writes_total: Counter of accepted signal writes
//   - syncstate_effect_runs_total: Counter of effect runs by type (render, user)
//   - syncstate_flushes_total: Counter of flushes that committed something
//   - syncstate_flush_passes: Histogram of update cycles per flush
//   - syncstate_flush_duration_seconds: Histogram of flush duration
//   - syncstate_values_cloned_total: Counter of values copied by cells, by kind
//
// Example:
//
//	m := metrics.New(metrics.WithRegistry(registry))
//	syncstate.Configure(syncstate.WithObserver(m))
package metrics

import (
	"time"

	"github.com/AnatoleLucet/syncstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "syncstate").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "syncstate",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics implements syncstate.Observer.
type Metrics struct {
	writes        prometheus.Counter
	effectRuns    *prometheus.CounterVec
	flushes       prometheus.Counter
	flushPasses   prometheus.Histogram
	flushDuration prometheus.Histogram
	cloned        *prometheus.CounterVec
}

var _ syncstate.Observer = (*Metrics)(nil)

// New registers the collectors. It panics if they are already registered
// on the registry, like promauto does.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		writes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "signal_writes_total",
			Help:        "Total number of accepted signal writes",
			ConstLabels: config.ConstLabels,
		}),

		effectRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs by effect type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flushes_total",
			Help:        "Total number of flushes that committed updates",
			ConstLabels: config.ConstLabels,
		}),

		flushPasses: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_passes",
			Help:        "Update cycles run by a single flush",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 3, 5, 10, 25, 50, 100},
		}),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		cloned: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "values_cloned_total",
			Help:        "Total number of values deep copied by cells, by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
	}
}

func (m *Metrics) SignalWritten() {
	m.writes.Inc()
}

func (m *Metrics) EffectRan(typ syncstate.EffectType) {
	m.effectRuns.WithLabelValues(typ.String()).Inc()
}

func (m *Metrics) Flushed(passes int, elapsed time.Duration) {
	m.flushes.Inc()
	m.flushPasses.Observe(float64(passes))
	m.flushDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ValueCloned(kind string) {
	m.cloned.WithLabelValues(kind).Inc()
}
