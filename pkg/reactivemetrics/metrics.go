// Package reactivemetrics reports reactive engine events to Prometheus.
package reactivemetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Config struct {
	// Namespace is the metrics namespace (default: "quanta").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reactive").
	Subsystem string

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

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "quanta",
		Subsystem: "reactive",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector implements reactive.Metrics. Pass it to a system with
// reactive.WithMetrics.
type Collector struct {
	effectRuns     *prometheus.CounterVec
	effectFailures *prometheus.CounterVec
	cycles         *prometheus.CounterVec
	triggers       prometheus.Counter
	batchFlushes   prometheus.Histogram
}

// New registers the engine metrics. Registering twice on the same registry
// panics, like any promauto metric.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		effectRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "effect_runs_total",
			Help:      "Total number of effect runs",
		}, []string{"effect"}),

		effectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "effect_failures_total",
			Help:      "Total number of subscriber failures isolated during a trigger",
		}, []string{"effect"}),

		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "cycles_total",
			Help:      "Total number of circular dependencies detected",
		}, []string{"effect"}),

		triggers: factory.NewCounter(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "triggers_total",
			Help:      "Total number of triggered changes",
		}),

		batchFlushes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "batch_flush_effects",
			Help:      "Number of effects run per batch flush",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (c *Collector) EffectRan(effect string) {
	c.effectRuns.WithLabelValues(effect).Inc()
}

func (c *Collector) EffectFailed(effect string) {
	c.effectFailures.WithLabelValues(effect).Inc()
}

func (c *Collector) CycleDetected(effect string) {
	c.cycles.WithLabelValues(effect).Inc()
}

func (c *Collector) Triggered() {
	c.triggers.Inc()
}

func (c *Collector) BatchFlushed(size int) {
	c.batchFlushes.Observe(float64(size))
}
