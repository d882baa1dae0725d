package syncstate

import (
	"log/slog"

	"github.com/AnatoleLucet/syncstate/internal"
	"go.opentelemetry.io/otel/trace"
)

// EffectType tells render effects from user effects.
type EffectType = internal.EffectType

const (
	EffectRender = internal.EffectRender
	EffectUser   = internal.EffectUser
)

// Observer receives runtime events, see the metrics package for a
// Prometheus implementation.
type Observer = internal.Observer

// Option configures the runtime of the calling goroutine.
type Option func(*internal.Config)

// Configure applies options to the runtime of the calling goroutine.
// Other goroutines keep their own configuration.
//
// Example:
//
//	syncstate.Configure(
//	    syncstate.WithLogger(logger),
//	    syncstate.WithObserver(metrics.New()),
//	)
func Configure(opts ...Option) {
	internal.GetRuntime().Configure(func(c *internal.Config) {
		for _, opt := range opts {
			opt(c)
		}
	})
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *internal.Config) {
		c.Logger = logger
	}
}

// WithObserver sets the observer notified of writes, effect runs, flushes and clones.
func WithObserver(observer Observer) Option {
	return func(c *internal.Config) {
		c.Observer = observer
	}
}

// WithTracer sets the tracer used to record one span per flush.
// Defaults to the global OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *internal.Config) {
		c.Tracer = tracer
	}
}

// WithMaxFlushPasses caps the number of update cycles a single flush may run.
// Effects that keep writing to their own dependencies stop there.
func WithMaxFlushPasses(n int) Option {
	return func(c *internal.Config) {
		c.MaxFlushPasses = n
	}
}
