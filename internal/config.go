package internal

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/AnatoleLucet/syncstate"

// DefaultMaxFlushPasses bounds how many commit/effect passes a single flush
// may run before giving up on effects that keep writing to their own deps.
const DefaultMaxFlushPasses = 100

// Observer receives runtime events. Implementations must be safe for use
// from several goroutines since every goroutine owns its own runtime.
type Observer interface {
	SignalWritten()
	EffectRan(typ EffectType)
	Flushed(passes int, elapsed time.Duration)
	ValueCloned(kind string)
}

type nopObserver struct{}

func (nopObserver) SignalWritten()             {}
func (nopObserver) EffectRan(EffectType)       {}
func (nopObserver) Flushed(int, time.Duration) {}
func (nopObserver) ValueCloned(string)         {}

type Config struct {
	Logger         *slog.Logger
	Observer       Observer
	Tracer         trace.Tracer
	MaxFlushPasses int
}

func DefaultConfig() Config {
	return Config{
		Logger:         slog.Default(),
		Observer:       nopObserver{},
		Tracer:         otel.Tracer(tracerName),
		MaxFlushPasses: DefaultMaxFlushPasses,
	}
}

// normalize fills zero fields back with their defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()

	if c.Logger == nil {
		c.Logger = def.Logger
	}
	if c.Observer == nil {
		c.Observer = def.Observer
	}
	if c.Tracer == nil {
		c.Tracer = def.Tracer
	}
	if c.MaxFlushPasses <= 0 {
		c.MaxFlushPasses = def.MaxFlushPasses
	}

	return c
}
