package internal

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Runtime struct {
	mu sync.Mutex

	id     string
	config Config

	tracker     *Tracker
	batcher     *Batcher
	scheduler   *Scheduler
	nodeQueue   *NodeQueue
	effectQueue *EffectQueue

	renderSettled *SettledQueue
	userSettled   *SettledQueue
	settled       *SettledQueue
}

func NewRuntime() *Runtime {
	r := &Runtime{
		id:     uuid.NewString(),
		config: DefaultConfig(),

		tracker:     NewTracker(),
		batcher:     NewBatcher(),
		scheduler:   NewScheduler(),
		nodeQueue:   NewNodeQueue(),
		effectQueue: NewEffectQueue(),

		renderSettled: NewSettledQueue(),
		userSettled:   NewSettledQueue(),
		settled:       NewSettledQueue(),
	}

	return r
}

func (r *Runtime) Config() Config {
	return r.config
}

func (r *Runtime) Configure(fn func(*Config)) {
	cfg := r.config
	fn(&cfg)
	r.config = cfg.normalize()
}

func (r *Runtime) logger() *slog.Logger {
	return r.config.Logger.With("runtime", r.id)
}

func (r *Runtime) Schedule() {
	r.mu.Lock()
	r.scheduler.Schedule()
	shouldFlush := !r.batcher.IsBatching() && !r.scheduler.IsRunning()
	r.mu.Unlock()

	if shouldFlush {
		r.Flush()
	}
}

// Flush commits pending signals and runs queued effects, pass after pass,
// until nothing is scheduled anymore. A flush triggered while another one is
// running on the same runtime is absorbed by the running one.
func (r *Runtime) Flush() {
	r.mu.Lock()
	if r.scheduler.IsRunning() {
		r.mu.Unlock()
		return
	}
	r.scheduler.running = true
	r.mu.Unlock()

	start := time.Now()
	_, span := r.config.Tracer.Start(context.Background(), "syncstate.flush",
		trace.WithAttributes(attribute.String("syncstate.runtime", r.id)))

	passes := 0
	defer func() {
		r.mu.Lock()
		r.scheduler.running = false
		r.mu.Unlock()

		elapsed := time.Since(start)
		span.SetAttributes(attribute.Int("syncstate.passes", passes))
		span.End()

		if passes > 0 {
			r.config.Observer.Flushed(passes, elapsed)
			r.logger().Debug("flushed", "passes", passes, "elapsed", elapsed)
		}
	}()

	for {
		for r.nextPass(passes) {
			passes++
			r.runPass()
		}

		// still scheduled here means the pass limit stopped us
		if r.isScheduled() {
			r.logger().Warn("flush pass limit reached, remaining updates stay queued",
				"limit", r.config.MaxFlushPasses)
			return
		}

		if passes == 0 {
			return
		}

		r.settled.Run()

		if !r.isScheduled() {
			return
		}
	}
}

// nextPass consumes the scheduled flag when another pass is allowed.
func (r *Runtime) nextPass(passes int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.scheduler.scheduled || passes >= r.config.MaxFlushPasses {
		return false
	}

	r.scheduler.scheduled = false
	return true
}

func (r *Runtime) isScheduled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scheduler.scheduled
}

func (r *Runtime) runPass() {
	r.mu.Lock()
	nodes := r.nodeQueue.Drain()
	r.mu.Unlock()

	for _, node := range nodes {
		subs := node.Commit()

		r.mu.Lock()
		for _, sub := range subs {
			r.effectQueue.Enqueue(sub)
		}
		r.mu.Unlock()
	}

	r.scheduler.Tick()

	r.runEffects(EffectRender)
	r.renderSettled.Run()

	r.runEffects(EffectUser)
	r.userSettled.Run()
}

func (r *Runtime) runEffects(typ EffectType) {
	r.mu.Lock()
	effects := r.effectQueue.Drain(typ)
	r.mu.Unlock()

	for _, e := range effects {
		e.run()
	}
}

func (r *Runtime) CurrentOwner() *Owner {
	return r.tracker.CurrentOwner()
}

func (r *Runtime) OnCleanup(fn func()) {
	owner := r.CurrentOwner()
	if owner != nil {
		owner.OnCleanup(fn)
	}
}

func (r *Runtime) Untrack(fn func()) {
	r.tracker.RunUntracked(fn)
}

func (r *Runtime) OnSettled(fn func())       { r.settled.Enqueue(fn) }
func (r *Runtime) OnUserSettled(fn func())   { r.userSettled.Enqueue(fn) }
func (r *Runtime) OnRenderSettled(fn func()) { r.renderSettled.Enqueue(fn) }
