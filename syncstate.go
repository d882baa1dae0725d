package syncstate

import "github.com/AnatoleLucet/syncstate/internal"

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	return v.(T)
}

type Signal[T any] struct {
	signal *internal.Signal
}

// NewSignal creates an asynchronous read/write signal.
// Writes become visible to Read once the runtime flushes them: right away
// outside of a batch, at the end of the outermost batch otherwise.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		internal.GetRuntime().NewSignal(initial),
	}
}

// Read the committed value of the signal, tracking the dependency if within an effect.
func (s *Signal[T]) Read() T {
	return as[T](s.signal.Read())
}

// Write a new value to the signal. Dependents are notified once the value is committed.
// The flush runs on the calling goroutine, so write from the goroutine that created the dependent effects.
func (s *Signal[T]) Write(v T) {
	s.signal.Write(v)
}

// NewBatch batches multiple signal writes into a single update cycle,
// instead of flushing after each write.
// Reads inside the batch keep returning the values committed before it.
func NewBatch(fn func()) {
	internal.GetRuntime().NewBatch(fn)
}

// Flush commits pending writes and runs queued effects now, even inside a batch.
func Flush() {
	internal.GetRuntime().Flush()
}

// NewEffect creates a reactive effect that runs the given function
// whenever its dependencies change.
func NewEffect(fn func()) {
	internal.GetRuntime().NewEffect(internal.EffectUser, fn)
}

// NewRenderEffect is like NewEffect, but runs before user effects in each update cycle.
func NewRenderEffect(fn func()) {
	internal.GetRuntime().NewEffect(internal.EffectRender, fn)
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to be called when the current owner is disposed
// or the current effect re-runs.
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}

// OnSettled registers a function called once, when the next flush is done,
// chained updates included.
func OnSettled(fn func()) {
	internal.GetRuntime().OnSettled(fn)
}

// OnUserSettled registers a function called once, after the user effects of
// the next update cycle. It does not wait for chained updates.
func OnUserSettled(fn func()) {
	internal.GetRuntime().OnUserSettled(fn)
}

// OnRenderSettled registers a function called once, after the render effects
// of the next update cycle, before user effects run.
func OnRenderSettled(fn func()) {
	internal.GetRuntime().OnRenderSettled(fn)
}

// Release drops the reactive runtime of the calling goroutine.
// Call it when a goroutine that used signals is about to exit.
func Release() {
	internal.ReleaseRuntime()
}

type Owner struct {
	owner *internal.Owner
}

// NewOwner creates a new reactive owner.
// An owner manages the lifecycle of reactive nodes created within its context,
// think of it as a mounted component instance.
func NewOwner() *Owner {
	return &Owner{
		internal.GetRuntime().NewOwner(),
	}
}

// Run a function within the context of this owner.
// Each reactive node created within the function will be a child of this owner,
// and will be disposed when owner.Dispose() is called on this owner.
func (o *Owner) Run(fn func() error) error { return o.owner.Run(fn) }

// Dispose this owner and all its children.
func (o *Owner) Dispose() { o.owner.Dispose() }

// Add a cleanup function to be called ONCE when the owner is disposed.
func (o *Owner) OnCleanup(fn func()) { o.owner.OnCleanup(fn) }

// Add a function to be called when the owner is disposed (each time Dispose is called).
func (o *Owner) OnDispose(fn func()) { o.owner.OnDispose(fn) }

// Add a function to be called when a panic occurs within this owner.
// If no error listener is registered, the panic will propagate as usual.
func (o *Owner) OnError(fn func(any)) { o.owner.OnError(fn) }
