package syncstate

import (
	"sync"

	"github.com/AnatoleLucet/syncstate/internal"
	"github.com/AnatoleLucet/syncstate/internal/clone"
)

// Cell is a signal you can read right after writing to it.
//
// A Signal only exposes a write once the runtime commits it, so inside a
// batch Read keeps returning the previous value. A Cell keeps its own copy
// of the latest value next to the signal: Get returns it immediately, while
// the signal still commits and notifies dependents on its usual schedule.
//
// Slices, arrays and maps handed to Set are deep copied before being kept,
// so mutating them afterwards does not change what Get returns. The value
// returned by Get or Set is not copied again: mutate it and the cell sees it.
type Cell[T any] struct {
	mu     sync.RWMutex
	latest T

	signal *Signal[T]
}

// NewCell creates a cell backed by a new signal. The initial value is kept
// as-is, without copying.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		latest: initial,
		signal: NewSignal(initial),
	}
}

// UseCell creates a cell and returns its getter and setter.
func UseCell[T any](initial T) (func() T, func(T) T) {
	c := NewCell(initial)
	return c.Get, c.Set
}

// Get returns the latest value set on the cell, pending or not.
// It does not track dependencies, use Committed for that.
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.latest
}

// Set stores v as the latest value and writes it to the backing signal.
// The signal receives v itself; the cell keeps a deep copy when v is a
// sequence or a record. Set returns the value the cell now holds.
// Like Signal.Write, call it from the goroutine that owns the dependent effects.
func (c *Cell[T]) Set(v T) T {
	kept := v

	switch kind := clone.KindOf(v); kind {
	case clone.Sequence:
		kept = clone.CloneSequence(v)
		internal.GetRuntime().Config().Observer.ValueCloned(kind.String())
	case clone.Record:
		kept = clone.CloneRecord(v)
		internal.GetRuntime().Config().Observer.ValueCloned(kind.String())
	}

	c.mu.Lock()
	c.latest = kept
	c.mu.Unlock()

	// not under c.mu: the write may flush and run effects calling Get
	c.signal.Write(v)

	return kept
}

// Committed reads the backing signal: the value dependents have been
// notified with. It tracks the dependency if within an effect.
func (c *Cell[T]) Committed() T {
	return c.signal.Read()
}
