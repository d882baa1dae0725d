package syncstate

// Computed is a read-only value derived from signals and cells.
//
// It recomputes in a render effect whenever a committed dependency changes,
// and its own dependents are notified on the next update cycle of the same
// flush. Like Signal.Read, Read returns the committed value.
type Computed[T any] struct {
	signal *Signal[T]
}

// NewComputed creates a computed value that derives from the signals and
// cells compute reads (its a memo). Dependents are only notified when the
// result changes.
func NewComputed[T any](compute func() T) *Computed[T] {
	c := &Computed[T]{}

	NewRenderEffect(func() {
		v := compute()
		if c.signal == nil {
			c.signal = NewSignal(v)
			return
		}

		c.signal.Write(v)
	})

	return c
}

// Read the current value of the computed, tracking the dependency if within an effect.
func (c *Computed[T]) Read() T {
	return c.signal.Read()
}
