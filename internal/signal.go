package internal

import (
	"reflect"
	"slices"
	"sync"
)

type Signal struct {
	mu sync.Mutex

	value        any
	pendingValue *any // nil if no pending value

	subs []*Effect
}

func (r *Runtime) NewSignal(initial any) *Signal {
	return &Signal{value: initial}
}

// Read returns the committed value of the signal.
// A write stays invisible to Read until the runtime flushes it.
func (s *Signal) Read() any {
	r := GetRuntime()

	if e := r.tracker.CurrentEffect(); e != nil && r.tracker.ShouldTrack() {
		e.link(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.value
}

func (s *Signal) Write(v any) {
	r := GetRuntime()
	// [x] check if value changed
	// [x] set pending value
	// [x] queue signal for commit
	// [x] schedule flush
	// subs are queued on commit, not here

	s.mu.Lock()
	if isEqual(s.latest(), v) {
		s.mu.Unlock()
		return
	}

	wasPending := s.pendingValue != nil
	s.pendingValue = &v
	s.mu.Unlock()

	r.config.Observer.SignalWritten()

	if !wasPending {
		r.mu.Lock()
		r.nodeQueue.Enqueue(s)
		r.mu.Unlock()
	}

	r.Schedule()
}

// Commit applies the pending value to the signal and returns the effects to
// notify. Nothing is returned when the pending value ends up equal to the
// committed one.
func (s *Signal) Commit() []*Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingValue == nil {
		return nil
	}

	prev := s.value
	s.value = *s.pendingValue
	s.pendingValue = nil

	if isEqual(prev, s.value) {
		return nil
	}

	return slices.Clone(s.subs)
}

// latest is the pending value if any, the committed one otherwise.
// Callers hold s.mu.
func (s *Signal) latest() any {
	if s.pendingValue != nil {
		return *s.pendingValue
	}

	return s.value
}

func (s *Signal) addSub(e *Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.subs, e) {
		s.subs = append(s.subs, e)
	}
}

func (s *Signal) removeSub(e *Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.subs, e); i >= 0 {
		s.subs = slices.Delete(s.subs, i, i+1)
	}
}

// isEqual compares with == when both dynamic values allow it.
// Slices, maps and funcs always count as a change.
func isEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
		return false
	}

	return a == b
}
