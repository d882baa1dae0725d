package internal

import "github.com/eapache/queue"

type EffectQueue struct {
	effects map[EffectType]*queue.Queue

	// effects currently waiting in one of the queues
	queued map[*Effect]struct{}
}

func NewEffectQueue() *EffectQueue {
	effects := make(map[EffectType]*queue.Queue)
	effects[EffectRender] = queue.New()
	effects[EffectUser] = queue.New()

	return &EffectQueue{
		effects: effects,
		queued:  make(map[*Effect]struct{}),
	}
}

func (q *EffectQueue) Enqueue(e *Effect) {
	if _, ok := q.queued[e]; ok {
		return
	}

	q.queued[e] = struct{}{}
	q.effects[e.typ].Add(e)
}

// Drain empties the queue of the given type, in insertion order.
func (q *EffectQueue) Drain(typ EffectType) []*Effect {
	pending := q.effects[typ]
	effects := make([]*Effect, 0, pending.Length())

	for pending.Length() > 0 {
		e := pending.Remove().(*Effect)
		delete(q.queued, e)
		effects = append(effects, e)
	}

	return effects
}

func (q *EffectQueue) Len() int {
	return len(q.queued)
}

type NodeQueue struct {
	signals []*Signal
}

func NewNodeQueue() *NodeQueue {
	return &NodeQueue{
		signals: make([]*Signal, 0),
	}
}

func (q *NodeQueue) Enqueue(node *Signal) {
	q.signals = append(q.signals, node)
}

func (q *NodeQueue) Drain() []*Signal {
	signals := q.signals
	q.signals = make([]*Signal, 0)

	return signals
}

type SettledQueue struct {
	callbacks []func()
}

func NewSettledQueue() *SettledQueue {
	return &SettledQueue{
		callbacks: make([]func(), 0),
	}
}

func (q *SettledQueue) Enqueue(fn func()) {
	q.callbacks = append(q.callbacks, fn)
}

// Run calls every queued callback once. Callbacks queued while running wait
// for the next call.
func (q *SettledQueue) Run() {
	callbacks := q.callbacks
	q.callbacks = make([]func(), 0)

	for _, cb := range callbacks {
		cb()
	}
}
