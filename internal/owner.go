package internal

import (
	"iter"
)

type Owner struct {
	// cleanup functions, called once on the next reset or dispose
	cleanups []func()

	// called on every dispose
	disposers []func()

	// panic error handlers
	catchers []func(any)

	parent       *Owner
	prevSibling  *Owner
	nextSibling  *Owner
	childrenHead *Owner
}

// NewOwner creates an owner attached to the current one, if any.
func (r *Runtime) NewOwner() *Owner {
	o := &Owner{
		cleanups: make([]func(), 0),
	}

	if parent := r.CurrentOwner(); parent != nil {
		parent.AddChild(o)
	}

	return o
}

func (o *Owner) Run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			o.handle(r)
		}
	}()

	r := GetRuntime()
	r.tracker.RunWithOwner(o, func() { err = fn() })

	return err
}

// handle hands a recovered panic to the closest owner with error handlers.
func (o *Owner) handle(err any) {
	for owner := o; owner != nil; owner = owner.parent {
		if len(owner.catchers) == 0 {
			continue
		}

		for _, catcher := range owner.catchers {
			catcher(err)
		}
		return
	}

	panic(err)
}

func (parent *Owner) AddChild(child *Owner) {
	child.parent = parent
	child.prevSibling = nil
	child.nextSibling = parent.childrenHead

	if parent.childrenHead != nil {
		parent.childrenHead.prevSibling = child
	}

	parent.childrenHead = child
}

func (n *Owner) Children() iter.Seq[*Owner] {
	return func(yield func(*Owner) bool) {
		child := n.childrenHead

		for child != nil {
			next := child.nextSibling
			if !yield(child) {
				return
			}

			child = next
		}
	}
}

func (n *Owner) Dispose() {
	n.reset()

	for _, fn := range n.disposers {
		fn()
	}
}

// reset disposes the children and runs pending cleanups, leaving the owner usable.
func (n *Owner) reset() {
	n.DisposeChildren()

	cleanups := n.cleanups
	n.cleanups = nil

	for i := 0; i < len(cleanups); i++ {
		cleanups[i]()
	}
}

func (n *Owner) DisposeChildren() {
	for child := range n.Children() {
		child.Dispose()
	}
	n.childrenHead = nil
}

func (n *Owner) OnCleanup(fn func()) {
	n.cleanups = append(n.cleanups, fn)
}

func (n *Owner) OnDispose(fn func()) {
	n.disposers = append(n.disposers, fn)
}

func (n *Owner) OnError(fn func(any)) {
	n.catchers = append(n.catchers, fn)
}
