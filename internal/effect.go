package internal

type EffectType int

const (
	EffectRender EffectType = iota
	EffectUser
)

func (t EffectType) String() string {
	switch t {
	case EffectRender:
		return "render"
	case EffectUser:
		return "user"
	default:
		return "unknown"
	}
}

type Effect struct {
	*Owner

	typ EffectType
	fn  func()

	// signals read during the last run
	deps []*Signal

	disposed bool
}

func (r *Runtime) NewEffect(typ EffectType, fn func()) *Effect {
	e := &Effect{
		Owner: r.NewOwner(),
		typ:   typ,
		fn:    fn,
	}

	e.OnDispose(func() {
		e.disposed = true
		e.clearDeps()
	})

	e.run()

	return e
}

func (e *Effect) run() {
	if e.disposed {
		return
	}

	// a re-run starts from a clean slate: nested owners, cleanups and deps
	// from the previous run are dropped
	e.reset()
	e.clearDeps()

	r := GetRuntime()
	r.config.Observer.EffectRan(e.typ)

	defer func() {
		if err := recover(); err != nil {
			e.handle(err)
		}
	}()

	r.tracker.RunWithEffect(e, e.fn)
}
