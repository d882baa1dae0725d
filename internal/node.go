package internal

// link creates a bidirectional dependency between the effect (subscriber)
// and the signal (dependency).
func (e *Effect) link(s *Signal) {
	// dont link if already present as the most recent dependency
	if n := len(e.deps); n > 0 && e.deps[n-1] == s {
		return
	}

	for _, dep := range e.deps {
		if dep == s {
			return
		}
	}

	e.deps = append(e.deps, s)
	s.addSub(e)
}

// clearDeps removes all dependencies
func (e *Effect) clearDeps() {
	for _, dep := range e.deps {
		dep.removeSub(e)
	}

	e.deps = nil
}
