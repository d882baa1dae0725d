package internal

type Scheduler struct {
	// incremented on each flush pass (when pending values are committed)
	clock int

	scheduled bool
	running   bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		clock: 0,

		scheduled: false,
		running:   false,
	}
}

func (s *Scheduler) Schedule() {
	s.scheduled = true
}

func (s *Scheduler) IsRunning() bool {
	return s.running
}

func (s *Scheduler) Tick() {
	s.clock++
}

func (s *Scheduler) Time() int {
	return s.clock
}

func (r *Runtime) Time() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.scheduler.Time()
}
