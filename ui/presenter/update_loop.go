package presenter

import "time"

// Loop drives periodic presenter work from the Tk event loop.
//
// Each Tick drains finished background tasks, advances the task clock,
// flushes the status line and reschedules itself. The zero value is usable
// (methods are nil-safe).
type Loop struct {
	Tasks    *TaskPresenter
	Clock    *ClockPresenter
	Status   *StatusPresenter
	Schedule func()
}

func NewLoop(tasks *TaskPresenter, clock *ClockPresenter, status *StatusPresenter, schedule func()) *Loop {
	return &Loop{Tasks: tasks, Clock: clock, Status: status, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Tasks != nil {
		l.Tasks.ProcessResults()
	}
	if l.Clock != nil {
		l.Clock.Tick(now)
	}
	if l.Status != nil {
		l.Status.Tick()
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
