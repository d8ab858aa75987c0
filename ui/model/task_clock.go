package model

import (
	"time"
)

// TaskClock tracks how long the current background task has been running and
// the accumulated processing time across tasks. Presenters poll Values() on
// each tick. The zero value is ready to use.
type TaskClock struct {
	active      bool
	taskStart   time.Time
	lastTask    time.Duration
	accumulated time.Duration
}

// NewTaskClock returns a ready-to-use TaskClock.
func NewTaskClock() *TaskClock { return &TaskClock{} }

// OnTick advances the clock using the current busy state and timestamp.
func (m *TaskClock) OnTick(busy bool, now time.Time) {
	if m == nil {
		return
	}
	if busy {
		if !m.active { // idle -> busy
			m.active = true
			m.taskStart = now
			m.lastTask = 0
		}
		m.lastTask = now.Sub(m.taskStart)
	} else if m.active { // busy -> idle
		m.lastTask = now.Sub(m.taskStart)
		m.accumulated += m.lastTask
		m.active = false
	}
}

// Values returns the current (or last) task duration and the total. The total
// includes the running task.
func (m *TaskClock) Values() (task, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	task = m.lastTask
	total = m.accumulated
	if m.active {
		total += task
	}
	return
}
