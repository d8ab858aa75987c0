package presenter

import (
	"time"

	"github.com/soocke/pagewarp-go/ui/model"
)

// BusyModel reports whether a background task is running.
type BusyModel interface{ Busy() bool }

// ClockView displays the running task time and the accumulated total.
type ClockView interface {
	SetTaskClock(task, total time.Duration)
}

// ClockPresenter advances the task clock from the busy flag and pushes the
// durations to the view.
type ClockPresenter struct {
	clock *model.TaskClock
	busy  BusyModel
	view  ClockView
}

func NewClockPresenter(clock *model.TaskClock, busy BusyModel, view ClockView) *ClockPresenter {
	return &ClockPresenter{clock: clock, busy: busy, view: view}
}

func (p *ClockPresenter) Tick(now time.Time) {
	if p == nil || p.clock == nil || p.busy == nil || p.view == nil {
		return
	}
	p.clock.OnTick(p.busy.Busy(), now)
	task, total := p.clock.Values()
	p.view.SetTaskClock(task, total)
}
