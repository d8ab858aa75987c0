package view

import (
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// TaskClock shows how long the current task has been running and the total
// busy time of the session.
type TaskClock interface {
	SetTask(d time.Duration)
	SetTotal(d time.Duration)
}

type taskClock struct {
	taskLbl  *LabelWidget
	totalLbl *LabelWidget
}

// NewTaskClock places the task label at (row, startCol) and the total label
// at (row, startCol+1), inside parent when it is non-nil.
func NewTaskClock(parent *FrameWidget, row, startCol int) TaskClock {
	s := &taskClock{taskLbl: Label(Width(14)), totalLbl: Label(Width(14))}
	if parent != nil {
		Grid(s.taskLbl, In(parent), Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
		Grid(s.totalLbl, In(parent), Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	} else {
		Grid(s.taskLbl, Row(row), Column(startCol), Sticky("w"), Padx("0.2m"))
		Grid(s.totalLbl, Row(row), Column(startCol+1), Sticky("w"), Padx("0.2m"))
	}
	s.SetTask(0)
	s.SetTotal(0)
	return s
}

func (s *taskClock) SetTask(d time.Duration) {
	if s == nil || s.taskLbl == nil {
		return
	}
	s.taskLbl.Configure(Txt(clockText("Task", d)))
}

func (s *taskClock) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt(clockText("Total", d)))
}
