package model

import (
	"testing"
	"time"
)

func TestTaskClock_BasicLifecycle(t *testing.T) {
	m := NewTaskClock()
	base := time.Unix(0, 0)

	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	task, total := m.Values()
	if task != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s task & total; got task=%v total=%v", task, total)
	}

	m.OnTick(false, base.Add(5*time.Second))
	m.OnTick(false, base.Add(7*time.Second))
	task2, total2 := m.Values()
	if task2 != task || total2 != total {
		t.Fatalf("idle ticks should not change durations: task=%v total=%v", task2, total2)
	}

	// Second task at 10s lasting 3s.
	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(13*time.Second))
	if task, total = m.Values(); task != 3*time.Second || total != 8*time.Second {
		t.Fatalf("running total should include current task: task=%v total=%v", task, total)
	}
	m.OnTick(false, base.Add(13*time.Second))
	if task, total = m.Values(); task != 3*time.Second || total != 8*time.Second {
		t.Fatalf("final task=%v total=%v", task, total)
	}
}

func TestTaskClock_NilSafe(t *testing.T) {
	var m *TaskClock
	m.OnTick(true, time.Now())
	if a, b := m.Values(); a != 0 || b != 0 {
		t.Fatalf("nil clock should report zero")
	}
}
