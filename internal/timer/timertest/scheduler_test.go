package timertest

import (
	"testing"
	"time"
)

func TestAdvanceRunsInOrder(t *testing.T) {
	s := New()
	var order []string
	s.ScheduleOnce(2*time.Second, func() { order = append(order, "b") })
	s.ScheduleOnce(time.Second, func() { order = append(order, "a") })
	s.ScheduleOnce(2*time.Second, func() { order = append(order, "c") })
	s.Advance(2 * time.Second)
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Fatalf("unexpected order: %v", order)
	}
	if s.Now() != 2*time.Second {
		t.Fatalf("unexpected virtual time %v", s.Now())
	}
}

func TestAdvanceRunsNestedSchedules(t *testing.T) {
	s := New()
	count := 0
	var step func()
	step = func() {
		count++
		s.ScheduleOnce(time.Second, step)
	}
	s.ScheduleOnce(time.Second, step)
	s.Advance(3 * time.Second)
	if count != 3 {
		t.Fatalf("expected 3 runs, got %d", count)
	}
	if s.Pending() != 1 {
		t.Fatalf("expected 1 pending, got %d", s.Pending())
	}
}

func TestCancel(t *testing.T) {
	s := New()
	ran := false
	h := s.ScheduleOnce(time.Second, func() { ran = true })
	s.Cancel(h)
	s.Cancel(h)
	s.Advance(time.Minute)
	if ran {
		t.Fatalf("cancelled callback ran")
	}
	if s.Cancelled() != 1 || s.Fired() != 0 {
		t.Fatalf("unexpected counters: cancelled=%d fired=%d", s.Cancelled(), s.Fired())
	}
}
