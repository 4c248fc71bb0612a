// Package timertest provides a virtual-time Scheduler for tests.
package timertest

import (
	"sort"
	"time"

	"github.com/verte-zerg/wordsprint/internal/timer"
)

type task struct {
	handle timer.CancelHandle
	at     time.Duration
	seq    uint64
	fn     func()
}

// Scheduler runs callbacks synchronously as virtual time advances.
type Scheduler struct {
	now    time.Duration
	next   timer.CancelHandle
	seq    uint64
	tasks  []task
	fired  int
	cancel int
}

// New returns a Scheduler at virtual time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// ScheduleOnce implements timer.Scheduler.
func (s *Scheduler) ScheduleOnce(delay time.Duration, fn func()) timer.CancelHandle {
	if delay < 0 {
		delay = 0
	}
	s.next++
	s.seq++
	s.tasks = append(s.tasks, task{handle: s.next, at: s.now + delay, seq: s.seq, fn: fn})
	return s.next
}

// Cancel implements timer.Scheduler.
func (s *Scheduler) Cancel(handle timer.CancelHandle) {
	for i, t := range s.tasks {
		if t.handle == handle {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.cancel++
			return
		}
	}
}

// Advance moves virtual time forward by d, running every callback that
// becomes due in order. Callbacks scheduled while advancing run too if they
// fall inside the window.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		idx := s.nextDue(target)
		if idx < 0 {
			break
		}
		t := s.tasks[idx]
		s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
		s.now = t.at
		s.fired++
		t.fn()
	}
	s.now = target
}

// Now returns the elapsed virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of callbacks not yet run or cancelled.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Fired returns the number of callbacks run so far.
func (s *Scheduler) Fired() int {
	return s.fired
}

// Cancelled returns the number of successful Cancel calls.
func (s *Scheduler) Cancelled() int {
	return s.cancel
}

func (s *Scheduler) nextDue(target time.Duration) int {
	if len(s.tasks) == 0 {
		return -1
	}
	order := make([]int, len(s.tasks))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ta, tb := s.tasks[order[a]], s.tasks[order[b]]
		if ta.at == tb.at {
			return ta.seq < tb.seq
		}
		return ta.at < tb.at
	})
	first := order[0]
	if s.tasks[first].at > target {
		return -1
	}
	return first
}
