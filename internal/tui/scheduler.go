package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/wordsprint/internal/timer"
)

type fireMsg struct {
	handle timer.CancelHandle
}

// teaScheduler implements timer.Scheduler on top of tea.Tick. Callbacks run
// inside Update when the matching fireMsg arrives, so they share the event
// loop goroutine with key handling.
type teaScheduler struct {
	next    timer.CancelHandle
	pending map[timer.CancelHandle]func()
	queued  []tea.Cmd
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{pending: map[timer.CancelHandle]func(){}}
}

// ScheduleOnce implements timer.Scheduler.
func (s *teaScheduler) ScheduleOnce(delay time.Duration, fn func()) timer.CancelHandle {
	s.next++
	handle := s.next
	s.pending[handle] = fn
	s.queued = append(s.queued, tea.Tick(delay, func(time.Time) tea.Msg {
		return fireMsg{handle: handle}
	}))
	return handle
}

// Cancel implements timer.Scheduler. The tick message still arrives and is dropped.
func (s *teaScheduler) Cancel(handle timer.CancelHandle) {
	delete(s.pending, handle)
}

func (s *teaScheduler) fire(handle timer.CancelHandle) {
	fn, ok := s.pending[handle]
	if !ok {
		return
	}
	delete(s.pending, handle)
	fn()
}

// drain returns the commands queued since the last call.
func (s *teaScheduler) drain() []tea.Cmd {
	cmds := s.queued
	s.queued = nil
	return cmds
}
