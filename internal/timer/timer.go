// Package timer implements a one-tick-per-second countdown driven by a host scheduler.
package timer

import "time"

const (
	// DefaultDuration is the trial length in seconds.
	DefaultDuration = 60
	// TickInterval is the delay between ticks.
	TickInterval = time.Second
)

// CancelHandle identifies a callback registered with a Scheduler.
type CancelHandle uint64

// Scheduler runs callbacks after a delay on the host event loop.
// Callbacks must never run concurrently with each other or with the caller.
type Scheduler interface {
	ScheduleOnce(delay time.Duration, fn func()) CancelHandle
	Cancel(handle CancelHandle)
}

// TickListener receives the remaining seconds after every non-final tick.
type TickListener interface {
	OnTick(timeLeft int)
}

// ExpireListener is notified when the countdown reaches zero.
type ExpireListener interface {
	OnExpire()
}

// TickFunc adapts a function to TickListener.
type TickFunc func(timeLeft int)

// OnTick implements TickListener.
func (f TickFunc) OnTick(timeLeft int) { f(timeLeft) }

// ExpireFunc adapts a function to ExpireListener.
type ExpireFunc func()

// OnExpire implements ExpireListener.
func (f ExpireFunc) OnExpire() { f() }

// State is the countdown lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Countdown counts down from a fixed number of seconds.
type Countdown struct {
	duration int
	timeLeft int
	running  bool
	expired  bool

	scheduler  Scheduler
	pending    CancelHandle
	hasPending bool
	// generation invalidates callbacks that belong to an earlier run.
	generation uint64

	tick   TickListener
	expire ExpireListener
}

// New returns an idle Countdown. A non-positive duration uses DefaultDuration.
// Either listener may be nil.
func New(duration int, scheduler Scheduler, tick TickListener, expire ExpireListener) *Countdown {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Countdown{
		duration:  duration,
		timeLeft:  duration,
		scheduler: scheduler,
		tick:      tick,
		expire:    expire,
	}
}

// Start arms the countdown. It is a no-op while running.
func (c *Countdown) Start() {
	if c.running {
		return
	}
	c.running = true
	c.expired = false
	c.timeLeft = c.duration
	c.generation++
	c.scheduleTick()
}

// Stop cancels the pending tick without firing any callback.
func (c *Countdown) Stop() {
	if c.hasPending {
		c.scheduler.Cancel(c.pending)
		c.hasPending = false
	}
	c.running = false
	c.expired = false
	c.generation++
}

// Reset stops the countdown and restores the full duration.
func (c *Countdown) Reset() {
	c.Stop()
	c.timeLeft = c.duration
}

// IsRunning reports whether the countdown is running.
func (c *Countdown) IsRunning() bool {
	return c.running
}

// State returns the lifecycle state.
func (c *Countdown) State() State {
	switch {
	case c.running:
		return StateRunning
	case c.expired:
		return StateExpired
	default:
		return StateIdle
	}
}

// TimeLeft returns the remaining seconds.
func (c *Countdown) TimeLeft() int {
	return c.timeLeft
}

// Duration returns the configured length in seconds.
func (c *Countdown) Duration() int {
	return c.duration
}

func (c *Countdown) scheduleTick() {
	gen := c.generation
	c.pending = c.scheduler.ScheduleOnce(TickInterval, func() {
		c.onTick(gen)
	})
	c.hasPending = true
}

func (c *Countdown) onTick(gen uint64) {
	if gen != c.generation || !c.running {
		return
	}
	c.hasPending = false
	c.timeLeft--
	if c.timeLeft > 0 {
		if c.tick != nil {
			c.tick.OnTick(c.timeLeft)
		}
		// The listener may have stopped or restarted the countdown.
		if c.running && gen == c.generation {
			c.scheduleTick()
		}
		return
	}
	c.running = false
	c.expired = true
	if c.expire != nil {
		c.expire.OnExpire()
	}
}
