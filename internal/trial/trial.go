// Package trial runs timed typing trials on top of the word source, score
// tracker and countdown timer. All methods must be called from the host
// event loop, the same goroutine that runs the Scheduler callbacks.
package trial

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/score"
	"github.com/verte-zerg/wordsprint/internal/timer"
)

// WordSource supplies the next word to type.
type WordSource interface {
	NextWord() string
}

// Display renders controller state. It is the boundary to the UI.
type Display interface {
	ShowWord(word string)
	ShowTimeLeft(seconds int)
	ShowFeedback(fb Feedback)
	ShowResult(res model.Result)
	ShowWarning(msg string)
}

// State is the lifecycle of the current trial.
type State int

const (
	// StateWaiting shows a word and waits for the first keystroke.
	StateWaiting State = iota
	// StateRunning counts down and accepts submissions.
	StateRunning
	// StateFinished rejects input until Restart.
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// FeedbackKind classifies a submission.
type FeedbackKind int

const (
	FeedbackIgnored FeedbackKind = iota
	FeedbackCorrect
	FeedbackIncorrect
)

// Feedback describes the outcome of a submission.
type Feedback struct {
	Kind  FeedbackKind
	Word  string
	Typed string
}

// Message returns the text shown to the user for this feedback.
func (f Feedback) Message() string {
	if f.Kind == FeedbackIncorrect {
		return fmt.Sprintf("Error! It was: %s", f.Word)
	}
	return ""
}

// Options configures a Controller.
type Options struct {
	// Duration is the trial length in seconds. Zero uses timer.DefaultDuration.
	Duration int
	// RevealDelay is how long a mistyped word stays visible before the next one.
	// Zero advances immediately.
	RevealDelay time.Duration
	// Clock feeds the score tracker. Nil uses time.Now.
	Clock func() time.Time
	// NewID names trials. Nil uses random UUIDs.
	NewID  func() string
	Logger zerolog.Logger
}

// Controller owns one trial at a time.
type Controller struct {
	source    WordSource
	scheduler timer.Scheduler
	display   Display
	opts      Options
	log       zerolog.Logger

	trialID   string
	tracker   *score.Tracker
	countdown *timer.Countdown
	state     State
	word      string

	revealing bool
	reveal    timer.CancelHandle

	results []model.Result
}

// New returns a Controller. Call Begin to present the first word.
func New(source WordSource, scheduler timer.Scheduler, display Display, opts Options) *Controller {
	if opts.Duration <= 0 {
		opts.Duration = timer.DefaultDuration
	}
	if opts.RevealDelay < 0 {
		opts.RevealDelay = 0
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return &Controller{
		source:    source,
		scheduler: scheduler,
		display:   display,
		opts:      opts,
		log:       opts.Logger,
	}
}

// Begin discards the current trial and prepares a fresh one.
func (c *Controller) Begin() {
	if c.countdown != nil {
		c.countdown.Stop()
	}
	c.cancelReveal()

	c.trialID = c.opts.NewID()
	c.tracker = score.NewWithClock(c.opts.Clock)
	c.countdown = timer.New(c.opts.Duration, c.scheduler, c, c)
	c.state = StateWaiting

	c.display.ShowTimeLeft(c.countdown.Duration())
	c.nextWord()
	c.log.Debug().Str("trial", c.trialID).Int("duration", c.opts.Duration).Msg("trial ready")
}

// Restart abandons the current trial, finished or not, and begins a new one.
func (c *Controller) Restart() {
	if c.state == StateRunning {
		c.log.Info().Str("trial", c.trialID).Msg("trial abandoned")
	}
	c.Begin()
}

// Stop halts the countdown and any pending reveal without producing a result.
func (c *Controller) Stop() {
	if c.countdown != nil {
		c.countdown.Stop()
	}
	c.cancelReveal()
}

// Keystroke starts the trial on the first key press. Later calls do nothing.
func (c *Controller) Keystroke() {
	if c.state != StateWaiting {
		return
	}
	c.state = StateRunning
	c.tracker.Start()
	c.countdown.Start()
	c.log.Info().Str("trial", c.trialID).Msg("trial started")
}

// Submit checks text against the current word. Blank input, input after
// expiry and input while a mistyped word is revealed are ignored.
func (c *Controller) Submit(text string) Feedback {
	typed := strings.TrimSpace(text)
	if typed == "" || c.state == StateFinished || c.revealing {
		return Feedback{Kind: FeedbackIgnored, Word: c.word, Typed: typed}
	}
	c.Keystroke()

	if typed == c.word {
		fb := Feedback{Kind: FeedbackCorrect, Word: c.word, Typed: typed}
		c.tracker.RecordCorrect(c.word)
		c.display.ShowFeedback(fb)
		c.nextWord()
		return fb
	}

	fb := Feedback{Kind: FeedbackIncorrect, Word: c.word, Typed: typed}
	c.tracker.RecordIncorrect()
	c.display.ShowFeedback(fb)
	if c.opts.RevealDelay == 0 {
		c.nextWord()
		return fb
	}
	c.revealing = true
	id := c.trialID
	c.reveal = c.scheduler.ScheduleOnce(c.opts.RevealDelay, func() {
		if id != c.trialID || !c.revealing {
			return
		}
		c.revealing = false
		if c.state == StateRunning {
			c.nextWord()
		}
	})
	return fb
}

// OnTick implements timer.TickListener.
func (c *Controller) OnTick(timeLeft int) {
	c.display.ShowTimeLeft(timeLeft)
}

// OnExpire implements timer.ExpireListener.
func (c *Controller) OnExpire() {
	c.cancelReveal()
	c.tracker.End()
	c.state = StateFinished
	c.display.ShowTimeLeft(0)

	res := c.tracker.Snapshot(c.trialID)
	c.results = append(c.results, res)
	c.display.ShowResult(res)
	c.log.Info().
		Str("trial", c.trialID).
		Int("correct", res.CorrectWords).
		Int("incorrect", res.IncorrectWords).
		Float64("wpm", res.WPM).
		Float64("cpm", res.CPM).
		Float64("accuracy", res.Accuracy).
		Msg("trial finished")
}

// Warn surfaces a non-fatal problem to the user and the log.
func (c *Controller) Warn(err error) {
	if err == nil {
		return
	}
	c.log.Warn().Err(err).Msg("degraded trial")
	c.display.ShowWarning(err.Error())
}

// State returns the trial state.
func (c *Controller) State() State { return c.state }

// Word returns the word currently shown.
func (c *Controller) Word() string { return c.word }

// TrialID returns the current trial id.
func (c *Controller) TrialID() string { return c.trialID }

// Revealing reports whether a mistyped word is being shown.
func (c *Controller) Revealing() bool { return c.revealing }

// TimeLeft returns the remaining seconds of the current trial.
func (c *Controller) TimeLeft() int {
	if c.countdown == nil {
		return c.opts.Duration
	}
	return c.countdown.TimeLeft()
}

// Tracker exposes the live score of the current trial.
func (c *Controller) Tracker() *score.Tracker { return c.tracker }

// Results returns every finished trial, oldest first.
func (c *Controller) Results() []model.Result {
	out := make([]model.Result, len(c.results))
	copy(out, c.results)
	return out
}

func (c *Controller) nextWord() {
	c.word = c.source.NextWord()
	c.display.ShowWord(c.word)
}

func (c *Controller) cancelReveal() {
	if !c.revealing {
		return
	}
	c.scheduler.Cancel(c.reveal)
	c.revealing = false
}
