// Package score tracks word counts and derives typing speed metrics.
package score

import (
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/wordsprint/internal/model"
)

// MinElapsedMinutes is the lower bound returned by ElapsedMinutes.
const MinElapsedMinutes = 1e-6

// Tracker accumulates the counters for a single trial.
type Tracker struct {
	now func() time.Time

	correctWords   int
	incorrectWords int
	totalWords     int
	correctChars   int

	startTime time.Time
	endTime   time.Time
}

// New returns a Tracker using the wall clock.
func New() *Tracker {
	return NewWithClock(time.Now)
}

// NewWithClock returns a Tracker reading time from now.
func NewWithClock(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now}
}

// Start records the start time. A later call overwrites an earlier one.
func (t *Tracker) Start() {
	t.startTime = t.now()
}

// End records the end time.
func (t *Tracker) End() {
	t.endTime = t.now()
}

// RecordCorrect counts a correctly typed word and its characters.
func (t *Tracker) RecordCorrect(word string) {
	t.correctWords++
	t.totalWords++
	t.correctChars += utf8.RuneCountInString(word)
}

// RecordIncorrect counts a mistyped word.
func (t *Tracker) RecordIncorrect() {
	t.incorrectWords++
	t.totalWords++
}

// CorrectWords returns the number of correct submissions.
func (t *Tracker) CorrectWords() int { return t.correctWords }

// IncorrectWords returns the number of incorrect submissions.
func (t *Tracker) IncorrectWords() int { return t.incorrectWords }

// TotalWords returns the number of submissions.
func (t *Tracker) TotalWords() int { return t.totalWords }

// CorrectChars returns the characters of correctly typed words.
func (t *Tracker) CorrectChars() int { return t.correctChars }

// Started reports whether Start has been called.
func (t *Tracker) Started() bool { return !t.startTime.IsZero() }

// Ended reports whether End has been called.
func (t *Tracker) Ended() bool { return !t.endTime.IsZero() }

// ElapsedMinutes returns the time between Start and End in minutes.
// Unset timestamps and tiny or negative spans yield MinElapsedMinutes.
func (t *Tracker) ElapsedMinutes() float64 {
	if !t.Started() || !t.Ended() {
		return MinElapsedMinutes
	}
	elapsed := t.endTime.Sub(t.startTime).Minutes()
	if elapsed < MinElapsedMinutes {
		return MinElapsedMinutes
	}
	return elapsed
}

// WPM returns correct words per elapsed minute.
func (t *Tracker) WPM() float64 {
	return float64(t.correctWords) / t.ElapsedMinutes()
}

// CPM returns correct characters per elapsed minute.
func (t *Tracker) CPM() float64 {
	return float64(t.correctChars) / t.ElapsedMinutes()
}

// Accuracy returns the percentage of correct submissions, or 0 when nothing was submitted.
func (t *Tracker) Accuracy() float64 {
	if t.totalWords == 0 {
		return 0
	}
	return float64(t.correctWords) / float64(t.totalWords) * 100
}

// Snapshot captures the current counters and metrics.
func (t *Tracker) Snapshot(trialID string) model.Result {
	return model.Result{
		TrialID:        trialID,
		StartedAt:      t.startTime,
		EndedAt:        t.endTime,
		CorrectWords:   t.correctWords,
		IncorrectWords: t.incorrectWords,
		TotalWords:     t.totalWords,
		CorrectChars:   t.correctChars,
		WPM:            t.WPM(),
		CPM:            t.CPM(),
		Accuracy:       t.Accuracy(),
	}
}
