package trial

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/timer/timertest"
)

type cycleSource struct {
	words []string
	next  int
}

func (s *cycleSource) NextWord() string {
	w := s.words[s.next%len(s.words)]
	s.next++
	return w
}

type fakeDisplay struct {
	words    []string
	times    []int
	feedback []Feedback
	results  []model.Result
	warnings []string
}

func (d *fakeDisplay) ShowWord(word string)        { d.words = append(d.words, word) }
func (d *fakeDisplay) ShowTimeLeft(seconds int)    { d.times = append(d.times, seconds) }
func (d *fakeDisplay) ShowFeedback(fb Feedback)    { d.feedback = append(d.feedback, fb) }
func (d *fakeDisplay) ShowResult(res model.Result) { d.results = append(d.results, res) }
func (d *fakeDisplay) ShowWarning(msg string)      { d.warnings = append(d.warnings, msg) }

func (d *fakeDisplay) lastTime() int {
	return d.times[len(d.times)-1]
}

type harness struct {
	ctrl    *Controller
	sched   *timertest.Scheduler
	display *fakeDisplay
	source  *cycleSource
}

func newHarness(t *testing.T, duration int, reveal time.Duration, words ...string) *harness {
	t.Helper()
	sched := timertest.New()
	display := &fakeDisplay{}
	source := &cycleSource{words: words}
	base := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	ids := 0
	ctrl := New(source, sched, display, Options{
		Duration:    duration,
		RevealDelay: reveal,
		Clock:       func() time.Time { return base.Add(sched.Now()) },
		NewID: func() string {
			ids++
			return fmt.Sprintf("trial-%d", ids)
		},
		Logger: zerolog.Nop(),
	})
	ctrl.Begin()
	return &harness{ctrl: ctrl, sched: sched, display: display, source: source}
}

func TestBeginShowsWordAndDuration(t *testing.T) {
	h := newHarness(t, 60, time.Second, "cat", "dog")
	if h.ctrl.State() != StateWaiting {
		t.Fatalf("expected waiting, got %s", h.ctrl.State())
	}
	if len(h.display.words) != 1 || h.display.words[0] != "cat" || h.ctrl.Word() != "cat" {
		t.Fatalf("unexpected words shown: %v", h.display.words)
	}
	if h.display.lastTime() != 60 {
		t.Fatalf("expected 60 seconds shown, got %v", h.display.times)
	}
	if h.sched.Pending() != 0 {
		t.Fatalf("timer must not start before the first keystroke")
	}
}

func TestKeystrokeStartsCountdown(t *testing.T) {
	h := newHarness(t, 60, time.Second, "cat")
	h.ctrl.Keystroke()
	h.ctrl.Keystroke()
	if h.ctrl.State() != StateRunning {
		t.Fatalf("expected running, got %s", h.ctrl.State())
	}
	if !h.ctrl.Tracker().Started() {
		t.Fatalf("expected tracker to be started")
	}
	if h.sched.Pending() != 1 {
		t.Fatalf("expected one pending tick, got %d", h.sched.Pending())
	}
	h.sched.Advance(2 * time.Second)
	if h.display.lastTime() != 58 || h.ctrl.TimeLeft() != 58 {
		t.Fatalf("expected 58 seconds left, got %v", h.display.times)
	}
}

func TestSubmitCorrectAdvances(t *testing.T) {
	h := newHarness(t, 60, time.Second, "cat", "dog")
	h.ctrl.Keystroke()
	fb := h.ctrl.Submit("  cat ")
	if fb.Kind != FeedbackCorrect || fb.Word != "cat" {
		t.Fatalf("unexpected feedback %+v", fb)
	}
	if fb.Message() != "" {
		t.Fatalf("expected no message for a correct word, got %q", fb.Message())
	}
	if h.ctrl.Word() != "dog" {
		t.Fatalf("expected next word dog, got %q", h.ctrl.Word())
	}
	tr := h.ctrl.Tracker()
	if tr.CorrectWords() != 1 || tr.CorrectChars() != 3 || tr.TotalWords() != 1 {
		t.Fatalf("unexpected counters %d/%d/%d", tr.CorrectWords(), tr.CorrectChars(), tr.TotalWords())
	}
}

func TestSubmitStartsTrialWithoutKeystroke(t *testing.T) {
	h := newHarness(t, 60, time.Second, "cat")
	h.ctrl.Submit("cat")
	if h.ctrl.State() != StateRunning {
		t.Fatalf("expected running after submit, got %s", h.ctrl.State())
	}
}

func TestSubmitBlankIgnored(t *testing.T) {
	h := newHarness(t, 60, time.Second, "cat")
	if fb := h.ctrl.Submit("   "); fb.Kind != FeedbackIgnored {
		t.Fatalf("expected blank submission to be ignored, got %+v", fb)
	}
	if h.ctrl.State() != StateWaiting || h.ctrl.Tracker().TotalWords() != 0 {
		t.Fatalf("blank submission changed the trial")
	}
}

func TestSubmitIncorrectRevealsThenAdvances(t *testing.T) {
	h := newHarness(t, 60, time.Second, "cat", "dog")
	h.ctrl.Keystroke()
	fb := h.ctrl.Submit("cta")
	if fb.Kind != FeedbackIncorrect || fb.Message() != "Error! It was: cat" {
		t.Fatalf("unexpected feedback %+v", fb)
	}
	if !h.ctrl.Revealing() || h.ctrl.Word() != "cat" {
		t.Fatalf("expected the mistyped word to stay on screen")
	}
	if again := h.ctrl.Submit("cat"); again.Kind != FeedbackIgnored {
		t.Fatalf("expected submission during reveal to be ignored, got %+v", again)
	}

	h.sched.Advance(999 * time.Millisecond)
	if h.ctrl.Word() != "cat" {
		t.Fatalf("advanced before the reveal delay")
	}
	h.sched.Advance(time.Millisecond)
	if h.ctrl.Revealing() || h.ctrl.Word() != "dog" {
		t.Fatalf("expected next word after reveal, got %q", h.ctrl.Word())
	}
	tr := h.ctrl.Tracker()
	if tr.IncorrectWords() != 1 || tr.TotalWords() != 1 || tr.CorrectWords() != 0 {
		t.Fatalf("unexpected counters after incorrect submission")
	}
}

func TestSubmitIncorrectWithoutRevealDelay(t *testing.T) {
	h := newHarness(t, 60, 0, "cat", "dog")
	h.ctrl.Submit("x")
	if h.ctrl.Revealing() || h.ctrl.Word() != "dog" {
		t.Fatalf("expected immediate advance, got %q", h.ctrl.Word())
	}
}

func TestExpiryProducesResult(t *testing.T) {
	h := newHarness(t, 3, time.Second, "cat")
	h.ctrl.Keystroke()
	for i := 0; i < 3; i++ {
		h.ctrl.Submit("cat")
	}
	h.sched.Advance(3 * time.Second)

	if h.ctrl.State() != StateFinished {
		t.Fatalf("expected finished, got %s", h.ctrl.State())
	}
	if len(h.display.results) != 1 {
		t.Fatalf("expected one result, got %d", len(h.display.results))
	}
	res := h.display.results[0]
	if res.TrialID != "trial-1" {
		t.Fatalf("unexpected trial id %q", res.TrialID)
	}
	if res.CorrectWords != 3 || res.CorrectChars != 9 || res.TotalWords != 3 {
		t.Fatalf("unexpected counters %+v", res)
	}
	if math.Abs(res.WPM-60) > 1e-9 || math.Abs(res.CPM-180) > 1e-9 || res.Accuracy != 100 {
		t.Fatalf("unexpected metrics %+v", res)
	}
	if got := h.display.times; got[len(got)-1] != 0 || got[len(got)-2] != 1 {
		t.Fatalf("unexpected time updates %v", got)
	}
	if fb := h.ctrl.Submit("cat"); fb.Kind != FeedbackIgnored {
		t.Fatalf("expected submissions after expiry to be ignored")
	}
	if h.ctrl.Tracker().TotalWords() != 3 {
		t.Fatalf("tracker changed after expiry")
	}
	if results := h.ctrl.Results(); len(results) != 1 || results[0] != res {
		t.Fatalf("unexpected controller results %+v", results)
	}
}

func TestExpiryCancelsReveal(t *testing.T) {
	h := newHarness(t, 3, time.Second, "cat", "dog")
	h.ctrl.Keystroke()
	h.sched.Advance(2500 * time.Millisecond)
	h.ctrl.Submit("oops")
	h.sched.Advance(500 * time.Millisecond)

	if h.ctrl.State() != StateFinished {
		t.Fatalf("expected finished, got %s", h.ctrl.State())
	}
	if h.ctrl.Revealing() {
		t.Fatalf("expected reveal cancelled on expiry")
	}
	shown := len(h.display.words)
	h.sched.Advance(5 * time.Second)
	if len(h.display.words) != shown {
		t.Fatalf("a word was shown after expiry: %v", h.display.words)
	}
	if h.sched.Pending() != 0 {
		t.Fatalf("expected nothing pending, got %d", h.sched.Pending())
	}
}

func TestRestartMidTrialDiscardsOldTimer(t *testing.T) {
	h := newHarness(t, 3, time.Second, "cat")
	h.ctrl.Keystroke()
	h.ctrl.Submit("cat")
	h.sched.Advance(2 * time.Second)
	h.ctrl.Restart()

	if h.ctrl.State() != StateWaiting || h.ctrl.TrialID() != "trial-2" {
		t.Fatalf("expected fresh waiting trial, got %s %s", h.ctrl.State(), h.ctrl.TrialID())
	}
	if h.ctrl.Tracker().TotalWords() != 0 {
		t.Fatalf("expected a fresh tracker")
	}
	if h.ctrl.TimeLeft() != 3 {
		t.Fatalf("expected full duration, got %d", h.ctrl.TimeLeft())
	}
	h.sched.Advance(10 * time.Second)
	if len(h.display.results) != 0 {
		t.Fatalf("abandoned trial produced a result")
	}

	h.ctrl.Keystroke()
	h.sched.Advance(3 * time.Second)
	if len(h.display.results) != 1 || h.display.results[0].TrialID != "trial-2" {
		t.Fatalf("expected one result for the new trial, got %+v", h.display.results)
	}
}

func TestRestartCancelsReveal(t *testing.T) {
	h := newHarness(t, 60, time.Second, "cat", "dog", "bird")
	h.ctrl.Submit("nope")
	h.ctrl.Restart()
	if h.ctrl.Revealing() {
		t.Fatalf("expected reveal to be cancelled")
	}
	word := h.ctrl.Word()
	h.sched.Advance(2 * time.Second)
	if h.ctrl.Word() != word {
		t.Fatalf("stale reveal advanced the new trial")
	}
}

func TestResultsAccumulate(t *testing.T) {
	h := newHarness(t, 1, time.Second, "cat")
	for i := 0; i < 3; i++ {
		h.ctrl.Keystroke()
		h.sched.Advance(time.Second)
		h.ctrl.Restart()
	}
	results := h.ctrl.Results()
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].TrialID != "trial-1" || results[2].TrialID != "trial-3" {
		t.Fatalf("unexpected order %+v", results)
	}
}

func TestStopHaltsEverything(t *testing.T) {
	h := newHarness(t, 3, time.Second, "cat")
	h.ctrl.Keystroke()
	h.ctrl.Submit("x")
	h.ctrl.Stop()
	if h.sched.Pending() != 0 {
		t.Fatalf("expected nothing pending after stop, got %d", h.sched.Pending())
	}
}

func TestWarn(t *testing.T) {
	h := newHarness(t, 3, time.Second, "cat")
	h.ctrl.Warn(nil)
	h.ctrl.Warn(errors.New("word list missing"))
	if len(h.display.warnings) != 1 || h.display.warnings[0] != "word list missing" {
		t.Fatalf("unexpected warnings %v", h.display.warnings)
	}
}

func TestDefaultsApplied(t *testing.T) {
	ctrl := New(&cycleSource{words: []string{"cat"}}, timertest.New(), &fakeDisplay{}, Options{})
	ctrl.Begin()
	if ctrl.TimeLeft() != 60 {
		t.Fatalf("expected default duration, got %d", ctrl.TimeLeft())
	}
	if len(ctrl.TrialID()) != 36 {
		t.Fatalf("expected uuid trial id, got %q", ctrl.TrialID())
	}
}
