// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/trial"
)

const (
	maxHistory   = 40
	inputWidth   = 32
	maxCharLimit = 64
)

var (
	correctStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	currentWordStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	historyCorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	historyIncorrectStyle = incorrectStyle.Strikethrough(true)
	footerStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	timerStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	warningStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cardStyle             = lipgloss.NewStyle().
				Padding(0, 2).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Model implements the Bubble Tea typing UI and the trial.Display boundary.
type Model struct {
	ctrl      *trial.Controller
	scheduler *teaScheduler

	input textinput.Model
	keys  keyMap
	help  help.Model

	width  int
	height int

	word     string
	timeLeft int
	feedback trial.Feedback
	history  []historyEntry
	result   *model.Result
	warning  string
}

// NewModel constructs a typing TUI model and prepares the first trial.
func NewModel(source trial.WordSource, cfg model.Config, logger zerolog.Logger) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type the word, press enter"
	input.CharLimit = maxCharLimit
	input.Width = inputWidth
	input.Focus()

	m := &Model{
		scheduler: newTeaScheduler(),
		input:     input,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	m.ctrl = trial.New(source, m.scheduler, m, trial.Options{
		Duration:    cfg.Duration,
		RevealDelay: cfg.RevealDelay,
		Logger:      logger,
	})
	m.ctrl.Begin()
	return m
}

// Warn shows a non-fatal problem above the input.
func (m *Model) Warn(err error) {
	m.ctrl.Warn(err)
}

// Results returns the trials finished so far.
func (m *Model) Results() []model.Result {
	return m.ctrl.Results()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.withScheduled(textinput.Blink)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	case fireMsg:
		m.scheduler.fire(msg.handle)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.ctrl.Stop()
			return m, tea.Quit
		}
		cmd = m.handleKey(msg)
	default:
		m.input, cmd = m.input.Update(msg)
	}
	return m, m.withScheduled(cmd)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Retry) {
		return m.restart()
	}
	if m.ctrl.State() == trial.StateFinished {
		if key.Matches(msg, m.keys.Submit) {
			return m.restart()
		}
		return nil
	}
	if m.ctrl.Revealing() {
		return nil
	}
	if key.Matches(msg, m.keys.Submit) {
		m.ctrl.Submit(m.input.Value())
		return nil
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.ctrl.Keystroke()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) restart() tea.Cmd {
	m.result = nil
	m.history = nil
	m.feedback = trial.Feedback{}
	m.ctrl.Restart()
	return m.input.Focus()
}

func (m *Model) withScheduled(cmd tea.Cmd) tea.Cmd {
	scheduled := m.scheduler.drain()
	if len(scheduled) == 0 {
		return cmd
	}
	return tea.Batch(append([]tea.Cmd{cmd}, scheduled...)...)
}

// ShowWord implements trial.Display.
func (m *Model) ShowWord(word string) {
	m.word = word
	m.feedback = trial.Feedback{}
	m.input.Reset()
}

// ShowTimeLeft implements trial.Display.
func (m *Model) ShowTimeLeft(seconds int) {
	m.timeLeft = seconds
}

// ShowFeedback implements trial.Display.
func (m *Model) ShowFeedback(fb trial.Feedback) {
	m.feedback = fb
	m.history = append(m.history, historyEntry{word: fb.Typed, correct: fb.Kind == trial.FeedbackCorrect})
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

// ShowResult implements trial.Display.
func (m *Model) ShowResult(res model.Result) {
	m.result = &res
	m.input.Blur()
}

// ShowWarning implements trial.Display.
func (m *Model) ShowWarning(msg string) {
	m.warning = msg
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if m.result != nil {
		body = m.renderResult(*m.result)
	} else {
		body = m.renderTrial()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	footerHeight := lipgloss.Height(footer)
	bodyHeight := m.height - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	placedBody := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	placedFooter := lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Bottom, footer)
	return placedBody + "\n" + placedFooter
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderTrial() string {
	lines := []string{timerStyle.Render(fmt.Sprintf("%ds", m.timeLeft)), ""}

	word := renderStyledRunes(buildWordRunes([]rune(m.word), []rune(m.input.Value())))
	lines = append(lines, word)
	if msg := m.feedback.Message(); msg != "" {
		lines = append(lines, incorrectStyle.Render(msg))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, m.input.View())

	if len(m.history) > 0 {
		lines = append(lines, "", wrapStyledRunes(buildHistoryRunes(m.history), m.contentWidth()))
	}
	if m.warning != "" {
		lines = append(lines, "", warningStyle.Render(m.warning))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderResult(res model.Result) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("WPM", fmt.Sprintf("%.1f", res.WPM)),
		renderCard("CPM", fmt.Sprintf("%.1f", res.CPM)),
		renderCard("Accuracy", fmt.Sprintf("%.1f%%", res.Accuracy)),
	)
	counts := footerStyle.Render(fmt.Sprintf("Correct %d · Incorrect %d", res.CorrectWords, res.IncorrectWords))
	lines := []string{timerStyle.Render("Time's up!"), "", cards, counts}
	if m.warning != "" {
		lines = append(lines, "", warningStyle.Render(m.warning))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func renderCard(title, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
		cardTitleStyle.Render(title),
		cardValueStyle.Render(value),
	))
}

func (m *Model) renderFooter() string {
	var segments []string
	switch m.ctrl.State() {
	case trial.StateWaiting:
		segments = append(segments, "Start typing to begin")
	case trial.StateRunning:
		tr := m.ctrl.Tracker()
		segments = append(segments, fmt.Sprintf("Correct %d", tr.CorrectWords()), fmt.Sprintf("Incorrect %d", tr.IncorrectWords()))
	case trial.StateFinished:
		segments = append(segments, "enter to try again")
	}
	if n := len(m.ctrl.Results()); n > 0 {
		segments = append(segments, fmt.Sprintf("Trials %d", n))
	}
	status := footerStyle.Render(strings.Join(segments, "  "))
	return lipgloss.JoinVertical(lipgloss.Center, status, m.help.View(m.keys))
}
