// Package stats summarizes the trials finished during this run.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/wordsprint/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates finished trials.
type Summary struct {
	Trials      int
	BestWPM     float64
	AvgWPM      float64
	AvgCPM      float64
	AvgAccuracy float64
	Correct     int
	Incorrect   int
}

// Summarize aggregates results. An empty slice yields a zero Summary.
func Summarize(results []model.Result) Summary {
	if len(results) == 0 {
		return Summary{}
	}
	var s Summary
	var totalWPM, totalCPM, totalAcc float64
	for _, r := range results {
		totalWPM += r.WPM
		totalCPM += r.CPM
		totalAcc += r.Accuracy
		if r.WPM > s.BestWPM {
			s.BestWPM = r.WPM
		}
		s.Correct += r.CorrectWords
		s.Incorrect += r.IncorrectWords
	}
	count := float64(len(results))
	s.Trials = len(results)
	s.AvgWPM = totalWPM / count
	s.AvgCPM = totalCPM / count
	s.AvgAccuracy = totalAcc / count
	return s
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a per-trial table followed by aggregate lines.
// width limits the sparkline; zero or less means no limit.
func RenderSummary(w io.Writer, results []model.Result, width int) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No trials finished.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Session"); err != nil {
		return err
	}

	headers := []string{"#", "Time", "WPM", "CPM", "Accuracy", "Correct", "Incorrect"}
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			formatDuration(r.EndedAt.Sub(r.StartedAt)),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f", r.CPM),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%d", r.CorrectWords),
			fmt.Sprintf("%d", r.IncorrectWords),
		})
	}
	rightAlign := map[int]bool{0: true, 1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	s := Summarize(results)
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best WPM: %.1f\n", s.BestWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg WPM: %.1f\n", s.AvgWPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg CPM: %.1f\n", s.AvgCPM); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Accuracy: %.1f%%\n", s.AvgAccuracy); err != nil {
		return err
	}
	if len(results) > 1 {
		const label = "WPM trend: "
		values := wpmSeries(results)
		if width > 0 {
			if room := width - len(label); room > 0 && len(values) > room {
				values = values[len(values)-room:]
			}
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", label, Sparkline(values)); err != nil {
			return err
		}
	}
	return nil
}

func wpmSeries(results []model.Result) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.WPM
	}
	return out
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
