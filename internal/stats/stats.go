// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/tuifocus/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline scaled to [0, maxVal].
// A non-positive maxVal scales to the largest value.
func Sparkline(values []float64, maxVal float64) string {
	if len(values) == 0 {
		return ""
	}
	if maxVal <= 0 {
		for _, v := range values {
			maxVal = math.Max(maxVal, v)
		}
	}
	if maxVal <= 0 {
		return strings.Repeat(string(sparkChars[0]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round(v / maxVal * float64(len(sparkChars)-1)))
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

// RenderSummary prints the headline numbers for a set of logs.
func RenderSummary(w io.Writer, logs []model.FocusLog) error {
	if len(logs) == 0 {
		_, err := fmt.Fprintln(w, "No focus logs found. Start a session to collect data.")
		return err
	}
	intervals := IntervalCount(logs)
	total := TotalDistractions(logs)
	lines := []string{
		"Summary",
		fmt.Sprintf("Intervals completed: %d", intervals),
		fmt.Sprintf("Distractions: %d", total),
		fmt.Sprintf("Avg per interval: %.2f", float64(total)/float64(intervals)),
	}
	if factors := FactorCounts(logs); len(factors) > 0 {
		lines = append(lines, fmt.Sprintf("Top factor: %s", factors[0].Factor.Label()))
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderActivityTable prints distraction totals per activity.
func RenderActivityTable(w io.Writer, logs []model.FocusLog) error {
	totals := DistractionsByActivity(logs)
	if len(totals) == 0 {
		_, err := fmt.Fprintln(w, "No activity stats found.")
		return err
	}
	headers := []string{"Activity", "Check-ins", "Distractions", "Avg"}
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			t.Activity.Label(),
			fmt.Sprintf("%d", t.Checkins),
			fmt.Sprintf("%d", t.Distractions),
			fmt.Sprintf("%.2f", float64(t.Distractions)/float64(t.Checkins)),
		})
	}
	return writeTable(w, "Distractions by Activity", headers, rows, map[int]bool{1: true, 2: true, 3: true})
}

// RenderFactorTable prints how often each factor was named.
func RenderFactorTable(w io.Writer, logs []model.FocusLog) error {
	counts := FactorCounts(logs)
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "No distraction factors recorded.")
		return err
	}
	total := IntervalCount(logs)
	headers := []string{"Factor", "Count", "Share"}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{
			c.Factor.Label(),
			fmt.Sprintf("%d", c.Count),
			fmt.Sprintf("%.1f%%", float64(c.Count)/float64(total)*100),
		})
	}
	return writeTable(w, "Distraction Factors", headers, rows, map[int]bool{1: true, 2: true})
}

// RenderTrend plots per-check-in distraction counts with a moving average.
func RenderTrend(w io.Writer, logs []model.FocusLog, window, totalWidth, height int, useColor bool) error {
	if len(logs) == 0 {
		return nil
	}
	series := DistractionSeries(logs)
	return PlotColumns(w, "Distraction Trend", []Series{
		{Name: "Distractions", Values: series},
		{Name: fmt.Sprintf("Avg(%d)", window), Values: MovingAverage(series, window)},
	}, model.MaxDistractionCount, PlotWidthFor(totalWidth), height, useColor)
}

func writeTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderLogTable prints one row per check-in, oldest first.
func RenderLogTable(w io.Writer, logs []model.FocusLog) error {
	if len(logs) == 0 {
		_, err := fmt.Fprintln(w, "No focus logs found.")
		return err
	}
	headers := []string{"Time", "Activity", "Distractions", "Factor"}
	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.Timestamp.Local().Format("2006-01-02 15:04"),
			l.Activity.Label(),
			fmt.Sprintf("%d", l.DistractionCount),
			l.DistractionFactor.Label(),
		})
	}
	return writeTable(w, "Focus Logs", headers, rows, map[int]bool{2: true})
}
