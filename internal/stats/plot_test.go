package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestPlotColumns(t *testing.T) {
	var buf bytes.Buffer
	err := PlotColumns(&buf, "Test Plot", []Series{
		{Name: "A", Values: []float64{0, 5, 2}},
		{Name: "B", Values: []float64{0, 2.5, 2.3}},
	}, 5, 12, 4, false)
	if err != nil {
		t.Fatalf("PlotColumns failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Test Plot" {
		t.Fatalf("expected title, got %q", lines[0])
	}
	if len(lines) != 1+4+1 {
		t.Fatalf("expected 6 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "5 │ ") || !strings.Contains(lines[1], "█") {
		t.Fatalf("expected full column on top row: %q", lines[1])
	}
	if !strings.HasPrefix(lines[4], "0 │ ") {
		t.Fatalf("expected zero label on bottom row: %q", lines[4])
	}
	if !strings.Contains(lines[5], "Legend: █ A  · B") {
		t.Fatalf("unexpected legend: %q", lines[5])
	}
}

func TestPlotColumnsKeepsMostRecent(t *testing.T) {
	values := make([]float64, 30)
	values[29] = 5
	var buf bytes.Buffer
	if err := PlotColumns(&buf, "", []Series{{Name: "A", Values: values}}, 5, 10, 2, false); err != nil {
		t.Fatalf("PlotColumns failed: %v", err)
	}
	top := strings.Split(buf.String(), "\n")[0]
	if !strings.HasSuffix(top, "█") {
		t.Fatalf("expected last value in last column: %q", top)
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 76 {
		t.Fatalf("expected width 76, got %d", got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestSparklineFixedScale(t *testing.T) {
	if got := Sparkline([]float64{0, 5}, 5); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 0}, 0); got != "  " {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}
