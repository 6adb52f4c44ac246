// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

const (
	defaultPlotHeight   = 6
	minPlotWidth        = 10
	axisSeparator       = " │ "
	overlayRune         = '·'
	colorReset          = "\x1b[0m"
	columnColor         = "\x1b[36m"
	overlayColor        = "\x1b[33m"
	terminalWidthBackup = 80
)

// Eighth-block glyphs from empty to full.
var columnBlocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// PlotColumns renders the first series as a column chart on a fixed [0, maxVal]
// scale and overlays the second series, if any, as dots. Only the most recent
// width values are shown.
func PlotColumns(w io.Writer, title string, series []Series, maxVal float64, width, height int, useColor bool) error {
	if len(series) == 0 || len(series[0].Values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = autoPlotWidth()
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	useColor = shouldUseColor(w, useColor)

	columns := tail(series[0].Values, width)
	var overlay []float64
	if len(series) > 1 {
		overlay = tail(series[1].Values, width)
	}

	topLabel := formatAxisValue(maxVal)
	axisWidth := runewidth.StringWidth(topLabel)

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		fromBottom := height - 1 - y
		label := ""
		switch fromBottom {
		case height - 1:
			label = topLabel
		case 0:
			label = "0"
		}
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", axisWidth, label, axisSeparator))
		for x, v := range columns {
			ch := columnRune(v, maxVal, height, fromBottom)
			color := columnColor
			if ch == ' ' && x < len(overlay) && overlayRow(overlay[x], maxVal, height) == fromBottom {
				ch = overlayRune
				color = overlayColor
			}
			if useColor && ch != ' ' {
				row.WriteString(color)
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(row.String(), " ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, renderLegend(series)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func columnRune(v, maxVal float64, height, fromBottom int) rune {
	eighths := int(math.Round(v / maxVal * float64(height*8)))
	fill := eighths - fromBottom*8
	switch {
	case fill <= 0:
		return columnBlocks[0]
	case fill >= 8:
		return columnBlocks[8]
	default:
		return columnBlocks[fill]
	}
}

func overlayRow(v, maxVal float64, height int) int {
	row := int(math.Round(v / maxVal * float64(height-1)))
	if row < 0 {
		return 0
	}
	if row >= height {
		return height - 1
	}
	return row
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func formatAxisValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func renderLegend(series []Series) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		marker := string(columnBlocks[8])
		if i > 0 {
			marker = string(overlayRune)
		}
		parts = append(parts, marker+" "+s.Name)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func autoPlotWidth() int {
	return PlotWidthFor(terminalWidth())
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	plotWidth := totalWidth - len("5") - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
