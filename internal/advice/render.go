package advice

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
)

// RenderMarkdown renders advice for the terminal, falling back to wrapped plain text.
func RenderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return ""
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return Wrap(content, width)
	}
	rendered, err := r.Render(content)
	if err != nil {
		return Wrap(content, width)
	}
	return strings.TrimRight(rendered, "\n")
}

// Wrap word-wraps plain text to width columns.
func Wrap(content string, width int) string {
	if width <= 0 {
		return content
	}
	return wordwrap.String(strings.TrimSpace(content), width)
}

// markdownStyle avoids glamour's terminal query, which races with a running Bubble Tea program.
func markdownStyle() string {
	if os.Getenv("NO_COLOR") != "" {
		return "notty"
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		return style
	}
	return "dark"
}
