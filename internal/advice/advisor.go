// Package advice turns focus logs into a natural-language tip.
package advice

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/tuifocus/internal/model"
	"github.com/verte-zerg/tuifocus/internal/stats"
)

// User-facing messages returned instead of generated advice.
const (
	InsufficientDataMessage = "Not enough data for advice yet. Complete a focus session first."
	FallbackMessage         = "Sorry, advice is unavailable right now. Check your connection or API key and try again."
)

const promptHeader = `Based on the focus session data below, give me concise, actionable advice to improve my focus.
Structure it as an encouraging headline followed by 3-4 bullet points. Format the answer in Markdown.

My data:
`

// Advisor produces advice text and never fails; errors become FallbackMessage.
type Advisor struct {
	gen    Generator
	errOut io.Writer
}

// NewAdvisor returns an Advisor. A nil gen always yields FallbackMessage.
func NewAdvisor(gen Generator) *Advisor {
	return &Advisor{gen: gen, errOut: os.Stderr}
}

// SetErrorOutput redirects failure logging. A nil w silences it.
func (a *Advisor) SetErrorOutput(w io.Writer) {
	a.errOut = w
}

// Advise returns a tip for logs.
func (a *Advisor) Advise(ctx context.Context, logs []model.FocusLog) string {
	prompt := BuildPrompt(logs)
	if prompt == "" {
		return InsufficientDataMessage
	}
	if a.gen == nil {
		a.logf("advice unavailable: %v\n", ErrNoAPIKey)
		return FallbackMessage
	}
	text, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		a.logf("failed to fetch advice: %v\n", err)
		return FallbackMessage
	}
	return text
}

// BuildPrompt describes the logs per activity. It returns "" when logs is empty.
func BuildPrompt(logs []model.FocusLog) string {
	summaries := stats.SummarizeByActivity(logs)
	if len(summaries) == 0 {
		return ""
	}
	lines := make([]string, 0, len(summaries))
	for _, s := range summaries {
		factors := make([]string, 0, len(s.Factors))
		for _, f := range s.Factors {
			factors = append(factors, fmt.Sprintf("%s (%s)", f.Factor.Label(), times(f.Count)))
		}
		lines = append(lines, fmt.Sprintf("During %s, my focus was broken by: %s.",
			strings.ToLower(s.Activity.Label()), strings.Join(factors, ", ")))
	}
	return promptHeader + strings.Join(lines, "\n")
}

func times(n int) string {
	if n == 1 {
		return "1 time"
	}
	return fmt.Sprintf("%d times", n)
}

func (a *Advisor) logf(format string, args ...any) {
	if a.errOut == nil {
		return
	}
	if _, err := fmt.Fprintf(a.errOut, format, args...); err != nil {
		// Best-effort logging.
		_ = err
	}
}
