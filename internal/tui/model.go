// Package tui provides the Bubble Tea focus session interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/tuifocus/internal/model"
	"github.com/verte-zerg/tuifocus/internal/session"
	statsPkg "github.com/verte-zerg/tuifocus/internal/stats"
)

const (
	bellRings    = 3
	bellInterval = 700 * time.Millisecond
	maxBarWidth  = 60
)

// LogSink persists an ended session.
type LogSink interface {
	InsertSession(ctx context.Context, rec model.SessionRecord, logs []model.FocusLog) error
}

// Result describes how the session ended.
type Result struct {
	Record  model.SessionRecord
	Logs    []model.FocusLog
	SaveErr error
}

// Options tunes the session UI.
type Options struct {
	Bell bool
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

type tickMsg struct{}

type bellMsg struct {
	remaining int
}

// Model implements the Bubble Tea session UI around a session.Machine.
type Model struct {
	machine   *session.Machine
	sink      LogSink
	opts      Options
	sessionID string
	startedAt time.Time

	width  int
	height int

	totalBar    progress.Model
	intervalBar progress.Model

	// Check-in form state.
	count     int
	factorIdx int

	result *Result
}

var (
	activityStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	clockStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#C89A3A")).Bold(true)
	optionStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	modalStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#C89A3A")).Padding(1, 2)
	modalTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
)

// NewModel constructs a session model for a validated config.
func NewModel(cfg model.SessionConfig, sink LogSink, opts Options) *Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	m := &Model{
		machine:     session.New(cfg, session.WithClock(opts.Now)),
		sink:        sink,
		opts:        opts,
		sessionID:   uuid.New().String(),
		startedAt:   opts.Now(),
		totalBar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		intervalBar: progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage()),
	}
	m.resetCheckin()
	return m
}

// Result returns the outcome once the session has ended, or nil.
func (m *Model) Result() *Result {
	return m.result
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 8
		if barWidth > maxBarWidth {
			barWidth = maxBarWidth
		}
		if barWidth < 10 {
			barWidth = 10
		}
		m.totalBar.Width = barWidth
		m.intervalBar.Width = barWidth
		return m, nil
	case tickMsg:
		return m.apply(session.Tick{})
	case bellMsg:
		ringBell()
		if msg.remaining > 1 && m.machine.State() == session.AwaitingCheckin {
			return m, tea.Tick(bellInterval, func(time.Time) tea.Msg {
				return bellMsg{remaining: msg.remaining - 1}
			})
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "x":
		return m.apply(session.EndRequested{})
	}
	if m.machine.State() != session.AwaitingCheckin {
		return m, nil
	}
	switch key := msg.String(); key {
	case "0", "1", "2", "3", "4", "5":
		m.count = int(key[0] - '0')
	case "left", "h":
		if m.count > 0 {
			m.count--
		}
	case "right", "l":
		if m.count < model.MaxDistractionCount {
			m.count++
		}
	case "up", "k", "shift+tab":
		m.factorIdx = (m.factorIdx + len(model.DistractionFactors) - 1) % len(model.DistractionFactors)
	case "down", "j", "tab":
		m.factorIdx = (m.factorIdx + 1) % len(model.DistractionFactors)
	case "enter":
		return m.apply(session.CheckinSubmitted{
			DistractionCount: m.count,
			Factor:           model.DistractionFactors[m.factorIdx],
		})
	}
	return m, nil
}

// apply feeds one event to the machine and schedules whatever comes next.
func (m *Model) apply(ev session.Event) (tea.Model, tea.Cmd) {
	out, err := m.machine.Apply(ev)
	if err != nil {
		logErrf("ignored session event: %v\n", err)
		return m, nil
	}
	if out.Finished() {
		m.finish(out)
		return m, tea.Quit
	}
	switch {
	case out.From == session.Running && out.To == session.AwaitingCheckin:
		m.resetCheckin()
		if m.opts.Bell {
			return m, bellCmd(bellRings)
		}
		return m, nil
	case out.To == session.Running && (out.From == session.AwaitingCheckin || isTick(ev)):
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) finish(out session.Outcome) {
	cfg := m.machine.Config()
	rec := model.SessionRecord{
		ID:                   m.sessionID,
		Activity:             cfg.Activity,
		StartedAt:            m.startedAt,
		EndedAt:              m.opts.Now(),
		TotalDurationSeconds: cfg.TotalDurationSeconds,
		CheckIntervalSeconds: cfg.CheckIntervalSeconds,
		ElapsedSeconds:       m.machine.Elapsed(),
		EndedEarly:           out.EndedEarly,
	}
	result := &Result{Record: rec, Logs: out.Emitted}
	if m.sink != nil {
		if err := m.sink.InsertSession(context.Background(), rec, out.Emitted); err != nil {
			logErrf("failed to save session: %v\n", err)
			result.SaveErr = err
		}
	}
	m.result = result
}

func (m *Model) resetCheckin() {
	m.count = 0
	m.factorIdx = 0
	for i, f := range model.DistractionFactors {
		if f == model.DefaultFactor {
			m.factorIdx = i
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.result != nil {
		return ""
	}
	var content string
	if m.machine.State() == session.AwaitingCheckin {
		content = m.renderCheckin()
	} else {
		content = m.renderTimer()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTimer() string {
	cfg := m.machine.Config()
	lines := []string{
		mutedStyle.Render("Focusing on"),
		activityStyle.Render(cfg.Activity.Label()),
		"",
		clockStyle.Render(formatClock(m.machine.TotalLeft())),
		mutedStyle.Render("time remaining"),
		m.totalBar.ViewAs(m.machine.TotalProgress()),
		"",
		mutedStyle.Render("Next check-in in " + formatClock(m.machine.IntervalLeft())),
		m.intervalBar.ViewAs(m.machine.IntervalProgress()),
	}
	logs := m.machine.Logs()
	if len(logs) > 0 {
		lines = append(lines, "",
			mutedStyle.Render("Trend ")+statsPkg.Sparkline(statsPkg.DistractionSeries(logs), model.MaxDistractionCount),
			mutedStyle.Render(formatFactorCounts(statsPkg.FactorCounts(logs))),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderCheckin() string {
	cfg := m.machine.Config()
	counts := make([]string, 0, model.MaxDistractionCount+1)
	for i := 0; i <= model.MaxDistractionCount; i++ {
		label := fmt.Sprintf(" %d ", i)
		if i == m.count {
			counts = append(counts, selectedStyle.Render(label))
		} else {
			counts = append(counts, optionStyle.Render(label))
		}
	}
	factors := make([]string, 0, len(model.DistractionFactors))
	for i, f := range model.DistractionFactors {
		if i == m.factorIdx {
			factors = append(factors, selectedStyle.Render("> "+f.Label()))
		} else {
			factors = append(factors, optionStyle.Render("  "+f.Label()))
		}
	}
	lines := []string{
		modalTitleStyle.Render("Focus check-in"),
		mutedStyle.Render(fmt.Sprintf("How was your focus during the last %s interval?", strings.ToLower(cfg.Activity.Label()))),
		"",
		"How many times did you lose focus?",
		strings.Join(counts, " "),
		"",
		"What distracted you most?",
		strings.Join(factors, "\n"),
		"",
		mutedStyle.Render("0-5 or ←/→: count  ↑/↓: factor  enter: record and continue"),
	}
	return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderFooter() string {
	logs := m.machine.Logs()
	segments := []string{
		fmt.Sprintf("Check-ins %d", statsPkg.IntervalCount(logs)),
		fmt.Sprintf("Distractions %d", statsPkg.TotalDistractions(logs)),
		"x: end early",
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func formatFactorCounts(counts []statsPkg.FactorCount) string {
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Factor.Label(), c.Count))
	}
	return strings.Join(parts, " · ")
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func bellCmd(remaining int) tea.Cmd {
	return func() tea.Msg {
		return bellMsg{remaining: remaining}
	}
}

func isTick(ev session.Event) bool {
	_, ok := ev.(session.Tick)
	return ok
}

func ringBell() {
	if _, err := fmt.Fprint(os.Stderr, "\a"); err != nil {
		// Best-effort bell.
		_ = err
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
