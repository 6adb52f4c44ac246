// Package statsui provides the Bubble Tea stats dashboard.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuifocus/internal/advice"
	"github.com/verte-zerg/tuifocus/internal/model"
	"github.com/verte-zerg/tuifocus/internal/stats"
)

const (
	tabOverview = iota
	tabActivities
	tabFactors
	tabTrend
	tabAdvice
)

const (
	plotHeight    = 8
	adviceTimeout = 30 * time.Second
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	factorBarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
)

// Advisor produces advice text for a set of logs.
type Advisor interface {
	Advise(ctx context.Context, logs []model.FocusLog) string
}

type adviceMsg struct {
	seq  int
	text string
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	src     stats.Source
	advisor Advisor
	cfg     model.StatsConfig

	report stats.Report
	errMsg string

	tabs          []string
	activeTab     int
	viewports     []viewport.Model
	activityTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	// adviceSeq invalidates replies fetched for an older report.
	adviceSeq     int
	adviceLoading bool
	adviceText    string
	spinner       spinner.Model
}

// NewModel constructs a stats UI model. A nil advisor disables the Advice tab content.
func NewModel(src stats.Source, advisor Advisor, cfg model.StatsConfig) *Model {
	m := &Model{
		src:     src,
		advisor: advisor,
		cfg:     cfg,
		tabs:    []string{"Overview", "Activities", "Factors", "Trend", "Advice"},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.initInputs()
	m.activityTable = buildActivityTable(nil, 80, 10)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case adviceMsg:
		if msg.seq != m.adviceSeq {
			return m, nil
		}
		m.adviceLoading = false
		m.adviceText = msg.text
		m.renderTabContents()
		return m, nil
	case spinner.TickMsg:
		if !m.adviceLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.renderTabContents()
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.activeTab == tabActivities {
			m.activityTable.Focus()
		} else {
			m.activityTable.Blur()
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			return m, tea.Batch(m.moveTab(-1), tea.ClearScreen)
		case "right", "l":
			return m, tea.Batch(m.moveTab(1), tea.ClearScreen)
		case "=":
			m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "r":
			if m.activeTab == tabAdvice {
				return m, m.fetchAdvice()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabActivities {
				m.activityTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabActivities {
				m.activityTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabActivities {
				var cmd tea.Cmd
				m.activityTable, cmd = m.activityTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Activity: "),
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromConfig()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[0].SetValue(string(m.cfg.Activity))
	if m.cfg.Since != nil {
		m.filterInputs[1].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[1].SetValue("")
	}
	m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.CurveWindow))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.activityTable.SetWidth(m.width)
	m.activityTable.SetHeight(maxInt(1, vpHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = maxInt(10, m.width-promptWidth-2)
	}
}

// moveTab switches tabs and starts the advice request the first time its tab opens.
func (m *Model) moveTab(delta int) tea.Cmd {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabActivities {
		m.activityTable.Focus()
	} else {
		m.activityTable.Blur()
	}
	if m.activeTab == tabAdvice && m.adviceText == "" && !m.adviceLoading {
		return m.fetchAdvice()
	}
	return nil
}

func (m *Model) fetchAdvice() tea.Cmd {
	if m.advisor == nil || m.adviceLoading {
		return nil
	}
	m.adviceSeq++
	m.adviceLoading = true
	m.adviceText = ""
	m.renderTabContents()
	seq := m.adviceSeq
	logs := m.report.Logs
	advisor := m.advisor
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), adviceTimeout)
		defer cancel()
		return adviceMsg{seq: seq, text: advisor.Advise(ctx, logs)}
	})
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	activity := "any"
	if m.cfg.Activity != "" {
		activity = m.cfg.Activity.Label()
	}
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	summary := fmt.Sprintf("Settings: activity=%s  since=%s  window=%d", activity, since, m.cfg.CurveWindow)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Window: -/=  Settings: /  Quit: q"
	if m.activeTab == tabAdvice {
		help = "Nav: left/right  Scroll: up/down/pgup/pgdn  Refresh advice: r  Settings: /  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabActivities {
		if len(m.report.ByActivity) == 0 {
			return fitLines("No focus logs found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.activityTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		m.report = stats.Report{}
	} else {
		m.errMsg = ""
		m.report = report
	}
	// Any advice on screen describes the previous report.
	m.adviceSeq++
	m.adviceLoading = false
	m.adviceText = ""
	m.activityTable.SetRows(buildActivityRows(m.report.ByActivity))
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabFactors].SetContent(renderFactors(m.report.Logs, width))
	m.viewports[tabTrend].SetContent(renderTrend(m.report.Logs, m.cfg.CurveWindow, width))
	m.viewports[tabAdvice].SetContent(m.renderAdvice(width))
}

func renderOverview(r stats.Report, width int) string {
	if len(r.Logs) == 0 && len(r.Sessions) == 0 {
		return "No focus logs found. Start a session to collect data."
	}
	checkins := stats.IntervalCount(r.Logs)
	total := stats.TotalDistractions(r.Logs)
	avg := 0.0
	if checkins > 0 {
		avg = float64(total) / float64(checkins)
	}
	cards := []string{
		metricCard("Sessions", strconv.Itoa(len(r.Sessions))),
		metricCard("Check-ins", strconv.Itoa(checkins)),
		metricCard("Distractions", strconv.Itoa(total)),
		metricCard("Avg / interval", fmt.Sprintf("%.2f", avg)),
		metricCard("Ended early", strconv.Itoa(r.EarlyEndCount())),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if lipgloss.Width(row) > width {
		row = lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	var b strings.Builder
	b.WriteString(row)
	for _, s := range stats.SummarizeByActivity(r.Logs) {
		b.WriteString("\n\n")
		b.WriteString(cardValueStyle.Render(s.Activity.Label()))
		b.WriteString(cardTitleStyle.Render(fmt.Sprintf("  %d check-ins", s.Checkins)))
		for _, f := range s.Factors {
			b.WriteString(fmt.Sprintf("\n  %-16s %d", f.Factor.Label(), f.Count))
		}
	}
	return b.String()
}

func metricCard(label, value string) string {
	content := cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value)
	return cardStyle.Render(content)
}

func renderFactors(logs []model.FocusLog, width int) string {
	var buf bytes.Buffer
	if err := stats.RenderFactorTable(&buf, logs); err != nil {
		return fmt.Sprintf("Failed to render factors: %v", err)
	}
	counts := stats.FactorCounts(logs)
	if len(counts) == 0 {
		return strings.TrimRight(buf.String(), "\n")
	}
	barWidth := maxInt(10, minInt(width-20, 50))
	top := counts[0].Count
	for _, c := range counts {
		n := c.Count * barWidth / top
		buf.WriteString(fmt.Sprintf("%-16s %s\n", c.Factor.Label(), factorBarStyle.Render(strings.Repeat("█", maxInt(1, n)))))
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderTrend(logs []model.FocusLog, window, width int) string {
	if len(logs) == 0 {
		return "No focus logs found."
	}
	var buf bytes.Buffer
	if err := stats.RenderTrend(&buf, logs, window, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render trend: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderAdvice(width int) string {
	switch {
	case m.advisor == nil:
		return "Advice is not configured."
	case m.adviceLoading:
		return m.spinner.View() + " Analyzing your focus sessions..."
	case m.adviceText == "":
		return "Press r to ask for advice on the logs shown."
	default:
		return advice.RenderMarkdown(m.adviceText, minInt(width, 100))
	}
}

func buildActivityTable(totals []stats.ActivityTotal, width, height int) table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Activity", Width: 14},
			{Title: "Check-ins", Width: 10},
			{Title: "Distractions", Width: 13},
			{Title: "Avg", Width: 6},
		}),
		table.WithRows(buildActivityRows(totals)),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(activityTableStyles())
	return t
}

func buildActivityRows(totals []stats.ActivityTotal) []table.Row {
	rows := make([]table.Row, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, table.Row{
			t.Activity.Label(),
			strconv.Itoa(t.Checkins),
			strconv.Itoa(t.Distractions),
			fmt.Sprintf("%.2f", float64(t.Distractions)/float64(t.Checkins)),
		})
	}
	return rows
}

func activityTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	var activity model.Activity
	if input := strings.TrimSpace(m.filterInputs[0].Value()); input != "" {
		parsed, err := model.ParseActivity(input)
		if err != nil {
			return err
		}
		activity = parsed
	}

	var since *time.Time
	if input := strings.TrimSpace(m.filterInputs[1].Value()); input != "" {
		parsed, err := time.ParseInLocation("2006-01-02", input, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date (expected YYYY-MM-DD)")
		}
		since = &parsed
	}

	window := 1
	if input := strings.TrimSpace(m.filterInputs[2].Value()); input != "" {
		parsed, err := strconv.Atoi(input)
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	m.cfg = model.StatsConfig{
		Activity:    activity,
		Since:       since,
		CurveWindow: window,
	}
	return nil
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	if n%5 == 0 {
		return n + 5
	}
	return ((n / 5) + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return (n / 5) * 5
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
