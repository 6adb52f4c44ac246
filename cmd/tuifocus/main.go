// Package main provides the CLI entrypoint for tuifocus.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuifocus/internal/advice"
	"github.com/verte-zerg/tuifocus/internal/config"
	"github.com/verte-zerg/tuifocus/internal/model"
	"github.com/verte-zerg/tuifocus/internal/setup"
	"github.com/verte-zerg/tuifocus/internal/stats"
	"github.com/verte-zerg/tuifocus/internal/statsui"
	"github.com/verte-zerg/tuifocus/internal/store"
	"github.com/verte-zerg/tuifocus/internal/tui"
)

const (
	defaultActivity    = model.ActivityMeditation
	defaultDuration    = setup.DefaultDurationMinutes * time.Minute
	defaultInterval    = setup.DefaultIntervalMinutes * time.Minute
	defaultCurveWindow = 3
	plainPlotHeight    = 6
)

var (
	sessionActivity    = defaultActivity
	sessionDuration    time.Duration
	sessionInterval    time.Duration
	sessionNoBell      bool
	sessionNoDashboard bool

	statsAll         bool
	statsSince       string
	statsActivity    model.Activity
	statsCurveWindow int

	logsAll      bool
	logsSince    string
	logsActivity model.Activity
	logsFactor   model.DistractionFactor
	logsFormat   = "table"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuifocus",
		Short:         "Terminal focus timer with distraction check-ins",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runSessionCmd,
	}

	rootCmd.Flags().Var(activityFlag{&sessionActivity}, "activity", "activity to focus on ("+activityKeys()+")")
	rootCmd.Flags().DurationVar(&sessionDuration, "duration", defaultDuration, "total session length (e.g. 25m)")
	rootCmd.Flags().DurationVar(&sessionInterval, "interval", defaultInterval, "time between check-ins (e.g. 5m)")
	rootCmd.Flags().BoolVar(&sessionNoBell, "no-bell", false, "do not ring the terminal bell at check-ins")
	rootCmd.Flags().BoolVar(&sessionNoDashboard, "no-dashboard", false, "do not open the dashboard after the session")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newActivitiesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newAdviceCmd())
	rootCmd.AddCommand(newLogsCmd())

	return rootCmd
}

func runSessionCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyActivityConfig(cmd, "activity", &sessionActivity, fileCfg.Session.Activity); err != nil {
		return err
	}
	applyDurationConfig(cmd, "duration", &sessionDuration, fileCfg.Session.Duration)
	applyDurationConfig(cmd, "interval", &sessionInterval, fileCfg.Session.Interval)
	applyNegatedBoolConfig(cmd, "no-bell", &sessionNoBell, fileCfg.Session.Bell)
	applyNegatedBoolConfig(cmd, "no-dashboard", &sessionNoDashboard, fileCfg.Session.Dashboard)

	cfg, err := buildSessionConfig(sessionActivity, sessionDuration, sessionInterval)
	if err != nil {
		return err
	}
	if !isTerminal(os.Stdin) {
		return fmt.Errorf("a terminal is required to run a focus session")
	}
	if needsSetup(cmd, fileCfg.Session) {
		cfg, err = setup.Run(context.Background(), cfg)
		if err != nil {
			return err
		}
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sessionModel := tui.NewModel(cfg, st, tui.Options{Bell: !sessionNoBell})
	program := tea.NewProgram(sessionModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	res := sessionModel.Result()
	if res == nil {
		return nil
	}
	if res.SaveErr != nil {
		return fmt.Errorf("failed to save session: %w", res.SaveErr)
	}
	logErrf("Saved session: %d check-ins, %d distractions.\n",
		stats.IntervalCount(res.Logs), stats.TotalDistractions(res.Logs))

	if sessionNoDashboard || !isTerminal(os.Stdout) {
		return nil
	}
	today := stats.StartOfDay(time.Now())
	return runDashboard(st, newAdvisor(fileCfg.Advice), model.StatsConfig{
		Since:       &today,
		CurveWindow: defaultCurveWindow,
	})
}

func buildSessionConfig(activity model.Activity, duration, interval time.Duration) (model.SessionConfig, error) {
	total, err := wholeSeconds("--duration", duration)
	if err != nil {
		return model.SessionConfig{}, err
	}
	every, err := wholeSeconds("--interval", interval)
	if err != nil {
		return model.SessionConfig{}, err
	}
	cfg := model.SessionConfig{
		Activity:             activity,
		TotalDurationSeconds: total,
		CheckIntervalSeconds: every,
	}
	if err := cfg.Validate(); err != nil {
		return model.SessionConfig{}, err
	}
	return cfg, nil
}

func wholeSeconds(name string, d time.Duration) (int, error) {
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	if d%time.Second != 0 {
		return 0, fmt.Errorf("%s must be a whole number of seconds", name)
	}
	return int(d / time.Second), nil
}

// needsSetup reports whether nothing about the session was chosen up front.
func needsSetup(cmd *cobra.Command, fileCfg config.SessionConfig) bool {
	for _, name := range []string{"activity", "duration", "interval"} {
		if cmd.Flags().Changed(name) {
			return false
		}
	}
	return fileCfg.Activity == nil && fileCfg.Duration == nil && fileCfg.Interval == nil
}

// runDashboard keeps advisor failures off stderr while the alt screen is active.
func runDashboard(src stats.Source, advisor *advice.Advisor, cfg model.StatsConfig) error {
	advisor.SetErrorOutput(nil)
	dashboard := statsui.NewModel(src, advisor, cfg)
	program := tea.NewProgram(dashboard, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newAdvisor(fileCfg config.AdviceConfig) *advice.Advisor {
	cfg := advice.DefaultConfig()
	if fileCfg.Endpoint != nil {
		cfg.Endpoint = *fileCfg.Endpoint
	}
	if fileCfg.Model != nil {
		cfg.Model = *fileCfg.Model
	}
	if fileCfg.TimeoutMs != nil {
		cfg.TimeoutMs = *fileCfg.TimeoutMs
	}
	if fileCfg.APIKeyEnv != nil {
		cfg.APIKeyEnv = append([]string{*fileCfg.APIKeyEnv}, cfg.APIKeyEnv...)
	}
	cfg = advice.ApplyEnv(cfg)

	var gen advice.Generator
	client, err := advice.NewClient(cfg)
	if err == nil {
		gen = client
	} else if !errors.Is(err, advice.ErrNoAPIKey) {
		logErrf("failed to configure advice: %v\n", err)
	}
	return advice.NewAdvisor(gen)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newActivitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activities",
		Short: "List activities and distraction factors",
		Args:  cobra.NoArgs,
		RunE:  runActivitiesCmd,
	}
}

func runActivitiesCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	lines := []string{"Activities:"}
	for _, a := range model.Activities {
		lines = append(lines, fmt.Sprintf("  %-12s %s", a, a.Label()))
	}
	lines = append(lines, "", "Distraction factors:")
	for _, f := range model.DistractionFactors {
		lines = append(lines, fmt.Sprintf("  %-15s %s", f, f.Label()))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the focus dashboard (today by default)",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsAll, "all", false, "include every stored log")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().Var(activityFlag{&statsActivity}, "activity", "activity filter")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	since, err := resolveSince(statsAll, statsSince, true)
	if err != nil {
		return err
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.StatsConfig{
		Activity:    statsActivity,
		Since:       since,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if !isTerminal(out) {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to load stats: %w", err)
		}
		return writePlainStats(out, report, cfg.CurveWindow)
	}

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	return runDashboard(st, newAdvisor(fileCfg.Advice), cfg)
}

func writePlainStats(w io.Writer, report stats.Report, window int) error {
	if err := stats.RenderSummary(w, report.Logs); err != nil {
		return err
	}
	if len(report.Logs) == 0 {
		return nil
	}
	if err := stats.RenderActivityTable(w, report.Logs); err != nil {
		return err
	}
	if err := stats.RenderFactorTable(w, report.Logs); err != nil {
		return err
	}
	return stats.RenderTrend(w, report.Logs, window, 0, plainPlotHeight, false)
}

func newAdviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advice",
		Short: "Ask for focus advice based on stored logs",
		Args:  cobra.NoArgs,
		RunE:  runAdviceCmd,
	}
	cmd.Flags().BoolVar(&statsAll, "all", false, "use every stored log")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().Var(activityFlag{&statsActivity}, "activity", "activity filter")
	return cmd
}

func runAdviceCmd(cmd *cobra.Command, _ []string) error {
	since, err := resolveSince(statsAll, statsSince, true)
	if err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	logs, err := st.ListLogs(ctx, model.StatsConfig{Activity: statsActivity, Since: since})
	if err != nil {
		return fmt.Errorf("failed to load logs: %w", err)
	}
	text := newAdvisor(fileCfg.Advice).Advise(ctx, logs)

	out := cmd.OutOrStdout()
	width := stats.PlotWidthFor(0)
	if isTerminal(out) {
		text = advice.RenderMarkdown(text, width)
	} else {
		text = advice.Wrap(text, width)
	}
	if _, err := fmt.Fprintln(out, text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print or export stored focus logs",
		Args:  cobra.NoArgs,
		RunE:  runLogsCmd,
	}
	cmd.Flags().BoolVar(&logsAll, "all", false, "ignore --since")
	cmd.Flags().StringVar(&logsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().Var(activityFlag{&logsActivity}, "activity", "activity filter")
	cmd.Flags().Var(factorFlag{&logsFactor}, "factor", "distraction factor filter")
	cmd.Flags().Var(formatFlag{&logsFormat}, "format", "output format ("+strings.Join(exportFormats, ", ")+")")
	return cmd
}

func runLogsCmd(cmd *cobra.Command, _ []string) error {
	since, err := resolveSince(logsAll, logsSince, false)
	if err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	logs, err := st.ListLogs(context.Background(), model.StatsConfig{Activity: logsActivity, Since: since})
	if err != nil {
		return fmt.Errorf("failed to load logs: %w", err)
	}
	if logsFactor != "" {
		logs = filterFactor(logs, logsFactor)
	}
	return writeLogs(cmd.OutOrStdout(), logs, logsFormat)
}

// resolveSince turns --all/--since into a lower bound. todayByDefault selects
// the start of today when neither flag is given.
func resolveSince(all bool, since string, todayByDefault bool) (*time.Time, error) {
	if all && since != "" {
		return nil, fmt.Errorf("--all and --since cannot be combined")
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --since value: %w", err)
		}
		return &parsed, nil
	}
	if all || !todayByDefault {
		return nil, nil
	}
	today := stats.StartOfDay(time.Now())
	return &today, nil
}

func applyActivityConfig(cmd *cobra.Command, name string, target *model.Activity, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	a, err := model.ParseActivity(*value)
	if err != nil {
		return fmt.Errorf("invalid session.activity in config: %w", err)
	}
	*target = a
	return nil
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Duration
}

// applyNegatedBoolConfig maps a positive config switch onto a --no-* flag.
func applyNegatedBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = !*value
}

func defaultConfigTemplate() string {
	defaults := advice.DefaultConfig()
	return fmt.Sprintf(`# tuifocus configuration
# Uncomment a value to enable it. CLI flags override config values.

[session]
# activity = %q        # One of: %s
# duration = %q            # Total session length
# interval = %q             # Time between check-ins
# bell = true                # Ring the terminal bell at check-ins
# dashboard = true           # Open the dashboard after a session

[advice]
# endpoint = %q
# model = %q
# timeout-ms = %d
# api-key-env = "MY_API_KEY"  # Checked before TUIFOCUS_API_KEY and GEMINI_API_KEY
`,
		string(defaultActivity),
		activityKeys(),
		defaultDuration.String(),
		defaultInterval.String(),
		defaults.Endpoint,
		defaults.Model,
		defaults.TimeoutMs,
	)
}

func activityKeys() string {
	keys := make([]string, len(model.Activities))
	for i, a := range model.Activities {
		keys[i] = string(a)
	}
	return strings.Join(keys, ", ")
}

func errUnknownFormat(format string) error {
	return fmt.Errorf("unknown format %q (available: %s)", format, strings.Join(exportFormats, ", "))
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
