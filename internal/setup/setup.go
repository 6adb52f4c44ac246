// Package setup collects a session configuration interactively.
package setup

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuifocus/internal/model"
)

// Default form values, in minutes.
const (
	DefaultDurationMinutes = 25
	DefaultIntervalMinutes = 5
)

var (
	accent = lipgloss.Color("#C89A3A")
	fg     = lipgloss.Color("#D0D0D0")
	dim    = lipgloss.Color("#6E6E6E")
	green  = lipgloss.Color("#8EC07C")
)

// Answers holds the raw form values.
type Answers struct {
	Activity string
	Duration string
	Interval string
}

// AnswersFrom pre-fills the form from a (possibly partial) config.
func AnswersFrom(cfg model.SessionConfig) Answers {
	a := Answers{
		Activity: string(model.ActivityMeditation),
		Duration: strconv.Itoa(DefaultDurationMinutes),
		Interval: strconv.Itoa(DefaultIntervalMinutes),
	}
	if cfg.Activity.Valid() {
		a.Activity = string(cfg.Activity)
	}
	if cfg.TotalDurationSeconds > 0 && cfg.TotalDurationSeconds%60 == 0 {
		a.Duration = strconv.Itoa(cfg.TotalDurationSeconds / 60)
	}
	if cfg.CheckIntervalSeconds > 0 && cfg.CheckIntervalSeconds%60 == 0 {
		a.Interval = strconv.Itoa(cfg.CheckIntervalSeconds / 60)
	}
	return a
}

// SessionConfig converts answers into a validated config.
func (a Answers) SessionConfig() (model.SessionConfig, error) {
	activity, err := model.ParseActivity(a.Activity)
	if err != nil {
		return model.SessionConfig{}, err
	}
	duration, err := parseMinutes(a.Duration)
	if err != nil {
		return model.SessionConfig{}, fmt.Errorf("invalid duration: %w", err)
	}
	interval, err := parseMinutes(a.Interval)
	if err != nil {
		return model.SessionConfig{}, fmt.Errorf("invalid interval: %w", err)
	}
	cfg := model.SessionConfig{
		Activity:             activity,
		TotalDurationSeconds: duration * 60,
		CheckIntervalSeconds: interval * 60,
	}
	if err := cfg.Validate(); err != nil {
		return model.SessionConfig{}, err
	}
	return cfg, nil
}

// Form builds the themed setup form bound to a.
func Form(a *Answers) *huh.Form {
	options := make([]huh.Option[string], 0, len(model.Activities))
	for _, act := range model.Activities {
		options = append(options, huh.NewOption(act.Label(), string(act)))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Activity").
				Options(options...).
				Value(&a.Activity),
			huh.NewInput().
				Title("Total duration (minutes)").
				Placeholder(strconv.Itoa(DefaultDurationMinutes)).
				Value(&a.Duration).
				Validate(validateMinutes),
			huh.NewInput().
				Title("Check-in interval (minutes)").
				Placeholder(strconv.Itoa(DefaultIntervalMinutes)).
				Value(&a.Interval).
				Validate(validateMinutes),
		).Title("New focus session"),
	).WithTheme(focusTheme()).WithShowHelp(false)
}

// Run shows the form and returns the chosen config.
func Run(ctx context.Context, initial model.SessionConfig) (model.SessionConfig, error) {
	a := AnswersFrom(initial)
	if err := Form(&a).RunWithContext(ctx); err != nil {
		return model.SessionConfig{}, fmt.Errorf("failed to run setup form: %w", err)
	}
	return a.SessionConfig()
}

func validateMinutes(s string) error {
	_, err := parseMinutes(s)
	return err
}

func parseMinutes(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("enter a positive number of minutes")
	}
	return v, nil
}

func focusTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(accent).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(accent)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(green)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(fg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(accent)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(accent)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(fg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(dim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(dim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(dim)

	return t
}
