// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Activity is the category of work a session is focused on.
type Activity string

// Activity values.
const (
	ActivityMeditation Activity = "meditation"
	ActivityCoding     Activity = "coding"
	ActivityStudying   Activity = "studying"
	ActivityReading    Activity = "reading"
	ActivityWorking    Activity = "working"
	ActivityExercising Activity = "exercising"
	ActivityOther      Activity = "other"
)

// Activities lists every activity in display order.
var Activities = []Activity{
	ActivityMeditation,
	ActivityCoding,
	ActivityStudying,
	ActivityReading,
	ActivityWorking,
	ActivityExercising,
	ActivityOther,
}

var activityLabels = map[Activity]string{
	ActivityMeditation: "Meditation",
	ActivityCoding:     "Coding",
	ActivityStudying:   "Studying",
	ActivityReading:    "Reading",
	ActivityWorking:    "Working",
	ActivityExercising: "Exercising",
	ActivityOther:      "Other",
}

// Label returns the human readable name.
func (a Activity) Label() string {
	if label, ok := activityLabels[a]; ok {
		return label
	}
	return string(a)
}

// Valid reports whether a is a known activity.
func (a Activity) Valid() bool {
	_, ok := activityLabels[a]
	return ok
}

// ParseActivity resolves a key or label, case-insensitively.
func ParseActivity(s string) (Activity, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, a := range Activities {
		if s == string(a) || s == strings.ToLower(a.Label()) {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown activity %q (available: %s)", s, joinKeys(Activities))
}

// DistractionFactor is the dominant cause of lost focus during an interval.
type DistractionFactor string

// DistractionFactor values.
const (
	FactorPhone         DistractionFactor = "phone"
	FactorSocialMedia   DistractionFactor = "social-media"
	FactorNoise         DistractionFactor = "noise"
	FactorMindWandering DistractionFactor = "mind-wandering"
	FactorPeople        DistractionFactor = "people"
	FactorOther         DistractionFactor = "other"
)

// DistractionFactors lists every factor in display order.
var DistractionFactors = []DistractionFactor{
	FactorPhone,
	FactorSocialMedia,
	FactorNoise,
	FactorMindWandering,
	FactorPeople,
	FactorOther,
}

// DefaultFactor is preselected in the check-in form.
const DefaultFactor = FactorMindWandering

var factorLabels = map[DistractionFactor]string{
	FactorPhone:         "Phone",
	FactorSocialMedia:   "Social media",
	FactorNoise:         "Noise",
	FactorMindWandering: "Mind wandering",
	FactorPeople:        "People",
	FactorOther:         "Other",
}

// Label returns the human readable name.
func (f DistractionFactor) Label() string {
	if label, ok := factorLabels[f]; ok {
		return label
	}
	return string(f)
}

// Valid reports whether f is a known factor.
func (f DistractionFactor) Valid() bool {
	_, ok := factorLabels[f]
	return ok
}

// ParseDistractionFactor resolves a key or label, case-insensitively.
func ParseDistractionFactor(s string) (DistractionFactor, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, f := range DistractionFactors {
		if s == string(f) || s == strings.ToLower(f.Label()) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown distraction factor %q (available: %s)", s, joinKeys(DistractionFactors))
}

// MaxDistractionCount is the highest count offered by the check-in form.
const MaxDistractionCount = 5

// SessionConfig defines a focus session. It does not change once the session starts.
type SessionConfig struct {
	Activity             Activity
	TotalDurationSeconds int
	CheckIntervalSeconds int
}

// Validate checks the setup rules: positive durations and interval <= total.
func (c SessionConfig) Validate() error {
	if !c.Activity.Valid() {
		return fmt.Errorf("unknown activity %q", c.Activity)
	}
	if c.TotalDurationSeconds <= 0 {
		return fmt.Errorf("duration must be > 0")
	}
	if c.CheckIntervalSeconds <= 0 {
		return fmt.Errorf("interval must be > 0")
	}
	if c.CheckIntervalSeconds > c.TotalDurationSeconds {
		return fmt.Errorf("interval must not exceed duration")
	}
	return nil
}

// FocusLog is one answered check-in.
type FocusLog struct {
	ID                string            `json:"id" yaml:"id"`
	Timestamp         time.Time         `json:"timestamp" yaml:"timestamp"`
	Activity          Activity          `json:"activity" yaml:"activity"`
	DistractionCount  int               `json:"distractionCount" yaml:"distraction_count"`
	DistractionFactor DistractionFactor `json:"distractionFactor" yaml:"distraction_factor"`
}

// SessionRecord describes a finished session as persisted alongside its logs.
type SessionRecord struct {
	ID                   string
	Activity             Activity
	StartedAt            time.Time
	EndedAt              time.Time
	TotalDurationSeconds int
	CheckIntervalSeconds int
	ElapsedSeconds       int
	EndedEarly           bool
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Activity    Activity
	Since       *time.Time
	CurveWindow int
}

// SessionAggregate summarizes a stored session for reporting.
type SessionAggregate struct {
	SessionID        string
	Activity         Activity
	EndedAt          time.Time
	ElapsedSeconds   int
	EndedEarly       bool
	Checkins         int
	DistractionTotal int
}

func joinKeys[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
