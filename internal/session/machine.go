// Package session drives a running focus session from start to end.
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/tuifocus/internal/model"
)

// State is a session phase.
type State int

// Session states.
const (
	Running State = iota
	AwaitingCheckin
	Ended
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingCheckin:
		return "awaiting-checkin"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// Errors returned for events that arrive in the wrong state.
var (
	ErrNoPendingCheckin = errors.New("no check-in is pending")
	ErrEnded            = errors.New("session has ended")
)

// Event is an input to Machine.Apply.
type Event interface {
	isEvent()
}

// Tick advances the countdown by one second.
type Tick struct{}

// CheckinSubmitted answers the pending check-in.
type CheckinSubmitted struct {
	DistractionCount int
	Factor           model.DistractionFactor
}

// EndRequested stops the session early.
type EndRequested struct{}

func (Tick) isEvent()             {}
func (CheckinSubmitted) isEvent() {}
func (EndRequested) isEvent()     {}

// Outcome describes the effect of one applied event.
type Outcome struct {
	From State
	To   State
	// Recorded is the log appended by this step, if any.
	Recorded *model.FocusLog
	// Emitted holds the session's logs on the step that enters Ended and is nil otherwise.
	Emitted    []model.FocusLog
	EndedEarly bool
}

// Finished reports whether this step ended the session.
func (o Outcome) Finished() bool {
	return o.From != Ended && o.To == Ended
}

// Option configures a Machine.
type Option func(*Machine)

// WithClock overrides the timestamp source for new logs.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithIDFunc overrides the id generator for new logs.
func WithIDFunc(newID func() string) Option {
	return func(m *Machine) {
		m.newID = newID
	}
}

// Machine is the countdown/check-in state machine. It has a single writer and
// never blocks; the caller feeds it one event at a time.
type Machine struct {
	cfg   model.SessionConfig
	state State

	totalLeft    int
	intervalLeft int

	logs []model.FocusLog

	now   func() time.Time
	newID func() string
}

// New starts a machine in Running. cfg must already be validated.
func New(cfg model.SessionConfig, opts ...Option) *Machine {
	m := &Machine{
		cfg:          cfg,
		state:        Running,
		totalLeft:    cfg.TotalDurationSeconds,
		intervalLeft: cfg.CheckIntervalSeconds,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Apply consumes one event and performs the resulting transition.
func (m *Machine) Apply(ev Event) (Outcome, error) {
	out := Outcome{From: m.state, To: m.state}
	switch ev := ev.(type) {
	case Tick:
		if m.state != Running {
			return out, nil
		}
		m.totalLeft--
		m.intervalLeft--
		// Natural end wins over a check-in due on the same tick.
		if m.totalLeft <= 0 {
			m.totalLeft = 0
			return m.end(out, false), nil
		}
		if m.intervalLeft <= 0 {
			m.state = AwaitingCheckin
			m.intervalLeft = m.cfg.CheckIntervalSeconds
		}
	case CheckinSubmitted:
		switch m.state {
		case Ended:
			return out, ErrEnded
		case Running:
			return out, ErrNoPendingCheckin
		}
		entry := model.FocusLog{
			ID:                m.newID(),
			Timestamp:         m.now(),
			Activity:          m.cfg.Activity,
			DistractionCount:  ev.DistractionCount,
			DistractionFactor: ev.Factor,
		}
		m.logs = append(m.logs, entry)
		m.state = Running
		m.intervalLeft = m.cfg.CheckIntervalSeconds
		out.Recorded = &entry
	case EndRequested:
		if m.state == Ended {
			return out, ErrEnded
		}
		return m.end(out, true), nil
	}
	out.To = m.state
	return out, nil
}

func (m *Machine) end(out Outcome, early bool) Outcome {
	m.state = Ended
	out.To = Ended
	out.EndedEarly = early
	out.Emitted = m.Logs()
	return out
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Config returns the session configuration.
func (m *Machine) Config() model.SessionConfig { return m.cfg }

// TotalLeft returns the seconds remaining in the session.
func (m *Machine) TotalLeft() int { return m.totalLeft }

// IntervalLeft returns the seconds remaining until the next check-in.
func (m *Machine) IntervalLeft() int { return m.intervalLeft }

// Elapsed returns the seconds of countdown that have passed.
func (m *Machine) Elapsed() int { return m.cfg.TotalDurationSeconds - m.totalLeft }

// TotalProgress returns elapsed/total in [0,1].
func (m *Machine) TotalProgress() float64 {
	return fraction(m.Elapsed(), m.cfg.TotalDurationSeconds)
}

// IntervalProgress returns the elapsed share of the current interval in [0,1].
func (m *Machine) IntervalProgress() float64 {
	return fraction(m.cfg.CheckIntervalSeconds-m.intervalLeft, m.cfg.CheckIntervalSeconds)
}

// Logs returns a copy of the logs recorded so far.
func (m *Machine) Logs() []model.FocusLog {
	out := make([]model.FocusLog, len(m.logs))
	copy(out, m.logs)
	return out
}

func fraction(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	f := float64(n) / float64(d)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
