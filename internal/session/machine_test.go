package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuifocus/internal/model"
)

func newTestMachine(total, interval int) *Machine {
	seq := 0
	base := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	cfg := model.SessionConfig{
		Activity:             model.ActivityCoding,
		TotalDurationSeconds: total,
		CheckIntervalSeconds: interval,
	}
	return New(cfg,
		WithClock(func() time.Time { return base.Add(time.Duration(seq) * time.Minute) }),
		WithIDFunc(func() string {
			seq++
			return fmt.Sprintf("log-%d", seq)
		}),
	)
}

// run ticks the machine, answering every check-in with count 1, until it ends
// or maxTicks ticks have been applied. It returns the emitted logs and the
// elapsed seconds at which check-ins were requested.
func run(t *testing.T, m *Machine, maxTicks int) ([]model.FocusLog, []int) {
	t.Helper()
	var checkinsAt []int
	for i := 0; i < maxTicks; i++ {
		out, err := m.Apply(Tick{})
		require.NoError(t, err)
		if out.Finished() {
			return out.Emitted, checkinsAt
		}
		if out.To == AwaitingCheckin {
			checkinsAt = append(checkinsAt, m.Elapsed())
			_, err := m.Apply(CheckinSubmitted{DistractionCount: 1, Factor: model.FactorPhone})
			require.NoError(t, err)
		}
	}
	return nil, checkinsAt
}

func TestNewStartsRunning(t *testing.T) {
	m := newTestMachine(60, 20)
	assert.Equal(t, Running, m.State())
	assert.Equal(t, 60, m.TotalLeft())
	assert.Equal(t, 20, m.IntervalLeft())
	assert.Empty(t, m.Logs())
}

func TestNaturalEndPreemptsSameTickCheckin(t *testing.T) {
	m := newTestMachine(60, 20)
	logs, checkinsAt := run(t, m, 100)

	require.NotNil(t, logs)
	assert.Len(t, logs, 2)
	assert.Equal(t, []int{20, 40}, checkinsAt)
	assert.Equal(t, Ended, m.State())
	assert.Equal(t, 0, m.TotalLeft())
}

func TestUnevenIntervalsCountOnlyFullIntervals(t *testing.T) {
	m := newTestMachine(50, 20)
	logs, checkinsAt := run(t, m, 100)

	assert.Len(t, logs, 2)
	assert.Equal(t, []int{20, 40}, checkinsAt)
}

func TestLogCountMatchesElapsedIntervals(t *testing.T) {
	cases := []struct{ total, interval int }{
		{1, 1}, {10, 3}, {10, 10}, {25, 5}, {61, 20}, {7, 2},
	}
	for _, tc := range cases {
		m := newTestMachine(tc.total, tc.interval)
		logs, _ := run(t, m, tc.total+1)
		// Intervals ending strictly before the total elapse.
		expected := (tc.total - 1) / tc.interval
		assert.Len(t, logs, expected, "total=%d interval=%d", tc.total, tc.interval)
	}
}

func TestEnterCheckinResetsIntervalImmediately(t *testing.T) {
	m := newTestMachine(60, 3)
	for i := 0; i < 3; i++ {
		_, err := m.Apply(Tick{})
		require.NoError(t, err)
	}
	assert.Equal(t, AwaitingCheckin, m.State())
	assert.Equal(t, 3, m.IntervalLeft())
	assert.Equal(t, 57, m.TotalLeft())
}

func TestTicksFrozenWhileAwaitingCheckin(t *testing.T) {
	m := newTestMachine(60, 2)
	m.Apply(Tick{})
	m.Apply(Tick{})
	require.Equal(t, AwaitingCheckin, m.State())

	for i := 0; i < 10; i++ {
		out, err := m.Apply(Tick{})
		require.NoError(t, err)
		assert.Equal(t, AwaitingCheckin, out.To)
	}
	assert.Equal(t, 58, m.TotalLeft())
	assert.Equal(t, 2, m.IntervalLeft())
}

func TestCheckinRecordsLogVerbatim(t *testing.T) {
	for _, count := range []int{0, 5, 9, -1} {
		m := newTestMachine(60, 1)
		m.Apply(Tick{})
		require.Equal(t, AwaitingCheckin, m.State())

		out, err := m.Apply(CheckinSubmitted{DistractionCount: count, Factor: model.FactorNoise})
		require.NoError(t, err)
		assert.Equal(t, AwaitingCheckin, out.From)
		assert.Equal(t, Running, out.To)
		assert.Equal(t, 1, m.IntervalLeft())
		require.NotNil(t, out.Recorded)
		assert.Equal(t, count, out.Recorded.DistractionCount)
		assert.Equal(t, model.FactorNoise, out.Recorded.DistractionFactor)
		assert.Equal(t, model.ActivityCoding, out.Recorded.Activity)
		assert.Equal(t, "log-1", out.Recorded.ID)
		assert.False(t, out.Recorded.Timestamp.IsZero())
		assert.Nil(t, out.Emitted)
	}
}

func TestCheckinWhileRunningIsRejected(t *testing.T) {
	m := newTestMachine(60, 20)
	out, err := m.Apply(CheckinSubmitted{DistractionCount: 2, Factor: model.FactorPeople})
	require.ErrorIs(t, err, ErrNoPendingCheckin)
	assert.Equal(t, Running, out.To)
	assert.Empty(t, m.Logs())
}

func TestEarlyEndWhileRunningWithNoCheckins(t *testing.T) {
	m := newTestMachine(60, 20)
	m.Apply(Tick{})

	out, err := m.Apply(EndRequested{})
	require.NoError(t, err)
	assert.True(t, out.Finished())
	assert.True(t, out.EndedEarly)
	require.NotNil(t, out.Emitted)
	assert.Empty(t, out.Emitted)
	assert.Equal(t, 1, m.Elapsed())
}

func TestEarlyEndWhileAwaitingCheckinDropsPending(t *testing.T) {
	m := newTestMachine(60, 2)
	m.Apply(Tick{})
	m.Apply(Tick{})
	_, err := m.Apply(CheckinSubmitted{DistractionCount: 3, Factor: model.FactorPhone})
	require.NoError(t, err)
	m.Apply(Tick{})
	m.Apply(Tick{})
	require.Equal(t, AwaitingCheckin, m.State())

	out, err := m.Apply(EndRequested{})
	require.NoError(t, err)
	assert.Equal(t, AwaitingCheckin, out.From)
	assert.Equal(t, Ended, out.To)
	require.Len(t, out.Emitted, 1)
	assert.Equal(t, 3, out.Emitted[0].DistractionCount)
}

func TestEndedIsTerminal(t *testing.T) {
	m := newTestMachine(2, 1)
	m.Apply(Tick{})
	m.Apply(CheckinSubmitted{DistractionCount: 0, Factor: model.FactorOther})
	out, err := m.Apply(Tick{})
	require.NoError(t, err)
	require.True(t, out.Finished())
	assert.False(t, out.EndedEarly)
	assert.Len(t, out.Emitted, 1)

	out, err = m.Apply(Tick{})
	require.NoError(t, err)
	assert.False(t, out.Finished())
	assert.Nil(t, out.Emitted)

	_, err = m.Apply(EndRequested{})
	assert.ErrorIs(t, err, ErrEnded)
	_, err = m.Apply(CheckinSubmitted{})
	assert.ErrorIs(t, err, ErrEnded)
	assert.Len(t, m.Logs(), 1)
}

func TestProgressFractions(t *testing.T) {
	m := newTestMachine(100, 10)
	for i := 0; i < 5; i++ {
		m.Apply(Tick{})
	}
	assert.InDelta(t, 0.05, m.TotalProgress(), 1e-9)
	assert.InDelta(t, 0.5, m.IntervalProgress(), 1e-9)
}

func TestLogsReturnsCopy(t *testing.T) {
	m := newTestMachine(10, 1)
	m.Apply(Tick{})
	m.Apply(CheckinSubmitted{DistractionCount: 1, Factor: model.FactorPhone})
	logs := m.Logs()
	logs[0].DistractionCount = 4
	assert.Equal(t, 1, m.Logs()[0].DistractionCount)
}
