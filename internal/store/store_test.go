package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuifocus/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "tuifocus.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleSession(id string, activity model.Activity, endedAt time.Time, counts ...int) (model.SessionRecord, []model.FocusLog) {
	rec := model.SessionRecord{
		ID:                   id,
		Activity:             activity,
		StartedAt:            endedAt.Add(-time.Hour),
		EndedAt:              endedAt,
		TotalDurationSeconds: 3600,
		CheckIntervalSeconds: 600,
		ElapsedSeconds:       3600,
	}
	logs := make([]model.FocusLog, 0, len(counts))
	for i, c := range counts {
		logs = append(logs, model.FocusLog{
			ID:                id + "-" + string(rune('a'+i)),
			Timestamp:         rec.StartedAt.Add(time.Duration(i+1) * 10 * time.Minute),
			Activity:          activity,
			DistractionCount:  c,
			DistractionFactor: model.FactorPhone,
		})
	}
	return rec, logs
}

func TestInsertSessionRoundTrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	ended := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	rec, logs := sampleSession("s1", model.ActivityCoding, ended, 2, 0, 5)
	require.NoError(t, st.InsertSession(ctx, rec, logs))

	got, err := st.ListLogs(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range logs {
		assert.Equal(t, logs[i].ID, got[i].ID)
		assert.True(t, logs[i].Timestamp.Equal(got[i].Timestamp))
		assert.Equal(t, logs[i].DistractionCount, got[i].DistractionCount)
		assert.Equal(t, model.FactorPhone, got[i].DistractionFactor)
		assert.Equal(t, model.ActivityCoding, got[i].Activity)
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].SessionID)
	assert.Equal(t, 3, sessions[0].Checkins)
	assert.Equal(t, 7, sessions[0].DistractionTotal)
	assert.False(t, sessions[0].EndedEarly)
}

func TestInsertSessionWithoutLogs(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec, _ := sampleSession("empty", model.ActivityReading, time.Now())
	rec.EndedEarly = true
	require.NoError(t, st.InsertSession(ctx, rec, nil))

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 0, sessions[0].Checkins)
	assert.True(t, sessions[0].EndedEarly)
}

func TestInsertSessionDuplicateRollsBack(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	ended := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	rec, logs := sampleSession("s1", model.ActivityCoding, ended, 1)
	require.NoError(t, st.InsertSession(ctx, rec, logs))

	rec2, _ := sampleSession("s2", model.ActivityCoding, ended, 1)
	// Reusing a log id violates the primary key after the session row is written.
	require.Error(t, st.InsertSession(ctx, rec2, logs))

	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestListLogsFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	day1 := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	rec, logs := sampleSession("old", model.ActivityCoding, day1, 1, 1)
	require.NoError(t, st.InsertSession(ctx, rec, logs))
	rec, logs = sampleSession("new-coding", model.ActivityCoding, day2, 3)
	require.NoError(t, st.InsertSession(ctx, rec, logs))
	rec, logs = sampleSession("new-reading", model.ActivityReading, day2.Add(time.Minute), 4)
	require.NoError(t, st.InsertSession(ctx, rec, logs))

	since := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	got, err := st.ListLogs(ctx, model.StatsConfig{Since: &since})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = st.ListLogs(ctx, model.StatsConfig{Since: &since, Activity: model.ActivityReading})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].DistractionCount)

	sessions, err := st.ListSessions(ctx, model.StatsConfig{Activity: model.ActivityCoding})
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "old", sessions[0].SessionID)
}
