package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuifocus/internal/model"
	"github.com/verte-zerg/tuifocus/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "tuifocus.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Hour)
		end := start.Add(10 * time.Minute)
		rec := model.SessionRecord{
			ID:                   "session-" + string(rune('a'+i)),
			Activity:             model.ActivityStudying,
			StartedAt:            start,
			EndedAt:              end,
			TotalDurationSeconds: 600,
			CheckIntervalSeconds: 300,
			ElapsedSeconds:       600,
			EndedEarly:           i == 2,
		}
		logs := []model.FocusLog{{
			ID:                rec.ID + "-1",
			Timestamp:         start.Add(5 * time.Minute),
			Activity:          model.ActivityStudying,
			DistractionCount:  i + 1,
			DistractionFactor: model.FactorNoise,
		}}
		if err := st.InsertSession(ctx, rec, logs); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	since := time.Unix(0, 0).Add(time.Hour)
	report, err := BuildReport(ctx, st, model.StatsConfig{Since: &since, CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 || len(report.Logs) != 2 {
		t.Fatalf("expected 2 sessions and logs, got %d/%d", len(report.Sessions), len(report.Logs))
	}
	if report.EarlyEndCount() != 1 {
		t.Fatalf("expected 1 early end, got %d", report.EarlyEndCount())
	}
	if len(report.ByActivity) != 1 || report.ByActivity[0].Distractions != 5 {
		t.Fatalf("unexpected activity totals: %+v", report.ByActivity)
	}
	if report.Series[1] != 2.5 {
		t.Fatalf("expected moving average 2.5, got %v", report.Series)
	}
}

func TestRenderTextReports(t *testing.T) {
	logs := logsFixture()
	var buf bytes.Buffer
	if err := RenderSummary(&buf, logs); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if err := RenderActivityTable(&buf, logs); err != nil {
		t.Fatalf("activity table: %v", err)
	}
	if err := RenderFactorTable(&buf, logs); err != nil {
		t.Fatalf("factor table: %v", err)
	}
	if err := RenderTrend(&buf, logs, 2, 40, 5, false); err != nil {
		t.Fatalf("trend: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Intervals completed: 4", "Distractions: 7", "Top factor: Phone", "Reading", "50.0%", "Distraction Trend", "Legend:"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("expected %q in output:\n%s", needle, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No focus logs found") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
