package stats

import (
	"testing"
	"time"

	"github.com/verte-zerg/tuifocus/internal/model"
)

func logsFixture() []model.FocusLog {
	base := time.Date(2026, 10, 15, 9, 0, 0, 0, time.Local)
	mk := func(min int, a model.Activity, count int, f model.DistractionFactor) model.FocusLog {
		return model.FocusLog{
			ID:                a.Label(),
			Timestamp:         base.Add(time.Duration(min) * time.Minute),
			Activity:          a,
			DistractionCount:  count,
			DistractionFactor: f,
		}
	}
	return []model.FocusLog{
		mk(0, model.ActivityCoding, 2, model.FactorPhone),
		mk(5, model.ActivityCoding, 1, model.FactorPhone),
		mk(10, model.ActivityCoding, 0, model.FactorNoise),
		mk(15, model.ActivityReading, 4, model.FactorMindWandering),
	}
}

func TestDistractionsByActivity(t *testing.T) {
	got := DistractionsByActivity(logsFixture())
	if len(got) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(got))
	}
	if got[0].Activity != model.ActivityReading || got[0].Distractions != 4 || got[0].Checkins != 1 {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if got[1].Activity != model.ActivityCoding || got[1].Distractions != 3 || got[1].Checkins != 3 {
		t.Fatalf("unexpected second entry: %+v", got[1])
	}
}

func TestFactorCountsOrdering(t *testing.T) {
	got := FactorCounts(logsFixture())
	if len(got) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(got))
	}
	if got[0].Factor != model.FactorPhone || got[0].Count != 2 {
		t.Fatalf("unexpected top factor: %+v", got[0])
	}
	// Ties break by key.
	if got[1].Factor != model.FactorMindWandering || got[2].Factor != model.FactorNoise {
		t.Fatalf("unexpected tie order: %+v", got)
	}
}

func TestSummarizeByActivity(t *testing.T) {
	got := SummarizeByActivity(logsFixture())
	if len(got) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(got))
	}
	if got[0].Activity != model.ActivityCoding || got[0].Checkins != 3 {
		t.Fatalf("unexpected first summary: %+v", got[0])
	}
	if len(got[0].Factors) != 2 || got[0].Factors[0].Factor != model.FactorPhone || got[0].Factors[0].Count != 2 {
		t.Fatalf("unexpected factors: %+v", got[0].Factors)
	}
}

func TestFoldsOnEmptyInput(t *testing.T) {
	if IntervalCount(nil) != 0 || TotalDistractions(nil) != 0 {
		t.Fatalf("expected zero counts")
	}
	if len(DistractionsByActivity(nil)) != 0 || len(FactorCounts(nil)) != 0 || len(SummarizeByActivity(nil)) != 0 {
		t.Fatalf("expected empty folds")
	}
}

func TestFilterSinceStartOfDay(t *testing.T) {
	logs := logsFixture()
	logs[0].Timestamp = logs[0].Timestamp.Add(-24 * time.Hour)
	today := StartOfDay(logs[1].Timestamp)
	got := FilterSince(logs, today)
	if len(got) != 3 {
		t.Fatalf("expected 3 logs today, got %d", len(got))
	}
	if DistractionSeries(got)[2] != 4 {
		t.Fatalf("unexpected series: %v", DistractionSeries(got))
	}
}
