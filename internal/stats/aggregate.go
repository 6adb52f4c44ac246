package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/tuifocus/internal/model"
)

// ActivityTotal is the summed distraction count for one activity.
type ActivityTotal struct {
	Activity     model.Activity
	Checkins     int
	Distractions int
}

// FactorCount is how many check-ins named a factor.
type FactorCount struct {
	Factor model.DistractionFactor
	Count  int
}

// ActivitySummary groups factor counts under an activity.
type ActivitySummary struct {
	Activity model.Activity
	Checkins int
	Factors  []FactorCount
}

// IntervalCount returns the number of completed intervals in logs.
func IntervalCount(logs []model.FocusLog) int {
	return len(logs)
}

// TotalDistractions sums the distraction counts.
func TotalDistractions(logs []model.FocusLog) int {
	total := 0
	for _, l := range logs {
		total += l.DistractionCount
	}
	return total
}

// DistractionsByActivity sums distraction counts per activity, highest first.
func DistractionsByActivity(logs []model.FocusLog) []ActivityTotal {
	byActivity := map[model.Activity]*ActivityTotal{}
	for _, l := range logs {
		entry, ok := byActivity[l.Activity]
		if !ok {
			entry = &ActivityTotal{Activity: l.Activity}
			byActivity[l.Activity] = entry
		}
		entry.Checkins++
		entry.Distractions += l.DistractionCount
	}
	out := make([]ActivityTotal, 0, len(byActivity))
	for _, entry := range byActivity {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Distractions == out[j].Distractions {
			return out[i].Activity < out[j].Activity
		}
		return out[i].Distractions > out[j].Distractions
	})
	return out
}

// FactorCounts counts check-ins per distraction factor, most frequent first.
func FactorCounts(logs []model.FocusLog) []FactorCount {
	return countFactors(logs)
}

// SummarizeByActivity groups logs by activity with per-factor counts.
// Activities are ordered by check-in count, highest first.
func SummarizeByActivity(logs []model.FocusLog) []ActivitySummary {
	grouped := map[model.Activity][]model.FocusLog{}
	for _, l := range logs {
		grouped[l.Activity] = append(grouped[l.Activity], l)
	}
	out := make([]ActivitySummary, 0, len(grouped))
	for activity, entries := range grouped {
		out = append(out, ActivitySummary{
			Activity: activity,
			Checkins: len(entries),
			Factors:  countFactors(entries),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Checkins == out[j].Checkins {
			return out[i].Activity < out[j].Activity
		}
		return out[i].Checkins > out[j].Checkins
	})
	return out
}

// DistractionSeries returns the per-check-in distraction counts in log order.
func DistractionSeries(logs []model.FocusLog) []float64 {
	out := make([]float64, len(logs))
	for i, l := range logs {
		out[i] = float64(l.DistractionCount)
	}
	return out
}

// StartOfDay returns local midnight for t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FilterSince keeps logs at or after since.
func FilterSince(logs []model.FocusLog, since time.Time) []model.FocusLog {
	out := make([]model.FocusLog, 0, len(logs))
	for _, l := range logs {
		if !l.Timestamp.Before(since) {
			out = append(out, l)
		}
	}
	return out
}

func countFactors(logs []model.FocusLog) []FactorCount {
	counts := map[model.DistractionFactor]int{}
	for _, l := range logs {
		counts[l.DistractionFactor]++
	}
	out := make([]FactorCount, 0, len(counts))
	for factor, count := range counts {
		out = append(out, FactorCount{Factor: factor, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Factor < out[j].Factor
		}
		return out[i].Count > out[j].Count
	})
	return out
}
