// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"

	"github.com/verte-zerg/tuifocus/internal/model"
)

// Source reads persisted focus data.
type Source interface {
	ListLogs(ctx context.Context, cfg model.StatsConfig) ([]model.FocusLog, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Logs       []model.FocusLog
	Sessions   []model.SessionAggregate
	ByActivity []ActivityTotal
	Factors    []FactorCount
	Series     []float64
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	logs, err := src.ListLogs(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Logs:       logs,
		Sessions:   sessions,
		ByActivity: DistractionsByActivity(logs),
		Factors:    FactorCounts(logs),
		Series:     MovingAverage(DistractionSeries(logs), cfg.CurveWindow),
	}, nil
}

// EarlyEndCount returns how many sessions were ended before time ran out.
func (r Report) EarlyEndCount() int {
	n := 0
	for _, s := range r.Sessions {
		if s.EndedEarly {
			n++
		}
	}
	return n
}
