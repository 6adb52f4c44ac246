// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuifocus/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for focus sessions and their logs.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			activity TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			total_seconds INTEGER NOT NULL,
			interval_seconds INTEGER NOT NULL,
			elapsed_seconds INTEGER NOT NULL,
			ended_early INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS focus_logs (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			logged_at TEXT NOT NULL,
			activity TEXT NOT NULL,
			distraction_count INTEGER NOT NULL,
			distraction_factor TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_focus_logs_logged_at ON focus_logs(logged_at);`,
		`CREATE INDEX IF NOT EXISTS idx_focus_logs_session ON focus_logs(session_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores an ended session and the logs it emitted, in order.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, logs []model.FocusLog) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, activity, started_at, ended_at, total_seconds, interval_seconds, elapsed_seconds, ended_early)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		string(rec.Activity),
		formatTime(rec.StartedAt),
		formatTime(rec.EndedAt),
		rec.TotalDurationSeconds,
		rec.CheckIntervalSeconds,
		rec.ElapsedSeconds,
		rec.EndedEarly,
	)
	if err != nil {
		return err
	}

	if len(logs) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO focus_logs (id, session_id, seq, logged_at, activity, distraction_count, distraction_factor)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, entry := range logs {
			if _, err = stmt.ExecContext(ctx,
				entry.ID,
				rec.ID,
				i,
				formatTime(entry.Timestamp),
				string(entry.Activity),
				entry.DistractionCount,
				string(entry.DistractionFactor),
			); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// ListLogs returns logs matching the stats filters, oldest first.
func (s *Store) ListLogs(ctx context.Context, cfg model.StatsConfig) ([]model.FocusLog, error) {
	where, args := logFilter(cfg)
	query := fmt.Sprintf(`SELECT id, logged_at, activity, distraction_count, distraction_factor
		FROM focus_logs
		WHERE %s
		ORDER BY logged_at ASC, seq ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var logs []model.FocusLog
	for rows.Next() {
		var entry model.FocusLog
		var loggedAt, activity, factor string
		if err := rows.Scan(&entry.ID, &loggedAt, &activity, &entry.DistractionCount, &factor); err != nil {
			return nil, err
		}
		parsed, err := parseTime(loggedAt)
		if err != nil {
			return nil, err
		}
		entry.Timestamp = parsed
		entry.Activity = model.Activity(activity)
		entry.DistractionFactor = model.DistractionFactor(factor)
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Activity != "" {
		clauses = append(clauses, "s.activity = ?")
		args = append(args, string(cfg.Activity))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "s.ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	query := fmt.Sprintf(`SELECT s.id, s.activity, s.ended_at, s.elapsed_seconds, s.ended_early,
			COUNT(l.id), COALESCE(SUM(l.distraction_count), 0)
		FROM sessions s
		LEFT JOIN focus_logs l ON l.session_id = s.id
		WHERE %s
		GROUP BY s.id
		ORDER BY s.ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var activity, endedAt string
		if err := rows.Scan(&agg.SessionID, &activity, &endedAt, &agg.ElapsedSeconds, &agg.EndedEarly, &agg.Checkins, &agg.DistractionTotal); err != nil {
			return nil, err
		}
		parsed, err := parseTime(endedAt)
		if err != nil {
			return nil, err
		}
		agg.Activity = model.Activity(activity)
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func logFilter(cfg model.StatsConfig) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Activity != "" {
		clauses = append(clauses, "activity = ?")
		args = append(args, string(cfg.Activity))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "logged_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	return strings.Join(clauses, " AND "), args
}

// Fixed-width UTC timestamps so text comparison matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
