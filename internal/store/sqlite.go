package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/enso-trainer/backend/internal/analytics"
	"github.com/enso-trainer/backend/internal/domain/caserun"
	"github.com/enso-trainer/backend/internal/domain/profile"
	"github.com/enso-trainer/backend/internal/review"
)

const schema = `
CREATE TABLE IF NOT EXISTS spaced (
    session_id TEXT NOT NULL,
    tag TEXT NOT NULL,
    interval_idx INTEGER NOT NULL,
    next_due_ts INTEGER NOT NULL,
    last_result INTEGER NOT NULL,
    created_ts INTEGER NOT NULL,
    updated_ts INTEGER NOT NULL,
    PRIMARY KEY (session_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_spaced_due ON spaced (session_id, next_due_ts);

CREATE TABLE IF NOT EXISTS events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts TEXT NOT NULL,
    session_id TEXT,
    event TEXT NOT NULL,
    topic TEXT,
    case_id INTEGER,
    correct INTEGER,
    from_review INTEGER NOT NULL DEFAULT 0,
    variant TEXT,
    score INTEGER,
    total INTEGER,
    percent INTEGER
);

CREATE TABLE IF NOT EXISTS profiles (
    session_id TEXT PRIMARY KEY,
    xp INTEGER NOT NULL DEFAULT 0,
    streak INTEGER NOT NULL DEFAULT 0,
    last_streak_day TEXT NOT NULL DEFAULT '',
    cases_today INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS case_runs (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL,
    state TEXT NOT NULL
);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Review records (spaced resurfacing)
// ============================================================================

func (s *SQLiteStore) GetReview(ctx context.Context, sessionID, tag string) (*review.Record, error) {
	var rec review.Record
	var lastResult int
	var nextDue, created, updated int64

	err := s.db.QueryRowContext(ctx,
		"SELECT session_id, tag, interval_idx, next_due_ts, last_result, created_ts, updated_ts FROM spaced WHERE session_id = ? AND tag = ?",
		sessionID, tag,
	).Scan(&rec.SessionID, &rec.Tag, &rec.IntervalIdx, &nextDue, &lastResult, &created, &updated)
	if err == sql.ErrNoRows {
		return nil, review.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rec.NextDue = time.Unix(nextDue, 0)
	rec.LastSuccess = lastResult == 1
	rec.CreatedAt = time.Unix(created, 0)
	rec.UpdatedAt = time.Unix(updated, 0)
	return &rec, nil
}

// PutReview upserts a record atomically so concurrent sessions never see a
// half-written row.
func (s *SQLiteStore) PutReview(ctx context.Context, rec *review.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO spaced (session_id, tag, interval_idx, next_due_ts, last_result, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, tag) DO UPDATE SET
		    interval_idx = excluded.interval_idx,
		    next_due_ts = excluded.next_due_ts,
		    last_result = excluded.last_result,
		    updated_ts = excluded.updated_ts`,
		rec.SessionID, rec.Tag, rec.IntervalIdx, rec.NextDue.Unix(),
		boolToInt(rec.LastSuccess), rec.CreatedAt.Unix(), rec.UpdatedAt.Unix(),
	)
	return err
}

func (s *SQLiteStore) DueReviews(ctx context.Context, sessionID string, now time.Time, limit int) ([]review.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, tag, interval_idx, next_due_ts, last_result, created_ts, updated_ts
		FROM spaced
		WHERE session_id = ? AND next_due_ts <= ?
		ORDER BY next_due_ts ASC
		LIMIT ?`,
		sessionID, now.Unix(), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []review.Record
	for rows.Next() {
		var rec review.Record
		var lastResult int
		var nextDue, created, updated int64
		if err := rows.Scan(&rec.SessionID, &rec.Tag, &rec.IntervalIdx, &nextDue, &lastResult, &created, &updated); err != nil {
			return nil, err
		}
		rec.NextDue = time.Unix(nextDue, 0)
		rec.LastSuccess = lastResult == 1
		rec.CreatedAt = time.Unix(created, 0)
		rec.UpdatedAt = time.Unix(updated, 0)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *SQLiteStore) CountDueReviews(ctx context.Context, sessionID string, now time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM spaced WHERE session_id = ? AND next_due_ts <= ?",
		sessionID, now.Unix(),
	).Scan(&n)
	return n, err
}

// ============================================================================
// Analytics events
// ============================================================================

func (s *SQLiteStore) AppendEvent(ctx context.Context, e *analytics.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (ts, session_id, event, topic, case_id, correct, from_review, variant, score, total, percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TS.Format(time.RFC3339), e.SessionID, e.Name, e.Topic, e.CaseID,
		optBoolToInt(e.Correct), boolToInt(e.FromReview), e.Variant,
		e.Score, e.Total, e.Percent,
	)
	return err
}

func (s *SQLiteStore) ListEvents(ctx context.Context) ([]analytics.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts, session_id, event, topic, case_id, correct, from_review, variant, score, total, percent
		FROM events ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []analytics.Event
	for rows.Next() {
		var e analytics.Event
		var ts string
		var sessionID, topic, variant sql.NullString
		var caseID, correct, score, total, percent sql.NullInt64
		var fromReview int
		if err := rows.Scan(&ts, &sessionID, &e.Name, &topic, &caseID, &correct, &fromReview, &variant, &score, &total, &percent); err != nil {
			return nil, err
		}
		e.TS, _ = time.Parse(time.RFC3339, ts)
		e.SessionID = sessionID.String
		e.Topic = topic.String
		e.CaseID = int(caseID.Int64)
		e.Variant = variant.String
		e.FromReview = fromReview == 1
		if correct.Valid {
			v := correct.Int64 == 1
			e.Correct = &v
		}
		if score.Valid {
			v := int(score.Int64)
			e.Score = &v
		}
		if total.Valid {
			v := int(total.Int64)
			e.Total = &v
		}
		if percent.Valid {
			v := int(percent.Int64)
			e.Percent = &v
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ============================================================================
// Profiles
// ============================================================================

// GetProfile returns the session's profile, or a fresh zero profile when the
// session has never been seen. Absence is not an error.
func (s *SQLiteStore) GetProfile(ctx context.Context, sessionID string) (*profile.Profile, error) {
	p := profile.New(sessionID)
	err := s.db.QueryRowContext(ctx,
		"SELECT xp, streak, last_streak_day, cases_today FROM profiles WHERE session_id = ?",
		sessionID,
	).Scan(&p.XP, &p.Streak, &p.LastStreakDay, &p.CasesToday)
	if err == sql.ErrNoRows {
		return p, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLiteStore) SaveProfile(ctx context.Context, p *profile.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (session_id, xp, streak, last_streak_day, cases_today)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
		    xp = excluded.xp,
		    streak = excluded.streak,
		    last_streak_day = excluded.last_streak_day,
		    cases_today = excluded.cases_today`,
		p.SessionID, p.XP, p.Streak, p.LastStreakDay, p.CasesToday,
	)
	return err
}

// ============================================================================
// Case runs
// ============================================================================

// Runs are stored as a JSON blob: the nested decision/breakdown state has no
// reader other than the Go code, so a relational split buys nothing.

func (s *SQLiteStore) SaveRun(ctx context.Context, r *caserun.Run) error {
	state, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO case_runs (id, session_id, state) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET state = excluded.state`,
		r.ID, r.SessionID, string(state),
	)
	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*caserun.Run, error) {
	var state string
	err := s.db.QueryRowContext(ctx, "SELECT state FROM case_runs WHERE id = ?", runID).Scan(&state)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var r caserun.Run
	if err := json.Unmarshal([]byte(state), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) DeleteRun(ctx context.Context, runID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM case_runs WHERE id = ?", runID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func optBoolToInt(v *bool) any {
	if v == nil {
		return nil
	}
	return boolToInt(*v)
}
