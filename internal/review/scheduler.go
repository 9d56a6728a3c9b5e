// Package review implements the spaced resurfacing scheduler: every missed
// concept is tracked as a tag whose review cadence follows a fixed interval
// table, advancing on success and regressing on failure.
package review

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ScheduleDays is the fixed review cadence. Not a fitted decay model, just a
// lookup table indexed by a record's interval position.
var ScheduleDays = []int{1, 3, 7, 14, 30}

// Record is the persisted review state for one (session, tag) pair.
type Record struct {
	SessionID   string
	Tag         string
	IntervalIdx int // always a valid index into ScheduleDays
	NextDue     time.Time
	LastSuccess bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Store is the persistence needed by the scheduler. Upserts must be atomic
// per (session, tag) row.
type Store interface {
	GetReview(ctx context.Context, sessionID, tag string) (*Record, error)
	PutReview(ctx context.Context, rec *Record) error
	DueReviews(ctx context.Context, sessionID string, now time.Time, limit int) ([]Record, error)
	CountDueReviews(ctx context.Context, sessionID string, now time.Time) (int, error)
}

// ErrNotFound is returned by Store.GetReview when a tag is not yet tracked.
// Absence is not an error condition for the scheduler itself.
var ErrNotFound = errors.New("review record not found")

// Scheduler maintains per-tag review cadence. All operations are best
// effort: persistence failures are logged and swallowed so review tracking
// can never abort the scoring flow.
type Scheduler struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewScheduler(store Store, logger *slog.Logger) *Scheduler {
	return &Scheduler{store: store, logger: logger, now: time.Now}
}

// initialIndex picks the starting interval for a fresh tag. A first-time
// success skips the shortest interval; an immediate win is not a weak spot.
func initialIndex(success bool) int {
	if success {
		return 1
	}
	return 0
}

// nextIndex moves an existing record along the schedule. It never overflows
// past the longest interval and never underflows past the shortest.
func nextIndex(idx int, success bool) int {
	if success {
		if idx+1 < len(ScheduleDays) {
			return idx + 1
		}
		return len(ScheduleDays) - 1
	}
	if idx > 0 {
		return idx - 1
	}
	return 0
}

func dueAt(now time.Time, idx int) time.Time {
	return now.Add(time.Duration(ScheduleDays[idx]) * 24 * time.Hour)
}

// RecordResult creates or advances the review record for a tag.
func (s *Scheduler) RecordResult(ctx context.Context, sessionID, tag string, success bool) {
	now := s.now()

	rec, err := s.store.GetReview(ctx, sessionID, tag)
	switch {
	case errors.Is(err, ErrNotFound):
		idx := initialIndex(success)
		rec = &Record{
			SessionID:   sessionID,
			Tag:         tag,
			IntervalIdx: idx,
			NextDue:     dueAt(now, idx),
			LastSuccess: success,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	case err != nil:
		s.logger.Error("review lookup failed", "tag", tag, "error", err)
		return
	default:
		rec.IntervalIdx = nextIndex(rec.IntervalIdx, success)
		rec.NextDue = dueAt(now, rec.IntervalIdx)
		rec.LastSuccess = success
		rec.UpdatedAt = now
	}

	if err := s.store.PutReview(ctx, rec); err != nil {
		s.logger.Error("review upsert failed", "tag", tag, "error", err)
	}
}

// ListDue returns the tags due now, most overdue first, truncated to limit.
// A session with no records gets an empty list, never an error.
func (s *Scheduler) ListDue(ctx context.Context, sessionID string, limit int) []string {
	recs, err := s.store.DueReviews(ctx, sessionID, s.now(), limit)
	if err != nil {
		s.logger.Error("due reviews query failed", "error", err)
		return nil
	}
	tags := make([]string, len(recs))
	for i, r := range recs {
		tags[i] = r.Tag
	}
	return tags
}

// CountDue returns how many tags are due now.
func (s *Scheduler) CountDue(ctx context.Context, sessionID string) int {
	n, err := s.store.CountDueReviews(ctx, sessionID, s.now())
	if err != nil {
		s.logger.Error("due reviews count failed", "error", err)
		return 0
	}
	return n
}
