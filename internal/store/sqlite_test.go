package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enso-trainer/backend/internal/analytics"
	"github.com/enso-trainer/backend/internal/domain/caserun"
	"github.com/enso-trainer/backend/internal/review"
	"github.com/enso-trainer/backend/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReviewRoundtrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.GetReview(ctx, "sess", "TAG")
	assert.ErrorIs(t, err, review.ErrNotFound)

	rec := &review.Record{
		SessionID:   "sess",
		Tag:         "TAG",
		IntervalIdx: 2,
		NextDue:     now.Add(7 * 24 * time.Hour),
		LastSuccess: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, s.PutReview(ctx, rec))

	got, err := s.GetReview(ctx, "sess", "TAG")
	require.NoError(t, err)
	assert.Equal(t, 2, got.IntervalIdx)
	assert.True(t, got.LastSuccess)
	assert.True(t, got.NextDue.Equal(rec.NextDue))

	// Upsert replaces, never duplicates.
	rec.IntervalIdx = 0
	rec.LastSuccess = false
	require.NoError(t, s.PutReview(ctx, rec))
	got, err = s.GetReview(ctx, "sess", "TAG")
	require.NoError(t, err)
	assert.Equal(t, 0, got.IntervalIdx)
	assert.False(t, got.LastSuccess)
}

func TestDueReviews_OrderAndIsolation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	put := func(sessionID, tag string, due time.Time) {
		require.NoError(t, s.PutReview(ctx, &review.Record{
			SessionID: sessionID, Tag: tag, NextDue: due, CreatedAt: now, UpdatedAt: now,
		}))
	}
	put("sess", "OLDEST", now.Add(-72*time.Hour))
	put("sess", "RECENT", now.Add(-1*time.Hour))
	put("sess", "FUTURE", now.Add(24*time.Hour))
	put("other", "OLDEST", now.Add(-72*time.Hour))

	recs, err := s.DueReviews(ctx, "sess", now, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "OLDEST", recs[0].Tag)
	assert.Equal(t, "RECENT", recs[1].Tag)

	n, err := s.CountDueReviews(ctx, "sess", now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	recs, err = s.DueReviews(ctx, "sess", now, 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "OLDEST", recs[0].Tag)
}

func TestProfilePersistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Unknown session reads as a fresh profile, not an error.
	p, err := s.GetProfile(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, "sess", p.SessionID)
	assert.Zero(t, p.XP)

	p.XP = 120
	p.Streak = 3
	p.LastStreakDay = "2026-03-01"
	p.CasesToday = 2
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.GetProfile(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 120, got.XP)
	assert.Equal(t, 3, got.Streak)
	assert.Equal(t, "2026-03-01", got.LastStreakDay)
	assert.Equal(t, 2, got.CasesToday)

	// Upsert path.
	got.XP = 150
	require.NoError(t, s.SaveProfile(ctx, got))
	again, err := s.GetProfile(ctx, "sess")
	require.NoError(t, err)
	assert.Equal(t, 150, again.XP)
}

func TestRunPersistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := &caserun.Run{
		ID:        "run_abc",
		SessionID: "sess",
		CaseID:    3001,
		StageIdx:  2,
		Score:     55,
		XPEarned:  51,
		Breakdown: []string{"+35 XP: Correct: Immediate Priority"},
		HintsUsed: map[string]int{"priority": 1},
		Decisions: map[string]caserun.Decision{
			"priority": {ChoiceID: "B", Confidence: 80, Correct: true},
		},
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run_abc")
	require.NoError(t, err)
	assert.Equal(t, run.SessionID, got.SessionID)
	assert.Equal(t, run.Score, got.Score)
	assert.Equal(t, run.Decisions["priority"], got.Decisions["priority"])
	assert.Equal(t, 1, got.HintsUsed["priority"])

	// Save is an upsert keyed by run id.
	run.Score = 70
	require.NoError(t, s.SaveRun(ctx, run))
	got, err = s.GetRun(ctx, "run_abc")
	require.NoError(t, err)
	assert.Equal(t, 70, got.Score)

	require.NoError(t, s.DeleteRun(ctx, "run_abc"))
	_, err = s.GetRun(ctx, "run_abc")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteRun(ctx, "run_abc"), store.ErrNotFound)
}

func TestEventAppendAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	correct := true
	score := 88
	first := &analytics.Event{
		TS:        time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		SessionID: "sess",
		Name:      "start_case",
		Topic:     "ED,Cardio",
		CaseID:    3001,
		Variant:   analytics.Variant,
	}
	second := &analytics.Event{
		TS:         time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC),
		SessionID:  "sess",
		Name:       "case_feedback",
		CaseID:     3001,
		Correct:    &correct,
		FromReview: true,
		Variant:    analytics.Variant,
		Score:      &score,
	}
	require.NoError(t, s.AppendEvent(ctx, first))
	require.NoError(t, s.AppendEvent(ctx, second))

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Newest first.
	assert.Equal(t, "case_feedback", events[0].Name)
	require.NotNil(t, events[0].Correct)
	assert.True(t, *events[0].Correct)
	assert.True(t, events[0].FromReview)
	require.NotNil(t, events[0].Score)
	assert.Equal(t, 88, *events[0].Score)
	assert.Nil(t, events[0].Total)

	assert.Equal(t, "start_case", events[1].Name)
	assert.Nil(t, events[1].Correct)
	assert.Equal(t, "ED,Cardio", events[1].Topic)
}
