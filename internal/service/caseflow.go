// Package service sequences case runs: which stage is active, feeding user
// input into the scoring engine, and settling XP/streak when a case ends.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/enso-trainer/backend/internal/analytics"
	"github.com/enso-trainer/backend/internal/domain/caserun"
	"github.com/enso-trainer/backend/internal/domain/clinicalcase"
	"github.com/enso-trainer/backend/internal/domain/profile"
	"github.com/enso-trainer/backend/internal/review"
	"github.com/enso-trainer/backend/internal/scoring"
	"github.com/enso-trainer/backend/internal/store"
)

var (
	ErrCaseNotFound   = errors.New("case not found")
	ErrNoMoreHints    = errors.New("no more hints for this stage")
	ErrRunFinished    = errors.New("run is already finished")
	ErrRunNotFinished = errors.New("run is not finished yet")
)

// reviewTargetLimit caps how many due tags a new run advertises as targets.
const reviewTargetLimit = 3

// CaseService owns the run lifecycle. All per-session state lives in the
// store; the service itself holds only immutable case definitions.
type CaseService struct {
	store   store.Store
	engine  *scoring.Engine
	reviews *review.Scheduler
	events  *analytics.Recorder
	cases   map[int]*clinicalcase.Case
	logger  *slog.Logger
	now     func() time.Time
}

func NewCaseService(s store.Store, engine *scoring.Engine, reviews *review.Scheduler, events *analytics.Recorder, cases []*clinicalcase.Case, logger *slog.Logger) *CaseService {
	byID := make(map[int]*clinicalcase.Case, len(cases))
	for _, c := range cases {
		byID[c.ID] = c
	}
	return &CaseService{
		store:   s,
		engine:  engine,
		reviews: reviews,
		events:  events,
		cases:   byID,
		logger:  logger,
		now:     time.Now,
	}
}

// Case returns a case definition by id.
func (cs *CaseService) Case(id int) (*clinicalcase.Case, bool) {
	c, ok := cs.cases[id]
	return c, ok
}

// Cases lists all loaded case definitions.
func (cs *CaseService) Cases() []*clinicalcase.Case {
	out := make([]*clinicalcase.Case, 0, len(cs.cases))
	for _, c := range cs.cases {
		out = append(out, c)
	}
	return out
}

// ── Home view ───────────────────────────────────────────────────────────────

type HomeView struct {
	Streak     int
	XP         int
	CasesToday int
	DueCount   int
	DueTags    []string
}

func (cs *CaseService) Home(ctx context.Context, sessionID string) (*HomeView, error) {
	p, err := cs.store.GetProfile(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &HomeView{
		Streak:     p.Streak,
		XP:         p.XP,
		CasesToday: p.CasesCompletedToday(cs.today()),
		DueCount:   cs.reviews.CountDue(ctx, sessionID),
		DueTags:    cs.reviews.ListDue(ctx, sessionID, reviewTargetLimit),
	}, nil
}

// ── Run lifecycle ───────────────────────────────────────────────────────────

// StartRun creates a run at the first stage. Due review tags are attached as
// display targets; they do not change which case is served.
func (cs *CaseService) StartRun(ctx context.Context, sessionID string, caseID int) (*caserun.Run, error) {
	c, ok := cs.cases[caseID]
	if !ok {
		return nil, ErrCaseNotFound
	}

	targets := cs.reviews.ListDue(ctx, sessionID, reviewTargetLimit)
	run := caserun.New(c, sessionID, targets, cs.now())
	if err := cs.store.SaveRun(ctx, run); err != nil {
		return nil, err
	}

	cs.events.Log(ctx, analytics.Event{
		SessionID:  sessionID,
		Name:       "start_case",
		Topic:      strings.Join(c.Systems, ","),
		CaseID:     c.ID,
		FromReview: len(targets) > 0,
	})
	return run, nil
}

// GetRun loads a run owned by the session. Another session's run id is
// indistinguishable from a missing one.
func (cs *CaseService) GetRun(ctx context.Context, sessionID, runID string) (*caserun.Run, *clinicalcase.Case, error) {
	run, err := cs.store.GetRun(ctx, runID)
	if err != nil {
		return nil, nil, err
	}
	if run.SessionID != sessionID {
		return nil, nil, store.ErrNotFound
	}
	c, ok := cs.cases[run.CaseID]
	if !ok {
		return nil, nil, ErrCaseNotFound
	}
	return run, c, nil
}

// SubmitStage scores one stage submission and persists the updated run.
// When the last stage lands, the run is finalized in the same call.
func (cs *CaseService) SubmitStage(ctx context.Context, sessionID, runID, stageKey string, in scoring.Input) (*caserun.Run, int, error) {
	run, c, err := cs.GetRun(ctx, sessionID, runID)
	if err != nil {
		return nil, 0, err
	}
	if run.Finished {
		return nil, 0, ErrRunFinished
	}

	delta, err := cs.engine.SubmitStage(ctx, c, run, stageKey, in)
	if err != nil {
		return nil, 0, err
	}

	if _, more := run.CurrentStageKey(c); !more {
		final := cs.engine.Finalize(run, cs.now())
		cs.events.Log(ctx, analytics.Event{
			SessionID:  sessionID,
			Name:       "case_feedback",
			Topic:      strings.Join(c.Systems, ","),
			CaseID:     c.ID,
			Score:      analytics.Int(final),
			Total:      analytics.Int(100),
			Percent:    analytics.Int(final),
			FromReview: len(run.ReviewTargets) > 0,
		})
	}

	if err := cs.store.SaveRun(ctx, run); err != nil {
		return nil, 0, err
	}

	dec := run.Decisions[stageKey]
	cs.events.Log(ctx, analytics.Event{
		SessionID:  sessionID,
		Name:       stageKey + "_decision",
		Topic:      strings.Join(c.Systems, ","),
		CaseID:     c.ID,
		Correct:    analytics.Bool(dec.Correct),
		Score:      analytics.Int(run.Score),
		FromReview: len(run.ReviewTargets) > 0,
	})

	return run, delta, nil
}

// UseHint reveals the next hint on a stage and charges its XP cost against
// the run. Costs settle into the profile when the run finishes.
func (cs *CaseService) UseHint(ctx context.Context, sessionID, runID, stageKey string) (string, int, error) {
	run, c, err := cs.GetRun(ctx, sessionID, runID)
	if err != nil {
		return "", 0, err
	}
	if run.Finished {
		return "", 0, ErrRunFinished
	}
	stage, ok := c.Stage(stageKey)
	if !ok {
		return "", 0, scoring.ErrUnknownStage
	}

	used := run.HintsUsed[stageKey]
	if used >= len(stage.Hints) {
		return "", 0, ErrNoMoreHints
	}

	cost := cs.engine.Policy().HintCost(used)
	run.XPEarned -= cost
	run.AddNote(fmt.Sprintf("-%d XP: Hint used (%s, level %d)", cost, stageKey, used+1))
	run.HintsUsed[stageKey] = used + 1

	if err := cs.store.SaveRun(ctx, run); err != nil {
		return "", 0, err
	}
	return stage.Hints[used], cost, nil
}

// ── Feedback ────────────────────────────────────────────────────────────────

type FeedbackView struct {
	Score              int
	Calibration        map[string]int
	CalibrationAvg     float64
	Badges             []string
	Breakdown          []string
	ReviewSuggestions  []string
	Rationale          string
	Takeaways          []string
	Reference          string
	CurriculumOutcomes []string
	EscalationCues     []string
}

// Feedback assembles the end-of-case summary for a finalized run.
func (cs *CaseService) Feedback(ctx context.Context, sessionID, runID string) (*FeedbackView, error) {
	run, c, err := cs.GetRun(ctx, sessionID, runID)
	if err != nil {
		return nil, err
	}
	if !run.Finished {
		return nil, ErrRunNotFinished
	}

	calib := make(map[string]int)
	var calibSum, calibN int
	for i := range c.Stages {
		s := &c.Stages[i]
		if s.Kind != clinicalcase.KindSingleChoice {
			continue
		}
		d, ok := run.Decisions[s.Key]
		pts := 0
		if ok {
			pts = scoring.CalibrationPoints(d.Correct, d.Confidence)
		}
		calib[s.Key] = pts
		calibSum += pts
		calibN++
	}
	calibAvg := 0.0
	if calibN > 0 {
		calibAvg = math.Round(float64(calibSum)/float64(calibN)*10) / 10
	}

	totalHints := 0
	for _, n := range run.HintsUsed {
		totalHints += n
	}

	var badges []string
	if totalHints == 0 {
		badges = append(badges, "No Hints")
	}
	if run.Elapsed(run.FinishedAt) <= time.Duration(cs.engine.Policy().FastMinutes)*time.Minute {
		badges = append(badges, "Fast Finish")
	}
	if calibAvg >= 8 {
		badges = append(badges, "Well-Calibrated")
	}

	var suggestions []string
	nailedSafety := false
	for i := range c.Stages {
		s := &c.Stages[i]
		if s.Kind != clinicalcase.KindSingleChoice {
			continue
		}
		d, ok := run.Decisions[s.Key]
		if ok && d.Correct {
			if s.CorrectOption().SafetyCritical {
				nailedSafety = true
			}
			continue
		}
		if tag := s.CorrectOption().ReviewTag; tag != "" {
			suggestions = append(suggestions, tag)
		}
	}
	// Awarded once per run, and never when another stage missed a
	// safety-critical option.
	if nailedSafety && !run.SafetyMiss {
		badges = append(badges, "Perfect Priority")
	}

	return &FeedbackView{
		Score:              run.Score,
		Calibration:        calib,
		CalibrationAvg:     calibAvg,
		Badges:             badges,
		Breakdown:          run.Breakdown,
		ReviewSuggestions:  suggestions,
		Rationale:          c.Rationale,
		Takeaways:          c.Takeaways,
		Reference:          c.Reference,
		CurriculumOutcomes: c.CurriculumOutcomes,
		EscalationCues:     c.EscalationCues,
	}, nil
}

// FinishRun settles the run into the profile: XP is applied (floored at
// zero), the streak bumps once per calendar day, and the run is discarded.
func (cs *CaseService) FinishRun(ctx context.Context, sessionID, runID string) (*profile.Profile, error) {
	run, c, err := cs.GetRun(ctx, sessionID, runID)
	if err != nil {
		return nil, err
	}
	if !run.Finished {
		return nil, ErrRunNotFinished
	}

	p, err := cs.store.GetProfile(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	p.AddXP(run.XPEarned)
	p.CompleteCase(cs.today())
	if err := cs.store.SaveProfile(ctx, p); err != nil {
		return nil, err
	}

	if err := cs.store.DeleteRun(ctx, runID); err != nil && !errors.Is(err, store.ErrNotFound) {
		cs.logger.Error("failed to discard finished run", "run_id", runID, "error", err)
	}

	cs.events.Log(ctx, analytics.Event{
		SessionID: sessionID,
		Name:      "case_done",
		Topic:     strings.Join(c.Systems, ","),
		CaseID:    c.ID,
		Score:     analytics.Int(run.Score),
		Total:     analytics.Int(100),
		Percent:   analytics.Int(run.Score),
	})
	return p, nil
}

func (cs *CaseService) today() string {
	return cs.now().Format("2006-01-02")
}
