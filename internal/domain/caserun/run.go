package caserun

import (
	"fmt"
	"time"

	"github.com/enso-trainer/backend/internal/domain/clinicalcase"
	"github.com/enso-trainer/backend/internal/id"
)

// Decision records what the user did on one stage.
type Decision struct {
	ChoiceID   string   `json:"choice_id,omitempty"`
	Confidence int      `json:"confidence,omitempty"`
	Correct    bool     `json:"correct"`
	Note       string   `json:"note,omitempty"`
	Ranks      []string `json:"ranks,omitempty"`
	Ticked     []string `json:"ticked,omitempty"`
	Text       string   `json:"text,omitempty"`
}

// Run is the mutable state of one in-progress case attempt, owned by a
// session. It is created on start, mutated once per stage submission,
// finalized when the flow ends, and discarded after feedback.
type Run struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	CaseID    int    `json:"case_id"`

	StageIdx  int      `json:"stage_idx"`
	Score     int      `json:"score"`
	XPEarned  int      `json:"xp_earned"`
	Breakdown []string `json:"breakdown"` // append-only point lines for display

	HintsUsed map[string]int      `json:"hints_used"`
	Decisions map[string]Decision `json:"decisions"`

	WrongChoices    int      `json:"wrong_choices"`    // wrong single-choice answers
	SafetyMiss      bool     `json:"safety_miss"`      // a safety-critical option was missed
	MissingRequired []string `json:"missing_required"` // checklist stage titles with required items missed

	Vitals        clinicalcase.Vitals `json:"vitals"`
	ReviewTargets []string            `json:"review_targets"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Finished   bool      `json:"finished"`
}

// New starts a run at the first stage of the given case.
func New(c *clinicalcase.Case, sessionID string, reviewTargets []string, now time.Time) *Run {
	return &Run{
		ID:            id.New("run"),
		SessionID:     sessionID,
		CaseID:        c.ID,
		HintsUsed:     make(map[string]int),
		Decisions:     make(map[string]Decision),
		Vitals:        c.VitalsInitial,
		ReviewTargets: reviewTargets,
		StartedAt:     now,
	}
}

// CurrentStageKey returns the key of the stage awaiting a submission,
// or false once the flow is exhausted.
func (r *Run) CurrentStageKey(c *clinicalcase.Case) (string, bool) {
	if r.StageIdx < 0 || r.StageIdx >= len(c.Stages) {
		return "", false
	}
	return c.Stages[r.StageIdx].Key, true
}

// AddPoints applies a delta to both the case score and the XP tally
// and appends a breakdown line.
func (r *Run) AddPoints(delta int, reason string) {
	r.Score += delta
	r.XPEarned += delta
	if delta >= 0 {
		r.Breakdown = append(r.Breakdown, fmt.Sprintf("+%d XP: %s", delta, reason))
	} else {
		r.Breakdown = append(r.Breakdown, fmt.Sprintf("%d XP: %s", delta, reason))
	}
}

// AddNote appends a breakdown line that carries no points.
func (r *Run) AddNote(line string) {
	r.Breakdown = append(r.Breakdown, line)
}

// FlagMissingRequired records a safety-cap flag keyed by the stage title.
func (r *Run) FlagMissingRequired(stageTitle string) {
	for _, t := range r.MissingRequired {
		if t == stageTitle {
			return
		}
	}
	r.MissingRequired = append(r.MissingRequired, stageTitle)
}

// Submitted reports whether the stage already has a recorded decision.
func (r *Run) Submitted(stageKey string) bool {
	_, ok := r.Decisions[stageKey]
	return ok
}

// Elapsed is the wall-clock time since the case was started.
func (r *Run) Elapsed(now time.Time) time.Duration {
	return now.Sub(r.StartedAt)
}
