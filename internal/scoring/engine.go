// Package scoring converts stage submissions into point deltas and produces
// the final bounded case score with a transparent breakdown.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/enso-trainer/backend/internal/domain/caserun"
	"github.com/enso-trainer/backend/internal/domain/clinicalcase"
)

// Malformed-input and sequencing errors. All of them leave the run untouched.
var (
	ErrUnknownStage     = errors.New("unknown stage")
	ErrOutOfOrder       = errors.New("stage is not the current stage")
	ErrAlreadySubmitted = errors.New("stage already submitted")
	ErrMissingChoice    = errors.New("no option chosen")
	ErrUnknownOption    = errors.New("unknown option id")
	ErrUnknownRankItem  = errors.New("rank item is not part of this stage")
	ErrUnknownCheckItem = errors.New("checklist item is not part of this stage")
)

// ReviewSink receives success/failure signals for weak-spot tags.
// The production implementation is the review.Scheduler.
type ReviewSink interface {
	RecordResult(ctx context.Context, sessionID, tag string, success bool)
}

// Input is the loosely-typed bag of form values for one stage submission.
// Which fields matter depends on the stage kind.
type Input struct {
	ChoiceID   string
	Confidence int
	Ranks      []string
	Ticked     []string
	Text       string
}

// Engine scores stage submissions against a fixed policy and signals the
// review sink at each transition. All of its arithmetic is total over
// clamped inputs; nothing in here can panic on user data.
type Engine struct {
	policy  Policy
	reviews ReviewSink
}

func NewEngine(policy Policy, reviews ReviewSink) *Engine {
	return &Engine{policy: policy, reviews: reviews}
}

func (e *Engine) Policy() Policy { return e.policy }

// SubmitStage scores one submission, mutates the run, and returns the point
// delta. Replays and out-of-order submissions are rejected with the run
// unchanged.
func (e *Engine) SubmitStage(ctx context.Context, c *clinicalcase.Case, run *caserun.Run, stageKey string, in Input) (int, error) {
	stage, ok := c.Stage(stageKey)
	if !ok {
		return 0, ErrUnknownStage
	}
	current, ok := run.CurrentStageKey(c)
	if !ok || current != stageKey {
		if run.Submitted(stageKey) {
			return 0, ErrAlreadySubmitted
		}
		return 0, ErrOutOfOrder
	}
	if run.Submitted(stageKey) {
		return 0, ErrAlreadySubmitted
	}

	before := run.Score

	var err error
	switch stage.Kind {
	case clinicalcase.KindInfo:
		e.scoreInfo(stage, run)
	case clinicalcase.KindSingleChoice:
		err = e.scoreSingleChoice(ctx, stage, run, in)
	case clinicalcase.KindRanking:
		err = e.scoreRanking(ctx, stage, run, in)
	case clinicalcase.KindChecklist:
		err = e.scoreChecklist(ctx, stage, run, in)
	case clinicalcase.KindFreeText:
		e.scoreFreeText(stage, run, in)
	default:
		err = ErrUnknownStage
	}
	if err != nil {
		return 0, err
	}

	run.StageIdx++
	return run.Score - before, nil
}

func (e *Engine) scoreInfo(stage *clinicalcase.Stage, run *caserun.Run) {
	if stage.Points > 0 {
		run.AddPoints(stage.Points, stage.Title)
	}
	run.Decisions[stage.Key] = caserun.Decision{}
}

func (e *Engine) scoreSingleChoice(ctx context.Context, stage *clinicalcase.Stage, run *caserun.Run, in Input) error {
	if in.ChoiceID == "" {
		return ErrMissingChoice
	}
	chosen := stage.OptionByID(in.ChoiceID)
	if chosen == nil {
		return ErrUnknownOption
	}
	correctOpt := stage.CorrectOption()
	correct := chosen.Correct

	var note string
	if correct {
		run.AddPoints(stage.Points, "Correct: "+stage.Title)
		run.Vitals = run.Vitals.Apply(stage.IfCorrect.VitalsDelta)
		note = stage.IfCorrect.Note
		if correctOpt.ReviewTag != "" {
			e.reviews.RecordResult(ctx, run.SessionID, correctOpt.ReviewTag, true)
		}
	} else {
		run.WrongChoices++
		run.Vitals = run.Vitals.Apply(stage.IfWrong.VitalsDelta)
		note = stage.IfWrong.Note
		if correctOpt.SafetyCritical {
			run.SafetyMiss = true
			run.AddNote("Safety-critical decision missed: " + stage.Title)
		}
		if chosen.Dangerous {
			run.AddPoints(-e.policy.DangerousChoiceMalus, "Dangerous choice: "+stage.Title)
		}
		// Signal the tag of whatever the user actually picked; fall back to
		// the correct option's tag so the concept is still tracked.
		tag := chosen.ReviewTag
		if tag == "" {
			tag = correctOpt.ReviewTag
		}
		if tag != "" {
			e.reviews.RecordResult(ctx, run.SessionID, tag, false)
		}
	}

	conf := clampConfidence(in.Confidence)
	cal := CalibrationPoints(correct, conf)
	run.AddPoints(cal, "Calibration ("+stage.Key+")")

	run.Decisions[stage.Key] = caserun.Decision{
		ChoiceID:   in.ChoiceID,
		Confidence: conf,
		Correct:    correct,
		Note:       note,
	}
	return nil
}

func (e *Engine) scoreRanking(ctx context.Context, stage *clinicalcase.Stage, run *caserun.Run, in Input) error {
	ranks := make([]string, 3)
	copy(ranks, in.Ranks)

	known := make(map[string]bool, len(stage.Items))
	for _, it := range stage.Items {
		known[it] = true
	}
	for _, r := range ranks {
		if r != "" && !known[r] {
			return ErrUnknownRankItem
		}
	}

	pts := 0
	for i := 0; i < 3; i++ {
		if ranks[i] != "" && ranks[i] == stage.DesiredOrder[i] {
			pts += e.policy.RankPoints[i]
		}
	}

	if hasDupOrBlank(ranks) {
		pts -= e.policy.RankDupMalus
		run.AddNote(fmt.Sprintf("-%d XP: Duplicate/missing ranking", e.policy.RankDupMalus))
	}
	if pts < 0 {
		pts = 0
	}
	if pts > e.policy.RankingMax {
		pts = e.policy.RankingMax
	}
	run.AddPoints(pts, stage.Title)

	if stage.ReviewTag != "" {
		e.reviews.RecordResult(ctx, run.SessionID, stage.ReviewTag, ranks[0] == stage.DesiredOrder[0])
	}

	run.Decisions[stage.Key] = caserun.Decision{
		Ranks:   ranks,
		Correct: ranks[0] == stage.DesiredOrder[0],
	}
	return nil
}

func hasDupOrBlank(ranks []string) bool {
	seen := make(map[string]bool, len(ranks))
	for _, r := range ranks {
		if r == "" {
			return true
		}
		if seen[r] {
			return true
		}
		seen[r] = true
	}
	return false
}

func (e *Engine) scoreChecklist(ctx context.Context, stage *clinicalcase.Stage, run *caserun.Run, in Input) error {
	known := make(map[string]clinicalcase.ChecklistItem, len(stage.Checklist))
	for _, it := range stage.Checklist {
		known[it.Text] = it
	}
	ticked := make(map[string]bool, len(in.Ticked))
	for _, t := range in.Ticked {
		if _, ok := known[t]; !ok {
			return ErrUnknownCheckItem
		}
		ticked[t] = true
	}

	var missing []string
	tickedRequired := 0
	required := 0
	unsafeHeavy, unsafeModerate := 0, 0
	for _, it := range stage.Checklist {
		switch {
		case it.Required:
			required++
			if ticked[it.Text] {
				tickedRequired++
			} else {
				missing = append(missing, it.Text)
			}
		case it.Contra && ticked[it.Text]:
			if it.Severity == clinicalcase.SeverityHeavy {
				unsafeHeavy++
			} else {
				unsafeModerate++
			}
		}
	}
	sort.Strings(missing)

	pts := 0
	switch {
	case len(missing) == 0:
		pts = stage.Points
	case tickedRequired*2 >= required && unsafeHeavy == 0 && unsafeModerate == 0:
		pts = e.policy.PartialChecklistPoints(stage.Points)
	}
	run.AddPoints(pts, stage.Title)

	// Maluses stack: one per unsafe category, not per item.
	if unsafeHeavy > 0 {
		run.AddPoints(-e.policy.ContraHeavyMalus, "Contraindicated selection (severe): "+stage.Title)
	}
	if unsafeModerate > 0 {
		run.AddPoints(-e.policy.ContraModerateMalus, "Contraindicated selection (moderate): "+stage.Title)
	}

	if len(missing) > 0 {
		run.FlagMissingRequired(stage.Title)
		run.AddNote(fmt.Sprintf("Required action missed in %s: %s", stage.Title, strings.Join(missing, "; ")))
	}

	if stage.ReviewTag != "" {
		success := len(missing) == 0 && unsafeHeavy == 0 && unsafeModerate == 0
		e.reviews.RecordResult(ctx, run.SessionID, stage.ReviewTag, success)
	}

	run.Decisions[stage.Key] = caserun.Decision{
		Ticked:  in.Ticked,
		Correct: len(missing) == 0 && unsafeHeavy == 0 && unsafeModerate == 0,
	}
	return nil
}

func (e *Engine) scoreFreeText(stage *clinicalcase.Stage, run *caserun.Run, in Input) {
	text := strings.ToLower(in.Text)
	matched := 0
	for _, group := range stage.KeywordGroups {
		for _, syn := range group {
			if strings.Contains(text, strings.ToLower(syn)) {
				matched++
				break
			}
		}
	}
	pts := matched * e.policy.KeywordGroupPoints
	if pts > e.policy.KeywordMax {
		pts = e.policy.KeywordMax
	}
	run.AddPoints(pts, stage.Title)

	run.Decisions[stage.Key] = caserun.Decision{
		Text:    in.Text,
		Correct: matched == len(stage.KeywordGroups),
	}
}

// Finalize applies the speed bonus and exactly one end-of-case cap, then
// clamps the score into [0, 100]. Safe to call once the flow is exhausted.
func (e *Engine) Finalize(run *caserun.Run, now time.Time) int {
	elapsed := run.Elapsed(now)
	switch {
	case elapsed <= time.Duration(e.policy.FastMinutes)*time.Minute:
		run.AddPoints(e.policy.SpeedBonusFast, "Speed bonus")
	case elapsed <= time.Duration(e.policy.OKMinutes)*time.Minute:
		run.AddPoints(e.policy.SpeedBonusOK, "Speed bonus")
	}

	// Exactly one cap, in priority order. A safety-critical miss beats
	// everything else regardless of how the rest of the case went.
	switch {
	case run.SafetyMiss:
		e.cap(run, e.policy.SafetyMissCap, "safety-critical miss")
	case len(run.MissingRequired) > 0:
		e.cap(run, e.policy.ChecklistMissCap, "required actions missed: "+strings.Join(run.MissingRequired, ", "))
	case run.WrongChoices >= 2:
		e.cap(run, e.policy.TwoWrongCap, "two wrong decisions")
	case run.WrongChoices == 1:
		e.cap(run, e.policy.OneWrongCap, "one wrong decision")
	}

	if run.Score > 100 {
		run.Score = 100
	}
	if run.Score < 0 {
		run.Score = 0
	}
	run.FinishedAt = now
	run.Finished = true
	return run.Score
}

// cap clamps the case score to a ceiling. XP earned is left alone: caps are
// about the case grade, not about clawing back experience.
func (e *Engine) cap(run *caserun.Run, ceiling int, reason string) {
	run.AddNote(fmt.Sprintf("Score capped at %d (%s)", ceiling, reason))
	if run.Score > ceiling {
		run.Score = ceiling
	}
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}
