package caserun_test

import (
	"strings"
	"testing"
	"time"

	"github.com/enso-trainer/backend/internal/domain/caserun"
	"github.com/enso-trainer/backend/internal/domain/clinicalcase"
)

func twoStageCase() *clinicalcase.Case {
	return &clinicalcase.Case{
		ID:            7,
		VitalsInitial: clinicalcase.Vitals{HR: 80},
		Stages: []clinicalcase.Stage{
			{Key: "one", Kind: clinicalcase.KindInfo},
			{Key: "two", Kind: clinicalcase.KindInfo},
		},
	}
}

func TestNew_StartsAtFirstStage(t *testing.T) {
	c := twoStageCase()
	run := caserun.New(c, "sess", []string{"TAG"}, time.Now())

	if !strings.HasPrefix(run.ID, "run_") {
		t.Errorf("run id %q missing prefix", run.ID)
	}
	if run.Vitals.HR != 80 {
		t.Errorf("vitals not copied from case: %+v", run.Vitals)
	}

	key, ok := run.CurrentStageKey(c)
	if !ok || key != "one" {
		t.Errorf("CurrentStageKey = %q, %v", key, ok)
	}

	run.StageIdx = 2
	if _, ok := run.CurrentStageKey(c); ok {
		t.Error("exhausted run should have no current stage")
	}
}

func TestAddPoints_BreakdownLines(t *testing.T) {
	run := caserun.New(twoStageCase(), "sess", nil, time.Now())

	run.AddPoints(12, "History")
	run.AddPoints(-4, "Duplicate ranking")

	if run.Score != 8 || run.XPEarned != 8 {
		t.Errorf("score=%d xp=%d, want 8/8", run.Score, run.XPEarned)
	}
	if run.Breakdown[0] != "+12 XP: History" {
		t.Errorf("positive line = %q", run.Breakdown[0])
	}
	if run.Breakdown[1] != "-4 XP: Duplicate ranking" {
		t.Errorf("negative line = %q", run.Breakdown[1])
	}
}

func TestFlagMissingRequired_Dedupes(t *testing.T) {
	run := caserun.New(twoStageCase(), "sess", nil, time.Now())
	run.FlagMissingRequired("Management")
	run.FlagMissingRequired("Management")
	run.FlagMissingRequired("Disposition")

	if len(run.MissingRequired) != 2 {
		t.Errorf("MissingRequired = %v", run.MissingRequired)
	}
}
