package clinicalcase_test

import (
	"strings"
	"testing"

	"github.com/enso-trainer/backend/internal/domain/clinicalcase"
)

func validCase() *clinicalcase.Case {
	return &clinicalcase.Case{
		ID: 1,
		Stages: []clinicalcase.Stage{
			{Key: "intro", Kind: clinicalcase.KindInfo},
			{
				Key:  "choice",
				Kind: clinicalcase.KindSingleChoice,
				Options: []clinicalcase.Option{
					{ID: "A", Correct: true},
					{ID: "B"},
				},
			},
			{
				Key:          "rank",
				Kind:         clinicalcase.KindRanking,
				Items:        []string{"X", "Y", "Z"},
				DesiredOrder: []string{"Z", "X", "Y"},
			},
			{
				Key:  "check",
				Kind: clinicalcase.KindChecklist,
				Checklist: []clinicalcase.ChecklistItem{
					{Text: "do", Required: true},
					{Text: "dont", Contra: true, Severity: clinicalcase.SeverityHeavy},
				},
			},
			{
				Key:           "text",
				Kind:          clinicalcase.KindFreeText,
				KeywordGroups: []clinicalcase.KeywordGroup{{"word"}},
			},
		},
	}
}

func TestValidate_AcceptsWellFormedCase(t *testing.T) {
	if err := validCase().Validate(); err != nil {
		t.Fatalf("valid case rejected: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*clinicalcase.Case)
		wantErr string
	}{
		{
			"no stages",
			func(c *clinicalcase.Case) { c.Stages = nil },
			"no stages",
		},
		{
			"duplicate stage key",
			func(c *clinicalcase.Case) { c.Stages[1].Key = "intro" },
			"duplicate stage key",
		},
		{
			"empty stage key",
			func(c *clinicalcase.Case) { c.Stages[0].Key = "" },
			"no key",
		},
		{
			"two correct options",
			func(c *clinicalcase.Case) { c.Stages[1].Options[1].Correct = true },
			"exactly one correct",
		},
		{
			"no correct option",
			func(c *clinicalcase.Case) { c.Stages[1].Options[0].Correct = false },
			"exactly one correct",
		},
		{
			"duplicate option id",
			func(c *clinicalcase.Case) { c.Stages[1].Options[1].ID = "A" },
			"duplicate option id",
		},
		{
			"short desired order",
			func(c *clinicalcase.Case) { c.Stages[2].DesiredOrder = []string{"X"} },
			"desired order of 3",
		},
		{
			"desired item missing from items",
			func(c *clinicalcase.Case) { c.Stages[2].DesiredOrder[0] = "W" },
			"not in the item list",
		},
		{
			"required and contraindicated",
			func(c *clinicalcase.Case) { c.Stages[3].Checklist[0].Contra = true },
			"both required and contraindicated",
		},
		{
			"contra with bogus severity",
			func(c *clinicalcase.Case) { c.Stages[3].Checklist[1].Severity = "mild-ish" },
			"invalid severity",
		},
		{
			"free text without keyword groups",
			func(c *clinicalcase.Case) { c.Stages[4].KeywordGroups = nil },
			"no keyword groups",
		},
		{
			"unknown stage kind",
			func(c *clinicalcase.Case) { c.Stages[0].Kind = "essay" },
			"unknown kind",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCase()
			tt.mutate(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestStageLookupHelpers(t *testing.T) {
	c := validCase()

	s, ok := c.Stage("choice")
	if !ok {
		t.Fatal("stage lookup failed")
	}
	if got := s.CorrectOption(); got == nil || got.ID != "A" {
		t.Errorf("CorrectOption = %v, want option A", got)
	}
	if got := s.OptionByID("B"); got == nil || got.ID != "B" {
		t.Errorf("OptionByID(B) = %v", got)
	}
	if got := s.OptionByID("Z"); got != nil {
		t.Errorf("OptionByID(Z) = %v, want nil", got)
	}

	check, _ := c.Stage("check")
	if got := check.RequiredItems(); len(got) != 1 || got[0] != "do" {
		t.Errorf("RequiredItems = %v", got)
	}

	if _, ok := c.Stage("nope"); ok {
		t.Error("unknown stage key should not resolve")
	}
}

func TestVitalsApply(t *testing.T) {
	v := clinicalcase.Vitals{HR: 90, RR: 16, BP: "120/80"}
	got := v.Apply(clinicalcase.VitalsDelta{HR: 10, RR: -2})
	if got.HR != 100 || got.RR != 14 || got.BP != "120/80" {
		t.Errorf("Apply = %+v", got)
	}
	// value semantics: the original is untouched
	if v.HR != 90 {
		t.Errorf("original mutated: %+v", v)
	}
}
