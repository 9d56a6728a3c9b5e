package content_test

import (
	"testing"

	"github.com/enso-trainer/backend/internal/content"
	"github.com/enso-trainer/backend/internal/domain/clinicalcase"
)

func TestACSChestPain_Validates(t *testing.T) {
	c := content.ACSChestPain()
	if err := c.Validate(); err != nil {
		t.Fatalf("built-in case failed validation: %v", err)
	}
}

func TestACSChestPain_FlowOrder(t *testing.T) {
	c := content.ACSChestPain()

	wantKeys := []string{
		content.StagePresenting,
		content.StagePriority,
		content.StageHistoryRank,
		content.StageExam,
		content.StageInvestigations,
		content.StageManagement,
		content.StageNBS,
		content.StageHandover,
	}
	if len(c.Stages) != len(wantKeys) {
		t.Fatalf("stage count = %d, want %d", len(c.Stages), len(wantKeys))
	}
	for i, key := range wantKeys {
		if c.Stages[i].Key != key {
			t.Errorf("stage %d = %q, want %q", i, c.Stages[i].Key, key)
		}
	}
}

func TestACSChestPain_SafetyCriticalECG(t *testing.T) {
	c := content.ACSChestPain()

	priority, ok := c.Stage(content.StagePriority)
	if !ok {
		t.Fatal("priority stage missing")
	}
	correct := priority.CorrectOption()
	if correct == nil || !correct.SafetyCritical {
		t.Error("the ECG decision must be marked safety-critical")
	}
	if correct.ReviewTag == "" {
		t.Error("the ECG decision must carry a review tag")
	}

	mgmt, _ := c.Stage(content.StageManagement)
	if got := len(mgmt.RequiredItems()); got != 3 {
		t.Errorf("management bundle required items = %d, want 3", got)
	}

	handover, _ := c.Stage(content.StageHandover)
	if handover.Kind != clinicalcase.KindFreeText || len(handover.KeywordGroups) == 0 {
		t.Error("handover stage must be free text with keyword groups")
	}
}
