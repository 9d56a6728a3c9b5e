package scoring

// Policy holds every fixed point value and cap used by the scoring engine.
// These are product constants, not tunables; tests construct variants to
// probe edge cases.
type Policy struct {
	// Ranking stage
	RankPoints   [3]int // points for matching ranks 1..3
	RankingMax   int    // clamp for the whole ranking stage
	RankDupMalus int    // duplicate or blank rank submission

	// Calibration bonus per decision, 0..CalibrationMax
	CalibrationMax int

	// Hints: cost of the 1st, 2nd, 3rd+ hint on a stage
	HintCosts []int

	// Speed bonus at finalization
	SpeedBonusFast int // finished within FastMinutes
	SpeedBonusOK   int // finished within OKMinutes
	FastMinutes    int
	OKMinutes      int

	// End-of-case caps, applied in priority order
	SafetyMissCap    int // safety-critical single-choice missed
	ChecklistMissCap int // any required checklist item missed anywhere
	TwoWrongCap      int // two or more wrong single-choice answers
	OneWrongCap      int // exactly one wrong single-choice answer

	DangerousChoiceMalus int

	// Checklist stage
	ContraHeavyMalus    int
	ContraModerateMalus int

	// Free-text keyword stage
	KeywordGroupPoints int
	KeywordMax         int
}

// DefaultPolicy returns the production point policy.
func DefaultPolicy() Policy {
	return Policy{
		RankPoints:   [3]int{6, 4, 2},
		RankingMax:   12,
		RankDupMalus: 4,

		CalibrationMax: 10,

		HintCosts: []int{2, 3, 5},

		SpeedBonusFast: 5,
		SpeedBonusOK:   3,
		FastMinutes:    8,
		OKMinutes:      12,

		SafetyMissCap:    70,
		ChecklistMissCap: 60,
		TwoWrongCap:      88,
		OneWrongCap:      95,

		DangerousChoiceMalus: 15,

		ContraHeavyMalus:    12,
		ContraModerateMalus: 6,

		KeywordGroupPoints: 4,
		KeywordMax:         24,
	}
}

// PartialChecklistPoints is the award for a checklist where at least half
// of the required items were ticked with no unsafe picks: roughly a third
// of the stage's full value.
func (p Policy) PartialChecklistPoints(full int) int {
	return full / 3
}

// HintCost returns the XP cost of the n-th hint (0-based). Costs past the
// end of the table repeat the last entry.
func (p Policy) HintCost(used int) int {
	if used >= len(p.HintCosts) {
		return p.HintCosts[len(p.HintCosts)-1]
	}
	return p.HintCosts[used]
}
