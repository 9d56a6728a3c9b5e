package clinicalcase

// StageKind discriminates how a stage is presented and scored.
type StageKind string

const (
	KindInfo         StageKind = "info"
	KindSingleChoice StageKind = "single_choice"
	KindRanking      StageKind = "ranking"
	KindChecklist    StageKind = "checklist"
	KindFreeText     StageKind = "free_text"
)

// Severity grades how bad it is to tick a contraindicated checklist item.
type Severity string

const (
	SeverityHeavy    Severity = "heavy"
	SeverityModerate Severity = "moderate"
)

// Option is one answer on a single-choice stage.
type Option struct {
	ID             string
	Text           string
	Correct        bool
	SafetyCritical bool   // missing this option caps the whole case
	Dangerous      bool   // picking this option carries an extra malus
	ReviewTag      string // weak-spot tag, optional
}

// VitalsDelta shifts the numeric vitals after a decision.
type VitalsDelta struct {
	HR int
	RR int
}

// Outcome is the narrative and physiological consequence of a decision.
type Outcome struct {
	Note        string
	VitalsDelta VitalsDelta
}

// ChecklistItem is one tickable entry on a checklist stage.
// Required and Contra are mutually exclusive; neither means neutral.
type ChecklistItem struct {
	Text     string
	Required bool
	Contra   bool
	Severity Severity // only meaningful when Contra
}

// KeywordGroup is a set of synonyms; matching any one scores the group once.
type KeywordGroup []string

// Stage is one decision point in a case.
type Stage struct {
	Key    string
	Title  string
	Kind   StageKind
	Prompt string

	// Base points: the "correct" value for single-choice, the full value for a
	// complete checklist, the participation award for info stages.
	Points int

	Hints []string

	// Single-choice
	Options   []Option
	IfCorrect Outcome
	IfWrong   Outcome

	// Ranking
	Items        []string
	DesiredOrder []string // first 3, most urgent first

	// Ranking and checklist stages carry one tag for the whole stage.
	ReviewTag string

	// Checklist
	Checklist []ChecklistItem

	// Free text
	KeywordGroups []KeywordGroup
}

// Vitals is the live vital-sign panel shown alongside every stage.
type Vitals struct {
	HR   int
	BP   string
	RR   int
	SpO2 string
	Temp string
}

// Apply returns the vitals after a decision's delta.
func (v Vitals) Apply(d VitalsDelta) Vitals {
	v.HR += d.HR
	v.RR += d.RR
	return v
}

// Case is an immutable case definition, loaded once at startup.
type Case struct {
	ID         int
	Title      string
	Level      string
	Systems    []string
	Presenting string

	VitalsInitial Vitals

	Stages []Stage

	CurriculumOutcomes []string
	EscalationCues     []string

	Rationale string
	Takeaways []string
	Reference string
}

// Stage returns the stage with the given key.
func (c *Case) Stage(key string) (*Stage, bool) {
	for i := range c.Stages {
		if c.Stages[i].Key == key {
			return &c.Stages[i], true
		}
	}
	return nil, false
}

// CorrectOption returns the single correct option of a single-choice stage.
func (s *Stage) CorrectOption() *Option {
	for i := range s.Options {
		if s.Options[i].Correct {
			return &s.Options[i]
		}
	}
	return nil
}

// OptionByID looks up an option by its id.
func (s *Stage) OptionByID(id string) *Option {
	for i := range s.Options {
		if s.Options[i].ID == id {
			return &s.Options[i]
		}
	}
	return nil
}

// RequiredItems returns the texts of all required checklist items.
func (s *Stage) RequiredItems() []string {
	var out []string
	for _, it := range s.Checklist {
		if it.Required {
			out = append(out, it.Text)
		}
	}
	return out
}
