package clinicalcase

import "fmt"

// Validate checks the load-time invariants of a case definition.
// A violation here is a configuration error and should abort startup.
func (c *Case) Validate() error {
	if len(c.Stages) == 0 {
		return fmt.Errorf("case %d: no stages", c.ID)
	}

	seen := make(map[string]bool, len(c.Stages))
	for i := range c.Stages {
		s := &c.Stages[i]
		if s.Key == "" {
			return fmt.Errorf("case %d: stage %d has no key", c.ID, i)
		}
		if seen[s.Key] {
			return fmt.Errorf("case %d: duplicate stage key %q", c.ID, s.Key)
		}
		seen[s.Key] = true

		switch s.Kind {
		case KindInfo:
			// nothing to check
		case KindSingleChoice:
			if err := s.validateSingleChoice(); err != nil {
				return fmt.Errorf("case %d, stage %q: %w", c.ID, s.Key, err)
			}
		case KindRanking:
			if err := s.validateRanking(); err != nil {
				return fmt.Errorf("case %d, stage %q: %w", c.ID, s.Key, err)
			}
		case KindChecklist:
			if err := s.validateChecklist(); err != nil {
				return fmt.Errorf("case %d, stage %q: %w", c.ID, s.Key, err)
			}
		case KindFreeText:
			if len(s.KeywordGroups) == 0 {
				return fmt.Errorf("case %d, stage %q: free-text stage has no keyword groups", c.ID, s.Key)
			}
		default:
			return fmt.Errorf("case %d, stage %q: unknown kind %q", c.ID, s.Key, s.Kind)
		}
	}
	return nil
}

func (s *Stage) validateSingleChoice() error {
	correct := 0
	ids := make(map[string]bool, len(s.Options))
	for _, o := range s.Options {
		if o.ID == "" {
			return fmt.Errorf("option with empty id")
		}
		if ids[o.ID] {
			return fmt.Errorf("duplicate option id %q", o.ID)
		}
		ids[o.ID] = true
		if o.Correct {
			correct++
		}
	}
	if correct != 1 {
		return fmt.Errorf("single-choice stage must have exactly one correct option, has %d", correct)
	}
	return nil
}

func (s *Stage) validateRanking() error {
	if len(s.DesiredOrder) != 3 {
		return fmt.Errorf("ranking stage needs a desired order of 3, has %d", len(s.DesiredOrder))
	}
	items := make(map[string]bool, len(s.Items))
	for _, it := range s.Items {
		items[it] = true
	}
	for _, want := range s.DesiredOrder {
		if !items[want] {
			return fmt.Errorf("desired item %q is not in the item list", want)
		}
	}
	return nil
}

func (s *Stage) validateChecklist() error {
	seen := make(map[string]bool, len(s.Checklist))
	for _, it := range s.Checklist {
		if seen[it.Text] {
			return fmt.Errorf("duplicate checklist item %q", it.Text)
		}
		seen[it.Text] = true
		if it.Required && it.Contra {
			return fmt.Errorf("checklist item %q is both required and contraindicated", it.Text)
		}
		if it.Contra && it.Severity != SeverityHeavy && it.Severity != SeverityModerate {
			return fmt.Errorf("contraindicated item %q has invalid severity %q", it.Text, it.Severity)
		}
	}
	return nil
}
