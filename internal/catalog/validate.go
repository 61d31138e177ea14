package catalog

import (
	"errors"
	"fmt"
)

// DisplayTitle returns the numbered title used in headings and the ToC
func (s SectionSpec) DisplayTitle() string {
	return fmt.Sprintf("%d. %s", s.Number, s.Title)
}

// Validate checks the structural invariants of the catalog
func (c *Catalog) Validate() error {
	if len(c.Sections) == 0 {
		return errors.New("catalog has no sections")
	}
	if c.SectorField.Section == "" || c.SectorField.Key == "" {
		return errors.New("catalog sector field is not set")
	}

	numbers := make(map[int]string)
	keys := make(map[string]bool)
	var errs []error

	check := func(s SectionSpec) {
		if s.Title == "" {
			errs = append(errs, fmt.Errorf("section %d has no title", s.Number))
		}
		if prev, ok := numbers[s.Number]; ok {
			errs = append(errs, fmt.Errorf("section number %d used by %q and %q", s.Number, prev, s.Title))
		}
		numbers[s.Number] = s.Title
		if keys[s.Key] {
			errs = append(errs, fmt.Errorf("section key %q is not unique", s.Key))
		}
		keys[s.Key] = true
		for _, q := range s.Questions {
			if err := validateQuestion(q); err != nil {
				errs = append(errs, fmt.Errorf("section %q: %w", s.Title, err))
			}
		}
	}

	for _, s := range c.Sections {
		if s.Sector != "" {
			errs = append(errs, fmt.Errorf("core section %q must not declare a sector", s.Title))
		}
		check(s)
	}

	sectors := make(map[string]bool)
	for _, s := range c.Supplements {
		if !isKnownSector(s.Sector) {
			errs = append(errs, fmt.Errorf("supplement %q has unknown sector %q", s.Title, s.Sector))
		}
		if sectors[s.Sector] {
			errs = append(errs, fmt.Errorf("sector %q has more than one supplement", s.Sector))
		}
		sectors[s.Sector] = true
		check(s)
	}

	return errors.Join(errs...)
}

func isKnownSector(s string) bool {
	for _, known := range SectorOrder {
		if s == known {
			return true
		}
	}
	return false
}

func validateQuestion(q Question) error {
	if q.Text == "" {
		return errors.New("question without text")
	}

	switch q.Kind {
	case FreeText, Numeric, SingleChoice, MultiChoice:
		if q.Key == "" {
			return fmt.Errorf("question %q has no field key", q.Text)
		}
	case Composite:
		if len(q.Fields) == 0 {
			return fmt.Errorf("composite question %q has no fields", q.Text)
		}
	case Table:
		if err := validateTable(q); err != nil {
			return err
		}
	default:
		return fmt.Errorf("question %q has unknown kind %d", q.Text, q.Kind)
	}

	if (q.Kind == SingleChoice || q.Kind == MultiChoice) && len(q.Options) == 0 {
		return fmt.Errorf("choice question %q declares no options", q.Text)
	}

	if q.FollowUp == nil {
		return nil
	}

	switch q.Kind {
	case SingleChoice, MultiChoice:
	default:
		return fmt.Errorf("question %q of kind %s cannot carry a follow-up", q.Text, q.Kind)
	}

	t := q.FollowUp.Trigger
	if t.Any {
		if q.Kind != MultiChoice {
			return fmt.Errorf("question %q: the any-selected trigger is only valid on multi-choice", q.Text)
		}
	} else {
		if len(t.Values) == 0 {
			return fmt.Errorf("question %q: follow-up trigger has no values", q.Text)
		}
		for _, v := range t.Values {
			if _, ok := q.Option(v); !ok {
				return fmt.Errorf("question %q: trigger value %q is not a declared option", q.Text, v)
			}
		}
	}

	for _, sub := range q.FollowUp.Questions {
		if err := validateQuestion(sub); err != nil {
			return fmt.Errorf("follow-up of %q: %w", q.Text, err)
		}
	}
	return nil
}

func validateTable(q Question) error {
	t := q.Table
	if t == nil {
		return fmt.Errorf("table question %q has no table spec", q.Text)
	}
	if t.KeyPrefix == "" {
		return fmt.Errorf("table question %q has no key prefix", q.Text)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table question %q has no columns", q.Text)
	}
	if t.Slots <= 0 && len(t.Categories) == 0 {
		return fmt.Errorf("table question %q has neither slots nor categories", q.Text)
	}
	if t.Slots > 0 && len(t.Categories) > 0 {
		return fmt.Errorf("table question %q declares both slots and categories", q.Text)
	}
	return nil
}

// RowKey returns the answer key of a cell in a slot table. Slots are 1-based.
func (t *TableSpec) RowKey(slot int, column string) string {
	return fmt.Sprintf("%s_%d_%s", t.KeyPrefix, slot, column)
}

// CategoryKey returns the answer key of a cell in a category table
func (t *TableSpec) CategoryKey(category, column string) string {
	return fmt.Sprintf("%s_%s_%s", t.KeyPrefix, category, column)
}

// CellBudget returns the character budget for text cells
func (t *TableSpec) CellBudget() int {
	if t.MaxCellText > 0 {
		return t.MaxCellText
	}
	return MaxCellChars
}
