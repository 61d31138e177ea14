package catalog

import (
	"github.com/a3tai/mcp-intake-report/internal/answers"
)

// Kind is the rendering kind of a question
type Kind int

const (
	FreeText Kind = iota
	Numeric
	SingleChoice
	MultiChoice
	Composite
	Table
)

// String returns a string representation of the Kind
func (k Kind) String() string {
	switch k {
	case FreeText:
		return "text"
	case Numeric:
		return "numeric"
	case SingleChoice:
		return "single_choice"
	case MultiChoice:
		return "multi_choice"
	case Composite:
		return "composite"
	case Table:
		return "table"
	default:
		return "unknown"
	}
}

// Format controls how numeric values are displayed
type Format int

const (
	Plain Format = iota
	Currency
	Percent
)

// MaxCellChars is the character budget of a text table cell
const MaxCellChars = 40

// Option is one declared choice of a single or multi-choice question
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is a labelled sub-field of a composite question
type Field struct {
	Label  string `json:"label"`
	Key    string `json:"key"`
	Format Format `json:"format,omitempty"`
}

// Trigger decides whether a follow-up is shown. Values lists the parent
// option values that trigger it; Any triggers on any non-empty selection.
type Trigger struct {
	Values []string `json:"values,omitempty"`
	Any    bool     `json:"any,omitempty"`
}

// When triggers when any of the given option values is selected
func When(values ...string) Trigger {
	return Trigger{Values: values}
}

// WhenAny triggers when at least one option is selected
func WhenAny() Trigger {
	return Trigger{Any: true}
}

// Matches evaluates the trigger over the full selected set of v
func (t Trigger) Matches(v answers.Value) bool {
	selected := v.Selected()
	if t.Any {
		return len(selected) > 0
	}
	for _, s := range selected {
		for _, want := range t.Values {
			if s == want {
				return true
			}
		}
	}
	return false
}

// FollowUp is a nested group of questions shown only when Trigger matches
type FollowUp struct {
	Trigger   Trigger    `json:"trigger"`
	Questions []Question `json:"questions"`
}

// Column describes one column of a tabular repeat-group
type Column struct {
	Header string  `json:"header"`
	Key    string  `json:"key"`
	Format Format  `json:"format,omitempty"`
	Number bool    `json:"number,omitempty"`
	Width  float64 `json:"width,omitempty"` // relative weight, 0 means 1
}

// TableSpec describes a tabular repeat-group. Rows are either Slots numbered
// repeat slots or one row per Category.
type TableSpec struct {
	KeyPrefix   string   `json:"key_prefix"`
	Columns     []Column `json:"columns"`
	Slots       int      `json:"slots,omitempty"`
	Categories  []Option `json:"categories,omitempty"`
	RowHeader   string   `json:"row_header,omitempty"`
	MaxCellText int      `json:"max_cell_text,omitempty"`
}

// Question is a single declarative question descriptor
type Question struct {
	Text     string     `json:"text"`
	Key      string     `json:"key,omitempty"`
	Kind     Kind       `json:"kind"`
	Format   Format     `json:"format,omitempty"`
	Options  []Option   `json:"options,omitempty"`
	Fields   []Field    `json:"fields,omitempty"`
	Table    *TableSpec `json:"table,omitempty"`
	FollowUp *FollowUp  `json:"follow_up,omitempty"`
}

// Option returns the declared option with the given value
func (q Question) Option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Sector values that enable supplemental sections
const (
	SectorAI       = "ai"
	SectorDeFi     = "defi"
	SectorRobotics = "robotics"
)

// SectorOrder is the fixed order supplemental sections appear in
var SectorOrder = []string{SectorAI, SectorDeFi, SectorRobotics}

// SectionSpec is the declaration of one numbered report section
type SectionSpec struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Key       string     `json:"key"`
	Sector    string     `json:"sector,omitempty"`
	Questions []Question `json:"questions"`
}

// Catalog is the complete set of section declarations
type Catalog struct {
	Sections     []SectionSpec
	Supplements  []SectionSpec
	SectorField  answers.FieldRef
	CompanyField answers.FieldRef
	Currency     string
	Percent      string
}

// Included returns the sections rendered for rec: every core section in
// order, then the supplements whose sector is selected, in SectorOrder.
func (c *Catalog) Included(rec answers.Record) []SectionSpec {
	selected := rec.SelectedSectors(c.SectorField)

	out := make([]SectionSpec, 0, len(c.Sections)+len(c.Supplements))
	out = append(out, c.Sections...)
	for _, sector := range SectorOrder {
		if !selected[sector] {
			continue
		}
		for _, s := range c.Supplements {
			if s.Sector == sector {
				out = append(out, s)
			}
		}
	}
	return out
}

// Titles returns the numbered display titles of sections
func Titles(sections []SectionSpec) []string {
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.DisplayTitle()
	}
	return titles
}
