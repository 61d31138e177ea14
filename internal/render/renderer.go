// Package render draws catalog sections and their answers onto a layout
// surface. A single generic renderer handles every question kind; sections
// differ only in their catalog data.
package render

import (
	"github.com/a3tai/mcp-intake-report/internal/answers"
	"github.com/a3tai/mcp-intake-report/internal/catalog"
	"github.com/a3tai/mcp-intake-report/internal/layout"
)

// Options tunes spacing of rendered sections
type Options struct {
	// QuestionGap is the space after every question block
	QuestionGap float64
	// MinSectionSpace is the space a section title needs below it; with
	// less remaining, the section starts on a new page.
	MinSectionSpace float64
	// FollowUpIndent is the extra indent of each follow-up level
	FollowUpIndent float64
	// MarkerSize is the size of selection marker glyphs
	MarkerSize float64
	Currency   string
	Percent    string
}

// DefaultOptions returns the report spacing
func DefaultOptions() Options {
	return Options{
		QuestionGap:     10,
		MinSectionSpace: 120,
		FollowUpIndent:  18,
		MarkerSize:      8,
		Currency:        "$",
		Percent:         "%",
	}
}

// Renderer draws sections through a cursor it exclusively owns for the
// duration of a rendering pass.
type Renderer struct {
	cursor  *layout.Cursor
	typo    *layout.Typography
	opts    Options
	numbers *NumberFormatter
}

// New creates a renderer writing through c
func New(c *layout.Cursor, typo *layout.Typography, opts Options) *Renderer {
	return &Renderer{
		cursor:  c,
		typo:    typo,
		opts:    opts,
		numbers: NewNumberFormatter(opts.Currency, opts.Percent),
	}
}

// Cursor returns the layout cursor
func (r *Renderer) Cursor() *layout.Cursor {
	return r.cursor
}

// StartSection applies the orphan rule and returns the page the next
// section will start on. Calling it again before drawing is a no-op.
func (r *Renderer) StartSection() int {
	r.cursor.EnsureSpace(r.opts.MinSectionSpace)
	return r.cursor.Page()
}

// RenderSection draws the section title and every question of spec using
// the answers in section. It never fails: missing or malformed answers are
// drawn as placeholders.
func (r *Renderer) RenderSection(spec catalog.SectionSpec, section answers.Section) {
	r.StartSection()

	title := r.typo.Style(layout.StyleSectionTitle)
	r.paragraph(spec.DisplayTitle(), title, 0)
	y := r.cursor.Place(6)
	r.cursor.Surface().Line(r.cursor.Left(), y, r.cursor.Left()+r.cursor.Width(), y)

	for _, q := range spec.Questions {
		r.question(q, section, 0)
		r.cursor.Gap(r.opts.QuestionGap)
	}
}

func (r *Renderer) question(q catalog.Question, section answers.Section, indent float64) {
	r.paragraph(q.Text, r.typo.Style(layout.StyleQuestion), indent)

	switch q.Kind {
	case catalog.FreeText:
		r.answerText(section.Get(q.Key).Text(), indent)
	case catalog.Numeric:
		s, _ := r.numbers.Value(section.Get(q.Key), q.Format)
		r.answerText(s, indent)
	case catalog.SingleChoice:
		r.singleChoice(q, section, indent)
	case catalog.MultiChoice:
		r.multiChoice(q, section, indent)
	case catalog.Composite:
		r.composite(q.Fields, section, indent)
	case catalog.Table:
		r.table(q.Table, section, indent)
	}
}

func (r *Renderer) answerText(s string, indent float64) {
	if s == "" {
		r.paragraph(NotProvided, r.typo.Style(layout.StylePlaceholder), indent)
		return
	}
	r.paragraph(AnswerPrefix+s, r.typo.Style(layout.StyleAnswer), indent)
}

func (r *Renderer) singleChoice(q catalog.Question, section answers.Section, indent float64) {
	v := section.Get(q.Key)
	opt, ok := q.Option(v.Text())
	if !ok {
		// Unmatched and absent values are indistinguishable here.
		r.markerLine(layout.MarkerUnselected, NoSelection, r.typo.Style(layout.StylePlaceholder), indent)
		return
	}

	r.markerLine(layout.MarkerSelected, opt.Label, r.typo.Style(layout.StyleAnswer), indent)
	if q.FollowUp != nil && q.FollowUp.Trigger.Matches(answers.NewChoice(opt.Value)) {
		r.followUp(q.FollowUp, section, indent)
	}
}

func (r *Renderer) multiChoice(q catalog.Question, section answers.Section, indent float64) {
	v := section.Get(q.Key)
	style := r.typo.Style(layout.StyleAnswer)

	var declared []string
	for _, opt := range q.Options {
		kind := layout.MarkerUnchecked
		if v.Has(opt.Value) {
			kind = layout.MarkerChecked
			declared = append(declared, opt.Value)
		}
		r.markerLine(kind, opt.Label, style, indent)
	}

	if q.FollowUp != nil && q.FollowUp.Trigger.Matches(answers.Choices(declared...)) {
		r.followUp(q.FollowUp, section, indent)
	}
}

func (r *Renderer) followUp(fu *catalog.FollowUp, section answers.Section, indent float64) {
	r.cursor.Gap(4)
	for i, sub := range fu.Questions {
		if i > 0 {
			r.cursor.Gap(4)
		}
		r.question(sub, section, indent+r.opts.FollowUpIndent)
	}
}

func (r *Renderer) composite(fields []catalog.Field, section answers.Section, indent float64) {
	label := r.typo.Style(layout.StyleFieldLabel)
	answer := r.typo.Style(layout.StyleAnswer)
	placeholder := r.typo.Style(layout.StylePlaceholder)
	s := r.cursor.Surface()

	for _, f := range fields {
		v := section.Get(f.Key)
		text, style := v.Text(), answer
		if f.Format != catalog.Plain {
			text, _ = r.numbers.Value(v, f.Format)
		}
		if text == "" {
			text, style = NotProvided, placeholder
		}

		x := r.cursor.Left() + indent
		labelText := f.Label + ":"
		labelWidth := s.TextWidth(label, labelText) + 4
		lines := s.SplitText(style, text, r.cursor.Width()-indent-labelWidth)

		for i, line := range lines {
			y := r.cursor.Place(answer.LineHeight)
			if i == 0 {
				s.Text(x, y, label, labelText)
			}
			s.Text(x+labelWidth, y, style, line)
		}
	}
}

func (r *Renderer) markerLine(kind layout.MarkerKind, label string, style layout.Style, indent float64) {
	s := r.cursor.Surface()
	x := r.cursor.Left() + indent
	textX := x + r.opts.MarkerSize + 6
	lines := s.SplitText(style, label, r.cursor.Width()-indent-r.opts.MarkerSize-6)

	for i, line := range lines {
		y := r.cursor.Place(style.LineHeight)
		if i == 0 {
			s.Marker(x, y, r.opts.MarkerSize, kind)
		}
		s.Text(textX, y, style, line)
	}
}

// paragraph draws wrapped text one line at a time so page breaks fall
// between lines.
func (r *Renderer) paragraph(text string, style layout.Style, indent float64) {
	s := r.cursor.Surface()
	x := r.cursor.Left() + indent
	for _, line := range s.SplitText(style, text, r.cursor.Width()-indent) {
		y := r.cursor.Place(style.LineHeight)
		s.Text(x, y, style, line)
	}
}
