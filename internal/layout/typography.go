package layout

// RGB is a color with 0-255 components
type RGB struct {
	R, G, B int
}

// Style is a concrete set of draw attributes
type Style struct {
	Family     string  `json:"family"`
	Bold       bool    `json:"bold,omitempty"`
	Italic     bool    `json:"italic,omitempty"`
	Size       float64 `json:"size"`
	LineHeight float64 `json:"line_height"`
	Color      RGB     `json:"color"`
}

// Symbolic style names
const (
	StyleBody          = "body"
	StyleCoverCompany  = "cover.company"
	StyleCoverDate     = "cover.date"
	StyleTitle         = "title"
	StyleSectionTitle  = "section.title"
	StyleQuestion      = "question"
	StyleAnswer        = "answer"
	StylePlaceholder   = "answer.placeholder"
	StyleFieldLabel    = "field.label"
	StyleTableHeader   = "table.header"
	StyleTableCell     = "table.cell"
	StyleHeader        = "page.header"
	StyleFooter        = "page.footer"
	StyleTOCEntry      = "toc.entry"
	StyleTOCPageNumber = "toc.page"
)

// Brand colors
var (
	ColorInk        = RGB{R: 33, G: 37, B: 41}
	ColorMuted      = RGB{R: 108, G: 117, B: 125}
	ColorAccent     = RGB{R: 13, G: 71, B: 161}
	ColorWhite      = RGB{R: 255, G: 255, B: 255}
	ColorHeaderFill = RGB{R: 13, G: 71, B: 161}
	ColorStripe     = RGB{R: 241, G: 244, B: 249}
)

// Typography maps symbolic style names to concrete styles
type Typography struct {
	styles map[string]Style
}

// DefaultTypography returns the report typography
func DefaultTypography() *Typography {
	body := Style{Family: "Helvetica", Size: 10, LineHeight: 14, Color: ColorInk}

	with := func(mod func(s *Style)) Style {
		s := body
		mod(&s)
		return s
	}

	return &Typography{styles: map[string]Style{
		StyleBody: body,
		StyleCoverCompany: with(func(s *Style) {
			s.Bold, s.Size, s.LineHeight, s.Color = true, 26, 32, ColorInk
		}),
		StyleCoverDate: with(func(s *Style) {
			s.Size, s.LineHeight, s.Color = 12, 16, ColorMuted
		}),
		StyleTitle: with(func(s *Style) {
			s.Bold, s.Size, s.LineHeight, s.Color = true, 20, 28, ColorAccent
		}),
		StyleSectionTitle: with(func(s *Style) {
			s.Bold, s.Size, s.LineHeight, s.Color = true, 14, 22, ColorAccent
		}),
		StyleQuestion: with(func(s *Style) { s.Bold = true }),
		StyleAnswer:   body,
		StylePlaceholder: with(func(s *Style) {
			s.Italic, s.Color = true, ColorMuted
		}),
		StyleFieldLabel: with(func(s *Style) { s.Bold = true }),
		StyleTableHeader: with(func(s *Style) {
			s.Bold, s.Size, s.LineHeight, s.Color = true, 9, 16, ColorWhite
		}),
		StyleTableCell: with(func(s *Style) { s.Size, s.LineHeight = 9, 16 }),
		StyleHeader: with(func(s *Style) {
			s.Size, s.LineHeight, s.Color = 8, 12, ColorMuted
		}),
		StyleFooter: with(func(s *Style) {
			s.Size, s.LineHeight, s.Color = 8, 12, ColorMuted
		}),
		StyleTOCEntry: with(func(s *Style) { s.Size, s.LineHeight = 11, 20 }),
		StyleTOCPageNumber: with(func(s *Style) {
			s.Bold, s.Size, s.LineHeight = true, 11, 20
		}),
	}}
}

// Style returns the style registered under name, falling back to the body
// style for unknown names.
func (t *Typography) Style(name string) Style {
	if s, ok := t.styles[name]; ok {
		return s
	}
	return t.styles[StyleBody]
}

// With returns a copy of the typography with name overridden
func (t *Typography) With(name string, s Style) *Typography {
	styles := make(map[string]Style, len(t.styles)+1)
	for k, v := range t.styles {
		styles[k] = v
	}
	styles[name] = s
	return &Typography{styles: styles}
}
