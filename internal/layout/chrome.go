package layout

import "fmt"

// Chrome draws the running header and footer of generated pages. Page
// numbers are absolute positions in the final merged document: the local
// page index plus Offset, out of Total (0 omits the total).
type Chrome struct {
	Typography  *Typography
	Geometry    Geometry
	HeaderLeft  string
	HeaderRight string
	Offset      int
	Total       int
}

// PageLabel returns the footer label for a local page index
func (ch Chrome) PageLabel(page int) string {
	abs := page + ch.Offset
	if ch.Total > 0 {
		return fmt.Sprintf("Page %d of %d", abs, ch.Total)
	}
	return fmt.Sprintf("Page %d", abs)
}

// Draw renders the header and footer onto the current page of s
func (ch Chrome) Draw(s Surface, page int) {
	g := ch.Geometry
	header := ch.Typography.Style(StyleHeader)
	footer := ch.Typography.Style(StyleFooter)
	left := g.Margins.Left
	right := g.Page.Width - g.Margins.Right

	if ch.HeaderLeft != "" {
		s.Text(left, g.Margins.Top, header, ch.HeaderLeft)
	}
	if ch.HeaderRight != "" {
		w := s.TextWidth(header, ch.HeaderRight)
		s.Text(right-w, g.Margins.Top, header, ch.HeaderRight)
	}
	ruleY := g.Margins.Top + header.LineHeight + 2
	s.Line(left, ruleY, right, ruleY)

	label := ch.PageLabel(page)
	footY := g.Page.Height - g.Margins.Bottom - footer.LineHeight
	w := s.TextWidth(footer, label)
	s.Text(right-w, footY, footer, label)
}

// Attach registers the chrome on every page started through c
func (ch Chrome) Attach(c *Cursor) {
	c.OnPageStart(func(page int) {
		ch.Draw(c.Surface(), page)
	})
}
