package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-intake-report/internal/layout"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
	"github.com/a3tai/mcp-intake-report/internal/render"
)

// TOCTitle is the heading printed on the first contents page
const TOCTitle = "Table of Contents"

// TOCEntry is one rendered contents line
type TOCEntry struct {
	Title   string `json:"title"`
	Page    int    `json:"page"`
	TOCPage int    `json:"toc_page"`
}

// TOCDocument is a generated contents document
type TOCDocument struct {
	Bytes   []byte
	Pages   int
	Entries []TOCEntry
}

// TOCGenerator lays out the table of contents on its own canvas
type TOCGenerator struct {
	Factory    layout.CanvasFactory
	Typography *layout.Typography
	Geometry   layout.Geometry
	// EntryGap is the vertical space added after every entry
	EntryGap float64
	// LeaderPad is the horizontal space kept around the dot leader
	LeaderPad float64
}

// NewTOCGenerator creates a generator with the default spacing
func NewTOCGenerator(factory layout.CanvasFactory, typo *layout.Typography, geo layout.Geometry) *TOCGenerator {
	return &TOCGenerator{
		Factory:    factory,
		Typography: typo,
		Geometry:   geo,
		EntryGap:   4,
		LeaderPad:  4,
	}
}

// Generate renders one entry per title in titles, in order, with the page
// number taken from records. chrome supplies the running header and the
// absolute numbering of the contents pages themselves.
func (g *TOCGenerator) Generate(records *Accountant, titles []string, chrome layout.Chrome) (*TOCDocument, error) {
	// Resolve every entry before drawing so a missing record never yields a
	// partial contents document.
	entries := make([]TOCEntry, len(titles))
	for i, title := range titles {
		page, ok := records.Lookup(title)
		if !ok {
			return nil, pdferrors.New(pdferrors.ErrorTypeDataConsistency, "section has no recorded start page").
				WithContext(title).
				WithPhase(PhaseTOC)
		}
		entries[i] = TOCEntry{Title: title, Page: page}
	}

	canvas := g.Factory(g.Geometry.Page)
	cursor := layout.NewCursor(canvas, g.Geometry)
	chrome.Typography = g.Typography
	chrome.Geometry = g.Geometry
	chrome.Attach(cursor)

	heading := g.Typography.Style(layout.StyleTitle)
	y := cursor.Place(heading.LineHeight)
	canvas.Text(cursor.Left(), y, heading, TOCTitle)
	cursor.Gap(heading.LineHeight / 2)

	for i := range entries {
		entries[i].TOCPage = g.entry(cursor, entries[i])
		cursor.Gap(g.EntryGap)
	}

	data, err := canvas.Bytes()
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeRender, "failed to serialize table of contents", err).
			WithPhase(PhaseTOC)
	}

	return &TOCDocument{
		Bytes:   data,
		Pages:   canvas.PageCount(),
		Entries: entries,
	}, nil
}

// entry draws a single title ..... page line and returns its local page
func (g *TOCGenerator) entry(cursor *layout.Cursor, e TOCEntry) int {
	s := cursor.Surface()
	titleStyle := g.Typography.Style(layout.StyleTOCEntry)
	numStyle := g.Typography.Style(layout.StyleTOCPageNumber)

	lineHeight := math.Max(titleStyle.LineHeight, numStyle.LineHeight)
	y := cursor.Place(lineHeight)

	left := cursor.Left()
	right := left + cursor.Width()

	num := strconv.Itoa(e.Page)
	numW := s.TextWidth(numStyle, num)
	dotW := s.TextWidth(titleStyle, ".")

	// The title yields room so at least one dot always fits.
	maxTitleW := right - left - numW - dotW - 2*g.LeaderPad
	title := fitWidth(s, titleStyle, e.Title, maxTitleW)
	titleW := s.TextWidth(titleStyle, title)

	start := left + titleW + g.LeaderPad
	end := right - numW - g.LeaderPad
	dots := 1
	if dotW > 0 {
		if n := int(math.Floor((end - start) / dotW)); n > dots {
			dots = n
		}
	}

	// A title cut down to a bare ellipsis can still leave no room; the dot
	// then sits LeaderPad after it.
	leaderX := math.Max(start, end-float64(dots)*dotW)

	s.Text(left, y, titleStyle, title)
	s.Text(leaderX, y, titleStyle, strings.Repeat(".", dots))
	s.Text(right-numW, y, numStyle, num)

	return cursor.Page()
}

// fitWidth shortens text with an ellipsis until it is at most w wide
func fitWidth(s layout.Surface, style layout.Style, text string, w float64) string {
	if s.TextWidth(style, text) <= w {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + render.Ellipsis
		if s.TextWidth(style, candidate) <= w {
			return candidate
		}
	}
	return render.Ellipsis
}
