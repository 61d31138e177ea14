package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/a3tai/mcp-intake-report/internal/layout"
)

// cellPadding is the horizontal inset of text drawn inside table cells
const cellPadding = 4

// CanvasOptions controls document metadata written by generated canvases
type CanvasOptions struct {
	Creator string
	// CreatedAt pins the document dates; zero uses the current time
	CreatedAt time.Time
}

// NewCanvasFactory returns a layout.CanvasFactory producing fpdf canvases
func NewCanvasFactory(opts CanvasOptions) layout.CanvasFactory {
	return func(size layout.PageSize) layout.Canvas {
		return NewCanvas(size, opts)
	}
}

// Canvas is a layout.Canvas drawing with fpdf in points. Text uses the core
// fonts, so strings are translated to cp1252 before measuring or drawing.
type Canvas struct {
	doc  *fpdf.Fpdf
	size layout.PageSize
	tr   func(string) string
	out  []byte
}

// NewCanvas creates an empty document with pages of the given size
func NewCanvas(size layout.PageSize, opts CanvasOptions) *Canvas {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCatalogSort(true)
	if opts.Creator != "" {
		doc.SetCreator(opts.Creator, true)
	}
	if !opts.CreatedAt.IsZero() {
		doc.SetCreationDate(opts.CreatedAt)
		doc.SetModificationDate(opts.CreatedAt)
	}

	return &Canvas{
		doc:  doc,
		size: size,
		tr:   doc.UnicodeTranslatorFromDescriptor(""),
	}
}

// AddPage implements layout.Surface
func (c *Canvas) AddPage() {
	c.doc.AddPage()
}

// PageCount implements layout.Surface
func (c *Canvas) PageCount() int {
	return c.doc.PageCount()
}

// PageSize implements layout.Surface
func (c *Canvas) PageSize() layout.PageSize {
	return c.size
}

func (c *Canvas) apply(style layout.Style) {
	var s string
	if style.Bold {
		s += "B"
	}
	if style.Italic {
		s += "I"
	}
	family := style.Family
	if family == "" {
		family = "Helvetica"
	}
	c.doc.SetFont(family, s, style.Size)
	c.doc.SetTextColor(style.Color.R, style.Color.G, style.Color.B)
}

// Text implements layout.Surface. y is the top of the line box.
func (c *Canvas) Text(x, y float64, style layout.Style, s string) {
	c.apply(style)
	c.doc.SetCellMargin(0)
	c.doc.SetXY(x, y)
	c.doc.CellFormat(0, style.LineHeight, c.tr(s), "", 0, "LM", false, 0, "")
}

// TextWidth implements layout.Surface
func (c *Canvas) TextWidth(style layout.Style, s string) float64 {
	c.apply(style)
	return c.doc.GetStringWidth(c.tr(s))
}

// SplitText implements layout.Surface. Paragraphs break on '\n'; words too
// long for a line are split between runes.
func (c *Canvas) SplitText(style layout.Style, s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, w := range words {
			candidate := w
			if line != "" {
				candidate = line + " " + w
			}
			if c.TextWidth(style, candidate) <= width {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = w
			for c.TextWidth(style, line) > width {
				head, tail := c.breakWord(style, line, width)
				lines = append(lines, head)
				line = tail
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// breakWord splits the longest prefix of word that fits width
func (c *Canvas) breakWord(style layout.Style, word string, width float64) (string, string) {
	runes := []rune(word)
	n := len(runes) - 1
	for n > 1 && c.TextWidth(style, string(runes[:n])) > width {
		n--
	}
	if n < 1 {
		n = 1
	}
	return string(runes[:n]), string(runes[n:])
}

// ZapfDingbats glyphs
const (
	dingbatDisc   = "l"
	dingbatCircle = "m"
	dingbatCheck  = "4"
)

// Marker implements layout.Surface. The glyph is centred in a line box of
// 1.75 times its size so it sits on the same line as the label text.
func (c *Canvas) Marker(x, y, size float64, kind layout.MarkerKind) {
	box := size * 1.75
	top := y + (box-size)/2
	c.doc.SetTextColor(layout.ColorInk.R, layout.ColorInk.G, layout.ColorInk.B)
	c.doc.SetDrawColor(layout.ColorInk.R, layout.ColorInk.G, layout.ColorInk.B)
	c.doc.SetLineWidth(0.6)
	c.doc.SetCellMargin(0)

	switch kind {
	case layout.MarkerSelected, layout.MarkerUnselected:
		glyph := dingbatCircle
		if kind == layout.MarkerSelected {
			glyph = dingbatDisc
		}
		c.doc.SetFont("ZapfDingbats", "", size)
		c.doc.SetXY(x, y)
		c.doc.CellFormat(size, box, glyph, "", 0, "CM", false, 0, "")
	default:
		c.doc.Rect(x, top, size, size, "D")
		if kind == layout.MarkerChecked {
			c.doc.SetFont("ZapfDingbats", "", size*0.85)
			c.doc.SetXY(x, y)
			c.doc.CellFormat(size, box, dingbatCheck, "", 0, "CM", false, 0, "")
		}
	}
}

// Cell implements layout.Surface
func (c *Canvas) Cell(x, y, w, h float64, style layout.Style, s string, opts layout.CellOptions) {
	c.apply(style)
	c.doc.SetCellMargin(cellPadding)
	c.doc.SetDrawColor(200, 204, 210)
	c.doc.SetLineWidth(0.5)

	fill := opts.Fill != nil
	if fill {
		c.doc.SetFillColor(opts.Fill.R, opts.Fill.G, opts.Fill.B)
	}
	border := ""
	if opts.Border {
		border = "1"
	}
	align := "L"
	switch opts.Align {
	case layout.AlignCenter:
		align = "C"
	case layout.AlignRight:
		align = "R"
	}

	c.doc.SetXY(x, y)
	c.doc.CellFormat(w, h, c.tr(s), border, 0, align+"M", fill, 0, "")
}

// Line implements layout.Surface
func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	c.doc.SetDrawColor(200, 204, 210)
	c.doc.SetLineWidth(0.5)
	c.doc.Line(x1, y1, x2, y2)
}

// Bytes implements layout.Canvas. The document is closed by the first call.
func (c *Canvas) Bytes() ([]byte, error) {
	if c.out != nil {
		return c.out, nil
	}
	if err := c.doc.Error(); err != nil {
		return nil, fmt.Errorf("failed to draw document: %w", err)
	}
	var buf bytes.Buffer
	if err := c.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	c.out = buf.Bytes()
	return c.out, nil
}
