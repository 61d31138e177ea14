// Package layouttest provides a recording Surface for exercising layout code
// without producing a real document.
package layouttest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/a3tai/mcp-intake-report/internal/layout"
)

// OpKind identifies a recorded drawing call
type OpKind string

const (
	OpPage   OpKind = "page"
	OpText   OpKind = "text"
	OpMarker OpKind = "marker"
	OpCell   OpKind = "cell"
	OpLine   OpKind = "line"
)

// Op is a single recorded drawing call
type Op struct {
	Kind   OpKind
	Page   int
	X, Y   float64
	W, H   float64
	Style  layout.Style
	Text   string
	Marker layout.MarkerKind
}

// Recorder is a fake layout.Canvas. Text width is approximated as
// CharWidth * size per rune, which keeps wrapping deterministic.
type Recorder struct {
	Size      layout.PageSize
	CharWidth float64
	Ops       []Op
	pages     int
}

// NewRecorder creates a recorder for the given page size
func NewRecorder(size layout.PageSize) *Recorder {
	return &Recorder{Size: size, CharWidth: 0.5}
}

// Factory is a layout.CanvasFactory producing recorders
func Factory(size layout.PageSize) layout.Canvas {
	return NewRecorder(size)
}

// AddPage implements layout.Surface
func (r *Recorder) AddPage() {
	r.pages++
	r.Ops = append(r.Ops, Op{Kind: OpPage, Page: r.pages})
}

// PageCount implements layout.Surface
func (r *Recorder) PageCount() int {
	return r.pages
}

// PageSize implements layout.Surface
func (r *Recorder) PageSize() layout.PageSize {
	return r.Size
}

// Text implements layout.Surface
func (r *Recorder) Text(x, y float64, style layout.Style, s string) {
	r.Ops = append(r.Ops, Op{Kind: OpText, Page: r.pages, X: x, Y: y, Style: style, Text: s})
}

// TextWidth implements layout.Surface
func (r *Recorder) TextWidth(style layout.Style, s string) float64 {
	return float64(len([]rune(s))) * style.Size * r.CharWidth
}

// SplitText implements layout.Surface with greedy word wrapping
func (r *Recorder) SplitText(style layout.Style, s string, width float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if r.TextWidth(style, candidate) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}

// Marker implements layout.Surface
func (r *Recorder) Marker(x, y, size float64, kind layout.MarkerKind) {
	r.Ops = append(r.Ops, Op{Kind: OpMarker, Page: r.pages, X: x, Y: y, W: size, H: size, Marker: kind})
}

// Cell implements layout.Surface
func (r *Recorder) Cell(x, y, w, h float64, style layout.Style, s string, _ layout.CellOptions) {
	r.Ops = append(r.Ops, Op{Kind: OpCell, Page: r.pages, X: x, Y: y, W: w, H: h, Style: style, Text: s})
}

// Line implements layout.Surface
func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, Page: r.pages, X: x1, Y: y1, W: x2 - x1, H: y2 - y1})
}

// Bytes implements layout.Canvas with a plain-text dump of the pages
func (r *Recorder) Bytes() ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%%RECORDER pages=%d\n", r.pages)
	for _, l := range r.Lines() {
		fmt.Fprintf(&b, "%d: %s\n", l.Page, l.Text)
	}
	return []byte(b.String()), nil
}

// Line is the text of all ops drawn at the same page and y coordinate
type Line struct {
	Page int
	Y    float64
	Text string
}

// MarkerGlyph is the plain-text rendering of a marker in Lines output
func MarkerGlyph(kind layout.MarkerKind) string {
	switch kind {
	case layout.MarkerSelected:
		return "(*)"
	case layout.MarkerUnselected:
		return "( )"
	case layout.MarkerChecked:
		return "[x]"
	default:
		return "[ ]"
	}
}

// Lines groups text, cell and marker ops into visual lines in drawing order
func (r *Recorder) Lines() []Line {
	type key struct {
		page int
		y    float64
	}
	type part struct {
		x    float64
		text string
	}

	var order []key
	parts := make(map[key][]part)
	for _, op := range r.Ops {
		var text string
		switch op.Kind {
		case OpText, OpCell:
			text = op.Text
		case OpMarker:
			text = MarkerGlyph(op.Marker)
		default:
			continue
		}
		k := key{page: op.Page, y: op.Y}
		if _, ok := parts[k]; !ok {
			order = append(order, k)
		}
		parts[k] = append(parts[k], part{x: op.X, text: text})
	}

	lines := make([]Line, 0, len(order))
	for _, k := range order {
		ps := parts[k]
		sort.SliceStable(ps, func(i, j int) bool { return ps[i].x < ps[j].x })
		texts := make([]string, 0, len(ps))
		for _, p := range ps {
			if p.text != "" {
				texts = append(texts, p.text)
			}
		}
		lines = append(lines, Line{Page: k.page, Y: k.y, Text: strings.Join(texts, " ")})
	}
	return lines
}

// Texts returns the text of every line
func (r *Recorder) Texts() []string {
	lines := r.Lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text
	}
	return out
}

// HasLine reports whether some line equals s
func (r *Recorder) HasLine(s string) bool {
	for _, t := range r.Texts() {
		if t == s {
			return true
		}
	}
	return false
}

// Count returns the number of lines containing s
func (r *Recorder) Count(s string) int {
	n := 0
	for _, t := range r.Texts() {
		if strings.Contains(t, s) {
			n++
		}
	}
	return n
}

// PageOf returns the page of the first line equal to s, or 0
func (r *Recorder) PageOf(s string) int {
	for _, l := range r.Lines() {
		if l.Text == s {
			return l.Page
		}
	}
	return 0
}
