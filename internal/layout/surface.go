package layout

// PageSize is a page size in points
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// A4 page size in points
var A4 = PageSize{Width: 595.28, Height: 841.89}

// MarkerKind identifies a selection marker glyph
type MarkerKind int

const (
	MarkerSelected MarkerKind = iota
	MarkerUnselected
	MarkerChecked
	MarkerUnchecked
)

// String returns a string representation of the MarkerKind
func (m MarkerKind) String() string {
	switch m {
	case MarkerSelected:
		return "selected"
	case MarkerUnselected:
		return "unselected"
	case MarkerChecked:
		return "checked"
	case MarkerUnchecked:
		return "unchecked"
	default:
		return "unknown"
	}
}

// Align is the horizontal alignment of text inside a cell
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// CellOptions controls how a table cell is drawn
type CellOptions struct {
	Border bool
	Fill   *RGB
	Align  Align
}

// Surface is the page-drawing capability the report core draws onto.
// Coordinates are in points with the origin at the top-left of the current
// page; y is the top of the drawn line box.
type Surface interface {
	AddPage()
	PageCount() int
	PageSize() PageSize

	Text(x, y float64, style Style, s string)
	TextWidth(style Style, s string) float64
	SplitText(style Style, s string, width float64) []string

	Marker(x, y float64, size float64, kind MarkerKind)
	Cell(x, y, w, h float64, style Style, s string, opts CellOptions)
	Line(x1, y1, x2, y2 float64)
}

// Canvas is a Surface that can be serialized into a document
type Canvas interface {
	Surface
	Bytes() ([]byte, error)
}

// CanvasFactory creates an empty canvas with the given page size
type CanvasFactory func(size PageSize) Canvas
