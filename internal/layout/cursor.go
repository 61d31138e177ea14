package layout

// Margins are page margins in points
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Geometry describes the printable area of a page
type Geometry struct {
	Page         PageSize
	Margins      Margins
	HeaderHeight float64
	FooterHeight float64
}

// DefaultGeometry returns A4 with the report margins
func DefaultGeometry() Geometry {
	return Geometry{
		Page:         A4,
		Margins:      Margins{Top: 36, Right: 48, Bottom: 36, Left: 48},
		HeaderHeight: 28,
		FooterHeight: 24,
	}
}

// ContentTop is the first usable y coordinate below the header band
func (g Geometry) ContentTop() float64 {
	return g.Margins.Top + g.HeaderHeight
}

// ContentBottom is the last usable y coordinate above the footer band
func (g Geometry) ContentBottom() float64 {
	return g.Page.Height - g.Margins.Bottom - g.FooterHeight
}

// ContentHeight is the usable height of one page
func (g Geometry) ContentHeight() float64 {
	return g.ContentBottom() - g.ContentTop()
}

// ContentWidth is the usable width of one page
func (g Geometry) ContentWidth() float64 {
	return g.Page.Width - g.Margins.Left - g.Margins.Right
}

// Cursor tracks the vertical write position on a Surface. It is owned by a
// single rendering pass; every write reserves its height through Place so the
// page-break check and the advance happen as one step.
type Cursor struct {
	surface Surface
	geo     Geometry
	y       float64
	hooks   []func(page int)
}

// NewCursor creates a cursor over s. No page exists until the first write
// or an explicit NewPage.
func NewCursor(s Surface, g Geometry) *Cursor {
	return &Cursor{
		surface: s,
		geo:     g,
		y:       g.ContentTop(),
	}
}

// OnPageStart registers fn to run after every page is added. Hooks draw
// page chrome and must not move the cursor.
func (c *Cursor) OnPageStart(fn func(page int)) {
	c.hooks = append(c.hooks, fn)
}

// Geometry returns the page geometry
func (c *Cursor) Geometry() Geometry {
	return c.geo
}

// Surface returns the surface the cursor writes to
func (c *Cursor) Surface() Surface {
	return c.surface
}

// NewPage appends a page and resets the cursor to the top of content
func (c *Cursor) NewPage() {
	c.surface.AddPage()
	c.y = c.geo.ContentTop()
	page := c.surface.PageCount()
	for _, fn := range c.hooks {
		fn(page)
	}
}

// Page returns the 1-based index of the current page, or 0 before the
// first page exists.
func (c *Cursor) Page() int {
	return c.surface.PageCount()
}

// Y returns the current vertical offset
func (c *Cursor) Y() float64 {
	return c.y
}

// Left returns the left edge of the content area
func (c *Cursor) Left() float64 {
	return c.geo.Margins.Left
}

// Width returns the width of the content area
func (c *Cursor) Width() float64 {
	return c.geo.ContentWidth()
}

// Remaining returns the vertical space left on the current page
func (c *Cursor) Remaining() float64 {
	if c.surface.PageCount() == 0 {
		return 0
	}
	return c.geo.ContentBottom() - c.y
}

// AtTop reports whether nothing has been written on the current page
func (c *Cursor) AtTop() bool {
	return c.surface.PageCount() > 0 && c.y <= c.geo.ContentTop()
}

// EnsureSpace starts a new page when fewer than h points remain. A fresh
// page is never broken again, so blocks taller than a page start at the top.
// It reports whether a page was added.
func (c *Cursor) EnsureSpace(h float64) bool {
	if c.surface.PageCount() == 0 {
		c.NewPage()
		return true
	}
	if c.y+h > c.geo.ContentBottom() && !c.AtTop() {
		c.NewPage()
		return true
	}
	return false
}

// Place reserves h points for a write and returns the y coordinate to draw
// at. The page break, if any, happens before the coordinate is handed out.
func (c *Cursor) Place(h float64) float64 {
	c.EnsureSpace(h)
	at := c.y
	c.advance(h)
	return at
}

// Gap advances the cursor without drawing. Gaps never trigger a page break;
// the next Place does.
func (c *Cursor) Gap(h float64) {
	if c.surface.PageCount() == 0 {
		return
	}
	c.advance(h)
}

func (c *Cursor) advance(h float64) {
	c.y += h
	if bottom := c.geo.ContentBottom(); c.y > bottom {
		c.y = bottom
	}
}
