package report

import (
	"strings"
	"time"

	"github.com/a3tai/mcp-intake-report/internal/layout"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
	"github.com/a3tai/mcp-intake-report/internal/render"
)

// CoverLayout positions the dynamic cover text. Coordinates are points from
// the top-left corner of the template's first page.
type CoverLayout struct {
	CompanyX   float64
	CompanyY   float64
	DateX      float64
	DateY      float64
	TextWidth  float64
	DateFormat string
	DatePrefix string
}

// DefaultCoverLayout returns the layout used by the bundled cover template
func DefaultCoverLayout() CoverLayout {
	return CoverLayout{
		CompanyX:   56,
		CompanyY:   360,
		DateX:      56,
		DateY:      440,
		TextWidth:  480,
		DateFormat: "January 2, 2006 15:04 MST",
		DatePrefix: "Submitted ",
	}
}

// CoverGenerator stamps the company name and submission time onto the
// cover template.
type CoverGenerator struct {
	Engine     DocumentEngine
	Factory    layout.CanvasFactory
	Typography *layout.Typography
	Layout     CoverLayout
}

// NewCoverGenerator creates a cover generator with the default layout
func NewCoverGenerator(engine DocumentEngine, factory layout.CanvasFactory, typo *layout.Typography) *CoverGenerator {
	return &CoverGenerator{
		Engine:     engine,
		Factory:    factory,
		Typography: typo,
		Layout:     DefaultCoverLayout(),
	}
}

// Generate returns the template with the overlay composited onto page 1.
// Later template pages are kept untouched.
func (g *CoverGenerator) Generate(companyName string, submittedAt time.Time, template []byte) ([]byte, error) {
	pages, err := g.Engine.PageCount(template)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeTemplateParse, "failed to parse cover template", err).
			WithPhase(PhaseCover)
	}
	if pages == 0 {
		return nil, pdferrors.New(pdferrors.ErrorTypeTemplateParse, "cover template has no pages").
			WithPhase(PhaseCover)
	}

	size, err := g.Engine.FirstPageSize(template)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeTemplateParse, "failed to read cover page size", err).
			WithPhase(PhaseCover)
	}

	overlay, err := g.Overlay(companyName, submittedAt, size)
	if err != nil {
		return nil, err
	}

	stamped, err := g.Engine.StampFirstPage(template, overlay)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeRender, "failed to stamp cover overlay", err).
			WithPhase(PhaseCover)
	}
	return stamped, nil
}

// Overlay draws the one-page transparent overlay for a page of the given size
func (g *CoverGenerator) Overlay(companyName string, submittedAt time.Time, size layout.PageSize) ([]byte, error) {
	canvas := g.Factory(size)
	canvas.AddPage()

	name := strings.TrimSpace(companyName)
	if name == "" {
		name = render.NotProvided
	}

	l := g.Layout
	width := l.TextWidth
	if limit := size.Width - 2*l.CompanyX; width <= 0 || width > limit {
		width = limit
	}

	company := g.Typography.Style(layout.StyleCoverCompany)
	y := l.CompanyY
	for _, line := range canvas.SplitText(company, name, width) {
		canvas.Text(l.CompanyX, y, company, line)
		y += company.LineHeight
	}

	date := g.Typography.Style(layout.StyleCoverDate)
	canvas.Text(l.DateX, l.DateY, date, l.DatePrefix+submittedAt.Format(l.DateFormat))

	data, err := canvas.Bytes()
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeRender, "failed to serialize cover overlay", err).
			WithPhase(PhaseCover)
	}
	return data, nil
}
