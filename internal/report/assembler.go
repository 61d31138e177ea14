package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/a3tai/mcp-intake-report/internal/answers"
	"github.com/a3tai/mcp-intake-report/internal/catalog"
	"github.com/a3tai/mcp-intake-report/internal/layout"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
	"github.com/a3tai/mcp-intake-report/internal/render"
)

// DefaultMaxTOCPasses bounds the contents sizing loop
const DefaultMaxTOCPasses = 4

// Config holds the collaborators of an Assembler
type Config struct {
	Catalog      *catalog.Catalog
	Engine       DocumentEngine
	Factory      layout.CanvasFactory
	Templates    TemplateSource
	Typography   *layout.Typography
	Geometry     layout.Geometry
	Render       *render.Options
	ProductName  string
	Logger       *slog.Logger
	MaxTOCPasses int
	Now          func() time.Time
}

// Request is one report to assemble
type Request struct {
	Answers answers.Record
	// SubmittedAt defaults to the current time
	SubmittedAt time.Time
}

// PageCounts are the page totals of each merged part
type PageCounts struct {
	Cover   int `json:"cover"`
	TOC     int `json:"toc"`
	Content int `json:"content"`
	End     int `json:"end"`
	Total   int `json:"total"`
}

// Result is a finished report
type Result struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	SubmittedAt time.Time    `json:"submitted_at"`
	Pages       PageCounts   `json:"pages"`
	Records     []PageRecord `json:"records"`
	Contents    []TOCEntry   `json:"contents"`
	Document    []byte       `json:"-"`
}

// Assembler runs the report phases in order: fetch templates, parse them,
// build the cover, measure content, size the contents, render the final
// content and merge. Any failure aborts the assembly with no output.
type Assembler struct {
	catalog   *catalog.Catalog
	engine    DocumentEngine
	factory   layout.CanvasFactory
	templates TemplateSource
	typo      *layout.Typography
	geo       layout.Geometry
	opts      render.Options
	product   string
	log       *slog.Logger
	maxPasses int
	now       func() time.Time

	cover  *CoverGenerator
	toc    *TOCGenerator
	merger *Merger
}

// NewAssembler creates an assembler, filling unset config with defaults
func NewAssembler(cfg Config) (*Assembler, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("document engine is required")
	}
	if cfg.Factory == nil {
		return nil, fmt.Errorf("canvas factory is required")
	}
	if cfg.Templates == nil {
		return nil, fmt.Errorf("template source is required")
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if err := cfg.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("invalid question catalog: %w", err)
	}
	if cfg.Typography == nil {
		cfg.Typography = layout.DefaultTypography()
	}
	if cfg.Geometry.Page.Width == 0 {
		cfg.Geometry = layout.DefaultGeometry()
	}
	if cfg.Render == nil {
		opts := render.DefaultOptions()
		opts.Currency = cfg.Catalog.Currency
		opts.Percent = cfg.Catalog.Percent
		cfg.Render = &opts
	}
	if cfg.ProductName == "" {
		cfg.ProductName = DefaultProductName
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxTOCPasses <= 0 {
		cfg.MaxTOCPasses = DefaultMaxTOCPasses
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Assembler{
		catalog:   cfg.Catalog,
		engine:    cfg.Engine,
		factory:   cfg.Factory,
		templates: cfg.Templates,
		typo:      cfg.Typography,
		geo:       cfg.Geometry,
		opts:      *cfg.Render,
		product:   cfg.ProductName,
		log:       cfg.Logger,
		maxPasses: cfg.MaxTOCPasses,
		now:       cfg.Now,
		cover:     NewCoverGenerator(cfg.Engine, cfg.Factory, cfg.Typography),
		toc:       NewTOCGenerator(cfg.Factory, cfg.Typography, cfg.Geometry),
		merger:    &Merger{Engine: cfg.Engine},
	}, nil
}

// Catalog returns the question catalog sections are drawn from
func (a *Assembler) Catalog() *catalog.Catalog {
	return a.catalog
}

// contentPass is the output of one rendering of the content sections
type contentPass struct {
	accountant *Accountant
	doc        []byte
	pages      int
}

// Assemble builds the complete report for req
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Result, error) {
	id := uuid.NewString()
	log := a.log.With("report_id", id)
	started := time.Now()

	submitted := req.SubmittedAt
	if submitted.IsZero() {
		submitted = a.now()
	}

	sections := a.catalog.Included(req.Answers)
	titles := catalog.Titles(sections)
	company := req.Answers.Get(a.catalog.CompanyField).Text()

	run := func(phase string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return pdferrors.Wrap(pdferrors.ErrorTypeRender, "assembly cancelled", err).WithPhase(phase)
		}
		t := time.Now()
		if err := fn(); err != nil {
			re, ok := pdferrors.As(err)
			if !ok {
				re = pdferrors.Wrap(pdferrors.ErrorTypeRender, "assembly failed", err)
			}
			if re.Phase == "" {
				re.Phase = phase
			}
			log.Error("report phase failed",
				"phase", phase,
				"kind", re.Type.String(),
				"error", re.Error())
			return re
		}
		log.Debug("report phase complete", "phase", phase, "duration", time.Since(t))
		return nil
	}

	var (
		tpl      Templates
		pages    PageCounts
		coverDoc []byte
		measured contentPass
		toc      *TOCDocument
		final    contentPass
		merged   []byte
	)

	if err := run(PhaseFetch, func() error {
		var err error
		tpl, err = a.templates.Fetch(ctx)
		if err != nil {
			if _, ok := pdferrors.As(err); ok {
				return err
			}
			return pdferrors.Wrap(pdferrors.ErrorTypeTemplateFetch, "failed to fetch report templates", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := run(PhaseParse, func() error {
		var err error
		if pages.Cover, err = a.templatePages("cover", tpl.Cover); err != nil {
			return err
		}
		pages.End, err = a.templatePages("end page", tpl.End)
		return err
	}); err != nil {
		return nil, err
	}

	if err := run(PhaseCover, func() error {
		var err error
		coverDoc, err = a.cover.Generate(company, submitted, tpl.Cover)
		return err
	}); err != nil {
		return nil, err
	}

	// Content-relative starts; the chrome is drawn without a total since it
	// does not affect layout.
	if err := run(PhaseMeasure, func() error {
		var err error
		measured, err = a.renderContent(sections, req.Answers, company, 0, 0, 0)
		return err
	}); err != nil {
		return nil, err
	}
	pages.Content = measured.pages

	var expected *Accountant
	if err := run(PhaseTOC, func() error {
		pages.TOC = 1
		for pass := 1; ; pass++ {
			expected = measured.accountant.Shift(pages.Cover, pages.TOC)
			total := pages.Cover + pages.TOC + pages.Content + pages.End
			doc, err := a.toc.Generate(expected, titles, a.chrome(company, pages.Cover, total))
			if err != nil {
				return err
			}
			if doc.Pages == pages.TOC {
				toc = doc
				return nil
			}
			if pass >= a.maxPasses {
				return pdferrors.New(pdferrors.ErrorTypeLayout, "table of contents page count did not settle").
					WithContext(fmt.Sprintf("%d passes, last %d pages", pass, doc.Pages))
			}
			log.Debug("table of contents resized", "assumed", pages.TOC, "actual", doc.Pages)
			pages.TOC = doc.Pages
		}
	}); err != nil {
		return nil, err
	}
	pages.Total = pages.Cover + pages.TOC + pages.Content + pages.End

	if err := run(PhaseContent, func() error {
		var err error
		final, err = a.renderContent(sections, req.Answers, company, pages.Cover, pages.TOC, pages.Total)
		if err != nil {
			return err
		}
		if final.pages != pages.Content || !final.accountant.Equal(expected) {
			return pdferrors.New(pdferrors.ErrorTypeDataConsistency, "final content pass diverged from measured layout").
				WithContext(fmt.Sprintf("measured %d pages, rendered %d", pages.Content, final.pages))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := run(PhaseMerge, func() error {
		var err error
		merged, err = a.merger.Merge(coverDoc, toc.Bytes, final.doc, tpl.End)
		return err
	}); err != nil {
		return nil, err
	}

	log.Info("report assembled",
		"sections", len(sections),
		"pages", pages.Total,
		"toc_pages", pages.TOC,
		"content_pages", pages.Content,
		"bytes", len(merged),
		"duration", time.Since(started))

	return &Result{
		ID:          id,
		Filename:    Filename(a.product, submitted),
		SubmittedAt: submitted,
		Pages:       pages,
		Records:     final.accountant.Records(),
		Contents:    toc.Entries,
		Document:    merged,
	}, nil
}

func (a *Assembler) templatePages(name string, doc []byte) (int, error) {
	n, err := a.engine.PageCount(doc)
	if err != nil {
		return 0, pdferrors.Wrap(pdferrors.ErrorTypeTemplateParse, "failed to parse template", err).
			WithContext(name)
	}
	if n == 0 {
		return 0, pdferrors.New(pdferrors.ErrorTypeTemplateParse, "template has no pages").
			WithContext(name)
	}
	return n, nil
}

func (a *Assembler) chrome(company string, offset, total int) layout.Chrome {
	return layout.Chrome{
		Typography:  a.typo,
		Geometry:    a.geo,
		HeaderLeft:  a.product,
		HeaderRight: company,
		Offset:      offset,
		Total:       total,
	}
}

// renderContent draws every section onto a fresh canvas, recording section
// starts against the given cover and contents page counts.
func (a *Assembler) renderContent(sections []catalog.SectionSpec, rec answers.Record, company string, coverPages, tocPages, total int) (pass contentPass, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = pdferrors.New(pdferrors.ErrorTypeRender, "content rendering panicked").
				WithContext(fmt.Sprint(r))
		}
	}()

	canvas := a.factory(a.geo.Page)
	cursor := layout.NewCursor(canvas, a.geo)
	a.chrome(company, coverPages+tocPages, total).Attach(cursor)

	r := render.New(cursor, a.typo, a.opts)
	acct := NewAccountant(coverPages, tocPages)
	for _, spec := range sections {
		page := r.StartSection()
		if err := acct.RecordSectionStart(spec.DisplayTitle(), page); err != nil {
			return contentPass{}, err
		}
		r.RenderSection(spec, rec.Section(spec.Key))
	}

	doc, err := canvas.Bytes()
	if err != nil {
		return contentPass{}, pdferrors.Wrap(pdferrors.ErrorTypeRender, "failed to serialize content", err)
	}
	return contentPass{accountant: acct, doc: doc, pages: canvas.PageCount()}, nil
}
