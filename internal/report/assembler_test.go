package report

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-intake-report/internal/answers"
	"github.com/a3tai/mcp-intake-report/internal/catalog"
	"github.com/a3tai/mcp-intake-report/internal/layout"
	"github.com/a3tai/mcp-intake-report/internal/layout/layouttest"
	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
)

var submittedAt = time.Date(2024, 5, 1, 12, 34, 56, 789_000_000, time.UTC)

func testTemplates() StaticTemplates {
	return StaticTemplates{
		Cover: recorderDoc(1, "cover artwork\n"),
		End:   recorderDoc(1, "end page\n"),
	}
}

func newTestAssembler(t *testing.T, engine DocumentEngine, src TemplateSource) *Assembler {
	t.Helper()
	a, err := NewAssembler(Config{
		Engine:      engine,
		Factory:     layouttest.Factory,
		Templates:   src,
		ProductName: "acme-tech-liability",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:         func() time.Time { return submittedAt },
	})
	require.NoError(t, err)
	return a
}

func coreTitles() []string {
	return catalog.Titles(catalog.Default().Sections)
}

func entryTitles(entries []TOCEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Title
	}
	return out
}

func TestAssemble_NoSectorsSelected(t *testing.T) {
	a := newTestAssembler(t, newFakeEngine(), testTemplates())

	res, err := a.Assemble(context.Background(), Request{Answers: answers.Record{
		"operations": {"selected_sectors": answers.Choices()},
	}})
	require.NoError(t, err)

	require.Len(t, res.Contents, 13)
	assert.Equal(t, coreTitles(), entryTitles(res.Contents))
	for _, e := range res.Contents {
		assert.GreaterOrEqual(t, e.Page, 2)
	}
	assert.Equal(t, 3, res.Contents[0].Page, "first section follows one cover and one contents page")

	assert.Equal(t, 1, res.Pages.Cover)
	assert.Equal(t, 1, res.Pages.TOC)
	assert.Equal(t, 1, res.Pages.End)
	assert.Equal(t, res.Pages.Cover+res.Pages.TOC+res.Pages.Content+res.Pages.End, res.Pages.Total)
	assert.Equal(t, "acme-tech-liability-2024-05-01T12-34-56.789Z.pdf", res.Filename)
	assert.NotEmpty(t, res.ID)

	last := res.Contents[len(res.Contents)-1].Page
	assert.LessOrEqual(t, last, res.Pages.Total-res.Pages.End)
}

func TestAssemble_SelectedSupplementsInFixedOrder(t *testing.T) {
	a := newTestAssembler(t, newFakeEngine(), testTemplates())

	res, err := a.Assemble(context.Background(), Request{Answers: answers.Record{
		"operations": {"selected_sectors": answers.Choices("robotics", "ai")},
	}})
	require.NoError(t, err)

	require.Len(t, res.Contents, 15)
	assert.Equal(t, "14. Artificial Intelligence Supplement", res.Contents[13].Title)
	assert.Equal(t, "16. Robotics Supplement", res.Contents[14].Title)
	for _, e := range res.Contents {
		assert.NotContains(t, e.Title, "Decentralized Finance")
	}
}

func TestAssemble_PageNumbersNeverDecrease(t *testing.T) {
	a := newTestAssembler(t, newFakeEngine(), testTemplates())

	long := strings.Repeat("We operate across several regulated markets. ", 80)
	res, err := a.Assemble(context.Background(), Request{Answers: answers.Record{
		"applicant":  {"company_name": answers.String("Acme Robotics Ltd.")},
		"operations": {"selected_sectors": answers.Choices("ai", "defi", "robotics"), "description": answers.String(long)},
		"ip":         {"ip_description": answers.String(long)},
	}})
	require.NoError(t, err)

	require.Len(t, res.Contents, 16)
	require.Len(t, res.Records, 16)
	for i, e := range res.Contents {
		assert.Equal(t, res.Records[i].Title, e.Title)
		assert.Equal(t, res.Records[i].Page, e.Page, "contents match recorded pages")
		if i > 0 {
			assert.GreaterOrEqual(t, e.Page, res.Contents[i-1].Page)
		}
	}
	assert.Greater(t, res.Pages.Content, 1)
}

func TestAssemble_Deterministic(t *testing.T) {
	rec := answers.Record{
		"applicant":  {"company_name": answers.String("Initech")},
		"operations": {"selected_sectors": answers.Choices("defi")},
		"clients":    {"top_client_1_name": answers.String("Globex"), "top_client_1_revenue": answers.Num(120000)},
	}

	a := newTestAssembler(t, newFakeEngine(), testTemplates())
	first, err := a.Assemble(context.Background(), Request{Answers: rec, SubmittedAt: submittedAt})
	require.NoError(t, err)
	second, err := a.Assemble(context.Background(), Request{Answers: rec, SubmittedAt: submittedAt})
	require.NoError(t, err)

	assert.Equal(t, first.Contents, second.Contents)
	assert.Equal(t, first.Records, second.Records)
	assert.Equal(t, first.Document, second.Document)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestAssemble_CoverCarriesCompanyAndDate(t *testing.T) {
	engine := newFakeEngine()
	a := newTestAssembler(t, engine, testTemplates())

	res, err := a.Assemble(context.Background(), Request{Answers: answers.Record{
		"applicant": {"company_name": answers.String("Initech")},
	}})
	require.NoError(t, err)

	doc := string(res.Document)
	assert.Equal(t, 1, engine.stamped)
	assert.Contains(t, doc, "cover artwork")
	assert.Contains(t, doc, "1: Initech\n")
	assert.Contains(t, doc, "Submitted May 1, 2024 12:34 UTC")
	assert.Contains(t, doc, TOCTitle)
	assert.Contains(t, doc, "end page")
	assert.Less(t, strings.Index(doc, "cover artwork"), strings.Index(doc, TOCTitle))
	assert.Less(t, strings.Index(doc, TOCTitle), strings.Index(doc, "1. Applicant Information\n"))
	assert.Less(t, strings.Index(doc, "13. Declarations"), strings.Index(doc, "end page"))
}

func TestAssemble_CoverFetchFailure(t *testing.T) {
	engine := newFakeEngine()
	netErr := stderrors.New("dial tcp 10.0.0.1:443: connect: network is unreachable")
	a := newTestAssembler(t, engine, failingSource{err: netErr})

	res, err := a.Assemble(context.Background(), Request{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, stderrors.Is(err, pdferrors.Kind(pdferrors.ErrorTypeTemplateFetch)))
	assert.True(t, stderrors.Is(err, netErr))

	re, ok := pdferrors.As(err)
	require.True(t, ok)
	assert.Equal(t, PhaseFetch, re.Phase)
	assert.Zero(t, engine.stamped)
	assert.Zero(t, engine.merged)
}

func TestAssemble_TemplateParseFailure(t *testing.T) {
	tests := []struct {
		name string
		tpl  StaticTemplates
	}{
		{"cover not a document", StaticTemplates{Cover: []byte("<html>"), End: recorderDoc(1, "")}},
		{"end page empty", StaticTemplates{Cover: recorderDoc(1, ""), End: recorderDoc(0, "")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAssembler(t, newFakeEngine(), tt.tpl)
			res, err := a.Assemble(context.Background(), Request{})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, pdferrors.ErrorTypeTemplateParse, pdferrors.TypeOf(err))
		})
	}
}

func TestAssemble_MergeFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.mergeErr = stderrors.New("corrupt xref")
	a := newTestAssembler(t, engine, testTemplates())

	res, err := a.Assemble(context.Background(), Request{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, pdferrors.ErrorTypeMerge, pdferrors.TypeOf(err))
}

func TestAssemble_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newTestAssembler(t, newFakeEngine(), testTemplates())
	res, err := a.Assemble(ctx, Request{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestAssemble_MultiPageContents(t *testing.T) {
	geo := layout.DefaultGeometry()
	geo.Page.Height = 360

	a, err := NewAssembler(Config{
		Engine:    newFakeEngine(),
		Factory:   layouttest.Factory,
		Templates: testTemplates(),
		Geometry:  geo,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	res, err := a.Assemble(context.Background(), Request{SubmittedAt: submittedAt})
	require.NoError(t, err)

	require.Greater(t, res.Pages.TOC, 1)
	assert.Equal(t, 1+res.Pages.TOC+1, res.Contents[0].Page)
	assert.Equal(t, res.Pages.TOC, res.Contents[len(res.Contents)-1].TOCPage)
}

func TestNewAssembler_RequiresCollaborators(t *testing.T) {
	_, err := NewAssembler(Config{Factory: layouttest.Factory, Templates: testTemplates()})
	assert.Error(t, err)
	_, err = NewAssembler(Config{Engine: newFakeEngine(), Templates: testTemplates()})
	assert.Error(t, err)
	_, err = NewAssembler(Config{Engine: newFakeEngine(), Factory: layouttest.Factory})
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "acme-2024-05-01T12-34-56.789Z.pdf", Filename("acme", submittedAt))
	assert.Equal(t, DefaultProductName+"-2024-05-01T12-34-56.789Z.pdf", Filename("  ", submittedAt))

	local := submittedAt.In(time.FixedZone("EST", -5*3600))
	assert.Equal(t, Filename("acme", submittedAt), Filename("acme", local))
}

func TestMerger_RejectsUnreadablePart(t *testing.T) {
	engine := newFakeEngine()
	engine.unreadable = map[string]bool{"broken": true}
	m := &Merger{Engine: engine}

	_, err := m.Merge(recorderDoc(1, ""), recorderDoc(1, "broken\n"), recorderDoc(2, ""), recorderDoc(1, ""))
	require.Error(t, err)
	assert.Equal(t, pdferrors.ErrorTypeMerge, pdferrors.TypeOf(err))
	assert.Contains(t, err.Error(), "table of contents")
	assert.Zero(t, engine.merged)
}

func TestMerger_DetectsLostPages(t *testing.T) {
	engine := newFakeEngine()
	engine.dropPages = 1
	m := &Merger{Engine: engine}

	_, err := m.Merge(recorderDoc(1, ""), recorderDoc(1, ""), recorderDoc(2, ""), recorderDoc(1, ""))
	require.Error(t, err)
	assert.Equal(t, pdferrors.ErrorTypeMerge, pdferrors.TypeOf(err))
}

func TestCoverGenerator_RejectsEmptyTemplate(t *testing.T) {
	g := NewCoverGenerator(newFakeEngine(), layouttest.Factory, layout.DefaultTypography())

	_, err := g.Generate("Acme", submittedAt, recorderDoc(0, ""))
	require.Error(t, err)
	assert.Equal(t, pdferrors.ErrorTypeTemplateParse, pdferrors.TypeOf(err))

	_, err = g.Generate("Acme", submittedAt, []byte("%PDF-garbage"))
	require.Error(t, err)
	assert.Equal(t, pdferrors.ErrorTypeTemplateParse, pdferrors.TypeOf(err))
}

func TestCoverGenerator_OverlayPlacement(t *testing.T) {
	var rec *layouttest.Recorder
	factory := func(size layout.PageSize) layout.Canvas {
		rec = layouttest.NewRecorder(size)
		return rec
	}
	g := NewCoverGenerator(newFakeEngine(), factory, layout.DefaultTypography())

	_, err := g.Overlay("", submittedAt, layout.PageSize{Width: 612, Height: 792})
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, 1, rec.PageCount())
	assert.Equal(t, layout.PageSize{Width: 612, Height: 792}, rec.PageSize())
	require.NotEmpty(t, rec.Ops)

	var texts []layouttest.Op
	for _, op := range rec.Ops {
		if op.Kind == layouttest.OpText {
			texts = append(texts, op)
		}
	}
	require.Len(t, texts, 2)
	assert.Equal(t, "Not provided", texts[0].Text)
	assert.Equal(t, DefaultCoverLayout().CompanyY, texts[0].Y)
	assert.Equal(t, DefaultCoverLayout().DateY, texts[1].Y)
}
