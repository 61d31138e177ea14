package report

import (
	"context"

	"github.com/a3tai/mcp-intake-report/internal/layout"
)

// Assembly phases, used in logs and on ReportError.Phase
const (
	PhaseFetch   = "fetch"
	PhaseParse   = "parse"
	PhaseCover   = "cover"
	PhaseMeasure = "measure"
	PhaseTOC     = "toc"
	PhaseContent = "content"
	PhaseMerge   = "merge"
)

// DocumentEngine reads and combines finished paginated documents
type DocumentEngine interface {
	// PageCount parses doc and returns its number of pages
	PageCount(doc []byte) (int, error)
	// FirstPageSize returns the media box of page 1
	FirstPageSize(doc []byte) (layout.PageSize, error)
	// StampFirstPage composites the single page of overlay onto page 1 of
	// doc at full opacity and returns the new document.
	StampFirstPage(doc, overlay []byte) ([]byte, error)
	// Merge concatenates every page of docs in order
	Merge(docs ...[]byte) ([]byte, error)
}

// Templates are the static cover and end-page documents
type Templates struct {
	Cover []byte
	End   []byte
}

// TemplateSource fetches both static templates for one assembly
type TemplateSource interface {
	Fetch(ctx context.Context) (Templates, error)
}

// StaticTemplates serves templates already held in memory
type StaticTemplates Templates

// Fetch implements TemplateSource
func (s StaticTemplates) Fetch(ctx context.Context) (Templates, error) {
	if err := ctx.Err(); err != nil {
		return Templates{}, err
	}
	return Templates(s), nil
}
