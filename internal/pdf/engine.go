package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/a3tai/mcp-intake-report/internal/layout"
)

// stampDescription places a one-page PDF stamp unscaled over the whole page
const stampDescription = "position:bl, offset:0 0, scalefactor:1 abs, rotation:0, opacity:1"

// Engine implements report.DocumentEngine with pdfcpu
type Engine struct {
	tempDir string
}

// NewEngine creates a pdfcpu engine. tempDir holds the short-lived stamp
// files pdfcpu reads overlays from; empty uses the system default.
func NewEngine(tempDir string) *Engine {
	return &Engine{tempDir: tempDir}
}

// configuration returns a fresh relaxed configuration; pdfcpu mutates it
// per command so it is never shared between calls. Output keeps a classic
// xref table so every reader can open generated reports.
func (e *Engine) configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

func (e *Engine) read(doc []byte) (*model.Context, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("document is empty")
	}
	ctx, err := api.ReadContext(bytes.NewReader(doc), e.configuration())
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("failed to ensure page count: %w", err)
	}
	return ctx, nil
}

// PageCount returns the number of pages in doc
func (e *Engine) PageCount(doc []byte) (int, error) {
	ctx, err := e.read(doc)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// FirstPageSize returns the dimensions of page 1 in points
func (e *Engine) FirstPageSize(doc []byte) (layout.PageSize, error) {
	ctx, err := e.read(doc)
	if err != nil {
		return layout.PageSize{}, err
	}
	dims, err := ctx.PageDims()
	if err != nil {
		return layout.PageSize{}, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	if len(dims) == 0 {
		return layout.PageSize{}, fmt.Errorf("document has no pages")
	}
	return layout.PageSize{Width: dims[0].Width, Height: dims[0].Height}, nil
}

// StampFirstPage composites overlay's first page onto page 1 of doc
func (e *Engine) StampFirstPage(doc, overlay []byte) ([]byte, error) {
	if _, err := e.read(overlay); err != nil {
		return nil, fmt.Errorf("invalid overlay: %w", err)
	}

	tmp, err := os.CreateTemp(e.tempDir, "cover-overlay-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to create overlay file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(overlay); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write overlay file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to write overlay file: %w", err)
	}

	wm, err := api.PDFWatermark(tmp.Name(), stampDescription, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare stamp: %w", err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(doc), &out, []string{"1"}, wm, e.configuration()); err != nil {
		return nil, fmt.Errorf("failed to stamp page 1: %w", err)
	}
	return out.Bytes(), nil
}

// Merge concatenates every page of docs in order
func (e *Engine) Merge(docs ...[]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("nothing to merge")
	}
	readers := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		readers[i] = bytes.NewReader(d)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, e.configuration()); err != nil {
		return nil, fmt.Errorf("failed to merge %d documents: %w", len(docs), err)
	}
	return out.Bytes(), nil
}
