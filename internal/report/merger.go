package report

import (
	"fmt"

	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
)

// Merger concatenates the four report parts into the final document
type Merger struct {
	Engine DocumentEngine
}

// Merge copies every page of cover, toc, content and end, in that order.
// Every part is parsed first; any part that cannot be read fails the whole
// merge.
func (m *Merger) Merge(cover, toc, content, end []byte) ([]byte, error) {
	parts := []struct {
		name string
		doc  []byte
	}{
		{"cover", cover},
		{"table of contents", toc},
		{"content", content},
		{"end page", end},
	}

	want := 0
	docs := make([][]byte, 0, len(parts))
	for _, p := range parts {
		n, err := m.Engine.PageCount(p.doc)
		if err != nil {
			return nil, pdferrors.Wrap(pdferrors.ErrorTypeMerge, "failed to parse document part", err).
				WithContext(p.name).
				WithPhase(PhaseMerge)
		}
		if n == 0 {
			return nil, pdferrors.New(pdferrors.ErrorTypeMerge, "document part has no pages").
				WithContext(p.name).
				WithPhase(PhaseMerge)
		}
		want += n
		docs = append(docs, p.doc)
	}

	merged, err := m.Engine.Merge(docs...)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeMerge, "failed to merge documents", err).
			WithPhase(PhaseMerge)
	}

	got, err := m.Engine.PageCount(merged)
	if err != nil {
		return nil, pdferrors.Wrap(pdferrors.ErrorTypeMerge, "merged document is unreadable", err).
			WithPhase(PhaseMerge)
	}
	if got != want {
		return nil, pdferrors.New(pdferrors.ErrorTypeMerge, "merged document lost pages").
			WithContext(fmt.Sprintf("expected %d pages, got %d", want, got)).
			WithPhase(PhaseMerge)
	}
	return merged, nil
}
