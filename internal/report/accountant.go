package report

import (
	"fmt"

	pdferrors "github.com/a3tai/mcp-intake-report/internal/pdf/errors"
)

// PageRecord maps a section title to the 1-based page it starts on in the
// final merged document.
type PageRecord struct {
	Title       string `json:"title"`
	Page        int    `json:"page"`
	ContentPage int    `json:"content_page"`
}

// Accountant records where each section starts. Pages are stored as
// content page + cover pages + ToC pages; once written a record is never
// revised.
type Accountant struct {
	coverPages int
	tocPages   int
	records    []PageRecord
	index      map[string]int
}

// NewAccountant creates an accountant for fixed cover and ToC page counts
func NewAccountant(coverPages, tocPages int) *Accountant {
	return &Accountant{
		coverPages: coverPages,
		tocPages:   tocPages,
		index:      make(map[string]int),
	}
}

// Offset returns the number of pages preceding the content document
func (a *Accountant) Offset() int {
	return a.coverPages + a.tocPages
}

// RecordSectionStart records that title begins on contentPage (1-based,
// within the content-only document). Sections must be recorded in output
// order.
func (a *Accountant) RecordSectionStart(title string, contentPage int) error {
	if contentPage < 1 {
		return pdferrors.New(pdferrors.ErrorTypeDataConsistency, "section start page must be positive").
			WithContext(fmt.Sprintf("%q on content page %d", title, contentPage))
	}
	if _, ok := a.index[title]; ok {
		return pdferrors.New(pdferrors.ErrorTypeDataConsistency, "section recorded twice").
			WithContext(title)
	}
	if n := len(a.records); n > 0 && a.records[n-1].ContentPage > contentPage {
		return pdferrors.New(pdferrors.ErrorTypeDataConsistency, "section starts before the previous section").
			WithContext(fmt.Sprintf("%q on content page %d after %q on %d",
				title, contentPage, a.records[n-1].Title, a.records[n-1].ContentPage))
	}

	a.index[title] = len(a.records)
	a.records = append(a.records, PageRecord{
		Title:       title,
		Page:        contentPage + a.Offset(),
		ContentPage: contentPage,
	})
	return nil
}

// Lookup returns the final page number recorded for title
func (a *Accountant) Lookup(title string) (int, bool) {
	i, ok := a.index[title]
	if !ok {
		return 0, false
	}
	return a.records[i].Page, true
}

// Records returns a copy of the records in recording order
func (a *Accountant) Records() []PageRecord {
	out := make([]PageRecord, len(a.records))
	copy(out, a.records)
	return out
}

// Len returns the number of recorded sections
func (a *Accountant) Len() int {
	return len(a.records)
}

// Shift returns a new accountant holding the same content pages re-based
// onto the given cover and ToC page counts.
func (a *Accountant) Shift(coverPages, tocPages int) *Accountant {
	shifted := NewAccountant(coverPages, tocPages)
	for _, r := range a.records {
		// Records were valid when first written, so replaying cannot fail.
		_ = shifted.RecordSectionStart(r.Title, r.ContentPage)
	}
	return shifted
}

// Equal reports whether both accountants hold identical records
func (a *Accountant) Equal(b *Accountant) bool {
	if len(a.records) != len(b.records) {
		return false
	}
	for i := range a.records {
		if a.records[i] != b.records[i] {
			return false
		}
	}
	return true
}
