package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/a3tai/mcp-intake-report/internal/layout"
)

// fakeEngine understands the recorder's "%RECORDER pages=N" documents
type fakeEngine struct {
	size       layout.PageSize
	stamped    int
	merged     int
	mergeErr   error
	dropPages  int
	unreadable map[string]bool
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{size: layout.A4}
}

func recorderDoc(pages int, body string) []byte {
	return []byte(fmt.Sprintf("%%RECORDER pages=%d\n%s", pages, body))
}

func (e *fakeEngine) PageCount(doc []byte) (int, error) {
	line, _, _ := bytes.Cut(doc, []byte("\n"))
	for marker := range e.unreadable {
		if bytes.Contains(doc, []byte(marker)) {
			return 0, fmt.Errorf("unreadable document %q", marker)
		}
	}
	head := string(line)
	if !strings.HasPrefix(head, "%RECORDER pages=") {
		return 0, fmt.Errorf("not a document")
	}
	return strconv.Atoi(strings.TrimPrefix(head, "%RECORDER pages="))
}

func (e *fakeEngine) FirstPageSize(doc []byte) (layout.PageSize, error) {
	if _, err := e.PageCount(doc); err != nil {
		return layout.PageSize{}, err
	}
	return e.size, nil
}

func (e *fakeEngine) StampFirstPage(doc, overlay []byte) ([]byte, error) {
	e.stamped++
	_, body, _ := bytes.Cut(overlay, []byte("\n"))
	out := append([]byte{}, doc...)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return append(out, body...), nil
}

func (e *fakeEngine) Merge(docs ...[]byte) ([]byte, error) {
	e.merged++
	if e.mergeErr != nil {
		return nil, e.mergeErr
	}
	total := 0
	var body bytes.Buffer
	for _, d := range docs {
		n, err := e.PageCount(d)
		if err != nil {
			return nil, err
		}
		total += n
		_, rest, _ := bytes.Cut(d, []byte("\n"))
		body.Write(rest)
	}
	return recorderDoc(total-e.dropPages, body.String()), nil
}

// failingSource simulates an unreachable template host
type failingSource struct {
	err error
}

func (s failingSource) Fetch(context.Context) (Templates, error) {
	return Templates{}, s.err
}
