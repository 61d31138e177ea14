package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-intake-report/internal/report"
)

// Reader extracts the readable text of generated reports
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// InspectFile reads a report from disk
func (r *Reader) InspectFile(path string) (*ReportInspectResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(data)) > r.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", len(data), r.maxFileSize)
	}

	result, err := r.Inspect(data)
	if err != nil {
		return nil, err
	}
	result.Path = path
	return result, nil
}

// Inspect returns the page count, per-page text and the table of contents
// lines of a report.
func (r *Reader) Inspect(data []byte) (*ReportInspectResult, error) {
	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pages := pdfReader.NumPage()
	result := &ReportInspectResult{
		Size:     int64(len(data)),
		Pages:    pages,
		PageText: make([]string, 0, pages),
	}

	total := 0
	inContents := false
	for pageNum := 1; pageNum <= pages; pageNum++ {
		text := r.pageText(pdfReader, pageNum)
		if total+len(text) > r.maxTextSize {
			text = text[:max(0, r.maxTextSize-total)]
		}
		total += len(text)
		result.PageText = append(result.PageText, text)

		// Contents pages are the run of pages starting with the heading.
		if strings.Contains(text, report.TOCTitle) {
			inContents = true
		} else if inContents && !strings.Contains(text, "....") {
			inContents = false
		}
		if inContents {
			result.Contents = append(result.Contents, contentsLines(text)...)
		}
	}

	return result, nil
}

// pageText extracts one page, treating unreadable pages as empty
func (r *Reader) pageText(pdfReader *pdf.Reader, pageNum int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := pdfReader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

// contentsLines returns the dot-leader entries of a contents page
func contentsLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if i := strings.Index(line, ".."); i > 0 {
			title := strings.TrimSpace(line[:i])
			page := strings.TrimSpace(strings.TrimLeft(line[i:], ". "))
			out = append(out, title+" "+page)
		}
	}
	return out
}
