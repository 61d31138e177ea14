package pdf

import (
	"fmt"
	"testing"

	"github.com/a3tai/mcp-intake-report/internal/layout"
)

var letter = layout.PageSize{Width: 612, Height: 792}

// templatePDF draws a simple document with one labelled line per page
func templatePDF(t *testing.T, pages int, label string) []byte {
	t.Helper()

	c := NewCanvas(letter, CanvasOptions{Creator: "tests"})
	style := layout.DefaultTypography().Style(layout.StyleBody)
	for i := 1; i <= pages; i++ {
		c.AddPage()
		c.Text(72, 72, style, fmt.Sprintf("%s page %d", label, i))
	}

	data, err := c.Bytes()
	if err != nil {
		t.Fatalf("failed to build template: %v", err)
	}
	return data
}
