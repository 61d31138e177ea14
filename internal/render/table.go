package render

import (
	"strconv"
	"strings"

	"github.com/a3tai/mcp-intake-report/internal/answers"
	"github.com/a3tai/mcp-intake-report/internal/catalog"
	"github.com/a3tai/mcp-intake-report/internal/layout"
)

const cellPadding = 4

// tableRow is one built row of a repeat-group table
type tableRow struct {
	label string
	cells []string
}

// buildRows resolves every repeat slot or category into display cells.
// Empty text cells become "Not provided"; empty number cells become 0 and
// non-numeric text in a number column is shown as written.
func (r *Renderer) buildRows(t *catalog.TableSpec, section answers.Section) []tableRow {
	type slot struct {
		label string
		key   func(column string) string
	}

	var slots []slot
	if len(t.Categories) > 0 {
		for _, cat := range t.Categories {
			cat := cat
			slots = append(slots, slot{
				label: cat.Label,
				key:   func(column string) string { return t.CategoryKey(cat.Value, column) },
			})
		}
	} else {
		for i := 1; i <= t.Slots; i++ {
			i := i
			slots = append(slots, slot{
				label: strconv.Itoa(i),
				key:   func(column string) string { return t.RowKey(i, column) },
			})
		}
	}

	rows := make([]tableRow, 0, len(slots))
	for _, sl := range slots {
		row := tableRow{label: sl.label, cells: make([]string, len(t.Columns))}
		for i, col := range t.Columns {
			v := section.Get(sl.key(col.Key))
			if col.Number {
				if v.IsAbsent() {
					row.cells[i] = r.numbers.Format(0, col.Format)
					continue
				}
				text, _ := r.numbers.Value(v, col.Format)
				row.cells[i] = Truncate(text, t.CellBudget())
				continue
			}
			if v.IsAbsent() {
				row.cells[i] = NotProvided
				continue
			}
			row.cells[i] = Truncate(v.Text(), t.CellBudget())
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *Renderer) tableWidths(t *catalog.TableSpec, total float64) []float64 {
	weights := make([]float64, 0, len(t.Columns)+1)
	if len(t.Categories) > 0 {
		weights = append(weights, 1.4)
	} else {
		weights = append(weights, 0.4)
	}
	for _, c := range t.Columns {
		w := c.Width
		if w <= 0 {
			w = 1
		}
		weights = append(weights, w)
	}

	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = total * w / sum
	}
	return widths
}

// table draws a repeat-group as a bordered table. Each row reserves its
// height through the cursor; when a row starts a new page the header row is
// drawn again above it.
func (r *Renderer) table(t *catalog.TableSpec, section answers.Section, indent float64) {
	if t == nil {
		return
	}

	headerStyle := r.typo.Style(layout.StyleTableHeader)
	cellStyle := r.typo.Style(layout.StyleTableCell)
	widths := r.tableWidths(t, r.cursor.Width()-indent)
	x0 := r.cursor.Left() + indent
	s := r.cursor.Surface()

	rowHeader := t.RowHeader
	if rowHeader == "" && len(t.Categories) == 0 {
		rowHeader = "#"
	}
	headers := make([]string, 0, len(t.Columns)+1)
	headers = append(headers, rowHeader)
	for _, c := range t.Columns {
		headers = append(headers, c.Header)
	}

	drawHeader := func() {
		y := r.cursor.Place(headerStyle.LineHeight)
		x := x0
		for i, h := range headers {
			text := r.fit(headerStyle, h, widths[i])
			s.Cell(x, y, widths[i], headerStyle.LineHeight, headerStyle, text, layout.CellOptions{
				Border: true,
				Fill:   &layout.ColorHeaderFill,
				Align:  headerAlign(i, t),
			})
			x += widths[i]
		}
	}

	r.cursor.Gap(2)
	// Keep the header together with the first row.
	r.cursor.EnsureSpace(headerStyle.LineHeight + cellStyle.LineHeight)
	drawHeader()

	for n, row := range r.buildRows(t, section) {
		if r.cursor.EnsureSpace(cellStyle.LineHeight) {
			drawHeader()
		}
		y := r.cursor.Place(cellStyle.LineHeight)

		var fill *layout.RGB
		if n%2 == 1 {
			fill = &layout.ColorStripe
		}

		x := x0
		cells := append([]string{row.label}, row.cells...)
		for i, c := range cells {
			align := layout.AlignLeft
			if i > 0 && t.Columns[i-1].Number {
				align = layout.AlignRight
			}
			s.Cell(x, y, widths[i], cellStyle.LineHeight, cellStyle, r.fit(cellStyle, c, widths[i]), layout.CellOptions{
				Border: true,
				Fill:   fill,
				Align:  align,
			})
			x += widths[i]
		}
	}
}

func headerAlign(i int, t *catalog.TableSpec) layout.Align {
	if i > 0 && t.Columns[i-1].Number {
		return layout.AlignRight
	}
	return layout.AlignLeft
}

// fit shortens text until it fits a cell of width w
func (r *Renderer) fit(style layout.Style, text string, w float64) string {
	s := r.cursor.Surface()
	avail := w - 2*cellPadding
	if s.TextWidth(style, text) <= avail {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + Ellipsis
		if s.TextWidth(style, candidate) <= avail {
			return candidate
		}
	}
	return Ellipsis
}
