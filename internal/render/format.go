package render

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/a3tai/mcp-intake-report/internal/answers"
	"github.com/a3tai/mcp-intake-report/internal/catalog"
)

// Placeholder and prefix text emitted by the renderer
const (
	NotProvided  = "Not provided"
	NoSelection  = "No selection"
	AnswerPrefix = "Answer: "
	Ellipsis     = "…"
)

// NumberFormatter formats numeric answers with grouped digits and the
// catalog's currency and percent symbols.
type NumberFormatter struct {
	Currency string
	Percent  string
	printer  *message.Printer
}

// NewNumberFormatter creates a formatter for the given symbols
func NewNumberFormatter(currency, percent string) *NumberFormatter {
	return &NumberFormatter{
		Currency: currency,
		Percent:  percent,
		printer:  message.NewPrinter(language.English),
	}
}

// Format renders n according to f
func (nf *NumberFormatter) Format(n float64, f catalog.Format) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	var digits string
	if n == math.Trunc(n) && n < 1e15 {
		digits = nf.printer.Sprintf("%d", int64(n))
	} else {
		digits = nf.printer.Sprintf("%.2f", n)
	}

	switch f {
	case catalog.Currency:
		return sign + nf.Currency + digits
	case catalog.Percent:
		return sign + digits + nf.Percent
	default:
		return sign + digits
	}
}

// Value renders a numeric answer. Non-numeric text is passed through and
// absent values report ok=false.
func (nf *NumberFormatter) Value(v answers.Value, f catalog.Format) (string, bool) {
	if n, ok := v.Float(); ok {
		return nf.Format(n, f), true
	}
	if v.IsAbsent() {
		return "", false
	}
	return v.Text(), true
}

// Truncate shortens s to at most budget runes, marking the cut with an
// ellipsis.
func Truncate(s string, budget int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if budget <= 0 || len(r) <= budget {
		return s
	}
	if budget == 1 {
		return Ellipsis
	}
	return strings.TrimRight(string(r[:budget-1]), " ") + Ellipsis
}
