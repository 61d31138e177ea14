package report

import (
	"strings"
	"time"
)

// DefaultProductName prefixes report filenames when none is configured
const DefaultProductName = "insurance-application"

// Filename returns <product>-<ISO-8601 UTC timestamp>.pdf with every ':'
// replaced by '-' so the name is valid on every filesystem.
func Filename(product string, t time.Time) string {
	product = strings.TrimSpace(product)
	if product == "" {
		product = DefaultProductName
	}
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return product + "-" + strings.ReplaceAll(stamp, ":", "-") + ".pdf"
}
