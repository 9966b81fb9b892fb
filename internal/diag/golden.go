package diag

import (
	"fmt"
	"strings"
)

// GoldenLines renders a sorted Bag into one deterministic line per
// diagnostic, suitable for golden-file comparisons in end-to-end tests
// (spec §8.4 S1-S6). Format: "<line>:<col> <severity> <code>: <message>".
func GoldenLines(b *Bag) []string {
	lines := make([]string, 0, b.Len())
	for _, d := range b.Items() {
		lines = append(lines, fmt.Sprintf("%d:%d %s %s: %s",
			d.Primary.StartLine, d.Primary.StartCol, d.Severity, d.Code.ID(), d.Message))
	}
	return lines
}

// Golden renders GoldenLines joined by newlines, with a trailing newline.
func Golden(b *Bag) string {
	lines := GoldenLines(b)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
