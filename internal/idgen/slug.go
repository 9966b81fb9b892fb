// Package idgen implements the normative ID-derivation rules of spec
// §6.6: slugification and the compiled-ID shapes for sections, choices,
// locations, sequences and phases. It is shared by PARSE (which slugifies
// location display names as soon as they are seen) and LINK (which
// derives every other compiled ID during symbol collection).
package idgen

import "strings"

// Slugify lowercases s, replaces whitespace runs with "-", strips every
// rune that is not alphanumeric or "-", collapses consecutive "-", and
// trims leading/trailing "-" (spec §6.6 "Slugify").
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '-':
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		default:
			// stripped: punctuation and everything else non-alphanumeric
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// SectionID derives a section's compiled ID from its declaring file stem
// and local label.
func SectionID(fileStem, localName string) string {
	return fileStem + "/" + localName
}

// ChoiceID derives a choice (or choice-implicit action) ID from its
// enclosing section's compiled ID and label.
func ChoiceID(sectionID, label string) string {
	return sectionID + "/" + Slugify(label)
}
