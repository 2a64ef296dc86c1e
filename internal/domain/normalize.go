package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses
// internal whitespace runs. It is used for contact and trip names.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizePhone strips spacing and separator characters from a phone
// number, keeping digits and a leading "+".
func NormalizePhone(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
