package game

import (
	"strings"

	"golang.org/x/text/cases"
)

// normalizeName case-folds and trims a guess or ingredient name so that
// "  TOMATO " and "tomato" compare equal.
func normalizeName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
