package model

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanText trims surrounding whitespace and normalizes s to NFC.
// Documents edited on different platforms mix composed and decomposed
// Hangul and Latin accents; NFC keeps identical text byte-identical in
// the exported CSV.
func CleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
