package pairing

import (
	"unicode"
	"unicode/utf8"
)

// DefaultDigits is the identifier width used when Options.Digits is unset.
const DefaultDigits = 5

// FindIdentifier returns the first run of exactly n decimal digits in s that
// is bounded by non-word characters or the ends of s, and whether one was
// found. Any Unicode decimal digit counts, so "１２３４５" and "١٢٣٤٥" are
// identifiers, and n counts runes. A word character is a letter, any
// numeric character, or '_', so "A12345B", "123456" and "12345²" hold no
// five-digit identifier while "No.12345," does.
func FindIdentifier(s string, n int) (string, bool) {
	if n <= 0 {
		n = DefaultDigits
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsDigit(r) {
			i += size
			continue
		}

		// Scan the maximal digit run starting at i.
		j, count := i, 0
		for j < len(s) {
			r, size := utf8.DecodeRuneInString(s[j:])
			if !unicode.IsDigit(r) {
				break
			}
			j += size
			count++
		}

		if count == n && !wordBefore(s, i) && !wordAfter(s, j) {
			return s[i:j], true
		}
		i = j
	}
	return "", false
}

// isWordRune matches the characters a Unicode regexp \w accepts: letters,
// every numeric category (Nd, Nl, No) and '_'.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func wordBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isWordRune(r)
}

func wordAfter(s string, j int) bool {
	if j >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[j:])
	return isWordRune(r)
}
