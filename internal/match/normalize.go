// Package match provides description normalization and fuzzy string
// similarity for the categorization cascade and duplicate detection.
package match

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a statement description for pattern keys and
// similarity comparison: lowercase, punctuation stripped, whitespace
// collapsed. Normalize("SHELL  4521, GAS") == "shell 4521 gas".
func Normalize(description string) string {
	var b strings.Builder
	b.Grow(len(description))

	lastSpace := true
	for _, r := range strings.ToLower(description) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			// Punctuation and whitespace both collapse into one separator.
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// TokenOverlap returns the Jaccard overlap of the normalized token sets of
// two descriptions, in [0,1]. Used as the tie-breaker when several ledger
// entries could all be the duplicate of one imported row.
func TokenOverlap(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	shared := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			shared++
		}
	}

	union := len(setA) + len(setB) - shared
	return float64(shared) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	toks := strings.Fields(Normalize(s))
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}
