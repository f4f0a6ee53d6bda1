package match

import (
	"github.com/agnivade/levenshtein"
)

// Similarity scores how alike two strings are.
//
// Contract: symmetric, result in [0,1], identical inputs score exactly 1.0.
// Implementations must be pure so the categorization cascade stays
// deterministic.
type Similarity func(a, b string) float64

// Ratio is the default Similarity. It normalizes both inputs and takes the
// better of a whole-string edit-distance ratio and a windowed ratio, so a
// stored pattern key still matches a description that merely extends it
// ("shell 4521" vs "shell 4521 gas station").
func Ratio(a, b string) float64 {
	na := []rune(Normalize(a))
	nb := []rune(Normalize(b))

	if len(na) == 0 && len(nb) == 0 {
		return 1.0
	}
	if len(na) == 0 || len(nb) == 0 {
		return 0
	}

	// Keep na the shorter of the two; the measure is symmetric.
	if len(na) > len(nb) {
		na, nb = nb, na
	}

	full := 1.0 - float64(distance(na, nb))/float64(len(nb))

	best := full
	if partial := partialRatio(na, nb); partial > best {
		best = partial
	}
	return best
}

// FullRatio is the whole-string edit-distance ratio without the windowed
// component. Use it when a short string matching inside a longer one must
// NOT count, e.g. mapping header cells to column synonyms.
func FullRatio(a, b string) float64 {
	na := []rune(Normalize(a))
	nb := []rune(Normalize(b))

	if len(na) == 0 && len(nb) == 0 {
		return 1.0
	}
	if len(na) == 0 || len(nb) == 0 {
		return 0
	}

	longest := len(na)
	if len(nb) > longest {
		longest = len(nb)
	}
	return 1.0 - float64(distance(na, nb))/float64(longest)
}

// partialRatio slides a window the length of the shorter string across the
// longer one and returns the best edit-distance ratio of any window.
func partialRatio(short, long []rune) float64 {
	n := len(short)
	best := 0.0
	for i := 0; i+n <= len(long); i++ {
		d := distance(short, long[i:i+n])
		if ratio := 1.0 - float64(d)/float64(n); ratio > best {
			best = ratio
		}
		if best == 1.0 {
			break
		}
	}
	return best
}

func distance(a, b []rune) int {
	return levenshtein.ComputeDistance(string(a), string(b))
}
