// Package similarity provides string similarity scoring for fuzzy entity
// matching. The Scorer interface is the single substitution point for the
// matching algorithm: resolution policy (thresholds, learn asymmetry) lives
// with the caller and is untouched by swapping scorers.
package similarity

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Scorer computes a normalized similarity between two strings in [0, 1],
// where 1 means identical. Implementations must be safe for concurrent use.
type Scorer interface {
	Score(a, b string) float64
}

// LevenshteinScorer scores by normalized edit distance:
// 1 - distance/max(len(a), len(b)).
type LevenshteinScorer struct{}

// unitCosts counts insertions, deletions and substitutions as one edit each,
// keeping the normalized score inside [0, 1].
var unitCosts = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// NewLevenshteinScorer returns the default edit-distance scorer.
func NewLevenshteinScorer() Scorer {
	return LevenshteinScorer{}
}

func (LevenshteinScorer) Score(a, b string) float64 {
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.DistanceForStrings(ra, rb, unitCosts)
	return 1 - float64(dist)/float64(longest)
}
