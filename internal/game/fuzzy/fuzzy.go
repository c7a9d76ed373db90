// Package fuzzy resolves user-typed names against a fixed list of choices,
// tolerating case differences and small typos.
package fuzzy

import (
	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// DefaultTolerance is the maximum edit distance accepted when none is configured.
const DefaultTolerance = 1

var folder = cases.Fold()

// Distance returns the Levenshtein distance between the case-folded forms of a and b.
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(folder.String(a), folder.String(b))
}

// Match reports whether input is approximately equal to candidate: their
// case-folded edit distance is at most tolerance.
//
// Precondition: tolerance must be >= 0.
func Match(input, candidate string, tolerance int) bool {
	return Distance(input, candidate) <= tolerance
}

// Find returns the first candidate, in order, that input matches within tolerance.
//
// Postcondition: Returns ("", false) if input is empty or nothing matches.
func Find(input string, candidates []string, tolerance int) (string, bool) {
	if input == "" {
		return "", false
	}
	for _, c := range candidates {
		if Match(input, c, tolerance) {
			return c, true
		}
	}
	return "", false
}
