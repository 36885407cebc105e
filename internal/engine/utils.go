// Completion: 100% - Utility module complete
package engine

import (
	"github.com/cespare/xxhash/v2"
)

// utils.go - Helper functions shared by the symbol and function tables.

// HashName hashes an identifier for use as a symbol/function table key.
// All name-keyed tables in the backend use the same hash so a lookup in
// one table can reuse a hash computed for another.
func HashName(s string) uint64 {
	return xxhash.Sum64String(s)
}

// LevenshteinDistance calculates the edit distance between two strings.
// Used for "did you mean" suggestions on undefined identifiers.
func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}
	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			del := matrix[i-1][j] + 1
			ins := matrix[i][j-1] + 1
			sub := matrix[i-1][j-1] + cost
			min := del
			if ins < min {
				min = ins
			}
			if sub < min {
				min = sub
			}
			matrix[i][j] = min
		}
	}
	return matrix[len(s1)][len(s2)]
}

// ClosestName returns the candidate with the smallest edit distance to
// name, or "" when nothing is within a distance of 2.
func ClosestName(name string, candidates []string) string {
	best := ""
	bestDist := 3
	for _, c := range candidates {
		if d := LevenshteinDistance(name, c); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}
