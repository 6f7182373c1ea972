package resolver

import (
	"strings"

	"github.com/ripixel/demofit-server/pkg/exercise"
)

// Similarity calculates a 0-1 score based on Levenshtein distance, normalized
// by the longer string's length. Symmetric, and 1.0 only for identical
// strings.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	dist := levenshteinDistance(a, b)
	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(dist)/float64(maxLen)
}

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Create matrix
	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	// Fill matrix
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// WordOverlapScore scores how much of the query is covered by words shared
// with the candidate name. Only words longer than two characters count; the
// summed length of the overlapping words is normalized by the query's length.
func WordOverlapScore(query, candidate string) float64 {
	normalizedQuery := exercise.Normalize(query)
	if normalizedQuery == "" {
		return 0
	}

	candidateWords := make(map[string]bool)
	for _, w := range exercise.Words(candidate) {
		if len(w) > 2 {
			candidateWords[w] = true
		}
	}

	overlap := 0
	for _, w := range strings.Fields(normalizedQuery) {
		if len(w) > 2 && candidateWords[w] {
			overlap += len(w)
		}
	}

	return float64(overlap) / float64(len(normalizedQuery))
}

// clampConfidence keeps fuzzy and partial confidences inside the band that
// preserves cross-tier ordering: never above 0.8 (normalized-phrase floor),
// never below the synthesis confidence.
func clampConfidence(score float64) float64 {
	if score > 0.8 {
		return 0.8
	}
	if score < 0.5 {
		return 0.5
	}
	return score
}
