package resolver

import "testing"

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{"identical", "squat", "squat", 1.0, 1.0},
		{"both empty", "", "", 1.0, 1.0},
		{"plural off by one", "squat", "squats", 0.8, 1.0},
		{"unrelated", "squat", "deadlift", 0.0, 0.3},
		{"one empty", "", "squat", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("Similarity(%q, %q) = %.3f, want in [%.2f, %.2f]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

func TestSimilarityIsSymmetric(t *testing.T) {
	if Similarity("push up", "pull up") != Similarity("pull up", "push up") {
		t.Error("Similarity should be symmetric")
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"squat", "", 5},
		{"", "plank", 5},
		{"squat", "squats", 1},
		{"kitten", "sitting", 3},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestWordOverlapScore(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		min       float64
		max       float64
	}{
		{"full containment", "dumbbell bicep curl", "bicep curl", 0.4, 0.6},
		{"word order ignored", "seated cable row machine", "cable seated row", 0.5, 0.7},
		{"no shared words", "squat", "push up", 0.0, 0.0},
		{"short words excluded", "up", "up", 0.0, 0.0},
		{"empty query", "", "squat", 0.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WordOverlapScore(tt.query, tt.candidate)
			if got < tt.min || got > tt.max {
				t.Errorf("WordOverlapScore(%q, %q) = %.3f, want in [%.2f, %.2f]",
					tt.query, tt.candidate, got, tt.min, tt.max)
			}
		})
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.95, 0.8},
		{0.8, 0.8},
		{0.65, 0.65},
		{0.5, 0.5},
		{0.2, 0.5},
	}
	for _, tt := range tests {
		if got := clampConfidence(tt.in); got != tt.want {
			t.Errorf("clampConfidence(%.2f) = %.2f, want %.2f", tt.in, got, tt.want)
		}
	}
}
