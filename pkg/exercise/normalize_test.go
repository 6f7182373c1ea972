package exercise

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Push Up", "push up"},
		{"underscores", "Jumping_Jacks", "jumping jacks"},
		{"hyphens", "jumping-jacks", "jumping jacks"},
		{"slashes", "squat/lunge", "squat lunge"},
		{"punctuation dropped", "sit-up!", "sit up"},
		{"parens dropped content kept", "push up (wide grip)", "push up wide grip"},
		{"collapse whitespace", "  push   up  ", "push up"},
		{"digits kept", "squat 3x10", "squat 3x10"},
		{"empty", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWords(t *testing.T) {
	got := Words("Mountain-Climber (fast)")
	want := []string{"mountain", "climber", "fast"}
	if len(got) != len(want) {
		t.Fatalf("Words() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Words()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecordHasMedia(t *testing.T) {
	rec := Record{ID: "1", Name: "squat", GifURL: "https://static.exercisedb.dev/media/0787.gif"}
	if !rec.HasMedia() {
		t.Error("record with GifURL should have media")
	}

	rec.GifURL = ""
	if rec.HasMedia() {
		t.Error("record without GifURL should not have media")
	}

	var nilRec *Record
	if nilRec.HasMedia() {
		t.Error("nil record should not have media")
	}
}

func TestMatchResultDegraded(t *testing.T) {
	res := MatchResult{Source: SourceGenerated}
	if !res.Degraded() {
		t.Error("generated source should be degraded")
	}
	res.Source = SourceRemote
	if res.Degraded() {
		t.Error("remote source should not be degraded")
	}
}
