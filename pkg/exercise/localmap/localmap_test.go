package localmap

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantName string
		wantHit  bool
	}{
		{"exact canonical", "push up", "push up", true},
		{"case and punctuation", "Push-Up!", "push up", true},
		{"underscored machine name", "Jumping_Jacks", "jumping jacks", true},
		{"plural singularized", "Squats", "squat", true},
		{"brand prefix stripped", "TRX lunge", "lunge", true},
		{"parenthetical stripped", "plank (30 seconds)", "plank", true},
		{"per-side suffix stripped", "lunge per leg", "lunge", true},
		{"keyword combination", "explosive jump jacks", "jumping jacks", true},
		{"keyword combination press", "incline bench press machine", "bench press", true},
		{"media-less entry is a miss", "farmers walk", "", false},
		{"unknown exercise", "underwater basket weaving", "", false},
		{"empty query", "", "", false},
		{"punctuation only", "???", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Lookup(tt.query)
			if ok != tt.wantHit {
				t.Fatalf("Lookup(%q) hit = %v, want %v", tt.query, ok, tt.wantHit)
			}
			if ok && rec.Name != tt.wantName {
				t.Errorf("Lookup(%q) = %q, want %q", tt.query, rec.Name, tt.wantName)
			}
			if ok && !rec.HasMedia() {
				t.Errorf("Lookup(%q) returned a record without media", tt.query)
			}
		})
	}
}

func TestRecordsAllCarryMedia(t *testing.T) {
	records := Records()
	if len(records) == 0 {
		t.Fatal("Records() should not be empty")
	}
	for _, rec := range records {
		if !rec.HasMedia() {
			t.Errorf("record %q exported without media", rec.Name)
		}
		if rec.ID == "" {
			t.Errorf("record %q has no id", rec.Name)
		}
	}
}

func TestPopularNamesMatchRecords(t *testing.T) {
	if got, want := len(PopularNames()), len(Records()); got != want {
		t.Errorf("PopularNames() has %d entries, Records() has %d", got, want)
	}
	for _, name := range PopularNames() {
		if _, ok := Lookup(name); !ok {
			t.Errorf("popular name %q does not resolve", name)
		}
	}
}
