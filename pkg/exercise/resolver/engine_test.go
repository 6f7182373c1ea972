package resolver

import (
	"strings"
	"testing"

	"github.com/ripixel/demofit-server/pkg/exercise"
)

func TestResolveTiers(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name          string
		query         string
		wantRecord    string
		wantType      exercise.MatchType
		minConfidence float64
		maxConfidence float64
	}{
		{
			name:          "exact canonical name",
			query:         "push up",
			wantRecord:    "push up",
			wantType:      exercise.MatchExact,
			minConfidence: 1.0,
			maxConfidence: 1.0,
		},
		{
			name:          "underscored input normalizes to exact",
			query:         "Jumping_Jacks",
			wantRecord:    "jumping jacks",
			wantType:      exercise.MatchExact,
			minConfidence: 1.0,
			maxConfidence: 1.0,
		},
		{
			name:          "alias table",
			query:         "pushups",
			wantRecord:    "push up",
			wantType:      exercise.MatchNormalized,
			minConfidence: 0.9,
			maxConfidence: 0.95,
		},
		{
			name:          "alias crunches to sit up",
			query:         "crunches",
			wantRecord:    "sit up",
			wantType:      exercise.MatchNormalized,
			minConfidence: 0.9,
			maxConfidence: 0.95,
		},
		{
			name:          "curated table variant",
			query:         "TRX lunge",
			wantRecord:    "lunge",
			wantType:      exercise.MatchNormalized,
			minConfidence: 0.95,
			maxConfidence: 0.95,
		},
		{
			name:          "phrase embedded in noise",
			query:         "barbell squat 3x10",
			wantRecord:    "squat",
			wantType:      exercise.MatchNormalized,
			minConfidence: 0.7,
			maxConfidence: 0.7,
		},
		{
			name:          "semantic pattern",
			query:         "squatting low",
			wantRecord:    "squat",
			wantType:      exercise.MatchSemantic,
			minConfidence: 0.7,
			maxConfidence: 0.7,
		},
		{
			name:          "fuzzy word overlap",
			query:         "russian style twist",
			wantRecord:    "russian twist",
			wantType:      exercise.MatchFuzzy,
			minConfidence: 0.5,
			maxConfidence: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Resolve(tt.query)
			if result.Record.Name != tt.wantRecord {
				t.Errorf("Resolve(%q).Record.Name = %q, want %q", tt.query, result.Record.Name, tt.wantRecord)
			}
			if result.MatchType != tt.wantType {
				t.Errorf("Resolve(%q).MatchType = %q, want %q", tt.query, result.MatchType, tt.wantType)
			}
			if result.Confidence < tt.minConfidence || result.Confidence > tt.maxConfidence {
				t.Errorf("Resolve(%q).Confidence = %.2f, want in [%.2f, %.2f]",
					tt.query, result.Confidence, tt.minConfidence, tt.maxConfidence)
			}
			if result.Source != exercise.SourceLocalMapping {
				t.Errorf("Resolve(%q).Source = %q, want %q", tt.query, result.Source, exercise.SourceLocalMapping)
			}
			if !result.Record.HasMedia() {
				t.Errorf("Resolve(%q) returned a record without media", tt.query)
			}
		})
	}
}

func TestResolveEquivalentSpellings(t *testing.T) {
	engine := NewEngine()

	canonical := engine.Resolve("jumping jacks")
	for _, variant := range []string{"Jumping_Jacks", "jumping-jacks", "JUMPING JACKS", "jumping  jacks"} {
		result := engine.Resolve(variant)
		if result.Record.ID != canonical.Record.ID {
			t.Errorf("Resolve(%q).Record.ID = %q, want %q", variant, result.Record.ID, canonical.Record.ID)
		}
	}
}

func TestResolveLocalMissReturnsNil(t *testing.T) {
	engine := NewEngine()

	for _, query := range []string{"zzz qqq", "", "!!!", "underwater zzz weaving"} {
		if res := engine.ResolveLocal(query); res != nil {
			t.Errorf("ResolveLocal(%q) = %+v, want nil", query, res)
		}
	}
}

func TestResolveNeverReturnsEmpty(t *testing.T) {
	engine := NewEngine()

	result := engine.Resolve("zzz qqq")
	if result.MatchType != exercise.MatchFallback {
		t.Errorf("MatchType = %q, want %q", result.MatchType, exercise.MatchFallback)
	}
	if result.Source != exercise.SourceGenerated {
		t.Errorf("Source = %q, want %q", result.Source, exercise.SourceGenerated)
	}
	if result.Confidence != 0.5 {
		t.Errorf("Confidence = %.2f, want 0.5", result.Confidence)
	}
	if !result.Record.HasMedia() {
		t.Error("synthesized record must carry placeholder media")
	}
	if !strings.HasPrefix(result.Record.ID, "generated-") {
		t.Errorf("synthesized id = %q, want generated- prefix", result.Record.ID)
	}
	if len(result.Record.Instructions) == 0 {
		t.Error("synthesized record should carry generic instructions")
	}
}

func TestSynthesizeInference(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name          string
		query         string
		wantCategory  string
		wantEquipment string
		wantMuscle    string
	}{
		{"dumbbell strength", "dumbbell curl blaster", "strength", "dumbbell", "biceps"},
		{"cardio", "jump rope", "cardio", "body weight", "cardiovascular system"},
		{"core", "hollow body hold", "core", "body weight", "full body"},
		{"barbell", "barbell hip thrust", "strength", "barbell", "full body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Synthesize(tt.query)
			if got := result.Record.BodyParts[0]; got != tt.wantCategory {
				t.Errorf("category = %q, want %q", got, tt.wantCategory)
			}
			if got := result.Record.Equipments[0]; got != tt.wantEquipment {
				t.Errorf("equipment = %q, want %q", got, tt.wantEquipment)
			}
			if got := result.Record.TargetMuscles[0]; got != tt.wantMuscle {
				t.Errorf("primary muscle = %q, want %q", got, tt.wantMuscle)
			}
		})
	}
}

func TestSynthesizeEmptyQuery(t *testing.T) {
	engine := NewEngine()
	result := engine.Synthesize("   ")
	if result.Record.Name != "general exercise" {
		t.Errorf("Name = %q, want %q", result.Record.Name, "general exercise")
	}
	if !result.Record.HasMedia() {
		t.Error("synthesized record must carry media even for an empty query")
	}
}

func TestSynthesizeIDsAreUnique(t *testing.T) {
	engine := NewEngine()
	a := engine.Synthesize("mystery move")
	b := engine.Synthesize("mystery move")
	if a.Record.ID == b.Record.ID {
		t.Error("synthesized ids should be unique per call")
	}
}
