// Package localmap is the hand-curated table of guaranteed-available
// exercise records. It is the first and last line of defense: the cache is
// seeded from it at startup, and its entries resolve with zero latency and
// zero network dependency.
package localmap

import (
	"regexp"
	"strings"

	"github.com/ripixel/demofit-server/pkg/exercise"
)

const mediaHost = "https://static.exercisedb.dev/media"

// table contains the canonical records for extremely common exercises.
// Keys are normalized canonical names. Records here carry real media URLs;
// an entry with an empty GifURL is a known-incomplete placeholder awaiting
// enrichment and is treated as a miss on lookup.
var table = map[string]exercise.Record{
	"push up": {
		ID:               "0651",
		Name:             "push up",
		GifURL:           mediaHost + "/0651.gif",
		TargetMuscles:    []string{"pectorals"},
		BodyParts:        []string{"chest"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"triceps", "delts"},
		Instructions: []string{
			"Start in a high plank with hands slightly wider than shoulder-width.",
			"Lower your chest toward the floor, keeping your body in a straight line.",
			"Press back up to the starting position and repeat.",
		},
	},
	"squat": {
		ID:               "0787",
		Name:             "squat",
		GifURL:           mediaHost + "/0787.gif",
		TargetMuscles:    []string{"glutes", "quads"},
		BodyParts:        []string{"upper legs"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"hamstrings", "calves", "core"},
		Instructions: []string{
			"Stand with feet shoulder-width apart, toes slightly out.",
			"Bend your knees and push your hips back as if sitting into a chair.",
			"Drive through your heels to return to standing.",
		},
	},
	"jumping jacks": {
		ID:               "3221",
		Name:             "jumping jacks",
		GifURL:           mediaHost + "/3221.gif",
		TargetMuscles:    []string{"cardiovascular system"},
		BodyParts:        []string{"cardio"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"calves", "delts", "glutes"},
		Instructions: []string{
			"Stand upright with feet together and arms at your sides.",
			"Jump while spreading your legs and raising your arms overhead.",
			"Jump back to the starting position and repeat at a steady pace.",
		},
	},
	"plank": {
		ID:               "0463",
		Name:             "plank",
		GifURL:           mediaHost + "/0463.gif",
		TargetMuscles:    []string{"abs"},
		BodyParts:        []string{"waist"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"delts", "glutes"},
		Instructions: []string{
			"Place forearms on the floor with elbows under shoulders.",
			"Extend your legs back and hold your body in a straight line.",
			"Brace your core and hold without letting your hips sag.",
		},
	},
	"lunge": {
		ID:               "0460",
		Name:             "lunge",
		GifURL:           mediaHost + "/0460.gif",
		TargetMuscles:    []string{"glutes", "quads"},
		BodyParts:        []string{"upper legs"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"hamstrings", "calves"},
		Instructions: []string{
			"Step forward with one leg and lower your hips until both knees are bent at 90 degrees.",
			"Push off the front foot to return to standing.",
			"Alternate legs and repeat.",
		},
	},
	"burpee": {
		ID:               "1160",
		Name:             "burpee",
		GifURL:           mediaHost + "/1160.gif",
		TargetMuscles:    []string{"cardiovascular system"},
		BodyParts:        []string{"cardio"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"quads", "pectorals", "core"},
		Instructions: []string{
			"From standing, drop into a squat and place your hands on the floor.",
			"Kick your feet back into a plank and perform a push up.",
			"Jump your feet back in and leap upward with arms overhead.",
		},
	},
	"mountain climber": {
		ID:               "0630",
		Name:             "mountain climber",
		GifURL:           mediaHost + "/0630.gif",
		TargetMuscles:    []string{"abs"},
		BodyParts:        []string{"waist"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"quads", "delts"},
		Instructions: []string{
			"Start in a high plank position.",
			"Drive one knee toward your chest, then quickly switch legs.",
			"Keep your hips low and alternate at a running pace.",
		},
	},
	"sit up": {
		ID:               "0729",
		Name:             "sit up",
		GifURL:           mediaHost + "/0729.gif",
		TargetMuscles:    []string{"abs"},
		BodyParts:        []string{"waist"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"hip flexors"},
		Instructions: []string{
			"Lie on your back with knees bent and feet flat on the floor.",
			"Curl your torso up toward your knees, exhaling as you rise.",
			"Lower back down with control and repeat.",
		},
	},
	"pull up": {
		ID:               "0652",
		Name:             "pull up",
		GifURL:           mediaHost + "/0652.gif",
		TargetMuscles:    []string{"lats"},
		BodyParts:        []string{"back"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"biceps", "forearms"},
		Instructions: []string{
			"Hang from a bar with an overhand grip slightly wider than shoulder-width.",
			"Pull your chin above the bar by driving your elbows down.",
			"Lower yourself with control and repeat.",
		},
	},
	"bench press": {
		ID:               "0025",
		Name:             "bench press",
		GifURL:           mediaHost + "/0025.gif",
		TargetMuscles:    []string{"pectorals"},
		BodyParts:        []string{"chest"},
		Equipments:       []string{"barbell"},
		SecondaryMuscles: []string{"triceps", "delts"},
		Instructions: []string{
			"Lie on a flat bench and grip the bar slightly wider than shoulder-width.",
			"Lower the bar to your mid-chest with elbows at roughly 45 degrees.",
			"Press the bar back up until your arms are extended.",
		},
	},
	"deadlift": {
		ID:               "0032",
		Name:             "deadlift",
		GifURL:           mediaHost + "/0032.gif",
		TargetMuscles:    []string{"glutes", "spine"},
		BodyParts:        []string{"back", "upper legs"},
		Equipments:       []string{"barbell"},
		SecondaryMuscles: []string{"hamstrings", "forearms", "traps"},
		Instructions: []string{
			"Stand with mid-foot under the bar and grip it just outside your legs.",
			"Brace your core, flatten your back, and drive through your heels to stand.",
			"Lower the bar along your legs with hips back.",
		},
	},
	"bicep curl": {
		ID:               "0294",
		Name:             "bicep curl",
		GifURL:           mediaHost + "/0294.gif",
		TargetMuscles:    []string{"biceps"},
		BodyParts:        []string{"upper arms"},
		Equipments:       []string{"dumbbell"},
		SecondaryMuscles: []string{"forearms"},
		Instructions: []string{
			"Hold a dumbbell in each hand with arms at your sides, palms forward.",
			"Curl the weights toward your shoulders without swinging your torso.",
			"Lower slowly and repeat.",
		},
	},
	"shoulder press": {
		ID:               "0405",
		Name:             "shoulder press",
		GifURL:           mediaHost + "/0405.gif",
		TargetMuscles:    []string{"delts"},
		BodyParts:        []string{"shoulders"},
		Equipments:       []string{"dumbbell"},
		SecondaryMuscles: []string{"triceps", "traps"},
		Instructions: []string{
			"Hold dumbbells at shoulder height with palms facing forward.",
			"Press the weights overhead until your arms are extended.",
			"Lower back to shoulder height with control.",
		},
	},
	"high knees": {
		ID:               "3226",
		Name:             "high knees",
		GifURL:           mediaHost + "/3226.gif",
		TargetMuscles:    []string{"cardiovascular system"},
		BodyParts:        []string{"cardio"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"quads", "hip flexors", "calves"},
		Instructions: []string{
			"Stand tall with feet hip-width apart.",
			"Run in place, driving each knee up to hip height.",
			"Pump your arms and keep a quick rhythm.",
		},
	},
	"glute bridge": {
		ID:               "1409",
		Name:             "glute bridge",
		GifURL:           mediaHost + "/1409.gif",
		TargetMuscles:    []string{"glutes"},
		BodyParts:        []string{"upper legs"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"hamstrings", "core"},
		Instructions: []string{
			"Lie on your back with knees bent and feet flat near your hips.",
			"Drive through your heels to lift your hips until your body forms a straight line.",
			"Squeeze your glutes at the top, then lower with control.",
		},
	},
	"russian twist": {
		ID:               "0687",
		Name:             "russian twist",
		GifURL:           mediaHost + "/0687.gif",
		TargetMuscles:    []string{"abs"},
		BodyParts:        []string{"waist"},
		Equipments:       []string{"body weight"},
		SecondaryMuscles: []string{"obliques"},
		Instructions: []string{
			"Sit with knees bent and lean back until your torso is at 45 degrees.",
			"Rotate your torso side to side, touching the floor beside each hip.",
			"Keep your core braced throughout.",
		},
	},
	// Awaiting a demonstration clip; lookup treats this as a miss so the
	// gateway gets a chance to return a richer record.
	"farmers walk": {
		ID:            "3425",
		Name:          "farmers walk",
		TargetMuscles: []string{"forearms"},
		BodyParts:     []string{"full body"},
		Equipments:    []string{"dumbbell"},
	},
}

// brandTokens are leading equipment-brand words stripped by the variant pass.
var brandTokens = []string{"bowflex", "nordictrack", "peloton", "trx", "theraband", "rogue"}

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	perSideSuffixRe = regexp.MustCompile(`\b(per|each)\s+(leg|side|arm|set)\b.*$`)
)

// keywordRules map co-occurring keywords to a canonical table key.
// Checked in order; first rule whose keywords all appear wins.
var keywordRules = []struct {
	keywords  []string
	canonical string
}{
	{[]string{"jump", "jack"}, "jumping jacks"},
	{[]string{"mountain", "climb"}, "mountain climber"},
	{[]string{"push", "up"}, "push up"},
	{[]string{"pull", "up"}, "pull up"},
	{[]string{"sit", "up"}, "sit up"},
	{[]string{"high", "knee"}, "high knees"},
	{[]string{"glute", "bridge"}, "glute bridge"},
	{[]string{"russian", "twist"}, "russian twist"},
	{[]string{"bicep", "curl"}, "bicep curl"},
	{[]string{"bench", "press"}, "bench press"},
}

// Lookup finds a guaranteed record for the given raw name. It tries an exact
// key match, then a fixed list of string-transform variants, then keyword
// combination heuristics. A record without media is reported as a miss even
// when the name matches, forcing escalation to the remote gateway.
func Lookup(name string) (exercise.Record, bool) {
	normalized := exercise.Normalize(name)
	if normalized == "" {
		return exercise.Record{}, false
	}

	if rec, ok := lookupKey(normalized); ok {
		return rec, true
	}

	for _, variant := range variants(name, normalized) {
		if rec, ok := lookupKey(variant); ok {
			return rec, true
		}
	}

	for _, rule := range keywordRules {
		if containsAll(normalized, rule.keywords) {
			if rec, ok := lookupKey(rule.canonical); ok {
				return rec, true
			}
		}
	}

	return exercise.Record{}, false
}

func lookupKey(key string) (exercise.Record, bool) {
	rec, ok := table[key]
	if !ok || !rec.HasMedia() {
		return exercise.Record{}, false
	}
	return rec, true
}

// variants produces the ordered transform list: singularized form, stripped
// brand prefix, stripped parentheticals, stripped per-set/per-leg suffixes.
// Parentheticals are stripped from the raw name, since normalization already
// removes the parens themselves but keeps their contents.
func variants(raw, normalized string) []string {
	var out []string

	if trimmed := strings.TrimSuffix(normalized, "s"); trimmed != normalized {
		out = append(out, trimmed)
	}

	words := strings.Fields(normalized)
	if len(words) > 1 {
		for _, brand := range brandTokens {
			if words[0] == brand {
				out = append(out, strings.Join(words[1:], " "))
				break
			}
		}
	}

	if stripped := exercise.Normalize(parentheticalRe.ReplaceAllString(raw, " ")); stripped != normalized && stripped != "" {
		out = append(out, stripped, strings.TrimSuffix(stripped, "s"))
	}

	if stripped := exercise.Normalize(perSideSuffixRe.ReplaceAllString(normalized, " ")); stripped != normalized && stripped != "" {
		out = append(out, stripped, strings.TrimSuffix(stripped, "s"))
	}

	return out
}

func containsAll(normalized string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(normalized, kw) {
			return false
		}
	}
	return true
}

// Records returns every curated record that carries media, for cache seeding
// and for building the resolution engine's indexes.
func Records() []exercise.Record {
	out := make([]exercise.Record, 0, len(table))
	for _, rec := range table {
		if rec.HasMedia() {
			out = append(out, rec)
		}
	}
	return out
}

// PopularNames returns the canonical names to preload after a cold start.
func PopularNames() []string {
	out := make([]string, 0, len(table))
	for key, rec := range table {
		if rec.HasMedia() {
			out = append(out, key)
		}
	}
	return out
}
