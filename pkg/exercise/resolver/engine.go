// Package resolver maps free-form exercise names to canonical records.
// The Engine is the multi-strategy matcher; the Orchestrator is the tiered
// cascade the rest of the application calls.
package resolver

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/ripixel/demofit-server/pkg/exercise"
	"github.com/ripixel/demofit-server/pkg/exercise/localmap"
)

// aliasTable maps normalized raw patterns (snake/kebab input arrives already
// normalized to spaces) to canonical table keys. Exact substitution, checked
// before any fuzzy logic runs.
var aliasTable = map[string]string{
	"pushup":            "push up",
	"pushups":           "push up",
	"push ups":          "push up",
	"press up":          "push up",
	"press ups":         "push up",
	"squats":            "squat",
	"air squat":         "squat",
	"bodyweight squat":  "squat",
	"jumping jack":      "jumping jacks",
	"star jump":         "jumping jacks",
	"star jumps":        "jumping jacks",
	"side straddle hop": "jumping jacks",
	"situp":             "sit up",
	"situps":            "sit up",
	"sit ups":           "sit up",
	"crunch":            "sit up",
	"crunches":          "sit up",
	"pullup":            "pull up",
	"pullups":           "pull up",
	"pull ups":          "pull up",
	"chin up":           "pull up",
	"chin ups":          "pull up",
	"planks":            "plank",
	"forearm plank":     "plank",
	"lunges":            "lunge",
	"forward lunge":     "lunge",
	"burpees":           "burpee",
	"mountain climbers": "mountain climber",
	"overhead press":    "shoulder press",
	"military press":    "shoulder press",
	"bicep curls":       "bicep curl",
	"dumbbell curl":     "bicep curl",
	"dumbbell curls":    "bicep curl",
	"hip bridge":        "glute bridge",
	"hip thrust":        "glute bridge",
	"deadlifts":         "deadlift",
	"high knee":         "high knees",
	"russian twists":    "russian twist",
}

// semanticPattern picks a canonical name by regular expression. The list is
// ordered; first match wins, and each pattern declares its own confidence.
type semanticPattern struct {
	re         *regexp.Regexp
	canonical  string
	confidence float64
}

var semanticPatterns = []semanticPattern{
	{regexp.MustCompile(`\bjump(ing)?\s+jacks?\b`), "jumping jacks", 0.95},
	{regexp.MustCompile(`\bburpee`), "burpee", 0.95},
	{regexp.MustCompile(`\bdead\s*lift`), "deadlift", 0.95},
	{regexp.MustCompile(`\bmountain\s+climb`), "mountain climber", 0.9},
	{regexp.MustCompile(`\bpush\s*up|\bpress\s*up`), "push up", 0.9},
	{regexp.MustCompile(`\bhigh\s+knees?\b`), "high knees", 0.9},
	{regexp.MustCompile(`\brussian\s+twist`), "russian twist", 0.9},
	{regexp.MustCompile(`\bpull\s*up|\bchin\s*up`), "pull up", 0.85},
	{regexp.MustCompile(`\b(over\s*head|military|shoulder)\s+press`), "shoulder press", 0.85},
	{regexp.MustCompile(`\b(bicep|biceps|hammer)\s+curl`), "bicep curl", 0.85},
	{regexp.MustCompile(`\blunge`), "lunge", 0.85},
	{regexp.MustCompile(`\bbench\b.*\bpress\b|\bchest\s+press\b`), "bench press", 0.8},
	{regexp.MustCompile(`\bglute\s+bridge|\bhip\s+(bridge|thrust)`), "glute bridge", 0.8},
	{regexp.MustCompile(`\bplank\b`), "plank", 0.8},
	{regexp.MustCompile(`\bcrunch|\bsit\s*up`), "sit up", 0.75},
	{regexp.MustCompile(`\bsquat`), "squat", 0.7},
}

// Engine is the multi-strategy name matcher over the curated canonical set.
// Tiers, in order: exact, alias, normalized-phrase, semantic pattern, fuzzy
// word-overlap, and as a last resort record synthesis. Resolve never fails
// to produce a result.
type Engine struct {
	index    map[string]exercise.Record // normalized canonical name -> record
	inverted map[string][]string        // word (len > 2) -> canonical keys
	logger   *slog.Logger
}

// NewEngine builds the indexes from the curated local mapping records.
func NewEngine() *Engine {
	e := &Engine{
		index:    make(map[string]exercise.Record),
		inverted: make(map[string][]string),
		logger:   slog.With("component", "resolver"),
	}
	for _, rec := range localmap.Records() {
		key := exercise.Normalize(rec.Name)
		e.index[key] = rec
		for _, w := range strings.Fields(key) {
			if len(w) > 2 {
				e.inverted[w] = append(e.inverted[w], key)
			}
		}
	}
	return e
}

// Resolve maps a raw query to a match result. It always returns a result;
// when nothing matches, a synthesized record is returned with
// matchType=fallback and source=generated.
func (e *Engine) Resolve(rawQuery string) exercise.MatchResult {
	if res := e.ResolveLocal(rawQuery); res != nil {
		return *res
	}
	return e.Synthesize(rawQuery)
}

// ResolveLocal runs the matching tiers against the curated index and returns
// nil when none of them produce a hit. The orchestrator uses this as its
// first tier and keeps synthesis for last.
func (e *Engine) ResolveLocal(rawQuery string) *exercise.MatchResult {
	normalized := exercise.Normalize(rawQuery)
	if normalized == "" {
		return nil
	}

	// 1. Exact match on a canonical name.
	if rec, ok := e.index[normalized]; ok {
		return &exercise.MatchResult{
			Record:     rec,
			Confidence: 1.0,
			MatchType:  exercise.MatchExact,
			Source:     exercise.SourceLocalMapping,
		}
	}

	// 2. Alias mapping, trying the query and its spelling variants.
	if res := e.resolveAlias(normalized); res != nil {
		return res
	}

	// 2b. Local table string-transform variants and keyword heuristics.
	if rec, ok := localmap.Lookup(rawQuery); ok {
		return &exercise.MatchResult{
			Record:     rec,
			Confidence: 0.95,
			MatchType:  exercise.MatchNormalized,
			Source:     exercise.SourceLocalMapping,
		}
	}

	// 3. Normalized-phrase: longest, leftmost word-subsequence.
	if res := e.resolvePhrase(normalized); res != nil {
		return res
	}

	// 4. Semantic patterns, first match wins.
	for _, p := range semanticPatterns {
		if p.re.MatchString(normalized) {
			if rec, ok := e.index[p.canonical]; ok {
				return &exercise.MatchResult{
					Record:     rec,
					Confidence: p.confidence,
					MatchType:  exercise.MatchSemantic,
					Source:     exercise.SourceLocalMapping,
				}
			}
		}
	}

	// 5. Fuzzy word-overlap against the inverted index.
	if res := e.resolveFuzzy(normalized); res != nil {
		return res
	}

	return nil
}

// resolveAlias checks the alias table with the normalized query plus its
// no-space, singular, and plural variants.
func (e *Engine) resolveAlias(normalized string) *exercise.MatchResult {
	variants := []struct {
		query      string
		confidence float64
	}{
		{normalized, 0.95},
		{strings.ReplaceAll(normalized, " ", ""), 0.9},
		{strings.TrimSuffix(normalized, "s"), 0.9},
		{normalized + "s", 0.9},
	}

	for _, v := range variants {
		canonical, ok := aliasTable[v.query]
		if !ok {
			continue
		}
		rec, ok := e.index[canonical]
		if !ok {
			continue
		}
		return &exercise.MatchResult{
			Record:     rec,
			Confidence: v.confidence,
			MatchType:  exercise.MatchNormalized,
			Source:     exercise.SourceLocalMapping,
		}
	}
	return nil
}

// resolvePhrase checks every contiguous word-subsequence of the query against
// the exact index, preferring the longest, leftmost match. Confidence starts
// at 0.8 and loses 0.05 per word of the query the phrase did not consume.
func (e *Engine) resolvePhrase(normalized string) *exercise.MatchResult {
	words := strings.Fields(normalized)
	if len(words) < 2 {
		return nil
	}

	for length := len(words); length >= 1; length-- {
		for start := 0; start+length <= len(words); start++ {
			phrase := strings.Join(words[start:start+length], " ")
			rec, ok := e.index[phrase]
			if !ok {
				if canonical, aliased := aliasTable[phrase]; aliased {
					rec, ok = e.index[canonical]
				}
			}
			if !ok {
				continue
			}

			confidence := 0.8 - 0.05*float64(len(words)-length)
			if confidence < 0.5 {
				confidence = 0.5
			}
			return &exercise.MatchResult{
				Record:     rec,
				Confidence: confidence,
				MatchType:  exercise.MatchNormalized,
				Source:     exercise.SourceLocalMapping,
			}
		}
	}
	return nil
}

// resolveFuzzy scores candidates sharing indexed words with the query and
// accepts the best one above the 0.3 overlap threshold.
func (e *Engine) resolveFuzzy(normalized string) *exercise.MatchResult {
	candidates := make(map[string]bool)
	for _, w := range strings.Fields(normalized) {
		if len(w) <= 2 {
			continue
		}
		for _, key := range e.inverted[w] {
			candidates[key] = true
		}
	}

	var bestKey string
	var bestScore float64
	for key := range candidates {
		score := WordOverlapScore(normalized, key)
		if score > bestScore {
			bestScore = score
			bestKey = key
		}
	}

	if bestScore <= 0.3 {
		return nil
	}
	rec := e.index[bestKey]
	return &exercise.MatchResult{
		Record:     rec,
		Confidence: clampConfidence(bestScore),
		MatchType:  exercise.MatchFuzzy,
		Source:     exercise.SourceLocalMapping,
	}
}

// Synthesize constructs a plausible record deterministically from the query:
// muscles, equipment, and category come from keyword tables, media is a
// category-appropriate placeholder. This tier never fails.
func (e *Engine) Synthesize(rawQuery string) exercise.MatchResult {
	normalized := exercise.Normalize(rawQuery)
	if normalized == "" {
		normalized = "general exercise"
	}

	category := inferCategory(normalized)
	equipment := inferEquipment(normalized)
	muscles, secondary := inferMuscles(normalized)

	rec := exercise.Record{
		ID:               "generated-" + uuid.NewString(),
		Name:             normalized,
		GifURL:           categoryPlaceholders[category],
		TargetMuscles:    muscles,
		BodyParts:        []string{category},
		Equipments:       []string{equipment},
		SecondaryMuscles: secondary,
		Instructions: []string{
			"Perform " + normalized + " with controlled form.",
			"Keep your core engaged and breathe steadily throughout.",
			"Complete the prescribed repetitions, resting as needed.",
		},
	}

	e.logger.Warn("Synthesized exercise record, media may not depict the requested exercise",
		"query", rawQuery, "category", category)

	return exercise.MatchResult{
		Record:     rec,
		Confidence: 0.5,
		MatchType:  exercise.MatchFallback,
		Source:     exercise.SourceGenerated,
	}
}

var categoryPlaceholders = map[string]string{
	"cardio":      "https://static.exercisedb.dev/media/placeholder-cardio.gif",
	"strength":    "https://static.exercisedb.dev/media/placeholder-strength.gif",
	"core":        "https://static.exercisedb.dev/media/placeholder-core.gif",
	"flexibility": "https://static.exercisedb.dev/media/placeholder-flexibility.gif",
	"general":     "https://static.exercisedb.dev/media/placeholder.gif",
}

func inferCategory(normalized string) string {
	switch {
	case containsAny(normalized, "run", "sprint", "jog", "jump", "jack", "skip", "burpee", "climber", "knees", "cardio"):
		return "cardio"
	case containsAny(normalized, "plank", "crunch", "sit up", "twist", "abs", "core", "hollow"):
		return "core"
	case containsAny(normalized, "stretch", "yoga", "mobility", "foam"):
		return "flexibility"
	case containsAny(normalized, "press", "curl", "lift", "row", "squat", "lunge", "raise", "fly", "pull", "push", "thrust", "extension"):
		return "strength"
	default:
		return "general"
	}
}

func inferEquipment(normalized string) string {
	switch {
	case strings.Contains(normalized, "dumbbell"):
		return "dumbbell"
	case strings.Contains(normalized, "barbell"):
		return "barbell"
	case strings.Contains(normalized, "kettlebell"):
		return "kettlebell"
	case strings.Contains(normalized, "band"):
		return "band"
	case strings.Contains(normalized, "cable"):
		return "cable"
	case strings.Contains(normalized, "machine"):
		return "machine"
	default:
		return "body weight"
	}
}

// muscleKeywords is checked in order; the first keyword present in the query
// decides the muscle groups.
var muscleKeywords = []struct {
	keyword   string
	primary   []string
	secondary []string
}{
	{"squat", []string{"quads", "glutes"}, []string{"hamstrings", "calves"}},
	{"lunge", []string{"quads", "glutes"}, []string{"hamstrings"}},
	{"deadlift", []string{"glutes", "spine"}, []string{"hamstrings", "forearms"}},
	{"curl", []string{"biceps"}, []string{"forearms"}},
	{"row", []string{"lats"}, []string{"biceps", "traps"}},
	{"pull", []string{"lats"}, []string{"biceps"}},
	{"press", []string{"pectorals"}, []string{"triceps", "delts"}},
	{"push", []string{"pectorals"}, []string{"triceps", "delts"}},
	{"shoulder", []string{"delts"}, []string{"traps"}},
	{"plank", []string{"abs"}, []string{"delts"}},
	{"crunch", []string{"abs"}, []string{"obliques"}},
	{"twist", []string{"abs"}, []string{"obliques"}},
	{"calf", []string{"calves"}, nil},
	{"glute", []string{"glutes"}, []string{"hamstrings"}},
	{"run", []string{"cardiovascular system"}, []string{"quads", "calves"}},
	{"jump", []string{"cardiovascular system"}, []string{"quads", "calves"}},
}

func inferMuscles(normalized string) (primary, secondary []string) {
	for _, mk := range muscleKeywords {
		if strings.Contains(normalized, mk.keyword) {
			return mk.primary, mk.secondary
		}
	}
	return []string{"full body"}, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
