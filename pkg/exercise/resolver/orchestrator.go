package resolver

import (
	"context"
	"log/slog"
	"strings"

	shared "github.com/ripixel/demofit-server/pkg"
	"github.com/ripixel/demofit-server/pkg/exercise"
	"github.com/ripixel/demofit-server/pkg/exercise/cache"
	"github.com/ripixel/demofit-server/pkg/exercise/gateway"
	infrapubsub "github.com/ripixel/demofit-server/pkg/infrastructure/pubsub"
)

// AdvancedMatcher is an optional external resolver consulted as a tier of the
// cascade. A nil result with a nil error is a miss; errors are logged and
// skipped. Its internals are opaque to this engine.
type AdvancedMatcher interface {
	Resolve(ctx context.Context, name string) (*exercise.MatchResult, error)
}

// DegradedEvent is published when a caller receives a generated record, so
// that guessed demonstrations are observable rather than silent.
type DegradedEvent struct {
	Query      string  `json:"query"`
	RecordID   string  `json:"record_id"`
	Confidence float64 `json:"confidence"`
	MatchType  string  `json:"match_type"`
}

// Orchestrator runs the fixed tier cascade. FindExercise is the only entry
// point the rest of the application should call directly, and it never
// returns absent.
type Orchestrator struct {
	cache    *cache.Cache
	gw       *gateway.Gateway
	engine   *Engine
	advanced AdvancedMatcher  // optional
	pub      shared.Publisher // optional
	logger   *slog.Logger
}

// NewOrchestrator wires the cascade. The cache is constructor-injected so
// tests (and multi-tenant callers) can run isolated instances. advanced and
// pub may be nil.
func NewOrchestrator(c *cache.Cache, gw *gateway.Gateway, engine *Engine, advanced AdvancedMatcher, pub shared.Publisher) *Orchestrator {
	return &Orchestrator{
		cache:    c,
		gw:       gw,
		engine:   engine,
		advanced: advanced,
		pub:      pub,
		logger:   slog.With("component", "orchestrator"),
	}
}

// FindExercise resolves a raw name to a usable record. Fixed tier order,
// short-circuiting on the first hit whose record carries media:
// local mapping, cache, advanced matcher, remote gateway, cache partial
// scan, and finally emergency synthesis. Tiers 1-5 write back into the
// cache before returning.
func (o *Orchestrator) FindExercise(ctx context.Context, name string) exercise.MatchResult {
	query := strings.TrimSpace(name)

	// 1. Local mapping via the engine's matching tiers.
	if res := o.engine.ResolveLocal(query); res != nil && res.Record.HasMedia() {
		return o.accept(ctx, query, *res)
	}

	// 2. Cache exact-key lookup, rewriting stale CDN hosts on the way out.
	if rec, ok := o.cache.Get(query); ok {
		rec.GifURL = gateway.RewriteMediaURL(rec.GifURL)
		if rec.HasMedia() {
			return o.accept(ctx, query, exercise.MatchResult{
				Record:     rec,
				Confidence: 1.0,
				MatchType:  exercise.MatchExact,
				Source:     exercise.SourceCache,
			})
		}
	}

	// 3. Optional advanced matcher collaborator.
	if o.advanced != nil {
		res, err := o.advanced.Resolve(ctx, query)
		if err != nil {
			o.logger.Warn("Advanced matcher failed, skipping tier", "query", query, "error", err)
		} else if res != nil && res.Record.HasMedia() {
			return o.accept(ctx, query, *res)
		}
	}

	// 4. Remote gateway search; first result with media wins.
	if res := o.searchRemote(ctx, query); res != nil {
		return o.accept(ctx, query, *res)
	}

	// 5. Cache partial-match scan by shared-word overlap.
	if res := o.scanCache(query); res != nil {
		return o.accept(ctx, query, *res)
	}

	// 6. Emergency synthesis. The engine's own fallback should make this
	// the only synthesizing call site on this path, but the guarantee is
	// enforced here regardless of engine internals.
	result := o.engine.Synthesize(query)
	o.observeDegraded(ctx, query, result)
	return result
}

func (o *Orchestrator) searchRemote(ctx context.Context, query string) *exercise.MatchResult {
	records, err := o.gw.Search(ctx, query, 10)
	if err != nil {
		o.logger.Warn("Gateway search failed, falling through", "query", query, "error", err)
		return nil
	}

	normalized := exercise.Normalize(query)
	for _, rec := range records {
		if !rec.HasMedia() {
			continue
		}
		sim := Similarity(normalized, exercise.Normalize(rec.Name))
		matchType := exercise.MatchPartial
		if sim > 0.8 {
			matchType = exercise.MatchFuzzy
		}
		return &exercise.MatchResult{
			Record:     rec,
			Confidence: clampConfidence(sim),
			MatchType:  matchType,
			Source:     exercise.SourceRemote,
		}
	}
	return nil
}

// scanCache scores every cached record by word overlap against the query and
// accepts the best above the 0.3 threshold. Same scoring scheme as the
// engine's fuzzy tier, but over whatever the process has already resolved.
func (o *Orchestrator) scanCache(query string) *exercise.MatchResult {
	var best exercise.Record
	var bestScore float64

	seen := make(map[string]bool)
	o.cache.Scan(func(_ string, rec exercise.Record) bool {
		if seen[rec.ID] || !rec.HasMedia() {
			return true
		}
		seen[rec.ID] = true
		if score := WordOverlapScore(query, rec.Name); score > bestScore {
			bestScore = score
			best = rec
		}
		return true
	})

	if bestScore <= 0.3 {
		return nil
	}
	best.GifURL = gateway.RewriteMediaURL(best.GifURL)
	return &exercise.MatchResult{
		Record:     best,
		Confidence: clampConfidence(bestScore),
		MatchType:  exercise.MatchPartial,
		Source:     exercise.SourceCache,
	}
}

// accept writes the resolved record back into the cache under its id, its
// lower-cased name, and the query itself, then reports degraded results.
func (o *Orchestrator) accept(ctx context.Context, query string, res exercise.MatchResult) exercise.MatchResult {
	o.cache.Put(res.Record)
	o.cache.PutAlias(query, res.Record)

	if res.Degraded() {
		o.observeDegraded(ctx, query, res)
	}
	return res
}

// observeDegraded makes generated results visible: structured log plus an
// event on the degraded-resolution topic when a publisher is wired.
func (o *Orchestrator) observeDegraded(ctx context.Context, query string, res exercise.MatchResult) {
	o.logger.Warn("Serving degraded resolution",
		"query", query,
		"record_id", res.Record.ID,
		"confidence", res.Confidence,
		"match_type", res.MatchType)

	if o.pub == nil {
		return
	}
	e, err := infrapubsub.NewCloudEvent("demofit/resolver", "dev.demofit.exercise.resolution.degraded", DegradedEvent{
		Query:      query,
		RecordID:   res.Record.ID,
		Confidence: res.Confidence,
		MatchType:  string(res.MatchType),
	})
	if err != nil {
		o.logger.Warn("Failed to build degraded event", "error", err)
		return
	}
	if _, err := o.pub.PublishCloudEvent(ctx, shared.TopicResolutionDegraded, e); err != nil {
		o.logger.Warn("Failed to publish degraded event", "error", err)
	}
}
