// Package preload warms the cache for whole workout plans: one concurrent
// FindExercise call per distinct name, with per-item failure isolation.
package preload

import (
	"context"
	"log/slog"
	"sync"
	"time"

	shared "github.com/ripixel/demofit-server/pkg"
	"github.com/ripixel/demofit-server/pkg/exercise"
	"github.com/ripixel/demofit-server/pkg/exercise/cache"
	"github.com/ripixel/demofit-server/pkg/exercise/localmap"
	"github.com/ripixel/demofit-server/pkg/exercise/resolver"
)

// Preloader fans out resolution calls for a set of exercise names.
type Preloader struct {
	orch   *resolver.Orchestrator
	logger *slog.Logger
}

func NewPreloader(orch *resolver.Orchestrator) *Preloader {
	return &Preloader{
		orch:   orch,
		logger: slog.With("component", "preloader"),
	}
}

// Preload resolves every distinct name concurrently and returns exactly one
// entry per input name. A nil entry means the orchestrator itself panicked,
// which its own guarantee makes unreachable; one item's failure never blocks
// or cancels the others. Callers may bound the whole batch with a context
// deadline and discard late results.
func (p *Preloader) Preload(ctx context.Context, names []string) map[string]*exercise.MatchResult {
	start := time.Now()

	distinct := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		distinct = append(distinct, name)
	}

	// Fan-out: indexed result slots, one goroutine per name.
	results := make([]*exercise.MatchResult, len(distinct))
	var wg sync.WaitGroup
	for i, name := range distinct {
		wg.Add(1)
		go func(idx int, n string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("Resolution panicked, isolating item", "name", n, "panic", r)
				}
			}()
			res := p.orch.FindExercise(ctx, n)
			results[idx] = &res
		}(i, name)
	}
	wg.Wait()

	out := make(map[string]*exercise.MatchResult, len(distinct))
	resolved := 0
	degraded := 0
	for i, name := range distinct {
		out[name] = results[i]
		if results[i] != nil {
			resolved++
			if results[i].Degraded() {
				degraded++
			}
		}
	}

	p.logger.Info("Preload complete",
		"requested", len(names),
		"distinct", len(distinct),
		"resolved", resolved,
		"degraded", degraded,
		"success_rate", float64(resolved)/float64(max(len(distinct), 1)),
		"duration_ms", time.Since(start).Milliseconds())

	return out
}

// RestoreOrWarm seeds the cache from the durable snapshot when it is still
// fresh; otherwise it triggers a preload of the curated popular names.
// Called once at service init, after the synchronous local-mapping seed.
func (p *Preloader) RestoreOrWarm(ctx context.Context, db shared.Database, c *cache.Cache) {
	entries, refreshedAt, err := db.LoadCacheSnapshot(ctx)
	switch {
	case err != nil:
		p.logger.Warn("Snapshot unavailable, preloading popular exercises", "error", err)
	case len(entries) == 0:
		p.logger.Info("No snapshot yet, preloading popular exercises")
	case time.Since(refreshedAt) < c.TTL():
		c.Restore(entries)
		p.logger.Info("Cache restored from snapshot",
			"entries", len(entries), "refreshed_at", refreshedAt)
		return
	default:
		p.logger.Info("Snapshot stale, preloading popular exercises", "refreshed_at", refreshedAt)
	}
	p.Preload(ctx, localmap.PopularNames())
}

// SaveSnapshot persists the cache's live entries with a fresh timestamp.
func (p *Preloader) SaveSnapshot(ctx context.Context, db shared.Database, c *cache.Cache) error {
	entries := c.Snapshot()
	if err := db.SaveCacheSnapshot(ctx, entries, time.Now().UTC()); err != nil {
		p.logger.Error("Failed to save cache snapshot", "error", err)
		return err
	}
	p.logger.Info("Cache snapshot saved", "entries", len(entries))
	return nil
}
