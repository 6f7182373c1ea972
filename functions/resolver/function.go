package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/ripixel/demofit-server/pkg/bootstrap"
	"github.com/ripixel/demofit-server/pkg/exercise"
	"github.com/ripixel/demofit-server/pkg/exercise/cache"
	"github.com/ripixel/demofit-server/pkg/exercise/gateway"
	"github.com/ripixel/demofit-server/pkg/exercise/localmap"
	"github.com/ripixel/demofit-server/pkg/exercise/preload"
	"github.com/ripixel/demofit-server/pkg/exercise/resolver"
)

var (
	rt     *runtime
	rtOnce sync.Once
	rtErr  error
)

// runtime holds the per-process resolution stack. Built once on the first
// request and reused for the instance's lifetime, which is what makes the
// in-memory cache worth having on Cloud Functions.
type runtime struct {
	svc   *bootstrap.Service
	store *cache.Cache
	orch  *resolver.Orchestrator
	pre   *preload.Preloader
}

func init() {
	functions.HTTP("ResolveExercise", ResolveExercise)
}

func initRuntime(ctx context.Context) (*runtime, error) {
	rtOnce.Do(func() {
		svc, err := bootstrap.NewService(ctx)
		if err != nil {
			slog.Error("Failed to initialize service", "error", err)
			rtErr = err
			return
		}

		store := cache.New(cache.DefaultTTL)
		store.Seed(localmap.Records())

		gw := gateway.New(gateway.Options{
			ExerciseDBAPIKey:  svc.Config.ExerciseDBAPIKey,
			ExerciseDBBaseURL: svc.Config.ExerciseDBBaseURL,
			OpenCatalogURL:    svc.Config.OpenCatalogURL,
			FreeCatalogURL:    svc.Config.FreeCatalogURL,
		})

		orch := resolver.NewOrchestrator(store, gw, resolver.NewEngine(), nil, svc.Pub)
		pre := preload.NewPreloader(orch)

		// Restore the durable snapshot (or warm from the popular set) before
		// serving, so a fresh instance does not hammer the catalogs.
		pre.RestoreOrWarm(ctx, svc.DB, store)

		rt = &runtime{svc: svc, store: store, orch: orch, pre: pre}
	})
	return rt, rtErr
}

// resolveResponse is the HTTP response shape.
type resolveResponse struct {
	Query      string          `json:"query"`
	Exercise   exercise.Record `json:"exercise"`
	Confidence float64         `json:"confidence"`
	MatchType  string          `json:"match_type"`
	Source     string          `json:"source"`
	Degraded   bool            `json:"degraded"`
}

// ResolveExercise is the HTTP entry point: GET /?name=<exercise name>.
// It always returns 200 with a usable record; a degraded (synthesized)
// resolution is flagged in the body, never surfaced as an error.
func ResolveExercise(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rt, err := initRuntime(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf("service init failed: %v", err), http.StatusInternalServerError)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, `missing required query parameter "name"`, http.StatusBadRequest)
		return
	}

	result := rt.orch.FindExercise(ctx, name)

	slog.Info("Resolved exercise",
		"component", "resolver-http",
		"query", name,
		"record_id", result.Record.ID,
		"match_type", result.MatchType,
		"confidence", result.Confidence)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resolveResponse{
		Query:      name,
		Exercise:   result.Record,
		Confidence: result.Confidence,
		MatchType:  string(result.MatchType),
		Source:     string(result.Source),
		Degraded:   result.Degraded(),
	}); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
