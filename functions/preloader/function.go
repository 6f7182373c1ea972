package preloader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/ripixel/demofit-server/pkg/bootstrap"
	"github.com/ripixel/demofit-server/pkg/exercise/cache"
	"github.com/ripixel/demofit-server/pkg/exercise/gateway"
	"github.com/ripixel/demofit-server/pkg/exercise/localmap"
	"github.com/ripixel/demofit-server/pkg/exercise/preload"
	"github.com/ripixel/demofit-server/pkg/exercise/resolver"
	"github.com/ripixel/demofit-server/pkg/framework"
)

var (
	rt     *runtime
	rtOnce sync.Once
	rtErr  error
)

type runtime struct {
	svc   *bootstrap.Service
	store *cache.Cache
	pre   *preload.Preloader
}

func init() {
	functions.CloudEvent("PreloadPlan", PreloadPlan)
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
		pre.RestoreOrWarm(ctx, svc.DB, store)

		rt = &runtime{svc: svc, store: store, pre: pre}
	})
	return rt, rtErr
}

// planCreatedPayload is the workout-plan-created event body.
type planCreatedPayload struct {
	UserID        string   `json:"user_id"`
	PlanID        string   `json:"plan_id"`
	ExerciseNames []string `json:"exercise_names"`
}

// PreloadPlan is the CloudEvent entry point for the workout-plan-created
// topic. It warms the cache for every exercise in the plan and persists a
// fresh snapshot so later instances start warm.
func PreloadPlan(ctx context.Context, e event.Event) error {
	rt, err := initRuntime(ctx)
	if err != nil {
		return fmt.Errorf("service init failed: %v", err)
	}
	return framework.WrapHandler("preloader", rt.svc, preloadHandler)(ctx, e)
}

func preloadHandler(ctx context.Context, e event.Event, svc *bootstrap.Service, logger *slog.Logger, execID string) (interface{}, error) {
	payload, err := parsePlanEvent(e)
	if err != nil {
		return nil, err
	}
	if len(payload.ExerciseNames) == 0 {
		logger.Info("Plan carries no exercises, nothing to preload", "plan_id", payload.PlanID)
		return map[string]interface{}{"status": "EMPTY_PLAN"}, nil
	}

	logger.Info("Preloading plan",
		"user_id", payload.UserID,
		"plan_id", payload.PlanID,
		"exercise_count", len(payload.ExerciseNames))

	results := rt.pre.Preload(ctx, payload.ExerciseNames)

	degraded := []string{}
	for name, res := range results {
		if res != nil && res.Degraded() {
			degraded = append(degraded, name)
		}
	}

	// Snapshot failure is logged but does not fail the preload: the cache is
	// already warm for this instance.
	if err := rt.pre.SaveSnapshot(ctx, svc.DB, rt.store); err != nil {
		logger.Warn("Snapshot save failed after preload", "error", err)
	}

	return map[string]interface{}{
		"status":    "SUCCESS",
		"user_id":   payload.UserID,
		"plan_id":   payload.PlanID,
		"requested": len(payload.ExerciseNames),
		"resolved":  len(results),
		"degraded":  degraded,
	}, nil
}

// parsePlanEvent extracts the plan payload from either an EventArc Pub/Sub
// wrapper (message.data) or a bare CloudEvent body.
func parsePlanEvent(e event.Event) (*planCreatedPayload, error) {
	var wrapper struct {
		Message struct {
			Data []byte `json:"data"`
		} `json:"message"`
	}

	raw := e.Data()
	if err := e.DataAs(&wrapper); err == nil && len(wrapper.Message.Data) > 0 {
		raw = wrapper.Message.Data
	}

	var payload planCreatedPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("json unmarshal plan payload: %v", err)
	}
	if payload.UserID == "" {
		return nil, fmt.Errorf("missing user_id in payload")
	}
	return &payload, nil
}
