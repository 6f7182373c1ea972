package preload

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ripixel/demofit-server/pkg/exercise"
	"github.com/ripixel/demofit-server/pkg/exercise/cache"
	"github.com/ripixel/demofit-server/pkg/exercise/gateway"
	"github.com/ripixel/demofit-server/pkg/exercise/localmap"
	"github.com/ripixel/demofit-server/pkg/exercise/resolver"
	"github.com/ripixel/demofit-server/pkg/testing/mocks"
)

func newTestPreloader(t *testing.T) (*Preloader, *cache.Cache) {
	t.Helper()
	return newTestPreloaderTTL(t, cache.DefaultTTL)
}

func newTestPreloaderTTL(t *testing.T, ttl time.Duration) (*Preloader, *cache.Cache) {
	t.Helper()

	// Catalogs are down for these tests; everything resolves locally or
	// synthesizes.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	gw := gateway.New(gateway.Options{
		OpenCatalogURL: server.URL,
		FreeCatalogURL: server.URL,
	})
	c := cache.New(ttl)
	orch := resolver.NewOrchestrator(c, gw, resolver.NewEngine(), nil, nil)
	return NewPreloader(orch), c
}

func TestPreloadOneEntryPerDistinctName(t *testing.T) {
	pre, _ := newTestPreloader(t)

	names := []string{"push up", "push up", "Squats", "total nonsense zzz"}
	results := pre.Preload(context.Background(), names)

	if len(results) != 3 {
		t.Fatalf("got %d entries, want 3 distinct", len(results))
	}
	for _, name := range []string{"push up", "Squats", "total nonsense zzz"} {
		res, ok := results[name]
		if !ok {
			t.Fatalf("missing entry for %q", name)
		}
		if res == nil {
			t.Fatalf("nil result for %q", name)
		}
		if !res.Record.HasMedia() {
			t.Errorf("result for %q has no media", name)
		}
	}

	if results["push up"].MatchType != exercise.MatchExact {
		t.Errorf("push up MatchType = %q, want exact", results["push up"].MatchType)
	}
	if results["total nonsense zzz"].Source != exercise.SourceGenerated {
		t.Errorf("nonsense Source = %q, want generated", results["total nonsense zzz"].Source)
	}
}

func TestPreloadEmptyInput(t *testing.T) {
	pre, _ := newTestPreloader(t)
	if results := pre.Preload(context.Background(), nil); len(results) != 0 {
		t.Errorf("Preload(nil) returned %d entries, want 0", len(results))
	}
}

func TestPreloadWarmsCache(t *testing.T) {
	pre, c := newTestPreloader(t)

	pre.Preload(context.Background(), []string{"push up", "squat"})

	for _, key := range []string{"push up", "squat"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("cache key %q missing after preload", key)
		}
	}
}

func TestRestoreOrWarmFreshSnapshot(t *testing.T) {
	pre, c := newTestPreloader(t)

	rec := exercise.Record{ID: "0787", Name: "squat", GifURL: "https://static.exercisedb.dev/media/0787.gif"}
	db := &mocks.MockDatabase{
		LoadCacheSnapshotFunc: func(ctx context.Context) ([]exercise.SnapshotEntry, time.Time, error) {
			return []exercise.SnapshotEntry{
				{Key: "squat", Record: rec, InsertedAt: time.Now().Add(-time.Hour)},
			}, time.Now().Add(-time.Hour), nil
		},
	}

	pre.RestoreOrWarm(context.Background(), db, c)

	got, ok := c.Get("squat")
	if !ok {
		t.Fatal("restored entry should be served")
	}
	if got.ID != "0787" {
		t.Errorf("restored ID = %q, want 0787", got.ID)
	}
}

func TestRestoreOrWarmStaleSnapshotPreloads(t *testing.T) {
	pre, c := newTestPreloader(t)

	db := &mocks.MockDatabase{
		LoadCacheSnapshotFunc: func(ctx context.Context) ([]exercise.SnapshotEntry, time.Time, error) {
			return []exercise.SnapshotEntry{
				{Key: "stale", Record: exercise.Record{ID: "x"}, InsertedAt: time.Now().Add(-30 * 24 * time.Hour)},
			}, time.Now().Add(-30 * 24 * time.Hour), nil
		},
	}

	pre.RestoreOrWarm(context.Background(), db, c)

	// Stale snapshot is discarded in favor of preloading the curated set.
	for _, name := range localmap.PopularNames() {
		if _, ok := c.Get(name); !ok {
			t.Errorf("popular name %q not warmed", name)
		}
	}
}

func TestRestoreOrWarmEmptySnapshotPreloads(t *testing.T) {
	pre, c := newTestPreloader(t)

	// A clean load with no entries means no snapshot has been written yet;
	// it must warm the curated set, not restore nothing.
	db := &mocks.MockDatabase{
		LoadCacheSnapshotFunc: func(ctx context.Context) ([]exercise.SnapshotEntry, time.Time, error) {
			return nil, time.Now(), nil
		},
	}

	pre.RestoreOrWarm(context.Background(), db, c)

	for _, name := range localmap.PopularNames() {
		if _, ok := c.Get(name); !ok {
			t.Errorf("popular name %q not warmed", name)
		}
	}
}

func TestRestoreOrWarmHonoursConfiguredTTL(t *testing.T) {
	pre, c := newTestPreloaderTTL(t, time.Hour)

	// Two hours old: stale for a one-hour cache even though it is well
	// within the default window.
	db := &mocks.MockDatabase{
		LoadCacheSnapshotFunc: func(ctx context.Context) ([]exercise.SnapshotEntry, time.Time, error) {
			return []exercise.SnapshotEntry{
				{Key: "old", Record: exercise.Record{ID: "x"}, InsertedAt: time.Now().Add(-2 * time.Hour)},
			}, time.Now().Add(-2 * time.Hour), nil
		},
	}

	pre.RestoreOrWarm(context.Background(), db, c)

	if _, ok := c.Get("old"); ok {
		t.Error("snapshot older than the configured TTL should not be restored")
	}
	if _, ok := c.Get("push up"); !ok {
		t.Error("stale snapshot should fall back to warming the curated set")
	}
}

func TestRestoreOrWarmSnapshotErrorPreloads(t *testing.T) {
	pre, c := newTestPreloader(t)

	db := &mocks.MockDatabase{
		LoadCacheSnapshotFunc: func(ctx context.Context) ([]exercise.SnapshotEntry, time.Time, error) {
			return nil, time.Time{}, context.DeadlineExceeded
		},
	}

	pre.RestoreOrWarm(context.Background(), db, c)

	if _, ok := c.Get("push up"); !ok {
		t.Error("snapshot failure should fall back to warming the curated set")
	}
}

func TestSaveSnapshot(t *testing.T) {
	pre, c := newTestPreloader(t)
	c.Seed(localmap.Records())

	var saved []exercise.SnapshotEntry
	db := &mocks.MockDatabase{
		SaveCacheSnapshotFunc: func(ctx context.Context, entries []exercise.SnapshotEntry, refreshedAt time.Time) error {
			saved = entries
			return nil
		},
	}

	if err := pre.SaveSnapshot(context.Background(), db, c); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if len(saved) == 0 {
		t.Error("expected snapshot entries to be persisted")
	}
}

func TestSaveSnapshotPropagatesError(t *testing.T) {
	pre, c := newTestPreloader(t)

	db := &mocks.MockDatabase{
		SaveCacheSnapshotFunc: func(ctx context.Context, entries []exercise.SnapshotEntry, refreshedAt time.Time) error {
			return context.DeadlineExceeded
		},
	}
	if err := pre.SaveSnapshot(context.Background(), db, c); err == nil {
		t.Error("expected save error to propagate")
	}
}
