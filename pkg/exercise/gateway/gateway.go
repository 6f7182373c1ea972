// Package gateway queries the external exercise catalogs in a fixed priority
// order and normalizes their heterogeneous response shapes into the canonical
// record format. Network failures are non-fatal by design: callers receive an
// empty result and the orchestrator falls through to the next tier.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	dferrors "github.com/ripixel/demofit-server/pkg/errors"
	"github.com/ripixel/demofit-server/pkg/exercise"
)

// SearchTimeout bounds interactive search calls. Preload and background
// paging use the longer background client instead.
const (
	SearchTimeout     = 3 * time.Second
	BackgroundTimeout = 60 * time.Second
)

// Known-broken media CDN hostnames and their replacement. This is a narrow,
// explicit substitution applied before a record is returned or cached, not
// general URL validation.
var brokenMediaHosts = []string{
	"d205bpvrqc9yn1.cloudfront.net",
	"v1.cdn.exercisedb.dev",
}

const replacementMediaHost = "static.exercisedb.dev"

// RewriteMediaURL replaces a known-broken CDN host with the known-good one.
// Also applied by the orchestrator to records coming out of the cache, since
// entries cached before the host died may still carry it.
func RewriteMediaURL(url string) string {
	for _, host := range brokenMediaHosts {
		if strings.Contains(url, host) {
			return strings.Replace(url, host, replacementMediaHost, 1)
		}
	}
	return url
}

// catalog is one upstream exercise catalog. Each implementation owns its
// response schema; nothing outside this package sees catalog-specific shapes.
type catalog interface {
	Name() string
	Search(ctx context.Context, client *http.Client, query string, limit int) ([]exercise.Record, error)
}

// pager is implemented by catalogs that support a full paged walk.
type pager interface {
	FetchPage(ctx context.Context, client *http.Client, page, pageSize int) (exercise.PageResult, error)
}

// byIDFetcher is implemented by catalogs that support direct id lookup.
type byIDFetcher interface {
	GetByID(ctx context.Context, client *http.Client, id string) (*exercise.Record, error)
}

// Options configures the gateway.
type Options struct {
	// ExerciseDBAPIKey enables the RapidAPI primary catalog. Empty key
	// means the cascade starts at the open catalogs.
	ExerciseDBAPIKey string

	// Base URL overrides, primarily for tests.
	ExerciseDBBaseURL string
	OpenCatalogURL    string
	FreeCatalogURL    string
}

// Gateway cascades over the configured catalogs.
type Gateway struct {
	catalogs    []catalog
	interactive *http.Client
	background  *http.Client
	logger      *slog.Logger
}

// New builds the gateway with the fixed catalog priority order:
// ExerciseDB (RapidAPI), then the open ExerciseDB mirror, then the static
// free-exercise-db dump.
func New(opts Options) *Gateway {
	var catalogs []catalog
	if opts.ExerciseDBAPIKey != "" {
		catalogs = append(catalogs, newExerciseDBCatalog(opts.ExerciseDBAPIKey, opts.ExerciseDBBaseURL))
	}
	catalogs = append(catalogs,
		newOpenCatalog(opts.OpenCatalogURL),
		newFreeCatalog(opts.FreeCatalogURL),
	)

	return &Gateway{
		catalogs:    catalogs,
		interactive: &http.Client{Timeout: SearchTimeout},
		background:  &http.Client{Timeout: BackgroundTimeout},
		logger:      slog.With("component", "gateway"),
	}
}

// Search queries the catalogs in priority order and returns the first
// non-empty normalized result set. The returned error is non-nil only when
// every catalog failed; callers treat it as a miss, never as fatal.
func (g *Gateway) Search(ctx context.Context, query string, limit int) ([]exercise.Record, error) {
	if limit <= 0 {
		limit = 10
	}

	var attempts []error
	for _, cat := range g.catalogs {
		records, err := cat.Search(ctx, g.interactive, query, limit)
		if err != nil {
			g.logger.Warn("Catalog search failed, trying next",
				"catalog", cat.Name(), "query", query, "error", err)
			attempts = append(attempts, err)
			continue
		}
		if len(records) == 0 {
			// Reachable but no matches: a miss, not an error.
			continue
		}
		for i := range records {
			records[i] = normalizeMedia(records[i])
		}
		return records, nil
	}

	if len(attempts) == len(g.catalogs) && len(attempts) > 0 {
		return nil, dferrors.WrapRetryable(errors.Join(attempts...),
			dferrors.CodeCatalogUnavailable, "all catalogs failed")
	}
	return nil, nil
}

// GetByID fetches a record by catalog id, trying each catalog that supports
// direct lookup. Absence is (nil, nil).
func (g *Gateway) GetByID(ctx context.Context, id string) (*exercise.Record, error) {
	var attempts []error
	for _, cat := range g.catalogs {
		fetcher, ok := cat.(byIDFetcher)
		if !ok {
			continue
		}
		rec, err := fetcher.GetByID(ctx, g.background, id)
		if err != nil {
			attempts = append(attempts, err)
			continue
		}
		if rec != nil {
			normalized := normalizeMedia(*rec)
			return &normalized, nil
		}
	}
	if len(attempts) > 0 {
		return nil, dferrors.WrapRetryable(errors.Join(attempts...),
			dferrors.CodeCatalogUnavailable, "id lookup failed")
	}
	return nil, nil
}

// FetchPage walks the full catalog through the first upstream that supports
// paging. Used by the offline catalog dump, not by interactive resolution.
func (g *Gateway) FetchPage(ctx context.Context, page, pageSize int) (exercise.PageResult, error) {
	var attempts []error
	for _, cat := range g.catalogs {
		p, ok := cat.(pager)
		if !ok {
			continue
		}
		result, err := p.FetchPage(ctx, g.background, page, pageSize)
		if err != nil {
			attempts = append(attempts, err)
			continue
		}
		for i := range result.Exercises {
			result.Exercises[i] = normalizeMedia(result.Exercises[i])
		}
		return result, nil
	}
	return exercise.PageResult{}, dferrors.WrapRetryable(errors.Join(attempts...),
		dferrors.CodeCatalogUnavailable, "no catalog could serve the page")
}

// normalizeMedia applies the CDN rewrite and the placeholder default that
// every catalog adapter relies on.
func normalizeMedia(rec exercise.Record) exercise.Record {
	rec.GifURL = RewriteMediaURL(rec.GifURL)
	return rec
}
