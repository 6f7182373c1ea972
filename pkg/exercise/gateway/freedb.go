package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	dferrors "github.com/ripixel/demofit-server/pkg/errors"
	"github.com/ripixel/demofit-server/pkg/exercise"
)

const defaultFreeCatalogURL = "https://raw.githubusercontent.com/yuhonas/free-exercise-db/main"

// freeCatalog is the static free-exercise-db JSON dump. Last-resort catalog:
// a single fetch of the full list, filtered in memory. A successful fetch is
// memoized for the life of the process; a failed fetch is not, so the next
// call retries.
type freeCatalog struct {
	baseURL string

	mu     sync.Mutex
	loaded bool
	items  []freeCatalogItem
}

func newFreeCatalog(baseURL string) *freeCatalog {
	if baseURL == "" {
		baseURL = defaultFreeCatalogURL
	}
	return &freeCatalog{baseURL: baseURL}
}

func (c *freeCatalog) Name() string { return "free-exercise-db" }

// freeCatalogItem is the dump's shape: primaryMuscles instead of target
// arrays, a singular equipment string, and relative image paths instead of a
// gif URL.
type freeCatalogItem struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Equipment        string   `json:"equipment"`
	PrimaryMuscles   []string `json:"primaryMuscles"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
	Images           []string `json:"images"`
}

func (c *freeCatalog) Search(ctx context.Context, client *http.Client, query string, limit int) ([]exercise.Record, error) {
	items, err := c.load(ctx, client)
	if err != nil {
		return nil, err
	}

	queryWords := exercise.Words(query)
	if len(queryWords) == 0 {
		return nil, nil
	}

	var records []exercise.Record
	for _, item := range items {
		if !matchesAllWords(exercise.Normalize(item.Name), queryWords) {
			continue
		}
		records = append(records, c.toRecord(item))
		if len(records) >= limit {
			break
		}
	}
	return records, nil
}

func matchesAllWords(normalizedName string, queryWords []string) bool {
	for _, w := range queryWords {
		if !strings.Contains(normalizedName, w) {
			return false
		}
	}
	return true
}

// load fetches the full dump, memoizing success only. Errors are returned to
// the caller but never cached: a transient upstream failure must not disable
// the last-resort catalog for the rest of the process.
func (c *freeCatalog) load(ctx context.Context, client *http.Client) ([]freeCatalogItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.items, nil
	}

	endpoint := c.baseURL + "/dist/exercises.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, dferrors.WrapRetryable(err, dferrors.CodeCatalogUnavailable, "free catalog request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, dferrors.New(dferrors.CodeCatalogUnavailable,
			fmt.Sprintf("free catalog returned %d", resp.StatusCode))
	}

	var items []freeCatalogItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, dferrors.Wrap(err, dferrors.CodeCatalogParse, "free catalog decode failed")
	}

	c.items = items
	c.loaded = true
	return c.items, nil
}

func (c *freeCatalog) toRecord(item freeCatalogItem) exercise.Record {
	rec := exercise.Record{
		ID:               item.ID,
		Name:             item.Name,
		TargetMuscles:    item.PrimaryMuscles,
		SecondaryMuscles: item.SecondaryMuscles,
		Instructions:     item.Instructions,
	}
	if item.Category != "" {
		rec.BodyParts = []string{item.Category}
	} else {
		rec.BodyParts = []string{}
	}
	if item.Equipment != "" {
		rec.Equipments = []string{item.Equipment}
	} else {
		rec.Equipments = []string{"body weight"}
	}
	if rec.TargetMuscles == nil {
		rec.TargetMuscles = []string{}
	}
	if rec.SecondaryMuscles == nil {
		rec.SecondaryMuscles = []string{}
	}
	if rec.Instructions == nil {
		rec.Instructions = []string{}
	}
	if len(item.Images) > 0 {
		rec.GifURL = fmt.Sprintf("%s/exercises/%s", c.baseURL, item.Images[0])
	} else {
		rec.GifURL = placeholderMediaURL
	}
	return rec
}
