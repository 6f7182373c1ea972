package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	dferrors "github.com/ripixel/demofit-server/pkg/errors"
	"github.com/ripixel/demofit-server/pkg/exercise"
)

// placeholderMediaURL substitutes for catalogs that return a record without a
// demonstration clip. A record must never leave the gateway with empty media.
const placeholderMediaURL = "https://static.exercisedb.dev/media/placeholder.gif"

const defaultExerciseDBBaseURL = "https://exercisedb.p.rapidapi.com"

// exerciseDBCatalog is the RapidAPI-hosted ExerciseDB. Primary catalog when
// an API key is configured.
type exerciseDBCatalog struct {
	apiKey  string
	baseURL string
}

func newExerciseDBCatalog(apiKey, baseURL string) *exerciseDBCatalog {
	if baseURL == "" {
		baseURL = defaultExerciseDBBaseURL
	}
	return &exerciseDBCatalog{apiKey: apiKey, baseURL: baseURL}
}

func (c *exerciseDBCatalog) Name() string { return "exercisedb" }

// exerciseDBItem is the RapidAPI response shape: singular string fields for
// target/bodyPart/equipment rather than arrays.
type exerciseDBItem struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	GifURL           string   `json:"gifUrl"`
	Target           string   `json:"target"`
	BodyPart         string   `json:"bodyPart"`
	Equipment        string   `json:"equipment"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
}

func (c *exerciseDBCatalog) Search(ctx context.Context, client *http.Client, query string, limit int) ([]exercise.Record, error) {
	endpoint := fmt.Sprintf("%s/exercises/name/%s?limit=%d",
		c.baseURL, url.PathEscape(exercise.Normalize(query)), limit)

	var items []exerciseDBItem
	if err := c.getJSON(ctx, client, endpoint, &items); err != nil {
		return nil, err
	}

	records := make([]exercise.Record, 0, len(items))
	for _, item := range items {
		records = append(records, item.toRecord())
	}
	return records, nil
}

func (c *exerciseDBCatalog) GetByID(ctx context.Context, client *http.Client, id string) (*exercise.Record, error) {
	endpoint := fmt.Sprintf("%s/exercises/exercise/%s", c.baseURL, url.PathEscape(id))

	var item exerciseDBItem
	if err := c.getJSON(ctx, client, endpoint, &item); err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, nil
	}
	rec := item.toRecord()
	return &rec, nil
}

func (c *exerciseDBCatalog) getJSON(ctx context.Context, client *http.Client, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return dferrors.WrapRetryable(err, dferrors.CodeCatalogUnavailable, "exercisedb request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return dferrors.New(dferrors.CodeCatalogUnavailable,
			fmt.Sprintf("exercisedb returned %d", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dferrors.Wrap(err, dferrors.CodeCatalogParse, "exercisedb response decode failed")
	}
	return nil
}

// toRecord normalizes the RapidAPI shape: singular fields become one-element
// arrays, missing arrays default to empty, missing media gets the placeholder.
func (item exerciseDBItem) toRecord() exercise.Record {
	rec := exercise.Record{
		ID:               item.ID,
		Name:             item.Name,
		GifURL:           item.GifURL,
		SecondaryMuscles: item.SecondaryMuscles,
		Instructions:     item.Instructions,
	}
	if item.Target != "" {
		rec.TargetMuscles = []string{item.Target}
	}
	if item.BodyPart != "" {
		rec.BodyParts = []string{item.BodyPart}
	}
	if item.Equipment != "" {
		rec.Equipments = []string{item.Equipment}
	}
	if rec.SecondaryMuscles == nil {
		rec.SecondaryMuscles = []string{}
	}
	if rec.Instructions == nil {
		rec.Instructions = []string{}
	}
	if rec.GifURL == "" {
		rec.GifURL = placeholderMediaURL
	}
	return rec
}
