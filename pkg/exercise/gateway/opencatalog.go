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

const defaultOpenCatalogURL = "https://www.exercisedb.dev"

// openCatalog is the keyless ExerciseDB mirror. First secondary catalog, and
// the one that serves full paged walks.
type openCatalog struct {
	baseURL string
}

func newOpenCatalog(baseURL string) *openCatalog {
	if baseURL == "" {
		baseURL = defaultOpenCatalogURL
	}
	return &openCatalog{baseURL: baseURL}
}

func (c *openCatalog) Name() string { return "open-exercisedb" }

// openCatalogItem is the mirror's shape: array fields and an exerciseId key.
type openCatalogItem struct {
	ExerciseID       string   `json:"exerciseId"`
	Name             string   `json:"name"`
	GifURL           string   `json:"gifUrl"`
	TargetMuscles    []string `json:"targetMuscles"`
	BodyParts        []string `json:"bodyParts"`
	Equipments       []string `json:"equipments"`
	SecondaryMuscles []string `json:"secondaryMuscles"`
	Instructions     []string `json:"instructions"`
}

// openCatalogEnvelope wraps every response in a success flag plus paging
// metadata.
type openCatalogEnvelope struct {
	Success  bool              `json:"success"`
	Data     []openCatalogItem `json:"data"`
	Metadata struct {
		TotalPages     int `json:"totalPages"`
		TotalExercises int `json:"totalExercises"`
		CurrentPage    int `json:"currentPage"`
	} `json:"metadata"`
}

func (c *openCatalog) Search(ctx context.Context, client *http.Client, query string, limit int) ([]exercise.Record, error) {
	endpoint := fmt.Sprintf("%s/api/v1/exercises/search?q=%s&limit=%d",
		c.baseURL, url.QueryEscape(exercise.Normalize(query)), limit)

	env, err := c.getEnvelope(ctx, client, endpoint)
	if err != nil {
		return nil, err
	}

	records := make([]exercise.Record, 0, len(env.Data))
	for _, item := range env.Data {
		records = append(records, item.toRecord())
	}
	return records, nil
}

func (c *openCatalog) FetchPage(ctx context.Context, client *http.Client, page, pageSize int) (exercise.PageResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 25
	}
	offset := (page - 1) * pageSize
	endpoint := fmt.Sprintf("%s/api/v1/exercises?offset=%d&limit=%d", c.baseURL, offset, pageSize)

	env, err := c.getEnvelope(ctx, client, endpoint)
	if err != nil {
		return exercise.PageResult{}, err
	}

	result := exercise.PageResult{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: env.Metadata.TotalPages,
		TotalCount: env.Metadata.TotalExercises,
		Exercises:  make([]exercise.Record, 0, len(env.Data)),
	}
	for _, item := range env.Data {
		result.Exercises = append(result.Exercises, item.toRecord())
	}
	return result, nil
}

func (c *openCatalog) GetByID(ctx context.Context, client *http.Client, id string) (*exercise.Record, error) {
	endpoint := fmt.Sprintf("%s/api/v1/exercises/%s", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, dferrors.WrapRetryable(err, dferrors.CodeCatalogUnavailable, "open catalog request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, dferrors.New(dferrors.CodeCatalogUnavailable,
			fmt.Sprintf("open catalog returned %d", resp.StatusCode))
	}

	var env struct {
		Success bool            `json:"success"`
		Data    openCatalogItem `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, dferrors.Wrap(err, dferrors.CodeCatalogParse, "open catalog response decode failed")
	}
	if env.Data.ExerciseID == "" {
		return nil, nil
	}
	rec := env.Data.toRecord()
	return &rec, nil
}

func (c *openCatalog) getEnvelope(ctx context.Context, client *http.Client, endpoint string) (*openCatalogEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, dferrors.WrapRetryable(err, dferrors.CodeCatalogUnavailable, "open catalog request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, dferrors.New(dferrors.CodeCatalogUnavailable,
			fmt.Sprintf("open catalog returned %d", resp.StatusCode))
	}

	var env openCatalogEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, dferrors.Wrap(err, dferrors.CodeCatalogParse, "open catalog response decode failed")
	}
	return &env, nil
}

func (item openCatalogItem) toRecord() exercise.Record {
	rec := exercise.Record{
		ID:               item.ExerciseID,
		Name:             item.Name,
		GifURL:           item.GifURL,
		TargetMuscles:    item.TargetMuscles,
		BodyParts:        item.BodyParts,
		Equipments:       item.Equipments,
		SecondaryMuscles: item.SecondaryMuscles,
		Instructions:     item.Instructions,
	}
	if rec.TargetMuscles == nil {
		rec.TargetMuscles = []string{}
	}
	if rec.BodyParts == nil {
		rec.BodyParts = []string{}
	}
	if rec.Equipments == nil {
		rec.Equipments = []string{}
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
