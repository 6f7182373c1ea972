// catalog-dump walks the full remote exercise catalog page by page and writes
// the normalized records as a JSON array, either to a local file or to a GCS
// bucket for later offline use.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	gcs "cloud.google.com/go/storage"

	"github.com/ripixel/demofit-server/pkg/exercise"
	"github.com/ripixel/demofit-server/pkg/exercise/gateway"
	infrastorage "github.com/ripixel/demofit-server/pkg/infrastructure/storage"
)

func main() {
	out := flag.String("out", "", "Local output file path")
	bucket := flag.String("bucket", "", "GCS bucket to upload the dump to")
	object := flag.String("object", "exercise-catalog.json", "GCS object name")
	pageSize := flag.Int("page-size", 100, "Records per page")
	maxPages := flag.Int("max-pages", 0, "Stop after this many pages (0 = all)")
	flag.Parse()

	if *out == "" && *bucket == "" {
		fmt.Println("Please provide -out or -bucket")
		os.Exit(1)
	}

	ctx := context.Background()

	gw := gateway.New(gateway.Options{
		ExerciseDBAPIKey:  os.Getenv("EXERCISEDB_API_KEY"),
		ExerciseDBBaseURL: os.Getenv("EXERCISEDB_BASE_URL"),
		OpenCatalogURL:    os.Getenv("OPEN_CATALOG_BASE_URL"),
		FreeCatalogURL:    os.Getenv("FREE_CATALOG_BASE_URL"),
	})

	var records []exercise.Record
	start := time.Now()

	for page := 1; ; page++ {
		result, err := gw.FetchPage(ctx, page, *pageSize)
		if err != nil {
			fmt.Printf("Failed to fetch page %d: %v\n", page, err)
			os.Exit(1)
		}
		records = append(records, result.Exercises...)
		fmt.Printf("Fetched page %d/%d (%d records)\n", result.Page, result.TotalPages, len(result.Exercises))

		if len(result.Exercises) == 0 || (result.TotalPages > 0 && page >= result.TotalPages) {
			break
		}
		if *maxPages > 0 && page >= *maxPages {
			break
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		fmt.Printf("Failed to marshal records: %v\n", err)
		os.Exit(1)
	}

	if *out != "" {
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			fmt.Printf("Failed to write %s: %v\n", *out, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d records to %s\n", len(records), *out)
	}

	if *bucket != "" {
		client, err := gcs.NewClient(ctx)
		if err != nil {
			fmt.Printf("Failed to create storage client: %v\n", err)
			os.Exit(1)
		}
		store := &infrastorage.StorageAdapter{Client: client}
		if err := store.Write(ctx, *bucket, *object, data); err != nil {
			fmt.Printf("Failed to upload to gs://%s/%s: %v\n", *bucket, *object, err)
			os.Exit(1)
		}
		fmt.Printf("Uploaded %d records to gs://%s/%s\n", len(records), *bucket, *object)
	}

	fmt.Printf("Done in %s\n", time.Since(start).Round(time.Millisecond))
}
