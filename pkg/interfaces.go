package shared

import (
	"context"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/ripixel/demofit-server/pkg/exercise"
)

// --- Persistence Interfaces ---

type Database interface {
	SetExecution(ctx context.Context, id string, data map[string]interface{}) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error

	// Cache snapshot (for warm restarts)
	SaveCacheSnapshot(ctx context.Context, entries []exercise.SnapshotEntry, refreshedAt time.Time) error
	LoadCacheSnapshot(ctx context.Context) ([]exercise.SnapshotEntry, time.Time, error)
}

// --- Messaging Interfaces ---

type Publisher interface {
	PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error)
}

// --- Storage Interfaces ---

type BlobStore interface {
	Write(ctx context.Context, bucket, object string, data []byte) error
	Read(ctx context.Context, bucket, object string) ([]byte, error)
}

// --- Secrets Interface ---

type SecretStore interface {
	GetSecret(ctx context.Context, projectID, name string) (string, error)
}
