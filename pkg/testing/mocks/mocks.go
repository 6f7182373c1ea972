package mocks

import (
	"context"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/ripixel/demofit-server/pkg/exercise"
)

// --- Mock Database ---
type MockDatabase struct {
	SetExecutionFunc      func(ctx context.Context, id string, data map[string]interface{}) error
	UpdateExecutionFunc   func(ctx context.Context, id string, data map[string]interface{}) error
	SaveCacheSnapshotFunc func(ctx context.Context, entries []exercise.SnapshotEntry, refreshedAt time.Time) error
	LoadCacheSnapshotFunc func(ctx context.Context) ([]exercise.SnapshotEntry, time.Time, error)
}

func (m *MockDatabase) SetExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.SetExecutionFunc != nil {
		return m.SetExecutionFunc(ctx, id, data)
	}
	return nil
}

func (m *MockDatabase) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	if m.UpdateExecutionFunc != nil {
		return m.UpdateExecutionFunc(ctx, id, data)
	}
	return nil
}

func (m *MockDatabase) SaveCacheSnapshot(ctx context.Context, entries []exercise.SnapshotEntry, refreshedAt time.Time) error {
	if m.SaveCacheSnapshotFunc != nil {
		return m.SaveCacheSnapshotFunc(ctx, entries, refreshedAt)
	}
	return nil
}

func (m *MockDatabase) LoadCacheSnapshot(ctx context.Context) ([]exercise.SnapshotEntry, time.Time, error) {
	if m.LoadCacheSnapshotFunc != nil {
		return m.LoadCacheSnapshotFunc(ctx)
	}
	return nil, time.Time{}, nil
}

// --- Mock Publisher ---
type MockPublisher struct {
	PublishCloudEventFunc func(ctx context.Context, topic string, e event.Event) (string, error)
	Published             []event.Event
}

func (m *MockPublisher) PublishCloudEvent(ctx context.Context, topic string, e event.Event) (string, error) {
	m.Published = append(m.Published, e)
	if m.PublishCloudEventFunc != nil {
		return m.PublishCloudEventFunc(ctx, topic, e)
	}
	return "mock-msg-id", nil
}

// --- Mock BlobStore ---
type MockBlobStore struct {
	WriteFunc func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc  func(ctx context.Context, bucket, object string) ([]byte, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}

func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return nil, nil
}

// --- Mock SecretStore ---
type MockSecretStore struct {
	GetSecretFunc func(ctx context.Context, projectID, name string) (string, error)
}

func (m *MockSecretStore) GetSecret(ctx context.Context, projectID, name string) (string, error) {
	if m.GetSecretFunc != nil {
		return m.GetSecretFunc(ctx, projectID, name)
	}
	return "", nil
}

// --- Mock AdvancedMatcher ---
type MockAdvancedMatcher struct {
	ResolveFunc func(ctx context.Context, name string) (*exercise.MatchResult, error)
}

func (m *MockAdvancedMatcher) Resolve(ctx context.Context, name string) (*exercise.MatchResult, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, name)
	}
	return nil, nil
}
