package database

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/ripixel/demofit-server/pkg/errors"
	"github.com/ripixel/demofit-server/pkg/exercise"
)

const (
	executionsCollection = "executions"
	snapshotsCollection  = "cache_snapshots"
	snapshotDocID        = "exercise-cache"
)

// FirestoreAdapter provides database operations using Firestore.
type FirestoreAdapter struct {
	Client *firestore.Client
}

func NewFirestoreAdapter(client *firestore.Client) *FirestoreAdapter {
	return &FirestoreAdapter{Client: client}
}

func (a *FirestoreAdapter) SetExecution(ctx context.Context, id string, data map[string]interface{}) error {
	var ref *firestore.DocumentRef
	if id == "" {
		ref = a.Client.Collection(executionsCollection).NewDoc()
	} else {
		ref = a.Client.Collection(executionsCollection).Doc(id)
	}
	_, err := ref.Set(ctx, data, firestore.MergeAll)
	return err
}

func (a *FirestoreAdapter) UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error {
	_, err := a.Client.Collection(executionsCollection).Doc(id).Set(ctx, data, firestore.MergeAll)
	return err
}

// snapshotDoc is the Firestore shape of the durable cache snapshot.
// One document holds the whole cache; entries are replaced wholesale.
type snapshotDoc struct {
	RefreshedAt time.Time                `firestore:"refreshed_at"`
	Entries     []exercise.SnapshotEntry `firestore:"entries"`
}

func (a *FirestoreAdapter) SaveCacheSnapshot(ctx context.Context, entries []exercise.SnapshotEntry, refreshedAt time.Time) error {
	doc := snapshotDoc{RefreshedAt: refreshedAt, Entries: entries}
	_, err := a.Client.Collection(snapshotsCollection).Doc(snapshotDocID).Set(ctx, doc)
	if err != nil {
		return errors.Wrap(err, errors.CodeSnapshotSave, "failed to persist cache snapshot")
	}
	return nil
}

func (a *FirestoreAdapter) LoadCacheSnapshot(ctx context.Context) ([]exercise.SnapshotEntry, time.Time, error) {
	snap, err := a.Client.Collection(snapshotsCollection).Doc(snapshotDocID).Get(ctx)
	if err != nil {
		return nil, time.Time{}, errors.Wrap(err, errors.CodeSnapshotLoad, "failed to read cache snapshot")
	}
	var doc snapshotDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, time.Time{}, errors.Wrap(err, errors.CodeSnapshotLoad, "cache snapshot has unexpected shape")
	}
	return doc.Entries, doc.RefreshedAt, nil
}
