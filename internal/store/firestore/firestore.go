package firestore

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"github.com/JunoAX/beework-go/internal/store"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Store adapts a Firestore client to store.Store
type Store struct {
	client *firestore.Client
}

// New connects to Firestore through the Firebase Admin SDK.
// credentialsFile may be empty to use application default credentials.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to firestore: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return toDocument(snap), nil
}

func (s *Store) Query(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	q := s.client.Collection(collection).Query
	for _, f := range filters {
		switch f.Op {
		case "==", "in":
			q = q.Where(f.Field, f.Op, f.Value)
		default:
			return nil, store.ErrUnsupportedQuery
		}
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		if status.Code(err) == codes.InvalidArgument || status.Code(err) == codes.FailedPrecondition {
			return nil, fmt.Errorf("%w: %v", store.ErrUnsupportedQuery, err)
		}
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}

	docs := make([]store.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, *toDocument(snap))
	}
	return docs, nil
}

func (s *Store) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Set(ctx, data); err != nil {
		return "", fmt.Errorf("failed to create %s document: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) Merge(ctx context.Context, collection, id string, data map[string]any) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, data map[string]any) error {
	updates := make([]firestore.Update, 0, len(data))
	for k, v := range data {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return store.ErrNotFound
		}
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Increment(ctx context.Context, collection, id, field string, delta float64) error {
	data := map[string]any{field: firestore.Increment(delta)}
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to increment %s/%s.%s: %w", collection, id, field, err)
	}
	return nil
}

func (s *Store) Watch(ctx context.Context, collection string, fn func([]store.Document)) error {
	it := s.client.Collection(collection).Snapshots(ctx)
	defer it.Stop()

	for {
		qs, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
				return nil
			}
			return fmt.Errorf("snapshot listener for %s failed: %w", collection, err)
		}

		snaps, err := qs.Documents.GetAll()
		if err != nil {
			log.Printf("⚠️  Skipping unreadable %s snapshot: %v", collection, err)
			continue
		}
		docs := make([]store.Document, 0, len(snaps))
		for _, snap := range snaps {
			docs = append(docs, *toDocument(snap))
		}
		fn(docs)
	}
}

func (s *Store) WatchDoc(ctx context.Context, collection, id string, fn func(*store.Document)) error {
	it := s.client.Collection(collection).Doc(id).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
				return nil
			}
			return fmt.Errorf("snapshot listener for %s/%s failed: %w", collection, id, err)
		}
		if !snap.Exists() {
			fn(nil)
			continue
		}
		fn(toDocument(snap))
	}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func toDocument(snap *firestore.DocumentSnapshot) *store.Document {
	return &store.Document{ID: snap.Ref.ID, Data: snap.Data()}
}
