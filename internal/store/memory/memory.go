package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/JunoAX/beework-go/internal/store"
	"github.com/google/uuid"
)

// Store is an in-process document store with snapshot fan-out
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	watchers    map[string]map[int]chan struct{}
	nextWatch   int
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]map[string]any),
		watchers:    make(map[string]map[int]chan struct{}),
	}
}

// Seed replaces a document wholesale
func (s *Store) Seed(collection, id string, data map[string]any) {
	s.mu.Lock()
	s.docs(collection)[id] = copyData(data)
	s.mu.Unlock()
	s.notify(collection)
}

func (s *Store) docs(collection string) map[string]map[string]any {
	c, ok := s.collections[collection]
	if !ok {
		c = make(map[string]map[string]any)
		s.collections[collection] = c
	}
	return c
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.collections[collection][id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Document{ID: id, Data: copyData(data)}, nil
}

func (s *Store) Query(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []store.Document
	for _, id := range s.sortedIDs(collection) {
		data := s.collections[collection][id]
		ok, err := store.Match(data, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, store.Document{ID: id, Data: copyData(data)})
		}
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := uuid.New().String()
	s.mu.Lock()
	s.docs(collection)[id] = copyData(data)
	s.mu.Unlock()
	s.notify(collection)
	return id, nil
}

func (s *Store) Merge(ctx context.Context, collection, id string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	docs := s.docs(collection)
	existing, ok := docs[id]
	if !ok {
		existing = make(map[string]any)
		docs[id] = existing
	}
	for k, v := range data {
		existing[k] = v
	}
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	existing, ok := s.collections[collection][id]
	if !ok {
		s.mu.Unlock()
		return store.ErrNotFound
	}
	for k, v := range data {
		existing[k] = v
	}
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *Store) Increment(ctx context.Context, collection, id, field string, delta float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	docs := s.docs(collection)
	existing, ok := docs[id]
	if !ok {
		existing = make(map[string]any)
		docs[id] = existing
	}
	existing[field] = store.Number(existing[field]) + delta
	s.mu.Unlock()
	s.notify(collection)
	return nil
}

func (s *Store) Watch(ctx context.Context, collection string, fn func([]store.Document)) error {
	changed, cancel := s.subscribe(collection)
	defer cancel()

	for {
		docs, err := s.Query(context.Background(), collection)
		if err != nil {
			return err
		}
		fn(docs)

		select {
		case <-ctx.Done():
			return nil
		case <-changed:
		}
	}
}

func (s *Store) WatchDoc(ctx context.Context, collection, id string, fn func(*store.Document)) error {
	changed, cancel := s.subscribe(collection)
	defer cancel()

	for {
		doc, err := s.Get(context.Background(), collection, id)
		if err != nil && err != store.ErrNotFound {
			return err
		}
		fn(doc)

		select {
		case <-ctx.Done():
			return nil
		case <-changed:
		}
	}
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) subscribe(collection string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.nextWatch++
	key := s.nextWatch
	if s.watchers[collection] == nil {
		s.watchers[collection] = make(map[int]chan struct{})
	}
	s.watchers[collection][key] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		delete(s.watchers[collection], key)
		s.mu.Unlock()
	}
}

// notify wakes every watcher of the collection; pending wake-ups coalesce
func (s *Store) notify(collection string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.watchers[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) sortedIDs(collection string) []string {
	ids := make([]string, 0, len(s.collections[collection]))
	for id := range s.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
