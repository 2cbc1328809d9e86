package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JunoAX/beework-go/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notifyChannel = "documents_changed"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
);

CREATE OR REPLACE FUNCTION notify_documents_changed() RETURNS trigger AS $$
BEGIN
	PERFORM pg_notify('documents_changed', COALESCE(NEW.collection, OLD.collection));
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS documents_changed ON documents;
CREATE TRIGGER documents_changed
	AFTER INSERT OR UPDATE OR DELETE ON documents
	FOR EACH ROW EXECUTE FUNCTION notify_documents_changed();
`

// Store keeps documents as JSONB rows and streams changes with LISTEN/NOTIFY.
// All watchers share one listening connection.
type Store struct {
	pool     *pgxpool.Pool
	hub      *hub
	listener *listener
}

// New creates a connection pool and ensures the documents table exists
func New(ctx context.Context, connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document DB config: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create document DB pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping document DB: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}

	h := newHub()
	return &Store{pool: pool, hub: h, listener: startListener(pool, h)}, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`

	var data map[string]any
	err := s.pool.QueryRow(ctx, query, collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	return &store.Document{ID: id, Data: data}, nil
}

func (s *Store) Query(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	query, args, err := buildQuery(collection, filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []store.Document
	for rows.Next() {
		var doc store.Document
		if err := rows.Scan(&doc.ID, &doc.Data); err != nil {
			return nil, fmt.Errorf("failed to scan %s document: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func buildQuery(collection string, filters []store.Filter) (string, []any, error) {
	var b strings.Builder
	b.WriteString(`SELECT id, data FROM documents WHERE collection = $1`)
	args := []any{collection}

	for _, f := range filters {
		switch f.Op {
		case "==":
			payload, err := json.Marshal(map[string]any{f.Field: f.Value})
			if err != nil {
				return "", nil, fmt.Errorf("%w: %v", store.ErrUnsupportedQuery, err)
			}
			args = append(args, string(payload))
			fmt.Fprintf(&b, ` AND data @> $%d::jsonb`, len(args))
		case "in":
			values, ok := f.Value.([]string)
			if !ok {
				return "", nil, store.ErrUnsupportedQuery
			}
			args = append(args, f.Field, values)
			fmt.Fprintf(&b, ` AND data->>$%d = ANY($%d::text[])`, len(args)-1, len(args))
		default:
			return "", nil, store.ErrUnsupportedQuery
		}
	}
	b.WriteString(` ORDER BY id`)
	return b.String(), args, nil
}

func (s *Store) Create(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.New().String()
	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, collection, id, data); err != nil {
		return "", fmt.Errorf("failed to create %s document: %w", collection, err)
	}
	return id, nil
}

func (s *Store) Merge(ctx context.Context, collection, id string, data map[string]any) error {
	query := `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, collection, id, data); err != nil {
		return fmt.Errorf("failed to merge %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, data map[string]any) error {
	query := `
		UPDATE documents
		SET data = data || $3, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`
	result, err := s.pool.Exec(ctx, query, collection, id, data)
	if err != nil {
		return fmt.Errorf("failed to update %s/%s: %w", collection, id, err)
	}
	if result.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Increment(ctx context.Context, collection, id, field string, delta float64) error {
	query := `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, jsonb_build_object($3::text, $4::float8), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET
			data = documents.data || jsonb_build_object(
				$3::text, COALESCE((documents.data->>$3::text)::float8, 0) + $4::float8
			),
			updated_at = NOW()
	`
	if _, err := s.pool.Exec(ctx, query, collection, id, field, delta); err != nil {
		return fmt.Errorf("failed to increment %s/%s.%s: %w", collection, id, field, err)
	}
	return nil
}

func (s *Store) Watch(ctx context.Context, collection string, fn func([]store.Document)) error {
	return s.follow(ctx, collection, func() error {
		docs, err := s.Query(ctx, collection)
		if err != nil {
			return err
		}
		fn(docs)
		return nil
	})
}

func (s *Store) WatchDoc(ctx context.Context, collection, id string, fn func(*store.Document)) error {
	return s.follow(ctx, collection, func() error {
		doc, err := s.Get(ctx, collection, id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		fn(doc)
		return nil
	})
}

// follow emits once, then again whenever the shared listener reports a
// change to the collection
func (s *Store) follow(ctx context.Context, collection string, emit func() error) error {
	changed, unsubscribe := s.hub.subscribe(collection)
	defer unsubscribe()

	for {
		if err := emit(); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
		}
	}
}

// Health checks if the document database is reachable
func (s *Store) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.listener.stop()
	s.pool.Close()
	return nil
}
