package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("document not found")
	ErrUnsupportedQuery = errors.New("unsupported query")
)

// Collection names
const (
	Shifts     = "shifts"
	Timesheets = "timesheets"
	Users      = "users"
)

// Punches returns the punch sub-collection path of a shift document
func Punches(shiftDocID string) string {
	return Shifts + "/" + shiftDocID + "/punches"
}

// Document is a raw store document. Data values are whatever the backend
// decodes: time.Time, float64/int64, string, []any, map[string]any, GeoPoints.
type Document struct {
	ID   string
	Data map[string]any
}

// Has reports whether the document exposes the field at all
func (d Document) Has(field string) bool {
	_, ok := d.Data[field]
	return ok
}

// Filter is a single field predicate. Op is "==" or "in".
type Filter struct {
	Field string
	Op    string
	Value any
}

// Eq builds an equality filter
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: "==", Value: value}
}

// In builds a membership filter
func In(field string, values []string) Filter {
	return Filter{Field: field, Op: "in", Value: values}
}

// Store is the document key-value store with realtime subscription
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]Document, error)
	Create(ctx context.Context, collection string, data map[string]any) (string, error)
	// Merge writes the given fields, creating the document if needed
	Merge(ctx context.Context, collection, id string, data map[string]any) error
	// Update writes the given fields of an existing document
	Update(ctx context.Context, collection, id string, data map[string]any) error
	Increment(ctx context.Context, collection, id, field string, delta float64) error
	// Watch calls fn with the full collection on every change until ctx ends
	Watch(ctx context.Context, collection string, fn func([]Document)) error
	// WatchDoc calls fn with the document (nil when missing) on every change until ctx ends
	WatchDoc(ctx context.Context, collection, id string, fn func(*Document)) error
	Close() error
}

// Match evaluates filters against a document's data. Adapters without native
// query support use it.
func Match(data map[string]any, filters []Filter) (bool, error) {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok {
			return false, nil
		}
		switch f.Op {
		case "==":
			if !equalValues(v, f.Value) {
				return false, nil
			}
		case "in":
			values, ok := f.Value.([]string)
			if !ok {
				return false, ErrUnsupportedQuery
			}
			found := false
			for _, candidate := range values {
				if equalValues(v, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false, nil
			}
		default:
			return false, ErrUnsupportedQuery
		}
	}
	return true, nil
}

func equalValues(a, b any) bool {
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return as == bs
	}
	if aok || bok {
		return false
	}
	if an, ok := AsNumber(a); ok {
		if bn, ok := AsNumber(b); ok {
			return an == bn
		}
	}
	ab, aok := a.(bool)
	bb, bok := b.(bool)
	return aok && bok && ab == bb
}
