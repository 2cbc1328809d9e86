package shifts

import (
	"context"
	"errors"
	"fmt"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
)

var ErrNotFound = errors.New("shift not found")

// List reads the shared collection and normalizes it
func List(ctx context.Context, st store.Store) ([]models.Shift, error) {
	docs, err := st.Query(ctx, store.Shifts)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return NormalizeSnapshot(docs), nil
}

// Load resolves a shift id, synthetic or plain, to its shift and the id of
// the document it came from.
func Load(ctx context.Context, st store.Store, id string) (models.Shift, string, error) {
	for _, docID := range CandidateDocIDs(id) {
		doc, err := st.Get(ctx, store.Shifts, docID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return models.Shift{}, "", fmt.Errorf("failed to load shift %s: %w", id, err)
		}

		rows, err := Normalize(*doc)
		if err != nil {
			continue
		}
		if s, ok := Find(rows, id); ok {
			return s, docID, nil
		}
	}
	return models.Shift{}, "", ErrNotFound
}
