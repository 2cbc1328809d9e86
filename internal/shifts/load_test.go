package shifts

import (
	"context"
	"errors"
	"testing"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
	"github.com/JunoAX/beework-go/internal/store/memory"
)

func TestLoadResolvesWorkerIDsWithUnderscores(t *testing.T) {
	st := memory.New()
	st.Seed(store.Shifts, "evt1", map[string]any{
		"companyName": "Acme",
		"startTS":     "2026-03-06T08:00:00Z",
		"assigned":    []any{"user_a", "u2"},
	})
	st.Seed(store.Shifts, "evt1_user", map[string]any{"userId": "x", "title": "Decoy"})
	st.Seed(store.Shifts, "d1", map[string]any{"userId": "u1", "title": "Barista"})

	ctx := context.Background()
	s, docID, err := Load(ctx, st, "evt1_user_a_0")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if docID != "evt1" || s.UserID != "user_a" {
		t.Fatalf("resolved to doc %q worker %q", docID, s.UserID)
	}

	s, docID, err = Load(ctx, st, "d1")
	if err != nil || docID != "d1" || s.Title != "Barista" {
		t.Fatalf("direct load: %+v %q %v", s, docID, err)
	}

	if _, _, err := Load(ctx, st, "evt1_ghost_5"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSources(t *testing.T) {
	docs := []store.Document{
		{ID: "evt1", Data: map[string]any{"companyName": "Acme", "assigned": []any{"user_a"}}},
		{ID: "d1", Data: map[string]any{"userId": "u1"}},
	}
	src := Sources(docs)
	if src["evt1_user_a_0"] != "evt1" || src["d1"] != "d1" || len(src) != 2 {
		t.Fatalf("unexpected sources %v", src)
	}
}

func TestOnDate(t *testing.T) {
	list := []models.Shift{
		{ID: "a", Date: "2026-03-06"},
		{ID: "b", Date: "2026-03-07"},
		{ID: "c", Date: "2026-03-06"},
	}
	got := OnDate(list, "2026-03-06")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected shifts %+v", got)
	}
	if got := OnDate(list, "2026-01-01"); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}
