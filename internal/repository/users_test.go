package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
	"github.com/JunoAX/beework-go/internal/store/memory"
)

func seeded() *UserRepository {
	st := memory.New()
	st.Seed(store.Users, "u1", map[string]any{
		"firstName": "Lina", "email": "lina@example.com", "passwordHash": "h1", "totalHours": 4,
		"availability": []any{map[string]any{"day": "friday", "available": true}},
	})
	st.Seed(store.Users, "u2", map[string]any{"firstName": "Sami", "email": "sami@example.com"})
	return NewUserRepository(st)
}

func TestGetByIDDefaults(t *testing.T) {
	repo := seeded()
	u, err := repo.GetByID(context.Background(), "u2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Role != models.RoleEmployee || u.Language != "en" || u.Availability != nil {
		t.Fatalf("unexpected defaults: %+v", u)
	}

	u, _ = repo.GetByID(context.Background(), "u1")
	if len(u.Availability) != 7 || !u.Availability[5].Available {
		t.Fatalf("availability not normalized: %+v", u.Availability)
	}

	if _, err := repo.GetByID(context.Background(), "nope"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetAccountByEmail(t *testing.T) {
	repo := seeded()
	acc, err := repo.GetAccountByEmail(context.Background(), "  LINA@example.com ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if acc.User.ID != "u1" || acc.PasswordHash != "h1" {
		t.Fatalf("unexpected account: %+v", acc)
	}
	if _, err := repo.GetAccountByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := seeded()
	ctx := context.Background()

	u, err := repo.Update(ctx, "u1", map[string]any{"language": "ar", "email": "lina@example.com"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Language != "ar" || u.TotalHours != 4 || u.FirstName != "Lina" {
		t.Fatalf("unexpected profile: %+v", u)
	}

	if _, err := repo.Update(ctx, "u1", map[string]any{"email": "sami@example.com"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := repo.Update(ctx, "ghost", map[string]any{"language": "en"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
