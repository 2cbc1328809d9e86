package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JunoAX/beework-go/internal/availability"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
)

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already in use")

// UserRepository reads and writes worker profiles at users/{uid}
type UserRepository struct {
	store store.Store
}

func NewUserRepository(st store.Store) *UserRepository {
	return &UserRepository{store: st}
}

// Account is a profile plus the stored password hash
type Account struct {
	User         models.User
	PasswordHash string
}

// GetByID retrieves a profile
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.Get(ctx, store.Users, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	u := DecodeUser(*doc)
	return &u, nil
}

// GetAccountByEmail retrieves the account registered under an email
func (r *UserRepository) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	docs, err := r.store.Query(ctx, store.Users, store.Eq("email", NormalizeEmail(email)))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrUserNotFound
	}
	return &Account{
		User:         DecodeUser(docs[0]),
		PasswordHash: store.String(docs[0].Data["passwordHash"]),
	}, nil
}

// GetAccountByID retrieves a profile with its password hash
func (r *UserRepository) GetAccountByID(ctx context.Context, id string) (*Account, error) {
	doc, err := r.store.Get(ctx, store.Users, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &Account{User: DecodeUser(*doc), PasswordHash: store.String(doc.Data["passwordHash"])}, nil
}

// Create registers a new employee profile under a unique email
func (r *UserRepository) Create(ctx context.Context, firstName, lastName, email, passwordHash string) (*models.User, error) {
	email = NormalizeEmail(email)
	taken, err := r.EmailExists(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	id, err := r.store.Create(ctx, store.Users, map[string]any{
		"email":          email,
		"firstName":      firstName,
		"lastName":       lastName,
		"availability":   map[string]any{},
		"profilePicture": "",
		"rating":         0.0,
		"totalHours":     0.0,
		"language":       "en",
		"role":           models.RoleEmployee,
		"passwordHash":   passwordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return r.GetByID(ctx, id)
}

// SetPasswordHash replaces the stored password hash
func (r *UserRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	if err := r.store.Update(ctx, store.Users, id, map[string]any{"passwordHash": hash}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// EmailExists checks if another user already uses the email
func (r *UserRepository) EmailExists(ctx context.Context, email, exceptID string) (bool, error) {
	docs, err := r.store.Query(ctx, store.Users, store.Eq("email", NormalizeEmail(email)))
	if err != nil {
		return false, err
	}
	for _, d := range docs {
		if d.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

// Update writes profile fields and returns the updated profile
func (r *UserRepository) Update(ctx context.Context, id string, fields map[string]any) (*models.User, error) {
	if email, ok := fields["email"].(string); ok {
		taken, err := r.EmailExists(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	if err := r.store.Update(ctx, store.Users, id, fields); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// NormalizeEmail lowercases and trims an email for lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DecodeUser maps a users document to a profile
func DecodeUser(doc store.Document) models.User {
	v := doc.Data
	role := store.String(v["role"])
	if role == "" {
		role = models.RoleEmployee
	}
	lang := store.String(v["language"])
	if lang == "" {
		lang = "en"
	}
	u := models.User{
		ID:             doc.ID,
		FirstName:      store.String(v["firstName"]),
		LastName:       store.String(v["lastName"]),
		Email:          store.String(v["email"]),
		ProfilePicture: store.String(v["profilePicture"]),
		Avatar:         store.String(v["avatar"]),
		Rating:         store.Number(v["rating"]),
		TotalHours:     store.Number(v["totalHours"]),
		Language:       lang,
		Role:           role,
	}
	if raw, ok := v["availability"]; ok {
		u.Availability = availability.Normalize(raw)
	}
	return u
}
