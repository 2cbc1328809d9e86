package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
)

const (
	DefaultStart = "09:00"
	DefaultEnd   = "17:00"
)

// Days is the canonical weekday order
var Days = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// Normalize reconciles user-supplied availability into exactly seven
// entries, Sunday first. It accepts a list of entries, a map keyed by day
// name, or JSON for either. Entries for unknown days are discarded; a later
// entry for the same day replaces an earlier one.
func Normalize(raw any) []models.Availability {
	byDay := make(map[string]models.Availability, len(Days))
	add := func(item map[string]any, day any) {
		if a, ok := entry(item, day); ok {
			byDay[a.Day] = a
		}
	}

	switch v := raw.(type) {
	case []byte:
		var decoded any
		if err := json.Unmarshal(v, &decoded); err == nil {
			return Normalize(decoded)
		}
	case json.RawMessage:
		return Normalize([]byte(v))
	case []models.Availability:
		for _, a := range v {
			add(fromModel(a), a.Day)
		}
	case []any:
		for _, item := range v {
			switch e := item.(type) {
			case map[string]any:
				add(e, e["day"])
			case models.Availability:
				add(fromModel(e), e.Day)
			}
		}
	case []map[string]any:
		for _, e := range v {
			add(e, e["day"])
		}
	case map[string]any:
		for day, item := range v {
			if e, ok := item.(map[string]any); ok {
				add(e, day)
			}
		}
	}

	out := make([]models.Availability, 0, len(Days))
	for _, day := range Days {
		a, ok := byDay[day]
		if !ok {
			a = models.Availability{Day: day, StartTime: DefaultStart, EndTime: DefaultEnd}
		}
		out = append(out, a)
	}
	return out
}

func entry(item map[string]any, day any) (models.Availability, bool) {
	name, ok := day.(string)
	if !ok {
		return models.Availability{}, false
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if !isDay(name) {
		return models.Availability{}, false
	}
	return models.Availability{
		Day:       name,
		Available: truthy(item["available"]),
		StartTime: timeOr(item["startTime"], DefaultStart),
		EndTime:   timeOr(item["endTime"], DefaultEnd),
	}, true
}

func fromModel(a models.Availability) map[string]any {
	return map[string]any{"available": a.Available, "startTime": a.StartTime, "endTime": a.EndTime}
}

// truthy reads the flags older clients stored as strings or numbers.
// "false" and "0" stay false; any other non-empty string is true.
func truthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		s := strings.TrimSpace(b)
		if parsed, err := strconv.ParseBool(s); err == nil {
			return parsed
		}
		return s != ""
	}
	if n, ok := store.AsNumber(v); ok {
		return n != 0
	}
	return true
}

func timeOr(v any, fallback string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func isDay(name string) bool {
	for _, d := range Days {
		if d == name {
			return true
		}
	}
	return false
}

// Service reads and writes users/{uid}.availability
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Get returns the stored availability, normalized. A missing profile reads
// as all days unavailable.
func (s *Service) Get(ctx context.Context, userID string) ([]models.Availability, error) {
	doc, err := s.store.Get(ctx, store.Users, userID)
	if errors.Is(err, store.ErrNotFound) {
		return Normalize(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	return Normalize(doc.Data["availability"]), nil
}

// Save normalizes raw and merges it into the user's profile
func (s *Service) Save(ctx context.Context, userID string, raw any) ([]models.Availability, error) {
	list := Normalize(raw)
	stored := make([]any, 0, len(list))
	for _, a := range list {
		stored = append(stored, map[string]any{
			"day":       a.Day,
			"available": a.Available,
			"startTime": a.StartTime,
			"endTime":   a.EndTime,
		})
	}
	if err := s.store.Merge(ctx, store.Users, userID, map[string]any{"availability": stored}); err != nil {
		return nil, fmt.Errorf("failed to save availability: %w", err)
	}
	return list, nil
}
