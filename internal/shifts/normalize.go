package shifts

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
)

// ErrUnrecognizedDocument marks a document that is neither an event nor a
// direct shift. Such documents are expected in the shared collection.
var ErrUnrecognizedDocument = errors.New("unrecognized shift document")

const locationPending = "Location pending"

// Variant is the upstream shape of a shift document
type Variant int

const (
	VariantUnrecognized Variant = iota
	VariantEvent                // one event, many assigned workers
	VariantDirect               // already scoped to one worker
)

func (v Variant) String() string {
	switch v {
	case VariantEvent:
		return "event"
	case VariantDirect:
		return "direct"
	}
	return "unrecognized"
}

// Classify picks the document's variant from the fields it exposes
func Classify(doc store.Document) Variant {
	if doc.Has("eventName") || doc.Has("companyName") {
		return VariantEvent
	}
	if doc.Has("userId") {
		return VariantDirect
	}
	return VariantUnrecognized
}

// Normalize maps one raw document to zero or more canonical shifts
func Normalize(doc store.Document) ([]models.Shift, error) {
	switch Classify(doc) {
	case VariantEvent:
		return fromEvent(doc), nil
	case VariantDirect:
		return []models.Shift{fromDirect(doc)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnrecognizedDocument, doc.ID)
}

// NormalizeSnapshot normalizes a whole snapshot, dropping unrecognized
// documents, newest start time first.
func NormalizeSnapshot(docs []store.Document) []models.Shift {
	out := []models.Shift{}
	for _, doc := range docs {
		rows, err := Normalize(doc)
		if err != nil {
			continue
		}
		out = append(out, rows...)
	}
	SortByStartDesc(out)
	return out
}

// SortByStartDesc orders shifts by start time, newest first. Shifts without a
// start time sort last; ties keep id order so repeated runs agree.
func SortByStartDesc(list []models.Shift) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := startMillis(list[i]), startMillis(list[j])
		if a != b {
			return a > b
		}
		return list[i].ID < list[j].ID
	})
}

func startMillis(s models.Shift) int64 {
	t, ok := store.AsTime(s.StartTime)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

func fromEvent(doc store.Document) []models.Shift {
	v := doc.Data
	start, hasStart := store.AsTime(v["startTS"])
	end, hasEnd := store.AsTime(v["endTS"])
	lat, lon, hasCoords := store.AsGeoPoint(v["location"])

	name, _ := store.FirstString(v, "companyName", "eventName")
	title := name
	if job, ok := store.FirstString(v, "jobTitle"); ok {
		title = fmt.Sprintf("%s - %s", name, job)
	}

	location, ok := store.FirstString(v, "locationName")
	if !ok {
		location = locationPending
		if hasCoords && !(lat == 0 && lon == 0) {
			location = formatLatLon(lat, lon)
		}
	}

	date := ""
	if hasStart {
		date = start.Local().Format("2006-01-02")
	}

	assigned := assignedWorkers(v["assigned"])
	out := make([]models.Shift, 0, len(assigned))
	for i, uid := range assigned {
		out = append(out, models.Shift{
			ID:         fmt.Sprintf("%s_%s_%d", doc.ID, uid, i),
			UserID:     uid,
			Title:      title,
			Location:   location,
			Date:       date,
			StartTime:  isoOrEmpty(start, hasStart),
			EndTime:    isoOrEmpty(end, hasEnd),
			HourlyWage: nonNegative(store.Number(v["rateJOD"])),
			Latitude:   lat,
			Longitude:  lon,
			Status:     NormalizeStatus(v["status"]),
		})
	}
	return out
}

func fromDirect(doc store.Document) models.Shift {
	v := doc.Data
	location, ok := store.FirstString(v, "location")
	if !ok {
		location = locationPending
	}
	return models.Shift{
		ID:         doc.ID,
		UserID:     store.String(v["userId"]),
		Title:      store.String(v["title"]),
		Location:   location,
		Date:       directDate(v["date"]),
		StartTime:  isoValue(v["startTime"]),
		EndTime:    isoValue(v["endTime"]),
		HourlyWage: nonNegative(store.Number(v["hourlyWage"])),
		Latitude:   store.Number(v["latitude"]),
		Longitude:  store.Number(v["longitude"]),
		Status:     NormalizeStatus(v["status"]),
	}
}

// NormalizeStatus folds both upstream vocabularies into the canonical triple
func NormalizeStatus(v any) string {
	s, _ := v.(string)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upcoming", "scheduled":
		return models.ShiftScheduled
	case "live", "in-progress", "in_progress":
		return models.ShiftInProgress
	case "done", "completed":
		return models.ShiftCompleted
	}
	return models.ShiftScheduled
}

func assignedWorkers(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// isoValue keeps string times as written and formats timestamps as ISO-8601
func isoValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	t, ok := store.AsTime(v)
	return isoOrEmpty(t, ok)
}

func isoOrEmpty(t time.Time, ok bool) string {
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

func directDate(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if t, ok := store.AsTime(v); ok {
		return t.Local().Format("2006-01-02")
	}
	return ""
}

func formatLatLon(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', 5, 64) + ", " + strconv.FormatFloat(lon, 'f', 5, 64)
}

func nonNegative(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// CandidateDocIDs lists the documents a shift id may come from: the id
// itself for direct shifts, then every prefix of a synthetic
// "{docId}_{workerId}_{index}" id, shortest first. Ids on either side of
// the separator may contain underscores, so callers confirm a candidate by
// normalizing it.
func CandidateDocIDs(id string) []string {
	out := []string{id}
	parts := strings.Split(id, "_")
	if len(parts) < 3 {
		return out
	}
	if _, err := strconv.Atoi(parts[len(parts)-1]); err != nil {
		return out
	}
	for n := 1; n <= len(parts)-2; n++ {
		out = append(out, strings.Join(parts[:n], "_"))
	}
	return out
}

// Sources maps every normalized shift id to the id of its document
func Sources(docs []store.Document) map[string]string {
	out := make(map[string]string, len(docs))
	for _, doc := range docs {
		rows, err := Normalize(doc)
		if err != nil {
			continue
		}
		for _, r := range rows {
			out[r.ID] = doc.ID
		}
	}
	return out
}
