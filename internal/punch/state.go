package punch

import (
	"math"
	"time"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/store"
)

// Derive computes the punch state from the record's timestamps.
// A missing record is idle.
func Derive(rec *models.PunchRecord) models.PunchState {
	switch {
	case rec == nil || rec.PunchInAt == nil:
		return models.PunchIdle
	case rec.PunchOutAt == nil:
		return models.PunchedIn
	}
	return models.PunchCompleted
}

// Decode reads a punch record from its stored document. nil stays nil.
func Decode(doc *store.Document) *models.PunchRecord {
	if doc == nil {
		return nil
	}
	rec := &models.PunchRecord{
		DurationMin: int(store.Number(doc.Data["durationMin"])),
		Source:      store.String(doc.Data["source"]),
		UserID:      store.String(doc.Data["userId"]),
	}
	if t, ok := store.AsTime(doc.Data["punchInAt"]); ok {
		rec.PunchInAt = &t
	}
	if t, ok := store.AsTime(doc.Data["punchOutAt"]); ok {
		rec.PunchOutAt = &t
	}
	return rec
}

// Status renders a record for clients
func Status(id string, rec *models.PunchRecord) models.PunchStatus {
	st := models.PunchStatus{State: Derive(rec)}
	if rec == nil {
		return st
	}
	st.PunchID = id
	st.DurationMin = rec.DurationMin
	if rec.PunchInAt != nil {
		s := rec.PunchInAt.UTC().Format(time.RFC3339)
		st.PunchInAt = &s
	}
	if rec.PunchOutAt != nil {
		s := rec.PunchOutAt.UTC().Format(time.RFC3339)
		st.PunchOutAt = &s
	}
	return st
}

// DurationMinutes rounds the worked time to whole minutes, never negative
func DurationMinutes(in, out time.Time) int {
	ms := out.Sub(in).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int(math.Round(float64(ms) / 60000))
}

// HoursForMinutes converts minutes to hours rounded to 2 decimals
func HoursForMinutes(min int) float64 {
	return math.Round(float64(min)/60*100) / 100
}
