package punch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/JunoAX/beework-go/internal/geofence"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/shifts"
	"github.com/JunoAX/beework-go/internal/store"
)

// Pending actions shown while a write is unconfirmed
const (
	ActionPunchIn  = "punch_in"
	ActionPunchOut = "punch_out"
)

// Overlay receives optimistic state for a shift while a punch is in flight
type Overlay interface {
	MarkPending(shiftID, action string)
	ClearPending(shiftID string)
}

// Request identifies a punch attempt
type Request struct {
	ShiftID  string
	WorkerID string
	Locator  geofence.Locator
	Overlay  Overlay // optional
}

// Result is a confirmed punch
type Result struct {
	Shift      models.Shift
	Record     *models.PunchRecord
	PunchID    string
	Verdict    geofence.Verdict
	HoursAdded float64
}

// Service runs the punch state machine against the document store
type Service struct {
	store store.Store
	guard *geofence.Guard
	now   func() time.Time
}

// NewService creates a punch service using the wall clock
func NewService(st store.Store, guard *geofence.Guard) *Service {
	return &Service{store: st, guard: guard, now: time.Now}
}

// WithClock replaces the clock, for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Lookup loads a shift and the worker's punch record for it
func (s *Service) Lookup(ctx context.Context, shiftID, workerID string) (models.Shift, *models.PunchRecord, error) {
	shift, docID, err := s.load(ctx, shiftID, workerID)
	if err != nil {
		return models.Shift{}, nil, err
	}
	rec, err := s.record(ctx, docID, workerID)
	return shift, rec, err
}

// PunchIn records the start of work. Allowed only from idle, inside the
// scheduled window and within the geofence.
func (s *Service) PunchIn(ctx context.Context, req Request) (*Result, error) {
	shift, docID, err := s.load(ctx, req.ShiftID, req.WorkerID)
	if err != nil {
		return nil, err
	}
	rec, err := s.record(ctx, docID, req.WorkerID)
	if err != nil {
		return nil, err
	}

	switch Derive(rec) {
	case models.PunchedIn:
		return nil, ErrAlreadyPunchedIn
	case models.PunchCompleted:
		return nil, ErrAlreadyPunchedOut
	}

	now := s.now()
	if err := checkWindow(shift, now); err != nil {
		return nil, err
	}

	verdict, err := s.guard.Check(ctx, site(shift), req.Locator)
	if err != nil {
		return nil, err
	}

	markPending(req, ActionPunchIn)
	defer clearPending(req)

	err = s.store.Merge(ctx, store.Punches(docID), req.WorkerID, map[string]any{
		"punchInAt": now,
		"source":    "app",
		"userId":    req.WorkerID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record punch-in: %w", err)
	}

	log.Printf("✅ Punch-in: worker %s shift %s", req.WorkerID, shift.ID)
	return &Result{
		Shift:   shift,
		Record:  &models.PunchRecord{PunchInAt: &now, Source: "app", UserID: req.WorkerID},
		PunchID: req.WorkerID,
		Verdict: verdict,
	}, nil
}

// PunchOut closes an open punch and credits the worked hours to the
// worker's profile. Punching out after the scheduled end is allowed.
func (s *Service) PunchOut(ctx context.Context, req Request) (*Result, error) {
	shift, docID, err := s.load(ctx, req.ShiftID, req.WorkerID)
	if err != nil {
		return nil, err
	}
	rec, err := s.record(ctx, docID, req.WorkerID)
	if err != nil {
		return nil, err
	}

	switch Derive(rec) {
	case models.PunchIdle:
		return nil, ErrNoPunchInFound
	case models.PunchCompleted:
		return nil, ErrAlreadyPunchedOut
	}

	verdict, err := s.guard.Check(ctx, site(shift), req.Locator)
	if err != nil {
		return nil, err
	}

	now := s.now()
	minutes := DurationMinutes(*rec.PunchInAt, now)

	markPending(req, ActionPunchOut)
	defer clearPending(req)

	err = s.store.Update(ctx, store.Punches(docID), req.WorkerID, map[string]any{
		"punchOutAt":  now,
		"durationMin": minutes,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record punch-out: %w", err)
	}

	rec.PunchOutAt = &now
	rec.DurationMin = minutes
	result := &Result{Shift: shift, Record: rec, PunchID: req.WorkerID, Verdict: verdict}

	hours := HoursForMinutes(minutes)
	if err := s.store.Increment(ctx, store.Users, req.WorkerID, "totalHours", hours); err != nil {
		log.Printf("⚠️  Failed to add %.2fh to worker %s: %v", hours, req.WorkerID, err)
	} else {
		result.HoursAdded = hours
	}

	log.Printf("✅ Punch-out: worker %s shift %s (%d min)", req.WorkerID, shift.ID, minutes)
	return result, nil
}

func (s *Service) load(ctx context.Context, shiftID, workerID string) (models.Shift, string, error) {
	shift, docID, err := shifts.Load(ctx, s.store, shiftID)
	if errors.Is(err, shifts.ErrNotFound) {
		return models.Shift{}, "", ErrShiftNotFound
	}
	if err != nil {
		return models.Shift{}, "", err
	}
	if shift.UserID != workerID {
		return models.Shift{}, "", ErrNotAssigned
	}
	return shift, docID, nil
}

func (s *Service) record(ctx context.Context, docID, workerID string) (*models.PunchRecord, error) {
	doc, err := s.store.Get(ctx, store.Punches(docID), workerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load punch record: %w", err)
	}
	return Decode(doc), nil
}

// checkWindow enforces start <= now <= end
func checkWindow(shift models.Shift, now time.Time) error {
	start, end, ok := shifts.Window(shift)
	if !ok {
		return ErrScheduleUnset
	}
	if now.Before(start) {
		return ErrBeforeShiftStart
	}
	if now.After(end) {
		return ErrAfterShiftEnd
	}
	return nil
}

func site(shift models.Shift) geofence.Point {
	return geofence.Point{Lat: shift.Latitude, Lon: shift.Longitude}
}

func markPending(req Request, action string) {
	if req.Overlay != nil {
		req.Overlay.MarkPending(req.ShiftID, action)
	}
}

func clearPending(req Request) {
	if req.Overlay != nil {
		req.Overlay.ClearPending(req.ShiftID)
	}
}
