package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JunoAX/beework-go/internal/geofence"
	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/punch"
	"github.com/JunoAX/beework-go/internal/store"
	"github.com/JunoAX/beework-go/internal/store/memory"
)

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for live view")
	}
}

func TestLiveViewFollowsStore(t *testing.T) {
	st := memory.New()
	st.Seed(store.Shifts, "d1", map[string]any{"userId": "u1", "title": "Barista", "startTime": "2026-03-06T08:00:00Z"})
	st.Seed(store.Shifts, "d2", map[string]any{"userId": "u2", "title": "Cashier"})

	reg := NewRegistry(st, time.Hour)
	s := reg.Open("u1", "employee")
	defer reg.Close(s.ID)

	waitFor(t, s.View.Ready())
	snap := s.View.Snapshot()
	if len(snap.Shifts) != 1 || snap.Shifts[0].ID != "d1" || !snap.Ready {
		t.Fatalf("unexpected first snapshot: %+v", snap)
	}

	changed, cancel := s.View.Subscribe()
	defer cancel()

	st.Seed(store.Shifts, "evt", map[string]any{"companyName": "Acme", "assigned": []any{"u1"}, "startTS": "2026-03-07T08:00:00Z"})
	deadline := time.After(2 * time.Second)
	for len(s.View.Snapshot().Shifts) != 2 {
		select {
		case <-changed:
		case <-deadline:
			t.Fatalf("live view never picked up the new event: %+v", s.View.Snapshot())
		}
	}
	if got := s.View.Snapshot().Shifts[0].ID; got != "evt_u1_0" {
		t.Fatalf("expected newest shift first, got %s", got)
	}
}

func TestLiveViewPendingOverlay(t *testing.T) {
	v := NewLiveView(memory.New(), "u1")
	changed, cancel := v.Subscribe()
	defer cancel()

	v.MarkPending("d1", "punch_in")
	waitFor(t, changed)
	if v.Pending("d1") != "punch_in" || v.Snapshot().Pending["d1"] != "punch_in" {
		t.Fatalf("expected pending punch_in, got %v", v.Snapshot().Pending)
	}

	v.ClearPending("d1")
	if v.Pending("d1") != "" {
		t.Fatalf("expected pending cleared")
	}
}

func TestRegistryClose(t *testing.T) {
	reg := NewRegistry(memory.New(), time.Hour)
	s := reg.Open("u1", "employee")
	if _, err := reg.Get(s.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := reg.Close(s.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := reg.Get(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected closed session to be gone, got %v", err)
	}
	if err := reg.Close(s.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected second close to fail, got %v", err)
	}

	reg.Open("u2", "employee")
	reg.Open("u3", "employee")
	reg.CloseAll()
	if reg.Len() != 0 {
		t.Fatalf("expected no sessions after CloseAll, got %d", reg.Len())
	}
}

func TestRegistryReapsExpiredSessions(t *testing.T) {
	clock := time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC)
	reg := NewRegistry(memory.New(), time.Hour).WithClock(func() time.Time { return clock })
	defer reg.CloseAll()

	old := reg.Open("u1", "employee")
	clock = clock.Add(30 * time.Minute)
	fresh := reg.Open("u2", "employee")

	if n := reg.Sweep(); n != 0 {
		t.Fatalf("nothing should expire yet, swept %d", n)
	}

	clock = clock.Add(45 * time.Minute)
	if n := reg.Sweep(); n != 1 {
		t.Fatalf("expected one expired session, swept %d", n)
	}
	waitFor(t, old.Done())
	if _, err := reg.Get(old.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired session still resolvable: %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("expected one open session, got %d", reg.Len())
	}

	clock = clock.Add(time.Hour)
	if _, err := reg.Get(fresh.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected Get to refuse an expired session, got %v", err)
	}
	waitFor(t, fresh.Done())
	if reg.Len() != 0 {
		t.Fatalf("expected Get to close the expired session, %d left", reg.Len())
	}
}

func TestRegistryReapRunsUntilCancelled(t *testing.T) {
	clock := time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC)
	reg := NewRegistry(memory.New(), time.Minute).WithClock(func() time.Time { return clock })
	s := reg.Open("u1", "employee")
	clock = clock.Add(2 * time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		reg.Reap(ctx, 10*time.Millisecond)
		close(stopped)
	}()

	waitFor(t, s.Done())
	cancel()
	waitFor(t, stopped)
	if reg.Len() != 0 {
		t.Fatalf("expected reaper to close the session, %d left", reg.Len())
	}
}

func TestNewLoginReplacesEarlierSession(t *testing.T) {
	reg := NewRegistry(memory.New(), time.Hour)
	defer reg.CloseAll()

	first := reg.Open("u1", "employee")
	other := reg.Open("u2", "employee")
	second := reg.Open("u1", "employee")

	waitFor(t, first.Done())
	if _, err := reg.Get(first.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("earlier session should be closed, got %v", err)
	}
	if _, err := reg.Get(second.ID); err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := reg.Get(other.ID); err != nil {
		t.Fatalf("other user's session: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", reg.Len())
	}
}

func TestLiveViewReflectsPunches(t *testing.T) {
	const lat, lon = 31.9539, 35.9106
	from := time.Date(2026, 3, 6, 8, 0, 0, 0, time.UTC)

	st := memory.New()
	st.Seed(store.Shifts, "d1", map[string]any{
		"userId":    "u1",
		"title":     "Barista",
		"date":      "2026-03-06",
		"startTime": from.Format(time.RFC3339),
		"endTime":   from.Add(4 * time.Hour).Format(time.RFC3339),
		"latitude":  lat,
		"longitude": lon,
		"status":    "scheduled",
	})
	st.Seed(store.Shifts, "evt1", map[string]any{
		"companyName": "Acme",
		"startTS":     from,
		"endTS":       from.Add(4 * time.Hour),
		"assigned":    []any{"user_a"},
	})
	st.Seed(store.Users, "u1", map[string]any{"totalHours": 0.0})

	reg := NewRegistry(st, time.Hour)
	s := reg.Open("u1", "employee")
	defer reg.Close(s.ID)
	waitFor(t, s.View.Ready())

	changed, cancel := s.View.Subscribe()
	defer cancel()

	awaitState := func(want models.PunchState, status string) {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			snap := s.View.Snapshot()
			if len(snap.Shifts) == 1 && snap.Punches["d1"].State == want && snap.Shifts[0].Status == status {
				return
			}
			select {
			case <-changed:
			case <-deadline:
				t.Fatalf("live view never reached %s/%s: %+v", want, status, snap)
			}
		}
	}
	awaitState(models.PunchIdle, models.ShiftScheduled)

	clock := from.Add(30 * time.Minute)
	svc := punch.NewService(st, geofence.NewGuard(500, geofence.PolicySkipWithWarning)).
		WithClock(func() time.Time { return clock })
	here := geofence.LocatorFunc(func(ctx context.Context) (geofence.Point, error) {
		return geofence.Point{Lat: lat, Lon: lon}, nil
	})
	req := punch.Request{ShiftID: "d1", WorkerID: "u1", Locator: here, Overlay: s.View}

	if _, err := svc.PunchIn(context.Background(), req); err != nil {
		t.Fatalf("punch in: %v", err)
	}
	awaitState(models.PunchedIn, models.ShiftInProgress)

	clock = clock.Add(time.Hour)
	if _, err := svc.PunchOut(context.Background(), req); err != nil {
		t.Fatalf("punch out: %v", err)
	}
	awaitState(models.PunchCompleted, models.ShiftCompleted)
	if s.View.Snapshot().Punches["d1"].DurationMin != 60 {
		t.Fatalf("expected 60 minutes, got %+v", s.View.Snapshot().Punches["d1"])
	}
}
