package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/JunoAX/beework-go/internal/models"
	"github.com/JunoAX/beework-go/internal/punch"
	"github.com/JunoAX/beework-go/internal/shifts"
	"github.com/JunoAX/beework-go/internal/store"
)

// Snapshot is what a worker currently sees. Shift statuses already reflect
// the worker's punch records.
type Snapshot struct {
	Shifts    []models.Shift                `json:"shifts"`
	Punches   map[string]models.PunchStatus `json:"punches"` // by shift id
	Pending   map[string]string             `json:"pending"` // shift id -> punch_in / punch_out
	Ready     bool                          `json:"ready"`
	UpdatedAt time.Time                     `json:"updated_at"`
}

// LiveView keeps one worker's normalized shifts and punch records in step
// with the store. Every snapshot is normalized from scratch.
type LiveView struct {
	store  store.Store
	userID string

	mu        sync.RWMutex
	shifts    []models.Shift
	records   map[string]*models.PunchRecord
	pending   map[string]string
	ready     bool
	updatedAt time.Time
	subs      map[int]chan struct{}
	nextSub   int
	readyCh   chan struct{}
}

// NewLiveView creates a view; call Run to start following the store
func NewLiveView(st store.Store, userID string) *LiveView {
	return &LiveView{
		store:   st,
		userID:  userID,
		shifts:  []models.Shift{},
		records: make(map[string]*models.PunchRecord),
		pending: make(map[string]string),
		subs:    make(map[int]chan struct{}),
		readyCh: make(chan struct{}),
	}
}

// punchWatch follows shifts/{doc}/punches/{uid} for one visible shift
type punchWatch struct {
	docID  string
	cancel context.CancelFunc
}

// Run follows the shifts collection, and the worker's punch record under
// every visible shift, until ctx ends
func (v *LiveView) Run(ctx context.Context) {
	var wg sync.WaitGroup
	watches := make(map[string]punchWatch)

	err := v.store.Watch(ctx, store.Shifts, func(docs []store.Document) {
		list := shifts.ForWorker(shifts.NormalizeSnapshot(docs), v.userID)
		sources := shifts.Sources(docs)

		visible := make(map[string]bool, len(list))
		for _, s := range list {
			visible[s.ID] = true
			docID := sources[s.ID]
			if w, ok := watches[s.ID]; ok && w.docID == docID {
				continue
			}
			if w, ok := watches[s.ID]; ok {
				w.cancel()
			}
			watchCtx, cancel := context.WithCancel(ctx)
			watches[s.ID] = punchWatch{docID: docID, cancel: cancel}
			wg.Add(1)
			go func(shiftID, docID string) {
				defer wg.Done()
				v.followPunch(watchCtx, shiftID, docID)
			}(s.ID, docID)
		}
		for id, w := range watches {
			if !visible[id] {
				w.cancel()
				delete(watches, id)
			}
		}

		v.apply(list, visible)
	})
	if err != nil && ctx.Err() == nil {
		log.Printf("⚠️  Live view for %s stopped: %v", v.userID, err)
	}

	for _, w := range watches {
		w.cancel()
	}
	wg.Wait()
}

func (v *LiveView) followPunch(ctx context.Context, shiftID, docID string) {
	err := v.store.WatchDoc(ctx, store.Punches(docID), v.userID, func(doc *store.Document) {
		v.setRecord(ctx, shiftID, punch.Decode(doc))
	})
	if err != nil && ctx.Err() == nil {
		log.Printf("⚠️  Punch watch for %s on %s stopped: %v", v.userID, shiftID, err)
	}
}

func (v *LiveView) setRecord(ctx context.Context, shiftID string, rec *models.PunchRecord) {
	v.mu.Lock()
	if ctx.Err() != nil {
		v.mu.Unlock()
		return
	}
	if rec == nil {
		delete(v.records, shiftID)
	} else {
		v.records[shiftID] = rec
	}
	v.updatedAt = time.Now()
	v.mu.Unlock()
	v.broadcast()
}

func (v *LiveView) apply(list []models.Shift, visible map[string]bool) {
	v.mu.Lock()
	v.shifts = list
	for id := range v.records {
		if !visible[id] {
			delete(v.records, id)
		}
	}
	v.updatedAt = time.Now()
	if !v.ready {
		v.ready = true
		close(v.readyCh)
	}
	v.mu.Unlock()
	v.broadcast()
}

// Ready is closed once the first snapshot has arrived
func (v *LiveView) Ready() <-chan struct{} {
	return v.readyCh
}

// Snapshot returns a copy of the current state with punch-derived statuses
func (v *LiveView) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()

	list := make([]models.Shift, len(v.shifts))
	punches := make(map[string]models.PunchStatus, len(v.shifts))
	for i, s := range v.shifts {
		rec := v.records[s.ID]
		status := punch.Status(v.userID, rec)
		status.Pending = v.pending[s.ID]
		s.Status = shifts.EffectiveStatus(s, status.State)
		list[i] = s
		punches[s.ID] = status
	}
	pending := make(map[string]string, len(v.pending))
	for k, a := range v.pending {
		pending[k] = a
	}
	return Snapshot{Shifts: list, Punches: punches, Pending: pending, Ready: v.ready, UpdatedAt: v.updatedAt}
}

// MarkPending shows an unconfirmed punch on a shift
func (v *LiveView) MarkPending(shiftID, action string) {
	v.mu.Lock()
	v.pending[shiftID] = action
	v.mu.Unlock()
	v.broadcast()
}

// ClearPending drops the optimistic state once the write settles
func (v *LiveView) ClearPending(shiftID string) {
	v.mu.Lock()
	delete(v.pending, shiftID)
	v.mu.Unlock()
	v.broadcast()
}

// Pending returns the in-flight action for a shift, if any
func (v *LiveView) Pending(shiftID string) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pending[shiftID]
}

// Subscribe returns a channel that is signalled after every change.
// Signals coalesce; readers should take a fresh Snapshot.
func (v *LiveView) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	v.mu.Lock()
	v.nextSub++
	key := v.nextSub
	v.subs[key] = ch
	v.mu.Unlock()

	return ch, func() {
		v.mu.Lock()
		delete(v.subs, key)
		v.mu.Unlock()
	}
}

func (v *LiveView) broadcast() {
	v.mu.RLock()
	defer v.mu.RUnlock()
	for _, ch := range v.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
