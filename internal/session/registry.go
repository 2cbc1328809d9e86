package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/JunoAX/beework-go/internal/store"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found or logged out")

// Session is one signed-in worker and the live view that follows their
// shifts. It lives from login until logout, a newer login, or expiry.
type Session struct {
	ID        string
	UserID    string
	Role      string
	ExpiresAt time.Time
	View      *LiveView

	cancel context.CancelFunc
	done   chan struct{}
}

// Done is closed once the session has been closed and its view stopped
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Registry owns every open session
type Registry struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates a registry whose sessions expire after ttl, which
// should match the lifetime of the tokens that carry them
func NewRegistry(st store.Store, ttl time.Duration) *Registry {
	return &Registry{
		store:    st,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// WithClock replaces the time source, for tests
func (r *Registry) WithClock(now func() time.Time) *Registry {
	r.now = now
	return r
}

// Open starts a session and its live view. Earlier sessions of the same
// user are closed.
func (r *Registry) Open(userID, role string) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      role,
		ExpiresAt: r.now().Add(r.ttl),
		View:      NewLiveView(r.store, userID),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	r.mu.Lock()
	var replaced []*Session
	for id, old := range r.sessions {
		if old.UserID == userID {
			replaced = append(replaced, old)
			delete(r.sessions, id)
		}
	}
	r.sessions[s.ID] = s
	r.mu.Unlock()

	for _, old := range replaced {
		stop(old, "replaced by a new login")
	}

	go func() {
		defer close(s.done)
		s.View.Run(ctx)
	}()

	log.Printf("🔓 Session opened for %s", userID)
	return s
}

// Get returns an open session. Expired sessions are closed on the way.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !r.now().Before(s.ExpiresAt) {
		r.remove(id, "expired")
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close stops the session's subscriptions and forgets it
func (r *Registry) Close(id string) error {
	if !r.remove(id, "closed") {
		return ErrSessionNotFound
	}
	return nil
}

// Sweep closes every expired session and reports how many it closed
func (r *Registry) Sweep() int {
	now := r.now()
	r.mu.RLock()
	var expired []string
	for id, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			expired = append(expired, id)
		}
	}
	r.mu.RUnlock()

	n := 0
	for _, id := range expired {
		if r.remove(id, "expired") {
			n++
		}
	}
	return n
}

// Reap sweeps expired sessions every interval until ctx ends
func (r *Registry) Reap(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("🧹 Reaped %d expired sessions", n)
			}
		}
	}
}

// CloseAll ends every session, for shutdown
func (r *Registry) CloseAll() {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.remove(id, "closed")
	}
}

// Len reports the number of open sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) remove(id, reason string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return false
	}
	stop(s, reason)
	return true
}

func stop(s *Session, reason string) {
	s.cancel()
	<-s.done
	log.Printf("🔒 Session %s for %s", reason, s.UserID)
}
