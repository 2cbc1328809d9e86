package postgres

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const listenRetryDelay = 2 * time.Second

// hub fans collection notifications out to watchers. Wake-ups coalesce.
type hub struct {
	mu   sync.Mutex
	subs map[int]subscription
	next int
}

type subscription struct {
	collection string
	ch         chan struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[int]subscription)}
}

func (h *hub) subscribe(collection string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.next++
	key := h.next
	h.subs[key] = subscription{collection: collection, ch: ch}
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		delete(h.subs, key)
		h.mu.Unlock()
	}
}

// notify wakes the watchers of one collection
func (h *hub) notify(collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		if s.collection == collection {
			wake(s.ch)
		}
	}
}

// notifyAll wakes every watcher, after a reconnect may have dropped events
func (h *hub) notifyAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs {
		wake(s.ch)
	}
}

func (h *hub) size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func wake(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// listener holds the single LISTEN connection shared by all watchers
type listener struct {
	pool *pgxpool.Pool
	hub  *hub

	cancel context.CancelFunc
	done   chan struct{}
}

func startListener(pool *pgxpool.Pool, h *hub) *listener {
	ctx, cancel := context.WithCancel(context.Background())
	l := &listener{pool: pool, hub: h, cancel: cancel, done: make(chan struct{})}
	go l.run(ctx)
	return l
}

func (l *listener) run(ctx context.Context) {
	defer close(l.done)
	for {
		err := l.listenOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Printf("⚠️  Document listener dropped: %v; reconnecting", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(listenRetryDelay):
		}
	}
}

func (l *listener) listenOnce(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire listener connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("failed to listen for document changes: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), "UNLISTEN "+notifyChannel)
	}()

	l.hub.notifyAll()

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("document listener failed: %w", err)
		}
		l.hub.notify(n.Payload)
	}
}

func (l *listener) stop() {
	l.cancel()
	<-l.done
}
