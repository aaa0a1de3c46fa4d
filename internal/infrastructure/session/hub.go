package session

import (
	"sync"

	"github.com/jobportal/portal/internal/core/domain"
	"github.com/jobportal/portal/internal/core/ports"
)

const defaultSubscriberBuffer = 16

// hub fans profile-picture updates out to subscribers. A slow subscriber
// loses updates instead of blocking the writer.
type hub struct {
	mu      sync.RWMutex
	subs    map[*subscription]struct{}
	bufSize int
	closed  bool
}

func newHub(bufSize int) *hub {
	return &hub{
		subs:    make(map[*subscription]struct{}),
		bufSize: bufSize,
	}
}

func (h *hub) subscribe() *subscription {
	sub := &subscription{
		ch:  make(chan domain.ProfilePicUpdate, h.bufSize),
		hub: h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		sub.close()
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

func (h *hub) publish(update domain.ProfilePicUpdate) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		sub.send(update)
	}
}

func (h *hub) remove(sub *subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
}

func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for sub := range h.subs {
		sub.close()
		delete(h.subs, sub)
	}
}

type subscription struct {
	ch     chan domain.ProfilePicUpdate
	hub    *hub
	mu     sync.Mutex
	closed bool
}

// Updates returns the delivery channel. It is closed when the subscription
// or the store is closed.
func (s *subscription) Updates() <-chan domain.ProfilePicUpdate {
	return s.ch
}

// Close unsubscribes. Safe to call more than once.
func (s *subscription) Close() error {
	s.hub.remove(s)
	s.close()
	return nil
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *subscription) send(update domain.ProfilePicUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case s.ch <- update:
	default:
	}
}

var _ ports.Subscription = (*subscription)(nil)
