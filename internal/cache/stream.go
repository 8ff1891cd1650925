package cache

import (
	"sync"

	"mico/pkg/logging"
)

// Stream is the latest-value multicast stream of one canonical path.
type Stream struct {
	path   string
	cloner Cloner

	mu      sync.Mutex
	value   any
	set     bool
	issued  uint64
	applied uint64
	subs    map[string]*Subscription
	closed  bool
}

func newStream(path string, cloner Cloner) *Stream {
	return &Stream{
		path:   path,
		cloner: cloner,
		subs:   make(map[string]*Subscription),
	}
}

// Path returns the canonical path the stream is keyed by.
func (s *Stream) Path() string {
	return s.path
}

// Ticket reserves the sequence number of a request whose result will be
// handed to Deliver.
func (s *Stream) Ticket() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Deliver publishes v unless a result with a newer ticket was already applied
// or the stream is closed. It reports whether v was published.
func (s *Stream) Deliver(ticket uint64, v any) bool {
	snapshot, err := s.cloner(v)
	if err != nil {
		logging.Error("Cache", err, "Cannot snapshot value for %s", s.path)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	if ticket <= s.applied {
		logging.Debug("Cache", "Dropping stale result for %s (ticket %d, applied %d)", s.path, ticket, s.applied)
		return false
	}
	s.applied = ticket
	s.value = snapshot
	s.set = true

	for _, sub := range s.subs {
		sub.push(s.copyLocked())
	}
	return true
}

// Publish delivers v with a fresh ticket.
func (s *Stream) Publish(v any) bool {
	return s.Deliver(s.Ticket(), v)
}

// Value returns the current snapshot, if any.
func (s *Stream) Value() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, false
	}
	return s.copyLocked(), true
}

// Reset returns the stream to the unset state. Results of requests issued
// before the reset are discarded.
func (s *Stream) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = nil
	s.set = false
	s.applied = s.issued
}

// Subscribe attaches a new subscriber. When the stream holds a snapshot the
// subscriber receives it immediately. Subscribing to a closed stream returns
// a closed subscription.
func (s *Stream) Subscribe() *Subscription {
	sub := newSubscription(s)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Close()
		return sub
	}
	if s.set {
		sub.push(s.copyLocked())
	}
	s.subs[sub.id] = sub
	s.mu.Unlock()

	logging.Debug("Cache", "Subscription %s attached to %s", sub.id, s.path)
	return sub
}

// Subscribers returns the number of open subscriptions.
func (s *Stream) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Closed reports whether the stream has ended.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stream) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subs = make(map[string]*Subscription)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (s *Stream) remove(id string) {
	s.mu.Lock()
	delete(s.subs, id)
	s.mu.Unlock()
}

// copyLocked hands out a private copy of the snapshot so that one consumer
// cannot alter what another one, or a later subscriber, sees.
func (s *Stream) copyLocked() any {
	v, err := s.cloner(s.value)
	if err != nil {
		logging.Warn("Cache", "Cannot copy snapshot of %s, sharing it: %v", s.path, err)
		return s.value
	}
	return v
}
