package cache

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription receives the snapshots of one Stream until it is closed.
type Subscription struct {
	id     string
	stream *Stream

	values chan any
	errs   chan error

	mu      sync.Mutex
	closed  bool
	onClose []func()
	once    sync.Once
}

func newSubscription(stream *Stream) *Subscription {
	return &Subscription{
		id:     uuid.NewString(),
		stream: stream,
		values: make(chan any, 1),
		errs:   make(chan error, 1),
	}
}

// ID is unique per subscription.
func (s *Subscription) ID() string {
	return s.id
}

// Path returns the canonical path of the subscribed stream.
func (s *Subscription) Path() string {
	return s.stream.Path()
}

// Values yields snapshots. It is closed when the subscription or its stream
// is closed.
func (s *Subscription) Values() <-chan any {
	return s.values
}

// Errors yields fetch failures reported for this subscription. Errors are not
// cached and not replayed to later subscribers.
func (s *Subscription) Errors() <-chan error {
	return s.errs
}

// Fail reports err to this subscription only. An undelivered earlier error is
// replaced.
func (s *Subscription) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.errs:
	default:
	}
	s.errs <- err
}

// OnClose registers fn to run once when the subscription closes. If it is
// already closed fn runs immediately.
func (s *Subscription) OnClose(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.onClose = append(s.onClose, fn)
	s.mu.Unlock()
}

// Closed reports whether Close has run.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close detaches the subscription from its stream, closes both channels and
// runs the OnClose hooks. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.stream.remove(s.id)

		s.mu.Lock()
		s.closed = true
		close(s.values)
		close(s.errs)
		hooks := s.onClose
		s.onClose = nil
		s.mu.Unlock()

		for _, hook := range hooks {
			hook()
		}
	})
}

// push replaces any undelivered snapshot with v. Only push and Fail send on
// the channels and both hold s.mu, so the send after the drain never blocks.
func (s *Subscription) push(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.values:
	default:
	}
	s.values <- v
}
