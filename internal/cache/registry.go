package cache

import (
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/copystructure"

	"mico/pkg/logging"
)

// Cloner deep-copies a value before it is stored or handed to a subscriber.
type Cloner func(any) (any, error)

// DeepCopy is the default Cloner.
func DeepCopy(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return copystructure.Copy(v)
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxStreams bounds the number of streams. When a new stream would exceed
// n, the least recently used stream without subscribers is evicted. Zero
// means unbounded.
func WithMaxStreams(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxStreams = n
		}
	}
}

// WithCloner replaces DeepCopy.
func WithCloner(c Cloner) Option {
	return func(r *Registry) {
		if c != nil {
			r.cloner = c
		}
	}
}

// WithBaseURL strips the path prefix of baseURL from absolute URLs, so that a
// self link like http://host/api/services/foo maps to the same stream as the
// relative path services/foo.
func WithBaseURL(baseURL string) Option {
	return func(r *Registry) {
		r.basePath = Canonicalize(baseURL)
	}
}

type entry struct {
	stream   *Stream
	lastUsed uint64
}

// Registry maps canonical paths to streams. There is exactly one stream per
// canonical path for the lifetime of the registry.
type Registry struct {
	maxStreams int
	cloner     Cloner
	basePath   string

	mu      sync.Mutex
	streams map[string]*entry
	clock   uint64
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		cloner:  DeepCopy,
		streams: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the canonical key raw is stored under.
func (r *Registry) Key(raw string) string {
	key := Canonicalize(raw)
	if r.basePath == "" || !strings.Contains(raw, "://") {
		return key
	}
	if key == r.basePath {
		return ""
	}
	return strings.TrimPrefix(key, r.basePath+"/")
}

// Stream returns the stream for path, creating it when needed. After Close it
// returns a closed stream that is not registered.
func (r *Registry) Stream(path string) *Stream {
	key := r.Key(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.streamLocked(key)
}

// Subscribe returns the stream for path together with a new subscription to
// it. The subscription is attached before the registry lock is released, so
// a concurrent Stream call cannot evict the stream in between.
func (r *Registry) Subscribe(path string) (*Stream, *Subscription) {
	key := r.Key(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.streamLocked(key)
	return s, s.Subscribe()
}

func (r *Registry) streamLocked(key string) *Stream {
	if r.closed {
		s := newStream(key, r.cloner)
		s.closed = true
		return s
	}

	r.clock++
	if e, ok := r.streams[key]; ok {
		e.lastUsed = r.clock
		return e.stream
	}

	if r.maxStreams > 0 && len(r.streams) >= r.maxStreams {
		r.evictLocked()
	}

	s := newStream(key, r.cloner)
	r.streams[key] = &entry{stream: s, lastUsed: r.clock}
	logging.Debug("Cache", "Created stream %s (%d streams)", key, len(r.streams))
	return s
}

// Lookup returns the stream for path without creating it.
func (r *Registry) Lookup(path string) (*Stream, bool) {
	key := r.Key(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.streams[key]
	if !ok {
		return nil, false
	}
	r.clock++
	e.lastUsed = r.clock
	return e.stream, true
}

// Invalidate drops the cached snapshot of path. The stream and its
// subscribers stay registered and receive the next publish. It reports
// whether a stream existed.
func (r *Registry) Invalidate(path string) bool {
	s, ok := r.Lookup(path)
	if !ok {
		return false
	}
	s.Reset()
	logging.Debug("Cache", "Invalidated %s", s.Path())
	return true
}

// Len returns the number of registered streams.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.streams)
}

// Paths returns the registered keys in lexical order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	paths := make([]string, 0, len(r.streams))
	for key := range r.streams {
		paths = append(paths, key)
	}
	r.mu.Unlock()

	sort.Strings(paths)
	return paths
}

// Close ends the session: every stream and subscription is closed.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	streams := make([]*Stream, 0, len(r.streams))
	for _, e := range r.streams {
		streams = append(streams, e.stream)
	}
	r.streams = make(map[string]*entry)
	r.mu.Unlock()

	for _, s := range streams {
		s.close()
	}
	logging.Debug("Cache", "Registry closed (%d streams)", len(streams))
}

func (r *Registry) evictLocked() {
	var victim string
	var oldest uint64
	found := false
	for key, e := range r.streams {
		if e.stream.Subscribers() > 0 {
			continue
		}
		if !found || e.lastUsed < oldest {
			victim, oldest, found = key, e.lastUsed, true
		}
	}
	if !found {
		logging.Debug("Cache", "Stream limit %d reached but every stream has subscribers", r.maxStreams)
		return
	}
	e := r.streams[victim]
	delete(r.streams, victim)
	e.stream.close()
	logging.Debug("Cache", "Evicted stream %s", victim)
}
