package client

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"mico/internal/api"
	"mico/internal/cache"
	"mico/internal/transport"
	"mico/pkg/logging"
)

// Transport is the HTTP adapter the client talks through. *transport.Client
// implements it.
type Transport interface {
	Get(ctx context.Context, ref api.Ref, out any, opts ...transport.RequestOption) error
	Post(ctx context.Context, ref api.Ref, body any, out any, opts ...transport.RequestOption) (transport.Result, error)
	Put(ctx context.Context, ref api.Ref, body any, out any, opts ...transport.RequestOption) error
	Delete(ctx context.Context, ref api.Ref, out any, opts ...transport.RequestOption) (transport.Result, error)
}

type fetchFunc func(ctx context.Context) (any, error)

// Client is the MICO API service.
type Client struct {
	transport Transport
	registry  *cache.Registry

	mu       sync.Mutex
	fetchers map[string]fetchFunc

	wg sync.WaitGroup
}

// New creates a client that caches into registry. The registry stays owned
// by the caller.
func New(t Transport, registry *cache.Registry) *Client {
	return &Client{
		transport: t,
		registry:  registry,
		fetchers:  make(map[string]fetchFunc),
	}
}

// Registry returns the registry the client publishes into.
func (c *Client) Registry() *cache.Registry {
	return c.registry
}

// Wait blocks until every background fetch has finished.
func (c *Client) Wait() {
	c.wg.Wait()
}

// Refresh re-fetches the given paths concurrently and publishes the results.
// Without paths every stream a read operation has started is refreshed. Paths
// no read operation has fetched yet are skipped.
func (c *Client) Refresh(ctx context.Context, paths ...string) error {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		keys = append(keys, c.registry.Key(p))
	}
	if len(keys) == 0 {
		keys = c.registry.Paths()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		fetch, ok := c.fetcher(key)
		if !ok {
			logging.Debug("Client", "No fetcher known for %s, skipping refresh", key)
			continue
		}
		stream := c.registry.Stream(key)
		g.Go(func() error {
			ticket := stream.Ticket()
			v, err := fetch(gctx)
			if err != nil {
				return fmt.Errorf("refresh %s: %w", key, err)
			}
			stream.Deliver(ticket, v)
			return nil
		})
	}
	return g.Wait()
}

func (c *Client) remember(key string, fetch fetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchers[key] = fetch
}

func (c *Client) fetcher(key string) (fetchFunc, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.fetchers[key]
	return f, ok
}

// watch subscribes to the stream of path and fetches it in the background.
// Closing the watch cancels the fetch; a cancelled fetch publishes nothing.
// A failed fetch is reported to this watch only.
func watch[T any](ctx context.Context, c *Client, path string, fetch fetchFunc) *Watch[T] {
	stream, sub := c.registry.Subscribe(path)
	c.remember(stream.Path(), fetch)

	if sub.Closed() {
		return newWatch[T](sub)
	}

	fetchCtx, cancel := context.WithCancel(ctx)
	sub.OnClose(cancel)
	ticket := stream.Ticket()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		v, err := fetch(fetchCtx)
		if fetchCtx.Err() != nil {
			logging.Debug("Client", "Fetch of %s cancelled", stream.Path())
			return
		}
		if err != nil {
			logging.Warn("Client", "Fetch of %s failed: %v", stream.Path(), err)
			sub.Fail(err)
			return
		}
		stream.Deliver(ticket, v)
	}()

	return newWatch[T](sub)
}

// refresh re-fetches path in the background without a subscriber of its own.
func (c *Client) refresh(ctx context.Context, path string, fetch fetchFunc) {
	stream := c.registry.Stream(path)
	c.remember(stream.Path(), fetch)
	ticket := stream.Ticket()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		v, err := fetch(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logging.Warn("Client", "Refresh of %s failed: %v", stream.Path(), err)
			}
			return
		}
		stream.Deliver(ticket, v)
	}()
}

// publish pushes a written resource into the stream named by its self link,
// or by fallback when the backend returned no self link, and subscribes to it.
func publish[T any](c *Client, v T, links api.Links, fallback string) *Watch[T] {
	key := fallback
	if self, ok := links.Self(); ok {
		key = self.Href
	}
	stream := c.registry.Stream(key)
	stream.Publish(v)
	return newWatch[T](stream.Subscribe())
}
