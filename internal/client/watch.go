package client

import (
	"context"
	"fmt"

	"mico/internal/cache"
)

// Watch is a typed view of a cache subscription.
type Watch[T any] struct {
	sub *cache.Subscription
}

func newWatch[T any](sub *cache.Subscription) *Watch[T] {
	return &Watch[T]{sub: sub}
}

// Path returns the canonical path of the watched resource.
func (w *Watch[T]) Path() string {
	return w.sub.Path()
}

// Next blocks until the next snapshot or fetch error arrives, the watch is
// closed or ctx is done.
func (w *Watch[T]) Next(ctx context.Context) (T, error) {
	var zero T
	select {
	case v, ok := <-w.sub.Values():
		if !ok {
			return zero, ErrClosed
		}
		typed, ok := v.(T)
		if !ok {
			return zero, fmt.Errorf("stream %s holds %T, not %T", w.sub.Path(), v, zero)
		}
		return typed, nil
	case err, ok := <-w.sub.Errors():
		if !ok {
			return zero, ErrClosed
		}
		return zero, err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Once returns the next snapshot and closes the watch.
func (w *Watch[T]) Once(ctx context.Context) (T, error) {
	defer w.Close()
	return w.Next(ctx)
}

// Close detaches the watch and cancels its fetch if it is still running.
func (w *Watch[T]) Close() {
	w.sub.Close()
}
