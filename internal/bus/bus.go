// Package bus fans out window manager events to listeners off the loop goroutine.
package bus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

var (
	_ctx   = context.Background()
	subsMu sync.RWMutex
	subs   = make(map[string][]func(ctx context.Context, event any))
)

func SetContext(ctx context.Context) {
	_ctx = ctx
}

func topic(v any) string {
	return fmt.Sprintf("%T", v)
}

func Subscribe[T any](name string, fn func(ctx context.Context, event T) error) {
	subsMu.Lock()
	defer subsMu.Unlock()

	t := topic(*new(T))
	subs[t] = append(subs[t], func(ctx context.Context, event any) {
		if err := fn(ctx, event.(T)); err != nil {
			slog.Error("Failed to handle event", "package", "bus", "name", name, "error", err)
		}
	})
}

// Publish calls every subscriber of T synchronously. Subscribers must not block.
func Publish[T any](event T) {
	subsMu.RLock()
	fns := subs[topic(event)]
	subsMu.RUnlock()

	for _, fn := range fns {
		fn(_ctx, event)
	}
}

func NewHub[T any](buffer int) *Hub[T] {
	return &Hub[T]{
		buffer: buffer,
		subs:   make(map[chan T]struct{}),
	}
}

// Hub hands events to channel subscribers. A subscriber that falls behind loses events
// instead of stalling the publisher.
type Hub[T any] struct {
	buffer int
	mu     sync.Mutex
	subs   map[chan T]struct{}
}

func (h *Hub[T]) Broadcast(ctx context.Context, event T) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		select {
		case sub <- event:
		default:
			slog.Warn("Dropped event for slow subscriber", "package", "bus", "event", topic(event))
		}
	}

	return nil
}

func (h *Hub[T]) Register() *Hub[T] {
	Subscribe("bus.Hub", h.Broadcast)
	return h
}

func (h *Hub[T]) Subscribe() (<-chan T, func()) {
	c := make(chan T, h.buffer)

	h.mu.Lock()
	h.subs[c] = struct{}{}
	h.mu.Unlock()

	return c, func() {
		h.mu.Lock()
		delete(h.subs, c)
		h.mu.Unlock()
	}
}
