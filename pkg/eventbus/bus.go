// Package eventbus provides a synchronous in-process publish/subscribe channel.
//
// A Bus is an explicit object owned by whoever builds the mutation surface
// and injected into its consumers; there is no package-level instance.
// Emit runs every handler on the caller's goroutine, in registration order,
// before returning. There is no buffering, no isolation between handlers and
// no durability.
package eventbus

import (
	"sync"

	"go.uber.org/zap"
)

// Handler receives events published on a Bus
type Handler[E any] func(event E)

type subscription[E any] struct {
	id      uint64
	handler Handler[E]
}

// Bus fans each emitted event out to its subscribers
type Bus[E any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []subscription[E]
	logger   *zap.Logger
}

// New creates an empty bus. A nil logger disables logging.
func New[E any](logger *zap.Logger) *Bus[E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus[E]{logger: logger}
}

// Subscribe registers handler and returns a function that removes exactly
// that registration. The returned function is idempotent and safe to call
// from inside a handler while an Emit is in progress.
func (b *Bus[E]) Subscribe(handler Handler[E]) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, subscription[E]{id: id, handler: handler})
	total := len(b.handlers)
	b.mu.Unlock()

	b.logger.Debug("Event handler subscribed",
		zap.Uint64("subscription_id", id),
		zap.Int("total_handlers", total))

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// SubscribeFunc registers handler for the events accepted by filter only
func (b *Bus[E]) SubscribeFunc(filter func(E) bool, handler Handler[E]) (unsubscribe func()) {
	return b.Subscribe(func(event E) {
		if filter(event) {
			handler(event)
		}
	})
}

// Emit invokes the handlers registered at the time of the call, in
// registration order. Handlers added or removed during dispatch take effect
// from the next Emit.
func (b *Bus[E]) Emit(event E) {
	b.mu.Lock()
	snapshot := make([]subscription[E], len(b.handlers))
	copy(snapshot, b.handlers)
	b.mu.Unlock()

	for _, sub := range snapshot {
		sub.handler(event)
	}
}

// Len returns the number of registered handlers
func (b *Bus[E]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// Clear removes every registered handler
func (b *Bus[E]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = nil
}

func (b *Bus[E]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Replace rather than edit in place so an in-flight snapshot is unaffected.
	kept := make([]subscription[E], 0, len(b.handlers))
	for _, sub := range b.handlers {
		if sub.id != id {
			kept = append(kept, sub)
		}
	}
	b.handlers = kept

	b.logger.Debug("Event handler unsubscribed",
		zap.Uint64("subscription_id", id),
		zap.Int("total_handlers", len(kept)))
}
