// Package events provides a small typed publish/subscribe bus.
//
// Handlers run synchronously on the publishing goroutine, in subscription
// order. Unsubscribing keeps the relative order of the remaining handlers.
package events

import (
	"sync"
	"sync/atomic"
)

// UnsubscribeFunc removes a subscription. Calling it more than once is safe.
type UnsubscribeFunc func()

type handlerEntry[T any] struct {
	id      uint64
	handler func(T)
}

// Bus dispatches payloads of type T to handlers keyed by K.
type Bus[K comparable, T any] struct {
	mu          sync.RWMutex
	subscribers map[K][]handlerEntry[T]
	nextID      atomic.Uint64
}

// NewBus returns an empty bus.
func NewBus[K comparable, T any]() *Bus[K, T] {
	return &Bus[K, T]{subscribers: make(map[K][]handlerEntry[T])}
}

// Subscribe registers handler for kind and returns a func that removes it.
func (b *Bus[K, T]) Subscribe(kind K, handler func(T)) UnsubscribeFunc {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID.Add(1)
	b.subscribers[kind] = append(b.subscribers[kind], handlerEntry[T]{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		handlers := b.subscribers[kind]
		for i, h := range handlers {
			if h.id == id {
				// Copy rather than reslice in place so a Publish iterating
				// an earlier snapshot is not disturbed.
				next := make([]handlerEntry[T], 0, len(handlers)-1)
				next = append(next, handlers[:i]...)
				next = append(next, handlers[i+1:]...)
				if len(next) == 0 {
					delete(b.subscribers, kind)
				} else {
					b.subscribers[kind] = next
				}
				return
			}
		}
	}
}

// Publish calls every handler subscribed to kind with v. Handlers added or
// removed by a handler take effect from the next Publish.
func (b *Bus[K, T]) Publish(kind K, v T) {
	b.mu.RLock()
	entries := b.subscribers[kind]
	b.mu.RUnlock()

	for _, e := range entries {
		e.handler(v)
	}
}

// SubscriberCount returns the number of handlers for kind.
func (b *Bus[K, T]) SubscriberCount(kind K) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[kind])
}
