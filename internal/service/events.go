package service

import "sync"

// eventHub is the shared observer mechanism behind every Subscribe method
// in this package. Observers are held in a map keyed by registration id so
// unsubscribing is O(1) and stable under concurrent emits.
type eventHub[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(T)
}

func newEventHub[T any]() *eventHub[T] {
	return &eventHub[T]{subs: make(map[int]func(T))}
}

// subscribe registers fn and returns its unsubscribe function. Both are
// safe for concurrent use.
func (h *eventHub[T]) subscribe(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// emit delivers ev to every observer synchronously, outside the hub lock
// so an observer may unsubscribe itself from within its callback.
func (h *eventHub[T]) emit(ev T) {
	h.mu.Lock()
	fns := make([]func(T), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
