// Package drag implements a pointer drag engine that is independent of the
// input device. Callers feed it normalized samples; it reports the offset
// between consecutive samples until the gesture ends.
package drag

import "sync"

// Sample is a normalized pointer position in cells. Adapters convert mouse
// and keyboard input into samples so the engine never branches on modality.
type Sample struct {
	X, Y int
}

// Delta is the movement between two consecutive samples.
type Delta struct {
	OffsetX int
	OffsetY int
	Key     string
}

// Listener receives global pointer motion and the end of the gesture.
type Listener interface {
	Move(Sample)
	Up()
}

// Source is where an engine attaches after Begin so that motion is tracked
// even when the pointer leaves the element that started the drag.
type Source interface {
	Subscribe(Listener) (cancel func())
}

// Hub is an in-process Source. The desktop feeds every pointer motion and
// release into it and the hub fans them out to attached engines.
type Hub struct {
	mu        sync.Mutex
	listeners []hubEntry
	nextID    uint64
}

type hubEntry struct {
	id uint64
	l  Listener
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe attaches l until the returned cancel func is called.
func (h *Hub) Subscribe(l Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, hubEntry{id: id, l: l})

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, e := range h.listeners {
			if e.id == id {
				h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
				return
			}
		}
	}
}

func (h *Hub) snapshot() []Listener {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Listener, len(h.listeners))
	for i, e := range h.listeners {
		out[i] = e.l
	}
	return out
}

// Move forwards pointer motion to every attached listener.
func (h *Hub) Move(s Sample) {
	for _, l := range h.snapshot() {
		l.Move(s)
	}
}

// Up forwards a pointer release. Listeners usually cancel themselves here.
func (h *Hub) Up() {
	for _, l := range h.snapshot() {
		l.Up()
	}
}

// Len returns the number of attached listeners.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
