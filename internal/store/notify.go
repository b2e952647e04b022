package store

import (
	"context"
	"slices"

	"github.com/Gaurav-Gosain/panels/internal/events"
	"github.com/Gaurav-Gosain/panels/internal/persist"
)

// EventKind identifies a change notification.
type EventKind int

const (
	// EventList fires when instances are added or removed.
	EventList EventKind = iota
	// EventOrder fires when the stacking order changes.
	EventOrder
	// EventFocus fires whenever focus is set or cleared, even to the same value.
	EventFocus
)

func (k EventKind) String() string {
	switch k {
	case EventList:
		return "list-changed"
	case EventOrder:
		return "order-changed"
	case EventFocus:
		return "focus-changed"
	}
	return "unknown"
}

// Event carries a copy of the value that changed. Only the field matching
// Kind is set.
type Event struct {
	Kind  EventKind
	List  []Instance
	Order []string
	Focus string
}

// Subscribe registers fn for kind. Handlers run synchronously inside the
// mutating call, after the state has changed.
func (s *Store) Subscribe(kind EventKind, fn func(Event)) events.UnsubscribeFunc {
	return s.bus.Subscribe(kind, fn)
}

// pending collects notifications while the lock is held so they can be
// published after it is released, in list, order, focus order.
type pending struct {
	list, order, focus bool
}

func (s *Store) publish(p pending) {
	if !p.list && !p.order && !p.focus {
		return
	}

	s.mu.Lock()
	var list []Instance
	var order []string
	if p.list {
		list = s.listCopy()
	}
	if p.order {
		order = slices.Clone(s.order)
	}
	focus := s.focus
	s.mu.Unlock()

	if p.list {
		s.bus.Publish(EventList, Event{Kind: EventList, List: list})
	}
	if p.order {
		s.bus.Publish(EventOrder, Event{Kind: EventOrder, Order: order})
	}
	if p.focus {
		s.bus.Publish(EventFocus, Event{Kind: EventFocus, Focus: focus})
	}
}

// snapshot builds the layout to persist. Callers hold s.mu.
func (s *Store) snapshot() persist.Layout {
	l := persist.Layout{
		Panels: make([]persist.Record, 0, len(s.list)),
		Order:  slices.Clone(s.order),
		Focus:  s.focus,
	}
	for _, inst := range s.list {
		r := persist.Record{
			ID:           inst.ID,
			Template:     inst.Template,
			Title:        inst.Title,
			X:            inst.Rect.X,
			Y:            inst.Rect.Y,
			Width:        inst.Rect.Width,
			Height:       inst.Rect.Height,
			Placed:       inst.Placed,
			HiddenWindow: inst.HiddenWindow,
		}
		if len(inst.Props) > 0 {
			r.Props = inst.clone().Props
		}
		l.Panels = append(l.Panels, r)
	}
	return l
}

// schedulePersist snapshots the layout now and writes it after the debounce
// window. Callers hold s.mu.
func (s *Store) schedulePersist() {
	if s.storage == nil {
		return
	}

	layout := s.snapshot()
	storage, key, logger := s.storage, s.storageKey, s.logger
	s.debounce.Trigger(func() {
		if err := persist.Save(context.Background(), storage, key, layout); err != nil {
			logger.Warn("layout write failed", "err", err)
			return
		}
		logger.Debug("layout saved", "panels", len(layout.Panels))
	})
}
