// Package store owns the open panel instances: their identity, stacking
// order and focus. Every mutation goes through a Store method, which emits
// change notifications and schedules a debounced layout write.
package store

import (
	"context"
	"errors"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"charm.land/log/v2"
	"github.com/google/uuid"

	"github.com/Gaurav-Gosain/panels/internal/events"
	"github.com/Gaurav-Gosain/panels/internal/geometry"
	"github.com/Gaurav-Gosain/panels/internal/persist"
	"github.com/Gaurav-Gosain/panels/internal/registry"
)

// Instance is one open panel.
type Instance struct {
	ID       string
	Template string
	Title    string
	Rect     geometry.Rect
	// Placed marks Rect as authoritative: restored from a saved layout or set
	// by a gesture. Unplaced instances get their rect from the controller.
	Placed bool
	// Origin is the start position computed from an open hint, if any.
	Origin         *geometry.Point
	HiddenWindow   bool
	FocusCandidate bool
	Props          map[string]string
}

func (i Instance) clone() Instance {
	if i.Origin != nil {
		o := *i.Origin
		i.Origin = &o
	}
	if i.Props != nil {
		i.Props = maps.Clone(i.Props)
	}
	return i
}

// State is a snapshot of the store.
type State struct {
	List  []Instance
	Order []string
	Focus string
}

// OpenRequest asks the store to open a panel.
type OpenRequest struct {
	Template string
	// Hint is a screen region the new window should open near, such as the
	// launcher entry that was clicked.
	Hint *geometry.Rect
	// Title overrides the template title.
	Title string
	// Rect places the window exactly. It takes precedence over Hint.
	Rect *geometry.Rect
	// Hidden overrides the template's initial collapsed state.
	Hidden *bool
	Props  map[string]string
}

// Store is the panel store. It is safe to read from other goroutines, but
// mutations are expected to come from the UI event loop.
type Store struct {
	mu       sync.Mutex
	reg      *registry.Registry
	list     []Instance
	order    []string
	focus    string
	viewport geometry.Size

	policy      geometry.Policy
	storage     persist.Storage
	storageKey  string
	delay       time.Duration
	debounce    *events.Debouncer
	logger      *log.Logger
	legacyClose bool
	newID       func() string

	bus *events.Bus[EventKind, Event]
}

// Option configures a Store.
type Option func(*Store)

// WithStorage persists the layout to s under key. An empty key selects
// persist.DefaultKey.
func WithStorage(s persist.Storage, key string) Option {
	return func(st *Store) {
		st.storage = s
		if key != "" {
			st.storageKey = key
		}
	}
}

// WithPolicy sets the geometry policy used for hint placement.
func WithPolicy(p geometry.Policy) Option {
	return func(s *Store) { s.policy = p }
}

// WithPersistDelay sets the debounce window for layout writes.
func WithPersistDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithLegacyClose makes Close leave the order untouched when the closed
// instance was first in the list. Saved layouts from older releases were
// produced with this behavior.
func WithLegacyClose() Option {
	return func(s *Store) { s.legacyClose = true }
}

// WithIDGenerator replaces the uuid generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New creates a store and loads the saved layout, if storage is configured.
// Saved instances whose template is unknown or marked RemoveOnWindowClose
// are dropped.
func New(reg *registry.Registry, opts ...Option) *Store {
	s := &Store{
		reg:        reg,
		policy:     geometry.DefaultPolicy(),
		storageKey: persist.DefaultKey,
		delay:      events.DefaultDebounceDuration,
		logger:     log.NewWithOptions(io.Discard, log.Options{}),
		newID:      uuid.NewString,
		bus:        events.NewBus[EventKind, Event](),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.debounce = events.NewDebouncer(s.delay)
	s.load()
	return s
}

func (s *Store) load() {
	if s.storage == nil {
		return
	}

	layout, err := persist.Load(context.Background(), s.storage, s.storageKey)
	if err != nil {
		if !errors.Is(err, persist.ErrNotFound) {
			s.logger.Warn("could not read saved layout, starting empty", "err", err)
		}
		return
	}

	layout = persist.Repair(layout, func(r persist.Record) bool {
		t, ok := s.reg.Find(r.Template)
		if !ok {
			s.logger.Debug("dropping saved panel with unknown template", "template", r.Template)
			return false
		}
		return !t.Options.RemoveOnWindowClose
	})

	for _, r := range layout.Panels {
		s.list = append(s.list, Instance{
			ID:           r.ID,
			Template:     r.Template,
			Title:        r.Title,
			Rect:         geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
			Placed:       r.Placed,
			HiddenWindow: r.HiddenWindow,
			Props:        r.Props,
		})
	}
	s.order = layout.Order
	s.focus = layout.Focus
	s.markFocus()

	s.logger.Info("restored layout", "panels", len(s.list))
}

// Registry returns the registry the store resolves templates against.
func (s *Store) Registry() *registry.Registry {
	return s.reg
}

// Policy returns the geometry policy.
func (s *Store) Policy() geometry.Policy {
	return s.policy
}

// SetViewport records the viewport size used for hint placement.
func (s *Store) SetViewport(size geometry.Size) {
	s.mu.Lock()
	s.viewport = size
	s.mu.Unlock()
}

// Viewport returns the last viewport size set.
func (s *Store) Viewport() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{List: s.listCopy(), Order: slices.Clone(s.order), Focus: s.focus}
}

// Order returns the stacking order, back to front.
func (s *Store) Order() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

// Focus returns the focused id, or "".
func (s *Store) Focus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// Instance returns a copy of the instance with the given id.
func (s *Store) Instance(id string) (Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Instance{}, false
	}
	return s.list[i].clone(), true
}

// ZIndex returns the stacking level of id: the template's base plus its
// position in the order. Unknown ids return -1.
func (s *Store) ZIndex(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos := slices.Index(s.order, id)
	if pos < 0 {
		return -1
	}
	base := 0
	if i := s.indexOf(id); i >= 0 {
		if t, ok := s.reg.Find(s.list[i].Template); ok {
			base = t.Options.ZIndexBase
		}
	}
	return base + pos
}

// Flush writes any pending layout immediately.
func (s *Store) Flush() {
	s.debounce.Flush()
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.list {
		if s.list[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) listCopy() []Instance {
	out := make([]Instance, len(s.list))
	for i, inst := range s.list {
		out[i] = inst.clone()
	}
	return out
}

func (s *Store) markFocus() {
	for i := range s.list {
		s.list[i].FocusCandidate = s.list[i].ID == s.focus
	}
}
