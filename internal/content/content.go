// Package content defines what a panel hosts. The window chrome, geometry
// and stacking are handled elsewhere; a content only sees its props and a
// few hooks for talking back to its window.
package content

import (
	"fmt"
	"sort"
	"time"

	"github.com/Gaurav-Gosain/panels/internal/geometry"
)

// Props are the values a content is mounted with.
type Props struct {
	ID           string
	Template     string
	Rect         geometry.Rect
	HiddenWindow bool
	// Values are the string props passed when the panel was opened.
	Values map[string]string
}

// Value returns Values[key] or def when unset.
func (p Props) Value(key, def string) string {
	if v, ok := p.Values[key]; ok {
		return v
	}
	return def
}

// Hooks let a content change its window.
type Hooks struct {
	SetTitle        func(string)
	SetHeader       func(string)
	SetHiddenWindow func(bool)
}

// Context is handed to Panel.Mount.
type Context struct {
	Props  Props
	Hooks  Hooks
	Events *Emitter
}

// Panel is the body of a window.
type Panel interface {
	Mount(ctx Context)
	// View renders the body into at most width×height cells.
	View(width, height int) string
}

// Ticker is implemented by contents that refresh on the desktop tick.
type Ticker interface {
	Tick(now time.Time)
}

// Unmounter is implemented by contents that hold subscriptions.
type Unmounter interface {
	Unmount()
}

// Factory creates a fresh content.
type Factory func() Panel

// Catalog maps content kinds to factories.
type Catalog struct {
	factories map[string]Factory
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{factories: make(map[string]Factory)}
}

// Add registers f under kind, replacing any previous factory.
func (c *Catalog) Add(kind string, f Factory) {
	c.factories[kind] = f
}

// New creates a content of kind.
func (c *Catalog) New(kind string) (Panel, error) {
	f, ok := c.factories[kind]
	if !ok {
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
	return f(), nil
}

// Has reports whether kind is registered.
func (c *Catalog) Has(kind string) bool {
	_, ok := c.factories[kind]
	return ok
}

// Kinds returns the registered kinds, sorted.
func (c *Catalog) Kinds() []string {
	out := make([]string, 0, len(c.factories))
	for k := range c.factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Missing is shown when a template names a content kind that does not exist.
type Missing struct {
	Kind string
}

func (m *Missing) Mount(Context) {}

func (m *Missing) View(width, height int) string {
	return fmt.Sprintf("no content %q", m.Kind)
}
