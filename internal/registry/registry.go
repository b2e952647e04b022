// Package registry holds the panel templates the desktop can open.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrDuplicateTemplate is returned when a template name is registered twice.
	ErrDuplicateTemplate = errors.New("duplicate template name")
	// ErrInvalidTemplate is returned for templates that cannot be registered.
	ErrInvalidTemplate = errors.New("invalid template")
)

// Options are the behavior flags of a template.
type Options struct {
	// Single templates have at most one live instance.
	Single bool
	// Group names a set of templates with at most one live instance between them.
	Group string

	// Resizable, Moveable, Closable and Scrollable default to true. Use the
	// setters or the config's tri-state fields to turn them off.
	Resizable  *bool
	Moveable   *bool
	Closable   *bool
	Scrollable *bool

	IsModal             bool
	RemoveOnWindowClose bool
	// Pathname limits the template to one route. Empty means every route.
	Pathname          string
	BackgroundOpacity float64
	HeaderBorder      bool
	ZIndexBase        int
	HiddenInMenu      bool
	// HiddenWindow opens new instances collapsed to their header.
	HiddenWindow bool
}

func flag(p *bool) bool {
	return p == nil || *p
}

// CanResize reports whether the resize handle is enabled.
func (o Options) CanResize() bool { return flag(o.Resizable) }

// CanMove reports whether the header starts a move.
func (o Options) CanMove() bool { return flag(o.Moveable) }

// CanClose reports whether the close button is shown.
func (o Options) CanClose() bool { return flag(o.Closable) }

// CanScroll reports whether content may scroll.
func (o Options) CanScroll() bool { return flag(o.Scrollable) }

// Bool returns a pointer to v, for the tri-state option fields.
func Bool(v bool) *bool { return &v }

// Template describes a kind of panel. It is immutable after registration.
type Template struct {
	Name    string
	Title   string
	Content string
	// Props are handed to the content. Instance props override them.
	Props map[string]string

	MinWidth     int
	MinHeight     int
	DefaultWidth  int
	DefaultHeight int

	// DefaultX and DefaultY place new instances that were opened without a
	// hint. Nil means centered horizontally and at the policy's initial row.
	DefaultX *int
	DefaultY *int

	Options Options
}

// Registry is an ordered set of templates.
type Registry struct {
	mu        sync.RWMutex
	templates []Template
	index     map[string]int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends templates in order. The call is atomic: if any template
// is invalid or its name is already taken, nothing is registered.
func (r *Registry) Register(templates ...Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(templates))
	for _, t := range templates {
		if t.Name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidTemplate)
		}
		if t.MinWidth < 0 || t.MinHeight < 0 || t.DefaultWidth < 0 || t.DefaultHeight < 0 {
			return fmt.Errorf("%w: %q has a negative size", ErrInvalidTemplate, t.Name)
		}
		if _, ok := r.index[t.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.Name)
		}
		if _, ok := seen[t.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.Name)
		}
		seen[t.Name] = struct{}{}
	}

	for _, t := range templates {
		r.index[t.Name] = len(r.templates)
		r.templates = append(r.templates, t)
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(templates ...Template) {
	if err := r.Register(templates...); err != nil {
		panic(err)
	}
}

// Find returns the template registered under name.
func (r *Registry) Find(name string) (Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return Template{}, false
	}
	return r.templates[i], true
}

// All returns every template in registration order.
func (r *Registry) All() []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// Menu returns the templates to list in the launcher for route.
func (r *Registry) Menu(route string) []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Template
	for _, t := range r.templates {
		if t.Options.HiddenInMenu {
			continue
		}
		if !t.VisibleOn(route) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// VisibleOn reports whether instances of t are shown on route.
func (t Template) VisibleOn(route string) bool {
	return t.Options.Pathname == "" || t.Options.Pathname == route
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}
