// Package window binds drag gestures to one panel instance. A Controller
// owns the live rectangle of its window, applies the geometry policy to
// every change, and reports settled geometry back to the store.
package window

import (
	"github.com/Gaurav-Gosain/panels/internal/content"
	"github.com/Gaurav-Gosain/panels/internal/drag"
	"github.com/Gaurav-Gosain/panels/internal/events"
	"github.com/Gaurav-Gosain/panels/internal/geometry"
	"github.com/Gaurav-Gosain/panels/internal/registry"
	"github.com/Gaurav-Gosain/panels/internal/store"
)

// Deps are the collaborators a controller needs.
type Deps struct {
	Store    *store.Store
	Template registry.Template
	Policy   geometry.Policy
	// Source delivers pointer motion and release during a gesture.
	Source drag.Source
	Guard  *drag.Guard
	// Viewport is the size at mount time. Zero means unknown.
	Viewport geometry.Size
	// Events receives update-pos and update-size. Optional.
	Events *content.Emitter
}

// Controller manages one window.
type Controller struct {
	id       string
	tmpl     registry.Template
	store    *store.Store
	policy   geometry.Policy
	events   *content.Emitter
	viewport geometry.Size
	min      geometry.Size

	rect    geometry.Rect
	hidden  bool
	anchor  geometry.Anchor
	focused bool
	z       int
	header  string

	move   *drag.Engine
	resize *drag.Engine
	unsub  []events.UnsubscribeFunc
}

// New mounts a controller for inst.
func New(inst store.Instance, deps Deps) *Controller {
	c := &Controller{
		id:       inst.ID,
		tmpl:     deps.Template,
		store:    deps.Store,
		policy:   deps.Policy,
		events:   deps.Events,
		viewport: deps.Viewport,
		hidden:   inst.HiddenWindow,
		focused:  inst.FocusCandidate,
	}
	if c.events == nil {
		c.events = content.NewEmitter()
	}
	c.min = c.policy.MinSize(c.tmpl.MinWidth, c.tmpl.MinHeight)
	c.rect = c.seed(inst)
	c.anchor = geometry.AnchorFor(c.rect, c.viewport.Width)

	c.move = drag.NewEngine(drag.Options{
		Key:    "move",
		OnMove: func(d drag.Delta) { c.ApplyMove(d.OffsetX, d.OffsetY) },
		OnEnd:  c.settle,
		Source: deps.Source,
		Guard:  deps.Guard,
	})
	c.resize = drag.NewEngine(drag.Options{
		Key:    "resize",
		OnMove: func(d drag.Delta) { c.ApplyResize(d.OffsetX, d.OffsetY) },
		OnEnd:  c.settle,
		Source: deps.Source,
		Guard:  deps.Guard,
	})

	if c.store != nil {
		c.z = c.store.ZIndex(c.id)
		c.unsub = append(c.unsub,
			c.store.Subscribe(store.EventFocus, func(e store.Event) {
				c.focused = e.Focus == c.id
			}),
			c.store.Subscribe(store.EventOrder, func(store.Event) {
				c.z = c.store.ZIndex(c.id)
			}),
		)
	}

	c.events.Emit(content.EventUpdatePos, c.rect)
	return c
}

// seed computes the starting rectangle. A placed instance keeps its saved
// rect; otherwise the template defaults, the open hint and the policy decide.
func (c *Controller) seed(inst store.Instance) geometry.Rect {
	if inst.Placed {
		r := geometry.EnforceMin(inst.Rect, c.min)
		return c.policy.Clamp(r, c.viewport)
	}

	w := c.tmpl.DefaultWidth
	if w == 0 {
		w = c.min.Width
	}
	h := c.tmpl.DefaultHeight
	if h == 0 {
		h = c.min.Height
	}
	if c.viewport.Known() && h > c.viewport.Height-4 {
		h = c.viewport.Height - 4
	}

	r := geometry.Rect{Width: w, Height: h}
	switch {
	case inst.Origin != nil:
		r.X = inst.Origin.X
	case c.tmpl.DefaultX != nil:
		r.X = *c.tmpl.DefaultX
	default:
		r.X = (c.viewport.Width - w) / 2
	}
	switch {
	case inst.Origin != nil:
		r.Y = inst.Origin.Y
	case c.tmpl.DefaultY != nil:
		r.Y = *c.tmpl.DefaultY
	default:
		r.Y = c.policy.InitialTop
	}

	r = geometry.EnforceMin(r, c.min)
	return c.policy.Clamp(r, c.viewport)
}

// ID returns the instance id.
func (c *Controller) ID() string { return c.id }

// Template returns the template the window was opened from.
func (c *Controller) Template() registry.Template { return c.tmpl }

// Rect returns the full window rectangle, including when collapsed.
func (c *Controller) Rect() geometry.Rect { return c.rect }

// Hidden reports whether the window is collapsed to its header.
func (c *Controller) Hidden() bool { return c.hidden }

// Focused reports whether the window is the store's focus.
func (c *Controller) Focused() bool { return c.focused }

// Z returns the stacking index; higher draws on top.
func (c *Controller) Z() int { return c.z }

// Anchor returns the edge the window sticks to on viewport resize.
func (c *Controller) Anchor() geometry.Anchor { return c.anchor }

// MinSize returns the size floor, header row included.
func (c *Controller) MinSize() geometry.Size { return c.min }

// Events returns the emitter for update-pos and update-size.
func (c *Controller) Events() *content.Emitter { return c.events }

// Header returns the decoration set by the content, shown after the title.
func (c *Controller) Header() string { return c.header }

// SetHeader replaces the header decoration.
func (c *Controller) SetHeader(s string) { c.header = s }

// Viewport returns the last known viewport size.
func (c *Controller) Viewport() geometry.Size { return c.viewport }

// Dragging reports whether a move or resize session is running.
func (c *Controller) Dragging() bool { return c.move.Active() || c.resize.Active() }

// Resizing reports whether a resize session is running.
func (c *Controller) Resizing() bool { return c.resize.Active() }

// VisibleRect is the area the window occupies on screen. A collapsed
// window shows only its header row.
func (c *Controller) VisibleRect() geometry.Rect {
	r := c.rect
	if c.hidden {
		r.Height = 1
	}
	return r
}

// Title returns the instance title, falling back to the template title and
// then the template name.
func (c *Controller) Title() string {
	if c.store != nil {
		if inst, ok := c.store.Instance(c.id); ok && inst.Title != "" {
			return inst.Title
		}
	}
	if c.tmpl.Title != "" {
		return c.tmpl.Title
	}
	return c.tmpl.Name
}

// Press handles a pointer press inside the window. Modals other than this
// window are dismissed and the window is raised before the region decides
// what else happens. It reports whether a gesture started or a button fired.
func (c *Controller) Press(region Region, s drag.Sample) bool {
	if region == RegionNone {
		return false
	}

	if c.store != nil {
		c.store.DismissModals(c.id)
		c.store.BringToFront(c.id)
	}

	switch region {
	case RegionClose:
		if c.tmpl.Options.CanClose() {
			c.Close()
			return true
		}
	case RegionCollapse:
		c.ToggleHidden()
		return true
	case RegionResize:
		return c.BeginResize(s)
	case RegionHeader:
		return c.BeginMove(s)
	case RegionBody:
		if c.hidden {
			return c.BeginMove(s)
		}
	}
	return false
}

// BeginMove starts a move session at s.
func (c *Controller) BeginMove(s drag.Sample) bool {
	if !c.tmpl.Options.CanMove() || c.Dragging() {
		return false
	}
	if !c.move.Begin(s) {
		return false
	}
	if c.store != nil && !c.tmpl.Options.IsModal {
		c.store.DismissModals(c.id)
	}
	return true
}

// BeginResize starts a resize session at s.
func (c *Controller) BeginResize(s drag.Sample) bool {
	if !c.tmpl.Options.CanResize() || c.hidden || c.Dragging() {
		return false
	}
	return c.resize.Begin(s)
}

// MoveTo feeds a sample to whichever session is active. The drag source
// normally does this; keyboard sessions call it directly.
func (c *Controller) MoveTo(s drag.Sample) {
	c.move.Move(s)
	c.resize.Move(s)
}

// End finishes the active session.
func (c *Controller) End() {
	c.move.End()
	c.resize.End()
}

// ApplyMove offsets the window and clamps it to the viewport.
func (c *Controller) ApplyMove(dx, dy int) {
	r := c.rect
	r.X += dx
	r.Y += dy
	c.rect = c.policy.Clamp(r, c.viewport)
}

// ApplyResize grows the window by (dx, dy), never below the minimum size.
func (c *Controller) ApplyResize(dx, dy int) {
	r := c.rect
	r.Width += dx
	r.Height += dy
	c.rect = geometry.EnforceMin(r, c.min)
	c.events.Emit(content.EventUpdateSize, c.rect)
}

// settle runs when a gesture ends.
func (c *Controller) settle() {
	c.persist()
	c.events.Emit(content.EventUpdatePos, c.rect)
	c.anchor = geometry.AnchorFor(c.rect, c.viewport.Width)
}

func (c *Controller) persist() {
	if c.store != nil {
		c.store.UpdateGeometry(c.id, c.rect, c.hidden)
	}
}

// ViewportResized keeps a right-anchored window at the same distance from
// the right edge, then clamps the result.
func (c *Controller) ViewportResized(size geometry.Size) {
	c.viewport = size
	r := c.anchor.Reposition(c.rect, size.Width)
	c.rect = c.policy.Clamp(r, size)
	c.events.Emit(content.EventUpdatePos, c.rect)
}

// SetHidden collapses or expands the window.
func (c *Controller) SetHidden(hidden bool) {
	if c.hidden == hidden {
		return
	}
	if hidden {
		c.resize.End()
	}
	c.hidden = hidden
	c.persist()
}

// ToggleHidden flips the collapsed state.
func (c *Controller) ToggleHidden() {
	c.SetHidden(!c.hidden)
}

// Close closes the window through the store.
func (c *Controller) Close() {
	if c.store != nil {
		c.store.Close(c.id)
	}
}

// KeyboardMove nudges the window as a one-step move gesture.
func (c *Controller) KeyboardMove(dx, dy int) {
	if c.BeginMove(drag.Sample{}) {
		c.MoveTo(drag.Sample{X: dx, Y: dy})
		c.End()
	}
}

// KeyboardResize grows or shrinks the window as a one-step resize gesture.
func (c *Controller) KeyboardResize(dx, dy int) {
	if c.BeginResize(drag.Sample{}) {
		c.MoveTo(drag.Sample{X: dx, Y: dy})
		c.End()
	}
}

// Unmount drops store subscriptions and ends any running session.
func (c *Controller) Unmount() {
	for _, u := range c.unsub {
		u()
	}
	c.unsub = nil
	c.End()
}
