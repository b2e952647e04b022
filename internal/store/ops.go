package store

import (
	"maps"
	"slices"

	"github.com/Gaurav-Gosain/panels/internal/drag"
	"github.com/Gaurav-Gosain/panels/internal/geometry"
	"github.com/Gaurav-Gosain/panels/internal/registry"
)

// Open opens a panel from its template. Unknown templates are ignored.
//
// A single template with a live instance, or a grouped template whose own
// instance is live, is not opened again: the existing instance is raised and
// focused instead. A grouped template whose group holds an instance of a
// different template replaces that instance.
func (s *Store) Open(req OpenRequest) {
	t, ok := s.reg.Find(req.Template)
	if !ok {
		s.logger.Debug("open ignored, unknown template", "template", req.Template)
		return
	}

	s.mu.Lock()

	if t.Options.Single || t.Options.Group != "" {
		if i := s.firstOf(func(inst Instance) bool { return inst.Template == t.Name }); i >= 0 {
			id := s.list[i].ID
			s.raise(id)
			s.focus = id
			s.markFocus()
			s.schedulePersist()
			s.mu.Unlock()
			s.publish(pending{order: true, focus: true})
			return
		}
	}

	var evicted []string
	if t.Options.Group != "" {
		for _, inst := range s.list {
			if other, ok := s.reg.Find(inst.Template); ok && other.Options.Group == t.Options.Group {
				evicted = append(evicted, inst.ID)
			}
		}
	}
	s.mu.Unlock()

	for _, id := range evicted {
		s.logger.Debug("closing group member", "group", t.Options.Group, "id", id)
		s.Close(id)
	}

	inst := s.newInstance(t, req)

	s.mu.Lock()
	s.list = append(s.list, inst)
	s.order = append(s.order, inst.ID)
	s.focus = ""
	s.markFocus()
	s.schedulePersist()
	s.mu.Unlock()

	s.logger.Debug("opened panel", "template", t.Name, "id", inst.ID)
	s.publish(pending{list: true, order: true, focus: true})
}

func (s *Store) newInstance(t registry.Template, req OpenRequest) Instance {
	inst := Instance{
		ID:           s.newID(),
		Template:     t.Name,
		Title:        req.Title,
		HiddenWindow: t.Options.HiddenWindow,
	}
	if req.Hidden != nil {
		inst.HiddenWindow = *req.Hidden
	}
	if len(req.Props) > 0 {
		inst.Props = maps.Clone(req.Props)
	}

	switch {
	case req.Rect != nil:
		inst.Rect = *req.Rect
		inst.Placed = true
	case req.Hint != nil:
		w := t.DefaultWidth
		if w == 0 {
			w = t.MinWidth
		}
		h := t.DefaultHeight
		if h == 0 {
			h = t.MinHeight
		}
		origin := geometry.Centered(*req.Hint, w, h, s.Viewport(), s.policy.OpenTopMargin)
		inst.Origin = &origin
	}
	return inst
}

// ShowModal closes every modal instance of another template, then opens req.
func (s *Store) ShowModal(req OpenRequest) {
	s.closeWhere(func(inst Instance, t registry.Template) bool {
		return t.Options.IsModal && inst.Template != req.Template
	})
	s.Open(req)
}

// BringToFront moves id to the top of the stacking order and clears focus.
func (s *Store) BringToFront(id string) {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return
	}
	s.raise(id)
	s.focus = ""
	s.markFocus()
	s.schedulePersist()
	s.mu.Unlock()

	s.publish(pending{order: true, focus: true})
}

// SetFocus marks id as the focused instance. Focus-changed is emitted even
// when id was already focused.
func (s *Store) SetFocus(id string) {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return
	}
	s.focus = id
	s.markFocus()
	s.schedulePersist()
	s.mu.Unlock()

	s.publish(pending{focus: true})
}

// Close removes id. Unknown ids are ignored.
func (s *Store) Close(id string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}

	p := pending{list: true}
	s.list = slices.Delete(s.list, i, i+1)

	if !s.legacyClose || i > 0 {
		if pos := slices.Index(s.order, id); pos >= 0 {
			s.order = slices.Delete(s.order, pos, pos+1)
			p.order = true
		}
	}
	if s.focus == id {
		s.focus = ""
		p.focus = true
	}
	s.schedulePersist()
	s.mu.Unlock()

	s.logger.Debug("closed panel", "id", id)
	s.publish(p)
}

// DismissModals closes every modal instance except exceptID.
func (s *Store) DismissModals(exceptID string) {
	s.closeWhere(func(inst Instance, t registry.Template) bool {
		return t.Options.IsModal && inst.ID != exceptID
	})
}

// OutsideClick handles a click that landed on no panel. Modals are
// dismissed unless a drag is running or ended during the current turn.
func (s *Store) OutsideClick(g *drag.Guard) {
	if g != nil && g.Suppressed() {
		return
	}
	s.DismissModals("")
}

// UpdateGeometry records the rect and collapsed state a controller settled
// on. The instance becomes placed. No notification is emitted.
func (s *Store) UpdateGeometry(id string, rect geometry.Rect, hidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.list[i].Rect = rect
	s.list[i].HiddenWindow = hidden
	s.list[i].Placed = true
	s.schedulePersist()
}

// SetTitle overrides the title of id. An empty title restores the template title.
func (s *Store) SetTitle(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || s.list[i].Title == title {
		return
	}
	s.list[i].Title = title
	s.schedulePersist()
}

func (s *Store) closeWhere(match func(Instance, registry.Template) bool) {
	s.mu.Lock()
	var ids []string
	for _, inst := range s.list {
		t, ok := s.reg.Find(inst.Template)
		if ok && match(inst, t) {
			ids = append(ids, inst.ID)
		}
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.Close(id)
	}
}

// raise moves id to the end of the order. Callers hold s.mu.
func (s *Store) raise(id string) {
	if pos := slices.Index(s.order, id); pos >= 0 {
		s.order = slices.Delete(s.order, pos, pos+1)
	}
	s.order = append(s.order, id)
}

func (s *Store) firstOf(match func(Instance) bool) int {
	for i, inst := range s.list {
		if match(inst) {
			return i
		}
	}
	return -1
}
