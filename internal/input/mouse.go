package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/panels/internal/app"
	"github.com/Gaurav-Gosain/panels/internal/drag"
	"github.com/Gaurav-Gosain/panels/internal/window"
)

// MouseSample converts a pointer position to a drag sample.
func MouseSample(m tea.Mouse) drag.Sample {
	return drag.Sample{X: m.X, Y: m.Y}
}

// handleMouseClick starts gestures and fires header buttons. Clicks on the
// menu bar open the entry under the pointer, centered on it.
func handleMouseClick(msg tea.MouseClickMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	mouse := msg.Mouse()
	if mouse.Button != tea.MouseLeft || d.Mode != app.NormalMode {
		return d, nil
	}

	if d.OnMenuBar(mouse.Y) {
		if n, hint := d.MenuItemAt(mouse.X); n > 0 {
			d.OpenMenuEntry(n, &hint)
		}
		return d, nil
	}

	p, region := d.PanelAt(mouse.X, mouse.Y)
	if p == nil {
		return d, nil
	}
	if p.Press(region, MouseSample(mouse)) {
		d.Logger.Debug("press", "panel", p.ID(), "region", region)
	}
	return d, nil
}

func handleMouseMotion(msg tea.MouseMotionMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	if d.Mode != app.NormalMode {
		return d, nil
	}
	d.Hub.Move(MouseSample(msg.Mouse()))
	return d, nil
}

// handleMouseRelease ends any gesture, then treats a release over empty
// background as an outside click. The guard keeps the release that ends a
// drag from counting.
func handleMouseRelease(msg tea.MouseReleaseMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	if d.Mode != app.NormalMode {
		return d, nil
	}
	mouse := msg.Mouse()
	d.Hub.Up()

	if d.OnMenuBar(mouse.Y) || onPanel(d, mouse.X, mouse.Y) {
		return d, nil
	}
	d.Store.OutsideClick(d.Guard)
	return d, nil
}

// handleMouseWheel scrolls the body of the panel under the pointer.
func handleMouseWheel(msg tea.MouseWheelMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	if d.Mode != app.NormalMode {
		return d, nil
	}
	mouse := msg.Mouse()
	p, region := d.PanelAt(mouse.X, mouse.Y)
	if p == nil || region != window.RegionBody {
		return d, nil
	}
	switch mouse.Button {
	case tea.MouseWheelUp:
		p.ScrollBy(-1)
	case tea.MouseWheelDown:
		p.ScrollBy(1)
	}
	return d, nil
}

// onPanel reports whether (x, y) hits any panel region.
func onPanel(d *app.Desktop, x, y int) bool {
	_, region := d.PanelAt(x, y)
	return region != window.RegionNone
}
