package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/panels/internal/app"
	"github.com/Gaurav-Gosain/panels/internal/config"
)

// Keyboard gesture step, in cells. Columns are narrower than rows, so
// horizontal steps are larger.
const (
	StepX = 2
	StepY = 1
)

// Direction returns the step for a direction action.
func Direction(action string) (dx, dy int, ok bool) {
	switch action {
	case config.ActionLeft:
		return -StepX, 0, true
	case config.ActionRight:
		return StepX, 0, true
	case config.ActionUp:
		return 0, -StepY, true
	case config.ActionDown:
		return 0, StepY, true
	}
	return 0, 0, false
}

func handleKeyPress(msg tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	action := d.Keys.Match(msg)
	if action == "" {
		return d, nil
	}
	if d.Mode != app.NormalMode {
		return handleGestureKey(action, d)
	}
	return dispatcher.Dispatch(action, msg, d)
}

// handleGestureKey drives move and resize mode. Direction keys nudge the
// target panel; confirm or dismiss returns to normal mode.
func handleGestureKey(action string, d *app.Desktop) (tea.Model, tea.Cmd) {
	p := d.Target()
	if p == nil {
		d.SetMode(app.NormalMode)
		return d, nil
	}

	if dx, dy, ok := Direction(action); ok {
		if d.Mode == app.MoveMode {
			p.KeyboardMove(dx, dy)
		} else {
			p.KeyboardResize(dx, dy)
		}
		return d, nil
	}

	switch action {
	case config.ActionConfirm, config.ActionDismissModals, config.ActionMoveMode, config.ActionResizeMode:
		d.SetMode(app.NormalMode)
	case config.ActionQuit:
		return d.Quit()
	}
	return d, nil
}
