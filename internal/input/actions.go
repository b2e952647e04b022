package input

import (
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/panels/internal/app"
	"github.com/Gaurav-Gosain/panels/internal/config"
	"github.com/Gaurav-Gosain/panels/internal/store"
)

// ActionHandler handles one keybinding action.
type ActionHandler func(msg tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd)

// ActionDispatcher maps action names to handlers.
type ActionDispatcher struct {
	handlers map[string]ActionHandler
}

// NewActionDispatcher returns a dispatcher with every action registered.
func NewActionDispatcher() *ActionDispatcher {
	d := &ActionDispatcher{
		handlers: make(map[string]ActionHandler),
	}
	d.registerHandlers()
	return d
}

func (d *ActionDispatcher) registerHandlers() {
	// Panels
	d.Register(config.ActionNextPanel, handleNextPanel)
	d.Register(config.ActionPrevPanel, handlePrevPanel)
	d.Register(config.ActionClosePanel, handleClosePanel)
	d.Register(config.ActionToggleCollapse, handleToggleCollapse)
	d.Register(config.ActionDismissModals, handleDismissModals)
	for i := 1; i <= 9; i++ {
		d.Register(config.ActionOpen+strconv.Itoa(i), makeOpenHandler(i))
	}

	// Gestures
	d.Register(config.ActionMoveMode, makeModeHandler(app.MoveMode))
	d.Register(config.ActionResizeMode, makeModeHandler(app.ResizeMode))

	// System
	d.Register(config.ActionToggleMenu, handleToggleMenu)
	d.Register(config.ActionHelp, handleHelp)
	d.Register(config.ActionQuit, handleQuit)
}

// Register adds or replaces the handler for action.
func (d *ActionDispatcher) Register(action string, handler ActionHandler) {
	d.handlers[action] = handler
}

// Dispatch runs the handler for action. Unknown actions do nothing.
func (d *ActionDispatcher) Dispatch(action string, msg tea.KeyPressMsg, desk *app.Desktop) (tea.Model, tea.Cmd) {
	if handler, ok := d.handlers[action]; ok {
		return handler(msg, desk)
	}
	return desk, nil
}

// HasAction reports whether action has a handler.
func (d *ActionDispatcher) HasAction(action string) bool {
	_, ok := d.handlers[action]
	return ok
}

func handleNextPanel(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	d.CycleFocus(1)
	return d, nil
}

func handlePrevPanel(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	d.CycleFocus(-1)
	return d, nil
}

func handleClosePanel(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	if p := d.Target(); p != nil && p.Template().Options.CanClose() {
		p.Close()
	}
	return d, nil
}

func handleToggleCollapse(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	if p := d.Target(); p != nil {
		p.ToggleHidden()
	}
	return d, nil
}

func handleDismissModals(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	d.Store.DismissModals("")
	return d, nil
}

func makeOpenHandler(n int) ActionHandler {
	return func(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
		d.OpenMenuEntry(n, nil)
		return d, nil
	}
}

func makeModeHandler(m app.Mode) ActionHandler {
	return func(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
		d.SetMode(m)
		return d, nil
	}
}

func handleToggleMenu(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	d.ShowMenu = !d.ShowMenu
	return d, nil
}

func handleHelp(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	d.Open(store.OpenRequest{Template: "help"})
	return d, nil
}

func handleQuit(_ tea.KeyPressMsg, d *app.Desktop) (tea.Model, tea.Cmd) {
	return d.Quit()
}
