package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/panels/internal/config"
)

// TickInterval is how often contents are refreshed.
const TickInterval = 250 * time.Millisecond

// TickMsg drives Ticker contents.
type TickMsg time.Time

// ConfigReloadedMsg carries a configuration read after the file changed.
type ConfigReloadedMsg struct {
	Config *config.UserConfig
}

// InputHandler handles keyboard and mouse messages. It is injected so the
// input package can depend on this one.
type InputHandler func(msg tea.Msg, d *Desktop) (tea.Model, tea.Cmd)

// TickCmd schedules the next tick.
func TickCmd() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init starts the tick loop.
func (d *Desktop) Init() tea.Cmd {
	return TickCmd()
}

// Update handles a message. The drag guard advances first, so a token
// issued while handling the previous message no longer suppresses clicks.
func (d *Desktop) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	d.Guard.Advance()

	switch msg := msg.(type) {
	case TickMsg:
		d.Tick(time.Time(msg))
		return d, TickCmd()

	case tea.WindowSizeMsg:
		d.Resize(msg.Width, msg.Height)
		return d, nil

	case ConfigReloadedMsg:
		if msg.Config != nil {
			d.ApplyConfig(msg.Config)
			d.Logger.Info("configuration reloaded")
		}
		return d, nil

	case tea.KeyPressMsg, tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		if d.input != nil {
			return d.input(msg, d)
		}
	}
	return d, nil
}

// Quit writes the pending layout and stops the program.
func (d *Desktop) Quit() (tea.Model, tea.Cmd) {
	d.Store.Flush()
	return d, tea.Quit
}
