package app

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gaurav-Gosain/panels/internal/config"
	"github.com/Gaurav-Gosain/panels/internal/content"
	"github.com/Gaurav-Gosain/panels/internal/drag"
	"github.com/Gaurav-Gosain/panels/internal/geometry"
	"github.com/Gaurav-Gosain/panels/internal/persist"
	"github.com/Gaurav-Gosain/panels/internal/registry"
	"github.com/Gaurav-Gosain/panels/internal/store"
	"github.com/Gaurav-Gosain/panels/internal/window"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

func newDesktop(t *testing.T, opts ...Option) *Desktop {
	t.Helper()
	opts = append([]Option{
		WithIDGenerator(sequentialIDs()),
		WithSampler(func() (content.Usage, error) { return content.Usage{CPU: 12, MemUsed: 1 << 30, MemTotal: 4 << 30}, nil }),
	}, opts...)
	d, err := New(config.DefaultConfig(), opts...)
	require.NoError(t, err)
	t.Cleanup(d.Close)
	return d
}

func TestNew_RegistersTemplates(t *testing.T) {
	d := newDesktop(t)

	for _, name := range []string{"help", "log", "sysinfo", "clock", "geometry", "welcome"} {
		_, ok := d.Registry.Find(name)
		assert.True(t, ok, "template %s", name)
	}
	assert.True(t, d.ShowMenu)
}

func TestNew_DuplicateTemplate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Panels = append(cfg.Panels, config.PanelConfig{Name: "clock", Content: "clock"})

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config templates")
}

func TestResize_MountsOnFirstSize(t *testing.T) {
	d := newDesktop(t)

	d.Store.Open(store.OpenRequest{Template: "welcome"})
	_, ok := d.Panel("p1")
	assert.False(t, ok, "panels wait for the viewport")

	d.Resize(120, 40)
	p, ok := d.Panel("p1")
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X: 38, Y: 1, Width: 44, Height: 9}, p.Rect())
}

func TestResize_KeepsRightAnchor(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)

	x := 80
	d.Store.Open(store.OpenRequest{Template: "welcome", Rect: &geometry.Rect{X: x, Y: 2, Width: 40, Height: 9}})
	p, ok := d.Panel("p1")
	require.True(t, ok)

	d.Resize(100, 40)
	assert.Equal(t, 60, p.Rect().X)
}

func TestOpenClose_Reconciles(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)

	d.Store.Open(store.OpenRequest{Template: "geometry"})
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	require.Len(t, d.Stack(), 2)

	d.Store.Close("p1")
	_, ok := d.Panel("p1")
	assert.False(t, ok)
	require.Len(t, d.Stack(), 1)
	assert.Equal(t, "p2", d.Stack()[0].ID())
}

func TestStack_FollowsOrder(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)

	d.Store.Open(store.OpenRequest{Template: "geometry"})
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	d.Store.BringToFront("p1")

	stack := d.Stack()
	require.Len(t, stack, 2)
	assert.Equal(t, "p2", stack[0].ID())
	assert.Equal(t, "p1", stack[1].ID())
}

func TestStack_FiltersRoute(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Panels = append(cfg.Panels, config.PanelConfig{Name: "admin", Content: "note", Route: "/admin"})
	d, err := New(cfg, WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	defer d.Close()
	d.Resize(120, 40)

	d.Store.Open(store.OpenRequest{Template: "admin"})
	assert.Empty(t, d.Stack())

	d.Route = "/admin"
	assert.Len(t, d.Stack(), 1)
}

func TestPanelAt(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "welcome"})

	p, region := d.PanelAt(40, 1)
	require.NotNil(t, p)
	assert.Equal(t, window.RegionHeader, region)

	_, region = d.PanelAt(79, 1)
	assert.Equal(t, window.RegionClose, region)

	_, region = d.PanelAt(81, 9)
	assert.Equal(t, window.RegionResize, region)

	p, region = d.PanelAt(0, 30)
	assert.Nil(t, p)
	assert.Equal(t, window.RegionNone, region)
}

func TestPanelAt_TopMostWins(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	r := geometry.Rect{X: 10, Y: 5, Width: 40, Height: 10}
	d.Store.Open(store.OpenRequest{Template: "geometry", Rect: &r})
	d.Store.Open(store.OpenRequest{Template: "welcome", Rect: &r})

	p, _ := d.PanelAt(20, 8)
	require.NotNil(t, p)
	assert.Equal(t, "p2", p.ID())

	d.Store.BringToFront("p1")
	p, _ = d.PanelAt(20, 8)
	assert.Equal(t, "p1", p.ID())
}

func TestCycleFocus(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "geometry"})
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	d.Store.Open(store.OpenRequest{Template: "log"})

	d.CycleFocus(1)
	assert.Equal(t, "p1", d.Store.Focus())
	assert.Equal(t, "p1", d.Target().ID())
	assert.True(t, d.Target().Focused())

	d.CycleFocus(1)
	assert.Equal(t, "p2", d.Store.Focus())

	d.CycleFocus(-1)
	d.CycleFocus(-1)
	assert.Equal(t, "p3", d.Store.Focus())
}

func TestTarget_FallsBackToTop(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	assert.Nil(t, d.Target())

	d.Store.Open(store.OpenRequest{Template: "geometry"})
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	assert.Equal(t, "p2", d.Target().ID())
}

func TestOpenMenuEntry_Modal(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "welcome"})

	hint := geometry.Rect{X: 0, Y: 39, Width: 8, Height: 1}
	d.OpenMenuEntry(1, &hint)

	var help *Panel
	for _, p := range d.Stack() {
		if p.Template().Name == "help" {
			help = p
		}
	}
	require.NotNil(t, help)
	assert.Equal(t, 0, help.Rect().X)

	d.Store.OutsideClick(d.Guard)
	assert.Len(t, d.Stack(), 1, "outside click dismisses the modal")
}

func TestOpenMenuEntry_OutOfRange(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.OpenMenuEntry(0, nil)
	d.OpenMenuEntry(42, nil)
	assert.Empty(t, d.Stack())
}

func TestMount_PropsOverlay(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "welcome", Props: map[string]string{"text": "overridden", "title": "Hello"}})

	p, ok := d.Panel("p1")
	require.True(t, ok)
	assert.Contains(t, p.Content.View(40, 5), "overridden")
	assert.Equal(t, "Hello", p.Title())
}

func TestMount_MissingContent(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Panels = append(cfg.Panels, config.PanelConfig{Name: "ghost", Content: "nope"})
	d, err := New(cfg, WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	defer d.Close()
	d.Resize(120, 40)

	d.Store.Open(store.OpenRequest{Template: "ghost"})
	p, ok := d.Panel("p1")
	require.True(t, ok)
	assert.IsType(t, &content.Missing{}, p.Content)
}

func TestGeometryView_SeesResize(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "geometry"})
	p, _ := d.Panel("p1")

	p.KeyboardResize(4, 2)
	assert.Equal(t, "34×11", p.Header())
	assert.Contains(t, p.Content.View(28, 4), "w: 34  h: 11")
}

func TestRender(t *testing.T) {
	d := newDesktop(t)
	assert.Empty(t, d.Render(), "nothing is drawn before the first size")

	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	out := d.Render()

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 40)
	assert.Contains(t, lines[1], "Welcome")
	assert.Contains(t, lines[1], closeGlyph)
	assert.Contains(t, lines[1], collapseOpen)
	assert.Contains(t, lines[39], "Keys")
	assert.Contains(t, lines[39], "PANELS")

	// The panel is drawn at its own rect, not at the origin.
	header := ansi.Strip(lines[1])
	assert.Equal(t, strings.Repeat(" ", 38)+"╭", header[:strings.Index(header, "╭")+len("╭")])
	bottom := ansi.Strip(lines[9])
	assert.True(t, strings.HasPrefix(bottom, strings.Repeat(" ", 38)+"╰"), "bottom border row: %q", bottom)
	assert.NotContains(t, ansi.Strip(lines[0]), "Keys", "menu bar drawn at the top")
}

func TestRender_Hidden(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	p, _ := d.Panel("p1")

	p.ToggleHidden()
	body := d.renderPanel(p)
	assert.NotContains(t, body, "\n")
	assert.Contains(t, body, collapseClosed)
}

func TestRenderHeader_ButtonColumns(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	p, _ := d.Panel("p1")

	header := []rune(ansi.Strip(d.renderHeader(p, d.edgeStyle(p))))
	require.Len(t, header, p.Rect().Width)
	assert.Equal(t, closeGlyph, string(header[p.CloseButtonX()-p.Rect().X]))
	assert.Equal(t, collapseOpen, string(header[p.CollapseButtonX()-p.Rect().X]))
}

func TestMenuItems(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)

	items := d.MenuItems()
	require.NotEmpty(t, items)
	assert.Equal(t, "help", items[0].Template)
	assert.Equal(t, "1", items[0].Key)
	assert.Equal(t, 0, items[0].X)
	assert.Equal(t, items[0].Width, items[1].X)

	n, hint := d.MenuItemAt(items[1].X + 1)
	assert.Equal(t, 2, n)
	assert.Equal(t, 39, hint.Y)
	assert.True(t, d.OnMenuBar(39))
	assert.False(t, d.OnMenuBar(38))
}

func TestUpdate_Messages(t *testing.T) {
	d := newDesktop(t)

	_, cmd := d.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd)
	assert.Equal(t, geometry.Size{Width: 100, Height: 30}, d.Store.Viewport())

	cfg := config.DefaultConfig()
	cfg.Appearance.ShowMenu = false
	d.Update(ConfigReloadedMsg{Config: cfg})
	assert.False(t, d.ShowMenu)

	_, cmd = d.Update(TickMsg(time.Now()))
	assert.NotNil(t, cmd)
}

func TestUpdate_AdvancesGuard(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	p, _ := d.Panel("p1")

	p.KeyboardMove(1, 0)
	assert.True(t, d.Guard.Suppressed(), "a gesture that just ended suppresses outside clicks")

	d.Update(TickMsg(time.Now()))
	assert.False(t, d.Guard.Suppressed())
}

func TestUpdate_DelegatesInput(t *testing.T) {
	var got tea.Msg
	d := newDesktop(t, WithInputHandler(func(msg tea.Msg, d *Desktop) (tea.Model, tea.Cmd) {
		got = msg
		return d, nil
	}))

	key := tea.KeyPressMsg{Code: 'x', Text: "x"}
	d.Update(key)
	assert.Equal(t, key, got)
}

func TestTick_Clock(t *testing.T) {
	now := time.Date(2026, 3, 4, 9, 15, 0, 0, time.UTC)
	d := newDesktop(t, WithClock(func() time.Time { return now }))
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "clock"})
	p, _ := d.Panel("p1")
	assert.Contains(t, p.Content.View(16, 2), "09:15:00")

	d.Tick(now.Add(time.Minute))
	assert.Contains(t, p.Content.View(16, 2), "09:16:00")
}

func TestSetMode_NeedsTarget(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)

	d.SetMode(MoveMode)
	assert.Equal(t, NormalMode, d.Mode)

	d.Store.Open(store.OpenRequest{Template: "welcome"})
	d.SetMode(MoveMode)
	assert.Equal(t, MoveMode, d.Mode)
	assert.Equal(t, "MOVE", d.Mode.String())
}

func TestClose_PersistsLayout(t *testing.T) {
	mem := persist.NewMemoryStorage()
	cfg := config.DefaultConfig()
	cfg.Storage.PersistDelay = "1h"

	d, err := New(cfg, WithStorage(mem, "test"), WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	assert.Equal(t, 0, mem.Writes())

	d.Close()
	assert.Equal(t, 1, mem.Writes())

	layout, err := persist.Load(context.Background(), mem, "test")
	require.NoError(t, err)
	require.Len(t, layout.Panels, 1)
	assert.Equal(t, "welcome", layout.Panels[0].Template)

	d.Close()
	assert.Equal(t, 1, mem.Writes())
}

func TestClose_RestoresOnNextStart(t *testing.T) {
	mem := persist.NewMemoryStorage()
	d, err := New(config.DefaultConfig(), WithStorage(mem, ""), WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	d.Resize(120, 40)
	r := geometry.Rect{X: 5, Y: 6, Width: 40, Height: 10}
	d.Store.Open(store.OpenRequest{Template: "welcome", Rect: &r})
	d.Close()

	d2, err := New(config.DefaultConfig(), WithStorage(mem, ""))
	require.NoError(t, err)
	defer d2.Close()
	d2.Resize(120, 40)

	p, ok := d2.Panel("p1")
	require.True(t, ok)
	assert.Equal(t, r, p.Rect())
}

func TestGuardSharedWithControllers(t *testing.T) {
	d := newDesktop(t)
	d.Resize(120, 40)
	d.Store.Open(store.OpenRequest{Template: "welcome"})
	p, _ := d.Panel("p1")

	require.True(t, p.Press(window.RegionHeader, drag.Sample{X: 40, Y: 1}))
	assert.True(t, d.Guard.Active())
	d.Hub.Move(drag.Sample{X: 45, Y: 3})
	d.Hub.Up()
	assert.False(t, d.Guard.Active())
	assert.Equal(t, geometry.Rect{X: 43, Y: 3, Width: 44, Height: 9}, p.Rect())
}

func newDesktopWith(t *testing.T, panels ...config.PanelConfig) *Desktop {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Panels = append(cfg.Panels, panels...)
	d, err := New(cfg, WithIDGenerator(sequentialIDs()))
	require.NoError(t, err)
	t.Cleanup(d.Close)
	d.Resize(120, 40)
	return d
}

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%02d", i+1)
	}
	return strings.Join(lines, "\n")
}

func TestRender_HeaderBorder(t *testing.T) {
	d := newDesktopWith(t,
		config.PanelConfig{Name: "ruled", Content: "note", MinWidth: 10, MinHeight: 3, Width: 20, Height: 6, HeaderBorder: true},
		config.PanelConfig{Name: "plain", Content: "note", MinWidth: 10, MinHeight: 3, Width: 20, Height: 6},
	)
	d.Store.Open(store.OpenRequest{Template: "ruled", Props: map[string]string{"text": numberedLines(10)}})
	d.Store.Open(store.OpenRequest{Template: "plain", Props: map[string]string{"text": numberedLines(10)}})

	ruled, _ := d.Panel("p1")
	lines := strings.Split(ansi.Strip(d.renderPanel(ruled)), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "├"+strings.Repeat("─", 18)+"┤", lines[1])
	assert.Contains(t, lines[2], "l01", "content starts below the separator")

	plain, _ := d.Panel("p2")
	lines = strings.Split(ansi.Strip(d.renderPanel(plain)), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[1], "l01")
	assert.NotContains(t, lines[1], "├")
}

func TestRender_BackgroundOpacity(t *testing.T) {
	d := newDesktopWith(t,
		config.PanelConfig{Name: "shaded", Content: "note", MinWidth: 10, MinHeight: 3, Width: 20, Height: 6, BackgroundOpacity: 0.5},
		config.PanelConfig{Name: "clear", Content: "note", MinWidth: 10, MinHeight: 3, Width: 20, Height: 6},
	)
	d.Store.Open(store.OpenRequest{Template: "shaded"})
	d.Store.Open(store.OpenRequest{Template: "clear"})

	shaded, _ := d.Panel("p1")
	unshaded, _ := d.Panel("p2")
	assert.Contains(t, strings.Split(d.renderPanel(shaded), "\n")[1], "48;2;", "shaded body sets a background")
	assert.NotContains(t, strings.Split(d.renderPanel(unshaded), "\n")[1], "48;2;")

	full := rgb(panelBackground(1))
	half := rgb(panelBackground(0.5))
	for i := range full {
		assert.LessOrEqual(t, half[i], full[i], "lower opacity is darker")
	}
	assert.Equal(t, rgb(panelBackground(1)), rgb(panelBackground(3)), "opacity is capped at 1")
}

func rgb(c color.Color) [3]uint32 {
	r, g, b, _ := c.RGBA()
	return [3]uint32{r >> 8, g >> 8, b >> 8}
}

func TestPanel_Scroll(t *testing.T) {
	d := newDesktopWith(t,
		config.PanelConfig{Name: "long", Content: "note", MinWidth: 10, MinHeight: 3, Width: 20, Height: 6},
		config.PanelConfig{Name: "fixed", Content: "note", MinWidth: 10, MinHeight: 3, Width: 20, Height: 6, Scrollable: registry.Bool(false)},
	)
	d.Store.Open(store.OpenRequest{Template: "long", Props: map[string]string{"text": numberedLines(20)}})
	d.Store.Open(store.OpenRequest{Template: "fixed", Props: map[string]string{"text": numberedLines(20)}})

	long, _ := d.Panel("p1")
	lines, above, below := long.visibleBody(18, 4)
	assert.Equal(t, []string{"l01", "l02", "l03", "l04"}, lines)
	assert.False(t, above)
	assert.True(t, below)
	assert.Contains(t, ansi.Strip(d.renderPanel(long)), scrollDown)

	long.ScrollBy(2)
	lines, above, below = long.visibleBody(18, 4)
	assert.Equal(t, []string{"l03", "l04", "l05", "l06"}, lines)
	assert.True(t, above)
	assert.True(t, below)

	long.ScrollBy(100)
	lines, above, below = long.visibleBody(18, 4)
	assert.Equal(t, []string{"l17", "l18", "l19", "l20"}, lines)
	assert.Equal(t, 16, long.Scroll(), "offset is clamped to the content")
	assert.True(t, above)
	assert.False(t, below)
	out := ansi.Strip(d.renderPanel(long))
	assert.Contains(t, out, scrollUp)
	assert.NotContains(t, out, scrollDown)

	long.ScrollBy(-100)
	assert.Equal(t, 0, long.Scroll())

	fixed, _ := d.Panel("p2")
	fixed.ScrollBy(3)
	assert.Equal(t, 0, fixed.Scroll())
	lines, above, below = fixed.visibleBody(18, 4)
	assert.Equal(t, []string{"l01", "l02", "l03", "l04"}, lines)
	assert.False(t, above)
	assert.False(t, below)
	out = ansi.Strip(d.renderPanel(fixed))
	assert.NotContains(t, out, scrollDown)
	assert.NotContains(t, out, "l05")
}
