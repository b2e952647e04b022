package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/panels/internal/events"
	"github.com/Gaurav-Gosain/panels/internal/geometry"
)

// Binding is one row of the help panel.
type Binding struct {
	Action string
	Keys   string
}

// BuiltinDeps are the desktop services the built-in contents read from.
type BuiltinDeps struct {
	// Log backs the log panel.
	Log *LogBuffer
	// Bindings lists the active keybindings for the help panel.
	Bindings func() []Binding
	// Now is the clock used by the clock panel. Defaults to time.Now.
	Now func() time.Time
	// Sample reads CPU and memory usage for the sysinfo panel.
	Sample Sampler
}

// Builtins returns a catalog with every built-in content kind.
func Builtins(deps BuiltinDeps) *Catalog {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sample == nil {
		deps.Sample = HostSampler
	}

	c := NewCatalog()
	c.Add("note", func() Panel { return &Note{} })
	c.Add("clock", func() Panel { return &Clock{now: deps.Now} })
	c.Add("geometry", func() Panel { return &GeometryView{} })
	c.Add("help", func() Panel { return &Help{bindings: deps.Bindings} })
	c.Add("log", func() Panel { return &Log{buf: deps.Log} })
	c.Add("sysinfo", func() Panel { return NewSysInfo(deps.Sample) })
	return c
}

// fit trims lines to width×height cells.
func fit(lines []string, width, height int) string {
	if height <= 0 || width <= 0 {
		return ""
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = ansi.Truncate(l, width, "…")
	}
	return strings.Join(out, "\n")
}

// wrap breaks text on spaces so no line exceeds width cells.
func wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, strings.Split(ansi.Wordwrap(para, width, ""), "\n")...)
	}
	return lines
}

// Note shows the "text" prop.
type Note struct {
	text string
}

func (n *Note) Mount(ctx Context) {
	n.text = ctx.Props.Value("text", "")
	if title := ctx.Props.Value("title", ""); title != "" && ctx.Hooks.SetTitle != nil {
		ctx.Hooks.SetTitle(title)
	}
}

func (n *Note) View(width, height int) string {
	return fit(wrap(n.text, width), width, height)
}

// Clock shows the current time.
type Clock struct {
	now    func() time.Time
	t      time.Time
	layout string
}

func (c *Clock) Mount(ctx Context) {
	c.layout = ctx.Props.Value("format", "15:04:05")
	c.t = c.now()
}

func (c *Clock) Tick(now time.Time) { c.t = now }

func (c *Clock) View(width, height int) string {
	lines := []string{c.t.Format(c.layout), c.t.Format("Mon Jan 2 2006")}
	return fit(lines, width, height)
}

// GeometryView displays its own window rectangle as it moves and resizes.
type GeometryView struct {
	rect    geometry.Rect
	moves   int
	resizes int
	unsub   []events.UnsubscribeFunc
	header  func(string)
}

func (g *GeometryView) Mount(ctx Context) {
	g.rect = ctx.Props.Rect
	g.header = ctx.Hooks.SetHeader
	if ctx.Events == nil {
		return
	}
	g.unsub = append(g.unsub,
		ctx.Events.On(EventUpdatePos, func(r geometry.Rect) {
			g.rect = r
			g.moves++
		}),
		ctx.Events.On(EventUpdateSize, func(r geometry.Rect) {
			g.rect = r
			g.resizes++
			if g.header != nil {
				g.header(fmt.Sprintf("%d×%d", r.Width, r.Height))
			}
		}),
	)
}

func (g *GeometryView) Unmount() {
	for _, u := range g.unsub {
		u()
	}
	g.unsub = nil
}

func (g *GeometryView) View(width, height int) string {
	lines := []string{
		fmt.Sprintf("x: %d  y: %d", g.rect.X, g.rect.Y),
		fmt.Sprintf("w: %d  h: %d", g.rect.Width, g.rect.Height),
		fmt.Sprintf("moves: %d  resizes: %d", g.moves, g.resizes),
	}
	return fit(lines, width, height)
}

// Help lists the keybindings.
type Help struct {
	bindings func() []Binding
}

func (h *Help) Mount(Context) {}

func (h *Help) View(width, height int) string {
	if h.bindings == nil {
		return ""
	}
	rows := h.bindings()
	actionWidth := 0
	for _, b := range rows {
		actionWidth = max(actionWidth, ansi.StringWidth(b.Action))
	}
	lines := make([]string, 0, len(rows))
	for _, b := range rows {
		lines = append(lines, fmt.Sprintf("%-*s  %s", actionWidth, b.Action, b.Keys))
	}
	return fit(lines, width, height)
}

// Log tails the desktop log.
type Log struct {
	buf *LogBuffer
}

func (l *Log) Mount(Context) {}

func (l *Log) View(width, height int) string {
	if l.buf == nil {
		return ""
	}
	return fit(l.buf.Tail(height), width, height)
}
