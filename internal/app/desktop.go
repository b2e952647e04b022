// Package app implements the panel desktop: a Bubble Tea model that mounts a
// window controller and a content for every open panel, keeps them in sync
// with the store, and draws them back to front.
package app

import (
	"cmp"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/log/v2"

	"github.com/Gaurav-Gosain/panels/internal/config"
	"github.com/Gaurav-Gosain/panels/internal/content"
	"github.com/Gaurav-Gosain/panels/internal/drag"
	"github.com/Gaurav-Gosain/panels/internal/events"
	"github.com/Gaurav-Gosain/panels/internal/geometry"
	"github.com/Gaurav-Gosain/panels/internal/persist"
	"github.com/Gaurav-Gosain/panels/internal/registry"
	"github.com/Gaurav-Gosain/panels/internal/store"
	"github.com/Gaurav-Gosain/panels/internal/theme"
	"github.com/Gaurav-Gosain/panels/internal/window"
)

// Mode is the keyboard mode of the desktop.
type Mode int

const (
	// NormalMode dispatches keys to actions.
	NormalMode Mode = iota
	// MoveMode moves the target panel with the direction keys.
	MoveMode
	// ResizeMode resizes the target panel with the direction keys.
	ResizeMode
)

func (m Mode) String() string {
	switch m {
	case MoveMode:
		return "MOVE"
	case ResizeMode:
		return "RESIZE"
	}
	return "PANELS"
}

// Panel is a mounted instance: its window controller and its content.
type Panel struct {
	*window.Controller
	Content content.Panel

	scroll int
}

// Scroll returns the index of the first content line shown.
func (p *Panel) Scroll() int { return p.scroll }

// ScrollBy moves the content by delta lines. It is a no-op for panels whose
// template disables scrolling. The upper bound is applied when drawing.
func (p *Panel) ScrollBy(delta int) {
	if !p.Template().Options.CanScroll() {
		return
	}
	p.scroll = max(p.scroll+delta, 0)
}

// visibleBody returns the content lines that fit in a body of width by
// rows, and whether more content lies above or below them. Panels that do
// not scroll are cut at the bottom.
func (p *Panel) visibleBody(width, rows int) (lines []string, above, below bool) {
	if rows <= 0 || width <= 0 {
		return nil, false, false
	}
	if !p.Template().Options.CanScroll() {
		lines = strings.Split(p.Content.View(width, rows), "\n")
		return lines[:min(len(lines), rows)], false, false
	}

	// Ask for one line past the window to learn whether more follows.
	all := strings.Split(p.Content.View(width, p.scroll+rows+1), "\n")
	p.scroll = min(p.scroll, max(len(all)-rows, 0))
	end := min(p.scroll+rows, len(all))
	return all[p.scroll:end], p.scroll > 0, len(all) > end
}

// Desktop is the Bubble Tea model.
type Desktop struct {
	Width, Height int
	Mode          Mode
	ShowMenu      bool
	// Route selects which templates are shown, see registry.Options.Pathname.
	Route string

	Store     *store.Store
	Registry  *registry.Registry
	Catalog   *content.Catalog
	Keys      *config.KeybindRegistry
	Hub       *drag.Hub
	Guard     *drag.Guard
	Logger    *log.Logger
	LogBuffer *content.LogBuffer

	border  lipgloss.Border
	panels  map[string]*Panel
	unsub   []events.UnsubscribeFunc
	input   InputHandler
	closed  bool
	started time.Time
}

type options struct {
	storage    persist.Storage
	storageKey string
	route      string
	input      InputHandler
	logWriter  io.Writer
	level      log.Level
	sampler    content.Sampler
	now        func() time.Time
	newID      func() string
}

// Option configures a Desktop.
type Option func(*options)

// WithStorage persists the layout to s under key.
func WithStorage(s persist.Storage, key string) Option {
	return func(o *options) {
		o.storage = s
		o.storageKey = key
	}
}

// WithRoute sets the route used to filter templates.
func WithRoute(route string) Option {
	return func(o *options) { o.route = route }
}

// WithInputHandler sets the function keyboard and mouse messages go to.
func WithInputHandler(h InputHandler) Option {
	return func(o *options) { o.input = h }
}

// WithLogWriter copies log output to w, in addition to the log panel.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithLogLevel sets the minimum log level.
func WithLogLevel(level log.Level) Option {
	return func(o *options) { o.level = level }
}

// WithSampler replaces the host CPU and memory sampler.
func WithSampler(s content.Sampler) Option {
	return func(o *options) { o.sampler = s }
}

// WithClock replaces time.Now for the clock panel.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the instance id generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// New builds a desktop from cfg. The built-in templates are registered
// first, then the ones from the config.
func New(cfg *config.UserConfig, opts ...Option) (*Desktop, error) {
	o := options{level: log.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}

	buf := content.NewLogBuffer(500)
	var w io.Writer = buf
	if o.logWriter != nil {
		w = io.MultiWriter(buf, o.logWriter)
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "panels",
		Level:           o.level,
	})

	reg := registry.New()
	if err := reg.Register(BuiltinTemplates()...); err != nil {
		return nil, fmt.Errorf("register built-in templates: %w", err)
	}
	if err := reg.Register(cfg.Templates()...); err != nil {
		return nil, fmt.Errorf("register config templates: %w", err)
	}

	storeOpts := []store.Option{
		store.WithPolicy(cfg.Policy()),
		store.WithPersistDelay(cfg.PersistDelay()),
		store.WithLogger(logger.WithPrefix("store")),
	}
	if o.storage != nil {
		storeOpts = append(storeOpts, store.WithStorage(o.storage, o.storageKey))
	}
	if cfg.Storage.LegacyClose {
		storeOpts = append(storeOpts, store.WithLegacyClose())
	}
	if o.newID != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(o.newID))
	}

	d := &Desktop{
		Route:     o.route,
		Registry:  reg,
		Store:     store.New(reg, storeOpts...),
		Hub:       drag.NewHub(),
		Guard:     drag.NewGuard(),
		Logger:    logger,
		LogBuffer: buf,
		panels:    make(map[string]*Panel),
		input:     o.input,
		started:   time.Now(),
	}
	d.Catalog = content.Builtins(content.BuiltinDeps{
		Log:      buf,
		Bindings: d.bindings,
		Now:      o.now,
		Sample:   o.sampler,
	})
	for _, t := range reg.All() {
		if !d.Catalog.Has(t.Content) {
			logger.Warn("template uses an unknown content kind", "template", t.Name, "content", t.Content)
		}
	}
	d.ApplyConfig(cfg)

	d.unsub = append(d.unsub, d.Store.Subscribe(store.EventList, func(e store.Event) {
		d.reconcile(e.List)
	}))
	return d, nil
}

// ApplyConfig applies the settings that can change while running:
// appearance and keybindings.
func (d *Desktop) ApplyConfig(cfg *config.UserConfig) {
	if err := theme.Initialize(cfg.Appearance.Theme); err != nil {
		d.Logger.Warn("theme", "err", err)
	}
	theme.SetFocusColor(cfg.Appearance.FocusColor)
	d.border = borderFor(cfg.Appearance.BorderStyle)
	d.ShowMenu = cfg.Appearance.ShowMenu
	d.Keys = config.NewKeybindRegistry(cfg)
}

// Viewport returns the terminal size.
func (d *Desktop) Viewport() geometry.Size {
	return geometry.Size{Width: d.Width, Height: d.Height}
}

// Resize records a new terminal size. Panels are mounted on the first
// resize, once their default placement can be computed.
func (d *Desktop) Resize(width, height int) {
	first := !d.Viewport().Known()
	d.Width, d.Height = width, height
	size := d.Viewport()
	d.Store.SetViewport(size)

	if first {
		d.reconcile(d.Store.State().List)
		return
	}
	for _, p := range d.panels {
		p.ViewportResized(size)
	}
}

// reconcile mounts new instances and unmounts closed ones.
func (d *Desktop) reconcile(list []store.Instance) {
	if d.closed || !d.Viewport().Known() {
		return
	}

	live := make(map[string]struct{}, len(list))
	for _, inst := range list {
		live[inst.ID] = struct{}{}
	}
	for id, p := range d.panels {
		if _, ok := live[id]; !ok {
			d.unmount(p)
		}
	}
	for _, inst := range list {
		if _, ok := d.panels[inst.ID]; !ok {
			d.mount(inst)
		}
	}
}

func (d *Desktop) mount(inst store.Instance) {
	tmpl, ok := d.Registry.Find(inst.Template)
	if !ok {
		return
	}

	em := content.NewEmitter()
	ctrl := window.New(inst, window.Deps{
		Store:    d.Store,
		Template: tmpl,
		Policy:   d.Store.Policy(),
		Source:   d.Hub,
		Guard:    d.Guard,
		Viewport: d.Viewport(),
		Events:   em,
	})

	body, err := d.Catalog.New(tmpl.Content)
	if err != nil {
		body = &content.Missing{Kind: tmpl.Content}
	}

	values := make(map[string]string, len(tmpl.Props)+len(inst.Props))
	maps.Copy(values, tmpl.Props)
	maps.Copy(values, inst.Props)

	id := inst.ID
	body.Mount(content.Context{
		Props: content.Props{
			ID:           id,
			Template:     tmpl.Name,
			Rect:         ctrl.Rect(),
			HiddenWindow: ctrl.Hidden(),
			Values:       values,
		},
		Hooks: content.Hooks{
			SetTitle:        func(s string) { d.Store.SetTitle(id, s) },
			SetHeader:       ctrl.SetHeader,
			SetHiddenWindow: ctrl.SetHidden,
		},
		Events: em,
	})

	d.panels[id] = &Panel{Controller: ctrl, Content: body}
	d.Logger.Debug("mounted panel", "template", tmpl.Name, "id", id, "rect", ctrl.Rect())
}

func (d *Desktop) unmount(p *Panel) {
	if u, ok := p.Content.(content.Unmounter); ok {
		u.Unmount()
	}
	p.Unmount()
	delete(d.panels, p.ID())
	d.Logger.Debug("unmounted panel", "id", p.ID())
}

// Panel returns the mounted panel with id.
func (d *Desktop) Panel(id string) (*Panel, bool) {
	p, ok := d.panels[id]
	return p, ok
}

// Stack returns the visible panels back to front.
func (d *Desktop) Stack() []*Panel {
	var out []*Panel
	for _, id := range d.Store.Order() {
		p, ok := d.panels[id]
		if !ok || !p.Template().VisibleOn(d.Route) {
			continue
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b *Panel) int {
		return cmp.Compare(a.Z(), b.Z())
	})
	return out
}

// PanelAt returns the top-most panel covering (x, y) and the region hit.
func (d *Desktop) PanelAt(x, y int) (*Panel, window.Region) {
	stack := d.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		if r := stack[i].Region(x, y); r != window.RegionNone {
			return stack[i], r
		}
	}
	return nil, window.RegionNone
}

// Target is the panel keyboard actions apply to: the focused panel, or
// else the top of the stack.
func (d *Desktop) Target() *Panel {
	if p, ok := d.panels[d.Store.Focus()]; ok && p.Template().VisibleOn(d.Route) {
		return p
	}
	stack := d.Stack()
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// CycleFocus focuses the panel delta steps away from the target, in the
// order panels were opened, and raises it.
func (d *Desktop) CycleFocus(delta int) {
	var ids []string
	for _, inst := range d.Store.State().List {
		if p, ok := d.panels[inst.ID]; ok && p.Template().VisibleOn(d.Route) {
			ids = append(ids, inst.ID)
		}
	}
	if len(ids) == 0 {
		return
	}

	next := 0
	if t := d.Target(); t != nil {
		if i := slices.Index(ids, t.ID()); i >= 0 {
			next = ((i+delta)%len(ids) + len(ids)) % len(ids)
		}
	}
	id := ids[next]
	d.Store.BringToFront(id)
	d.Store.SetFocus(id)
}

// Open opens template, as a modal when the template is one.
func (d *Desktop) Open(req store.OpenRequest) {
	tmpl, ok := d.Registry.Find(req.Template)
	if ok && tmpl.Options.IsModal {
		d.Store.ShowModal(req)
		return
	}
	d.Store.Open(req)
}

// OpenMenuEntry opens the nth (1-based) template of the menu.
func (d *Desktop) OpenMenuEntry(n int, hint *geometry.Rect) {
	menu := d.Registry.Menu(d.Route)
	if n < 1 || n > len(menu) {
		return
	}
	d.Open(store.OpenRequest{Template: menu[n-1].Name, Hint: hint})
}

// SetMode switches the keyboard mode. Gesture modes need a target.
func (d *Desktop) SetMode(m Mode) {
	if m != NormalMode && d.Target() == nil {
		return
	}
	d.Mode = m
}

// Tick forwards the desktop tick to contents that want it.
func (d *Desktop) Tick(now time.Time) {
	for _, p := range d.panels {
		if t, ok := p.Content.(content.Ticker); ok {
			t.Tick(now)
		}
	}
}

// Close unmounts every panel and writes any pending layout. The desktop
// ignores store changes afterwards.
func (d *Desktop) Close() {
	if d.closed {
		return
	}
	for _, u := range d.unsub {
		u()
	}
	d.unsub = nil
	for _, p := range d.panels {
		d.unmount(p)
	}
	d.closed = true
	d.Store.Flush()
	d.Logger.Info("desktop closed", "uptime", time.Since(d.started).Round(time.Second))
}

// bindings lists the keybindings for the help panel.
func (d *Desktop) bindings() []content.Binding {
	var out []content.Binding
	for _, section := range config.GetKeybindings(d.Keys) {
		for _, b := range section.Bindings {
			out = append(out, content.Binding{Action: b.Description, Keys: b.Key})
		}
	}
	return out
}
