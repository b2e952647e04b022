// Package config loads the user configuration: appearance, placement
// policy, layout storage, keybindings and extra panel templates.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/panels/internal/content"
	"github.com/Gaurav-Gosain/panels/internal/geometry"
	"github.com/Gaurav-Gosain/panels/internal/persist"
	"github.com/Gaurav-Gosain/panels/internal/registry"
)

// UserConfig is the on-disk configuration.
type UserConfig struct {
	Appearance  AppearanceConfig  `toml:"appearance"`
	Geometry    GeometryConfig    `toml:"geometry"`
	Storage     StorageConfig     `toml:"storage"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
	Panels      []PanelConfig     `toml:"panels,omitempty"`
}

// AppearanceConfig controls colors and chrome.
type AppearanceConfig struct {
	// Theme is a bubbletint theme id. Empty uses the terminal's own colors.
	Theme       string `toml:"theme"`
	BorderStyle string `toml:"border_style"`
	// FocusColor overrides the border color of the focused panel.
	FocusColor string `toml:"focus_color,omitempty"`
	ShowMenu   bool   `toml:"show_menu"`
}

// GeometryConfig mirrors geometry.Policy.
type GeometryConfig struct {
	Edges         geometry.Edges `toml:"edges"`
	OpenTopMargin int            `toml:"open_top_margin"`
	InitialTop    int            `toml:"initial_top"`
	HeaderHeight  int            `toml:"header_height"`
	MinWidth      int            `toml:"min_width"`
	MinHeight     int            `toml:"min_height"`
}

// StorageConfig selects where the layout is saved.
type StorageConfig struct {
	Backend string `toml:"backend"`
	// Path overrides the backend's default location.
	Path         string `toml:"path,omitempty"`
	Key          string `toml:"key"`
	PersistDelay string `toml:"persist_delay"`
	LegacyClose  bool   `toml:"legacy_close"`
}

// KeybindingsConfig maps actions to keys, grouped the way the help panel
// shows them.
type KeybindingsConfig struct {
	Panels   map[string][]string `toml:"panels"`
	Gestures map[string][]string `toml:"gestures"`
	System   map[string][]string `toml:"system"`
}

// PanelConfig declares a template backed by a built-in content kind.
type PanelConfig struct {
	Name    string `toml:"name"`
	Title   string `toml:"title,omitempty"`
	Content string `toml:"content"`

	MinWidth  int  `toml:"min_width,omitempty"`
	MinHeight int  `toml:"min_height,omitempty"`
	Width     int  `toml:"width,omitempty"`
	Height    int  `toml:"height,omitempty"`
	X         *int `toml:"x,omitempty"`
	Y         *int `toml:"y,omitempty"`

	Single    bool   `toml:"single,omitempty"`
	Group     string `toml:"group,omitempty"`
	Resizable *bool  `toml:"resizable,omitempty"`
	Moveable  *bool  `toml:"moveable,omitempty"`
	Closable  *bool  `toml:"closable,omitempty"`
	// Scrollable panels scroll content that overflows the body. Default true.
	Scrollable *bool `toml:"scrollable,omitempty"`
	Modal      bool  `toml:"modal,omitempty"`
	Transient bool   `toml:"remove_on_close,omitempty"`
	Route     string `toml:"route,omitempty"`
	ZIndex    int    `toml:"z_index,omitempty"`
	Hidden    bool   `toml:"hidden_in_menu,omitempty"`
	Collapsed bool   `toml:"collapsed,omitempty"`
	// HeaderBorder draws a separator row under the header.
	HeaderBorder bool `toml:"header_border,omitempty"`
	// BackgroundOpacity shades the body, from 0 (terminal background) to 1.
	BackgroundOpacity float64 `toml:"background_opacity,omitempty"`

	Props map[string]string `toml:"props,omitempty"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() *UserConfig {
	p := geometry.DefaultPolicy()
	return &UserConfig{
		Appearance: AppearanceConfig{
			BorderStyle: "rounded",
			ShowMenu:    true,
		},
		Geometry: GeometryConfig{
			Edges:         p.Edges,
			OpenTopMargin: p.OpenTopMargin,
			InitialTop:    p.InitialTop,
			HeaderHeight:  p.HeaderHeight,
			MinWidth:      p.DefaultMinWidth,
			MinHeight:     p.DefaultMinHeight,
		},
		Storage: StorageConfig{
			Backend:      persist.BackendFile,
			Key:          persist.DefaultKey,
			PersistDelay: "200ms",
		},
		Keybindings: defaultKeybindings(),
		Panels: []PanelConfig{
			{
				Name:    "welcome",
				Title:   "Welcome",
				Content: "note",
				Width:   44,
				Height:  9,
				Single:  true,
				Props: map[string]string{
					"text": "Drag a header to move a panel, drag the bottom right corner to resize it. Press ? for keys.",
				},
			},
		},
	}
}

func defaultKeybindings() KeybindingsConfig {
	return KeybindingsConfig{
		Panels: map[string][]string{
			ActionNextPanel:      {"tab"},
			ActionPrevPanel:      {"shift+tab"},
			ActionClosePanel:     {"x"},
			ActionToggleCollapse: {"c"},
			ActionDismissModals:  {"esc"},
			ActionOpen + "1":     {"1"},
			ActionOpen + "2":     {"2"},
			ActionOpen + "3":     {"3"},
			ActionOpen + "4":     {"4"},
			ActionOpen + "5":     {"5"},
			ActionOpen + "6":     {"6"},
			ActionOpen + "7":     {"7"},
			ActionOpen + "8":     {"8"},
			ActionOpen + "9":     {"9"},
		},
		Gestures: map[string][]string{
			ActionMoveMode:   {"m"},
			ActionResizeMode: {"r"},
			ActionLeft:       {"left", "h"},
			ActionRight:      {"right", "l"},
			ActionUp:         {"up", "k"},
			ActionDown:       {"down", "j"},
			ActionConfirm:    {"enter"},
		},
		System: map[string][]string{
			ActionToggleMenu: {"ctrl+t"},
			ActionHelp:       {"?"},
			ActionQuit:       {"q", "ctrl+c"},
		},
	}
}

// Policy converts the geometry section. Missing values keep the defaults.
func (c *UserConfig) Policy() geometry.Policy {
	p := geometry.DefaultPolicy()
	g := c.Geometry
	p.Edges = g.Edges
	if g.OpenTopMargin > 0 {
		p.OpenTopMargin = g.OpenTopMargin
	}
	if g.InitialTop > 0 {
		p.InitialTop = g.InitialTop
	}
	if g.HeaderHeight > 0 {
		p.HeaderHeight = g.HeaderHeight
	}
	if g.MinWidth > 0 {
		p.DefaultMinWidth = g.MinWidth
	}
	if g.MinHeight > 0 {
		p.DefaultMinHeight = g.MinHeight
	}
	return p
}

// PersistDelay parses the storage debounce delay, falling back to 200ms.
func (c *UserConfig) PersistDelay() time.Duration {
	d, err := time.ParseDuration(c.Storage.PersistDelay)
	if err != nil || d < 0 {
		return 200 * time.Millisecond
	}
	return d
}

// Templates converts the [[panels]] entries.
func (c *UserConfig) Templates() []registry.Template {
	out := make([]registry.Template, 0, len(c.Panels))
	for _, p := range c.Panels {
		out = append(out, p.Template())
	}
	return out
}

// Template converts one entry.
func (p PanelConfig) Template() registry.Template {
	return registry.Template{
		Name:          p.Name,
		Title:         p.Title,
		Content:       p.Content,
		Props:         p.Props,
		MinWidth:      p.MinWidth,
		MinHeight:     p.MinHeight,
		DefaultWidth:  p.Width,
		DefaultHeight: p.Height,
		DefaultX:      p.X,
		DefaultY:      p.Y,
		Options: registry.Options{
			Single:              p.Single,
			Group:               p.Group,
			Resizable:           p.Resizable,
			Moveable:            p.Moveable,
			Closable:            p.Closable,
			Scrollable:          p.Scrollable,
			IsModal:             p.Modal,
			RemoveOnWindowClose: p.Transient,
			Pathname:            p.Route,
			ZIndexBase:          p.ZIndex,
			HiddenInMenu:        p.Hidden,
			HiddenWindow:        p.Collapsed,
			HeaderBorder:        p.HeaderBorder,
			BackgroundOpacity:   p.BackgroundOpacity,
		},
	}
}

// GetConfigPath returns $XDG_CONFIG_HOME/panels/config.toml.
func GetConfigPath() (string, error) {
	path, err := xdg.ConfigFile(filepath.Join("panels", "config.toml"))
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return path, nil
}

// LoadUserConfig reads the config file, writing the defaults first if it
// does not exist yet.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path, creating it with defaults if missing.
// Sections absent from the file keep their default values.
func LoadFrom(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults.
func Parse(data []byte) (*UserConfig, error) {
	cfg := DefaultConfig()
	// [[panels]] in the file replaces the default list instead of merging into it.
	cfg.Panels = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	fillKeybindings(&cfg.Keybindings)
	return cfg, nil
}

// fillKeybindings restores defaults for actions the file left out.
func fillKeybindings(kb *KeybindingsConfig) {
	def := defaultKeybindings()
	fill := func(dst *map[string][]string, src map[string][]string) {
		if *dst == nil {
			*dst = map[string][]string{}
		}
		for action, keys := range src {
			if _, ok := (*dst)[action]; !ok {
				(*dst)[action] = keys
			}
		}
	}
	fill(&kb.Panels, def.Panels)
	fill(&kb.Gestures, def.Gestures)
	fill(&kb.System, def.System)
}

// Save writes cfg to path with a short header.
func Save(path string, cfg *UserConfig) error {
	data, err := Marshal(cfg, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Marshal encodes cfg as TOML, prefixed with a comment header naming path.
func Marshal(cfg *UserConfig, path string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# panels configuration\n")
	buf.WriteString("# Keybindings map an action to a list of keys.\n")
	buf.WriteString("# [[panels]] entries add templates backed by the built-in contents:\n")
	buf.WriteString("# " + strings.Join(content.Builtins(content.BuiltinDeps{}).Kinds(), ", ") + "\n")
	if path != "" {
		buf.WriteString("#\n# Location: " + path + "\n")
	}
	buf.WriteString("\n")

	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf.Bytes(), nil
}
