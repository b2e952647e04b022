package config

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

// Action names used in the [keybindings] tables.
const (
	ActionNextPanel      = "next_panel"
	ActionPrevPanel      = "prev_panel"
	ActionClosePanel     = "close_panel"
	ActionToggleCollapse = "toggle_collapse"
	ActionDismissModals  = "dismiss_modals"
	// ActionOpen is suffixed with 1-9: the nth template in the menu.
	ActionOpen = "open_"

	ActionMoveMode   = "move_mode"
	ActionResizeMode = "resize_mode"
	ActionLeft       = "left"
	ActionRight      = "right"
	ActionUp         = "up"
	ActionDown       = "down"
	ActionConfirm    = "confirm"

	ActionToggleMenu = "toggle_menu"
	ActionHelp       = "help"
	ActionQuit       = "quit"
)

// ActionDescriptions are the human names shown in help and the CLI.
var ActionDescriptions = map[string]string{
	ActionNextPanel:      "Focus next panel",
	ActionPrevPanel:      "Focus previous panel",
	ActionClosePanel:     "Close panel",
	ActionToggleCollapse: "Collapse/expand panel",
	ActionDismissModals:  "Dismiss modals",
	ActionMoveMode:       "Move panel with keys",
	ActionResizeMode:     "Resize panel with keys",
	ActionLeft:           "Left",
	ActionRight:          "Right",
	ActionUp:             "Up",
	ActionDown:           "Down",
	ActionConfirm:        "Finish move/resize",
	ActionToggleMenu:     "Toggle menu bar",
	ActionHelp:           "Open help",
	ActionQuit:           "Quit",
}

func init() {
	for i := 1; i <= 9; i++ {
		ActionDescriptions[fmt.Sprintf("%s%d", ActionOpen, i)] = fmt.Sprintf("Open menu entry %d", i)
	}
}

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// KeybindRegistry resolves keys to actions.
type KeybindRegistry struct {
	bindings map[string]key.Binding
	actions  []string
	byKey    map[string]string
}

// NewKeybindRegistry builds a registry from cfg. When two actions claim
// the same key, the action that sorts first wins the reverse lookup.
func NewKeybindRegistry(cfg *UserConfig) *KeybindRegistry {
	r := &KeybindRegistry{
		bindings: make(map[string]key.Binding),
		byKey:    make(map[string]string),
	}
	for _, section := range []map[string][]string{
		cfg.Keybindings.Panels,
		cfg.Keybindings.Gestures,
		cfg.Keybindings.System,
	} {
		for action, keys := range section {
			normalized := make([]string, 0, len(keys))
			for _, k := range keys {
				if ValidateKey(k) != nil {
					continue
				}
				normalized = append(normalized, NormalizeKey(k))
			}
			if _, dup := r.bindings[action]; dup || len(normalized) == 0 {
				continue
			}
			desc := ActionDescriptions[action]
			if desc == "" {
				desc = strings.ReplaceAll(action, "_", " ")
			}
			r.bindings[action] = key.NewBinding(
				key.WithKeys(normalized...),
				key.WithHelp(strings.Join(normalized, "/"), desc),
			)
			r.actions = append(r.actions, action)
		}
	}
	slices.Sort(r.actions)
	for _, action := range r.actions {
		for _, k := range r.bindings[action].Keys() {
			if _, taken := r.byKey[k]; !taken {
				r.byKey[k] = action
			}
		}
	}
	return r
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	b, ok := r.bindings[action]
	if !ok {
		return nil
	}
	return b.Keys()
}

// GetAction returns the action bound to k, or "".
func (r *KeybindRegistry) GetAction(k string) string {
	return r.byKey[NormalizeKey(k)]
}

// GetKeysForDisplay joins the keys of action for help text.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	b, ok := r.bindings[action]
	if !ok {
		return ""
	}
	return b.Help().Key
}

// Binding returns the bubbles binding for action.
func (r *KeybindRegistry) Binding(action string) key.Binding {
	return r.bindings[action]
}

// Match returns the action a key press triggers.
func (r *KeybindRegistry) Match(msg tea.KeyPressMsg) string {
	return r.GetAction(msg.String())
}

// Actions returns every bound action, sorted.
func (r *KeybindRegistry) Actions() []string {
	return slices.Clone(r.actions)
}

var keyAliases = map[string]string{
	"escape": "esc",
	"return": "enter",
	"del":    "delete",
	"spc":    "space",
	" ":      "space",
}

// NormalizeKey lowercases modifier chords and named keys and maps common
// aliases. Single characters keep their case so "M" and "m" differ.
func NormalizeKey(k string) string {
	if alias, ok := keyAliases[k]; ok {
		return alias
	}
	k = strings.TrimSpace(k)
	if k == "" {
		return ""
	}
	if len([]rune(k)) == 1 {
		return k
	}
	parts := strings.Split(k, "+")
	last := parts[len(parts)-1]
	for i, p := range parts[:len(parts)-1] {
		parts[i] = strings.ToLower(p)
	}
	if len([]rune(last)) > 1 || len(parts) > 1 {
		last = strings.ToLower(last)
	}
	if alias, ok := keyAliases[last]; ok {
		last = alias
	}
	parts[len(parts)-1] = last
	return strings.Join(parts, "+")
}

var modifiers = []string{"ctrl", "alt", "shift", "super", "hyper", "meta"}

// ValidateKey rejects empty keys and chords with unknown modifiers.
func ValidateKey(k string) error {
	k = strings.TrimSpace(k)
	if k == "" {
		return fmt.Errorf("empty key")
	}
	if k == "+" {
		return nil
	}
	parts := strings.Split(NormalizeKey(k), "+")
	for _, p := range parts[:len(parts)-1] {
		if !slices.Contains(modifiers, p) {
			return fmt.Errorf("unknown modifier %q in %q", p, k)
		}
	}
	if parts[len(parts)-1] == "" {
		return fmt.Errorf("missing key in %q", k)
	}
	return nil
}

// GetKeybindings returns the sections shown by the help panel.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	panels := KeybindingSection{Title: "PANELS"}
	addBinding(&panels, registry, ActionNextPanel)
	addBinding(&panels, registry, ActionPrevPanel)
	addBinding(&panels, registry, ActionClosePanel)
	addBinding(&panels, registry, ActionToggleCollapse)
	addBinding(&panels, registry, ActionDismissModals)
	for i := 1; i <= 9; i++ {
		addBinding(&panels, registry, fmt.Sprintf("%s%d", ActionOpen, i))
	}

	gestures := KeybindingSection{Title: "MOVE / RESIZE"}
	addBinding(&gestures, registry, ActionMoveMode)
	addBinding(&gestures, registry, ActionResizeMode)
	addBinding(&gestures, registry, ActionLeft)
	addBinding(&gestures, registry, ActionRight)
	addBinding(&gestures, registry, ActionUp)
	addBinding(&gestures, registry, ActionDown)
	addBinding(&gestures, registry, ActionConfirm)

	system := KeybindingSection{Title: "SYSTEM"}
	addBinding(&system, registry, ActionToggleMenu)
	addBinding(&system, registry, ActionHelp)
	addBinding(&system, registry, ActionQuit)

	mouse := KeybindingSection{
		Title: "MOUSE",
		Bindings: []Keybinding{
			{"drag header", "Move panel"},
			{"drag corner", "Resize panel"},
			{"click ×", "Close panel"},
			{"click ▾", "Collapse/expand panel"},
			{"click outside", "Dismiss modals"},
		},
	}

	var sections []KeybindingSection
	for _, s := range []KeybindingSection{panels, gestures, system, mouse} {
		if len(s.Bindings) > 0 {
			sections = append(sections, s)
		}
	}
	return sections
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action string) {
	keys := registry.GetKeysForDisplay(action)
	if keys == "" {
		return
	}
	section.Bindings = append(section.Bindings, Keybinding{
		Key:         keys,
		Description: ActionDescriptions[action],
	})
}
