// Package theme provides the colors used to draw panels and the menu bar.
package theme

import (
	"fmt"
	"image/color"
	"sync"

	"charm.land/lipgloss/v2"
	tint "github.com/lrstanley/bubbletint/v2"
)

var (
	mu       sync.RWMutex
	enabled  bool
	focusHex string
)

// Initialize sets up the theme registry with the specified theme name.
// If themeName is empty, theming is disabled and standard terminal colors
// are used. An unknown name falls back to the registry default.
func Initialize(themeName string) error {
	mu.Lock()
	defer mu.Unlock()

	if themeName == "" {
		enabled = false
		return nil
	}

	enabled = true
	tint.NewDefaultRegistry()
	if !tint.SetTintID(themeName) {
		tint.SetTintID("default")
		return fmt.Errorf("unknown theme %q, using default", themeName)
	}
	return nil
}

// SetFocusColor overrides the focused border color. Empty clears it.
func SetFocusColor(hex string) {
	mu.Lock()
	focusHex = hex
	mu.Unlock()
}

// IsEnabled returns true if theming is enabled
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Current returns the currently active theme, or nil when theming is off.
func Current() *tint.Tint {
	if !IsEnabled() {
		return nil
	}
	return tint.Current()
}

// Panel border colors
func BorderUnfocused() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("8")
	}
	return t.BrightBlack
}

func BorderFocused() color.Color {
	mu.RLock()
	override := focusHex
	mu.RUnlock()
	if override != "" {
		return lipgloss.Color(override)
	}
	t := Current()
	if t == nil {
		return lipgloss.Color("#AFFFFF")
	}
	return t.BrightCyan
}

func BorderModal() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#FFD787")
	}
	return t.Yellow
}

// BorderDragging is used while a panel is being moved or resized.
func BorderDragging() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#AAFFAA")
	}
	return t.BrightGreen
}

// Header and button colors
func Title() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("15")
	}
	return t.BrightWhite
}

func HeaderInfo() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("8")
	}
	return t.BrightBlack
}

func ButtonClose() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#FF5F5F")
	}
	return t.BrightRed
}

func ButtonCollapse() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#FFD787")
	}
	return t.BrightYellow
}

func PanelFg() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#e5e5e5")
	}
	return t.Fg
}

// PanelBg is the body background at full opacity.
func PanelBg() color.Color {
	t := Current()
	if t == nil || t.Bg == nil {
		return lipgloss.Color("#1e1e2e")
	}
	return t.Bg
}

// Menu bar colors
func MenuBg() color.Color {
	return lipgloss.Color("#2a2a3e")
}

func MenuFg() color.Color {
	return lipgloss.Color("#a0a0a8")
}

func MenuHighlight() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#00ff00")
	}
	return t.BrightGreen
}

func MenuDimmed() color.Color {
	return lipgloss.Color("#808090")
}

func MenuMode() color.Color {
	t := Current()
	if t == nil {
		return lipgloss.Color("#5c5cff")
	}
	return t.BrightBlue
}

// CLI table colors
func CLITableHeader() color.Color {
	return lipgloss.Color("12")
}

func CLITableBorder() color.Color {
	return lipgloss.Color("8")
}

func CLITableKey() color.Color {
	return lipgloss.Color("11")
}

func CLITableDim() color.Color {
	return lipgloss.Color("8")
}

// ColorToString converts a color.Color to a hex string.
func ColorToString(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	return fmt.Sprintf("#%02x%02x%02x", r8, g8, b8)
}
