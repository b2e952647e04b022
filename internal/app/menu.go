package app

import (
	"strconv"

	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/panels/internal/geometry"
)

// MenuItem is one launcher entry on the menu bar.
type MenuItem struct {
	Template string
	Key      string
	Label    string
	// X and Width are the columns the entry covers.
	X, Width int
}

// MenuItems lays out the launcher entries for the current route. Only the
// first nine get a number key.
func (d *Desktop) MenuItems() []MenuItem {
	var out []MenuItem
	x := 0
	for i, t := range d.Registry.Menu(d.Route) {
		key := " "
		if i < 9 {
			key = strconv.Itoa(i + 1)
		}
		label := t.Title
		if label == "" {
			label = t.Name
		}
		w := ansi.StringWidth(" " + key + " " + label + " ")
		if x+w > d.Width {
			break
		}
		out = append(out, MenuItem{Template: t.Name, Key: key, Label: label, X: x, Width: w})
		x += w
	}
	return out
}

// OnMenuBar reports whether row y is the menu bar.
func (d *Desktop) OnMenuBar(y int) bool {
	return d.ShowMenu && d.Height > 0 && y == d.Height-1
}

// MenuItemAt returns the index (1-based) of the entry at column x, or 0.
func (d *Desktop) MenuItemAt(x int) (int, geometry.Rect) {
	for i, item := range d.MenuItems() {
		if x >= item.X && x < item.X+item.Width {
			return i + 1, geometry.Rect{X: item.X, Y: d.Height - 1, Width: item.Width, Height: 1}
		}
	}
	return 0, geometry.Rect{}
}
