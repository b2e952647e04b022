package app

import (
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/panels/internal/theme"
)

const (
	collapseOpen   = "▾"
	collapseClosed = "▸"
	closeGlyph     = "×"
	scrollUp       = "▲"
	scrollDown     = "▼"
	// headerTail is the collapse button, a gap, the close button, one border
	// cell and the corner.
	headerTail = 5
	// headerLead is the corner, one border cell and a space.
	headerLead = 3
)

func borderFor(style string) lipgloss.Border {
	switch strings.ToLower(style) {
	case "normal":
		return lipgloss.NormalBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "ascii":
		return lipgloss.ASCIIBorder()
	}
	return lipgloss.RoundedBorder()
}

// View draws the panels back to front, then the menu bar.
func (d *Desktop) View() tea.View {
	v := tea.NewView(d.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeAllMotion
	return v
}

// Render returns the desktop as a string.
func (d *Desktop) Render() string {
	if !d.Viewport().Known() {
		return ""
	}

	stack := d.Stack()
	layers := make([]*lipgloss.Layer, 0, len(stack)+1)
	for i, p := range stack {
		r := p.VisibleRect()
		layers = append(layers, lipgloss.NewLayer(d.renderPanel(p)).X(r.X).Y(r.Y).Z(i+1))
	}
	if d.ShowMenu {
		layers = append(layers, lipgloss.NewLayer(d.renderMenu()).X(0).Y(d.Height-1).Z(len(stack)+1))
	}

	// A layer composed directly onto the canvas ignores its offset; the
	// compositor places each one at its own position.
	canvas := lipgloss.NewCanvas(d.Width, d.Height)
	canvas.Compose(lipgloss.NewCompositor(layers...))
	return canvas.Render()
}

// panelBackground shades the body background by opacity, fading toward
// black as opacity drops.
func panelBackground(opacity float64) color.Color {
	return lipgloss.Darken(theme.PanelBg(), 1-min(opacity, 1))
}

func (d *Desktop) edgeStyle(p *Panel) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(d.borderColor(p))
}

func (d *Desktop) borderColor(p *Panel) color.Color {
	switch {
	case p.Dragging():
		return theme.BorderDragging()
	case p.Template().Options.IsModal:
		return theme.BorderModal()
	case p.Focused():
		return theme.BorderFocused()
	}
	return theme.BorderUnfocused()
}

func (d *Desktop) renderPanel(p *Panel) string {
	r := p.VisibleRect()
	if r.Width < 2 || r.Height < 1 {
		return ""
	}
	b := d.border
	edge := d.edgeStyle(p)

	rows := make([]string, 0, r.Height)
	rows = append(rows, d.renderHeader(p, edge))
	if p.Hidden() {
		return rows[0]
	}

	inner := r.Width - 2
	bodyRows := r.Height - 2
	opts := p.Template().Options
	if opts.HeaderBorder && bodyRows > 0 && inner > 0 {
		rows = append(rows, edge.Render(b.MiddleLeft+strings.Repeat(b.Top, inner)+b.MiddleRight))
		bodyRows--
	}

	body, above, below := p.visibleBody(inner, bodyRows)
	fg := lipgloss.NewStyle().Foreground(theme.PanelFg())
	if opts.BackgroundOpacity > 0 {
		fg = fg.Background(panelBackground(opts.BackgroundOpacity))
	}
	marker := lipgloss.NewStyle().Foreground(theme.ButtonCollapse())
	for i := range bodyRows {
		line := ""
		if i < len(body) {
			line = ansi.Truncate(body[i], inner, "")
		}
		if pad := inner - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		right := edge.Render(b.Right)
		switch {
		case above && i == 0:
			right = marker.Render(scrollUp)
		case below && i == bodyRows-1:
			right = marker.Render(scrollDown)
		}
		rows = append(rows, edge.Render(b.Left)+fg.Render(line)+right)
	}

	if r.Height > 1 {
		corner := edge.Render(b.BottomRight)
		if p.Template().Options.CanResize() {
			corner = lipgloss.NewStyle().Foreground(theme.ButtonCollapse()).Render(b.BottomRight)
		}
		rows = append(rows, edge.Render(b.BottomLeft+strings.Repeat(b.Bottom, r.Width-2))+corner)
	}
	return strings.Join(rows, "\n")
}

// renderHeader draws the top border with the title and the buttons. The
// button columns line up with window.Controller.Region.
func (d *Desktop) renderHeader(p *Panel, edge lipgloss.Style) string {
	b := d.border
	w := p.VisibleRect().Width
	if w < headerLead+headerTail {
		return edge.Render(b.TopLeft + strings.Repeat(b.Top, max(w-2, 0)) + b.TopRight)
	}

	titleStyle := lipgloss.NewStyle().Foreground(theme.Title()).Bold(true)
	infoStyle := lipgloss.NewStyle().Foreground(theme.HeaderInfo())

	room := w - headerLead - headerTail - 1
	label := ansi.Truncate(p.Title(), max(room, 0), "…")
	text := titleStyle.Render(label)
	used := ansi.StringWidth(label)
	if info := p.Header(); info != "" && room-used > 3 {
		info = ansi.Truncate(info, room-used-3, "…")
		text += infoStyle.Render(" · " + info)
		used += 3 + ansi.StringWidth(info)
	}

	var sb strings.Builder
	sb.WriteString(edge.Render(b.TopLeft + b.Top + " "))
	sb.WriteString(text)
	sb.WriteString(edge.Render(" " + strings.Repeat(b.Top, max(room-used, 0))))

	glyph := collapseOpen
	if p.Hidden() {
		glyph = collapseClosed
	}
	sb.WriteString(lipgloss.NewStyle().Foreground(theme.ButtonCollapse()).Render(glyph))
	sb.WriteString(edge.Render(" "))
	if p.Template().Options.CanClose() {
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.ButtonClose()).Render(closeGlyph))
	} else {
		sb.WriteString(edge.Render(b.Top))
	}
	sb.WriteString(edge.Render(b.Top + b.TopRight))
	return sb.String()
}

func (d *Desktop) renderMenu() string {
	bar := lipgloss.NewStyle().Background(theme.MenuBg()).Foreground(theme.MenuFg())
	hl := bar.Foreground(theme.MenuHighlight()).Bold(true)
	dim := bar.Foreground(theme.MenuDimmed())

	var sb strings.Builder
	used := 0
	for _, item := range d.MenuItems() {
		sb.WriteString(bar.Render(" "))
		sb.WriteString(hl.Render(item.Key))
		sb.WriteString(bar.Render(" " + item.Label + " "))
		used += item.Width
	}

	mode := bar.Foreground(theme.MenuMode()).Bold(true).Render(" " + d.Mode.String() + " ")
	hint := dim.Render(" ? keys ")
	right := ansi.StringWidth(" "+d.Mode.String()+" ") + ansi.StringWidth(" ? keys ")
	if gap := d.Width - used - right; gap > 0 {
		sb.WriteString(bar.Render(strings.Repeat(" ", gap)))
		sb.WriteString(hint)
		sb.WriteString(mode)
	}
	return ansi.Truncate(sb.String(), d.Width, "")
}
