package geometry

// Side is the viewport edge a window is anchored to.
type Side int

const (
	// AnchorLeft keeps a fixed distance from the left edge.
	AnchorLeft Side = iota
	// AnchorRight keeps a fixed distance from the right edge.
	AnchorRight
)

func (s Side) String() string {
	if s == AnchorRight {
		return "right"
	}
	return "left"
}

// Anchor records which viewport edge a window sticks to and how far from it.
type Anchor struct {
	Side   Side
	Offset int
}

// AnchorFor picks the edge closest to the window's horizontal center. A
// window whose center sits exactly on the midline is anchored left.
func AnchorFor(r Rect, viewportWidth int) Anchor {
	// Compared in doubled units so odd widths do not round toward the left.
	if 2*r.X+r.Width <= viewportWidth {
		return Anchor{Side: AnchorLeft, Offset: r.X}
	}
	return Anchor{Side: AnchorRight, Offset: viewportWidth - r.X - r.Width}
}

// Reposition moves r for a new viewport width. Left-anchored windows are
// already positioned relative to the left edge and are returned unchanged.
func (a Anchor) Reposition(r Rect, viewportWidth int) Rect {
	if a.Side == AnchorRight {
		r.X = viewportWidth - a.Offset - r.Width
	}
	return r
}
