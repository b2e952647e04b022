// Package geometry implements the placement rules shared by the panel store
// and window controllers: clamping a rectangle to the viewport, enforcing
// minimum sizes, and re-anchoring windows when the viewport changes size.
//
// All values are terminal cells. Every function here is pure.
package geometry

// Point is a cell position.
type Point struct {
	X, Y int
}

// Size is a width/height pair, used for the viewport.
type Size struct {
	Width, Height int
}

// Known reports whether the size has been reported yet.
func (s Size) Known() bool {
	return s.Width > 0 && s.Height > 0
}

// Rect is a window rectangle.
type Rect struct {
	X      int `json:"x" toml:"x"`
	Y      int `json:"y" toml:"y"`
	Width  int `json:"width" toml:"width"`
	Height int `json:"height" toml:"height"`
}

// Right returns the first column past the rectangle.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the first row past the rectangle.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains reports whether the cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Edges are the margins a window must keep from each viewport edge.
type Edges struct {
	Top    int `toml:"top"`
	Right  int `toml:"right"`
	Bottom int `toml:"bottom"`
	Left   int `toml:"left"`
}

// Policy holds the constants the placement rules are parameterized by.
type Policy struct {
	Edges Edges
	// OpenTopMargin floors the top of a window opened near a screen hint.
	OpenTopMargin int
	// InitialTop is the row used for windows opened without a hint or default position.
	InitialTop int
	// HeaderHeight is added to a template's minimum height.
	HeaderHeight int
	// DefaultMinWidth and DefaultMinHeight apply when a template declares none.
	DefaultMinWidth  int
	DefaultMinHeight int
}

// DefaultPolicy returns the policy used when the configuration sets nothing.
func DefaultPolicy() Policy {
	return Policy{
		Edges:            Edges{Top: 1, Right: 0, Bottom: 1, Left: 0},
		OpenTopMargin:    1,
		InitialTop:       1,
		HeaderHeight:     1,
		DefaultMinWidth:  30,
		DefaultMinHeight: 8,
	}
}

// Clamp keeps r inside the viewport minus the policy edges. Each axis is
// clamped on its own so a window pinned against one edge still slides along
// the other. The far-edge cap is applied after the near-edge floor, so a
// window larger than the viewport ends up flush with the far edge.
func (p Policy) Clamp(r Rect, viewport Size) Rect {
	if !viewport.Known() {
		return r
	}

	if r.Y < p.Edges.Top {
		r.Y = p.Edges.Top
	}
	if viewport.Height-r.Y-r.Height < p.Edges.Bottom {
		r.Y = viewport.Height - r.Height - p.Edges.Bottom
	}

	if r.X < p.Edges.Left {
		r.X = p.Edges.Left
	}
	if viewport.Width-r.X-r.Width < p.Edges.Right {
		r.X = viewport.Width - r.Width - p.Edges.Right
	}

	return r
}

// MinSize returns the effective minimum size for a template. Zero template
// values fall back to the policy defaults; the header height is always added
// to the height floor.
func (p Policy) MinSize(minWidth, minHeight int) Size {
	if minWidth <= 0 {
		minWidth = p.DefaultMinWidth
	}
	if minHeight <= 0 {
		minHeight = p.DefaultMinHeight
	}
	return Size{Width: minWidth, Height: minHeight + p.HeaderHeight}
}

// EnforceMin grows r so it is at least min in both dimensions. It never shrinks.
func EnforceMin(r Rect, min Size) Rect {
	if r.Width < min.Width {
		r.Width = min.Width
	}
	if r.Height < min.Height {
		r.Height = min.Height
	}
	return r
}

// Centered computes the origin for a window of size w×h opened near hint:
// horizontally centered on the hint and vertically centered on its top edge.
// The top is floored at topMargin, the bottom must not pass the viewport,
// and the window must not overflow the viewport left or right.
func Centered(hint Rect, w, h int, viewport Size, topMargin int) Point {
	x := hint.X - w/2 + hint.Width/2
	y := hint.Y - h/2

	if y < topMargin {
		y = topMargin
	} else if viewport.Height > 0 && y+h > viewport.Height {
		y = viewport.Height - h
	}

	if x < 0 {
		x = 0
	} else if viewport.Width > 0 && x > viewport.Width-w {
		x = viewport.Width - w
	}

	return Point{X: x, Y: y}
}
