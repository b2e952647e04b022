package window

// Region is the part of a window a cell belongs to.
type Region int

const (
	RegionNone Region = iota
	RegionBody
	RegionHeader
	RegionClose
	RegionCollapse
	RegionResize
)

func (r Region) String() string {
	switch r {
	case RegionBody:
		return "body"
	case RegionHeader:
		return "header"
	case RegionClose:
		return "close"
	case RegionCollapse:
		return "collapse"
	case RegionResize:
		return "resize"
	}
	return "none"
}

// Header button columns, counted back from the right edge of the window.
const (
	closeOffset    = 3
	collapseOffset = 5
)

// CloseButtonX returns the column of the close button.
func (c *Controller) CloseButtonX() int {
	return c.rect.Right() - closeOffset
}

// CollapseButtonX returns the column of the collapse button.
func (c *Controller) CollapseButtonX() int {
	return c.rect.Right() - collapseOffset
}

// Region hit-tests the cell (x, y). A collapsed window is only its header
// row, and all of that row except the buttons moves the window.
func (c *Controller) Region(x, y int) Region {
	vis := c.VisibleRect()
	if !vis.Contains(x, y) {
		return RegionNone
	}

	if y == vis.Y {
		if c.tmpl.Options.CanClose() && x == c.CloseButtonX() {
			return RegionClose
		}
		if x == c.CollapseButtonX() {
			return RegionCollapse
		}
		return RegionHeader
	}

	if c.tmpl.Options.CanResize() && x == vis.Right()-1 && y == vis.Bottom()-1 {
		return RegionResize
	}
	return RegionBody
}
