package geometry

import (
	"math/rand"
	"testing"
)

func TestClamp(t *testing.T) {
	p := Policy{Edges: Edges{Top: 1, Right: 2, Bottom: 3, Left: 4}}
	vp := Size{Width: 100, Height: 40}

	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{
			name: "inside untouched",
			in:   Rect{X: 10, Y: 10, Width: 20, Height: 10},
			want: Rect{X: 10, Y: 10, Width: 20, Height: 10},
		},
		{
			name: "above top",
			in:   Rect{X: 10, Y: -5, Width: 20, Height: 10},
			want: Rect{X: 10, Y: 1, Width: 20, Height: 10},
		},
		{
			name: "below bottom",
			in:   Rect{X: 10, Y: 35, Width: 20, Height: 10},
			want: Rect{X: 10, Y: 27, Width: 20, Height: 10},
		},
		{
			name: "left of left margin",
			in:   Rect{X: 0, Y: 10, Width: 20, Height: 10},
			want: Rect{X: 4, Y: 10, Width: 20, Height: 10},
		},
		{
			name: "past right edge",
			in:   Rect{X: 90, Y: 10, Width: 20, Height: 10},
			want: Rect{X: 78, Y: 10, Width: 20, Height: 10},
		},
		{
			name: "pinned right still slides vertically",
			in:   Rect{X: 200, Y: 12, Width: 20, Height: 10},
			want: Rect{X: 78, Y: 12, Width: 20, Height: 10},
		},
		{
			name: "taller than viewport ends flush with bottom",
			in:   Rect{X: 10, Y: 5, Width: 20, Height: 50},
			want: Rect{X: 10, Y: -13, Width: 20, Height: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Clamp(tt.in, vp)
			if got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClampUnknownViewport(t *testing.T) {
	r := Rect{X: -10, Y: -10, Width: 5, Height: 5}
	if got := DefaultPolicy().Clamp(r, Size{}); got != r {
		t.Errorf("Clamp with unknown viewport = %+v, want unchanged %+v", got, r)
	}
}

// Any rect that fits the usable area must end up with all edges inside it.
func TestClampKeepsEdgesInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	p := DefaultPolicy()
	p.Edges = Edges{Top: 2, Right: 1, Bottom: 3, Left: 1}

	for i := 0; i < 2000; i++ {
		vp := Size{Width: 20 + rng.Intn(200), Height: 10 + rng.Intn(80)}
		w := 1 + rng.Intn(vp.Width-p.Edges.Left-p.Edges.Right)
		h := 1 + rng.Intn(vp.Height-p.Edges.Top-p.Edges.Bottom)
		r := Rect{X: rng.Intn(600) - 300, Y: rng.Intn(400) - 200, Width: w, Height: h}

		got := p.Clamp(r, vp)
		if got.X < p.Edges.Left || got.Right() > vp.Width-p.Edges.Right {
			t.Fatalf("x out of bounds: vp=%+v in=%+v out=%+v", vp, r, got)
		}
		if got.Y < p.Edges.Top || got.Bottom() > vp.Height-p.Edges.Bottom {
			t.Fatalf("y out of bounds: vp=%+v in=%+v out=%+v", vp, r, got)
		}
	}
}

func TestMinSize(t *testing.T) {
	p := Policy{HeaderHeight: 1, DefaultMinWidth: 30, DefaultMinHeight: 8}

	if got := p.MinSize(0, 0); got != (Size{Width: 30, Height: 9}) {
		t.Errorf("MinSize(0, 0) = %+v, want {30 9}", got)
	}
	if got := p.MinSize(40, 12); got != (Size{Width: 40, Height: 13}) {
		t.Errorf("MinSize(40, 12) = %+v, want {40 13}", got)
	}
}

func TestEnforceMinNeverBelowFloor(t *testing.T) {
	min := Size{Width: 20, Height: 15}
	r := Rect{X: 3, Y: 4, Width: 60, Height: 40}

	for i := 0; i < 50; i++ {
		r.Width -= 7
		r.Height -= 5
		r = EnforceMin(r, min)
		if r.Width < min.Width || r.Height < min.Height {
			t.Fatalf("step %d: %+v below minimum %+v", i, r, min)
		}
	}
	if r.Width != 20 || r.Height != 15 {
		t.Errorf("after repeated shrinking got %dx%d, want 20x15", r.Width, r.Height)
	}
	if r.X != 3 || r.Y != 4 {
		t.Errorf("EnforceMin moved the origin to (%d, %d)", r.X, r.Y)
	}
}

func TestCentered(t *testing.T) {
	vp := Size{Width: 100, Height: 40}

	tests := []struct {
		name string
		hint Rect
		w, h int
		want Point
	}{
		{"middle", Rect{X: 50, Y: 20, Width: 10, Height: 1}, 20, 10, Point{X: 45, Y: 15}},
		{"floored at top margin", Rect{X: 50, Y: 2, Width: 10, Height: 1}, 20, 10, Point{X: 45, Y: 1}},
		{"capped at bottom", Rect{X: 50, Y: 39, Width: 10, Height: 1}, 20, 10, Point{X: 45, Y: 30}},
		{"floored at left", Rect{X: 0, Y: 20, Width: 4, Height: 1}, 20, 10, Point{X: 0, Y: 15}},
		{"capped at right", Rect{X: 95, Y: 20, Width: 4, Height: 1}, 20, 10, Point{X: 80, Y: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Centered(tt.hint, tt.w, tt.h, vp, 1)
			if got != tt.want {
				t.Errorf("Centered(%+v, %d, %d) = %+v, want %+v", tt.hint, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestAnchorFor(t *testing.T) {
	tests := []struct {
		name     string
		r        Rect
		viewport int
		want     Anchor
	}{
		{"left half", Rect{X: 5, Width: 20}, 100, Anchor{Side: AnchorLeft, Offset: 5}},
		{"center on midline is left", Rect{X: 40, Width: 20}, 100, Anchor{Side: AnchorLeft, Offset: 40}},
		{"right half", Rect{X: 70, Width: 20}, 100, Anchor{Side: AnchorRight, Offset: 10}},
		{"odd width just right of midline", Rect{X: 38, Width: 5}, 80, Anchor{Side: AnchorRight, Offset: 37}},
		{"odd width just left of midline", Rect{X: 37, Width: 5}, 80, Anchor{Side: AnchorLeft, Offset: 37}},
		{"odd viewport", Rect{X: 40, Width: 1}, 81, Anchor{Side: AnchorLeft, Offset: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AnchorFor(tt.r, tt.viewport); got != tt.want {
				t.Errorf("AnchorFor(%+v, %d) = %+v, want %+v", tt.r, tt.viewport, got, tt.want)
			}
		})
	}
}

func TestAnchorReposition(t *testing.T) {
	r := Rect{X: 70, Y: 3, Width: 20, Height: 10}
	a := AnchorFor(r, 100)

	for _, w := range []int{80, 100, 140, 233} {
		got := a.Reposition(r, w)
		if want := w - a.Offset - r.Width; got.X != want {
			t.Errorf("right anchor, width %d: x = %d, want %d", w, got.X, want)
		}
		if got.Y != r.Y || got.Width != r.Width || got.Height != r.Height {
			t.Errorf("Reposition changed more than x: %+v", got)
		}
	}

	left := Rect{X: 10, Width: 20}
	la := AnchorFor(left, 100)
	if got := la.Reposition(left, 300); got != left {
		t.Errorf("left anchor moved window: %+v", got)
	}
}
