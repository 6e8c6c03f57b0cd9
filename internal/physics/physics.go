// Package physics provides axis-aligned hit boxes and overlap queries.
package physics

// Rect is an axis-aligned box. X and Y are the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Left returns the minimum x of the box.
func (r Rect) Left() float64 { return r.X }

// Right returns the maximum x of the box.
func (r Rect) Right() float64 { return r.X + r.W }

// Top returns the minimum y of the box.
func (r Rect) Top() float64 { return r.Y }

// Bottom returns the maximum y of the box.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the box.
func (r Rect) Center() (x, y float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Overlaps reports whether two boxes share interior area.
// Boxes that only touch along an edge do not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W &&
		r.X+r.W > o.X &&
		r.Y < o.Y+o.H &&
		r.Y+r.H > o.Y
}

// Inside reports whether any part of the box lies within the area
// [0,width) x [0,height).
func (r Rect) Inside(width, height float64) bool {
	return r.Overlaps(Rect{W: width, H: height})
}

// Clamp returns x clamped to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
