package physics

import (
	"github.com/solarlune/resolv"
)

// Space is a broad-phase index for static or rarely moving boxes
// (bunker cells). Queries are answered from the grid cells a probe box
// touches and then narrowed with Rect.Overlaps.
//
// cellSize should be at least the size of the largest box inserted so that
// a query only touches a handful of cells.
type Space struct {
	space *resolv.Space
	probe *resolv.Object
	count int
}

// Handle identifies a box inserted into a Space.
type Handle struct {
	obj *resolv.Object
}

// NewSpace creates a space covering width x height world units.
func NewSpace(width, height float64, cellSize int) *Space {
	if cellSize < 1 {
		cellSize = 1
	}
	s := &Space{
		space: resolv.NewSpace(int(width)+cellSize, int(height)+cellSize, cellSize, cellSize),
		probe: resolv.NewObject(0, 0, 1, 1, "probe"),
	}
	s.space.Add(s.probe)
	return s
}

// Insert adds a box carrying data under tag and returns its handle.
func (s *Space) Insert(r Rect, tag string, data any) Handle {
	obj := resolv.NewObject(r.X, r.Y, r.W, r.H, tag)
	obj.Data = data
	s.space.Add(obj)
	obj.Update()
	s.count++
	return Handle{obj: obj}
}

// Remove deletes a previously inserted box. Removing twice is a no-op.
func (s *Space) Remove(h Handle) {
	if h.obj == nil || h.obj.Space == nil {
		return
	}
	s.space.Remove(h.obj)
	s.count--
}

// Len returns the number of boxes currently indexed.
func (s *Space) Len() int {
	return s.count
}

// Query returns the data of every box tagged tag that overlaps r.
// The result order is unspecified; callers that need a deterministic
// winner sort by their own key.
func (s *Space) Query(r Rect, tag string) []any {
	s.probe.Position.X = r.X
	s.probe.Position.Y = r.Y
	s.probe.Size.X = r.W
	s.probe.Size.Y = r.H
	s.probe.Update()

	collision := s.probe.Check(0, 0, tag)
	if collision == nil {
		return nil
	}

	var out []any
	for _, obj := range collision.Objects {
		box := Rect{X: obj.Position.X, Y: obj.Position.Y, W: obj.Size.X, H: obj.Size.Y}
		if box.Overlaps(r) {
			out = append(out, obj.Data)
		}
	}
	return out
}
