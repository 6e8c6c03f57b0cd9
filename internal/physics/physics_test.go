package physics

import (
	"sort"
	"testing"
)

func TestRectOverlaps(t *testing.T) {
	base := Rect{X: 10, Y: 10, W: 10, H: 10}
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"same box", base, true},
		{"contained", Rect{X: 12, Y: 12, W: 2, H: 2}, true},
		{"partial", Rect{X: 15, Y: 5, W: 10, H: 10}, true},
		{"touching right edge", Rect{X: 20, Y: 10, W: 5, H: 5}, false},
		{"touching bottom edge", Rect{X: 10, Y: 20, W: 5, H: 5}, false},
		{"far away", Rect{X: 100, Y: 100, W: 1, H: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.other); got != tt.want {
				t.Fatalf("Overlaps(%v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Overlaps(base); got != tt.want {
				t.Fatalf("symmetric Overlaps(%v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestRectInside(t *testing.T) {
	if !(Rect{X: -5, Y: 0, W: 10, H: 10}).Inside(100, 100) {
		t.Fatal("box straddling the left edge should count as inside")
	}
	if (Rect{X: 0, Y: -20, W: 4, H: 20}).Inside(100, 100) {
		t.Fatal("box fully above the playfield should be outside")
	}
	if (Rect{X: 0, Y: 100, W: 4, H: 20}).Inside(100, 100) {
		t.Fatal("box fully below the playfield should be outside")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Fatalf("Clamp low = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Fatalf("Clamp high = %v", got)
	}
	if got := Clamp(5, 0, 10); got != 5 {
		t.Fatalf("Clamp mid = %v", got)
	}
}

func TestSpaceQueryAndRemove(t *testing.T) {
	s := NewSpace(200, 200, 16)
	a := s.Insert(Rect{X: 10, Y: 10, W: 6, H: 6}, "block", 1)
	s.Insert(Rect{X: 16, Y: 10, W: 6, H: 6}, "block", 2)
	s.Insert(Rect{X: 100, Y: 100, W: 6, H: 6}, "block", 3)
	s.Insert(Rect{X: 12, Y: 12, W: 6, H: 6}, "other", 4)

	if s.Len() != 4 {
		t.Fatalf("Len = %d, want 4", s.Len())
	}

	hits := ints(s.Query(Rect{X: 14, Y: 11, W: 4, H: 2}, "block"))
	if len(hits) != 2 || hits[0] != 1 || hits[1] != 2 {
		t.Fatalf("hits = %v, want [1 2]", hits)
	}

	s.Remove(a)
	s.Remove(a)
	if s.Len() != 3 {
		t.Fatalf("Len after remove = %d, want 3", s.Len())
	}
	hits = ints(s.Query(Rect{X: 14, Y: 11, W: 4, H: 2}, "block"))
	if len(hits) != 1 || hits[0] != 2 {
		t.Fatalf("hits after remove = %v, want [2]", hits)
	}

	if got := s.Query(Rect{X: 150, Y: 10, W: 2, H: 2}, "block"); len(got) != 0 {
		t.Fatalf("empty area returned %v", got)
	}
}

func TestSpaceQueryUsesProbeBox(t *testing.T) {
	s := NewSpace(200, 200, 16)
	s.Insert(Rect{X: 40, Y: 40, W: 6, H: 6}, "block", 1)
	s.Insert(Rect{X: 120, Y: 40, W: 6, H: 6}, "block", 2)

	// A wide probe finds both, then a narrow one at the same origin must
	// not keep the previous size.
	if hits := ints(s.Query(Rect{X: 0, Y: 41, W: 200, H: 2}, "block")); len(hits) != 2 {
		t.Fatalf("wide hits = %v, want [1 2]", hits)
	}
	if hits := ints(s.Query(Rect{X: 0, Y: 41, W: 60, H: 2}, "block")); len(hits) != 1 || hits[0] != 1 {
		t.Fatalf("narrow hits = %v, want [1]", hits)
	}
	// Touching edges do not overlap.
	if got := s.Query(Rect{X: 46, Y: 40, W: 4, H: 4}, "block"); len(got) != 0 {
		t.Fatalf("edge probe returned %v", got)
	}
}

func ints(in []any) []int {
	out := make([]int, 0, len(in))
	for _, v := range in {
		out = append(out, v.(int))
	}
	sort.Ints(out)
	return out
}
