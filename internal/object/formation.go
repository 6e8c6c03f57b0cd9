package object

import (
	"github.com/tomz197/invaders/internal/loop/config"
)

// Formation is a grid of aliens that moves as one rigid block. Its members
// are fixed when it is built; aliens die but are never added.
type Formation struct {
	members  []*Alien
	dir      float64 // +1 right, -1 left
	Speed    float64 // Horizontal units per second
	StepDown float64 // Drop applied on every wall bounce
}

// NewFormation lays out rows x cols aliens from the top-left formation
// offset, row-major, with points by row.
func NewFormation(rows, cols int, speed float64) *Formation {
	f := &Formation{
		members:  make([]*Alien, 0, rows*cols),
		dir:      1,
		Speed:    speed,
		StepDown: config.FormationStepY,
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			f.members = append(f.members, &Alien{
				X:      config.FormationOffsetX + float64(col)*config.AlienSpacingX,
				Y:      config.FormationOffsetY + float64(row)*config.AlienSpacingY,
				W:      config.AlienWidth,
				H:      config.AlienHeight,
				Kind:   KindFormation,
				Row:    row,
				Col:    col,
				Points: RowPoints(row),
			})
		}
	}
	return f
}

// NewFormationOf wraps already positioned aliens into a formation.
func NewFormationOf(aliens []*Alien, speed float64) *Formation {
	members := make([]*Alien, len(aliens))
	copy(members, aliens)
	for _, a := range members {
		a.Kind = KindFormation
	}
	return &Formation{
		members:  members,
		dir:      1,
		Speed:    speed,
		StepDown: config.FormationStepY,
	}
}

// Members returns the aliens in spawn order, dead ones included.
// The slice must not be modified.
func (f *Formation) Members() []*Alien {
	return f.members
}

// Direction returns +1 while moving right and -1 while moving left.
func (f *Formation) Direction() float64 {
	return f.dir
}

// LiveCount returns the number of aliens still alive.
func (f *Formation) LiveCount() int {
	n := 0
	for _, a := range f.members {
		if a.IsAlive() {
			n++
		}
	}
	return n
}

// Bottom returns the lowest edge of any live member, or 0 if none are alive.
func (f *Formation) Bottom() float64 {
	bottom := 0.0
	for _, a := range f.members {
		if a.IsAlive() && a.Y+a.H > bottom {
			bottom = a.Y + a.H
		}
	}
	return bottom
}

// Advance translates all live members horizontally. When any live member
// touches a side wall the block is pushed back inside, reverses and steps
// down. Reports whether a bounce happened.
func (f *Formation) Advance(dt float64, screen Screen) bool {
	dx := f.dir * f.Speed * dt
	left, right := screen.Width, 0.0
	alive := false
	for _, a := range f.members {
		if !a.IsAlive() {
			continue
		}
		a.X += dx
		a.VX, a.VY = f.dir*f.Speed, 0
		left = min(left, a.X)
		right = max(right, a.X+a.W)
		alive = true
	}
	if !alive {
		return false
	}

	var shift float64
	switch {
	case f.dir > 0 && right >= screen.Width:
		shift = screen.Width - right
	case f.dir < 0 && left <= 0:
		shift = -left
	default:
		return false
	}

	f.dir = -f.dir
	for _, a := range f.members {
		if a.IsAlive() {
			a.X += shift
			a.Y += f.StepDown
		}
	}
	return true
}

// BottomRow returns, for every column that still has a live alien, the
// lowest live alien in it. These are the aliens allowed to fire.
func (f *Formation) BottomRow() []*Alien {
	lowest := map[int]*Alien{}
	var cols []int
	for _, a := range f.members {
		if !a.IsAlive() {
			continue
		}
		cur, ok := lowest[a.Col]
		if !ok {
			cols = append(cols, a.Col)
		}
		if !ok || a.Y > cur.Y {
			lowest[a.Col] = a
		}
	}
	out := make([]*Alien, 0, len(cols))
	for _, c := range cols {
		out = append(out, lowest[c])
	}
	return out
}
