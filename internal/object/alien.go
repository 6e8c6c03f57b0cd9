package object

import (
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// AlienKind selects how an alien moves.
type AlienKind int

const (
	KindFormation AlienKind = iota // Moved by its Formation
	KindDiagonal                   // Bounces between the side walls while descending
	KindDiver                      // Drops straight down
)

func (k AlienKind) String() string {
	switch k {
	case KindFormation:
		return "formation"
	case KindDiagonal:
		return "diagonal"
	case KindDiver:
		return "diver"
	}
	return "unknown"
}

// Alien is an enemy ship.
type Alien struct {
	X, Y     float64 // Top-left corner
	W, H     float64
	VX, VY   float64
	Kind     AlienKind
	Row, Col int // Formation grid slot; -1 for aliens outside a formation
	Points   int

	destroyed bool
}

// NewAlien creates a free-moving alien of the given kind.
func NewAlien(kind AlienKind, x, y, vx, vy float64, points int) *Alien {
	return &Alien{
		X:      x,
		Y:      y,
		W:      config.AlienWidth,
		H:      config.AlienHeight,
		VX:     vx,
		VY:     vy,
		Kind:   kind,
		Row:    -1,
		Col:    -1,
		Points: points,
	}
}

// MarkDestroyed marks the alien as dead.
func (a *Alien) MarkDestroyed() { a.destroyed = true }

// IsDestroyed returns true if the alien is dead.
func (a *Alien) IsDestroyed() bool { return a.destroyed }

// IsAlive implements Entity.
func (a *Alien) IsAlive() bool { return !a.destroyed }

// Bounds implements Entity.
func (a *Alien) Bounds() physics.Rect {
	return physics.Rect{X: a.X, Y: a.Y, W: a.W, H: a.H}
}

// Velocity implements Entity.
func (a *Alien) Velocity() (float64, float64) { return a.VX, a.VY }

// Update moves diagonal and diving aliens. Formation aliens are moved by
// Formation.Advance and never remove themselves. Free aliens that fall
// below the playfield are removed without scoring.
func (a *Alien) Update(ctx UpdateContext) (bool, error) {
	if a.destroyed {
		return true, nil
	}
	if a.Kind == KindFormation {
		return false, nil
	}

	dt := ctx.Delta.Seconds()
	a.X += a.VX * dt
	a.Y += a.VY * dt

	if a.Kind == KindDiagonal {
		if a.X <= 0 {
			a.X = 0
			a.VX = abs(a.VX)
		} else if a.X+a.W >= ctx.Screen.Width {
			a.X = ctx.Screen.Width - a.W
			a.VX = -abs(a.VX)
		}
	}

	if a.Y > ctx.Screen.Height {
		a.destroyed = true
		return true, nil
	}
	return false, nil
}

// Draw renders the alien body with two eyes cut out.
func (a *Alien) Draw(ctx DrawContext) error {
	if a.destroyed {
		return nil
	}
	s := ctx.Surface
	fillBounds(s, a.Bounds(), a.color())
	eye := a.W * 0.15
	s.FillRect(a.X+a.W*0.2, a.Y+a.H*0.3, eye, eye, draw.Color{})
	s.FillRect(a.X+a.W*0.65, a.Y+a.H*0.3, eye, eye, draw.Color{})
	return nil
}

func (a *Alien) color() draw.Color {
	switch a.Kind {
	case KindDiagonal:
		return draw.Orange
	case KindDiver:
		return draw.Red
	}
	switch a.Row {
	case 0:
		return draw.Purple
	case 1, 2:
		return draw.Cyan
	}
	return draw.Yellow
}

// RowPoints returns the points for a formation alien in the given row.
func RowPoints(row int) int {
	if row < 0 {
		row = 0
	}
	if row >= len(config.RowPoints) {
		row = len(config.RowPoints) - 1
	}
	return config.RowPoints[row]
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
