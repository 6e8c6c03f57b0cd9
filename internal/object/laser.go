package object

import (
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Owner identifies which side fired a laser.
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerAlien
)

func (o Owner) String() string {
	if o == OwnerPlayer {
		return "player"
	}
	return "alien"
}

// Laser is a projectile fired by the player or an alien.
type Laser struct {
	X, Y      float64 // Top-left corner
	W, H      float64
	VX, VY    float64
	Owner     Owner
	destroyed bool
}

// NewLaser creates a laser whose top-left corner is at (x, y).
func NewLaser(x, y, vx, vy float64, owner Owner) *Laser {
	return &Laser{
		X:     x,
		Y:     y,
		W:     config.LaserWidth,
		H:     config.LaserHeight,
		VX:    vx,
		VY:    vy,
		Owner: owner,
	}
}

// NewPlayerLaser fires upwards from the point (cx, top).
func NewPlayerLaser(cx, top float64) *Laser {
	return NewLaser(cx-config.LaserWidth/2, top-config.LaserHeight, 0, -config.PlayerLaserSpeed, OwnerPlayer)
}

// NewAlienLaser fires downwards from the point (cx, bottom).
func NewAlienLaser(cx, bottom, speed float64) *Laser {
	return NewLaser(cx-config.LaserWidth/2, bottom, 0, speed, OwnerAlien)
}

// MarkDestroyed marks the laser for removal.
func (l *Laser) MarkDestroyed() { l.destroyed = true }

// IsDestroyed returns true if the laser is marked for destruction.
func (l *Laser) IsDestroyed() bool { return l.destroyed }

// IsAlive implements Entity.
func (l *Laser) IsAlive() bool { return !l.destroyed }

// Bounds implements Entity.
func (l *Laser) Bounds() physics.Rect {
	return physics.Rect{X: l.X, Y: l.Y, W: l.W, H: l.H}
}

// Velocity implements Entity.
func (l *Laser) Velocity() (float64, float64) { return l.VX, l.VY }

// Update moves the laser and deactivates it once it leaves the playfield.
func (l *Laser) Update(ctx UpdateContext) (bool, error) {
	if l.destroyed {
		return true, nil
	}
	dt := ctx.Delta.Seconds()
	l.X += l.VX * dt
	l.Y += l.VY * dt

	if !ctx.Screen.Contains(l.Bounds()) {
		l.destroyed = true
		return true, nil
	}
	return false, nil
}

// Draw renders the laser.
func (l *Laser) Draw(ctx DrawContext) error {
	if l.destroyed {
		return nil
	}
	c := draw.White
	if l.Owner == OwnerAlien {
		c = draw.Red
	}
	fillBounds(ctx.Surface, l.Bounds(), c)
	return nil
}
