package object

import (
	"math/rand/v2"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// MysteryShip crosses the top of the screen once. It takes several hits to
// destroy and drops a key and a treasure chest when it does.
type MysteryShip struct {
	X, Y      float64
	W, H      float64
	VX        float64
	Health    int
	Points    int
	destroyed bool
	escaped   bool
}

// NewMysteryShip creates a ship entering from the left or right edge.
func NewMysteryShip(screen Screen, fromLeft bool) *MysteryShip {
	m := &MysteryShip{
		Y:      config.MysteryY,
		W:      config.MysteryWidth,
		H:      config.MysteryHeight,
		Health: config.MysteryHealth,
		Points: config.MysteryPoints,
	}
	if fromLeft {
		m.X = -m.W
		m.VX = config.MysterySpeed
	} else {
		m.X = screen.Width
		m.VX = -config.MysterySpeed
	}
	return m
}

// Hit applies damage and reports whether the ship was destroyed by it.
func (m *MysteryShip) Hit(damage int) bool {
	if m.destroyed {
		return false
	}
	m.Health -= damage
	if m.Health <= 0 {
		m.Health = 0
		m.destroyed = true
		return true
	}
	return false
}

// Escaped reports whether the ship left the screen without being destroyed.
func (m *MysteryShip) Escaped() bool { return m.escaped }

// MarkDestroyed marks the ship for removal.
func (m *MysteryShip) MarkDestroyed() { m.destroyed = true }

// IsDestroyed returns true if the ship is gone.
func (m *MysteryShip) IsDestroyed() bool { return m.destroyed }

// IsAlive implements Entity.
func (m *MysteryShip) IsAlive() bool { return !m.destroyed }

// Bounds implements Entity.
func (m *MysteryShip) Bounds() physics.Rect {
	return physics.Rect{X: m.X, Y: m.Y, W: m.W, H: m.H}
}

// Velocity implements Entity.
func (m *MysteryShip) Velocity() (float64, float64) { return m.VX, 0 }

// Update moves the ship and removes it once it has crossed the screen.
func (m *MysteryShip) Update(ctx UpdateContext) (bool, error) {
	if m.destroyed {
		return true, nil
	}
	m.X += m.VX * ctx.Delta.Seconds()
	if (m.VX > 0 && m.X > ctx.Screen.Width) || (m.VX < 0 && m.X+m.W < 0) {
		m.escaped = true
		m.destroyed = true
		return true, nil
	}
	return false, nil
}

// Draw renders the saucer with a health bar above it.
func (m *MysteryShip) Draw(ctx DrawContext) error {
	if m.destroyed {
		return nil
	}
	s := ctx.Surface
	s.FillRect(m.X, m.Y+m.H*0.4, m.W, m.H*0.6, draw.Red)
	s.FillRect(m.X+m.W*0.3, m.Y, m.W*0.4, m.H*0.4, draw.Red)

	frac := float64(m.Health) / float64(config.MysteryHealth)
	s.FillRect(m.X, m.Y-8, m.W, 4, draw.Gray)
	s.FillRect(m.X, m.Y-8, m.W*frac, 4, draw.Green)
	return nil
}

// Bounty creates the key and chest dropped by a destroyed ship.
func (m *MysteryShip) Bounty(rng *rand.Rand) (*Key, *Chest) {
	cx, cy := m.Bounds().Center()
	return NewKey(cx+config.KeyOffsetX, cy), NewChest(cx, cy, rng)
}
