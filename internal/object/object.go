// Package object holds the game entities and the interfaces the loop drives
// them through.
package object

import (
	"math/rand/v2"
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/physics"
)

// Spawner allows objects to spawn new objects during update.
// Spawned objects join the world after the update phase.
type Spawner interface {
	Spawn(obj Entity)
}

// Input is an alias for the input package's Input type.
type Input = input.Input

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Input   Input
	Screen  Screen
	Spawner Spawner
	Rand    *rand.Rand
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Surface draw.Surface
}

// Screen is the logical playfield size.
type Screen struct {
	Width  float64
	Height float64
}

// Contains reports whether any part of r is on the playfield.
func (s Screen) Contains(r physics.Rect) bool {
	return r.Inside(s.Width, s.Height)
}

// Entity is a drawable and updatable game entity with a hit box.
type Entity interface {
	// Update advances the entity. Returns true if it should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw renders the entity. Entities that are not alive draw nothing.
	Draw(ctx DrawContext) error

	Bounds() physics.Rect
	Velocity() (vx, vy float64)
	IsAlive() bool
}

// Destructible is implemented by entities that can be destroyed.
type Destructible interface {
	// MarkDestroyed marks the entity for removal. It stops colliding and
	// drawing immediately.
	MarkDestroyed()
	IsDestroyed() bool
}

// ShouldRenderBlink returns true if an object with remaining protection/invincibility
// time should be rendered this frame (for blinking effect).
// Returns true always if remainingTime <= 0 (no protection).
func ShouldRenderBlink(remainingTime float64, frequency float64) bool {
	if remainingTime <= 0 {
		return true
	}
	phase := int(remainingTime * frequency)
	return phase%2 != 0
}

// fillBounds draws r as a solid rectangle.
func fillBounds(s draw.Surface, r physics.Rect, c draw.Color) {
	s.FillRect(r.X, r.Y, r.W, r.H, c)
}
