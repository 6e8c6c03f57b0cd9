package object

import (
	"math"
	"math/rand/v2"
	"sync"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/physics"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// particleSize is the edge length of a debris square.
const particleSize = 4.0

// Particle is a short-lived piece of debris. It never collides.
type Particle struct {
	X, Y        float64
	VX, VY      float64
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity kept per 1/60 s (1.0 = no drag)
	Color       draw.Color
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Entity) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, c draw.Color) *Particle {
	p := particlePool.Get().(*Particle)
	*p = Particle{
		X:           x,
		Y:           y,
		VX:          vx,
		VY:          vy,
		Lifetime:    lifetime,
		MaxLifetime: lifetime,
		Drag:        0.95,
		Color:       c,
	}
	return p
}

// Release returns the particle to the pool for reuse.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// SpawnExplosion creates particles in a circular burst around (x, y).
func SpawnExplosion(x, y float64, count int, speed, lifetime float64, c draw.Color, rng *rand.Rand, spawner Spawner) {
	if spawner == nil || rng == nil {
		return
	}
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		spd := speed * (0.5 + rng.Float64())
		life := lifetime * (0.5 + rng.Float64()*0.5)
		spawner.Spawn(NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life, c))
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor
	p.X += p.VX * dt
	p.Y += p.VY * dt

	return false, nil
}

// Draw renders the particle, skipping the last quarter of its life.
func (p *Particle) Draw(ctx DrawContext) error {
	if p.Lifetime <= 0 || (p.MaxLifetime > 0 && p.Lifetime/p.MaxLifetime < 0.25) {
		return nil
	}
	ctx.Surface.FillRect(p.X, p.Y, particleSize, particleSize, p.Color)
	return nil
}

// Bounds implements Entity.
func (p *Particle) Bounds() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: particleSize, H: particleSize}
}

// Velocity implements Entity.
func (p *Particle) Velocity() (float64, float64) { return p.VX, p.VY }

// IsAlive implements Entity.
func (p *Particle) IsAlive() bool { return p.Lifetime > 0 }
