package object

import (
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Player is the ship at the bottom of the screen.
type Player struct {
	X, Y float64 // Top-left corner
	W, H float64

	Speed  float64 // Units per second
	Lives  int
	Health int
	HasKey bool

	// Shooting
	FireRate     float64 // Minimum seconds between shots
	fireCooldown float64

	invincible float64 // Seconds of damage immunity left
	vx, vy     float64 // Last frame's movement, for Velocity
	destroyed  bool
}

// NewPlayer creates a player centred at the bottom of screen.
func NewPlayer(screen Screen) *Player {
	return &Player{
		X:        (screen.Width - config.PlayerWidth) / 2,
		Y:        screen.Height - config.PlayerHeight - config.PlayerBottomMargin,
		W:        config.PlayerWidth,
		H:        config.PlayerHeight,
		Speed:    config.PlayerSpeed,
		Lives:    config.InitialLives,
		Health:   config.MaxHealth,
		FireRate: config.PlayerFireRate,
	}
}

// Update handles movement, clamped to the playfield, and shooting.
func (p *Player) Update(ctx UpdateContext) (bool, error) {
	if p.destroyed {
		return false, nil
	}
	dt := ctx.Delta.Seconds()

	if p.invincible > 0 {
		p.invincible -= dt
	}

	p.vx, p.vy = 0, 0
	if ctx.Input.Left {
		p.vx -= p.Speed
	}
	if ctx.Input.Right {
		p.vx += p.Speed
	}
	if ctx.Input.Up {
		p.vy -= p.Speed
	}
	if ctx.Input.Down {
		p.vy += p.Speed
	}
	p.X = physics.Clamp(p.X+p.vx*dt, 0, ctx.Screen.Width-p.W)
	p.Y = physics.Clamp(p.Y+p.vy*dt, 0, ctx.Screen.Height-p.H)

	p.fireCooldown -= dt
	if ctx.Input.Space && p.fireCooldown <= 0 && ctx.Spawner != nil {
		p.fireCooldown = p.FireRate
		ctx.Spawner.Spawn(NewPlayerLaser(p.X+p.W/2, p.Y))
	}

	return false, nil
}

// Damage removes amount health unless the player is invincible. When health
// runs out a life is lost; with lives left the player respawns at full
// health with a short invincibility window. Reports whether a life was lost.
func (p *Player) Damage(amount int) (lifeLost bool) {
	if p.destroyed || p.invincible > 0 || amount <= 0 {
		return false
	}
	p.Health -= amount
	if p.Health > 0 {
		return false
	}

	p.Lives--
	if p.Lives <= 0 {
		p.Lives = 0
		p.Health = 0
		p.destroyed = true
		return true
	}
	p.Health = config.MaxHealth
	p.invincible = config.InvincibilitySeconds
	return true
}

// Heal adds health up to the maximum and returns the amount actually added.
func (p *Player) Heal(amount int) int {
	if amount <= 0 || p.Health >= config.MaxHealth {
		return 0
	}
	before := p.Health
	p.Health = min(p.Health+amount, config.MaxHealth)
	return p.Health - before
}

// AddLife grants one life up to MaxLives.
func (p *Player) AddLife() {
	if p.Lives < config.MaxLives {
		p.Lives++
	}
}

// Invincible reports whether damage is currently ignored.
func (p *Player) Invincible() bool { return p.invincible > 0 }

// MarkDestroyed marks the player as dead.
func (p *Player) MarkDestroyed() { p.destroyed = true }

// IsDestroyed returns true once the player has no lives left.
func (p *Player) IsDestroyed() bool { return p.destroyed }

// IsAlive implements Entity.
func (p *Player) IsAlive() bool { return !p.destroyed }

// Bounds implements Entity.
func (p *Player) Bounds() physics.Rect {
	return physics.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

// Velocity implements Entity.
func (p *Player) Velocity() (float64, float64) { return p.vx, p.vy }

// Draw renders the ship as a hull with a cannon, blinking while invincible.
func (p *Player) Draw(ctx DrawContext) error {
	if p.destroyed || !ShouldRenderBlink(p.invincible, config.PlayerBlinkFrequency) {
		return nil
	}
	s := ctx.Surface
	hullTop := p.Y + p.H*0.4
	s.FillRect(p.X, hullTop, p.W, p.Y+p.H-hullTop, draw.Green)
	s.FillRect(p.X+p.W*0.4, p.Y, p.W*0.2, p.H*0.4, draw.Green)
	return nil
}
