// Package wave runs the alien wave state machine: build a wave, watch it
// until it is cleared or the player loses, pause on a banner, repeat.
package wave

import (
	"math/rand/v2"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Phase is the controller state.
type Phase int

const (
	PhaseSpawning Phase = iota
	PhaseActive
	PhaseCleared
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawning:
		return "spawning"
	case PhaseActive:
		return "active"
	case PhaseCleared:
		return "cleared"
	case PhaseGameOver:
		return "game over"
	}
	return "unknown"
}

// Event reports a transition made by Check or Tick.
type Event int

const (
	EventNone Event = iota
	EventWaveCleared
	EventNextWave
	EventGameOver
)

// GameOverReason says why the game ended.
type GameOverReason int

const (
	ReasonNone GameOverReason = iota
	ReasonNoLives
	ReasonInvaded // The formation reached the player's row
)

func (r GameOverReason) String() string {
	switch r {
	case ReasonNoLives:
		return "no lives left"
	case ReasonInvaded:
		return "invaded"
	}
	return "none"
}

// Controller tracks the current wave and its phase. The zero value is not
// usable; call NewController.
type Controller struct {
	phase         Phase
	wave          int
	banner        float64
	bannerSeconds float64
	step          float64
	reason        GameOverReason
}

// NewController starts at wave 0 in PhaseSpawning.
func NewController() *Controller {
	return &Controller{
		phase:         PhaseSpawning,
		bannerSeconds: config.ClearedBannerSeconds,
		step:          config.DifficultyStep,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase { return c.phase }

// Wave returns the 0-based wave index.
func (c *Controller) Wave() int { return c.wave }

// Difficulty returns the multiplier for the current wave.
func (c *Controller) Difficulty() float64 { return Difficulty(c.wave) }

// Reason returns why the game ended, or ReasonNone.
func (c *Controller) Reason() GameOverReason { return c.reason }

// BannerRemaining returns the seconds left on the wave-cleared banner.
func (c *Controller) BannerRemaining() float64 { return c.banner }

// Spawn builds the next wave when the controller is in PhaseSpawning and
// moves it to PhaseActive. It returns false in any other phase.
func (c *Controller) Spawn(screen object.Screen, rng *rand.Rand) (Spawn, bool) {
	if c.phase != PhaseSpawning {
		return Spawn{}, false
	}
	s := Build(c.wave, screen, rng)
	c.phase = PhaseActive
	return s, true
}

// Check runs the PhaseActive transitions. Reaching the player's row ends the
// game regardless of lives.
func (c *Controller) Check(liveAliens int, formationBottom, playerTop float64, lives int) Event {
	if c.phase != PhaseActive {
		return EventNone
	}
	switch {
	case liveAliens > 0 && formationBottom >= playerTop:
		c.end(ReasonInvaded)
		return EventGameOver
	case lives <= 0:
		c.end(ReasonNoLives)
		return EventGameOver
	case liveAliens == 0:
		c.phase = PhaseCleared
		c.banner = c.bannerSeconds
		return EventWaveCleared
	}
	return EventNone
}

// Tick counts down the cleared banner and moves on to the next wave.
func (c *Controller) Tick(dt float64) Event {
	if c.phase != PhaseCleared {
		return EventNone
	}
	c.banner -= dt
	if c.banner > 0 {
		return EventNone
	}
	c.banner = 0
	c.wave++
	c.phase = PhaseSpawning
	return EventNextWave
}

// End forces PhaseGameOver, e.g. when the player dies outside a Check.
func (c *Controller) End(reason GameOverReason) {
	c.end(reason)
}

func (c *Controller) end(reason GameOverReason) {
	if c.phase == PhaseGameOver {
		return
	}
	c.phase = PhaseGameOver
	c.reason = reason
}

// Difficulty returns 1 + DifficultyStep*wave.
func Difficulty(wave int) float64 {
	if wave < 0 {
		wave = 0
	}
	return 1 + config.DifficultyStep*float64(wave)
}

// LevelBonus returns the coins granted for clearing wave: base*2^wave, with
// the exponent capped at LevelBonusCap.
func LevelBonus(base, wave int) int {
	exp := min(max(wave, 0), config.LevelBonusCap)
	return base << exp
}
