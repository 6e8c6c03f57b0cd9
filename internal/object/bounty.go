package object

import (
	"math/rand/v2"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Key falls from a destroyed mystery ship and unlocks a Chest.
type Key struct {
	X, Y      float64
	W, H      float64
	VY        float64
	destroyed bool
}

// NewKey creates a key centred on (cx, cy).
func NewKey(cx, cy float64) *Key {
	return &Key{
		X:  cx - config.KeyWidth/2,
		Y:  cy - config.KeyHeight/2,
		W:  config.KeyWidth,
		H:  config.KeyHeight,
		VY: config.KeyFallSpeed,
	}
}

// Collect removes the key from play.
func (k *Key) Collect() { k.destroyed = true }

// Entity and Destructible.
func (k *Key) MarkDestroyed() { k.destroyed = true }
func (k *Key) IsDestroyed() bool { return k.destroyed }
func (k *Key) IsAlive() bool { return !k.destroyed }
func (k *Key) Velocity() (float64, float64) { return 0, k.VY }

func (k *Key) Bounds() physics.Rect {
	return physics.Rect{X: k.X, Y: k.Y, W: k.W, H: k.H}
}

// Update lets the key fall and removes it below the screen.
func (k *Key) Update(ctx UpdateContext) (bool, error) {
	if k.destroyed {
		return true, nil
	}
	k.Y += k.VY * ctx.Delta.Seconds()
	if k.Y > ctx.Screen.Height {
		k.destroyed = true
		return true, nil
	}
	return false, nil
}

func (k *Key) Draw(ctx DrawContext) error {
	if k.destroyed {
		return nil
	}
	s := ctx.Surface
	s.FillRect(k.X, k.Y, k.W, k.H*0.4, draw.Gold)
	s.FillRect(k.X+k.W*0.35, k.Y+k.H*0.4, k.W*0.3, k.H*0.6, draw.Gold)
	return nil
}

// Reward is what an unlocked chest grants.
type Reward struct {
	Coins       int
	HealthPacks int
}

// Chest is a locked treasure chest. Its reward is rolled when it spawns.
type Chest struct {
	X, Y      float64
	W, H      float64
	Locked    bool
	reward    Reward
	destroyed bool
}

// NewChest creates a locked chest centred on (cx, cy).
func NewChest(cx, cy float64, rng *rand.Rand) *Chest {
	r := Reward{Coins: config.ChestMinCoins + rng.IntN(config.ChestMaxCoins-config.ChestMinCoins+1)}
	if rng.Float64() < config.ChestHealthPackChance {
		r.HealthPacks = config.ChestMinHealthPacks + rng.IntN(config.ChestMaxHealthPacks-config.ChestMinHealthPacks+1)
	}
	return &Chest{
		X:      cx - config.ChestWidth/2,
		Y:      cy - config.ChestHeight/2,
		W:      config.ChestWidth,
		H:      config.ChestHeight,
		Locked: true,
		reward: r,
	}
}

// Unlock opens the chest if hasKey and it is still locked. The chest is
// removed once opened.
func (c *Chest) Unlock(hasKey bool) (Reward, bool) {
	if c.destroyed || !c.Locked || !hasKey {
		return Reward{}, false
	}
	c.Locked = false
	c.destroyed = true
	return c.reward, true
}

// Entity and Destructible.
func (c *Chest) MarkDestroyed() { c.destroyed = true }
func (c *Chest) IsDestroyed() bool { return c.destroyed }
func (c *Chest) IsAlive() bool { return !c.destroyed }
func (c *Chest) Velocity() (float64, float64) { return 0, 0 }

// Bounds implements Entity.
func (c *Chest) Bounds() physics.Rect {
	return physics.Rect{X: c.X, Y: c.Y, W: c.W, H: c.H}
}

func (c *Chest) Update(UpdateContext) (bool, error) {
	return c.destroyed, nil
}

func (c *Chest) Draw(ctx DrawContext) error {
	if c.destroyed {
		return nil
	}
	s := ctx.Surface
	s.FillRect(c.X, c.Y, c.W, c.H, draw.Brown)
	s.FillRect(c.X, c.Y+c.H*0.35, c.W, c.H*0.1, draw.Gold)
	s.FillRect(c.X+c.W*0.4, c.Y+c.H*0.3, c.W*0.2, c.H*0.25, draw.Gold)
	return nil
}
