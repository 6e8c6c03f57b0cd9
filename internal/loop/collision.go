package loop

import (
	"fmt"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
)

// blockTag marks bunker blocks in the broad-phase space.
const blockTag = "block"

// checkCollisions resolves all hits for this frame. Lasers are handled in
// spawn order and each laser is consumed by the first live target it
// touches, checked in this order: bunker blocks, the mystery ship,
// formation aliens (row-major), free aliens, the player. Anything that dies
// is skipped by every later check.
func (g *Game) checkCollisions() {
	g.checkLaserLaserCollisions()

	for _, l := range g.lasers {
		if l.IsDestroyed() {
			continue
		}
		if g.laserHitsBlock(l) {
			continue
		}
		if l.Owner == object.OwnerPlayer {
			if g.laserHitsMystery(l) || g.laserHitsAlien(l) {
				continue
			}
		} else {
			g.laserHitsPlayer(l)
		}
	}

	g.checkAlienBlockCollisions()
	g.checkAlienPlayerCollisions()
	g.checkPickups()
}

// checkLaserLaserCollisions destroys player and alien lasers that meet.
func (g *Game) checkLaserLaserCollisions() {
	for i, l1 := range g.lasers {
		if l1.IsDestroyed() {
			continue
		}
		for _, l2 := range g.lasers[i+1:] {
			if l2.IsDestroyed() || l1.Owner == l2.Owner {
				continue
			}
			if l1.Bounds().Overlaps(l2.Bounds()) {
				l1.MarkDestroyed()
				l2.MarkDestroyed()
				break
			}
		}
	}
}

// laserHitsBlock chips the first block in the laser's path. Upward lasers
// meet the lowest block first, downward lasers the highest.
func (g *Game) laserHitsBlock(l *object.Laser) bool {
	var hit *object.Block
	for _, v := range g.space.Query(l.Bounds(), blockTag) {
		b := v.(*object.Block)
		if b.IsDestroyed() {
			continue
		}
		if hit == nil || closerBlock(b, hit, l.VY) {
			hit = b
		}
	}
	if hit == nil {
		return false
	}
	l.MarkDestroyed()
	if hit.Hit() {
		g.removeBlock(hit)
	}
	return true
}

// closerBlock reports whether a is met before b by a laser moving with vy.
// Ties go to the block further left so the result does not depend on query
// order.
func closerBlock(a, b *object.Block, vy float64) bool {
	if a.Y != b.Y {
		if vy < 0 {
			return a.Y > b.Y
		}
		return a.Y < b.Y
	}
	return a.X < b.X
}

func (g *Game) removeBlock(b *object.Block) {
	if h, ok := g.handles[b]; ok {
		g.space.Remove(h)
		delete(g.handles, b)
	}
}

// laserHitsMystery damages the mystery ship. Destroying it pays out
// multiplied coins and drops a key and a chest.
func (g *Game) laserHitsMystery(l *object.Laser) bool {
	m := g.mystery
	if m == nil || m.IsDestroyed() || !l.Bounds().Overlaps(m.Bounds()) {
		return false
	}
	l.MarkDestroyed()
	if !m.Hit(config.MysteryHitDamage) {
		return true
	}

	coins := g.economy.AddScore(m.Points)
	bonus := coins * (config.MysteryCoinMultiplier - 1)
	g.economy.Earn(bonus)

	cx, cy := m.Bounds().Center()
	object.SpawnExplosion(cx, cy, 24, 180, 1.0, draw.Red, g.rng, g)
	g.popup(cx, cy-20, fmt.Sprintf("+%d gold", coins+bonus), draw.Gold)

	key, chest := m.Bounty(g.rng)
	g.Spawn(key)
	g.Spawn(chest)
	g.bountyBanner = config.BountyBannerSeconds
	g.logger.Info("mystery ship destroyed", "points", m.Points, "coins", coins+bonus)
	return true
}

// laserHitsAlien kills the first live alien the laser touches, formation
// members first in row-major order, then free aliens in spawn order.
func (g *Game) laserHitsAlien(l *object.Laser) bool {
	box := l.Bounds()
	for _, a := range g.formation.Members() {
		if a.IsAlive() && box.Overlaps(a.Bounds()) {
			g.killAlien(l, a)
			return true
		}
	}
	for _, a := range g.aliens {
		if a.IsAlive() && box.Overlaps(a.Bounds()) {
			g.killAlien(l, a)
			return true
		}
	}
	return false
}

func (g *Game) killAlien(l *object.Laser, a *object.Alien) {
	l.MarkDestroyed()
	a.MarkDestroyed()
	coins := g.economy.AddScore(a.Points)

	cx, cy := a.Bounds().Center()
	object.SpawnExplosion(cx, cy, 10, 120, 0.6, draw.Orange, g.rng, g)
	if coins > 0 {
		g.popup(cx, cy, fmt.Sprintf("+%d", coins), draw.Gold)
	}
}

// laserHitsPlayer applies an alien laser to the player. An invincible player
// lets lasers pass through.
func (g *Game) laserHitsPlayer(l *object.Laser) bool {
	p := g.player
	if !p.IsAlive() || p.Invincible() || !l.Bounds().Overlaps(p.Bounds()) {
		return false
	}
	l.MarkDestroyed()
	g.damagePlayer()
	return true
}

func (g *Game) damagePlayer() {
	if !g.player.Damage(config.HitDamage) {
		return
	}
	cx, cy := g.player.Bounds().Center()
	object.SpawnExplosion(cx, cy, 20, 160, 1.0, draw.Green, g.rng, g)
	g.logger.Debug("life lost", "lives", g.player.Lives)
}

// checkAlienBlockCollisions lets aliens grind through bunkers.
func (g *Game) checkAlienBlockCollisions() {
	if g.space.Len() == 0 {
		return
	}
	grind := func(a *object.Alien) {
		if !a.IsAlive() {
			return
		}
		for _, v := range g.space.Query(a.Bounds(), blockTag) {
			b := v.(*object.Block)
			if !b.IsDestroyed() {
				b.MarkDestroyed()
				g.removeBlock(b)
			}
		}
	}
	for _, a := range g.formation.Members() {
		grind(a)
	}
	for _, a := range g.aliens {
		grind(a)
	}
}

// checkAlienPlayerCollisions destroys aliens that ram the player and damages
// the player. No points are awarded.
func (g *Game) checkAlienPlayerCollisions() {
	p := g.player
	if !p.IsAlive() || p.Invincible() {
		return
	}
	box := p.Bounds()
	ram := func(a *object.Alien) bool {
		if !a.IsAlive() || !box.Overlaps(a.Bounds()) {
			return false
		}
		a.MarkDestroyed()
		cx, cy := a.Bounds().Center()
		object.SpawnExplosion(cx, cy, 10, 120, 0.6, draw.Orange, g.rng, g)
		g.damagePlayer()
		return true
	}
	for _, a := range g.formation.Members() {
		if ram(a) {
			return
		}
	}
	for _, a := range g.aliens {
		if ram(a) {
			return
		}
	}
}

// checkPickups collects keys and opens chests the player touches.
func (g *Game) checkPickups() {
	p := g.player
	if !p.IsAlive() {
		return
	}
	box := p.Bounds()
	for _, k := range g.keys {
		if k.IsAlive() && box.Overlaps(k.Bounds()) {
			k.Collect()
			p.HasKey = true
			g.popup(p.X+p.W/2, p.Y-10, "KEY", draw.Gold)
		}
	}
	for _, c := range g.chests {
		if !c.IsAlive() || !box.Overlaps(c.Bounds()) {
			continue
		}
		reward, ok := c.Unlock(p.HasKey)
		if !ok {
			continue
		}
		p.HasKey = false
		g.applyReward(reward, c.Bounds())
	}
}

func (g *Game) applyReward(r object.Reward, at physics.Rect) {
	g.economy.Earn(r.Coins)
	healed := 0
	if r.HealthPacks > 0 {
		healed = g.player.Heal(r.HealthPacks * config.HealthPerPack)
	}
	cx, cy := at.Center()
	msg := fmt.Sprintf("+%d gold", r.Coins)
	if healed > 0 {
		msg += fmt.Sprintf(" +%d HP", healed)
	}
	g.popup(cx, cy, msg, draw.Gold)
	g.logger.Info("chest opened", "coins", r.Coins, "health_packs", r.HealthPacks)
}
