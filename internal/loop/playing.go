package loop

import (
	"fmt"
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/wave"
)

// step runs one frame of gameplay: spawn the wave if due, move everything,
// resolve collisions, drop dead entities and check wave transitions.
func (g *Game) step(in input.Input, dt time.Duration) error {
	if sp, ok := g.waves.Spawn(g.screen, g.rng); ok {
		g.startWave(sp)
	}

	ctx := object.UpdateContext{
		Delta:   dt,
		Input:   in,
		Screen:  g.screen,
		Spawner: g,
		Rand:    g.rng,
	}
	if err := g.updateObjects(ctx); err != nil {
		return err
	}

	secs := dt.Seconds()
	if g.waves.Phase() == wave.PhaseActive {
		g.formation.Advance(secs, g.screen)
		g.alienFire(secs)
		g.mysteryTick(secs)
	}
	if g.bountyBanner > 0 {
		g.bountyBanner -= secs
	}
	g.flushSpawned()

	g.checkCollisions()
	g.reap()
	g.checkWave(secs)
	return nil
}

// startWave installs a freshly built wave.
func (g *Game) startWave(sp wave.Spawn) {
	g.formation = sp.Formation
	g.aliens = sp.Extras
	g.lasers = g.lasers[:0]
	g.alienFireTimer = g.alienFireInterval()
	if g.waves.Wave() > 0 {
		g.buildBunkers()
	}
	g.logger.Info("wave started", "wave", g.waves.Wave()+1, "aliens", sp.Count(), "difficulty", g.waves.Difficulty())
}

// updateObjects updates all entities and removes any that request removal.
func (g *Game) updateObjects(ctx object.UpdateContext) error {
	if _, err := g.player.Update(ctx); err != nil {
		return err
	}

	var err error
	if g.lasers, err = updateAll(ctx, g.lasers); err != nil {
		return err
	}
	if g.aliens, err = updateAll(ctx, g.aliens); err != nil {
		return err
	}
	if g.keys, err = updateAll(ctx, g.keys); err != nil {
		return err
	}
	if g.chests, err = updateAll(ctx, g.chests); err != nil {
		return err
	}
	if g.mystery != nil {
		remove, err := g.mystery.Update(ctx)
		if err != nil {
			return err
		}
		if remove {
			if g.mystery.Escaped() {
				g.logger.Debug("mystery ship escaped")
			}
			g.mystery = nil
		}
	}
	return g.updateEffects(ctx)
}

// updateEffects updates particles and floating text, returning finished
// particles to their pool.
func (g *Game) updateEffects(ctx object.UpdateContext) error {
	kept := g.effects[:0]
	for _, e := range g.effects {
		remove, err := e.Update(ctx)
		if err != nil {
			return err
		}
		if remove {
			object.ReleaseObject(e)
			continue
		}
		kept = append(kept, e)
	}
	clear(g.effects[len(kept):])
	g.effects = kept
	return nil
}

// updateAll updates every entity in list and keeps the ones that stay.
// The backing array is reused.
func updateAll[T object.Entity](ctx object.UpdateContext, list []T) ([]T, error) {
	kept := list[:0]
	for _, e := range list {
		remove, err := e.Update(ctx)
		if err != nil {
			return nil, err
		}
		if !remove {
			kept = append(kept, e)
		}
	}
	clear(list[len(kept):])
	return kept, nil
}

// reap removes every entity that is no longer alive, so nothing that died
// this frame is drawn.
func (g *Game) reap() {
	g.lasers = keepAlive(g.lasers)
	g.aliens = keepAlive(g.aliens)
	g.keys = keepAlive(g.keys)
	g.chests = keepAlive(g.chests)
	g.blocks = keepAlive(g.blocks)
	if g.mystery != nil && !g.mystery.IsAlive() {
		g.mystery = nil
	}
}

func keepAlive[T object.Entity](list []T) []T {
	kept := list[:0]
	for _, e := range list {
		if e.IsAlive() {
			kept = append(kept, e)
		}
	}
	clear(list[len(kept):])
	return kept
}

// alienFireInterval is the time between alien shots for the current wave.
func (g *Game) alienFireInterval() float64 {
	return max(config.AlienFireInterval/g.waves.Difficulty(), config.MinAlienFireGap)
}

// alienFire lets a random bottom-most alien shoot when the timer runs out.
// Free aliens that are on screen may shoot too.
func (g *Game) alienFire(dt float64) {
	g.alienFireTimer -= dt
	if g.alienFireTimer > 0 {
		return
	}
	g.alienFireTimer = g.alienFireInterval()

	shooters := g.formation.BottomRow()
	for _, a := range g.aliens {
		if a.IsAlive() && a.Y >= 0 && a.Kind == object.KindDiagonal {
			shooters = append(shooters, a)
		}
	}
	if len(shooters) == 0 {
		return
	}
	b := shooters[g.rng.IntN(len(shooters))].Bounds()
	g.Spawn(object.NewAlienLaser(b.X+b.W/2, b.Y+b.H, config.AlienLaserSpeed*g.waves.Difficulty()))
}

func (g *Game) nextMysteryDelay() float64 {
	return config.MysteryMinDelay + g.rng.Float64()*(config.MysteryMaxDelay-config.MysteryMinDelay)
}

// mysteryTick launches a mystery ship when its timer runs out. Only one ship
// flies at a time.
func (g *Game) mysteryTick(dt float64) {
	if g.mystery != nil {
		return
	}
	g.mysteryTimer -= dt
	if g.mysteryTimer > 0 {
		return
	}
	g.mysteryTimer = g.nextMysteryDelay()
	g.mystery = object.NewMysteryShip(g.screen, g.rng.IntN(2) == 0)
	g.logger.Debug("mystery ship launched")
}

// liveAliens counts live formation and free aliens.
func (g *Game) liveAliens() int {
	n := g.formation.LiveCount()
	for _, a := range g.aliens {
		if a.IsAlive() {
			n++
		}
	}
	return n
}

// invasionLine is the top of the player's starting row. The formation
// reaching it ends the game.
func (g *Game) invasionLine() float64 {
	return g.screen.Height - config.PlayerHeight - config.PlayerBottomMargin
}

// checkWave runs the wave controller transitions for this frame.
func (g *Game) checkWave(dt float64) {
	if !g.player.IsAlive() && g.waves.Phase() != wave.PhaseGameOver {
		g.waves.End(wave.ReasonNoLives)
		g.gameOver()
		return
	}

	switch g.waves.Phase() {
	case wave.PhaseActive:
		switch g.waves.Check(g.liveAliens(), g.formation.Bottom(), g.invasionLine(), g.player.Lives) {
		case wave.EventWaveCleared:
			g.waveCleared()
		case wave.EventGameOver:
			g.gameOver()
		}
	case wave.PhaseCleared:
		g.waves.Tick(dt)
	}
}

// waveCleared pays the level bonus, patches the player up and syncs coins.
func (g *Game) waveCleared() {
	bonus := wave.LevelBonus(g.opts.CoinsPerLevelComplete, g.waves.Wave())
	g.economy.Earn(bonus)
	g.player.Heal(config.WaveHealthReward)
	g.player.AddLife()
	g.popup(g.screen.Width/2, g.screen.Height/2+40, fmt.Sprintf("+%d gold", bonus), draw.Gold)
	g.logger.Info("wave cleared", "wave", g.waves.Wave()+1, "bonus", bonus, "score", g.economy.Score())
	g.flushCoins()
}

func (g *Game) gameOver() {
	g.state = GameStateOver
	g.player.MarkDestroyed()
	cx, cy := g.player.Bounds().Center()
	object.SpawnExplosion(cx, cy, 30, 200, 1.2, draw.Green, g.rng, g)
	g.flushSpawned()

	stats := g.economy.Summary()
	g.logger.Info("game over",
		"reason", g.waves.Reason(),
		"wave", g.waves.Wave()+1,
		"score", stats.Score,
		"earned", stats.EarnedCoins,
	)
	g.flushCoins()
}

// popup shows a floating text centred on (x, y).
func (g *Game) popup(x, y float64, s string, c draw.Color) {
	g.Spawn(object.NewText(x, y, s, c, 1.0))
}
