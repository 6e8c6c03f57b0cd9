package wave

import (
	"math/rand/v2"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// maxExtras caps the diagonal and diver counts for waves past the table.
const maxExtras = 30

// Spawn is the population of one wave.
type Spawn struct {
	Formation *object.Formation
	Extras    []*object.Alien // Diagonal aliens first, then divers
}

// Count returns the number of aliens in the wave.
func (s Spawn) Count() int {
	n := len(s.Extras)
	if s.Formation != nil {
		n += len(s.Formation.Members())
	}
	return n
}

// LevelFor returns the level table row for wave. Waves past the table reuse
// the last row with extra diagonal and diver aliens.
func LevelFor(wave int) config.Level {
	last := len(config.Levels) - 1
	if wave <= last {
		return config.Levels[max(wave, 0)]
	}
	lvl := config.Levels[last]
	extra := 2 * (wave - last)
	lvl.DiagonalCount = min(lvl.DiagonalCount+extra, maxExtras)
	lvl.DiverCount = min(lvl.DiverCount+extra, maxExtras)
	return lvl
}

// Build creates the formation and extra aliens for wave. Speeds scale with
// both the level's speed and the wave's difficulty multiplier. Extra aliens
// start above the screen and enter staggered.
func Build(wave int, screen object.Screen, rng *rand.Rand) Spawn {
	lvl := LevelFor(wave)
	diff := Difficulty(wave)

	s := Spawn{
		Formation: object.NewFormation(lvl.Rows, lvl.Cols, config.BaseAlienSpeed*lvl.Speed*diff),
	}

	diagSpeed := config.BaseAlienSpeed * config.DiagonalSpeedFactor * diff
	for i := 0; i < lvl.DiagonalCount; i++ {
		x := screen.Width / 2
		if lvl.DiagonalCount > 1 {
			x = 50 + float64(i)*(screen.Width-100-config.AlienWidth)/float64(lvl.DiagonalCount-1)
		}
		dir := 1.0
		if i%2 == 1 {
			dir = -1
		}
		y := -30 - float64(i)*40
		s.Extras = append(s.Extras, object.NewAlien(object.KindDiagonal, x, y, dir*diagSpeed, diagSpeed/2, config.DiagonalPoints))
	}

	diveSpeed := config.BaseAlienSpeed * config.DiverSpeedFactor * (1 + config.DiverLevelBoost*float64(wave)) * diff
	if lvl.DiverCount > 0 {
		section := (screen.Width - 100 - config.AlienWidth) / float64(lvl.DiverCount)
		for i := 0; i < lvl.DiverCount; i++ {
			x := 50 + float64(i)*section
			if rng != nil {
				x += rng.Float64() * section / 2
			}
			y := -60 - float64(i)*50
			s.Extras = append(s.Extras, object.NewAlien(object.KindDiver, x, y, 0, diveSpeed, config.DiverPoints))
		}
	}
	return s
}
