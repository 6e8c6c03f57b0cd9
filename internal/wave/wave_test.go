package wave

import (
	"math/rand/v2"
	"testing"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

var screen = object.Screen{Width: 1280, Height: 720}

func rng() *rand.Rand { return rand.New(rand.NewPCG(3, 4)) }

func TestClearedExactlyOnLastKill(t *testing.T) {
	c := NewController()
	s, ok := c.Spawn(screen, rng())
	if !ok || c.Phase() != PhaseActive {
		t.Fatalf("Spawn ok=%v phase=%v", ok, c.Phase())
	}
	f := s.Formation
	n := len(f.Members())

	for i, a := range f.Members() {
		a.MarkDestroyed()
		ev := c.Check(f.LiveCount(), f.Bottom(), 680, 3)
		if i < n-1 {
			if ev != EventNone || c.Phase() != PhaseActive {
				t.Fatalf("after %d/%d kills: event=%v phase=%v", i+1, n, ev, c.Phase())
			}
			continue
		}
		if ev != EventWaveCleared || c.Phase() != PhaseCleared {
			t.Fatalf("after last kill: event=%v phase=%v", ev, c.Phase())
		}
	}

	if ev := c.Check(0, 0, 680, 3); ev != EventNone {
		t.Fatalf("cleared emitted twice: %v", ev)
	}
}

func TestWaveIndexAndDifficultyIncrease(t *testing.T) {
	c := NewController()
	prevWave, prevDiff := c.Wave(), c.Difficulty()

	for round := 0; round < 8; round++ {
		if _, ok := c.Spawn(screen, rng()); !ok {
			t.Fatalf("round %d: spawn refused in %v", round, c.Phase())
		}
		c.Check(0, 0, 680, 3)
		if c.Tick(config.ClearedBannerSeconds/2) != EventNone {
			t.Fatal("banner ended early")
		}
		if ev := c.Tick(config.ClearedBannerSeconds); ev != EventNextWave {
			t.Fatalf("round %d: tick event = %v", round, ev)
		}
		if c.Phase() != PhaseSpawning {
			t.Fatalf("phase = %v, want spawning", c.Phase())
		}
		if c.Wave() <= prevWave {
			t.Fatalf("wave %d not above %d", c.Wave(), prevWave)
		}
		if c.Difficulty() < prevDiff {
			t.Fatalf("difficulty %v dropped below %v", c.Difficulty(), prevDiff)
		}
		prevWave, prevDiff = c.Wave(), c.Difficulty()
	}
}

func TestFormationReachingPlayerEndsGame(t *testing.T) {
	c := NewController()
	c.Spawn(screen, rng())
	if ev := c.Check(5, 700, 682, 1); ev != EventGameOver {
		t.Fatalf("event = %v, want game over", ev)
	}
	if c.Phase() != PhaseGameOver || c.Reason() != ReasonInvaded {
		t.Fatalf("phase=%v reason=%v", c.Phase(), c.Reason())
	}
	if _, ok := c.Spawn(screen, rng()); ok {
		t.Fatal("spawned after game over")
	}
	if c.Tick(10) != EventNone {
		t.Fatal("game over is not terminal")
	}
}

func TestInvasionBeatsLivesLeft(t *testing.T) {
	c := NewController()
	c.Spawn(screen, rng())
	c.Check(1, 690, 682, 3)
	if c.Reason() != ReasonInvaded {
		t.Fatalf("reason = %v, want invaded with lives left", c.Reason())
	}
}

func TestNoLivesEndsGame(t *testing.T) {
	c := NewController()
	c.Spawn(screen, rng())
	if ev := c.Check(10, 300, 682, 0); ev != EventGameOver || c.Reason() != ReasonNoLives {
		t.Fatalf("event=%v reason=%v", ev, c.Reason())
	}
}

func TestBuildFollowsLevelTable(t *testing.T) {
	for wave, lvl := range config.Levels {
		s := Build(wave, screen, rng())
		if got := len(s.Formation.Members()); got != lvl.Rows*lvl.Cols {
			t.Errorf("wave %d: formation = %d, want %d", wave, got, lvl.Rows*lvl.Cols)
		}
		var diag, dive int
		for _, a := range s.Extras {
			switch a.Kind {
			case object.KindDiagonal:
				diag++
			case object.KindDiver:
				dive++
			}
		}
		if diag != lvl.DiagonalCount || dive != lvl.DiverCount {
			t.Errorf("wave %d: extras = %d/%d, want %d/%d", wave, diag, dive, lvl.DiagonalCount, lvl.DiverCount)
		}
	}
}

func TestDensityAndSpeedMonotonic(t *testing.T) {
	prevCount, prevSpeed := 0, 0.0
	for wave := 0; wave < 12; wave++ {
		s := Build(wave, screen, rng())
		if s.Count() < prevCount {
			t.Fatalf("wave %d: %d aliens, fewer than %d", wave, s.Count(), prevCount)
		}
		if s.Formation.Speed <= prevSpeed {
			t.Fatalf("wave %d: speed %v not above %v", wave, s.Formation.Speed, prevSpeed)
		}
		prevCount, prevSpeed = s.Count(), s.Formation.Speed
	}
}

func TestLevelBonus(t *testing.T) {
	tests := []struct{ base, wave, want int }{
		{50, 0, 50},
		{50, 1, 100},
		{50, 3, 400},
		{50, 100, 50 << config.LevelBonusCap},
		{0, 4, 0},
	}
	for _, tt := range tests {
		if got := LevelBonus(tt.base, tt.wave); got != tt.want {
			t.Errorf("LevelBonus(%d, %d) = %d, want %d", tt.base, tt.wave, got, tt.want)
		}
	}
}
