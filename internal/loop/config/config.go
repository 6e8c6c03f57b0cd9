// Package config centralizes all tunable game parameters.
// Distances are logical playfield units (the default playfield is 1280x720);
// speeds are units per second.
package config

import "time"

// Frame timing
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
	MaxDelta        = 60 * time.Millisecond // Clamp for long frames (window drag, GC pause)
)

// Player
const (
	InitialLives         = 3
	MaxLives             = 3
	MaxHealth            = 100
	HitDamage            = 25 // Health lost per alien laser or alien contact
	InvincibilitySeconds = 2.0
	PlayerBlinkFrequency = 10.0 // Hz
	PlayerWidth          = 48.0
	PlayerHeight         = 28.0
	PlayerSpeed          = 300.0
	PlayerFireRate       = 0.6 // Seconds between shots
	PlayerBottomMargin   = 10.0
)

// Lasers
const (
	LaserWidth       = 4.0
	LaserHeight      = 20.0
	PlayerLaserSpeed = 480.0
	AlienLaserSpeed  = 240.0
)

// Formation layout (grid spacing and offset from the top-left corner)
const (
	AlienWidth       = 40.0
	AlienHeight      = 28.0
	AlienSpacingX    = 60.0
	AlienSpacingY    = 48.0
	FormationOffsetX = 70.0
	FormationOffsetY = 100.0
	FormationStepY   = 20.0 // Drop when the formation hits a side wall
	BaseAlienSpeed   = 60.0 // Horizontal formation speed at level speed 1
)

// Extra aliens
const (
	DiagonalSpeedFactor = 1.5
	DiverSpeedFactor    = 2.0
	DiverLevelBoost     = 0.25 // Additional diver speed factor per wave index
)

// Alien points by formation row from the top; rows past the table use the last value.
var RowPoints = []int{30, 20, 20, 10, 10, 10}

// Points for the non-formation aliens.
const (
	DiagonalPoints = 40
	DiverPoints    = 50
)

// Alien fire
const (
	AlienFireInterval = 1.2 // Seconds between alien shots at difficulty 1
	MinAlienFireGap   = 0.25
)

// Bunkers
const (
	BunkerCount   = 4
	BlockSize     = 6.0
	BlockHealth   = 2
	BunkerTopGap  = 240.0 // Distance from the bottom of the screen to the bunker top
	SpaceCellSize = 32
)

// BunkerShape is the mask for one bunker; 'x' marks a block.
var BunkerShape = []string{
	"  xxxxxxx",
	" xxxxxxxxx",
	"xxxxxxxxxxx",
	"xxxxxxxxxxx",
	"xxxxxxxxxxx",
	"xxx     xxx",
	"xx       xx",
}

// Mystery ship, key and treasure chest
const (
	MysteryWidth          = 64.0
	MysteryHeight         = 28.0
	MysteryY              = 50.0
	MysterySpeed          = 150.0
	MysteryHealth         = 150
	MysteryHitDamage      = 50
	MysteryPoints         = 300
	MysteryCoinMultiplier = 2
	MysteryMinDelay       = 10.0 // Seconds
	MysteryMaxDelay       = 20.0
	BountyBannerSeconds   = 2.5

	KeyWidth     = 20.0
	KeyHeight    = 30.0
	KeyFallSpeed = 120.0
	KeyOffsetX   = 50.0

	ChestWidth            = 40.0
	ChestHeight           = 40.0
	ChestMinCoins         = 1000
	ChestMaxCoins         = 50000
	ChestHealthPackChance = 0.3
	ChestMinHealthPacks   = 1
	ChestMaxHealthPacks   = 5
	HealthPerPack         = 10
)

// Waves
const (
	DifficultyStep       = 0.25 // Difficulty multiplier gained per wave
	ClearedBannerSeconds = 3.0
	WaveHealthReward     = 25
	LevelBonusCap        = 10 // Level bonus doubles per wave up to this exponent
)

// Level describes the alien population of one wave.
type Level struct {
	Rows          int
	Cols          int
	Speed         float64
	DiagonalCount int
	DiverCount    int
}

// Levels is the authored wave table. Waves past the end reuse the last entry
// while the difficulty multiplier keeps rising.
var Levels = []Level{
	{Rows: 3, Cols: 8, Speed: 1},
	{Rows: 4, Cols: 8, Speed: 2, DiagonalCount: 4},
	{Rows: 4, Cols: 9, Speed: 2, DiagonalCount: 6, DiverCount: 3},
	{Rows: 5, Cols: 9, Speed: 3, DiagonalCount: 8, DiverCount: 5},
	{Rows: 5, Cols: 10, Speed: 3, DiagonalCount: 10, DiverCount: 7},
	{Rows: 6, Cols: 10, Speed: 4, DiagonalCount: 12, DiverCount: 10},
}

// Shop / background work
const (
	BackgroundTaskTimeout = 10 * time.Second
	ShopMessageSeconds    = 6.0
)

// Terminal render limits. Larger terminals get a centred, bordered area.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 45
)

// SSH sessions
const (
	InactivityWarnUser       = 90   // Seconds
	InactivityDisconnectUser = 120  // Seconds
	ShutdownDisplaySeconds   = 10.0 // Seconds to show the shutdown notice before disconnecting
	NoticeSeconds            = 4.0
)
