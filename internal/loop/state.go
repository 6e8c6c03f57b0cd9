package loop

import (
	"context"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/checkout"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/economy"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/loop/server"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/wave"
)

// GameState represents the screen the game is showing.
type GameState int

const (
	GameStateStart   GameState = iota // Title screen
	GameStatePlaying                  // Active gameplay
	GameStatePaused
	GameStateWallet // Read-only wallet panel
	GameStateShop
	GameStateOver // Game over, SPACE restarts
)

// Options configures a Game and the terminal runner.
type Options struct {
	Width, Height float64 // Logical playfield size
	Seed          uint64  // 0 picks a random seed

	CoinsPerPoint         int
	CoinsPerLevelComplete int

	PlayerUUID string
	Checkout   *checkout.Client   // nil plays offline: no wallet, shop or coin sync
	Navigator  checkout.Navigator // nil shows the checkout URL on screen instead
	SuccessURL string
	CancelURL  string

	Logger *log.Logger

	// Terminal runner only.
	TargetFPS      int // 0 uses config.TargetFPS
	TermSizeFunc   draw.TermSizeFunc
	Events         <-chan server.ClientEvent
	DisconnectIdle bool
}

// Game holds all state for one player's game. It is owned by the loop: only
// Update mutates it, and background work hands results back through tasks.
type Game struct {
	opts   Options
	logger *log.Logger
	rng    *rand.Rand
	screen object.Screen

	state     GameState
	running   bool
	prevInput input.Input

	player    *object.Player
	formation *object.Formation
	aliens    []*object.Alien // Diagonal and diving aliens outside the formation
	lasers    []*object.Laser // In spawn order
	blocks    []*object.Block
	space     *physics.Space
	handles   map[*object.Block]physics.Handle
	mystery   *object.MysteryShip
	keys      []*object.Key
	chests    []*object.Chest
	effects   []object.Entity // Particles and floating text
	toSpawn   []object.Entity

	waves   *wave.Controller
	economy *economy.Session

	alienFireTimer float64
	mysteryTimer   float64
	bountyBanner   float64

	// Menus and backend state
	packages      []checkout.Package
	packagesReady bool
	shopSelected  int
	message       string
	messageIsErr  bool
	messageTimer  float64
	checkoutURL   string
	wallet        *checkout.Wallet
	walletErr     string
	walletLoading bool
	flushing      bool
	buying        bool

	notice      string
	noticeTimer float64

	tasks       chan func(*Game)
	taskCtx     context.Context
	cancelTasks context.CancelFunc
	wg          sync.WaitGroup
}

// NewGame creates a game on the title screen.
func NewGame(opts Options) *Game {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	g := &Game{
		opts:        opts,
		logger:      logger.WithPrefix("game"),
		rng:         rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		screen:      object.Screen{Width: opts.Width, Height: opts.Height},
		state:       GameStateStart,
		running:     true,
		prevInput:   input.None,
		economy:     economy.NewSession(opts.CoinsPerPoint, logger),
		packages:    checkout.DefaultPackages(),
		tasks:       make(chan func(*Game), 32),
		taskCtx:     ctx,
		cancelTasks: cancel,
	}
	g.resetWorld()
	g.refreshWallet()
	return g
}

// resetWorld sets up a fresh player and wave controller.
func (g *Game) resetWorld() {
	for _, e := range g.effects {
		object.ReleaseObject(e)
	}
	g.player = object.NewPlayer(g.screen)
	g.formation = object.NewFormationOf(nil, 0)
	g.aliens = nil
	g.lasers = nil
	g.mystery = nil
	g.keys = nil
	g.chests = nil
	g.effects = nil
	g.toSpawn = nil
	g.waves = wave.NewController()
	g.bountyBanner = 0
	g.buildBunkers()
}

// buildBunkers replaces all obstacle blocks and re-indexes them.
func (g *Game) buildBunkers() {
	g.space = physics.NewSpace(g.screen.Width, g.screen.Height, config.SpaceCellSize)
	g.handles = make(map[*object.Block]physics.Handle)
	g.blocks = object.BuildBunkers(g.screen, config.BunkerCount, g.screen.Height-config.BunkerTopGap)
	for _, b := range g.blocks {
		g.handles[b] = g.space.Insert(b.Bounds(), blockTag, b)
	}
}

// Spawn queues an entity to be added after the current update phase.
// Implements object.Spawner.
func (g *Game) Spawn(e object.Entity) {
	g.toSpawn = append(g.toSpawn, e)
}

// flushSpawned adds all queued entities to their lists, preserving order.
func (g *Game) flushSpawned() {
	for _, e := range g.toSpawn {
		switch o := e.(type) {
		case *object.Laser:
			g.lasers = append(g.lasers, o)
		case *object.Alien:
			g.aliens = append(g.aliens, o)
		case *object.Key:
			g.keys = append(g.keys, o)
		case *object.Chest:
			g.chests = append(g.chests, o)
		default:
			g.effects = append(g.effects, e)
		}
	}
	clear(g.toSpawn)
	g.toSpawn = g.toSpawn[:0]
}

// Update advances the game by one frame.
func (g *Game) Update(in input.Input, dt time.Duration) error {
	g.drainTasks()

	pressed := in.Pressed(g.prevInput)
	g.prevInput = in
	if pressed.Quit {
		g.running = false
		return nil
	}
	if dt > config.MaxDelta {
		dt = config.MaxDelta
	}
	if dt < 0 {
		dt = 0
	}
	secs := dt.Seconds()
	g.tickTimers(secs)

	switch g.state {
	case GameStateStart:
		if pressed.Space || pressed.Enter {
			g.start()
		}
	case GameStatePlaying:
		switch {
		case pressed.Pause || pressed.Escape:
			g.state = GameStatePaused
			return nil
		case pressed.Wallet:
			g.openWallet()
			return nil
		case pressed.Shop:
			g.openShop()
			return nil
		case pressed.Enter:
			g.useHealthPack()
		}
		return g.step(in, dt)
	case GameStatePaused:
		if pressed.Pause || pressed.Escape || pressed.Space {
			g.state = GameStatePlaying
		}
	case GameStateWallet:
		switch {
		case pressed.Wallet || pressed.Escape:
			g.state = GameStatePlaying
		case pressed.Enter:
			g.refreshWallet()
		}
	case GameStateShop:
		g.updateShop(pressed)
	case GameStateOver:
		if err := g.updateEffects(object.UpdateContext{Delta: dt, Screen: g.screen, Spawner: g, Rand: g.rng}); err != nil {
			return err
		}
		g.flushSpawned()
		if pressed.Space {
			g.start()
		}
	}
	return nil
}

func (g *Game) tickTimers(dt float64) {
	if g.messageTimer > 0 {
		g.messageTimer -= dt
		if g.messageTimer <= 0 {
			g.message = ""
		}
	}
	if g.noticeTimer > 0 {
		g.noticeTimer -= dt
		if g.noticeTimer <= 0 {
			g.notice = ""
		}
	}
}

// start begins a new game from the title or game-over screen.
func (g *Game) start() {
	if g.state == GameStateOver {
		g.economy.Reset()
		g.resetWorld()
	}
	g.mysteryTimer = g.nextMysteryDelay()
	g.state = GameStatePlaying
	g.logger.Debug("game started", "player", g.opts.PlayerUUID)
}

func (g *Game) useHealthPack() {
	if g.player.Health >= config.MaxHealth || !g.economy.UseHealthPack() {
		return
	}
	healed := g.player.Heal(config.HealthPerPack)
	g.popup(g.player.X+g.player.W/2, g.player.Y-10, "+"+strconv.Itoa(healed)+" HP", draw.Green)
}

// SetNotice shows msg over the game for seconds.
func (g *Game) SetNotice(msg string, seconds float64) {
	g.notice = msg
	g.noticeTimer = seconds
}

func (g *Game) setMessage(msg string, isErr bool) {
	g.message = msg
	g.messageIsErr = isErr
	g.messageTimer = config.ShopMessageSeconds
}

// State returns the current screen.
func (g *Game) State() GameState { return g.state }

// Running reports whether the player is still playing.
func (g *Game) Running() bool { return g.running }

// Stop ends the game at the next frame.
func (g *Game) Stop() { g.running = false }

// Size returns the logical playfield size.
func (g *Game) Size() (float64, float64) { return g.screen.Width, g.screen.Height }

// Score returns the current score.
func (g *Game) Score() int { return g.economy.Score() }

// Stats returns the economy summary for this game.
func (g *Game) Stats() economy.Stats { return g.economy.Summary() }

// Wave returns the 0-based wave index.
func (g *Game) Wave() int { return g.waves.Wave() }

// Phase returns the wave controller phase.
func (g *Game) Phase() wave.Phase { return g.waves.Phase() }

// Player returns the player's ship.
func (g *Game) Player() *object.Player { return g.player }
