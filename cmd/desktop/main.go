package main

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/tomz197/invaders/internal/checkout"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw/ebitendraw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop"
	lc "github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/profile"
)

// keyMap lists the window keys for each game key. Arrows and the terminal
// letter bindings both work.
var keyMap = map[input.Key][]ebiten.Key{
	input.KeyLeft:   {ebiten.KeyArrowLeft, ebiten.KeyA, ebiten.KeyH},
	input.KeyRight:  {ebiten.KeyArrowRight, ebiten.KeyD, ebiten.KeyL},
	input.KeyUp:     {ebiten.KeyArrowUp, ebiten.KeyK},
	input.KeyDown:   {ebiten.KeyArrowDown, ebiten.KeyJ, ebiten.KeyS},
	input.KeySpace:  {ebiten.KeySpace},
	input.KeyEnter:  {ebiten.KeyEnter},
	input.KeyEscape: {ebiten.KeyEscape},
	input.KeyPause:  {ebiten.KeyP},
	input.KeyWallet: {ebiten.KeyW},
	input.KeyShop:   {ebiten.KeyB},
	input.KeyQuit:   {ebiten.KeyQ},
}

var digitKeys = []ebiten.Key{
	ebiten.Key0, ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4,
	ebiten.Key5, ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// app adapts loop.Game to ebiten.Game.
type app struct {
	game     *loop.Game
	surface  *ebitendraw.Surface
	width    int
	height   int
	last     time.Time
	showTPS  bool
	tpsLabel string
}

func (a *app) Update() error {
	now := time.Now()
	dt := now.Sub(a.last)
	a.last = now

	if err := a.game.Update(readKeys(), dt); err != nil {
		return err
	}
	if !a.game.Running() {
		return ebiten.Termination
	}
	if a.showTPS {
		a.tpsLabel = fmt.Sprintf("TPS %0.0f  FPS %0.0f", ebiten.ActualTPS(), ebiten.ActualFPS())
	}
	return nil
}

func (a *app) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	a.surface.Reset(screen)
	if err := a.game.Draw(a.surface); err != nil {
		ebitenutil.DebugPrint(screen, err.Error())
	}
	if a.showTPS {
		ebitenutil.DebugPrintAt(screen, a.tpsLabel, 4, a.height-16)
	}
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// readKeys snapshots the keyboard.
func readKeys() input.Input {
	in := input.None
	for k, keys := range keyMap {
		for _, key := range keys {
			if ebiten.IsKeyPressed(key) {
				in.Set(k)
				break
			}
		}
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) && ebiten.IsKeyPressed(ebiten.KeyC) {
		in.Quit = true
	}
	for n, key := range digitKeys {
		if ebiten.IsKeyPressed(key) {
			in.Number = n
		}
	}
	return in
}

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, closer, err := config.NewLogger(settings, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	playerID, err := profile.LoadOrCreate(settings.PlayerIDFile)
	if err != nil {
		logger.Warn("playing offline: no player id", "err", err)
	}

	game := loop.NewGame(loop.Options{
		Width:                 float64(settings.ScreenWidth),
		Height:                float64(settings.ScreenHeight),
		CoinsPerPoint:         settings.CoinsPerPoint,
		CoinsPerLevelComplete: settings.CoinsPerLevelComplete,
		PlayerUUID:            playerID,
		Checkout: checkout.New(checkout.Options{
			BaseURL:   settings.BackendURL,
			WalletURL: settings.WalletURL,
			Timeout:   settings.HTTPTimeout,
			Logger:    logger.WithPrefix("checkout"),
		}),
		Navigator:  checkout.BrowserNavigator{},
		SuccessURL: settings.CheckoutSuccessURL,
		CancelURL:  settings.CheckoutCancelURL,
		Logger:     logger,
	})
	defer game.Close(lc.BackgroundTaskTimeout)

	a := &app{
		game:    game,
		surface: ebitendraw.New(nil),
		width:   settings.ScreenWidth,
		height:  settings.ScreenHeight,
		last:    time.Now(),
		showTPS: config.GetEnv("SHOW_TPS", "") != "",
	}

	ebiten.SetWindowSize(settings.ScreenWidth, settings.ScreenHeight)
	ebiten.SetWindowTitle("Invaders")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(settings.TargetFPS)
	if err := ebiten.RunGame(a); err != nil {
		logger.Error("game error", "err", err)
	}
}
