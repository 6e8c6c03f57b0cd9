package loop

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/invaders/internal/checkout"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/wave"
)

const frame = 16 * time.Millisecond

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Seed = 1
	if opts.CoinsPerPoint == 0 {
		opts.CoinsPerPoint = 1
	}
	if opts.CoinsPerLevelComplete == 0 {
		opts.CoinsPerLevelComplete = 100
	}
	opts.Logger = log.New(io.Discard)
	g := NewGame(opts)
	t.Cleanup(func() { g.Close(time.Second) })
	return g
}

// press sends a single key press followed by a release.
func press(t *testing.T, g *Game, set func(*input.Input)) {
	t.Helper()
	in := input.None
	set(&in)
	if err := g.Update(in, frame); err != nil {
		t.Fatal(err)
	}
	if err := g.Update(input.None, 0); err != nil {
		t.Fatal(err)
	}
}

func space(in *input.Input) { in.Space = true }

// startPlaying moves past the title screen and swaps the first wave for
// the given formation with no extra aliens.
func startPlaying(t *testing.T, g *Game, members ...*object.Alien) {
	t.Helper()
	press(t, g, space)
	if g.State() != GameStatePlaying {
		t.Fatalf("state = %v, want playing", g.State())
	}
	if g.Phase() != wave.PhaseActive {
		t.Fatalf("phase = %v, want active", g.Phase())
	}
	g.formation = object.NewFormationOf(members, 0)
	g.aliens = nil
	g.lasers = nil
	g.mysteryTimer = 1e9
	g.alienFireTimer = 1e9
}

// alienRow lays out n aliens in a row at y, 60 units apart.
func alienRow(n int, y float64) []*object.Alien {
	out := make([]*object.Alien, n)
	for i := range out {
		out[i] = object.NewAlien(object.KindFormation, 100+float64(i)*60, y, 0, 0, object.RowPoints(0))
	}
	return out
}

// laserUnder fires a player laser that overlaps the bottom of r.
func laserUnder(b physics.Rect) *object.Laser {
	return object.NewPlayerLaser(b.X+b.W/2, b.Y+b.H+5)
}

// waitFor runs frames until done reports true or a second passes.
func waitFor(t *testing.T, g *Game, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !done() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for background task")
		}
		time.Sleep(5 * time.Millisecond)
		if err := g.Update(input.None, 0); err != nil {
			t.Fatal(err)
		}
	}
}

type backendStub struct {
	mu      sync.Mutex
	flushed []int
	balance int
	url     string
}

func (b *backendStub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/wallet/balance/":
			json.NewEncoder(w).Encode(map[string]int{"gold_coins": b.balance, "health_packs": 0})
		case "/api/wallet/add-earned-coins":
			var req struct {
				Amount int `json:"amount"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode flush: %v", err)
			}
			b.flushed = append(b.flushed, req.Amount)
			b.balance += req.Amount
			json.NewEncoder(w).Encode(map[string]any{"success": true, "coins_added": req.Amount, "new_balance": b.balance})
		case "/api/create-checkout-session/":
			json.NewEncoder(w).Encode(map[string]string{"url": b.url, "sessionId": "cs_1"})
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}

func (b *backendStub) flushes() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.flushed...)
}

func onlineGame(t *testing.T, b *backendStub, nav checkout.Navigator) *Game {
	t.Helper()
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)
	client := checkout.New(checkout.Options{BaseURL: srv.URL, Logger: log.New(io.Discard)})
	g := newTestGame(t, Options{
		PlayerUUID: "2f1c1f4e-7d55-4f3a-9d43-6f2b7a1f0c11",
		Checkout:   client,
		Navigator:  nav,
	})
	waitFor(t, g, func() bool { return !g.walletLoading })
	return g
}

func TestStartScreenToPlaying(t *testing.T) {
	g := newTestGame(t, Options{})
	if g.State() != GameStateStart {
		t.Fatalf("state = %v, want start", g.State())
	}
	g.Update(input.None, frame)
	if g.State() != GameStateStart {
		t.Fatal("game started without input")
	}
	press(t, g, space)
	if g.State() != GameStatePlaying {
		t.Fatalf("state = %v, want playing", g.State())
	}

	// First playing frame spawns wave 1.
	if err := g.Update(input.None, frame); err != nil {
		t.Fatal(err)
	}
	if g.Phase() != wave.PhaseActive {
		t.Fatalf("phase = %v, want active", g.Phase())
	}
	if g.liveAliens() == 0 {
		t.Fatal("wave spawned no aliens")
	}
}

func TestPauseTogglesOncePerPress(t *testing.T) {
	g := newTestGame(t, Options{})
	press(t, g, space)

	held := input.None
	held.Pause = true
	g.Update(held, frame)
	g.Update(held, frame)
	g.Update(held, frame)
	if g.State() != GameStatePaused {
		t.Fatalf("state = %v, want paused while P is held", g.State())
	}

	g.Update(input.None, frame)
	g.Update(held, frame)
	if g.State() != GameStatePlaying {
		t.Fatalf("state = %v, want playing after second press", g.State())
	}
}

func TestPausedWorldDoesNotMove(t *testing.T) {
	g := newTestGame(t, Options{})
	startPlaying(t, g, alienRow(3, 100)...)
	l := object.NewPlayerLaser(640, 400)
	g.lasers = []*object.Laser{l}

	press(t, g, func(in *input.Input) { in.Pause = true })
	y := l.Y
	for range 10 {
		g.Update(input.None, frame)
	}
	if l.Y != y {
		t.Fatalf("laser moved while paused: %v -> %v", y, l.Y)
	}
}

func TestQuitStopsFromAnyScreen(t *testing.T) {
	for _, setup := range []func(*Game){
		func(*Game) {},
		func(g *Game) { g.state = GameStatePaused },
		func(g *Game) { g.state = GameStateShop },
		func(g *Game) { g.state = GameStateOver },
	} {
		g := newTestGame(t, Options{})
		setup(g)
		in := input.None
		in.Quit = true
		g.Update(in, frame)
		if g.Running() {
			t.Fatalf("still running after quit in state %v", g.State())
		}
	}
}

func TestInvasionEndsGameRegardlessOfLives(t *testing.T) {
	g := newTestGame(t, Options{})
	a := object.NewAlien(object.KindFormation, 300, 0, 0, 0, 10)
	startPlaying(t, g, a)
	g.player.Lives = 1

	a.Y = g.invasionLine() - a.H + 1
	g.checkWave(0)

	if g.State() != GameStateOver {
		t.Fatalf("state = %v, want game over", g.State())
	}
	if g.waves.Reason() != wave.ReasonInvaded {
		t.Fatalf("reason = %v, want invaded", g.waves.Reason())
	}
}

func TestPlayerMovingUpDoesNotTriggerInvasion(t *testing.T) {
	g := newTestGame(t, Options{})
	a := object.NewAlien(object.KindFormation, 300, 300, 0, 0, 10)
	startPlaying(t, g, a)
	g.player.Y = 250

	g.checkWave(0)
	if g.State() != GameStatePlaying {
		t.Fatalf("state = %v, want playing", g.State())
	}
}

func TestLosingLastLifeEndsGame(t *testing.T) {
	g := newTestGame(t, Options{})
	startPlaying(t, g, alienRow(2, 100)...)
	g.player.Lives = 1
	g.player.Health = 25

	l := object.NewAlienLaser(g.player.X+g.player.W/2, g.player.Y-5, 100)
	g.lasers = []*object.Laser{l}
	g.checkCollisions()
	g.reap()
	g.checkWave(0)

	if g.State() != GameStateOver {
		t.Fatalf("state = %v, want game over", g.State())
	}
	if g.waves.Reason() != wave.ReasonNoLives {
		t.Fatalf("reason = %v, want no lives", g.waves.Reason())
	}
}

func TestRestartKeepsCoins(t *testing.T) {
	g := newTestGame(t, Options{})
	members := alienRow(1, 100)
	startPlaying(t, g, members...)
	g.lasers = []*object.Laser{laserUnder(members[0].Bounds())}
	g.checkCollisions()
	coins := g.economy.TotalCoins()
	if coins == 0 {
		t.Fatal("kill earned no coins")
	}

	g.waves.End(wave.ReasonNoLives)
	g.gameOver()
	press(t, g, space)

	if g.State() != GameStatePlaying {
		t.Fatalf("state = %v, want playing", g.State())
	}
	if g.Score() != 0 {
		t.Fatalf("score = %d after restart, want 0", g.Score())
	}
	if g.economy.TotalCoins() != coins {
		t.Fatalf("coins = %d after restart, want %d", g.economy.TotalCoins(), coins)
	}
	if g.Wave() != 0 || !g.player.IsAlive() {
		t.Fatal("world was not reset")
	}
}

func TestHealthPackHealsOnEnter(t *testing.T) {
	g := newTestGame(t, Options{})
	startPlaying(t, g, alienRow(1, 100)...)
	g.economy.AddHealthPacks(1)
	g.player.Health = 50

	press(t, g, func(in *input.Input) { in.Enter = true })
	if g.player.Health != 60 {
		t.Fatalf("health = %d, want 60", g.player.Health)
	}
	if g.economy.HealthPacks() != 0 {
		t.Fatal("pack not consumed")
	}

	// Full health keeps the pack.
	g.economy.AddHealthPacks(1)
	g.player.Health = 100
	press(t, g, func(in *input.Input) { in.Enter = true })
	if g.economy.HealthPacks() != 1 {
		t.Fatal("pack used at full health")
	}
}

func TestOfflineShopAndWallet(t *testing.T) {
	g := newTestGame(t, Options{})
	startPlaying(t, g, alienRow(1, 100)...)

	press(t, g, func(in *input.Input) { in.Shop = true })
	if g.State() != GameStateShop {
		t.Fatalf("state = %v, want shop", g.State())
	}
	if len(g.packages) == 0 {
		t.Fatal("no packages listed offline")
	}
	press(t, g, func(in *input.Input) { in.Enter = true })
	if g.message != "Shop unavailable offline." || !g.messageIsErr {
		t.Fatalf("message = %q (err %v)", g.message, g.messageIsErr)
	}

	press(t, g, func(in *input.Input) { in.Wallet = true })
	if g.State() != GameStateWallet {
		t.Fatalf("state = %v, want wallet", g.State())
	}
	if g.walletErr != "Wallet unavailable offline." {
		t.Fatalf("walletErr = %q", g.walletErr)
	}
	press(t, g, func(in *input.Input) { in.Escape = true })
	if g.State() != GameStatePlaying {
		t.Fatalf("state = %v, want playing", g.State())
	}
}

func TestShopSelection(t *testing.T) {
	g := newTestGame(t, Options{})
	startPlaying(t, g)
	press(t, g, func(in *input.Input) { in.Shop = true })

	press(t, g, func(in *input.Input) { in.Number = 3 })
	if g.shopSelected != 2 {
		t.Fatalf("selected = %d, want 2", g.shopSelected)
	}
	press(t, g, func(in *input.Input) { in.Number = 9 })
	if g.shopSelected != 2 {
		t.Fatalf("out of range digit changed selection to %d", g.shopSelected)
	}
	press(t, g, func(in *input.Input) { in.Up = true })
	if g.shopSelected != 1 {
		t.Fatalf("selected = %d, want 1", g.shopSelected)
	}
	for range len(g.packages) + 2 {
		press(t, g, func(in *input.Input) { in.Down = true })
	}
	if g.shopSelected != len(g.packages)-1 {
		t.Fatalf("selected = %d, want last", g.shopSelected)
	}
}

func TestShopCheckoutNavigatesToBackendURL(t *testing.T) {
	b := &backendStub{url: "https://pay.example/session/abc"}
	var mu sync.Mutex
	var opened []string
	nav := checkout.NavigatorFunc(func(u string) error {
		mu.Lock()
		defer mu.Unlock()
		opened = append(opened, u)
		return nil
	})
	g := onlineGame(t, b, nav)
	startPlaying(t, g)

	press(t, g, func(in *input.Input) { in.Shop = true })
	press(t, g, func(in *input.Input) { in.Enter = true })
	waitFor(t, g, func() bool { return !g.buying })

	mu.Lock()
	defer mu.Unlock()
	if len(opened) != 1 || opened[0] != b.url {
		t.Fatalf("opened = %v, want [%s]", opened, b.url)
	}
	if g.messageIsErr {
		t.Fatalf("unexpected error message %q", g.message)
	}
	if g.checkoutURL != "" {
		t.Fatal("URL shown on screen although a browser opened it")
	}
}

func TestShopCheckoutWithoutBrowserShowsURL(t *testing.T) {
	b := &backendStub{url: "https://pay.example/session/xyz"}
	g := onlineGame(t, b, nil)
	startPlaying(t, g)

	press(t, g, func(in *input.Input) { in.Shop = true })
	press(t, g, func(in *input.Input) { in.Enter = true })
	waitFor(t, g, func() bool { return !g.buying })

	if g.checkoutURL != b.url {
		t.Fatalf("checkoutURL = %q, want %q", g.checkoutURL, b.url)
	}
}

func TestWaveClearFlushesCoins(t *testing.T) {
	b := &backendStub{balance: 500}
	g := onlineGame(t, b, nil)
	if g.economy.WalletCoins() != 500 {
		t.Fatalf("wallet = %d, want 500", g.economy.WalletCoins())
	}

	members := alienRow(1, 100)
	startPlaying(t, g, members...)
	g.lasers = []*object.Laser{laserUnder(members[0].Bounds())}
	g.checkCollisions()
	g.reap()
	g.checkWave(0)
	if g.Phase() != wave.PhaseCleared {
		t.Fatalf("phase = %v, want cleared", g.Phase())
	}

	want := object.RowPoints(0) + wave.LevelBonus(100, 0)
	if g.economy.TotalCoins() != 500+want {
		t.Fatalf("total = %d, want %d", g.economy.TotalCoins(), 500+want)
	}
	waitFor(t, g, func() bool { return !g.flushing })

	if got := b.flushes(); len(got) != 1 || got[0] != want {
		t.Fatalf("flushes = %v, want [%d]", got, want)
	}
	if g.economy.SessionCoins() != 0 || g.economy.WalletCoins() != 500+want {
		t.Fatalf("session = %d wallet = %d", g.economy.SessionCoins(), g.economy.WalletCoins())
	}
}

func TestFailedFlushKeepsCoins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	g := newTestGame(t, Options{
		PlayerUUID: "2f1c1f4e-7d55-4f3a-9d43-6f2b7a1f0c11",
		Checkout:   checkout.New(checkout.Options{BaseURL: srv.URL, Logger: log.New(io.Discard)}),
	})
	g.economy.Earn(250)
	g.flushCoins()
	waitFor(t, g, func() bool { return !g.flushing })

	if g.economy.SessionCoins() != 250 {
		t.Fatalf("session = %d, want 250 restored", g.economy.SessionCoins())
	}
}

func TestCloseFlushesRemainingCoins(t *testing.T) {
	b := &backendStub{}
	g := onlineGame(t, b, nil)
	g.economy.Earn(42)
	g.Close(time.Second)

	if got := b.flushes(); len(got) != 1 || got[0] != 42 {
		t.Fatalf("flushes = %v, want [42]", got)
	}
}

// recordSurface records every primitive drawn on it.
type recordSurface struct {
	w, h  float64
	rects [][4]float64
	texts []string
}

func (s *recordSurface) FillRect(x, y, w, h float64, _ draw.Color) {
	s.rects = append(s.rects, [4]float64{x, y, w, h})
}
func (s *recordSurface) Text(_, _ float64, text string, _ draw.Color) { s.texts = append(s.texts, text) }
func (s *recordSurface) TextWidth(text string) float64             { return float64(len(text)) * 8 }
func (s *recordSurface) Size() (float64, float64)                  { return s.w, s.h }

func (s *recordSurface) drewAt(x, y float64) bool {
	for _, r := range s.rects {
		if r[0] == x && r[1] == y {
			return true
		}
	}
	return false
}

func TestDeadAlienIsNotDrawn(t *testing.T) {
	g := newTestGame(t, Options{})
	members := alienRow(3, 100)
	startPlaying(t, g, members...)
	g.lasers = []*object.Laser{laserUnder(members[1].Bounds())}
	g.checkCollisions()
	g.reap()
	g.flushSpawned()
	g.effects = nil

	s := &recordSurface{w: 1280, h: 720}
	if err := g.Draw(s); err != nil {
		t.Fatal(err)
	}
	if s.drewAt(members[1].X, members[1].Y) {
		t.Fatal("dead alien drawn")
	}
	if !s.drewAt(members[0].X, members[0].Y) || !s.drewAt(members[2].X, members[2].Y) {
		t.Fatal("live aliens not drawn")
	}
}

func TestDrawScreens(t *testing.T) {
	g := newTestGame(t, Options{})
	cases := []struct {
		state GameState
		want  string
	}{
		{GameStateStart, "Press SPACE to Start"},
		{GameStatePaused, "PAUSED"},
		{GameStateWallet, "WALLET"},
		{GameStateShop, "SHOP"},
		{GameStateOver, "GAME OVER"},
	}
	for _, tc := range cases {
		g.state = tc.state
		s := &recordSurface{w: 1280, h: 720}
		if err := g.Draw(s); err != nil {
			t.Fatal(err)
		}
		found := false
		for _, txt := range s.texts {
			if txt == tc.want {
				found = true
			}
		}
		if !found {
			t.Errorf("state %v: %q not drawn in %q", tc.state, tc.want, s.texts)
		}
	}
}

func TestNoticeExpires(t *testing.T) {
	g := newTestGame(t, Options{})
	g.SetNotice("alice joined", 0.1)
	s := &recordSurface{w: 1280, h: 720}
	g.Draw(s)
	if s.texts[len(s.texts)-1] != "alice joined" {
		t.Fatalf("notice not drawn: %q", s.texts)
	}
	g.Update(input.None, 60*time.Millisecond)
	g.Update(input.None, 60*time.Millisecond)
	if g.notice != "" {
		t.Fatalf("notice = %q, want expired", g.notice)
	}
}
