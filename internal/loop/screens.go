package loop

import (
	"fmt"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/wave"
)

const lineHeight = draw.GlyphHeight * 1.5

// Draw renders the current screen onto s.
func (g *Game) Draw(s draw.Surface) error {
	if g.state == GameStateStart {
		g.drawStartScreen(s)
		g.drawNotice(s)
		return nil
	}

	if err := g.drawWorld(s); err != nil {
		return err
	}
	g.drawPlayingHUD(s)

	switch g.state {
	case GameStatePaused:
		g.drawPauseScreen(s)
	case GameStateWallet:
		g.drawWalletScreen(s)
	case GameStateShop:
		g.drawShopScreen(s)
	case GameStateOver:
		g.drawGameOverScreen(s)
	default:
		g.drawBanners(s)
	}
	g.drawNotice(s)
	return nil
}

// drawWorld draws all live entities, back to front.
func (g *Game) drawWorld(s draw.Surface) error {
	ctx := object.DrawContext{Surface: s}
	for _, b := range g.blocks {
		if err := b.Draw(ctx); err != nil {
			return err
		}
	}
	for _, a := range g.formation.Members() {
		if err := a.Draw(ctx); err != nil {
			return err
		}
	}
	for _, e := range g.entities() {
		if err := e.Draw(ctx); err != nil {
			return err
		}
	}
	return g.player.Draw(ctx)
}

// entities returns the free-moving entities in draw order.
func (g *Game) entities() []object.Entity {
	out := make([]object.Entity, 0, len(g.aliens)+len(g.chests)+len(g.keys)+len(g.lasers)+len(g.effects)+1)
	for _, a := range g.aliens {
		out = append(out, a)
	}
	if g.mystery != nil {
		out = append(out, g.mystery)
	}
	for _, c := range g.chests {
		out = append(out, c)
	}
	for _, k := range g.keys {
		out = append(out, k)
	}
	for _, l := range g.lasers {
		out = append(out, l)
	}
	return append(out, g.effects...)
}

func centerText(s draw.Surface, y float64, text string, c draw.Color) {
	w, _ := s.Size()
	s.Text((w-s.TextWidth(text))/2, y, text, c)
}

// drawPanel darkens a box in the middle of the screen for menus.
func drawPanel(s draw.Surface, top, height float64) {
	w, _ := s.Size()
	pw := w * 0.6
	s.FillRect((w-pw)/2, top, pw, height, draw.Color{R: 10, G: 10, B: 30})
}

// drawStartScreen draws the title screen.
func (g *Game) drawStartScreen(s draw.Surface) {
	_, h := s.Size()
	cy := h / 2

	centerText(s, cy-4*lineHeight, "I N V A D E R S", draw.Green)
	centerText(s, cy-2*lineHeight, "Press SPACE to Start", draw.White)

	if g.online() {
		centerText(s, cy, fmt.Sprintf("Gold: %d", g.economy.TotalCoins()), draw.Gold)
	}

	centerText(s, cy+2*lineHeight, "Arrows/A/D move, SPACE shoot, ENTER use health pack", draw.Gray)
	centerText(s, cy+3*lineHeight, "P pause, W wallet, B shop, Q quit", draw.Gray)

	// Point table
	for row := range 3 {
		y := cy + 5*lineHeight + float64(row)*config.AlienSpacingY/2
		centerText(s, y, fmt.Sprintf("%d points", object.RowPoints(row*2)), draw.Gray)
	}
}

// drawPlayingHUD draws score, gold, wave, lives, health and the key.
func (g *Game) drawPlayingHUD(s draw.Surface) {
	w, _ := s.Size()
	const pad = 10.0

	left := fmt.Sprintf("Score: %d   Gold: %d   Wave: %d", g.economy.Score(), g.economy.TotalCoins(), g.waves.Wave()+1)
	s.Text(pad, pad, left, draw.White)

	p := g.player
	right := fmt.Sprintf("Lives: %d", p.Lives)
	if packs := g.economy.HealthPacks(); packs > 0 {
		right = fmt.Sprintf("Packs: %d   %s", packs, right)
	}
	if p.HasKey {
		right = "KEY   " + right
	}
	s.Text(w-s.TextWidth(right)-pad, pad, right, draw.White)

	// Health bar under the lives counter
	const barW, barH = 120.0, 6.0
	x := w - barW - pad
	y := pad + lineHeight
	s.FillRect(x, y, barW, barH, draw.Gray)
	frac := float64(p.Health) / float64(config.MaxHealth)
	c := draw.Green
	switch {
	case frac <= 0.25:
		c = draw.Red
	case frac <= 0.5:
		c = draw.Yellow
	}
	s.FillRect(x, y, barW*frac, barH, c)
}

// drawBanners shows the wave-cleared and bounty banners while playing.
func (g *Game) drawBanners(s draw.Surface) {
	_, h := s.Size()
	if g.waves.Phase() == wave.PhaseCleared {
		centerText(s, h/2-lineHeight, fmt.Sprintf("WAVE %d CLEARED", g.waves.Wave()+1), draw.Green)
		centerText(s, h/2, "+1 life  +25 health", draw.White)
		centerText(s, h/2+lineHeight, fmt.Sprintf("Next wave in %.0f", g.waves.BannerRemaining()), draw.Gray)
	}
	if g.bountyBanner > 0 {
		centerText(s, config.MysteryY+config.MysteryHeight+lineHeight, "Bounty dropped! Grab the key, then open the chest", draw.Gold)
	}
}

func (g *Game) drawPauseScreen(s draw.Surface) {
	_, h := s.Size()
	top := h/2 - 4*lineHeight
	drawPanel(s, top-lineHeight/2, 9*lineHeight)

	st := g.economy.Summary()
	centerText(s, top, "PAUSED", draw.Yellow)
	centerText(s, top+2*lineHeight, fmt.Sprintf("Score: %d   Wave: %d", st.Score, g.waves.Wave()+1), draw.White)
	centerText(s, top+3*lineHeight, fmt.Sprintf("Gold earned this game: %d", st.EarnedCoins), draw.Gold)
	centerText(s, top+4*lineHeight, fmt.Sprintf("Unsaved gold: %d   Total gold: %d", st.SessionCoins, st.TotalCoins), draw.Gold)
	centerText(s, top+5*lineHeight, fmt.Sprintf("Health packs: %d", st.HealthPacks), draw.White)
	centerText(s, top+7*lineHeight, "P/ESC resume   Q quit", draw.Gray)
}

func (g *Game) drawWalletScreen(s draw.Surface) {
	_, h := s.Size()
	top := h/2 - 3*lineHeight
	drawPanel(s, top-lineHeight/2, 7*lineHeight)

	centerText(s, top, "WALLET", draw.Gold)
	switch {
	case g.walletLoading:
		centerText(s, top+2*lineHeight, "Loading...", draw.Gray)
	case g.walletErr != "":
		centerText(s, top+2*lineHeight, g.walletErr, draw.Red)
	case g.wallet != nil:
		centerText(s, top+2*lineHeight, fmt.Sprintf("Gold coins: %d", g.wallet.GoldCoins), draw.Gold)
		centerText(s, top+3*lineHeight, fmt.Sprintf("Health packs: %d", g.wallet.HealthPacks), draw.White)
	}
	centerText(s, top+5*lineHeight, "ENTER refresh   W/ESC close", draw.Gray)
}

func (g *Game) drawShopScreen(s draw.Surface) {
	w, h := s.Size()
	rows := float64(len(g.packages))
	top := h/2 - (rows/2+3)*lineHeight
	drawPanel(s, top-lineHeight/2, (rows+8)*lineHeight)

	centerText(s, top, "SHOP", draw.Gold)
	left := w * 0.25
	for i, p := range g.packages {
		y := top + float64(i+2)*lineHeight
		c := draw.White
		marker := "  "
		if i == g.shopSelected {
			c = draw.Yellow
			marker = "> "
		}
		s.Text(left, y, fmt.Sprintf("%s%d) %-16s %7s  %s", marker, i+1, p.Name, p.PriceLabel(), p.Contents()), c)
	}

	y := top + (rows+3)*lineHeight
	if g.message != "" {
		c := draw.White
		if g.messageIsErr {
			c = draw.Red
		}
		centerText(s, y, g.message, c)
	}
	if g.checkoutURL != "" {
		centerText(s, y+lineHeight, g.checkoutURL, draw.Cyan)
	}
	centerText(s, y+3*lineHeight, "1-9/UP/DOWN select   ENTER buy   B/ESC close", draw.Gray)
}

func (g *Game) drawGameOverScreen(s draw.Surface) {
	_, h := s.Size()
	top := h/2 - 3*lineHeight
	drawPanel(s, top-lineHeight/2, 8*lineHeight)

	centerText(s, top, "GAME OVER", draw.Red)
	reason := "Out of lives"
	if g.waves.Reason() == wave.ReasonInvaded {
		reason = "The invaders landed"
	}
	centerText(s, top+lineHeight, reason, draw.Gray)

	st := g.economy.Summary()
	centerText(s, top+3*lineHeight, fmt.Sprintf("Score: %d   Wave: %d", st.Score, g.waves.Wave()+1), draw.White)
	centerText(s, top+4*lineHeight, fmt.Sprintf("Gold earned: %d   Total gold: %d", st.EarnedCoins, st.TotalCoins), draw.Gold)
	centerText(s, top+6*lineHeight, "Press SPACE to Restart   Q to quit", draw.White)
}

func (g *Game) drawNotice(s draw.Surface) {
	if g.notice == "" {
		return
	}
	_, h := s.Size()
	centerText(s, h-lineHeight*1.5, g.notice, draw.Cyan)
}
