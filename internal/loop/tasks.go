package loop

import (
	"context"
	"time"

	"github.com/tomz197/invaders/internal/checkout"
	"github.com/tomz197/invaders/internal/economy"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
)

// Background work talks to the backend on its own goroutine and hands the
// loop a closure that applies the result. The loop runs these at the start
// of the next frame, so game state is never touched off the loop.

// runTask runs fn in the background. fn's returned closure is applied on
// the loop.
func (g *Game) runTask(name string, fn func(ctx context.Context) func(*Game)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ctx, cancel := context.WithTimeout(g.taskCtx, config.BackgroundTaskTimeout)
		defer cancel()

		apply := fn(ctx)
		select {
		case g.tasks <- apply:
		case <-g.taskCtx.Done():
			g.logger.Debug("task result dropped", "task", name)
		}
	}()
}

// drainTasks applies every finished task result.
func (g *Game) drainTasks() {
	for {
		select {
		case apply := <-g.tasks:
			apply(g)
		default:
			return
		}
	}
}

// online reports whether a backend is configured.
func (g *Game) online() bool {
	return g.opts.Checkout != nil && g.opts.PlayerUUID != ""
}

// refreshWallet queries the wallet balance.
func (g *Game) refreshWallet() {
	if !g.online() {
		g.walletErr = "Wallet unavailable offline."
		return
	}
	if g.walletLoading {
		return
	}
	g.walletLoading = true
	g.walletErr = ""

	client, player := g.opts.Checkout, g.opts.PlayerUUID
	g.runTask("wallet", func(ctx context.Context) func(*Game) {
		w, err := client.Wallet(ctx, player)
		return func(g *Game) {
			g.walletLoading = false
			if err != nil {
				g.walletErr = checkout.UserMessage(err)
				g.logger.Warn("wallet query failed", "err", err)
				return
			}
			g.wallet = w
			g.economy.ApplyWallet(economy.Wallet{GoldCoins: w.GoldCoins, HealthPacks: w.HealthPacks})
		}
	})
}

// flushCoins sends the session coins to the wallet. On failure they go back
// into the session and are retried on the next flush.
func (g *Game) flushCoins() {
	if !g.online() || g.flushing {
		return
	}
	n := g.economy.TakeSessionCoins()
	if n == 0 {
		return
	}
	g.flushing = true

	client, player := g.opts.Checkout, g.opts.PlayerUUID
	g.runTask("flush", func(ctx context.Context) func(*Game) {
		res, err := client.AddEarnedCoins(ctx, player, n)
		return func(g *Game) {
			g.flushing = false
			if err != nil {
				g.logger.Warn("coin flush failed", "amount", n, "err", err)
				g.economy.RestoreSessionCoins(n)
				return
			}
			g.economy.ConfirmFlush(n, res.NewBalance)
		}
	})
}

// Close saves unflushed coins and waits up to timeout for background work.
func (g *Game) Close(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		g.logger.Warn("background work still running at exit")
	}
	g.drainTasks()

	if g.online() && !g.flushing {
		if n := g.economy.TakeSessionCoins(); n > 0 {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			res, err := g.opts.Checkout.AddEarnedCoins(ctx, g.opts.PlayerUUID, n)
			cancel()
			if err != nil {
				g.logger.Error("coins not saved", "amount", n, "err", err)
			} else {
				g.economy.ConfirmFlush(n, res.NewBalance)
			}
		}
	}
	g.cancelTasks()
}

func (g *Game) openWallet() {
	g.state = GameStateWallet
	g.refreshWallet()
}

func (g *Game) openShop() {
	g.state = GameStateShop
	g.checkoutURL = ""
	if g.packagesReady || !g.online() {
		return
	}
	g.packagesReady = true

	client := g.opts.Checkout
	g.runTask("packages", func(ctx context.Context) func(*Game) {
		pkgs, err := client.Packages(ctx)
		return func(g *Game) {
			if err != nil {
				g.packagesReady = false
			}
			if len(pkgs) > 0 {
				g.packages = pkgs
				g.shopSelected = min(g.shopSelected, len(pkgs)-1)
			}
		}
	})
}

// updateShop handles package selection and purchase.
func (g *Game) updateShop(pressed input.Input) {
	switch {
	case pressed.Shop || pressed.Escape:
		g.state = GameStatePlaying
		return
	case pressed.Wallet:
		g.openWallet()
	case pressed.Number >= 1 && pressed.Number <= len(g.packages):
		g.shopSelected = pressed.Number - 1
	case pressed.Up:
		g.shopSelected = max(g.shopSelected-1, 0)
	case pressed.Down:
		g.shopSelected = min(g.shopSelected+1, len(g.packages)-1)
	case pressed.Enter:
		g.buy()
	}
}

// buy starts a hosted checkout for the selected package.
func (g *Game) buy() {
	if !g.online() {
		g.setMessage("Shop unavailable offline.", true)
		return
	}
	if g.buying || g.shopSelected < 0 || g.shopSelected >= len(g.packages) {
		return
	}
	pkg := g.packages[g.shopSelected]
	g.buying = true
	g.checkoutURL = ""
	g.setMessage("Creating checkout...", false)

	client, nav := g.opts.Checkout, g.opts.Navigator
	req := checkout.CheckoutRequest{
		PlayerUUID: g.opts.PlayerUUID,
		PackageID:  pkg.ID,
		Quantity:   1,
		SuccessURL: g.opts.SuccessURL,
		CancelURL:  g.opts.CancelURL,
	}
	g.runTask("checkout", func(ctx context.Context) func(*Game) {
		var opened string
		err := client.Purchase(ctx, checkout.NavigatorFunc(func(url string) error {
			opened = url
			if nav == nil {
				return nil
			}
			return nav.Navigate(url)
		}), req)
		return func(g *Game) {
			g.buying = false
			if err != nil {
				g.logger.Warn("checkout failed", "package", pkg.ID, "err", err)
				g.setMessage(checkout.UserMessage(err), true)
				return
			}
			g.logger.Info("checkout opened", "package", pkg.ID)
			if nav == nil {
				g.checkoutURL = opened
				g.setMessage("Open this link to pay, then press W to refresh your wallet:", false)
				g.messageTimer = 0
				return
			}
			g.setMessage("Checkout opened in your browser. Press W afterwards to refresh your wallet.", false)
		}
	})
}
