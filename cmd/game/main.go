package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/invaders/internal/checkout"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/profile"
	"golang.org/x/term"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// Logs never go to the terminal the game is drawing on.
	logger, closer, err := config.NewLogger(settings, io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	playerID, err := profile.LoadOrCreate(settings.PlayerIDFile)
	if err != nil {
		logger.Warn("playing offline: no player id", "err", err)
	}

	client := checkout.New(checkout.Options{
		BaseURL:   settings.BackendURL,
		WalletURL: settings.WalletURL,
		Timeout:   settings.HTTPTimeout,
		Logger:    logger.WithPrefix("checkout"),
	})

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{
		Width:                 float64(settings.ScreenWidth),
		Height:                float64(settings.ScreenHeight),
		CoinsPerPoint:         settings.CoinsPerPoint,
		CoinsPerLevelComplete: settings.CoinsPerLevelComplete,
		PlayerUUID:            playerID,
		Checkout:              client,
		Navigator:             checkout.BrowserNavigator{},
		SuccessURL:            settings.CheckoutSuccessURL,
		CancelURL:             settings.CheckoutCancelURL,
		Logger:                logger,
		TargetFPS:             settings.TargetFPS,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
