package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/invaders/internal/checkout"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/shop"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

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

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	handler := shop.New(shop.Options{
		Client: checkout.New(checkout.Options{
			BaseURL:   settings.BackendURL,
			WalletURL: settings.WalletURL,
			Timeout:   settings.HTTPTimeout,
			Logger:    logger.WithPrefix("checkout"),
		}),
		Logger:     logger,
		SuccessURL: settings.CheckoutSuccessURL,
		CancelURL:  settings.CheckoutCancelURL,
		SSHHost:    sshHost,
		Timeout:    settings.HTTPTimeout,
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting web server", "url", "http://"+addr, "backend", settings.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down web server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
