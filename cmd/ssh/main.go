package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/invaders/internal/checkout"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop"
	"github.com/tomz197/invaders/internal/loop/server"
	"github.com/tomz197/invaders/internal/profile"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// app holds what every SSH session shares.
type app struct {
	settings config.Settings
	logger   *log.Logger
	client   *checkout.Client
	sessions *server.Server
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

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("SSH config", "host", host, "port", port, "host_key", hostKeyPath, "backend", settings.BackendURL)

	a := &app{
		settings: settings,
		logger:   logger,
		client: checkout.New(checkout.Options{
			BaseURL:   settings.BackendURL,
			WalletURL: settings.WalletURL,
			Timeout:   settings.HTTPTimeout,
			Logger:    logger.WithPrefix("checkout"),
		}),
		sessions: server.NewServer(),
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Tell players first so their games can save gold before the connections drop.
	logger.Info("Notifying connected players", "count", a.sessions.Count())
	a.sessions.Shutdown(15 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs one game per session.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		user := sess.User()
		logger := a.logger.With("user", user)
		logger.Info("New game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		handle := a.sessions.RegisterClient(user)
		defer a.sessions.UnregisterClient(handle.ID)
		a.sessions.Broadcast(user+" joined", handle.ID)

		err := loop.Run(sess.Context(), bufio.NewReader(sess), sess, loop.Options{
			Width:                 float64(a.settings.ScreenWidth),
			Height:                float64(a.settings.ScreenHeight),
			CoinsPerPoint:         a.settings.CoinsPerPoint,
			CoinsPerLevelComplete: a.settings.CoinsPerLevelComplete,
			PlayerUUID:            profile.ForSSHUser(user),
			Checkout:              a.client,
			SuccessURL:            a.settings.CheckoutSuccessURL,
			CancelURL:             a.settings.CheckoutCancelURL,
			Logger:                logger,
			TargetFPS:             a.settings.TargetFPS,
			TermSizeFunc:          sizeTracker.getSize,
			Events:                handle.EventsCh,
			DisconnectIdle:        true,
		})
		if err != nil {
			logger.Error("Game error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
