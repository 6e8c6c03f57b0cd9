// Package loop runs the game: the Game state, its per-frame step and the
// terminal runner.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/loop/server"
)

// Run plays a game on a terminal with the standard Input → Update → Draw
// cycle until the player quits, the input stream closes or ctx is done.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	frameTime := config.TargetFrameTime
	if opts.TargetFPS > 0 {
		frameTime = time.Second / time.Duration(opts.TargetFPS)
	}

	game := NewGame(opts)
	defer game.Close(config.BackgroundTaskTimeout)
	stream := input.StartStream(r)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitTerminal(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
	logicalWidth, logicalHeight := game.Size()
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, logicalWidth, logicalHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	var (
		lastTime      = time.Now()
		lastInput     = lastTime
		prevState     = game.State()
		shutdownTimer float64
	)

	for game.Running() {
		select {
		case <-ctx.Done():
			game.Stop()
			continue
		default:
		}

		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		// ===== INPUT PHASE =====
		in := input.ReadInput(stream)
		if stream.Closed() {
			break
		}
		if in != input.None {
			lastInput = frameStart
		}
		if opts.DisconnectIdle {
			idle := frameStart.Sub(lastInput).Seconds()
			switch {
			case idle > config.InactivityDisconnectUser:
				game.Stop()
				continue
			case idle > config.InactivityWarnUser:
				game.SetNotice(fmt.Sprintf("Idle: disconnecting in %.0fs. Press any key.", config.InactivityDisconnectUser-idle), 0.5)
			}
		}

		// Server events
		for ev, ok := nextEvent(opts.Events); ok; ev, ok = nextEvent(opts.Events) {
			switch ev.Type {
			case server.EventServerShutdown:
				shutdownTimer = config.ShutdownDisplaySeconds
			case server.EventBroadcast:
				game.SetNotice(ev.Message, config.NoticeSeconds)
			}
		}
		if shutdownTimer > 0 {
			shutdownTimer -= delta.Seconds()
			if shutdownTimer <= 0 {
				game.Stop()
				continue
			}
			game.SetNotice(fmt.Sprintf("Server shutting down in %.0fs. Your gold is being saved.", shutdownTimer), 0.5)
		}

		// Handle screen resize
		updateScreen(termSizeFunc, canvas, chunkWriter, w)

		// ===== UPDATE PHASE =====
		if err := game.Update(in, delta); err != nil {
			return err
		}

		// ===== DRAW PHASE =====
		if game.State() != prevState {
			stream.Reset()
			chunkWriter.WriteString("\033[H\033[2J")
			canvas.ForceRedraw()
			prevState = game.State()
		}
		canvas.Clear()
		if err := game.Draw(canvas); err != nil {
			return err
		}
		canvas.Render(chunkWriter)
		canvas.RenderBorder(chunkWriter)
		if err := chunkWriter.Flush(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	draw.ClearScreen(w)
	return nil
}

// nextEvent returns a pending server event without blocking.
func nextEvent(events <-chan server.ClientEvent) (server.ClientEvent, bool) {
	if events == nil {
		return server.ClientEvent{}, false
	}
	select {
	case ev, ok := <-events:
		return ev, ok
	default:
		return server.ClientEvent{}, false
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func updateScreen(termSizeFunc draw.TermSizeFunc, canvas *draw.Canvas, cw *draw.ChunkWriter, w io.Writer) {
	termWidth, termHeight, err := termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.FitTerminal(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)

	if renderWidth != canvas.TerminalWidth() || renderHeight != canvas.TerminalHeight() ||
		offsetCol != canvas.OffsetCol() || offsetRow != canvas.OffsetRow() {
		draw.ClearScreen(w)
		canvas.ForceRedraw()
	}

	canvas.Resize(renderWidth, renderHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	cw.SetOffset(offsetCol, offsetRow)
}
