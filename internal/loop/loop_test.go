package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func runOptions() Options {
	return Options{
		Seed:         1,
		Logger:       log.New(io.Discard),
		TermSizeFunc: func() (int, int, error) { return 160, 45, nil },
	}
}

// runAsync runs the terminal loop and returns its result channel.
func runAsync(ctx context.Context, r io.Reader, w io.Writer) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, bufio.NewReader(r), w, runOptions())
	}()
	return done
}

func waitRun(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRunQuitsOnQ(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	var out bytes.Buffer

	done := runAsync(context.Background(), pr, &out)
	go pw.Write([]byte("q"))
	waitRun(t, done)

	s := out.String()
	if !strings.Contains(s, "\033[?25l") || !strings.Contains(s, "\033[?25h") {
		t.Fatal("cursor not hidden and restored")
	}
	if !strings.Contains(s, "Press SPACE to Start") {
		t.Fatal("title screen not rendered")
	}
}

func TestRunStopsWhenInputCloses(t *testing.T) {
	var out bytes.Buffer
	waitRun(t, runAsync(context.Background(), strings.NewReader(""), &out))
}

func TestRunStopsOnContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())

	done := runAsync(ctx, pr, io.Discard)
	time.Sleep(50 * time.Millisecond)
	cancel()
	waitRun(t, done)
}
