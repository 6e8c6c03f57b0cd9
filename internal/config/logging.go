package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger. Output goes to LOG_FILE when set,
// otherwise to fallback (terminal clients pass io.Discard so logs never
// land on the game screen). The returned closer must be called on exit.
func NewLogger(s Settings, fallback io.Writer) (*log.Logger, io.Closer, error) {
	var (
		w      = fallback
		closer io.Closer = nopCloser{}
	)
	if s.LogFile != "" {
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
	})
	if level, err := log.ParseLevel(s.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown LOG_LEVEL, using info", "value", s.LogLevel)
	}
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
