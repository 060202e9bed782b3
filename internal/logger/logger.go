package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the process wide log output.
type Options struct {
	Level   string
	Format  string
	Color   bool
	File    string
	MaxSize int
	MaxAge  int
}

var (
	mu     sync.RWMutex
	output io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	file   *lumberjack.Logger
)

// Configure sets the global level and the writer shared by every logger
// created afterwards. A previously opened log file is closed.
func Configure(opts Options) error {
	zerolog.SetGlobalLevel(ParseLevel(opts.Level))

	var console io.Writer
	if strings.EqualFold(opts.Format, "json") {
		console = os.Stderr
	} else {
		console = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !opts.Color,
		}
	}

	w := console
	var rotating *lumberjack.Logger
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return err
		}

		maxSize := opts.MaxSize
		if maxSize <= 0 {
			maxSize = 10
		}

		rotating = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxAge:     opts.MaxAge,
			MaxBackups: 3,
			Compress:   true,
		}
		w = zerolog.MultiLevelWriter(console, rotating)
	}

	mu.Lock()
	prev := file
	output = w
	file = rotating
	mu.Unlock()

	if prev != nil {
		return prev.Close()
	}

	return nil
}

// ParseLevel maps a config level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	}

	return zerolog.InfoLevel
}

// New returns a logger tagged with the component name.
func New(name string) zerolog.Logger {
	mu.RLock()
	w := output
	mu.RUnlock()

	return zerolog.New(w).
		With().
		Timestamp().
		Str("log", name).
		Logger()
}

// Default returns the base logger on the current writer.
func Default() zerolog.Logger {
	return New("torbox")
}
