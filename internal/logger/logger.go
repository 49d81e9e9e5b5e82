// file: internal/logger/logger.go
// version: 1.0.0
// guid: 70ed0ca4-d4d0-410a-97d8-e97ff3f04cf4

package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogFormat defines the available log formats
type LogFormat string

const (
	// FormatJSON writes one JSON object per line
	FormatJSON LogFormat = "json"
	// FormatConsole writes human readable, colorized lines
	FormatConsole LogFormat = "console"
)

// ParseLogFormat parses a string into a LogFormat, defaulting to console
func ParseLogFormat(format string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return FormatJSON
	default:
		return FormatConsole
	}
}

// Config holds the configuration for the logger
type Config struct {
	// Level is the log level (debug, info, warn, error)
	Level string
	// Format is the log format (json, console)
	Format LogFormat
	// Output is the output writer (default: os.Stderr)
	Output io.Writer
	// TimeFormat is the time format (default: time.RFC3339)
	TimeFormat string
}

// switchWriter lets Setup change the destination and format of loggers
// that components already hold.
type switchWriter struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *switchWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.out.Write(p)
}

func (w *switchWriter) set(out io.Writer) {
	w.mu.Lock()
	w.out = out
	w.mu.Unlock()
}

var (
	output = &switchWriter{out: os.Stderr}
	base   = zerolog.New(output).With().Timestamp().Logger()
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// Setup applies cfg to the process-wide logger. The level and writer are
// shared, so loggers returned earlier by Get or WithComponent follow it.
func Setup(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format != FormatJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}
	}
	zerolog.TimeFieldFormat = timeFormat

	output.set(out)
	zerolog.SetGlobalLevel(level)
}

// Get returns the process-wide logger
func Get() zerolog.Logger {
	return base
}

// WithComponent returns a child logger tagged with a component name
func WithComponent(name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}

// Track logs how long an operation took once the returned func is called.
// Anything slower than slow is logged at warn level.
func Track(l zerolog.Logger, msg string, slow time.Duration) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		if slow > 0 && d > slow {
			l.Warn().Dur("duration", d).Msgf("%s completed (slow)", msg)
			return
		}
		l.Debug().Dur("duration", d).Msgf("%s completed", msg)
	}
}
