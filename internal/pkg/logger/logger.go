// Package logger holds the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config is the logging section of the app config in a form the logger can use
type Config struct {
	// Level is a zerolog level name; unknown names fall back to info
	Level string
	// Pretty switches from JSON lines to the human-readable console writer
	Pretty bool
	// Output defaults to os.Stdout
	Output io.Writer
}

var base zerolog.Logger

// ConfigFromSettings builds a logger Config from the logging section of the app config.
// Any format other than "json" produces human-readable console output.
func ConfigFromSettings(level, format string) Config {
	return Config{
		Level:  strings.ToLower(strings.TrimSpace(level)),
		Pretty: !strings.EqualFold(format, "json"),
		Output: os.Stdout,
	}
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Configure replaces the process logger, and the zerolog/log global with it.
func Configure(config Config) {
	out := config.Output
	if out == nil {
		out = os.Stdout
	}
	if config.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(ParseLevel(config.Level))

	base = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = base
}

// Get returns the configured logger
func Get() zerolog.Logger {
	return base
}

// Component returns the logger with a component field, e.g. "http" or "store"
func Component(name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}

func Debug() *zerolog.Event { return base.Debug() }

func Info() *zerolog.Event { return base.Info() }

func Warn() *zerolog.Event { return base.Warn() }

func Error() *zerolog.Event { return base.Error() }

func init() {
	Configure(Config{Level: "info", Pretty: true})
}
