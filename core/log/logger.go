package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = zerolog.New(os.Stdout).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// Setup replaces the process logger. Console output is used in dev, JSON lines otherwise.
func Setup(environment string, level string) error {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if environment == "dev" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	logger = zerolog.New(out).With().Timestamp().Logger().Level(parsed)
	return nil
}

// SetOutput redirects logging, mostly for tests
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// With returns a context for building a child logger with structured fields
func With() zerolog.Context {
	return logger.With()
}

// Logger returns the current process logger
func Logger() *zerolog.Logger {
	return &logger
}

func Info(msg string, args ...any) {
	logger.Info().Msgf(msg, args...)
}

func Debug(msg string, args ...any) {
	logger.Debug().Msgf(msg, args...)
}

func Warn(msg string, args ...any) {
	logger.Warn().Msgf(msg, args...)
}

func Error(msg string, args ...any) {
	logger.Error().Msgf(msg, args...)
}
