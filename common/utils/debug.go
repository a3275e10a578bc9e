package utils

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var loggerMu sync.RWMutex
var rootLogger = newRootLogger(os.Stdout)

func newRootLogger(w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	ctx := zerolog.New(w).With().Timestamp()

	if hostname, err := os.Hostname(); err == nil {
		ctx = ctx.Str("hostname", hostname)
	}

	return ctx.Logger()
}

// SetLogOutput redirects every service logger to w.
func SetLogOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	rootLogger = newRootLogger(w)
}

// SetLogLevel parses level ("debug", "info", ...) and applies it globally.
func SetLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(lvl)
	return nil
}

// Logger returns a structured logger tagged with the service name.
func Logger(service string) zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()

	return rootLogger.With().Str("service", service).Logger()
}

func Debug(service string, message string) {
	logger := Logger(service)
	logger.Info().Msg(message)
}
