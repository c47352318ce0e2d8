package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger создаёт настроенный zerolog. В dev пишет читаемые строки, иначе JSON.
func NewLogger(appEnv string, w io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	level := zerolog.InfoLevel
	if appEnv == "dev" {
		level = zerolog.DebugLevel
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}
