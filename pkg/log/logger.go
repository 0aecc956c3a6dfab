package log

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Logger = zerolog.Logger

type Fields map[string]interface{}

// New builds the process logger. Local environments get a human-readable
// console writer, everything else emits JSON lines.
func New(env, service string) Logger {
	if env == "local" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return log.Level(zerolog.InfoLevel).With().Str("service", service).Logger()
}

func With(logger Logger, fields Fields) Logger {
	l := logger
	for k, v := range fields {
		l = l.With().Interface(k, v).Logger()
	}
	return l
}
