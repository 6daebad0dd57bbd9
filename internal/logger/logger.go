package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the application logger instance
var Logger = zerolog.Nop()

// Init configures the process-wide logger writing to stdout
func Init(level, format string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	Logger = New(format, os.Stdout)

	// Packages that log through the zerolog/log helpers pick this up too
	log.Logger = Logger
}

// New builds a logger for the given output format ("json" or "console")
func New(format string, out io.Writer) zerolog.Logger {
	if strings.ToLower(format) == "json" {
		return zerolog.New(out).With().
			Timestamp().
			Caller().
			Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// GetLogger returns the configured logger instance
func GetLogger() zerolog.Logger {
	return Logger
}
