package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
	Debug(format string, v ...interface{})
}

type StandardLogger struct {
	logger zerolog.Logger
}

// NewStandardLogger writes human readable lines to stderr. Debug lines are
// dropped unless verbose is set.
func NewStandardLogger(verbose bool) *StandardLogger {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return NewWriterLogger(out, verbose)
}

// NewFileLogger writes JSON lines to a size-rotated file at path.
func NewFileLogger(path string, verbose bool) *StandardLogger {
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return NewWriterLogger(out, verbose)
}

func NewWriterLogger(w io.Writer, verbose bool) *StandardLogger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return &StandardLogger{
		logger: zerolog.New(w).Level(level).With().Timestamp().Str("component", "csvstream").Logger(),
	}
}

func (l *StandardLogger) Info(format string, v ...interface{}) {
	l.logger.Info().Msgf(format, v...)
}

func (l *StandardLogger) Warn(format string, v ...interface{}) {
	l.logger.Warn().Msgf(format, v...)
}

func (l *StandardLogger) Error(format string, v ...interface{}) {
	l.logger.Error().Msgf(format, v...)
}

func (l *StandardLogger) Debug(format string, v ...interface{}) {
	l.logger.Debug().Msgf(format, v...)
}

// NopLogger discards everything. It is the default for library use.
type NopLogger struct{}

func NewNopLogger() NopLogger { return NopLogger{} }

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Debug(string, ...interface{}) {}
