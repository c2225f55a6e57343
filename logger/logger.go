// Package logger holds the process-wide zerolog logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Log zerolog.Logger

func init() {
	Log = zerolog.New(console(os.Stderr)).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func console(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
}

// FileParams configures the optional rotated log file. Sizes are in
// megabytes and MaxAge in days, as lumberjack expects them.
type FileParams struct {
	Filename   string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// Setup replaces Log. Console output always goes to stderr; when
// file.Filename is set, JSON lines are also appended to a rotated file.
// The returned closer releases the file and must be called on exit.
func Setup(level zerolog.Level, file FileParams) io.Closer {
	SetLevel(level)

	if file.Filename == "" {
		Log = zerolog.New(console(os.Stderr)).With().Timestamp().Logger()
		return nopCloser{}
	}

	rotated := &lumberjack.Logger{
		Filename:   file.Filename,
		MaxSize:    file.MaxSize,
		MaxBackups: file.MaxBackups,
		MaxAge:     file.MaxAge,
		Compress:   file.Compress,
	}
	w := zerolog.MultiLevelWriter(console(os.Stderr), rotated)
	Log = zerolog.New(w).With().Timestamp().Logger()
	return rotated
}

// SetLevel sets the global log level
func SetLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// ParseLevel is zerolog.ParseLevel, except that an empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(s)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
