// Package logger provides named component loggers. Everything goes to
// stderr because stdout carries protocol frames in stdio mode.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const logFileName = "grok-mcp.log"

var (
	once sync.Once
	base zerolog.Logger
)

// Logger is a component logger tagged with a name and an instance id.
type Logger struct {
	zl zerolog.Logger
}

func setup() {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	conf, err := LogConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode log config: %s\n", err)
		conf = &Conf{}
	}
	zerolog.SetGlobalLevel(ParseLevel(conf.Level))

	if conf.LogDir != "" {
		f, err := openLogFile(conf.LogDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file in %s: %s\n", conf.LogDir, err)
		} else {
			out = zerolog.MultiLevelWriter(out, f)
		}
	}

	base = zerolog.New(out).With().Timestamp().Logger()
}

func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// NewLogger returns a logger for the named component.
func NewLogger(name, id string) *Logger {
	once.Do(setup)
	return &Logger{zl: base.With().Str("component", name).Str("id", id).Logger()}
}

// New builds a logger on top of an arbitrary writer.
func New(w io.Writer, name string) *Logger {
	return &Logger{zl: zerolog.New(w).With().Str("component", name).Logger()}
}

// SetLevel changes the process-wide level, e.g. from a --log-level flag.
func SetLevel(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level))
}

// Debug, Info, Warn and Error take a message plus optional key/value pairs.
func (l *Logger) Debug(msg string, kv ...any) { l.zl.Debug().Fields(kv).Msg(msg) }
func (l *Logger) Info(msg string, kv ...any)  { l.zl.Info().Fields(kv).Msg(msg) }
func (l *Logger) Warn(msg string, kv ...any)  { l.zl.Warn().Fields(kv).Msg(msg) }
func (l *Logger) Error(msg string, kv ...any) { l.zl.Error().Fields(kv).Msg(msg) }
