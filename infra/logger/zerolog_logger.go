package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultsMu     sync.RWMutex
	defaultLevel   = "info"
	defaultConsole bool
	defaultFile    *lumberjack.Logger
)

// Configure sets the level and format used by loggers created afterwards
// when LOG_LEVEL and APP_ENV are unset. format is "json" or "console".
func Configure(level, format string) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	if level != "" {
		defaultLevel = level
	}
	defaultConsole = strings.EqualFold(format, "console")
}

// ConfigureFile mirrors every logger created afterwards into a JSON log file
// rotated by size. Sizes are in megabytes and ages in days; zero keeps
// lumberjack's defaults. The returned closer detaches and closes the file.
func ConfigureFile(path string, maxSizeMB, maxBackups, maxAgeDays int) (io.Closer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
	defaultsMu.Lock()
	defaultFile = lj
	defaultsMu.Unlock()
	return fileCloser{lj}, nil
}

type fileCloser struct{ lj *lumberjack.Logger }

func (c fileCloser) Close() error {
	defaultsMu.Lock()
	if defaultFile == c.lj {
		defaultFile = nil
	}
	defaultsMu.Unlock()
	return c.lj.Close()
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger writing to stdout. APP_ENV=dev
// switches to the human readable console writer and LOG_LEVEL selects the
// minimum level; both fall back to Configure. All entries carry the
// component field.
func NewZerologLogger(component string) Logger {
	defaultsMu.RLock()
	level, console, file := defaultLevel, defaultConsole, defaultFile
	defaultsMu.RUnlock()

	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		console = true
	}
	var out io.Writer = os.Stdout
	if console {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	if file != nil {
		out = zerolog.MultiLevelWriter(out, file)
	}
	return NewZerologLoggerWithWriter(component, out, level)
}

// NewZerologLoggerWithWriter builds a logger on an arbitrary writer.
func NewZerologLoggerWithWriter(component string, w io.Writer, level string) *ZerologLogger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	z := zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
