// Package logging provides component-scoped logrus loggers.
//
// Loggers are silent until Setup is called from the composition root, so
// packages can take a logger unconditionally and tests stay quiet.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config controls the process-wide log sink.
type Config struct {
	Level string
	// Format is "text" or "json".
	Format string
	// Dir receives estimator-<date>.log. Empty disables the file sink.
	Dir string
	// Stderr also writes to stderr. The TUI owns the terminal, so callers
	// enable this only when stdout is not interactive.
	Stderr bool
}

var (
	base   = newDiscardLogger()
	baseMu sync.RWMutex
	closer io.Closer
)

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Setup configures the shared logger. It may be called more than once; the
// previous log file is closed.
func Setup(cfg Config) error {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	var writers []io.Writer
	var file *os.File
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		path := filepath.Join(cfg.Dir, fmt.Sprintf("estimator-%s.log", time.Now().Format("2006-01-02")))
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		writers = append(writers, file)
	}
	if cfg.Stderr {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	baseMu.Lock()
	defer baseMu.Unlock()
	if closer != nil {
		_ = closer.Close()
		closer = nil
	}
	if file != nil {
		closer = file
	}
	base = logger
	return nil
}

// Close releases the log file opened by Setup, if any.
func Close() error {
	baseMu.Lock()
	defer baseMu.Unlock()
	base = newDiscardLogger()
	if closer == nil {
		return nil
	}
	err := closer.Close()
	closer = nil
	return err
}

// NewLogger returns a logger tagged with the given component name.
func NewLogger(component string) *logrus.Entry {
	baseMu.RLock()
	defer baseMu.RUnlock()
	return base.WithField("component", component)
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Entry {
	return logrus.NewEntry(newDiscardLogger())
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *logrus.Entry) *logrus.Entry {
	if l == nil {
		return Discard()
	}
	return l
}
