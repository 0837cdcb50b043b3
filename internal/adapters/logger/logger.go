// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger *slog.Logger
	level  slog.Level
	mu     sync.RWMutex
}

// New creates a Logger writing text records to stderr.
func New() *Logger {
	return NewWithWriter(os.Stderr, slog.LevelInfo)
}

// NewWithWriter creates a Logger writing text records at or above level to w.
func NewWithWriter(w io.Writer, level slog.Level) *Logger {
	return &Logger{
		logger: newSlog(w, level),
		level:  level,
	}
}

func newSlog(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetOutput updates the logger's output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = newSlog(w, l.level)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error along with the metadata attached anywhere in its chain.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", append([]any{"error", err.Error()}, metadataAttrs(err)...)...)
}

// metadataAttrs flattens zerr metadata into sorted slog key/value pairs.
// Keys closer to the top of the chain win.
func metadataAttrs(err error) []any {
	meta := make(map[string]any)
	collectMetadata(err, meta)

	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		attrs = append(attrs, k, meta[k])
	}
	return attrs
}

// collectMetadata walks the whole error tree, including errors joined by
// fmt.Errorf with several %w verbs.
func collectMetadata(err error, meta map[string]any) {
	if err == nil {
		return
	}
	if z, ok := err.(*zerr.Error); ok {
		for k, v := range z.Metadata() {
			if _, seen := meta[k]; !seen {
				meta[k] = v
			}
		}
	}
	switch u := err.(type) {
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			collectMetadata(e, meta)
		}
	case interface{ Unwrap() error }:
		collectMetadata(u.Unwrap(), meta)
	}
}

var _ ports.Logger = (*Logger)(nil)
