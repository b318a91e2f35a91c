// Package diag implements the res-blob codec's per-invocation diagnostic
// sink: structured log/slog records written to an io.Writer (stderr by
// default) and a size-capped rotating file, replacing the global-logger
// state the original Python packer kept with an explicit value threaded
// through Pack/Unpack/Validate.
package diag

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Sink is a per-invocation diagnostic destination: every pack, unpack, or
// validate call takes one (nil is valid and discards everything).
type Sink struct {
	logger *slog.Logger
	file   *rotatingWriter
}

// NewSink builds a Sink that writes to console (stderr if nil) and, if
// logPath is non-empty, a rotating file capped at maxBytes with backups
// gzip-compressed (see rotatingWriter). maxBytes <= 0 defaults to 10MiB,
// matching the ported RotatingFileHandler(maxBytes=10485760, backupCount=1).
func NewSink(console io.Writer, logPath string, maxBytes int64) (*Sink, error) {
	if console == nil {
		console = os.Stderr
	}

	writers := []io.Writer{console}

	var rw *rotatingWriter
	if logPath != "" {
		var err error
		rw, err = newRotatingWriter(logPath, maxBytes)
		if err != nil {
			return nil, fmt.Errorf("diag: open log file %q: %w", logPath, err)
		}
		writers = append(writers, rw)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: slog.LevelInfo})

	return &Sink{logger: slog.New(handler), file: rw}, nil
}

// Noop returns a Sink that discards every record, for callers that don't
// want diagnostics (e.g. library consumers who pass nil explicitly).
func Noop() *Sink {
	return &Sink{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Close flushes and closes the rotating log file, if one was opened.
func (s *Sink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	return s.file.Close()
}

func (s *Sink) log(level slog.Level, msg string, args ...any) {
	if s == nil || s.logger == nil {
		return
	}
	s.logger.Log(nil, level, msg, args...)
}

// Debug logs a debug-level diagnostic.
func (s *Sink) Debug(msg string, args ...any) { s.log(slog.LevelDebug, msg, args...) }

// Info logs an info-level diagnostic — the level used for non-fatal
// findings like a content-duplicate asset or a file-count mismatch that
// the original tool only ever logged, never failed the build on.
func (s *Sink) Info(msg string, args ...any) { s.log(slog.LevelInfo, msg, args...) }

// Warn logs a warn-level diagnostic, matching layer.Warning's tolerated
// unpacker irregularities.
func (s *Sink) Warn(msg string, args ...any) { s.log(slog.LevelWarn, msg, args...) }

// Error logs an error-level diagnostic.
func (s *Sink) Error(msg string, args ...any) { s.log(slog.LevelError, msg, args...) }

// rotatingWriter caps one log file at maxBytes, moving the prior file to
// "<path>.1.gz" (compressed) on rotation and keeping exactly one backup —
// a direct port of RotatingFileHandler(maxBytes=..., backupCount=1).
type rotatingWriter struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	file     *os.File
	size     int64
}

func newRotatingWriter(path string, maxBytes int64) (*rotatingWriter, error) {
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &rotatingWriter{path: path, maxBytes: maxBytes, file: f, size: info.Size()}, nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.maxBytes {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

func (w *rotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
