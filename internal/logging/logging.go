// Package logging writes the persistent conversion log: one append-only
// UTF-8 file per day under the user's home directory, recording every
// attempted engine, the command invoked, its captured output, and the final
// status.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const appDir = ".epub-to-pdf"

// Log owns the day's log file and the slog.Logger writing to it.
type Log struct {
	Logger *slog.Logger
	Path   string
	file   *os.File
}

// Open creates (or appends to) today's log file and returns a structured
// logger bound to it.
func Open() (*Log, error) {
	path, err := FilePath(time.Now())
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Log{Logger: logger, Path: path, file: f}, nil
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// FilePath returns the log file path for the given day,
// ~/.epub-to-pdf/logs/conversion_YYYYMMDD.log.
func FilePath(day time.Time) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	name := fmt.Sprintf("conversion_%s.log", day.Format("20060102"))
	return filepath.Join(home, appDir, "logs", name), nil
}
