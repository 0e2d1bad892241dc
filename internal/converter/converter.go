// Package converter is the conversion façade: it validates inputs, resolves
// the destination path, selects an engine, and drives the fallback chain in
// automatic mode.
package converter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattiaTagliente/epub-to-pdf/internal/engine"
	"github.com/mattiaTagliente/epub-to-pdf/internal/epub"
)

// Request describes one conversion. Immutable for its lifetime.
type Request struct {
	SourcePath string
	// DestPath defaults to SourcePath with the extension replaced by .pdf.
	DestPath string
	Method   engine.Method
	Progress engine.Progress
}

// Converter orchestrates conversions over a fixed engine table. It performs
// one conversion at a time and holds no queue; a caller that wants
// concurrent requests must serialize them itself.
type Converter struct {
	logger  *slog.Logger
	engines []engine.Engine
}

// New builds a Converter over the default engine table.
func New(opts engine.Options) *Converter {
	return &Converter{
		logger:  opts.Logger,
		engines: engine.Table(opts),
	}
}

// NewWithEngines builds a Converter over an explicit engine list in
// preference order.
func NewWithEngines(logger *slog.Logger, engines []engine.Engine) *Converter {
	return &Converter{logger: logger, engines: engines}
}

// AvailableMethods returns the subset of methods usable on this host, in
// preference order. Recomputed on every call.
func (c *Converter) AvailableMethods() []engine.Method {
	var available []engine.Method
	for _, e := range c.engines {
		if e.Available() {
			available = append(available, e.Method())
		}
	}
	return available
}

// Convert runs one conversion and returns the destination path on success.
// The call is synchronous and blocking; callers wanting a responsive front
// end run it on their own worker goroutine. Progress notifications are
// delivered in strict chronological order.
func (c *Converter) Convert(ctx context.Context, req Request) (string, error) {
	logger := c.log()

	logger.Info("=== Starting conversion ===", "input", req.SourcePath, "method", req.Method)

	if _, err := os.Stat(req.SourcePath); err != nil {
		logger.Error("source not found", "path", req.SourcePath)
		return "", fmt.Errorf("%w: %s", ErrSourceNotFound, req.SourcePath)
	}

	if !strings.EqualFold(filepath.Ext(req.SourcePath), ".epub") {
		logger.Error("source is not an EPUB", "path", req.SourcePath)
		return "", fmt.Errorf("%w: %s", ErrNotAnEpub, req.SourcePath)
	}

	// Reject corrupt archives before any engine runs, whatever the method.
	// Only archive-level problems are fatal here; structural problems are
	// for the engines that need structure.
	if err := epub.ValidateArchive(req.SourcePath, logger); err != nil {
		logger.Error("archive validation failed", "error", err)
		return "", err
	}

	dest := req.DestPath
	if dest == "" {
		dest = strings.TrimSuffix(req.SourcePath, filepath.Ext(req.SourcePath)) + ".pdf"
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	logger.Info("output resolved", "output", dest)

	if req.Method == engine.Auto || req.Method == "" {
		return c.convertAuto(ctx, req, dest)
	}
	return c.convertExplicit(ctx, req, dest)
}

// convertExplicit invokes the chosen engine directly; its failure propagates
// as-is, no fallback.
func (c *Converter) convertExplicit(ctx context.Context, req Request, dest string) (string, error) {
	for _, e := range c.engines {
		if e.Method() != req.Method {
			continue
		}
		if err := e.Convert(ctx, req.SourcePath, dest, req.Progress); err != nil {
			c.log().Error("conversion failed", "engine", e.Method(), "error", err)
			return "", err
		}
		c.log().Info("conversion succeeded", "engine", e.Method(), "output", dest)
		return dest, nil
	}
	return "", fmt.Errorf("unknown conversion method: %q", req.Method)
}

// convertAuto tries engines strictly sequentially in table order, recording
// each failure and moving on. No engine is retried; no notification for a
// later engine precedes an earlier engine's failure notification.
func (c *Converter) convertAuto(ctx context.Context, req Request, dest string) (string, error) {
	logger := c.log()

	var attempts []Attempt
	attempted := false

	for _, e := range c.engines {
		if !e.Available() {
			logger.Info("engine not available, skipping", "engine", e.Method())
			continue
		}
		attempted = true

		if req.Progress != nil {
			req.Progress(fmt.Sprintf("Using %s...", e.Method()))
		}

		err := e.Convert(ctx, req.SourcePath, dest, req.Progress)
		if err == nil {
			logger.Info("conversion succeeded", "engine", e.Method(), "output", dest)
			return dest, nil
		}

		logger.Warn("engine failed, trying next method", "engine", e.Method(), "error", err)
		attempts = append(attempts, Attempt{Method: e.Method(), Err: err})
		if req.Progress != nil {
			req.Progress(fmt.Sprintf("%s failed, trying next method...", e.Method()))
		}
	}

	if !attempted {
		err := &NoEnginesError{}
		logger.Error("no engines available", "error", err)
		return "", err
	}

	err := &AllFailedError{Attempts: attempts}
	logger.Error("all engines failed", "error", err)
	return "", err
}

func (c *Converter) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}
