// Package engine drives the external conversion backends. Each adapter wraps
// one engine behind the same contract; the capability table fixes the
// automatic-mode preference order.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Method identifies one conversion backend, plus the synthetic Auto value
// meaning "try engines in preference order until one succeeds".
type Method string

const (
	Prince      Method = "prince"
	Vivliostyle Method = "vivliostyle"
	Calibre     Method = "calibre"
	Pandoc      Method = "pandoc"
	MuPDF       Method = "mupdf"
	Auto        Method = "auto"
)

// ParseMethod converts a user-supplied method name to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case Prince, Vivliostyle, Calibre, Pandoc, MuPDF, Auto:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown conversion method: %q", s)
}

// Progress receives human-readable status strings during a conversion. It is
// invoked from whatever goroutine runs the conversion; callers marshal to
// their own thread if they need to.
type Progress func(msg string)

func (p Progress) report(msg string) {
	if p != nil {
		p(msg)
	}
}

// Engine is the uniform adapter contract. Convert re-verifies its own
// prerequisites even though the orchestrator probes availability first, since
// installation state can change between probe and invocation.
type Engine interface {
	Method() Method
	// Available reports whether the engine's prerequisites resolve on this
	// host right now. Never cached across calls.
	Available() bool
	Convert(ctx context.Context, epubPath, pdfPath string, progress Progress) error
}

// DefaultTimeout bounds a single engine invocation. Long, but finite, so a
// pathological input cannot hang a conversion forever.
const DefaultTimeout = 15 * time.Minute

// Options configures the adapter set.
type Options struct {
	Logger *slog.Logger
	// Timeout per engine invocation; DefaultTimeout when zero.
	Timeout time.Duration
	// Paths maps a method to an explicit executable path, overriding
	// discovery on the command search path and well-known directories.
	Paths map[Method]string
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) timeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

func (o Options) path(m Method) string {
	return o.Paths[m]
}

// Table returns every adapter in fixed preference order, most reliable and
// highest-fidelity first. Adding an engine means adding one row here.
func Table(opts Options) []Engine {
	return []Engine{
		newPrince(opts),
		newVivliostyle(opts),
		newCalibre(opts),
		newPandoc(opts),
		newMuPDF(opts),
	}
}
