package engine

import (
	"context"
	"runtime"
	"strconv"
)

// vivliostyleEngine drives the Vivliostyle CLI, which renders through
// Chromium. It reads EPUB directly, so no structure extraction is needed.
type vivliostyleEngine struct {
	opts Options
}

func newVivliostyle(opts Options) *vivliostyleEngine {
	return &vivliostyleEngine{opts: opts}
}

func (e *vivliostyleEngine) Method() Method {
	return Vivliostyle
}

func (e *vivliostyleEngine) Available() bool {
	return locateVivliostyle(e.opts.path(Vivliostyle)) != ""
}

func (e *vivliostyleEngine) Convert(ctx context.Context, epubPath, pdfPath string, progress Progress) error {
	exe := locateVivliostyle(e.opts.path(Vivliostyle))
	if exe == "" {
		return unavailableErr(Vivliostyle, "Vivliostyle CLI", "npm install -g @vivliostyle/cli")
	}

	logger := e.opts.logger()
	logger.Info("starting Vivliostyle conversion", "input", epubPath, "output", pdfPath, "executable", exe)

	progress.report("Converting with Vivliostyle CLI...")

	// The CLI has its own internal timeout; keep it in step with the
	// process-level ceiling so neither silently undercuts the other.
	args := []string{
		"build", epubPath,
		"-o", pdfPath,
		"--size", "A4",
		"--timeout", strconv.Itoa(int(e.opts.timeout().Seconds())),
		"--log-level", "verbose",
	}

	spec := runSpec{
		// CI=true suppresses TTY detection, which misbehaves when the CLI is
		// driven from another process.
		Env: []string{"CI=true"},
		// Puppeteer's Chromium hangs under direct pipe capture on Windows;
		// route output through a file there instead.
		RedirectToFile: runtime.GOOS == "windows",
	}

	_, perr := run(ctx, logger, e.opts.timeout(), Vivliostyle, spec, exe, args...)
	if perr != nil {
		removePartial(pdfPath)
		return perr
	}

	if verr := verifyOutput(Vivliostyle, pdfPath); verr != nil {
		removePartial(pdfPath)
		return verr
	}

	progress.report("Conversion complete!")
	return nil
}
