package engine

import (
	"context"
	"fmt"
	"strings"
)

// pandocBackends are the candidate --pdf-engine values, tried in sequence
// until one leaves non-empty output. Pandoc itself only reshuffles the
// document; one of these does the actual PDF rendering.
var pandocBackends = []string{"weasyprint", "wkhtmltopdf", "xelatex", "tectonic"}

// pandocEngine drives pandoc as a universal document converter.
type pandocEngine struct {
	opts Options
}

func newPandoc(opts Options) *pandocEngine {
	return &pandocEngine{opts: opts}
}

func (e *pandocEngine) Method() Method {
	return Pandoc
}

func (e *pandocEngine) Available() bool {
	return locatePandoc(e.opts.path(Pandoc)) != ""
}

func (e *pandocEngine) Convert(ctx context.Context, epubPath, pdfPath string, progress Progress) error {
	exe := locatePandoc(e.opts.path(Pandoc))
	if exe == "" {
		return unavailableErr(Pandoc, "pandoc", "https://pandoc.org/installing.html")
	}

	logger := e.opts.logger()
	logger.Info("starting pandoc conversion", "input", epubPath, "output", pdfPath, "executable", exe)

	var failures []string
	for _, backend := range pandocBackends {
		if err := ctx.Err(); err != nil {
			return &Error{Method: Pandoc, Kind: KindFailure, Err: err}
		}

		progress.report(fmt.Sprintf("Converting with pandoc (%s backend)...", backend))

		args := []string{
			epubPath,
			"-o", pdfPath,
			"--pdf-engine=" + backend,
			"-V", "papersize=a4",
			"-V", "geometry:margin=2.5cm",
		}

		_, perr := run(ctx, logger, e.opts.timeout(), Pandoc, runSpec{}, exe, args...)
		if perr != nil {
			if perr.Kind == KindTimeout {
				removePartial(pdfPath)
				return perr
			}
			failures = append(failures, fmt.Sprintf("%s: %s", backend, strings.TrimSpace(perr.Detail)))
			removePartial(pdfPath)
			continue
		}

		if verr := verifyOutput(Pandoc, pdfPath); verr != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", backend, verr.Detail))
			removePartial(pdfPath)
			continue
		}

		logger.Info("pandoc backend succeeded", "backend", backend)
		progress.report("Conversion complete!")
		return nil
	}

	return &Error{
		Method: Pandoc,
		Kind:   KindFailure,
		Detail: "all pandoc backends failed: " + strings.Join(failures, "; "),
	}
}
