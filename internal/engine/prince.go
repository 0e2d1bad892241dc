package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattiaTagliente/epub-to-pdf/internal/epub"
)

// princeEngine drives Prince XML, a typography-focused print engine. Prince
// does not read EPUB archives itself, so the adapter unpacks the book, feeds
// the spine files in reading order plus the navigation document, and injects
// style rules that derive PDF bookmarks from the nav outline.
type princeEngine struct {
	opts Options
}

func newPrince(opts Options) *princeEngine {
	return &princeEngine{opts: opts}
}

func (e *princeEngine) Method() Method {
	return Prince
}

func (e *princeEngine) Available() bool {
	return locatePrince(e.opts.path(Prince)) != ""
}

func (e *princeEngine) Convert(ctx context.Context, epubPath, pdfPath string, progress Progress) error {
	exe := locatePrince(e.opts.path(Prince))
	if exe == "" {
		return unavailableErr(Prince, "Prince XML", "https://www.princexml.com/")
	}

	logger := e.opts.logger()
	logger.Info("starting Prince conversion", "input", epubPath, "output", pdfPath, "executable", exe)

	pdfPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return &Error{Method: Prince, Kind: KindFailure, Err: err}
	}

	progress.report("Analyzing EPUB structure...")

	st, err := epub.ReadStructure(epubPath, logger)
	if err != nil {
		// Structural parse failures propagate as-is; the orchestrator and
		// structure-independent engines treat them differently.
		return err
	}
	defer st.Close()

	logger.Info("EPUB structure resolved", "spine_items", len(st.Spine), "package_dir", st.PackageDir)

	cssDir := filepath.Join(st.ScratchDir, ".prince_css")
	if err := os.MkdirAll(cssDir, 0o755); err != nil {
		return &Error{Method: Prince, Kind: KindFailure, Err: err}
	}
	navCSSFile := filepath.Join(cssDir, "nav.css")
	themeCSSFile := filepath.Join(cssDir, "theme.css")
	if err := os.WriteFile(navCSSFile, []byte(navCSS), 0o644); err != nil {
		return &Error{Method: Prince, Kind: KindFailure, Err: err}
	}
	if err := os.WriteFile(themeCSSFile, []byte(themeCSS), 0o644); err != nil {
		return &Error{Method: Prince, Kind: KindFailure, Err: err}
	}

	args := []string{
		"--style", navCSSFile,
		"--style", themeCSSFile,
	}

	for _, item := range st.Spine {
		if _, err := os.Stat(item.Path); err != nil {
			logger.Warn("spine item not found on disk, skipping", "id", item.ID, "path", item.Path)
			continue
		}
		args = append(args, item.Path)
	}

	if st.NavPath != "" {
		if _, err := os.Stat(st.NavPath); err == nil {
			args = append(args, st.NavPath)
			e.logNavOutline(st.NavPath)
		} else {
			logger.Warn("navigation document not found on disk", "path", st.NavPath)
		}
	}

	if st.Title != "" {
		args = append(args, "--pdf-title", st.Title)
		logger.Info("embedding title metadata", "title", st.Title)
	}
	if st.Author != "" {
		args = append(args, "--pdf-author", st.Author)
		logger.Info("embedding author metadata", "author", st.Author)
	}

	args = append(args, "--output", pdfPath)

	progress.report("Generating PDF with Prince (this may take a while)...")

	// Prince resolves relative references against its working directory.
	_, perr := run(ctx, logger, e.opts.timeout(), Prince, runSpec{Dir: st.PackageDir}, exe, args...)
	if perr != nil {
		removePartial(pdfPath)
		return perr
	}

	if verr := verifyOutput(Prince, pdfPath); verr != nil {
		removePartial(pdfPath)
		return verr
	}

	progress.report("Conversion complete!")
	return nil
}

// logNavOutline records the bookmark outline Prince will derive from the
// navigation document, so the log shows what the PDF's ToC should contain.
func (e *princeEngine) logNavOutline(navPath string) {
	logger := e.opts.logger()

	f, err := os.Open(navPath)
	if err != nil {
		logger.Warn("failed to open navigation document", "path", navPath, "error", err)
		return
	}
	defer f.Close()

	entries, err := epub.ParseNav(f)
	if err != nil {
		logger.Warn("failed to parse navigation document", "path", navPath, "error", err)
		return
	}
	if len(entries) == 0 {
		logger.Warn("navigation document has no toc entries, PDF will have no bookmarks")
		return
	}

	logger.Info("bookmark outline", "entries", len(entries), "first", fmt.Sprintf("%q -> %s", entries[0].Title, entries[0].Href))
}
