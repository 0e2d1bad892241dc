package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/mattiaTagliente/epub-to-pdf/internal/epub"
)

// maxCoverWidth bounds the cover image handed to calibre; anything wider is
// downscaled before embedding.
const maxCoverWidth = 1600

// calibreEngine drives calibre's ebook-convert. Page size, margins, and
// font embedding are pinned explicitly so the output stays OCR-friendly.
type calibreEngine struct {
	opts Options
}

func newCalibre(opts Options) *calibreEngine {
	return &calibreEngine{opts: opts}
}

func (e *calibreEngine) Method() Method {
	return Calibre
}

func (e *calibreEngine) Available() bool {
	return locateCalibre(e.opts.path(Calibre)) != ""
}

func (e *calibreEngine) Convert(ctx context.Context, epubPath, pdfPath string, progress Progress) error {
	exe := locateCalibre(e.opts.path(Calibre))
	if exe == "" {
		return unavailableErr(Calibre, "calibre (ebook-convert)", "https://calibre-ebook.com/download")
	}

	logger := e.opts.logger()
	logger.Info("starting calibre conversion", "input", epubPath, "output", pdfPath, "executable", exe)

	progress.report("Converting with calibre...")

	args := []string{
		epubPath, pdfPath,
		"--paper-size", "a4",
		"--pdf-page-margin-left", "48",
		"--pdf-page-margin-right", "48",
		"--pdf-page-margin-top", "48",
		"--pdf-page-margin-bottom", "48",
		"--pdf-default-font-size", "12",
		"--embed-all-fonts",
		"--preserve-cover-aspect-ratio",
		// Keep embedded images at their original fidelity; lossy
		// recompression hurts OCR downstream.
		"--uncompressed-pdf",
	}

	if coverPath, ok := e.prepareCover(epubPath); ok {
		defer os.Remove(coverPath)
		args = append(args, "--cover", coverPath)
	}

	_, perr := run(ctx, logger, e.opts.timeout(), Calibre, runSpec{}, exe, args...)
	if perr != nil {
		removePartial(pdfPath)
		return perr
	}

	if verr := verifyOutput(Calibre, pdfPath); verr != nil {
		removePartial(pdfPath)
		return verr
	}

	progress.report("Conversion complete!")
	return nil
}

// prepareCover pulls the cover image out of the archive, downscales it when
// oversized, and writes a scratch JPEG for ebook-convert. Any problem is a
// soft degradation: calibre falls back to its own cover handling.
func (e *calibreEngine) prepareCover(epubPath string) (string, bool) {
	logger := e.opts.logger()

	data, ok, err := epub.ExtractCover(epubPath, logger)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("failed to extract cover image", "error", err)
		}
		return "", false
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Warn("failed to decode cover image", "error", err)
		return "", false
	}

	if img.Bounds().Dx() > maxCoverWidth {
		img = imaging.Resize(img, maxCoverWidth, 0, imaging.Lanczos)
	}

	f, err := os.CreateTemp("", "epub-to-pdf-cover-*.jpg")
	if err != nil {
		logger.Warn("failed to create cover scratch file", "error", err)
		return "", false
	}
	coverPath := f.Name()
	f.Close()

	if err := imaging.Save(img, coverPath, imaging.JPEGQuality(95)); err != nil {
		logger.Warn("failed to write cover scratch file", "error", err)
		os.Remove(coverPath)
		return "", false
	}

	logger.Info("cover prepared", "path", filepath.Base(coverPath), "width", img.Bounds().Dx())
	return coverPath, true
}
