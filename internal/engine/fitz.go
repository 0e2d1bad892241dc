package engine

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/jung-kurt/gofpdf"
)

const (
	// renderDPI balances OCR legibility against output size.
	renderDPI = 150
	// maxPageEdge caps rendered page bitmaps; pathological page geometries
	// are downscaled rather than ballooning the PDF.
	maxPageEdge = 4200

	a4WidthPt  = 595.28
	a4HeightPt = 841.89
)

// mupdfEngine converts through the MuPDF library, which ingests EPUB
// directly. Each page is rendered to an image and the images are assembled
// into the output PDF in-process, so this engine works with no external
// tools installed. MuPDF is known to reject some EPUB3 stylesheet syntax;
// those failures are classified separately so the fallback chain can tell
// them apart from ordinary rendering errors.
type mupdfEngine struct {
	opts Options
}

func newMuPDF(opts Options) *mupdfEngine {
	return &mupdfEngine{opts: opts}
}

func (e *mupdfEngine) Method() Method {
	return MuPDF
}

// Available is always true: the library is linked into the binary, so if we
// are running, it loads.
func (e *mupdfEngine) Available() bool {
	return true
}

func (e *mupdfEngine) Convert(ctx context.Context, epubPath, pdfPath string, progress Progress) error {
	logger := e.opts.logger()
	logger.Info("starting MuPDF conversion", "input", epubPath, "output", pdfPath)

	// The same wall-clock ceiling the subprocess engines get; library calls
	// do not watch the context, so the page loop checks it between pages.
	ctx, cancel := context.WithTimeout(ctx, e.opts.timeout())
	defer cancel()

	if err := ctx.Err(); err != nil {
		return &Error{Method: MuPDF, Kind: KindTimeout, Err: err}
	}

	progress.report("Opening EPUB with MuPDF...")

	doc, err := fitz.New(epubPath)
	if err != nil {
		return e.classify(err, "failed to open EPUB")
	}
	defer doc.Close()

	pages := doc.NumPage()
	if pages == 0 {
		return &Error{Method: MuPDF, Kind: KindFailure, Detail: "document has no pages"}
	}
	logger.Info("document opened", "pages", pages)

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	meta := doc.Metadata()
	if title := strings.TrimSpace(meta["title"]); title != "" {
		pdf.SetTitle(title, true)
	}
	if author := strings.TrimSpace(meta["author"]); author != "" {
		pdf.SetAuthor(author, true)
	}

	progress.report(fmt.Sprintf("Rendering %d pages...", pages))

	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return &Error{Method: MuPDF, Kind: KindTimeout, Err: err}
		}

		img, err := doc.ImageDPI(i, renderDPI)
		if err != nil {
			return e.classify(err, fmt.Sprintf("failed to render page %d", i+1))
		}

		if err := addImagePage(pdf, i, img); err != nil {
			return &Error{Method: MuPDF, Kind: KindFailure, Detail: err.Error()}
		}
	}

	progress.report("Writing PDF...")

	if err := pdf.OutputFileAndClose(pdfPath); err != nil {
		removePartial(pdfPath)
		return &Error{Method: MuPDF, Kind: KindFailure, Detail: "failed to write PDF", Err: err}
	}

	if verr := verifyOutput(MuPDF, pdfPath); verr != nil {
		removePartial(pdfPath)
		return verr
	}

	progress.report("Conversion complete!")
	return nil
}

// addImagePage places one rendered page image on a fresh A4 page, scaled to
// fit and centered.
func addImagePage(pdf *gofpdf.Fpdf, index int, img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() > maxPageEdge || bounds.Dy() > maxPageEdge {
		img = imaging.Fit(img, maxPageEdge, maxPageEdge, imaging.Lanczos)
		bounds = img.Bounds()
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to encode page %d: %w", index+1, err)
	}

	name := fmt.Sprintf("page-%d", index+1)
	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	pdf.RegisterImageOptionsReader(name, opts, &buf)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to register page %d: %w", index+1, err)
	}

	scale := a4WidthPt / float64(bounds.Dx())
	if h := a4HeightPt / float64(bounds.Dy()); h < scale {
		scale = h
	}
	w := float64(bounds.Dx()) * scale
	h := float64(bounds.Dy()) * scale

	pdf.AddPage()
	pdf.ImageOptions(name, (a4WidthPt-w)/2, (a4HeightPt-h)/2, w, h, false, opts, 0, "")
	return pdf.Error()
}

// classify turns a MuPDF error into the uniform failure signal, separating
// stylesheet-compatibility failures from the rest.
func (e *mupdfEngine) classify(err error, detail string) *Error {
	msg := strings.ToLower(err.Error())
	kind := KindFailure
	if strings.Contains(msg, "css") || strings.Contains(msg, "stylesheet") {
		kind = KindCSSCompat
	}
	e.opts.logger().Error("MuPDF conversion failed", "kind", kind.String(), "error", err)
	return &Error{Method: MuPDF, Kind: kind, Detail: detail, Err: err}
}
