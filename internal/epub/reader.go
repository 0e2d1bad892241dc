package epub

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Reader provides access to EPUB file contents
type Reader struct {
	zipReader *zip.ReadCloser
	files     map[string]*zip.File
	opfPath   string
	logger    *slog.Logger
}

// container.xml structure
type container struct {
	Rootfiles struct {
		Rootfile []struct {
			FullPath  string `xml:"full-path,attr"`
			MediaType string `xml:"media-type,attr"`
		} `xml:"rootfile"`
	} `xml:"rootfiles"`
}

var (
	ErrInvalidArchive         = errors.New("not a valid EPUB archive")
	ErrMissingContainer       = errors.New("META-INF/container.xml not found")
	ErrMissingPackageDocument = errors.New("package document not found")
	ErrEmptySpine             = errors.New("spine is empty: cannot determine reading order")
)

const epubMimetype = "application/epub+zip"

// Open opens an EPUB file and validates its container structure.
// A missing mimetype entry is tolerated with a warning (many real-world
// EPUBs omit it); a mimetype entry with the wrong value is fatal.
func Open(path string, logger *slog.Logger) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	reader := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File),
		logger:    logger,
	}

	// Build file map with normalized paths
	for _, f := range zr.File {
		reader.files[normalizePath(f.Name)] = f
	}

	if err := reader.validateMimetype(); err != nil {
		zr.Close()
		return nil, err
	}

	if err := reader.parseContainer(); err != nil {
		zr.Close()
		return nil, err
	}

	return reader, nil
}

// ValidateArchive checks just that the file is a well-formed ZIP whose
// mimetype entry, when present, reads application/epub+zip. Used by the
// orchestrator to reject corrupt input before any engine runs. Deeper
// structural problems (missing container, empty spine) are left to the
// structure-aware engines; engines that ingest the archive directly can
// still convert such books.
func ValidateArchive(path string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer zr.Close()

	r := &Reader{
		zipReader: zr,
		files:     make(map[string]*zip.File),
		logger:    logger,
	}
	for _, f := range zr.File {
		r.files[normalizePath(f.Name)] = f
	}
	return r.validateMimetype()
}

// Close closes the EPUB reader
func (r *Reader) Close() error {
	return r.zipReader.Close()
}

// OPFPath returns the archive-relative path to the package document
func (r *Reader) OPFPath() string {
	return r.opfPath
}

// Files returns a map of all files in the EPUB
func (r *Reader) Files() map[string]*zip.File {
	return r.files
}

// ReadFile reads the contents of a file from the EPUB
func (r *Reader) ReadFile(path string) ([]byte, error) {
	path = normalizePath(path)
	f, ok := r.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// validateMimetype checks the mimetype entry when one is present
func (r *Reader) validateMimetype() error {
	if _, ok := r.files["mimetype"]; !ok {
		r.logger.Warn("EPUB missing mimetype entry, continuing anyway")
		return nil
	}

	content, err := r.ReadFile("mimetype")
	if err != nil {
		return fmt.Errorf("failed to read mimetype: %w", err)
	}

	if got := strings.TrimSpace(string(content)); got != epubMimetype {
		return fmt.Errorf("%w: mimetype is %q, want %q", ErrInvalidArchive, got, epubMimetype)
	}

	return nil
}

// parseContainer parses container.xml to extract the package document path
func (r *Reader) parseContainer() error {
	content, err := r.ReadFile("META-INF/container.xml")
	if err != nil {
		return ErrMissingContainer
	}

	var c container
	if err := xml.Unmarshal(content, &c); err != nil {
		return fmt.Errorf("failed to parse container.xml: %w", err)
	}

	// Prefer the rootfile declared as a package document
	for _, rf := range c.Rootfiles.Rootfile {
		if rf.MediaType == "application/oebps-package+xml" || rf.MediaType == "" {
			r.opfPath = normalizePath(rf.FullPath)
			return nil
		}
	}

	// If no media-type match, use the first one
	if len(c.Rootfiles.Rootfile) > 0 {
		r.opfPath = normalizePath(c.Rootfiles.Rootfile[0].FullPath)
		return nil
	}

	return fmt.Errorf("%w: container.xml declares no rootfile", ErrMissingPackageDocument)
}

// normalizePath normalizes file paths (removes ./ prefix)
func normalizePath(path string) string {
	return strings.TrimPrefix(path, "./")
}
