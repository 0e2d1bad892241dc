package epub

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Structure is the result of unpacking an EPUB and resolving its reading
// order. Paths are absolute and point into a private scratch directory that
// lives until Close is called.
type Structure struct {
	ScratchDir  string
	PackagePath string // package document (OPF) on disk
	PackageDir  string
	Spine       []SpineItem // content documents in reading order
	NavPath     string      // navigation document, "" when the manifest marks none
	Title       string
	Author      string
}

// ReadStructure opens the archive at path, extracts it to a scratch
// directory, and resolves the package document, spine order, navigation
// document, and title/author metadata. The caller must Close the returned
// Structure to reclaim the scratch directory; on error nothing is left
// behind.
func ReadStructure(path string, logger *slog.Logger) (*Structure, error) {
	if logger == nil {
		logger = slog.Default()
	}

	reader, err := Open(path, logger)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	scratch, err := os.MkdirTemp("", "epub-to-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	st, err := readStructure(reader, scratch, logger)
	if err != nil {
		os.RemoveAll(scratch)
		return nil, err
	}
	return st, nil
}

// Close removes the scratch directory and everything extracted into it.
func (s *Structure) Close() error {
	if s.ScratchDir == "" {
		return nil
	}
	err := os.RemoveAll(s.ScratchDir)
	s.ScratchDir = ""
	return err
}

func readStructure(reader *Reader, scratch string, logger *slog.Logger) (*Structure, error) {
	if err := extractAll(reader, scratch); err != nil {
		return nil, err
	}

	opfRel := reader.OPFPath()
	packagePath := filepath.Join(scratch, filepath.FromSlash(opfRel))
	if _, err := os.Stat(packagePath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPackageDocument, opfRel)
	}

	opfData, err := reader.ReadFile(opfRel)
	if err != nil {
		return nil, fmt.Errorf("failed to read package document: %w", err)
	}

	opfDir := filepath.ToSlash(filepath.Dir(opfRel))
	opf, err := ParseOPF(opfData, opfDir)
	if err != nil {
		return nil, err
	}

	st := &Structure{
		ScratchDir:  scratch,
		PackagePath: packagePath,
		PackageDir:  filepath.Dir(packagePath),
		Title:       opf.Metadata.Title,
		Author:      opf.Metadata.Creator,
	}

	// Resolve the spine to extracted files, keeping only textual content
	// documents. Order follows the spine element, not the manifest.
	for _, ref := range opf.Spine {
		item, ok := opf.Manifest[ref.IDRef]
		if !ok {
			logger.Warn("spine item not found in manifest, skipping", "idref", ref.IDRef)
			continue
		}
		if !isContentDocument(item.MediaType) {
			continue
		}
		st.Spine = append(st.Spine, SpineItem{
			ID:   item.ID,
			Path: filepath.Join(scratch, filepath.FromSlash(item.Href)),
		})
	}

	if len(st.Spine) == 0 {
		return nil, ErrEmptySpine
	}

	if nav, ok := opf.FindNav(); ok {
		st.NavPath = filepath.Join(scratch, filepath.FromSlash(nav.Href))
	} else {
		logger.Warn("no navigation document found, output will have no bookmarks")
	}

	if st.Title == "" {
		logger.Warn("EPUB metadata has no title")
	}

	return st, nil
}

// extractAll unpacks every archive entry below dst, refusing entries whose
// normalized path would escape it.
func extractAll(reader *Reader, dst string) error {
	for name, f := range reader.Files() {
		if f.FileInfo().IsDir() {
			continue
		}

		target := filepath.Join(dst, filepath.FromSlash(name))
		if !strings.HasPrefix(target, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fmt.Errorf("%w: entry %q escapes archive root", ErrInvalidArchive, name)
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", name, err)
		}

		if err := extractFile(f.Open, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", name, err)
		}
	}
	return nil
}

func extractFile(open func() (io.ReadCloser, error), target string) error {
	rc, err := open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
