package epub

import (
	"log/slog"
	"strings"
)

// FindCover locates the cover image in the manifest. EPUB3 marks it with the
// "cover-image" property; older books often just name the item "cover".
func (opf *OPF) FindCover() (ManifestItem, bool) {
	for _, item := range opf.Manifest {
		if item.HasProperty("cover-image") {
			return item, true
		}
	}
	for _, id := range []string{"cover-image", "cover"} {
		if item, ok := opf.Manifest[id]; ok && strings.HasPrefix(item.MediaType, "image/") {
			return item, true
		}
	}
	return ManifestItem{}, false
}

// ExtractCover reads the cover image bytes straight out of the archive
// without unpacking it. Returns ok=false when the book has no cover.
func ExtractCover(path string, logger *slog.Logger) ([]byte, bool, error) {
	reader, err := Open(path, logger)
	if err != nil {
		return nil, false, err
	}
	defer reader.Close()

	opfData, err := reader.ReadFile(reader.OPFPath())
	if err != nil {
		return nil, false, err
	}

	opf, err := ParseOPF(opfData, dirOf(reader.OPFPath()))
	if err != nil {
		return nil, false, err
	}

	item, ok := opf.FindCover()
	if !ok {
		return nil, false, nil
	}

	data, err := reader.ReadFile(item.Href)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func dirOf(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i]
	}
	return ""
}
