package epub

import (
	"encoding/xml"
	"fmt"
	"path"
	"strings"
)

// opfPackage represents the OPF XML structure
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Version  string      `xml:"version,attr"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

// opfMetadata represents the metadata section
type opfMetadata struct {
	Title   []string `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator []string `xml:"http://purl.org/dc/elements/1.1/ creator"`
}

// opfManifest represents the manifest section
type opfManifest struct {
	Items []opfManifestItem `xml:"item"`
}

// opfManifestItem represents an item in the manifest
type opfManifestItem struct {
	ID         string `xml:"id,attr"`
	Href       string `xml:"href,attr"`
	MediaType  string `xml:"media-type,attr"`
	Properties string `xml:"properties,attr"`
}

// opfSpine represents the spine section
type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

// opfItemRef represents an itemref in the spine
type opfItemRef struct {
	IDRef  string `xml:"idref,attr"`
	Linear string `xml:"linear,attr"`
}

// ParseOPF parses a package document and returns the OPF structure.
// opfDir is the archive-relative directory containing the OPF file
// (e.g., "OEBPS"); manifest hrefs are resolved against it.
func ParseOPF(content []byte, opfDir string) (*OPF, error) {
	var pkg opfPackage
	if err := xml.Unmarshal(content, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse OPF XML: %w", err)
	}

	opf := &OPF{
		Manifest: make(map[string]ManifestItem),
	}

	// Metadata: first title and creator win, both optional
	if len(pkg.Metadata.Title) > 0 {
		opf.Metadata.Title = strings.TrimSpace(pkg.Metadata.Title[0])
	}
	if len(pkg.Metadata.Creator) > 0 {
		opf.Metadata.Creator = strings.TrimSpace(pkg.Metadata.Creator[0])
	}

	for _, item := range pkg.Manifest.Items {
		manifestItem := ManifestItem{
			ID:        item.ID,
			Href:      joinPath(opfDir, item.Href),
			MediaType: item.MediaType,
		}

		// Properties are space-separated tokens
		if item.Properties != "" {
			manifestItem.Properties = strings.Fields(item.Properties)
		}

		opf.Manifest[item.ID] = manifestItem
	}

	for _, itemRef := range pkg.Spine.ItemRefs {
		opf.Spine = append(opf.Spine, SpineRef{
			IDRef:  itemRef.IDRef,
			Linear: itemRef.Linear != "no",
		})
	}

	return opf, nil
}

// FindNav locates the manifest item carrying the "nav" property, which marks
// the EPUB3 navigation document. Returns false when no item is marked.
func (opf *OPF) FindNav() (ManifestItem, bool) {
	for _, item := range opf.Manifest {
		if item.HasProperty("nav") {
			return item, true
		}
	}
	return ManifestItem{}, false
}

// isContentDocument checks if a media type indicates an HTML/XHTML content file
func isContentDocument(mediaType string) bool {
	return strings.Contains(mediaType, "html")
}

// joinPath joins the OPF directory with an archive-relative href
func joinPath(base, rel string) string {
	if base == "" || base == "." {
		return rel
	}
	return path.Join(base, rel)
}
