package epub

// OPF represents the parsed Open Package Format document
type OPF struct {
	Metadata Metadata
	Manifest map[string]ManifestItem // id -> item
	Spine    []SpineRef
}

// Metadata represents the metadata section of the OPF
type Metadata struct {
	Title   string
	Creator string
}

// ManifestItem represents an item in the manifest
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties []string
}

// HasProperty reports whether the item's properties attribute contains the
// given token. Properties are space-separated tokens; matching is by exact
// token, never by substring.
func (m ManifestItem) HasProperty(token string) bool {
	for _, p := range m.Properties {
		if p == token {
			return true
		}
	}
	return false
}

// SpineRef represents an item reference in the spine
type SpineRef struct {
	IDRef  string
	Linear bool
}

// SpineItem is one content document in reading order, resolved to a path on
// disk inside the extracted archive.
type SpineItem struct {
	ID   string
	Path string
}
