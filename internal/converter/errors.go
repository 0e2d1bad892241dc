package converter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattiaTagliente/epub-to-pdf/internal/engine"
)

var (
	ErrSourceNotFound = errors.New("EPUB file not found")
	ErrNotAnEpub      = errors.New("file is not an EPUB")
)

// NoEnginesError means automatic mode found zero usable engines. Distinct
// from a conversion failure: nothing was attempted, something must be
// installed first.
type NoEnginesError struct{}

func (e *NoEnginesError) Error() string {
	return "no conversion tools available. Please install:\n" +
		"- Prince XML: https://www.princexml.com/\n" +
		"- Vivliostyle CLI: npm install -g @vivliostyle/cli\n" +
		"- calibre: https://calibre-ebook.com/download\n" +
		"- pandoc: https://pandoc.org/installing.html"
}

// Attempt records one engine's failure during automatic fallback.
type Attempt struct {
	Method engine.Method
	Err    error
}

// AllFailedError means automatic mode exhausted every available engine. The
// message concatenates each engine's failure reason in attempt order.
type AllFailedError struct {
	Attempts []Attempt
}

func (e *AllFailedError) Error() string {
	lines := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		lines = append(lines, fmt.Sprintf("%s: %v", a.Method, a.Err))
	}
	return "all conversion methods failed:\n" + strings.Join(lines, "\n")
}
