package epub

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// TOCEntry is one entry of the navigation document's table of contents.
// Level counts nesting depth starting at 1.
type TOCEntry struct {
	Title string
	Href  string
	Level int
}

// ParseNav extracts the table-of-contents outline from an EPUB3 navigation
// document. Landmarks and page-list nav elements are ignored; only the nav
// marked epub:type="toc" contributes entries. A document without a toc nav
// yields an empty outline, not an error.
func ParseNav(r io.Reader) ([]TOCEntry, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse navigation document: %w", err)
	}

	var toc *goquery.Selection
	doc.Find("nav").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if navType(s) == "toc" {
			toc = s
			return false
		}
		return true
	})
	if toc == nil {
		return nil, nil
	}

	var entries []TOCEntry
	toc.ChildrenFiltered("ol, ul").Each(func(i int, list *goquery.Selection) {
		entries = append(entries, walkNavList(list, 1)...)
	})
	return entries, nil
}

// walkNavList collects anchors from one ol/ul level, recursing into nested
// lists one level deeper.
func walkNavList(list *goquery.Selection, level int) []TOCEntry {
	var entries []TOCEntry
	list.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
		if a := li.ChildrenFiltered("a").First(); a.Length() > 0 {
			href, _ := a.Attr("href")
			title := strings.TrimSpace(a.Text())
			if title != "" || href != "" {
				entries = append(entries, TOCEntry{
					Title: title,
					Href:  href,
					Level: level,
				})
			}
		}
		li.ChildrenFiltered("ol, ul").Each(func(i int, nested *goquery.Selection) {
			entries = append(entries, walkNavList(nested, level+1)...)
		})
	})
	return entries
}

// navType reads the epub:type attribute of a nav element. The attribute may
// hold several space-separated tokens; "toc" wins over anything else.
func navType(s *goquery.Selection) string {
	raw, ok := s.Attr("epub:type")
	if !ok {
		return ""
	}
	for _, token := range strings.Fields(raw) {
		if token == "toc" || token == "landmarks" || token == "page-list" {
			return token
		}
	}
	return ""
}
