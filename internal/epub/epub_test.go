package epub

import (
	"archive/zip"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// entry is one file to place in a test archive.
type entry struct {
	name    string
	content string
	stored  bool
}

// writeEPUB builds a zip archive from the given entries.
func writeEPUB(t *testing.T, dir, name string, entries []entry) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test epub: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	for _, e := range entries {
		method := zip.Deflate
		if e.stored {
			method = zip.Store
		}
		fw, err := w.CreateHeader(&zip.FileHeader{Name: e.name, Method: method})
		if err != nil {
			t.Fatalf("failed to create %s: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("failed to write %s: %v", e.name, err)
		}
	}

	return path
}

const testContainerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Sample</dc:title>
    <dc:creator>Jane Writer</dc:creator>
  </metadata>
  <manifest>
    <item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>
    <item id="ch3" href="text/ch3.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch1" href="text/ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="text/ch2.xhtml" media-type="application/xhtml+xml"/>
    <item id="css" href="style.css" media-type="text/css"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
    <itemref idref="ch3"/>
  </spine>
</package>`

const testChapter = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>Chapter</title></head>
<body><p>Text.</p></body>
</html>`

const testNav = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<body>
<nav epub:type="toc">
  <ol>
    <li><a href="text/ch1.xhtml">One</a></li>
    <li><a href="text/ch2.xhtml">Two</a>
      <ol><li><a href="text/ch2.xhtml#s1">Two point one</a></li></ol>
    </li>
    <li><a href="text/ch3.xhtml">Three</a></li>
  </ol>
</nav>
<nav epub:type="landmarks">
  <ol><li><a epub:type="bodymatter" href="text/ch1.xhtml">Start</a></li></ol>
</nav>
</body>
</html>`

// validEntries returns a complete three-chapter EPUB.
func validEntries() []entry {
	return []entry{
		{name: "mimetype", content: "application/epub+zip", stored: true},
		{name: "META-INF/container.xml", content: testContainerXML},
		{name: "OEBPS/content.opf", content: testOPF},
		{name: "OEBPS/nav.xhtml", content: testNav},
		{name: "OEBPS/text/ch1.xhtml", content: testChapter},
		{name: "OEBPS/text/ch2.xhtml", content: testChapter},
		{name: "OEBPS/text/ch3.xhtml", content: testChapter},
		{name: "OEBPS/style.css", content: "p { margin: 0; }"},
	}
}

func createTestEPUB(t *testing.T, dir string) string {
	t.Helper()
	return writeEPUB(t, dir, "book.epub", validEntries())
}
