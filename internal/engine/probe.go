package engine

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// findExecutable resolves an engine binary: an explicit override wins, then
// each candidate name on the command search path (platform aliases included),
// then a short list of well-known installation directories. Returns "" when
// nothing resolves.
func findExecutable(override string, names []string, wellKnown []string) string {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
		return ""
	}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	for _, path := range wellKnown {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func locatePrince(override string) string {
	var wellKnown []string
	if runtime.GOOS == "windows" {
		wellKnown = []string{
			`C:\Program Files\Prince\engine\bin\prince.exe`,
			`C:\Program Files (x86)\Prince\engine\bin\prince.exe`,
		}
	}
	return findExecutable(override, []string{"prince", "prince-books"}, wellKnown)
}

func locateVivliostyle(override string) string {
	// npm installs a .cmd shim on Windows; the bare name only resolves
	// elsewhere.
	names := []string{"vivliostyle"}
	if runtime.GOOS == "windows" {
		names = []string{"vivliostyle.cmd", "vivliostyle"}
	}
	return findExecutable(override, names, nil)
}

func locateCalibre(override string) string {
	var wellKnown []string
	switch runtime.GOOS {
	case "windows":
		wellKnown = []string{
			`C:\Program Files\Calibre2\ebook-convert.exe`,
			`C:\Program Files (x86)\Calibre2\ebook-convert.exe`,
		}
	case "darwin":
		wellKnown = []string{
			"/Applications/calibre.app/Contents/MacOS/ebook-convert",
		}
	}
	return findExecutable(override, []string{"ebook-convert"}, wellKnown)
}

func locatePandoc(override string) string {
	var wellKnown []string
	if runtime.GOOS == "windows" {
		wellKnown = []string{
			`C:\Program Files\Pandoc\pandoc.exe`,
			filepath.Join(os.Getenv("LOCALAPPDATA"), "Pandoc", "pandoc.exe"),
		}
	}
	return findExecutable(override, []string{"pandoc"}, wellKnown)
}
