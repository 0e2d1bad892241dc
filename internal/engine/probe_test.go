package engine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// placeExecutable drops an executable file with the given name into dir.
func placeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("failed to create fake executable: %v", err)
	}
	return path
}

func TestFindExecutable_Override(t *testing.T) {
	dir := t.TempDir()
	exe := placeExecutable(t, dir, "some-engine")

	if got := findExecutable(exe, nil, nil); got != exe {
		t.Errorf("findExecutable with override = %q, want %q", got, exe)
	}

	// A configured override that does not exist must not fall through to
	// PATH discovery.
	if got := findExecutable(filepath.Join(dir, "missing"), []string{"sh"}, nil); got != "" {
		t.Errorf("findExecutable with dead override = %q, want empty", got)
	}
}

func TestFindExecutable_SearchPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH fixture is unix-only")
	}

	dir := t.TempDir()
	exe := placeExecutable(t, dir, "fake-prince")
	t.Setenv("PATH", dir)

	if got := findExecutable("", []string{"fake-prince"}, nil); got != exe {
		t.Errorf("findExecutable via PATH = %q, want %q", got, exe)
	}
	if got := findExecutable("", []string{"no-such-engine"}, nil); got != "" {
		t.Errorf("findExecutable for absent binary = %q, want empty", got)
	}
}

func TestFindExecutable_Aliases(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH fixture is unix-only")
	}

	dir := t.TempDir()
	exe := placeExecutable(t, dir, "prince-books")
	t.Setenv("PATH", dir)

	// The second canonical name resolves when the first is absent.
	if got := findExecutable("", []string{"prince", "prince-books"}, nil); got != exe {
		t.Errorf("findExecutable alias = %q, want %q", got, exe)
	}
}

func TestFindExecutable_WellKnownDirs(t *testing.T) {
	dir := t.TempDir()
	exe := placeExecutable(t, dir, "ebook-convert")
	t.Setenv("PATH", t.TempDir()) // empty PATH dir, force well-known fallback

	got := findExecutable("", []string{"ebook-convert"}, []string{
		filepath.Join(dir, "nope"),
		exe,
	})
	if got != exe {
		t.Errorf("findExecutable via well-known dirs = %q, want %q", got, exe)
	}
}
