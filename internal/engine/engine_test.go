package engine

import (
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testOptions() Options {
	return Options{Logger: discardLogger()}
}

func TestParseMethod(t *testing.T) {
	for _, name := range []string{"prince", "vivliostyle", "calibre", "pandoc", "mupdf", "auto"} {
		m, err := ParseMethod(name)
		if err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", name, err)
		}
		if string(m) != name {
			t.Errorf("ParseMethod(%q) = %q", name, m)
		}
	}

	if _, err := ParseMethod("kindlegen"); err == nil {
		t.Error("ParseMethod should reject an unknown method")
	}
	if _, err := ParseMethod(""); err == nil {
		t.Error("ParseMethod should reject an empty method")
	}
}

func TestTable_PreferenceOrder(t *testing.T) {
	want := []Method{Prince, Vivliostyle, Calibre, Pandoc, MuPDF}

	table := Table(testOptions())
	if len(table) != len(want) {
		t.Fatalf("table size = %d, want %d", len(table), len(want))
	}
	for i, m := range want {
		if table[i].Method() != m {
			t.Errorf("table[%d] = %s, want %s", i, table[i].Method(), m)
		}
	}
}

func TestMuPDFAlwaysAvailable(t *testing.T) {
	// The library engine is linked in; its table row must always resolve.
	for _, e := range Table(testOptions()) {
		if e.Method() == MuPDF {
			if !e.Available() {
				t.Error("mupdf engine reports unavailable")
			}
			return
		}
	}
	t.Error("table has no mupdf row")
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{Method: Prince, Kind: KindTimeout, Detail: "conversion timed out (>15m0s)"}
	got := err.Error()
	if got != "prince: timeout: conversion timed out (>15m0s)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestAsError(t *testing.T) {
	inner := &Error{Method: Calibre, Kind: KindFailure, Detail: "boom"}

	if ee, ok := AsError(inner); !ok || ee.Method != Calibre {
		t.Errorf("AsError on direct error: ok=%v", ok)
	}
	if _, ok := AsError(io.EOF); ok {
		t.Error("AsError should not match an unrelated error")
	}
}

func TestFailureKindString(t *testing.T) {
	cases := map[FailureKind]string{
		KindUnavailable: "unavailable",
		KindTimeout:     "timeout",
		KindFailure:     "failure",
		KindEmptyOutput: "empty output",
		KindCSSCompat:   "css compatibility",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
