package gomod

import (
	"errors"
	"strings"
	"testing"
)

func TestParseManifest(t *testing.T) {
	t.Run("well-formed manifest", func(t *testing.T) {
		f, err := ParseManifest("go.mod", []byte("module example.com/svc\n\ngo 1.22\n"))
		if err != nil {
			t.Fatalf("ParseManifest: %v", err)
		}
		if f.Module.Mod.Path != "example.com/svc" {
			t.Errorf("module path = %q, want %q", f.Module.Mod.Path, "example.com/svc")
		}
	})

	t.Run("unknown directive falls back to the lax parser", func(t *testing.T) {
		data := []byte("module example.com/svc\n\ngo 1.22\n\nfrobnicate on\n")
		f, err := ParseManifest("go.mod", data)
		if err != nil {
			t.Fatalf("ParseManifest: %v", err)
		}
		if f.Module.Mod.Path != "example.com/svc" {
			t.Errorf("module path = %q, want %q", f.Module.Mod.Path, "example.com/svc")
		}
	})

	t.Run("unparseable by both strategies", func(t *testing.T) {
		data := []byte("module \"unclosed\n(((\n")
		_, err := ParseManifest("go.mod", data)

		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("ParseManifest = %T (%v), want *ParseError", err, err)
		}
		if parseErr.Path != "go.mod" {
			t.Errorf("Path = %q, want %q", parseErr.Path, "go.mod")
		}
		// Both parsers' diagnostics are concatenated for the operator.
		if strings.Count(parseErr.Diagnostics, "go.mod:") < 2 {
			t.Errorf("Diagnostics should carry both parser outputs:\n%s", parseErr.Diagnostics)
		}
	})
}
