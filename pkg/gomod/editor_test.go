package gomod

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/depbump/depbump/pkg/config"
)

func TestModfileEditor(t *testing.T) {
	dir := t.TempDir()
	gomod := "module example.com/svc\n\ngo 1.22\n\nrequire (\n" +
		"\texample.com/dep v1.0.0\n" +
		"\texample.com/other v0.5.0 // indirect\n" +
		")\n"
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o644); err != nil {
		t.Fatal(err)
	}

	inv := ModfileEditor()
	var out updateFileResult
	err := inv.Invoke(context.Background(), "updateDependencyFile", updateFileArgs{
		Dir: dir,
		Dependencies: []config.Dependency{
			{Name: "example.com/dep", Version: "v1.1.0"},
			{Name: "example.com/other", Version: "v0.6.0", Indirect: true},
		},
	}, &out)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}

	if !strings.Contains(out.Manifest, "example.com/dep v1.1.0") {
		t.Errorf("direct requirement not bumped:\n%s", out.Manifest)
	}
	if !strings.Contains(out.Manifest, "example.com/other v0.6.0 // indirect") {
		t.Errorf("indirect requirement lost its marker:\n%s", out.Manifest)
	}
}

func TestModfileEditorUnknownFunction(t *testing.T) {
	inv := ModfileEditor()
	if err := inv.Invoke(context.Background(), "nope", nil, nil); err == nil {
		t.Fatal("unknown function should be rejected")
	}
}
