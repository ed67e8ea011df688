package gomod

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/depbump/depbump/pkg/config"
	"github.com/depbump/depbump/pkg/helper"
)

// updateFileArgs is the payload for the updateDependencyFile helper function.
type updateFileArgs struct {
	Dir          string              `json:"dir"`
	Dependencies []config.Dependency `json:"dependencies"`
}

// updateFileResult is the helper's response: the rewritten manifest text.
type updateFileResult struct {
	Manifest string `json:"manifest"`
}

// ModfileEditor is the in-process implementation of the structured manifest
// edit boundary, used when no native helper binary is configured. It applies
// version and indirect-flag changes through the modfile syntax tree rather
// than hand-rolled text edits, exactly as the helper function would.
func ModfileEditor() helper.Invoker {
	return helper.Func(func(_ context.Context, function string, args json.RawMessage) (any, error) {
		if function != "updateDependencyFile" {
			return nil, fmt.Errorf("unknown helper function %q", function)
		}
		var in updateFileArgs
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("decoding updateDependencyFile args: %w", err)
		}

		path := filepath.Join(in.Dir, manifestName)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		f, err := ParseManifest(manifestName, data)
		if err != nil {
			return nil, err
		}

		for _, d := range in.Dependencies {
			if err := f.AddRequire(d.Name, d.Version); err != nil {
				return nil, fmt.Errorf("requiring %s@%s: %w", d.Name, d.Version, err)
			}
		}

		// Indirect markers live in require comments; SetRequire rewrites
		// them from the Indirect fields.
		indirect := make(map[string]bool, len(in.Dependencies))
		for _, d := range in.Dependencies {
			indirect[d.Name] = d.Indirect
		}
		for _, r := range f.Require {
			if ind, ok := indirect[r.Mod.Path]; ok {
				r.Indirect = ind
			}
		}
		f.SetRequire(f.Require)
		f.Cleanup()

		out, err := f.Format()
		if err != nil {
			return nil, fmt.Errorf("formatting %s: %w", manifestName, err)
		}
		return updateFileResult{Manifest: string(out)}, nil
	})
}
