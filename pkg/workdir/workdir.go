// Package workdir provides scoped access to the ephemeral working tree a
// pipeline run owns exclusively. The tree is assumed to be a checked-out
// repository directory prepared by the caller; nothing here survives the run.
package workdir

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/depbump/depbump/pkg/config"
	"github.com/depbump/depbump/pkg/shell"
)

const dirPerm = 0o755

// Tree is a working directory addressed by path segments under its root.
type Tree struct {
	root string
}

func New(root string) *Tree {
	return &Tree{root: root}
}

// Root returns the absolute root of the tree.
func (t *Tree) Root() string { return t.root }

// Path returns the filesystem path for the given segments joined under the
// tree root. Does not create or verify the path.
func (t *Tree) Path(segments ...string) string {
	return filepath.Join(append([]string{t.root}, segments...)...)
}

// Exists reports whether the path at the given segments exists.
func (t *Tree) Exists(segments ...string) (bool, error) {
	_, err := os.Stat(t.Path(segments...))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// EnsureDir creates the directory at segments, including parents.
func (t *Tree) EnsureDir(segments ...string) error {
	return os.MkdirAll(t.Path(segments...), dirPerm)
}

// Remove deletes the entire subtree at segments.
func (t *Tree) Remove(segments ...string) {
	os.RemoveAll(t.Path(segments...))
}

// ReadFile reads the file at segments.
func (t *Tree) ReadFile(segments ...string) ([]byte, error) {
	return os.ReadFile(t.Path(segments...))
}

// WriteFile writes data to the file at segments. Parent directories must
// already exist.
func (t *Tree) WriteFile(data []byte, perm os.FileMode, segments ...string) error {
	return os.WriteFile(t.Path(segments...), data, perm)
}

// SetupGit installs per-host insteadOf rewrites so git reaches authenticated
// hosts without prompting. Credentials without a host are skipped.
func SetupGit(ctx context.Context, r shell.Runner, creds []config.Credential) error {
	for _, c := range creds {
		if c.Host == "" {
			continue
		}
		authed := fmt.Sprintf("https://%s@%s/", c.BasicAuth(), c.Host)
		plain := fmt.Sprintf("https://%s/", c.Host)
		res, err := r.Run(ctx, shell.Cmd{
			Name: "git",
			Args: []string{"config", "--global", fmt.Sprintf("url.%s.insteadOf", authed), plain},
		})
		if err != nil {
			return fmt.Errorf("configuring git for %s: %w", c.Host, err)
		}
		if !res.Success() {
			return fmt.Errorf("configuring git for %s: %s", c.Host, res.Stderr)
		}
	}
	return nil
}
