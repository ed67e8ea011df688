package gomod

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/depbump/depbump/pkg/workdir"
)

// substitution is one replace directive whose filesystem target must be
// hidden from the resolver.
type substitution struct {
	modulePath string // module being redirected (replace left-hand side)
	origPath   string // original filesystem target
	token      string // opaque relative replacement
}

// Substitutions maps filesystem-dependent replace targets to deterministic
// opaque tokens for the duration of one run. It is built once from the
// original manifest; Apply rewrites paths to tokens before the resolver
// runs, Restore applies the exact inverse afterward.
type Substitutions struct {
	subs []substitution
}

// PlanSubstitutions inspects the parsed manifest's replace directives and
// selects every directory target the resolver cannot be allowed to see: an
// absolute path, or a relative path resolving outside repoRoot. Targets that
// fail to resolve at all are substituted too; hiding a path we cannot vouch
// for is the safe direction. dir is the directory containing the manifest.
func PlanSubstitutions(f *modfile.File, dir, repoRoot string) *Substitutions {
	s := &Substitutions{}
	for _, r := range f.Replace {
		p := r.New.Path
		// Module replacements carry a version; only directory targets are
		// filesystem-dependent.
		if r.New.Version != "" || !isLocalPath(p) {
			continue
		}
		if !needsSubstitution(p, dir, repoRoot) {
			continue
		}
		s.subs = append(s.subs, substitution{
			modulePath: r.Old.Path,
			origPath:   p,
			token:      "./" + hashPath(p),
		})
	}
	return s
}

// isLocalPath reports whether p is a filesystem path rather than a module
// path: absolute, or ./ or ../ prefixed.
func isLocalPath(p string) bool {
	return filepath.IsAbs(p) || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../")
}

// needsSubstitution reports whether the target at p, relative to dir, falls
// outside repoRoot. Unresolvable targets count as outside.
func needsSubstitution(p, dir, repoRoot string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	resolved, err := filepath.EvalSymlinks(filepath.Join(dir, p))
	if err != nil {
		return true
	}
	root, err := filepath.EvalSymlinks(repoRoot)
	if err != nil {
		return true
	}
	rel, err := filepath.Rel(root, resolved)
	if err != nil {
		return true
	}
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// hashPath derives the deterministic single-segment token name for a path.
func hashPath(p string) string {
	sum := sha256.Sum256([]byte(p))
	return hex.EncodeToString(sum[:])
}

// Empty reports whether no substitution is needed.
func (s *Substitutions) Empty() bool { return len(s.subs) == 0 }

// Map returns the original-path to token mapping.
func (s *Substitutions) Map() map[string]string {
	m := make(map[string]string, len(s.subs))
	for _, sub := range s.subs {
		m[sub.origPath] = sub.token
	}
	return m
}

// Apply rewrites every occurrence of each original path in body to its token.
func (s *Substitutions) Apply(body string) string {
	for _, sub := range s.subs {
		body = strings.ReplaceAll(body, sub.origPath, sub.token)
	}
	return body
}

// Restore applies the exact inverse of Apply, replacing the first occurrence
// of each token with its original path. Tokens are 64-char sha256 hex names,
// so collisions with unrelated manifest text are not credible; no explicit
// uniqueness check is performed.
func (s *Substitutions) Restore(body string) string {
	for _, sub := range s.subs {
		body = strings.Replace(body, sub.token, sub.origPath, 1)
	}
	return body
}

// Materialize writes an empty placeholder module at each token location so
// the resolver can resolve the directory replacement without reaching the
// real (inaccessible) target. The stubs are left behind; the working tree is
// ephemeral.
func (s *Substitutions) Materialize(tree *workdir.Tree) error {
	for _, sub := range s.subs {
		dir := strings.TrimPrefix(sub.token, "./")
		if err := tree.EnsureDir(dir); err != nil {
			return fmt.Errorf("creating stub module for %s: %w", sub.modulePath, err)
		}
		gomod := fmt.Sprintf("module %s\n", sub.modulePath)
		if err := tree.WriteFile([]byte(gomod), 0o644, dir, manifestName); err != nil {
			return fmt.Errorf("writing stub go.mod for %s: %w", sub.modulePath, err)
		}
		if err := tree.WriteFile([]byte("package stub\n"), 0o644, dir, "stub.go"); err != nil {
			return fmt.Errorf("writing stub source for %s: %w", sub.modulePath, err)
		}
	}
	return nil
}
