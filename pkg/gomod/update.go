// Package gomod updates go.mod/go.sum by driving the go tool and reconciling
// its output against the original manifest. Local replace targets the
// resolver cannot reach are stubbed out for the duration of the run and
// restored afterward; failures are classified into typed errors.
package gomod

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/depbump/depbump/pkg/config"
	"github.com/depbump/depbump/pkg/helper"
	"github.com/depbump/depbump/pkg/shell"
	"github.com/depbump/depbump/pkg/workdir"
)

// Result carries the reconciled manifest and lockfile text after a run.
type Result struct {
	GoMod  string
	GoSum  string
	HasSum bool
}

// Updater runs the patch-and-reconcile pipeline against one working tree.
// The tree is exclusively owned by this run; concurrent runs need distinct
// trees.
type Updater struct {
	Tree     *workdir.Tree // working tree containing go.mod
	RepoRoot string        // repository checkout root bounding local replacements

	Runner shell.Runner

	// Helper applies structured version edits. When nil, ModfileEditor is
	// used in-process.
	Helper helper.Invoker

	Credentials []config.Credential

	// Tidy runs go mod tidy after resolving (best-effort). Vendor runs
	// go mod vendor (failures surface through classification). Both are
	// skipped when any path substitution occurred, because stub modules
	// leave the dependency graph incomplete.
	Tidy   bool
	Vendor bool

	Log *log.Logger
}

// goEnv returns the fixed environment overrides for every go invocation:
// proxy indirection is disabled so private modules resolve through git
// directly, and edits to go.mod are permitted.
func goEnv() map[string]string {
	return map[string]string{
		"GOPRIVATE": "*",
		"GOFLAGS":   "-mod=mod",
	}
}

// Update applies the requested dependency changes and returns the reconciled
// manifest and lockfile. The original files in the tree are overwritten with
// the final text. There is no retry: the first classified failure aborts.
func (u *Updater) Update(ctx context.Context, deps []config.Dependency) (*Result, error) {
	logger := u.Log
	if logger == nil {
		logger = log.New(io.Discard)
	}

	// Capture.
	origMod, err := u.Tree.ReadFile(manifestName)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestName, err)
	}
	parsed, err := ParseManifest(manifestName, origMod)
	if err != nil {
		return nil, err
	}

	// Plan substitutions and materialize stubs.
	repoRoot := u.RepoRoot
	if repoRoot == "" {
		repoRoot = u.Tree.Root()
	}
	subs := PlanSubstitutions(parsed, u.Tree.Root(), repoRoot)
	if err := subs.Materialize(u.Tree); err != nil {
		return nil, err
	}
	if !subs.Empty() {
		logger.Debug("substituted local replace targets", "count", len(subs.subs))
	}

	// Pre-substitute.
	body := subs.Apply(string(origMod))
	if err := u.Tree.WriteFile([]byte(body), 0o644, manifestName); err != nil {
		return nil, fmt.Errorf("writing %s: %w", manifestName, err)
	}

	// Apply requested version changes through the helper boundary.
	if err := u.applyRequests(ctx, deps); err != nil {
		return nil, err
	}

	// Resolve.
	if err := u.goGet(ctx, deps); err != nil {
		return nil, err
	}

	if subs.Empty() {
		if u.Tidy {
			u.tidy(ctx, logger)
		}
		if u.Vendor {
			if err := u.vendor(ctx); err != nil {
				return nil, err
			}
		}
	} else {
		// The stub directories are not the real dependency trees, so any
		// whole-graph step would produce garbage. Reverse the substitution
		// instead.
		data, err := u.Tree.ReadFile(manifestName)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", manifestName, err)
		}
		if err := u.Tree.WriteFile([]byte(subs.Restore(string(data))), 0o644, manifestName); err != nil {
			return nil, fmt.Errorf("writing %s: %w", manifestName, err)
		}
	}

	// Capture result.
	newMod, err := u.Tree.ReadFile(manifestName)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", manifestName, err)
	}

	// Incidental-change suppression: the resolver likes to bump the go
	// directive as a side effect.
	final := restoreGoDirective(string(origMod), string(newMod))
	if final != string(newMod) {
		if err := u.Tree.WriteFile([]byte(final), 0o644, manifestName); err != nil {
			return nil, fmt.Errorf("writing %s: %w", manifestName, err)
		}
	}

	res := &Result{GoMod: final}
	if sum, err := u.Tree.ReadFile(lockfileName); err == nil {
		res.GoSum = string(sum)
		res.HasSum = true
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", lockfileName, err)
	}
	return res, nil
}

func (u *Updater) applyRequests(ctx context.Context, deps []config.Dependency) error {
	if len(deps) == 0 {
		return nil
	}
	inv := u.Helper
	if inv == nil {
		inv = ModfileEditor()
	}
	args := updateFileArgs{Dir: u.Tree.Root(), Dependencies: deps}
	var out updateFileResult
	if err := inv.Invoke(ctx, "updateDependencyFile", args, &out); err != nil {
		return fmt.Errorf("applying dependency updates: %w", err)
	}
	return u.Tree.WriteFile([]byte(out.Manifest), 0o644, manifestName)
}

// goGet invokes the resolver for the requested versions. The go tool refuses
// to operate on a module with no compilation units, so a throwaway source
// file is synthesized when every .go file in the tree root carries a build
// constraint, and removed again whatever happens.
func (u *Updater) goGet(ctx context.Context, deps []config.Dependency) error {
	cleanup, err := u.ensureCompilationUnit()
	if err != nil {
		return err
	}
	defer cleanup()

	args := []string{"get"}
	for _, d := range deps {
		args = append(args, d.Name+"@"+d.Version)
	}
	res, err := u.run(ctx, args...)
	if err != nil {
		return err
	}
	if !res.Success() {
		return u.classify(res.Stderr)
	}
	return nil
}

// tidy normalizes the dependency graph. It is best-effort: a failure here is
// not the caller's problem and is only logged.
func (u *Updater) tidy(ctx context.Context, logger *log.Logger) {
	res, err := u.run(ctx, "mod", "tidy")
	if err != nil {
		logger.Debug("go mod tidy failed", "err", err)
		return
	}
	if !res.Success() {
		logger.Debug("go mod tidy failed", "stderr", lastLines(res.Stderr, fallbackLineCount))
	}
}

func (u *Updater) vendor(ctx context.Context) error {
	res, err := u.run(ctx, "mod", "vendor")
	if err != nil {
		return err
	}
	if !res.Success() {
		return u.classify(res.Stderr)
	}
	return nil
}

func (u *Updater) run(ctx context.Context, args ...string) (shell.Result, error) {
	return u.Runner.Run(ctx, shell.Cmd{
		Name: "go",
		Args: args,
		Dir:  u.Tree.Root(),
		Env:  goEnv(),
	})
}

func (u *Updater) classify(stderr string) error {
	return Classify(stderr, u.Tree.Root(), u.Credentials)
}

// ensureCompilationUnit checks the tree root for a .go file free of build
// constraints and synthesizes a placeholder when none exists. The returned
// cleanup removes the placeholder (and is a no-op when nothing was written).
func (u *Updater) ensureCompilationUnit() (func(), error) {
	matches, err := filepath.Glob(u.Tree.Path("*.go"))
	if err != nil {
		return nil, fmt.Errorf("scanning for source files: %w", err)
	}
	for _, m := range matches {
		data, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", m, err)
		}
		if !hasBuildConstraint(string(data)) {
			return func() {}, nil
		}
	}

	name := "main.go"
	if ok, err := u.Tree.Exists(name); err != nil {
		return nil, err
	} else if ok {
		name = "depbump_placeholder.go"
	}
	if err := u.Tree.WriteFile([]byte("package main\n"), 0o644, name); err != nil {
		return nil, fmt.Errorf("writing placeholder source file: %w", err)
	}
	return func() { u.Tree.Remove(name) }, nil
}

func hasBuildConstraint(src string) bool {
	return strings.Contains(src, "//go:build") || strings.Contains(src, "// +build")
}
