// Package shell is the subprocess boundary for external tool invocations.
// Core pipelines depend only on the Runner interface, never on os/exec
// directly, so tool behavior can be scripted in tests.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
)

// Cmd describes a single external tool invocation.
type Cmd struct {
	Name string            // binary to invoke
	Args []string          // arguments, not including the binary name
	Dir  string            // working directory; empty means the process default
	Env  map[string]string // overrides applied on top of the ambient environment
}

// Result captures everything the caller is allowed to observe about an
// invocation: output streams and the exit status.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the invocation exited zero.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner executes external commands. A non-zero exit is not an error at this
// boundary; it is reported through Result so callers can classify stderr
// themselves. Run returns an error only when the command could not be
// executed at all (missing binary, canceled context).
type Runner interface {
	Run(ctx context.Context, cmd Cmd) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

func (ExecRunner) Run(ctx context.Context, c Cmd) (Result, error) {
	ec := exec.CommandContext(ctx, c.Name, c.Args...)
	ec.Dir = c.Dir
	ec.Env = mergedEnv(c.Env)

	var stdout, stderr bytes.Buffer
	ec.Stdout = &stdout
	ec.Stderr = &stderr

	err := ec.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", c.Name, err)
	}
	return res, nil
}

// mergedEnv layers overrides on top of the ambient environment. Override keys
// are appended in sorted order; later entries win, so overrides take effect.
func mergedEnv(overrides map[string]string) []string {
	env := os.Environ()
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+overrides[k])
	}
	return env
}
