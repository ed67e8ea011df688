// Package helper is the structured invocation boundary for native helper
// binaries: a function name and a JSON argument payload go in, a JSON result
// payload comes out.
package helper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sort"
	"strings"
)

// Invoker invokes a named helper function with a structured argument payload
// and decodes the structured response into result. result may be nil when the
// caller does not need the response body.
type Invoker interface {
	Invoke(ctx context.Context, function string, args any, result any) error
}

type request struct {
	Function string `json:"function"`
	Args     any    `json:"args"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}

// Process invokes a helper binary per call, writing the request to stdin and
// reading the response from stdout. Helper-reported errors (the "error" field
// of the response) are returned as Go errors.
type Process struct {
	Path string            // helper binary
	Dir  string            // working directory for the helper
	Env  map[string]string // extra environment for the helper
}

var _ Invoker = (*Process)(nil)

func (p *Process) Invoke(ctx context.Context, function string, args any, result any) error {
	payload, err := json.Marshal(request{Function: function, Args: args})
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", function, err)
	}

	cmd := exec.CommandContext(ctx, p.Path)
	cmd.Dir = p.Dir
	if len(p.Env) > 0 {
		env := cmd.Environ()
		keys := make([]string, 0, len(p.Env))
		for k := range p.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			env = append(env, k+"="+p.Env[k])
		}
		cmd.Env = env
	}
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("helper %s: %w: %s", function, err, msg)
		}
		return fmt.Errorf("helper %s: %w", function, err)
	}

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return fmt.Errorf("decoding %s response: %w", function, err)
	}
	if resp.Error != "" {
		return fmt.Errorf("helper %s: %s", function, resp.Error)
	}
	if result != nil && len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("decoding %s result: %w", function, err)
		}
	}
	return nil
}

// Func adapts an in-process function to Invoker. Arguments and results are
// round-tripped through JSON so the function observes exactly the payload
// shapes a real helper binary would.
type Func func(ctx context.Context, function string, args json.RawMessage) (any, error)

var _ Invoker = (Func)(nil)

func (f Func) Invoke(ctx context.Context, function string, args any, result any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", function, err)
	}
	out, err := f(ctx, function, raw)
	if err != nil {
		return err
	}
	if result == nil || out == nil {
		return nil
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding %s result: %w", function, err)
	}
	if err := json.Unmarshal(encoded, result); err != nil {
		return fmt.Errorf("decoding %s result: %w", function, err)
	}
	return nil
}
