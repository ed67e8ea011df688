package helper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestFuncRoundTripsThroughJSON(t *testing.T) {
	type args struct {
		Name string `json:"name"`
	}
	type result struct {
		Greeting string `json:"greeting"`
	}

	inv := Func(func(_ context.Context, function string, raw json.RawMessage) (any, error) {
		if function != "greet" {
			return nil, fmt.Errorf("unexpected function %q", function)
		}
		var a args
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, err
		}
		return result{Greeting: "hello " + a.Name}, nil
	})

	var out result
	if err := inv.Invoke(context.Background(), "greet", args{Name: "world"}, &out); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Greeting != "hello world" {
		t.Errorf("Greeting = %q, want %q", out.Greeting, "hello world")
	}
}

func TestFuncPropagatesErrors(t *testing.T) {
	sentinel := errors.New("helper failed")
	inv := Func(func(context.Context, string, json.RawMessage) (any, error) {
		return nil, sentinel
	})

	if err := inv.Invoke(context.Background(), "fn", nil, nil); !errors.Is(err, sentinel) {
		t.Errorf("Invoke = %v, want %v", err, sentinel)
	}
}

// writeHelperScript installs a shell script that echoes a fixed JSON response,
// recording the request it received to a side file.
func writeHelperScript(t *testing.T, response string) (path, reqFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script helper")
	}
	dir := t.TempDir()
	path = filepath.Join(dir, "helper.sh")
	reqFile = filepath.Join(dir, "request.json")
	script := fmt.Sprintf("#!/bin/sh\ncat > %s\nprintf '%%s' '%s'\n", reqFile, response)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path, reqFile
}

func TestProcessInvoke(t *testing.T) {
	bin, reqFile := writeHelperScript(t, `{"result":{"value":42}}`)

	p := &Process{Path: bin}
	var out struct {
		Value int `json:"value"`
	}
	if err := p.Invoke(context.Background(), "compute", map[string]int{"n": 6}, &out); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if out.Value != 42 {
		t.Errorf("Value = %d, want 42", out.Value)
	}

	data, err := os.ReadFile(reqFile)
	if err != nil {
		t.Fatalf("reading recorded request: %v", err)
	}
	var req struct {
		Function string          `json:"function"`
		Args     json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("decoding recorded request: %v", err)
	}
	if req.Function != "compute" {
		t.Errorf("Function = %q, want %q", req.Function, "compute")
	}
	if string(req.Args) != `{"n":6}` {
		t.Errorf("Args = %s, want {\"n\":6}", req.Args)
	}
}

func TestProcessInvokeHelperError(t *testing.T) {
	bin, _ := writeHelperScript(t, `{"error":"unknown function"}`)

	p := &Process{Path: bin}
	err := p.Invoke(context.Background(), "nope", nil, nil)
	if err == nil {
		t.Fatal("Invoke should surface the helper-reported error")
	}
	if !strings.Contains(err.Error(), "unknown function") {
		t.Errorf("error %q missing helper message", err)
	}
}
