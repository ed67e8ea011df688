package shell

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecRunner(t *testing.T) {
	tests := map[string]struct {
		cmd        Cmd
		wantStdout string
		wantStderr string
		wantExit   int
	}{
		"captures stdout": {
			cmd:        Cmd{Name: "sh", Args: []string{"-c", "printf hello"}},
			wantStdout: "hello",
		},
		"captures stderr": {
			cmd:        Cmd{Name: "sh", Args: []string{"-c", "printf oops >&2"}},
			wantStderr: "oops",
		},
		"non-zero exit is not an error": {
			cmd:      Cmd{Name: "sh", Args: []string{"-c", "exit 3"}},
			wantExit: 3,
		},
		"environment overrides are visible": {
			cmd: Cmd{
				Name: "sh",
				Args: []string{"-c", "printf %s \"$DEPBUMP_TEST_VAR\""},
				Env:  map[string]string{"DEPBUMP_TEST_VAR": "override"},
			},
			wantStdout: "override",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := ExecRunner{}.Run(context.Background(), tc.cmd)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Stdout != tc.wantStdout {
				t.Errorf("Stdout = %q, want %q", res.Stdout, tc.wantStdout)
			}
			if res.Stderr != tc.wantStderr {
				t.Errorf("Stderr = %q, want %q", res.Stderr, tc.wantStderr)
			}
			if res.ExitCode != tc.wantExit {
				t.Errorf("ExitCode = %d, want %d", res.ExitCode, tc.wantExit)
			}
			if res.Success() != (tc.wantExit == 0) {
				t.Errorf("Success() = %v with exit %d", res.Success(), res.ExitCode)
			}
		})
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Cmd{Name: "depbump-no-such-binary"})
	if err == nil {
		t.Fatal("Run of a missing binary should fail to execute")
	}
}

func TestExecRunnerRespectsDir(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	res, err := ExecRunner{}.Run(context.Background(), Cmd{Name: "pwd", Dir: dir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := strings.TrimSpace(res.Stdout); got != dir {
		t.Errorf("pwd = %q, want %q", got, dir)
	}
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{
		Scripts: map[string]Result{
			"go get": {ExitCode: 1, Stderr: "boom"},
		},
	}

	res, err := rec.Run(context.Background(), Cmd{Name: "go", Args: []string{"get", "example.com/dep@v1.0.0"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ExitCode != 1 || res.Stderr != "boom" {
		t.Errorf("scripted result not replayed: %+v", res)
	}

	res, err = rec.Run(context.Background(), Cmd{Name: "go", Args: []string{"mod", "tidy"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success() {
		t.Errorf("unscripted command should succeed, got %+v", res)
	}

	want := []string{"go get example.com/dep@v1.0.0", "go mod tidy"}
	got := rec.CommandLines()
	if len(got) != len(want) {
		t.Fatalf("CommandLines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CommandLines[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
