package shell

import (
	"context"
	"strings"
)

// Recorder is a Runner test double. It records every command it receives and
// replays scripted results matched by command-line prefix. Commands with no
// matching script succeed with empty output.
type Recorder struct {
	Scripts map[string]Result // keyed by a prefix of "name arg arg..."
	Calls   []Cmd
}

var _ Runner = (*Recorder)(nil)

func (r *Recorder) Run(_ context.Context, c Cmd) (Result, error) {
	r.Calls = append(r.Calls, c)
	line := c.Name
	if len(c.Args) > 0 {
		line += " " + strings.Join(c.Args, " ")
	}
	for prefix, res := range r.Scripts {
		if strings.HasPrefix(line, prefix) {
			return res, nil
		}
	}
	return Result{}, nil
}

// CommandLines returns the recorded invocations as "name arg arg..." strings.
func (r *Recorder) CommandLines() []string {
	lines := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		lines[i] = c.Name
		if len(c.Args) > 0 {
			lines[i] += " " + strings.Join(c.Args, " ")
		}
	}
	return lines
}
