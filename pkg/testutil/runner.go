package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/workbench/pkg/runner"
)

// FakeRunner implements runner.Runner without starting processes
type FakeRunner struct {
	mu    sync.Mutex
	calls []runner.Command

	// FailWhen selects commands that fail. It returns the exit code and
	// stderr to report, and ok=false for commands that succeed.
	FailWhen func(cmd runner.Command) (exitCode int, stderr string, ok bool)

	// Output returns stdout for a successful command. When nil, catalog
	// searches answer with a matching line and everything else is silent.
	Output func(cmd runner.Command) string
}

// NewFakeRunner returns a runner where every command succeeds
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// FailLine makes the command whose rendered line equals line fail with exitCode
func (f *FakeRunner) FailLine(line string, exitCode int) *FakeRunner {
	prev := f.FailWhen
	f.FailWhen = func(cmd runner.Command) (int, string, bool) {
		if cmd.String() == line {
			return exitCode, "E: simulated failure of " + line, true
		}
		if prev != nil {
			return prev(cmd)
		}
		return 0, "", false
	}
	return f
}

// Run records cmd and answers according to FailWhen and Output
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	if f.FailWhen != nil {
		if code, stderr, fail := f.FailWhen(cmd); fail {
			return "", &runner.CommandFailure{
				Command:  cmd.String(),
				ExitCode: code,
				Stderr:   stderr,
			}
		}
	}

	if f.Output != nil {
		return f.Output(cmd), nil
	}
	if cmd.Name == "apt-cache" && len(cmd.Args) > 0 {
		pattern := cmd.Args[len(cmd.Args)-1]
		name := strings.TrimSuffix(strings.TrimPrefix(pattern, "^"), "$")
		name = strings.ReplaceAll(name, `\`, "")
		return name + " - simulated package\n", nil
	}
	return "", nil
}

// Calls returns a copy of the recorded commands
func (f *FakeRunner) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.calls...)
}

// Lines returns the recorded commands rendered as shell lines
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, c.String())
	}
	return lines
}

// CallsFor returns how many recorded commands mention pkg as their last argument
func (f *FakeRunner) CallsFor(pkg string) int {
	n := 0
	for _, c := range f.Calls() {
		if len(c.Args) == 0 {
			continue
		}
		last := c.Args[len(c.Args)-1]
		if last == pkg || last == "^"+pkg+"$" {
			n++
		}
	}
	return n
}

var _ runner.Runner = (*FakeRunner)(nil)
