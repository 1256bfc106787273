// Package runner executes external commands for the installer, the editor
// setup and the prompt bootstrap.
//
// Commands are argument vectors. Nothing is ever passed through a shell, so
// package names and paths never need quoting.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/rs/zerolog"
)

// Command is one external process invocation
type Command struct {
	Name string
	Args []string

	// Env is appended to the current environment
	Env   []string
	Dir   string
	Stdin io.Reader
}

func (c Command) String() string {
	return logging.QuoteCommand(c.Name, c.Args)
}

// Runner executes a command synchronously and returns its stdout.
// A non-zero exit or a launch failure is reported as *CommandFailure.
type Runner interface {
	Run(ctx context.Context, cmd Command) (string, error)
}

// CommandFailure describes a command that exited non-zero or could not start
type CommandFailure struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

// ExitCodeNotStarted is reported when the process could not be launched
const ExitCodeNotStarted = -1

func (f *CommandFailure) Error() string {
	if f.ExitCode == ExitCodeNotStarted {
		return fmt.Sprintf("command %q could not be started: %v", f.Command, f.Err)
	}
	msg := fmt.Sprintf("command %q exited with code %d", f.Command, f.ExitCode)
	if stderr := strings.TrimSpace(f.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (f *CommandFailure) Unwrap() error {
	return f.Err
}

// AsFailure extracts a *CommandFailure from err
func AsFailure(err error) (*CommandFailure, bool) {
	var failure *CommandFailure
	if errors.As(err, &failure) {
		return failure, true
	}
	return nil, false
}

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	logger zerolog.Logger

	// Echo copies captured output to these writers after the command finishes
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner creates a runner that only captures output
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		logger: logging.GetLogger("runner"),
	}
}

// Run executes cmd and waits for it
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (string, error) {
	logging.LogCommand(r.logger, cmd.Name, cmd.Args)

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdin = cmd.Stdin
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err := c.Run()

	if r.Stdout != nil && stdout.Len() > 0 {
		_, _ = r.Stdout.Write(stdout.Bytes())
	}
	if r.Stderr != nil && stderr.Len() > 0 {
		_, _ = r.Stderr.Write(stderr.Bytes())
	}

	if err != nil {
		failure := &CommandFailure{
			Command:  cmd.String(),
			ExitCode: ExitCodeNotStarted,
			Stderr:   stderr.String(),
			Err:      err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			failure.ExitCode = exitErr.ExitCode()
		}

		r.logger.Debug().
			Str("command", failure.Command).
			Int("exitCode", failure.ExitCode).
			Str("stderr", failure.Stderr).
			Msg("Command failed")
		return stdout.String(), failure
	}

	r.logger.Trace().
		Str("command", cmd.String()).
		Int("stdoutBytes", stdout.Len()).
		Msg("Command succeeded")
	return stdout.String(), nil
}

var _ Runner = (*ExecRunner)(nil)
