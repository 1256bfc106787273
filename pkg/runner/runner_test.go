package runner_test

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/arthur-debert/workbench/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestExecRunner_CapturesStdout(t *testing.T) {
	requireBinary(t, "echo")

	out, err := runner.NewExecRunner().Run(context.Background(), runner.Command{
		Name: "echo",
		Args: []string{"hello", "world"},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestExecRunner_NonZeroExitCarriesStderr(t *testing.T) {
	requireBinary(t, "sh")

	_, err := runner.NewExecRunner().Run(context.Background(), runner.Command{
		Name: "sh",
		Args: []string{"-c", "echo broken >&2; exit 3"},
	})

	require.Error(t, err)
	failure, ok := runner.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, 3, failure.ExitCode)
	assert.Equal(t, "broken\n", failure.Stderr)
	assert.Contains(t, failure.Error(), "exited with code 3: broken")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := runner.NewExecRunner().Run(context.Background(), runner.Command{
		Name: "workbench-no-such-binary",
	})

	failure, ok := runner.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, runner.ExitCodeNotStarted, failure.ExitCode)
	assert.Contains(t, failure.Error(), "could not be started")
}

func TestExecRunner_StdinAndEnv(t *testing.T) {
	requireBinary(t, "sh")

	out, err := runner.NewExecRunner().Run(context.Background(), runner.Command{
		Name:  "sh",
		Args:  []string{"-s"},
		Env:   []string{"WB_GREETING=hi"},
		Stdin: strings.NewReader(`echo "$WB_GREETING from stdin"`),
	})

	require.NoError(t, err)
	assert.Equal(t, "hi from stdin\n", out)
}

func TestExecRunner_EchoesOutput(t *testing.T) {
	requireBinary(t, "echo")

	var echoed strings.Builder
	r := runner.NewExecRunner()
	r.Stdout = &echoed

	_, err := r.Run(context.Background(), runner.Command{Name: "echo", Args: []string{"visible"}})
	require.NoError(t, err)
	assert.Equal(t, "visible\n", echoed.String())
}

func TestCommand_String(t *testing.T) {
	cmd := runner.Command{Name: "apt-cache", Args: []string{"search", "--names-only", "^vim-nox$"}}
	assert.Equal(t, "apt-cache search --names-only '^vim-nox$'", cmd.String())
}
