package workbench

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/runner"
	"github.com/arthur-debert/workbench/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passwd = `root:x:0:0:root:/root:/bin/bash
daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin
alice:x:1000:1000:Alice,,,:/home/alice:/bin/bash
bob:x:1001:1001:Bob,,,:/home/bob:/bin/zsh
nobody:x:65534:65534:nobody:/nonexistent:/usr/sbin/nologin
`

type testEnv struct {
	fs      *testutil.ChownFS
	runner  *testutil.FakeRunner
	fetcher *testutil.FakeFetcher

	// echo is the command output writer the last run asked for
	echo io.Writer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(logging.EnvLogFile, filepath.Join(dir, "workbench.log"))
	t.Setenv("WORKBENCH_JOURNAL__PATH", filepath.Join(dir, "journal.db"))
	t.Setenv("NO_COLOR", "1")

	fs := testutil.NewChownFS(testutil.NewMemFS())
	testutil.WriteFile(t, fs, "/etc/passwd", passwd)
	testutil.MkdirAll(t, fs, "/home/alice")
	testutil.MkdirAll(t, fs, "/home/bob")

	return &testEnv{
		fs:      fs,
		runner:  testutil.NewFakeRunner(),
		fetcher: testutil.NewFakeFetcher(fs),
	}
}

func (e *testEnv) execute(args ...string) (string, error) {
	cmd := newRootCmd(func(echo io.Writer) *environment {
		e.echo = echo
		return &environment{
			fs:      e.fs,
			runner:  e.runner,
			fetcher: e.fetcher,
			passwd:  "/etc/passwd",
		}
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--format", "text"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestProfileCmd_DefaultsToRealUsers(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execute("profile")
	require.NoError(t, err)

	assert.Contains(t, out, "Summary (workspace,packages,dotfiles,prompt)")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "bob")
	assert.NotContains(t, out, "daemon")

	assert.True(t, testutil.Exists(t, env.fs, "/home/alice/.bashrc"))
	assert.True(t, testutil.Exists(t, env.fs, "/home/bob/src/github.com"))
	assert.Equal(t, "1001:1001", env.fs.Owner("/home/bob/.bash_aliases"))
	assert.Equal(t, 14, env.runner.CallsFor("fzf"))
}

func TestProfileCmd_SelectedUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("profile", "-u", "bob", "-u", "bob")
	require.NoError(t, err)

	assert.False(t, testutil.Exists(t, env.fs, "/home/alice/.bashrc"))
	assert.True(t, testutil.Exists(t, env.fs, "/home/bob/.bashrc"))
	assert.Equal(t, 7, env.runner.CallsFor("fzf"))
}

func TestProfileCmd_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("profile", "-u", "mallory")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrUserLookup))
	assert.Empty(t, env.runner.Calls())
}

func TestProfileCmd_OptionalFailureExitsNonZero(t *testing.T) {
	env := newTestEnv(t)
	env.runner.FailLine("apt-get --yes install fzf", 100)

	out, err := env.execute("profile", "-u", "alice")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRunFailed))
	assert.Contains(t, err.Error(), "1 of 1 user(s)")
	assert.Contains(t, out, "partial")
	assert.True(t, testutil.Exists(t, env.fs, "/home/alice/.bashrc"))
}

func TestVimCmd_PathAndDependencies(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("vim", "-u", "alice", "-p", "/srv/vim", "-d", "git", "-d", "tig")
	require.NoError(t, err)

	assert.Equal(t, 7, env.runner.CallsFor("git"))
	assert.Equal(t, 7, env.runner.CallsFor("tig"))
	assert.Equal(t, 0, env.runner.CallsFor("vim-nox"))
	assert.True(t, testutil.Exists(t, env.fs, "/srv/vim/my_configs.vim"))
	assert.True(t, testutil.Exists(t, env.fs, "/srv/vim/my_plugins/tagbar"))
	assert.Contains(t, env.runner.Lines(), "bash /srv/vim/install_awesome_parameterized.sh /srv/vim alice")
}

func TestVimCmd_RejectsUnsafeRuntimePath(t *testing.T) {
	for _, path := range []string{"relative/rt", "/", "/opt/.."} {
		t.Run(path, func(t *testing.T) {
			env := newTestEnv(t)
			testutil.WriteFile(t, env.fs, "relative/rt/basic.vim", "x")

			_, err := env.execute("vim", "-u", "alice", "-p", path, "--clean", "-d", "git")

			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
			assert.Equal(t, "vim.runtime", errors.GetErrorDetails(err)["key"])
			assert.Empty(t, env.runner.Calls())
			assert.Empty(t, env.fetcher.Calls())
			assert.True(t, testutil.Exists(t, env.fs, "relative/rt/basic.vim"))
			assert.True(t, testutil.Exists(t, env.fs, "/etc/passwd"))
		})
	}
}

func TestSetupCmd_InstallsSharedPackageOnce(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("setup", "-u", "alice", "-p", "/srv/vim", "-d", "git", "-d", "fzf")
	require.NoError(t, err)

	assert.Equal(t, 7, env.runner.CallsFor("git"))
	assert.Equal(t, 7, env.runner.CallsFor("fzf"))
}

func TestRunCmd_EchoesCommandOutputWhenVerbose(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("profile", "-u", "alice")
	require.NoError(t, err)
	assert.Nil(t, env.echo)

	_, err = env.execute("-v", "profile", "-u", "alice")
	require.NoError(t, err)
	assert.NotNil(t, env.echo)
}

func TestDefaultEnvironment_EchoWriter(t *testing.T) {
	var buf bytes.Buffer

	quiet := defaultEnvironment(nil).runner.(*runner.ExecRunner)
	assert.Nil(t, quiet.Stdout)
	assert.Nil(t, quiet.Stderr)

	loud := defaultEnvironment(&buf).runner.(*runner.ExecRunner)
	assert.Same(t, &buf, loud.Stdout)
	assert.Same(t, &buf, loud.Stderr)
}

func TestVimCmd_WritesReport(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execute("vim", "-u", "alice", "-d", "git", "--report", "/tmp/report.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to /tmp/report.yaml")

	data, err := afero.ReadFile(env.fs, "/tmp/report.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "plan: packages,editor")
	assert.Contains(t, string(data), "user: alice")
}

func TestHistoryCmd_ListsPreviousRun(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("vim", "-u", "alice", "-d", "git")
	require.NoError(t, err)

	out, err := env.execute("history", "--limit", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "git")
	assert.Contains(t, out, "tagbar")
	assert.Contains(t, out, "fetched")
}

func TestHistoryCmd_JournalDisabled(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("WORKBENCH_JOURNAL__ENABLED", "false")

	out, err := env.execute("history")
	require.NoError(t, err)
	assert.Equal(t, MsgJournalOff, strings.TrimSpace(out))
}

func TestConfigCmd_PrintsEffectiveConfig(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("WORKBENCH_VIM__RUNTIME", "/srv/vim")

	out, err := env.execute("config")
	require.NoError(t, err)
	assert.Contains(t, out, "[vim]")
	assert.Contains(t, out, "/srv/vim")
	assert.Contains(t, out, "debsums")
}

func TestConfigCmd_MissingExplicitFile(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("config", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
}

func TestCatalogCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execute("catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "vim-nox")
	assert.Contains(t, out, "https://github.com/amix/vimrc.git")
}

func TestVersionCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, "workbench version")
}

func TestCompletionCmd(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.execute("completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "workbench")

	_, err = env.execute("completion", "tcsh")
	assert.Error(t, err)
}

func TestRootCmd_RejectsUnknownFormat(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.execute("--format", "html", "version")
	assert.Error(t, err)
}
