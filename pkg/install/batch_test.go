package install_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/install"
	"github.com/arthur-debert/workbench/pkg/runner"
	"github.com/arthur-debert/workbench/pkg/testutil"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failPackages makes every stage fail for the named packages
func failPackages(names ...string) func(cmd runner.Command) (int, string, bool) {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return func(cmd runner.Command) (int, string, bool) {
		if cmd.Name == "apt-cache" {
			return 0, "", false
		}
		if set[cmd.Args[len(cmd.Args)-1]] {
			return 1, "boom", true
		}
		return 0, "", false
	}
}

func TestBatch_AggregatesOptionalFailures(t *testing.T) {
	tests := []struct {
		name      string
		requested []string
		failing   []string
		want      []string
	}{
		{"empty request", nil, nil, []string{}},
		{"all succeed", []string{"git", "tig", "cmake"}, nil, []string{}},
		{"one fails", []string{"git", "tig", "cmake"}, []string{"tig"}, []string{"tig"}},
		{"several fail in order", []string{"npm", "git", "cmake", "tig"}, []string{"tig", "npm"}, []string{"npm", "tig"}},
		{"duplicates are kept", []string{"tig", "tig"}, []string{"tig"}, []string{"tig", "tig"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testutil.NewFakeRunner()
			fake.FailWhen = failPackages(tt.failing...)

			errs, err := install.NewBatch(install.NewPipeline(fake), nil).Run(context.Background(), tt.requested)

			require.NoError(t, err)
			assert.Equal(t, len(tt.want), errs.Len())
			assert.Equal(t, tt.want, errs.Packages())
			assert.Equal(t, len(tt.want) == 0, errs.Empty())
		})
	}
}

func TestBatch_RequiredFailureAbortsBeforeRequested(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.FailWhen = failPackages("debsums")

	errs, err := install.NewBatch(install.NewPipeline(fake), []string{"debsums", "git"}).
		Run(context.Background(), []string{"fzf", "tig"})

	require.Error(t, err)
	assert.Nil(t, errs)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRequiredPackage))
	assert.Equal(t, 0, fake.CallsFor("git"), "later required packages must not run")
	assert.Equal(t, 0, fake.CallsFor("fzf"))
	assert.Equal(t, 0, fake.CallsFor("tig"))
}

func TestBatch_RequiredBeforeRequested(t *testing.T) {
	fake := testutil.NewFakeRunner()

	_, err := install.NewBatch(install.NewPipeline(fake), []string{"debsums"}).
		Run(context.Background(), []string{"fzf"})

	require.NoError(t, err)
	lines := fake.Lines()
	require.Len(t, lines, 14)
	assert.Equal(t, "apt-cache search --names-only '^debsums$'", lines[0])
	assert.Equal(t, "apt-cache search --names-only '^fzf$'", lines[7])
}

// A package that installs but reports no status still counts as failed.
func TestBatch_StatusQueryFailureIsRecorded(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.FailWhen = func(cmd runner.Command) (int, string, bool) {
		if cmd.Name == "dpkg-query" && cmd.Args[len(cmd.Args)-1] == "fzf" {
			return 1, "dpkg-query: no packages found matching fzf", true
		}
		return 0, "", false
	}

	errs, err := install.NewBatch(install.NewPipeline(fake), nil).Run(context.Background(), []string{"fzf"})

	require.NoError(t, err)
	require.Equal(t, 1, errs.Len())
	assert.Equal(t, "fzf", errs[0].PackageName)
	assert.Equal(t, types.StageStatusQuery, errs[0].Stage)
}

// A failing required package stops the batch before any requested package.
func TestBatch_RequiredInstallFailureIsFatal(t *testing.T) {
	fake := testutil.NewFakeRunner().FailLine("apt-get --yes install debsums", 100)

	errs, err := install.NewBatch(install.NewPipeline(fake), []string{"debsums"}).
		Run(context.Background(), []string{"git", "vim-nox"})

	require.Error(t, err)
	assert.Nil(t, errs)

	var instErr *types.InstallationError
	require.True(t, stderrors.As(err, &instErr))
	assert.Equal(t, types.StageInstall, instErr.Stage)
	assert.Equal(t, "debsums", instErr.PackageName)
	assert.Equal(t, "Install", errors.GetErrorDetails(err)["stage"])

	for _, line := range fake.Lines() {
		assert.NotContains(t, line, "git")
		assert.NotContains(t, line, "vim-nox")
	}
}

func TestBatch_ResultFuncSeesEveryPackage(t *testing.T) {
	fake := testutil.NewFakeRunner()
	fake.FailWhen = failPackages("tig")

	var seen []string
	onResult := func(name string, required bool, err *types.InstallationError) {
		seen = append(seen, fmt.Sprintf("%s:%t:%t", name, required, err == nil))
	}

	_, err := install.NewBatch(install.NewPipeline(fake), []string{"debsums"}, install.WithResultFunc(onResult)).
		Run(context.Background(), []string{"tig", "git"})

	require.NoError(t, err)
	assert.Equal(t, []string{"debsums:true:true", "tig:false:false", "git:false:true"}, seen)
}

func TestBatch_StatusFormatOption(t *testing.T) {
	fake := testutil.NewFakeRunner()

	_, err := install.NewBatch(install.NewPipeline(fake), nil, install.WithStatusFormat("${db:Status-Abbrev}")).
		Run(context.Background(), []string{"git"})

	require.NoError(t, err)
	lines := fake.Lines()
	assert.Equal(t, "dpkg-query -W '--showformat=${db:Status-Abbrev}' git", lines[len(lines)-1])
}

func TestBatch_RequiredListIsCopied(t *testing.T) {
	required := []string{"debsums"}
	fake := testutil.NewFakeRunner()
	batch := install.NewBatch(install.NewPipeline(fake), required)

	required[0] = "mutated"

	_, err := batch.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 7, fake.CallsFor("debsums"))
	assert.Equal(t, 0, fake.CallsFor("mutated"))
}
