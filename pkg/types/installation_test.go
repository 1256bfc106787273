package types_test

import (
	"errors"
	"testing"

	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallationErrors_PushSkipsNil(t *testing.T) {
	var errs types.InstallationErrors

	errs.Push(nil)
	assert.True(t, errs.Empty())
	assert.NoError(t, errs.Err())

	errs.Push(&types.InstallationError{PackageName: "tig", Stage: types.StageSearch})
	errs.Push(nil)
	errs.Push(&types.InstallationError{PackageName: "npm", Stage: types.StageInstall, ExitCode: 100})

	assert.Equal(t, 2, errs.Len())
	assert.Equal(t, []string{"tig", "npm"}, errs.Packages())
	require.Error(t, errs.Err())
	assert.Contains(t, errs.Error(), "2 package(s) failed")
}

func TestInstallationError_Message(t *testing.T) {
	cause := errors.New("exit status 100")
	err := &types.InstallationError{
		PackageName: "cmake",
		Stage:       types.StageInstall,
		ExitCode:    100,
		Stderr:      "E: Unable to locate package cmake\nmore detail",
		Err:         cause,
	}

	assert.Equal(t, "package cmake failed at stage Install (exit code 100): E: Unable to locate package cmake", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestStage_Names(t *testing.T) {
	stages := types.Stages()
	require.Len(t, stages, 7)
	assert.Equal(t, types.StageSearch, stages[0])
	assert.Equal(t, types.StageStatusQuery, stages[6])

	for i, s := range stages {
		assert.Equal(t, i+1, int(s))
		assert.True(t, s.Valid())

		text, err := s.MarshalText()
		require.NoError(t, err)

		var back types.Stage
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}

	assert.False(t, types.Stage(0).Valid())
	assert.Equal(t, "Stage(9)", types.Stage(9).String())

	var s types.Stage
	assert.Error(t, s.UnmarshalText([]byte("Compile")))
}

func TestPackageQuery_Format(t *testing.T) {
	assert.Equal(t, "${Status}", types.NewPackageQuery("fzf").Format())
	assert.Equal(t, "${Status}", types.PackageQuery{Name: "fzf"}.Format())
	assert.Equal(t, "${Version}", types.PackageQuery{Name: "fzf", StatusFormat: "${Version}"}.Format())
}

func TestUserContext_HomePath(t *testing.T) {
	u := types.UserContext{Login: "ada", Home: "/home/ada"}
	assert.Equal(t, "/home/ada/src/data", u.HomePath("src", "data"))
	assert.Equal(t, "/home/ada", u.HomePath())
}
