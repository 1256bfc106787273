package provision

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneOptions(t *testing.T) {
	tests := []struct {
		name         string
		target       types.ProvisionTarget
		wantRef      plumbing.ReferenceName
		singleBranch bool
		recurse      git.SubmoduleRescursivity
	}{
		{
			name:   "default branch, shallow",
			target: types.ProvisionTarget{Source: "https://github.com/amix/vimrc.git", Depth: 1},
		},
		{
			name:         "bare branch name",
			target:       types.ProvisionTarget{Source: "https://example.com/r.git", Ref: "develop"},
			wantRef:      plumbing.NewBranchReferenceName("develop"),
			singleBranch: true,
		},
		{
			name:         "full tag ref",
			target:       types.ProvisionTarget{Source: "https://example.com/r.git", Ref: "refs/tags/v1.0"},
			wantRef:      plumbing.ReferenceName("refs/tags/v1.0"),
			singleBranch: true,
		},
		{
			name:    "submodules",
			target:  types.ProvisionTarget{Source: "https://example.com/r.git", Depth: 1, Submodules: true},
			recurse: git.DefaultSubmoduleRecursionDepth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := cloneOptions(tt.target)

			assert.Equal(t, tt.target.Source, opts.URL)
			assert.Equal(t, tt.target.Depth, opts.Depth)
			assert.Equal(t, tt.wantRef, opts.ReferenceName)
			assert.Equal(t, tt.singleBranch, opts.SingleBranch)
			assert.Equal(t, tt.recurse, opts.RecurseSubmodules)
		})
	}
}

func TestGitFetcher_FailedCloneLeavesNoDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "my_plugins", "tagbar")

	err := NewGitFetcher().Fetch(context.Background(), types.ProvisionTarget{
		Label:       "tagbar",
		Source:      filepath.Join(dir, "no-such-repo"),
		Destination: dest,
		Depth:       1,
	})

	require.Error(t, err)
	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
