package provision

import (
	"context"
	"os"
	"strings"

	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/rs/zerolog"
)

// GitFetcher clones targets with go-git onto the real filesystem
type GitFetcher struct {
	logger zerolog.Logger
}

// NewGitFetcher creates a fetcher cloning over the network
func NewGitFetcher() *GitFetcher {
	return &GitFetcher{logger: logging.GetLogger("provision.git")}
}

// Fetch clones target.Source into target.Destination.
// A failed clone leaves no destination behind, so a re-run retries it.
func (g *GitFetcher) Fetch(ctx context.Context, target types.ProvisionTarget) error {
	opts := cloneOptions(target)

	g.logger.Debug().
		Str("url", opts.URL).
		Str("ref", opts.ReferenceName.String()).
		Int("depth", opts.Depth).
		Bool("submodules", target.Submodules).
		Msg("Cloning")

	if _, err := git.PlainCloneContext(ctx, target.Destination, false, opts); err != nil {
		_ = os.RemoveAll(target.Destination)
		return err
	}
	return nil
}

func cloneOptions(target types.ProvisionTarget) *git.CloneOptions {
	opts := &git.CloneOptions{
		URL:   target.Source,
		Depth: target.Depth,
	}
	if target.Ref != "" {
		opts.ReferenceName = referenceName(target.Ref)
		opts.SingleBranch = true
	}
	if target.Submodules {
		opts.RecurseSubmodules = git.DefaultSubmoduleRecursionDepth
	}
	return opts
}

// referenceName accepts a full ref ("refs/tags/v1") or a bare branch name
func referenceName(ref string) plumbing.ReferenceName {
	if strings.HasPrefix(ref, "refs/") {
		return plumbing.ReferenceName(ref)
	}
	return plumbing.NewBranchReferenceName(ref)
}

var _ Fetcher = (*GitFetcher)(nil)
