package provision

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Fetcher materialises a target at its destination
type Fetcher interface {
	Fetch(ctx context.Context, target types.ProvisionTarget) error
}

// Outcome says what provisioning did for a target
type Outcome string

const (
	OutcomeFetched Outcome = "fetched"
	OutcomeSkipped Outcome = "skipped"
)

// Result is the outcome for one target
type Result struct {
	Target  types.ProvisionTarget `yaml:"target"`
	Outcome Outcome               `yaml:"outcome"`
}

// Results lists target outcomes in processing order
type Results []Result

// Count returns how many results have outcome o
func (r Results) Count(o Outcome) int {
	n := 0
	for _, res := range r {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Provisioner ensures targets exist on fs, fetching the missing ones
type Provisioner struct {
	fs      afero.Fs
	fetcher Fetcher
	logger  zerolog.Logger
}

// New creates a provisioner. Existence is checked on fs.
func New(fs afero.Fs, fetcher Fetcher) *Provisioner {
	return &Provisioner{
		fs:      fs,
		fetcher: fetcher,
		logger:  logging.GetLogger("provision"),
	}
}

// Provision fetches each target whose destination is missing, in order.
// It stops at the first fetch failure and returns the results gathered so far.
func (p *Provisioner) Provision(ctx context.Context, targets []types.ProvisionTarget) (Results, error) {
	results := make(Results, 0, len(targets))
	for _, target := range targets {
		res, err := p.provisionOne(ctx, target)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// EnsureRuntime provisions the runtime root, then its plugins.
// An existing root is reused as-is; missing plugins are still fetched.
func (p *Provisioner) EnsureRuntime(ctx context.Context, root types.ProvisionTarget, plugins []types.ProvisionTarget) (Results, error) {
	done := logging.LogOperationStart(p.logger, "ensure-runtime")
	defer done()

	targets := make([]types.ProvisionTarget, 0, len(plugins)+1)
	targets = append(targets, root)
	targets = append(targets, plugins...)
	return p.Provision(ctx, targets)
}

// Reset removes the runtime root so the next run fetches everything again.
// A missing root is not an error. Relative paths and the filesystem root
// are refused.
func (p *Provisioner) Reset(root string) error {
	if !filepath.IsAbs(root) || filepath.Clean(root) == string(filepath.Separator) {
		return errors.Newf(errors.ErrInvalidInput, "refusing to remove runtime root %q", root).
			WithDetail("path", root)
	}

	exists, err := p.exists(root)
	if err != nil {
		return err
	}
	if !exists {
		p.logger.Debug().Str("path", root).Msg("Runtime root absent, nothing to reset")
		return nil
	}

	p.logger.Info().Str("path", root).Msg("Removing runtime root")
	if err := p.fs.RemoveAll(root); err != nil {
		return errors.Wrapf(err, errors.ErrReset, "failed to remove %s", root).
			WithDetail("path", root)
	}
	return nil
}

func (p *Provisioner) provisionOne(ctx context.Context, target types.ProvisionTarget) (Result, error) {
	logger := p.logger.With().
		Str("label", target.Label).
		Str("destination", target.Destination).
		Logger()

	exists, err := p.exists(target.Destination)
	if err != nil {
		return Result{}, err
	}
	if exists {
		logger.Info().Msg("Destination exists, skipping fetch")
		return Result{Target: target, Outcome: OutcomeSkipped}, nil
	}

	logger.Info().Str("source", target.Source).Str("ref", target.Ref).Msg("Fetching")
	if err := p.fetcher.Fetch(ctx, target); err != nil {
		logger.Error().Err(err).Msg("Fetch failed")
		return Result{}, errors.Wrapf(err, errors.ErrFetch, "failed to fetch %s", target.Label).
			WithDetail("label", target.Label).
			WithDetail("source", target.Source).
			WithDetail("destination", target.Destination)
	}
	return Result{Target: target, Outcome: OutcomeFetched}, nil
}

func (p *Provisioner) exists(path string) (bool, error) {
	_, err := p.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", path).
		WithDetail("path", path)
}
