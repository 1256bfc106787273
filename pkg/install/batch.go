package install

import (
	"context"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/rs/zerolog"
)

// ResultFunc observes the outcome of every package the batch processes.
// err is nil when the package installed cleanly.
type ResultFunc func(name string, required bool, err *types.InstallationError)

// Batch installs required infrastructure packages, then requested ones
type Batch struct {
	installer    Installer
	required     []string
	statusFormat string
	onResult     ResultFunc
	logger       zerolog.Logger
}

// BatchOption configures a Batch
type BatchOption func(*Batch)

// WithStatusFormat overrides the dpkg-query format of every package query
func WithStatusFormat(format string) BatchOption {
	return func(b *Batch) {
		b.statusFormat = format
	}
}

// WithResultFunc registers an observer for per-package outcomes
func WithResultFunc(fn ResultFunc) BatchOption {
	return func(b *Batch) {
		b.onResult = fn
	}
}

// NewBatch creates a batch installer. required is copied.
func NewBatch(installer Installer, required []string, opts ...BatchOption) *Batch {
	b := &Batch{
		installer:    installer,
		required:     append([]string(nil), required...),
		statusFormat: types.DefaultStatusFormat,
		logger:       logging.GetLogger("install.batch"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run installs the required packages and then requested, in the order given.
//
// A failing required package aborts the batch before anything else is
// attempted; the returned error has code ErrRequiredPackage and wraps the
// *types.InstallationError. Failing requested packages are collected in
// the returned InstallationErrors, which is empty when all of them
// installed.
func (b *Batch) Run(ctx context.Context, requested []string) (types.InstallationErrors, error) {
	b.logger.Info().
		Strs("required", b.required).
		Strs("requested", requested).
		Msg("Starting package batch")

	for _, name := range b.required {
		instErr := b.installer.Install(ctx, b.query(name))
		b.report(name, true, instErr)
		if instErr != nil {
			b.logger.Error().Err(instErr).Str("package", name).Msg("Required package failed, aborting batch")
			return nil, errors.Wrapf(instErr, errors.ErrRequiredPackage,
				"required package %s failed", name).
				WithDetail("package", name).
				WithDetail("stage", instErr.Stage.String())
		}
	}

	var failures types.InstallationErrors
	for _, name := range requested {
		instErr := b.installer.Install(ctx, b.query(name))
		b.report(name, false, instErr)
		failures.Push(instErr)
	}

	b.logger.Info().
		Int("requested", len(requested)).
		Int("failed", failures.Len()).
		Msg("Package batch finished")

	return failures, nil
}

func (b *Batch) query(name string) types.PackageQuery {
	return types.PackageQuery{Name: name, StatusFormat: b.statusFormat}
}

func (b *Batch) report(name string, required bool, err *types.InstallationError) {
	if b.onResult != nil {
		b.onResult(name, required, err)
	}
}
