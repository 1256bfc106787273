package install

import (
	"context"

	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/runner"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/rs/zerolog"
)

// Installer installs a single package
type Installer interface {
	Install(ctx context.Context, q types.PackageQuery) *types.InstallationError
}

// Pipeline runs the seven stages for one package, stopping at the first failure
type Pipeline struct {
	runner runner.Runner
	logger zerolog.Logger
}

// NewPipeline creates a pipeline executing its stages through r
func NewPipeline(r runner.Runner) *Pipeline {
	return &Pipeline{
		runner: r,
		logger: logging.GetLogger("install.pipeline"),
	}
}

// Install returns nil when every stage succeeded
func (p *Pipeline) Install(ctx context.Context, q types.PackageQuery) *types.InstallationError {
	logger := p.logger.With().Str("package", q.Name).Logger()
	done := logging.LogOperationStart(logger, "install")
	defer done()

	for _, spec := range pipelineStages {
		cmd := spec.build(q)

		logger.Debug().Stringer("stage", spec.stage).Str("command", cmd.String()).Msg("Running stage")

		stdout, err := p.runner.Run(ctx, cmd)
		if err != nil {
			instErr := &types.InstallationError{
				PackageName: q.Name,
				Stage:       spec.stage,
				ExitCode:    runner.ExitCodeNotStarted,
				Err:         err,
			}
			if failure, ok := runner.AsFailure(err); ok {
				instErr.ExitCode = failure.ExitCode
				instErr.Stderr = failure.Stderr
			} else {
				instErr.Stderr = err.Error()
			}

			logger.Info().
				Stringer("stage", spec.stage).
				Int("exitCode", instErr.ExitCode).
				Msg("Stage failed")
			return instErr
		}

		if spec.check != nil {
			if err := spec.check(q, stdout); err != nil {
				logger.Info().Stringer("stage", spec.stage).Err(err).Msg("Stage check failed")
				return &types.InstallationError{
					PackageName: q.Name,
					Stage:       spec.stage,
					Stderr:      err.Error(),
					Err:         err,
				}
			}
		}
	}

	logger.Info().Msg("Package installed")
	return nil
}

var _ Installer = (*Pipeline)(nil)
