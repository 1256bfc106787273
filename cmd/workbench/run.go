package workbench

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/workbench/pkg/assets"
	"github.com/arthur-debert/workbench/pkg/bootstrap"
	"github.com/arthur-debert/workbench/pkg/config"
	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/filesystem"
	"github.com/arthur-debert/workbench/pkg/install"
	"github.com/arthur-debert/workbench/pkg/journal"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/orchestrator"
	"github.com/arthur-debert/workbench/pkg/provision"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/arthur-debert/workbench/pkg/ui"
	"github.com/arthur-debert/workbench/pkg/users"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var _ orchestrator.Recorder = (*journal.Journal)(nil)

// runPlan loads the configuration, resolves the users and drives the
// orchestrator with the plan built by buildPlan
func runPlan(cmd *cobra.Command, opts *rootOptions, f *runFlags, buildPlan func(*config.Config) orchestrator.Plan) error {
	logger := logging.GetLogger("cli")

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := f.applyPath(cfg); err != nil {
		return err
	}
	env := opts.newEnv(opts.echoWriter(cmd))

	targets, err := resolveUsers(env, f.users)
	if err != nil {
		return err
	}

	plan := buildPlan(cfg)
	done := logging.LogOperationStart(logger, "run "+plan.String())
	defer done()
	logger.Info().
		Str("plan", plan.String()).
		Int("users", len(targets)).
		Bool("clean", plan.Clean).
		Msg("Provisioning")

	recorder, closeRecorder := openRecorder(cfg)
	defer closeRecorder()

	orch := orchestrator.New(orchestrator.Deps{
		Config:       cfg,
		Runner:       env.runner,
		Installer:    install.NewPipeline(env.runner),
		Provisioner:  provision.New(env.fs, env.fetcher),
		Bootstrapper: bootstrap.New(env.fs, env.runner),
		Files:        filesystem.New(env.fs),
		Assets:       assets.New(env.fs, cfg.Assets.Dir),
		Recorder:     recorder,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, runErr := orch.Run(ctx, plan, targets)
	if report != nil {
		if err := printReport(cmd, opts, report); err != nil {
			return err
		}
		if f.report != "" {
			if err := writeReport(env.fs, f.report, report); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), MsgReportWritten, f.report)
		}
	}
	if runErr != nil {
		return runErr
	}

	if report.Failed() {
		failed := 0
		for _, u := range report.Users {
			if u.Status != orchestrator.StatusOK {
				failed++
			}
		}
		return errors.Newf(errors.ErrRunFailed, MsgErrRunFailed, failed, len(report.Users))
	}
	return nil
}

// resolveUsers looks up the requested logins, or every real user when none
// was requested. Duplicates are dropped.
func resolveUsers(env *environment, logins []string) ([]types.UserContext, error) {
	db := users.NewWithPath(env.fs, env.passwd)

	if len(logins) == 0 {
		all, err := db.RealUsers()
		if err != nil {
			return nil, err
		}
		logins = all
	}
	if len(logins) == 0 {
		return nil, errors.New(errors.ErrUserLookup, MsgErrNoUsers)
	}

	seen := make(map[string]bool, len(logins))
	result := make([]types.UserContext, 0, len(logins))
	for _, login := range logins {
		if seen[login] {
			continue
		}
		seen[login] = true

		u, err := db.Lookup(login)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, nil
}

// openRecorder opens the install journal. A journal that cannot be opened
// is skipped with a warning.
func openRecorder(cfg *config.Config) (orchestrator.Recorder, func()) {
	if !cfg.Journal.Enabled {
		return orchestrator.NopRecorder{}, func() {}
	}

	logger := logging.GetLogger("cli")
	j, err := journal.Open(cfg.JournalPath())
	if err != nil {
		logger.Warn().Err(err).Str("path", cfg.JournalPath()).Msg("Install journal unavailable, continuing without it")
		return orchestrator.NopRecorder{}, func() {}
	}
	logger.Debug().Str("run", j.RunID()).Msg("Install journal opened")
	return j, func() {
		if err := j.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close install journal")
		}
	}
}

func printReport(cmd *cobra.Command, opts *rootOptions, report *orchestrator.Report) error {
	format := opts.outputFormat(cmd)
	summary, err := ui.RenderSummary(report, format)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, summary)
	if failures := ui.RenderFailures(report, format); failures != "" {
		fmt.Fprint(out, "\n"+failures)
	}
	return nil
}

func writeReport(fs afero.Fs, path string, report *orchestrator.Report) error {
	data, err := report.YAML()
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, MsgErrWriteReport, path)
	}
	if err := afero.WriteFile(fs, path, data, filesystem.FileMode); err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, MsgErrWriteReport, path)
	}
	return nil
}
