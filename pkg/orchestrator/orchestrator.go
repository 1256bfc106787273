package orchestrator

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/workbench/pkg/assets"
	"github.com/arthur-debert/workbench/pkg/bootstrap"
	"github.com/arthur-debert/workbench/pkg/config"
	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/filesystem"
	"github.com/arthur-debert/workbench/pkg/install"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/provision"
	"github.com/arthur-debert/workbench/pkg/runner"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/rs/zerolog"
)

// Provisioner fetches the shared editor runtime
type Provisioner interface {
	EnsureRuntime(ctx context.Context, root types.ProvisionTarget, plugins []types.ProvisionTarget) (provision.Results, error)
	Reset(root string) error
}

// Bootstrapper runs marker-gated installers
type Bootstrapper interface {
	Run(ctx context.Context, user types.UserContext, script bootstrap.Script) (bool, error)
}

// Recorder receives per-package and per-repository outcomes
type Recorder interface {
	PackageResult(ctx context.Context, user, name string, required bool, err *types.InstallationError) error
	TargetResult(ctx context.Context, user string, res provision.Result) error
	TargetFailure(ctx context.Context, user, label string, cause error) error
}

// Deps are the collaborators an Orchestrator drives
type Deps struct {
	Config       *config.Config
	Runner       runner.Runner
	Installer    install.Installer
	Provisioner  Provisioner
	Bootstrapper Bootstrapper
	Files        *filesystem.Files
	Assets       *assets.Store

	// Recorder is optional
	Recorder Recorder
}

// Orchestrator runs plans for a list of users
type Orchestrator struct {
	deps   Deps
	logger zerolog.Logger
}

// New creates an orchestrator
func New(deps Deps) *Orchestrator {
	if deps.Recorder == nil {
		deps.Recorder = NopRecorder{}
	}
	return &Orchestrator{deps: deps, logger: logging.GetLogger("orchestrator")}
}

// Run applies plan to every user in order.
//
// The returned error is reserved for failures that concern the whole run:
// a failed clean of the runtime root, or cancellation of ctx. Per-user
// failures are only reported in the Report.
func (o *Orchestrator) Run(ctx context.Context, plan Plan, users []types.UserContext) (*Report, error) {
	report := &Report{Plan: plan.String()}

	if plan.Clean && plan.Has(PhaseEditor) {
		if err := guardClean(plan.Runtime, users); err != nil {
			return report, err
		}
		o.logger.Info().Str("runtime", plan.Runtime).Msg("Cleaning runtime root")
		if err := o.deps.Provisioner.Reset(plan.Runtime); err != nil {
			return report, err
		}
	}

	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Users = append(report.Users, o.runUser(ctx, plan, user))
	}
	return report, nil
}

// guardClean refuses to remove a runtime root that is, or contains, a
// user's home directory
func guardClean(root string, users []types.UserContext) error {
	root = filepath.Clean(root)
	for _, u := range users {
		rel, err := filepath.Rel(root, filepath.Clean(u.Home))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return errors.Newf(errors.ErrInvalidInput, "refusing to remove %s: it holds the home of %s", root, u.Login).
			WithDetail("path", root).
			WithDetail("user", u.Login)
	}
	return nil
}

func (o *Orchestrator) runUser(ctx context.Context, plan Plan, user types.UserContext) UserReport {
	logger := o.logger.With().Str("user", user.Login).Logger()
	done := logging.LogOperationStart(logger, "user")
	defer done()

	rep := UserReport{User: user.Login}

	steps := []struct {
		phase Phase
		run   func() error
	}{
		{PhaseWorkspace, func() error { return o.workspace(user) }},
		{PhasePackages, func() error { return o.packages(ctx, plan, user, &rep) }},
		{PhaseEditor, func() error { return o.editor(ctx, plan, user, &rep) }},
		{PhaseDotfiles, func() error { return o.dotfiles(user) }},
		{PhasePrompt, func() error { return o.prompt(ctx, user, &rep) }},
	}

	for _, step := range steps {
		if !plan.Has(step.phase) {
			continue
		}
		logger.Info().Stringer("phase", step.phase).Msg("Starting phase")
		if err := step.run(); err != nil {
			logger.Error().Err(err).Stringer("phase", step.phase).Msg("Phase failed, skipping remaining phases for user")
			rep.fail(step.phase, err)
			return rep
		}
	}

	rep.finish()
	logger.Info().Str("status", string(rep.Status)).Msg("User finished")
	return rep
}

// workspace creates the user's source directories
func (o *Orchestrator) workspace(user types.UserContext) error {
	for _, dir := range o.deps.Config.WorkspaceDirectories() {
		if err := o.deps.Files.MkdirOwned(user.HomePath(dir), user); err != nil {
			return err
		}
	}
	return nil
}

// packages runs the batch installer. Only a required-package failure is fatal.
func (o *Orchestrator) packages(ctx context.Context, plan Plan, user types.UserContext, rep *UserReport) error {
	batch := install.NewBatch(o.deps.Installer, o.deps.Config.RequiredPackages(),
		install.WithStatusFormat(o.deps.Config.Install.StatusFormat),
		install.WithResultFunc(func(name string, required bool, err *types.InstallationError) {
			o.record(o.deps.Recorder.PackageResult(ctx, user.Login, name, required, err))
		}),
	)

	failures, err := batch.Run(ctx, plan.Packages)
	if err != nil {
		return err
	}
	rep.FailedPackages = failures
	if !failures.Empty() {
		o.logger.Warn().
			Str("user", user.Login).
			Strs("packages", failures.Packages()).
			Msg("Some packages failed to install")
	}
	return nil
}

// editor provisions the shared runtime and wires it up for the user
func (o *Orchestrator) editor(ctx context.Context, plan Plan, user types.UserContext, rep *UserReport) error {
	cfg := o.deps.Config
	root := plan.Runtime

	results, err := o.deps.Provisioner.EnsureRuntime(ctx, cfg.RuntimeTarget(root), cfg.PluginTargets(root))
	for _, res := range results {
		o.record(o.deps.Recorder.TargetResult(ctx, user.Login, res))
	}
	rep.Targets = results
	if err != nil {
		if label, ok := errors.GetErrorDetails(err)["label"].(string); ok {
			o.record(o.deps.Recorder.TargetFailure(ctx, user.Login, label, err))
		}
		return err
	}

	configs, err := o.deps.Assets.Read(assets.ConfigsVim)
	if err != nil {
		return err
	}
	if err := o.deps.Files.Write(filepath.Join(root, "my_configs.vim"), configs); err != nil {
		return err
	}

	installer := filepath.Join(root, cfg.Vim.Installer)
	if _, err := o.deps.Runner.Run(ctx, runner.Command{
		Name: "bash",
		Args: []string{installer, root, user.Login},
	}); err != nil {
		return errors.Wrapf(err, errors.ErrEditor, "editor installer failed for %s", user.Login).
			WithDetail("user", user.Login).
			WithDetail("installer", installer)
	}

	copied, err := o.deps.Files.CopyBestEffort(user.HomePath(cfg.Vim.UserVimrc), user.HomePath(".vimrc"), user)
	if err != nil {
		return err
	}
	rep.VimrcCopied = copied
	return nil
}

// dotfiles writes the shell profile files into the home
func (o *Orchestrator) dotfiles(user types.UserContext) error {
	for _, name := range []string{assets.Bashrc, assets.BashAliases} {
		data, err := o.deps.Assets.Read(name)
		if err != nil {
			return err
		}
		if err := o.deps.Files.WriteOwned(user.HomePath("."+name), data, user); err != nil {
			return err
		}
	}
	return nil
}

// prompt bootstraps the prompt framework unless its marker exists
func (o *Orchestrator) prompt(ctx context.Context, user types.UserContext, rep *UserReport) error {
	body, err := o.deps.Assets.Read(assets.PromptInstaller)
	if err != nil {
		return err
	}
	ran, err := o.deps.Bootstrapper.Run(ctx, user, bootstrap.Script{
		Name:   assets.PromptInstaller,
		Body:   body,
		Marker: o.deps.Config.Profile.PromptMarker,
	})
	rep.Bootstrapped = ran && err == nil
	return err
}

func (o *Orchestrator) record(err error) {
	if err != nil {
		o.logger.Warn().Err(err).Msg("Failed to record journal entry")
	}
}

// NopRecorder discards every outcome
type NopRecorder struct{}

func (NopRecorder) PackageResult(context.Context, string, string, bool, *types.InstallationError) error {
	return nil
}

func (NopRecorder) TargetResult(context.Context, string, provision.Result) error { return nil }

func (NopRecorder) TargetFailure(context.Context, string, string, error) error { return nil }
