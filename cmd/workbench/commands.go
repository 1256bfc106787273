package workbench

import (
	"fmt"
	"io"

	"github.com/arthur-debert/workbench/internal/version"
	"github.com/arthur-debert/workbench/pkg/config"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/orchestrator"
	"github.com/arthur-debert/workbench/pkg/provision"
	"github.com/arthur-debert/workbench/pkg/runner"
	"github.com/arthur-debert/workbench/pkg/ui"
	"github.com/arthur-debert/workbench/pkg/users"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// environment holds the process-level collaborators
type environment struct {
	fs      afero.Fs
	runner  runner.Runner
	fetcher provision.Fetcher
	passwd  string
}

// defaultEnvironment uses the OS. Output of external commands is copied to
// echo when it is not nil.
func defaultEnvironment(echo io.Writer) *environment {
	r := runner.NewExecRunner()
	if echo != nil {
		r.Stdout = echo
		r.Stderr = echo
	}
	return &environment{
		fs:      afero.NewOsFs(),
		runner:  r,
		fetcher: provision.NewGitFetcher(),
		passwd:  users.DefaultPasswdPath,
	}
}

type rootOptions struct {
	verbosity  int
	configFile string
	format     string

	// newEnv is called after logging is set up
	newEnv func(echo io.Writer) *environment
}

// echoWriter is where command output goes: stderr from -v on, nowhere otherwise
func (o *rootOptions) echoWriter(cmd *cobra.Command) io.Writer {
	if o.verbosity < 1 {
		return nil
	}
	return cmd.ErrOrStderr()
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(config.DefaultSources(o.configFile))
}

func (o *rootOptions) outputFormat(cmd *cobra.Command) ui.Format {
	f, err := ui.ParseFormat(o.format)
	if err != nil {
		f = ui.FormatAuto
	}
	return ui.Resolve(f, cmd.OutOrStdout())
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultEnvironment)
}

func newRootCmd(newEnv func(echo io.Writer) *environment) *cobra.Command {
	opts := &rootOptions{newEnv: newEnv}

	rootCmd := &cobra.Command{
		Use:     "workbench",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(opts.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			if _, err := ui.ParseFormat(opts.format); err != nil {
				return err
			}
			ui.Apply(opts.outputFormat(cmd))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.format, "format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "provision", Title: "PROVISIONING:"})
	rootCmd.AddGroup(&cobra.Group{ID: "inspect", Title: "INSPECTION:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newSetupCmd(opts))
	rootCmd.AddCommand(newVimCmd(opts))
	rootCmd.AddCommand(newProfileCmd(opts))
	rootCmd.AddCommand(newCatalogCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

type runFlags struct {
	users        []string
	path         string
	dependencies []string
	clean        bool
	report       string
}

// applyPath overrides vim.runtime with --path and validates the result
func (f *runFlags) applyPath(cfg *config.Config) error {
	if f.path == "" {
		return nil
	}
	cfg.Vim.Runtime = f.path
	return cfg.Validate()
}

func (f *runFlags) packages(cfg *config.Config) []string {
	if len(f.dependencies) > 0 {
		return append([]string(nil), f.dependencies...)
	}
	return cfg.VimPackages()
}

// unique drops repeated names, keeping the first occurrence
func unique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func addUserFlag(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringArrayVarP(&f.users, "user", "u", nil, MsgFlagUser)
}

func addRuntimeFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVarP(&f.path, "path", "p", "", MsgFlagPath)
	cmd.Flags().StringArrayVarP(&f.dependencies, "dependency", "d", nil, MsgFlagDependency)
	cmd.Flags().BoolVar(&f.clean, "clean", false, MsgFlagClean)
}

func newSetupCmd(opts *rootOptions) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:     "setup",
		Short:   MsgSetupShort,
		Long:    MsgSetupLong,
		Example: MsgSetupExample,
		GroupID: "provision",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts, f, func(cfg *config.Config) orchestrator.Plan {
				packages := unique(append(f.packages(cfg), cfg.ProfilePackages()...))
				return orchestrator.SetupPlan(packages, cfg.Vim.Runtime, f.clean)
			})
		},
	}
	addUserFlag(cmd, f)
	addRuntimeFlags(cmd, f)
	cmd.Flags().StringVar(&f.report, "report", "", MsgFlagReport)
	return cmd
}

func newVimCmd(opts *rootOptions) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:     "vim",
		Short:   MsgVimShort,
		Long:    MsgVimLong,
		Example: MsgVimExample,
		GroupID: "provision",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts, f, func(cfg *config.Config) orchestrator.Plan {
				return orchestrator.VimPlan(f.packages(cfg), cfg.Vim.Runtime, f.clean)
			})
		},
	}
	addUserFlag(cmd, f)
	addRuntimeFlags(cmd, f)
	cmd.Flags().StringVar(&f.report, "report", "", MsgFlagReport)
	return cmd
}

func newProfileCmd(opts *rootOptions) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:     "profile",
		Short:   MsgProfileShort,
		Long:    MsgProfileLong,
		Example: MsgProfileExample,
		GroupID: "provision",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, opts, f, func(cfg *config.Config) orchestrator.Plan {
				return orchestrator.ProfilePlan(cfg.ProfilePackages())
			})
		},
	}
	addUserFlag(cmd, f)
	cmd.Flags().StringVar(&f.report, "report", "", MsgFlagReport)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf(MsgErrUnknownShell, args[0])
		},
	}
}
