package install

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/workbench/pkg/runner"
	"github.com/arthur-debert/workbench/pkg/types"
)

// aptEnv keeps apt-get from prompting
var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

// stageSpec builds the command of one stage for a package.
// check, when set, inspects stdout of a successful command.
type stageSpec struct {
	stage types.Stage
	build func(q types.PackageQuery) runner.Command
	check func(q types.PackageQuery, stdout string) error
}

var pipelineStages = []stageSpec{
	{
		stage: types.StageSearch,
		build: func(q types.PackageQuery) runner.Command {
			return runner.Command{
				Name: "apt-cache",
				Args: []string{"search", "--names-only", "^" + regexp.QuoteMeta(q.Name) + "$"},
			}
		},
		check: func(q types.PackageQuery, stdout string) error {
			if strings.TrimSpace(stdout) == "" {
				return fmt.Errorf("no package named %s in the catalog", q.Name)
			}
			return nil
		},
	},
	{
		stage: types.StageDependencyDryRun,
		build: aptGet("--simulate", "build-dep"),
	},
	{
		stage: types.StageDependencyInstall,
		build: aptGet("build-dep"),
	},
	{
		stage: types.StageInstallDryRun,
		build: aptGet("--simulate", "install"),
	},
	{
		stage: types.StageInstall,
		build: aptGet("install"),
	},
	{
		stage: types.StageChecksumVerify,
		build: func(q types.PackageQuery) runner.Command {
			return runner.Command{Name: "debsums", Args: []string{q.Name}}
		},
	},
	{
		stage: types.StageStatusQuery,
		build: func(q types.PackageQuery) runner.Command {
			return runner.Command{
				Name: "dpkg-query",
				Args: []string{"-W", "--showformat=" + q.Format(), q.Name},
			}
		},
	},
}

func aptGet(args ...string) func(types.PackageQuery) runner.Command {
	return func(q types.PackageQuery) runner.Command {
		argv := append([]string{"--yes"}, args...)
		return runner.Command{
			Name: "apt-get",
			Args: append(argv, q.Name),
			Env:  aptEnv,
		}
	}
}

// StageCommand returns the command a stage runs for q
func StageCommand(stage types.Stage, q types.PackageQuery) (runner.Command, bool) {
	for _, spec := range pipelineStages {
		if spec.stage == stage {
			return spec.build(q), true
		}
	}
	return runner.Command{}, false
}
