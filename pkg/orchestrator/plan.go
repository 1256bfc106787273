package orchestrator

import "strings"

// Phase is one step of a user's environment setup, run in declaration order
type Phase int

const (
	PhaseWorkspace Phase = iota + 1
	PhasePackages
	PhaseEditor
	PhaseDotfiles
	PhasePrompt
)

var phaseNames = map[Phase]string{
	PhaseWorkspace: "workspace",
	PhasePackages:  "packages",
	PhaseEditor:    "editor",
	PhaseDotfiles:  "dotfiles",
	PhasePrompt:    "prompt",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Plan selects the phases to run and their inputs
type Plan struct {
	Phases []Phase

	// Requested packages for the packages phase
	Packages []string

	// Runtime is the shared editor runtime root
	Runtime string

	// Clean removes Runtime once before any user is processed
	Clean bool
}

// Has reports whether the plan includes phase
func (p Plan) Has(phase Phase) bool {
	for _, ph := range p.Phases {
		if ph == phase {
			return true
		}
	}
	return false
}

func (p Plan) String() string {
	names := make([]string, 0, len(p.Phases))
	for _, ph := range p.Phases {
		names = append(names, ph.String())
	}
	return strings.Join(names, ",")
}

// ProfilePlan writes dotfiles, installs packages and bootstraps the prompt
func ProfilePlan(packages []string) Plan {
	return Plan{
		Phases:   []Phase{PhaseWorkspace, PhasePackages, PhaseDotfiles, PhasePrompt},
		Packages: clone(packages),
	}
}

// VimPlan installs the editor dependencies and provisions the runtime
func VimPlan(packages []string, runtime string, clean bool) Plan {
	return Plan{
		Phases:   []Phase{PhasePackages, PhaseEditor},
		Packages: clone(packages),
		Runtime:  runtime,
		Clean:    clean,
	}
}

// SetupPlan runs every phase
func SetupPlan(packages []string, runtime string, clean bool) Plan {
	return Plan{
		Phases:   []Phase{PhaseWorkspace, PhasePackages, PhaseEditor, PhaseDotfiles, PhasePrompt},
		Packages: clone(packages),
		Runtime:  runtime,
		Clean:    clean,
	}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
