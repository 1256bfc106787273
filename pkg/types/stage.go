package types

import "fmt"

// Stage identifies one step of the installation pipeline.
// Values are ordered: a package walks them from StageSearch to StageStatusQuery.
type Stage int

const (
	StageSearch Stage = iota + 1
	StageDependencyDryRun
	StageDependencyInstall
	StageInstallDryRun
	StageInstall
	StageChecksumVerify
	StageStatusQuery
)

var stageNames = map[Stage]string{
	StageSearch:            "Search",
	StageDependencyDryRun:  "DependencyDryRun",
	StageDependencyInstall: "DependencyInstall",
	StageInstallDryRun:     "InstallDryRun",
	StageInstall:           "Install",
	StageChecksumVerify:    "ChecksumVerify",
	StageStatusQuery:       "StatusQuery",
}

// Stages returns every stage in execution order
func Stages() []Stage {
	return []Stage{
		StageSearch,
		StageDependencyDryRun,
		StageDependencyInstall,
		StageInstallDryRun,
		StageInstall,
		StageChecksumVerify,
		StageStatusQuery,
	}
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Valid reports whether s is one of the seven pipeline stages
func (s Stage) Valid() bool {
	_, ok := stageNames[s]
	return ok
}

// MarshalText renders the stage by name so reports stay readable
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a stage name produced by MarshalText
func (s *Stage) UnmarshalText(text []byte) error {
	for stage, name := range stageNames {
		if name == string(text) {
			*s = stage
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", string(text))
}
