package types

import (
	"fmt"
	"strings"
)

// InstallationError records the first pipeline stage that failed for a package
type InstallationError struct {
	PackageName string `yaml:"package"`
	Stage       Stage  `yaml:"stage"`
	ExitCode    int    `yaml:"exitCode"`
	Stderr      string `yaml:"stderr,omitempty"`

	// Err is the underlying command failure, if any
	Err error `yaml:"-"`
}

func (e *InstallationError) Error() string {
	msg := fmt.Sprintf("package %s failed at stage %s (exit code %d)", e.PackageName, e.Stage, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + firstLine(stderr)
	}
	return msg
}

func (e *InstallationError) Unwrap() error {
	return e.Err
}

// InstallationErrors is the ordered set of optional-package failures of one batch.
// Order matches package processing order.
type InstallationErrors []*InstallationError

// Push appends err unless it is nil
func (e *InstallationErrors) Push(err *InstallationError) {
	if err != nil {
		*e = append(*e, err)
	}
}

// Len returns the number of failed packages
func (e InstallationErrors) Len() int {
	return len(e)
}

// Empty reports whether every package of the batch installed cleanly
func (e InstallationErrors) Empty() bool {
	return len(e) == 0
}

// Packages returns the failed package names in processing order
func (e InstallationErrors) Packages() []string {
	names := make([]string, 0, len(e))
	for _, err := range e {
		names = append(names, err.PackageName)
	}
	return names
}

// Err returns the collection as an error, or nil when it is empty
func (e InstallationErrors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e InstallationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, err := range e {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("%d package(s) failed: %s", len(e), strings.Join(parts, "; "))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
