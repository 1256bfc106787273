package orchestrator

import (
	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/provision"
	"github.com/arthur-debert/workbench/pkg/types"
	"gopkg.in/yaml.v3"
)

// Status summarises one user's run
type Status string

const (
	StatusOK Status = "ok"
	// StatusPartial means some requested packages failed
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

// UserReport is the outcome for one user
type UserReport struct {
	User   string `yaml:"user"`
	Status Status `yaml:"status"`

	// FailedPhase and Error are set when a fatal failure aborted the user
	FailedPhase Phase  `yaml:"failedPhase,omitempty"`
	Error       string `yaml:"error,omitempty"`
	ErrorCode   string `yaml:"errorCode,omitempty"`

	FailedPackages types.InstallationErrors `yaml:"failedPackages,omitempty"`
	Targets        provision.Results        `yaml:"targets,omitempty"`
	VimrcCopied    bool                     `yaml:"vimrcCopied,omitempty"`
	Bootstrapped   bool                     `yaml:"bootstrapped,omitempty"`

	err error
}

// Err returns the fatal error that aborted the user, if any
func (u *UserReport) Err() error {
	return u.err
}

func (u *UserReport) fail(phase Phase, err error) {
	u.Status = StatusFailed
	u.FailedPhase = phase
	u.Error = err.Error()
	u.ErrorCode = string(errors.GetErrorCode(err))
	u.err = err
}

func (u *UserReport) finish() {
	if u.Status == StatusFailed {
		return
	}
	if u.FailedPackages.Empty() {
		u.Status = StatusOK
	} else {
		u.Status = StatusPartial
	}
}

// Report collects every user's outcome in processing order
type Report struct {
	Plan  string       `yaml:"plan"`
	Users []UserReport `yaml:"users"`
}

// Failed reports whether any user did not finish cleanly
func (r *Report) Failed() bool {
	for _, u := range r.Users {
		if u.Status != StatusOK {
			return true
		}
	}
	return false
}

// YAML renders the report
func (r *Report) YAML() ([]byte, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render report")
	}
	return data, nil
}
