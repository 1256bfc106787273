// Package bootstrap runs one-time shell installers for a user, such as the
// prompt framework. A marker path under the user's home records that the
// installer already ran; while it exists the installer is skipped.
package bootstrap

import (
	"bytes"
	"context"
	"os"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/runner"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/syntax"
)

// Script is an installer piped to bash on stdin
type Script struct {
	Name string
	Body []byte

	// Marker is relative to the user's home
	Marker string
}

// Bootstrapper runs scripts gated by their marker
type Bootstrapper struct {
	fs     afero.Fs
	runner runner.Runner
	logger zerolog.Logger
}

// New creates a bootstrapper checking markers on fs
func New(fs afero.Fs, r runner.Runner) *Bootstrapper {
	return &Bootstrapper{
		fs:     fs,
		runner: r,
		logger: logging.GetLogger("bootstrap"),
	}
}

// Validate parses the script as bash without running it
func Validate(script Script) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(bytes.NewReader(script.Body), script.Name); err != nil {
		return errors.Wrapf(err, errors.ErrBootstrap, "invalid installer script %s", script.Name).
			WithDetail("script", script.Name)
	}
	return nil
}

// Run executes script for user unless its marker exists. ran reports
// whether the script was executed.
func (b *Bootstrapper) Run(ctx context.Context, user types.UserContext, script Script) (ran bool, err error) {
	logger := b.logger.With().Str("user", user.Login).Str("script", script.Name).Logger()

	marker := user.HomePath(script.Marker)
	_, statErr := b.fs.Stat(marker)
	switch {
	case statErr == nil:
		logger.Info().Str("marker", marker).Msg("Marker present, skipping installer")
		return false, nil
	case !os.IsNotExist(statErr):
		return false, errors.Wrapf(statErr, errors.ErrFileAccess, "failed to check marker %s", marker).
			WithDetail("path", marker)
	}

	if err := Validate(script); err != nil {
		return false, err
	}

	logger.Info().Msg("Running installer")
	_, err = b.runner.Run(ctx, runner.Command{
		Name:  "bash",
		Args:  []string{"-s"},
		Env:   []string{"HOME=" + user.Home, "USER=" + user.Login},
		Dir:   user.Home,
		Stdin: bytes.NewReader(script.Body),
	})
	if err != nil {
		return true, errors.Wrapf(err, errors.ErrBootstrap, "installer %s failed for %s", script.Name, user.Login).
			WithDetail("script", script.Name).
			WithDetail("user", user.Login)
	}
	return true, nil
}
