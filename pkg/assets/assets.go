// Package assets holds the static files placed into user environments.
//
// The files ship embedded in the binary. A directory configured as
// assets.dir can override any of them by name.
package assets

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

//go:embed files
var embedded embed.FS

const (
	Bashrc          = "bashrc"
	BashAliases     = "bash_aliases"
	ConfigsVim      = "configs.vim"
	PromptInstaller = "install-prompt.sh"
)

// Names lists every known asset
func Names() []string {
	return []string{Bashrc, BashAliases, ConfigsVim, PromptInstaller}
}

// Store reads assets, preferring overrides from a directory
type Store struct {
	fs     afero.Fs
	dir    string
	logger zerolog.Logger
}

// New creates a store. When dir is empty only embedded assets are used.
func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir, logger: logging.GetLogger("assets")}
}

// Read returns the content of asset name
func (s *Store) Read(name string) ([]byte, error) {
	if s.dir != "" {
		p := filepath.Join(s.dir, name)
		data, err := afero.ReadFile(s.fs, p)
		if err == nil {
			s.logger.Debug().Str("asset", name).Str("path", p).Msg("Using asset override")
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read asset override %s", p).
				WithDetail("asset", name)
		}
	}

	data, err := fs.ReadFile(embedded, path.Join("files", name))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "unknown asset %s", name).
			WithDetail("asset", name)
	}
	return data, nil
}
