package filesystem

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const (
	DirMode  os.FileMode = 0755
	FileMode os.FileMode = 0644
)

// Files creates and copies files with ownership assignment
type Files struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// New wraps fs
func New(fs afero.Fs) *Files {
	return &Files{
		fs:     fs,
		logger: logging.GetLogger("filesystem"),
	}
}

// Exists reports whether path exists
func (f *Files) Exists(path string) (bool, error) {
	_, err := f.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrFileAccess, "failed to stat %s", path).
		WithDetail("path", path)
}

// MkdirOwned creates path and any missing parents. Every directory it
// creates is chowned to owner, and so is path itself when it already
// existed. Pre-existing parents are left alone.
func (f *Files) MkdirOwned(path string, owner types.UserContext) error {
	missing, err := f.missingDirs(path)
	if err != nil {
		return err
	}

	if err := f.fs.MkdirAll(path, DirMode); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", path).
			WithDetail("path", path)
	}

	if len(missing) == 0 {
		missing = []string{filepath.Clean(path)}
	}
	for _, dir := range missing {
		if err := f.chown(dir, owner); err != nil {
			return err
		}
	}

	f.logger.Debug().Str("path", path).Int("created", len(missing)).Str("owner", owner.Login).Msg("Directory ready")
	return nil
}

// WriteOwned writes data to path and chowns it to owner. The parent
// directory must exist.
func (f *Files) WriteOwned(path string, data []byte, owner types.UserContext) error {
	if err := afero.WriteFile(f.fs, path, data, FileMode); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to write %s", path).
			WithDetail("path", path)
	}
	if err := f.chown(path, owner); err != nil {
		return err
	}

	f.logger.Debug().Str("path", path).Int("bytes", len(data)).Str("owner", owner.Login).Msg("File written")
	return nil
}

// CopyOwned copies src to dst and chowns dst to owner
func (f *Files) CopyOwned(src, dst string, owner types.UserContext) error {
	data, err := afero.ReadFile(f.fs, src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to read %s", src).
			WithDetail("source", src).
			WithDetail("destination", dst)
	}
	return f.WriteOwned(dst, data, owner)
}

// CopyBestEffort copies src to dst when src exists. A missing source is
// reported as copied=false with no error; any other failure is returned.
func (f *Files) CopyBestEffort(src, dst string, owner types.UserContext) (bool, error) {
	exists, err := f.Exists(src)
	if err != nil {
		return false, err
	}
	if !exists {
		f.logger.Debug().Str("source", src).Msg("Optional source missing, skipping copy")
		return false, nil
	}
	if err := f.CopyOwned(src, dst, owner); err != nil {
		return false, err
	}
	return true, nil
}

// missingDirs lists the components of path that do not exist yet, outermost first
func (f *Files) missingDirs(path string) ([]string, error) {
	var missing []string
	for dir := filepath.Clean(path); ; dir = filepath.Dir(dir) {
		exists, err := f.Exists(dir)
		if err != nil {
			return nil, err
		}
		if exists {
			break
		}
		missing = append([]string{dir}, missing...)
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
	return missing, nil
}

func (f *Files) chown(path string, owner types.UserContext) error {
	if err := f.fs.Chown(path, owner.UID, owner.GID); err != nil {
		return errors.Wrapf(err, errors.ErrChown, "failed to chown %s to %s", path, owner.Login).
			WithDetail("path", path).
			WithDetail("user", owner.Login)
	}
	return nil
}

// Write writes data to path without changing its ownership
func (f *Files) Write(path string, data []byte) error {
	if err := afero.WriteFile(f.fs, path, data, FileMode); err != nil {
		return errors.Wrapf(err, errors.ErrFileCopy, "failed to write %s", path).
			WithDetail("path", path)
	}
	return nil
}
