package testutil

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/afero"
)

// ChownFS records ownership changes on top of another filesystem.
// MemMapFs accepts Chown but does not expose the result.
type ChownFS struct {
	afero.Fs

	mu     sync.Mutex
	owners map[string]string

	// FailOn makes Chown of these paths fail
	FailOn map[string]error
}

// NewChownFS wraps fs
func NewChownFS(fs afero.Fs) *ChownFS {
	return &ChownFS{Fs: fs, owners: map[string]string{}, FailOn: map[string]error{}}
}

// Chown records uid:gid for name
func (c *ChownFS) Chown(name string, uid, gid int) error {
	if err := c.FailOn[name]; err != nil {
		return err
	}
	if err := c.Fs.Chown(name, uid, gid); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.owners[name] = fmt.Sprintf("%d:%d", uid, gid)
	return nil
}

// Owner returns the recorded "uid:gid" of name, or "" if never chowned
func (c *ChownFS) Owner(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.owners[name]
}

// Chowned returns every chowned path, sorted
func (c *ChownFS) Chowned() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	paths := make([]string, 0, len(c.owners))
	for p := range c.owners {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
