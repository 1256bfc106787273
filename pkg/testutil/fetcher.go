package testutil

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/workbench/pkg/types"
	"github.com/spf13/afero"
)

// FakeFetcher stands in for a git clone. A successful fetch creates the
// destination directory with a README so later existence checks see it.
type FakeFetcher struct {
	FS afero.Fs

	// Fail maps a target label to the error its fetch returns
	Fail map[string]error

	mu    sync.Mutex
	calls []types.ProvisionTarget
}

// NewFakeFetcher creates a fetcher writing into fs
func NewFakeFetcher(fs afero.Fs) *FakeFetcher {
	return &FakeFetcher{FS: fs, Fail: map[string]error{}}
}

// Fetch records target and materialises its destination
func (f *FakeFetcher) Fetch(_ context.Context, target types.ProvisionTarget) error {
	f.mu.Lock()
	f.calls = append(f.calls, target)
	f.mu.Unlock()

	if err := f.Fail[target.Label]; err != nil {
		return err
	}
	if err := f.FS.MkdirAll(target.Destination, 0755); err != nil {
		return err
	}
	return afero.WriteFile(f.FS, filepath.Join(target.Destination, "README.md"), []byte(target.Source), 0644)
}

// Calls returns a copy of the fetched targets in order
func (f *FakeFetcher) Calls() []types.ProvisionTarget {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.ProvisionTarget(nil), f.calls...)
}

// Labels returns the labels of fetched targets in order
func (f *FakeFetcher) Labels() []string {
	calls := f.Calls()
	labels := make([]string, 0, len(calls))
	for _, c := range calls {
		labels = append(labels, c.Label)
	}
	return labels
}
