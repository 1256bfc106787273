// Package testutil provides fakes and helpers for testing workbench components.
//
// Key components:
//   - FakeRunner: records every command and fails the ones a predicate selects
//   - FakeFetcher: "clones" by creating the destination in an afero filesystem
//   - ChownFS: in-memory filesystem that records ownership changes
//   - NewMemFS / WriteFile / ReadFile: in-memory filesystem helpers
//
// Usage guidelines:
//   - Unit tests use the in-memory filesystem; only pkg/runner and
//     pkg/journal touch the real filesystem or real processes
//   - All test data is defined inline
package testutil
