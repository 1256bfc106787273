// Package provision fetches the shared editor runtime and its plugins.
//
// Every target is fetched at most once: a destination that already exists is
// left untouched, so re-running provisioning only fills in what is missing.
// The runtime root follows the same rule. A clean reprovision needs an
// explicit Reset before EnsureRuntime.
//
// Fetch failures are not aggregated. The first one aborts the run, since the
// editor setup that follows depends on every target being present.
package provision
