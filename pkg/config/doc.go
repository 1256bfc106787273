// Package config loads the workbench configuration.
//
// Layers are merged in order, later ones winning:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. /etc/workbench/config.toml
//  3. $XDG_CONFIG_HOME/workbench/config.toml
//  4. the file given with --config
//  5. WORKBENCH_<SECTION>__<KEY> environment variables
//
// The package and repository catalogs are exposed through accessors that
// return copies, so callers cannot alter the loaded configuration.
package config
