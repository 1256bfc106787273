// Package install drives Debian packages through a fixed verification and
// installation pipeline.
//
// A package walks seven stages in order: catalog search, dependency dry-run,
// dependency install, package dry-run, package install, checksum
// verification and status query. The first failing stage ends the
// pipeline for that package and is reported as a types.InstallationError.
//
// Batch runs the pipeline over a list of packages. Required packages are
// prerequisites: the first one that fails aborts the batch. Requested
// packages are optional: failures are collected and the batch moves on.
package install
