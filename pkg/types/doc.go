// Package types defines the value types shared by the installer, the
// provisioner and the orchestrator: PackageQuery and the pipeline Stage
// enumeration, InstallationError and its batch collection, ProvisionTarget
// and UserContext.
//
// All of them are plain values. They are built once per invocation from
// the configuration catalog or the command line and never mutated.
package types
