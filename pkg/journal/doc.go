// Package journal keeps a SQLite history of installs and fetches.
//
// Every package pipeline result and every provisioning outcome of a run is
// appended as one event. The journal is informational: the orchestrator
// logs write failures and carries on.
package journal
