// Package orchestrator brings user environments to their desired state.
//
// For each user it runs the phases of a Plan in order: workspace
// directories, packages, the shared editor runtime, dotfiles and the prompt
// bootstrap. A fatal failure aborts the remaining phases for that user only;
// the next user is still processed. Optional package failures are recorded
// without stopping the user.
package orchestrator
