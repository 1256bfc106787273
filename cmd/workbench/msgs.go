package workbench

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Provision a Debian developer workstation"
	MsgSetupShort      = "Run every provisioning phase for each user"
	MsgVimShort        = "Install and configure the shared vim runtime"
	MsgProfileShort    = "Install the shell profile for each user"
	MsgCatalogShort    = "Show the packages and repositories that get provisioned"
	MsgHistoryShort    = "Show recent install journal entries"
	MsgConfigShort     = "Print the effective configuration as TOML"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgVersionFormat = "workbench version %s\n  commit: %s\n  built:  %s\n"
	MsgReportWritten = "Report written to %s\n"
	MsgJournalOff    = "The install journal is disabled (journal.enabled = false)."

	// Error messages
	MsgErrNoUsers      = "no users to provision"
	MsgErrRunFailed    = "%d of %d user(s) did not finish cleanly"
	MsgErrWriteReport  = "failed to write report to %s"
	MsgErrUnknownShell = "unknown shell %q"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO and command output, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Configuration file merged over the defaults"
	MsgFlagFormat     = "Output format: auto, term or text"
	MsgFlagUser       = "User to provision (repeatable, default: every real user)"
	MsgFlagPath       = "Shared vim runtime directory (default: vim.runtime)"
	MsgFlagDependency = "Package to install (repeatable, default: packages.vim)"
	MsgFlagClean      = "Delete the shared runtime directory before provisioning"
	MsgFlagReport     = "Write the run report as YAML to this file"
	MsgFlagLimit      = "Number of entries to show"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/setup-long.txt
	msgSetupLongRaw string
	MsgSetupLong    = strings.TrimSpace(msgSetupLongRaw)

	//go:embed msgs/setup-example.txt
	msgSetupExampleRaw string
	MsgSetupExample    = strings.TrimRight(msgSetupExampleRaw, "\n")

	//go:embed msgs/vim-long.txt
	msgVimLongRaw string
	MsgVimLong    = strings.TrimSpace(msgVimLongRaw)

	//go:embed msgs/vim-example.txt
	msgVimExampleRaw string
	MsgVimExample    = strings.TrimRight(msgVimExampleRaw, "\n")

	//go:embed msgs/profile-long.txt
	msgProfileLongRaw string
	MsgProfileLong    = strings.TrimSpace(msgProfileLongRaw)

	//go:embed msgs/profile-example.txt
	msgProfileExampleRaw string
	MsgProfileExample    = strings.TrimRight(msgProfileExampleRaw, "\n")
)
