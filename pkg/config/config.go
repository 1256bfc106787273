package config

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/workbench/pkg/types"
)

// Config is the effective configuration
type Config struct {
	Install   Install   `koanf:"install" toml:"install"`
	Packages  Packages  `koanf:"packages" toml:"packages"`
	Vim       Vim       `koanf:"vim" toml:"vim"`
	Workspace Workspace `koanf:"workspace" toml:"workspace"`
	Profile   Profile   `koanf:"profile" toml:"profile"`
	Assets    Assets    `koanf:"assets" toml:"assets"`
	Journal   Journal   `koanf:"journal" toml:"journal"`
}

type Install struct {
	Required     []string `koanf:"required" toml:"required"`
	StatusFormat string   `koanf:"status_format" toml:"status_format"`
}

type Packages struct {
	Vim     []string `koanf:"vim" toml:"vim"`
	Profile []string `koanf:"profile" toml:"profile"`
}

type Vim struct {
	Runtime          string   `koanf:"runtime" toml:"runtime"`
	BaseSource       string   `koanf:"base_source" toml:"base_source"`
	BaseRef          string   `koanf:"base_ref" toml:"base_ref"`
	BaseDepth        int      `koanf:"base_depth" toml:"base_depth"`
	PluginsDir       string   `koanf:"plugins_dir" toml:"plugins_dir"`
	PluginDepth      int      `koanf:"plugin_depth" toml:"plugin_depth"`
	PluginSubmodules bool     `koanf:"plugin_submodules" toml:"plugin_submodules"`
	Plugins          []string `koanf:"plugins" toml:"plugins"`
	Installer        string   `koanf:"installer" toml:"installer"`
	UserVimrc        string   `koanf:"user_vimrc" toml:"user_vimrc"`
}

type Workspace struct {
	Directories []string `koanf:"directories" toml:"directories"`
}

type Profile struct {
	PromptMarker string `koanf:"prompt_marker" toml:"prompt_marker"`
}

type Assets struct {
	Dir string `koanf:"dir" toml:"dir"`
}

type Journal struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Path    string `koanf:"path" toml:"path"`
}

// RequiredPackages returns the infrastructure packages installed first
func (c *Config) RequiredPackages() []string {
	return clone(c.Install.Required)
}

// VimPackages returns the packages the editor setup depends on
func (c *Config) VimPackages() []string {
	return clone(c.Packages.Vim)
}

// ProfilePackages returns the packages installed with the shell profile
func (c *Config) ProfilePackages() []string {
	return clone(c.Packages.Profile)
}

// WorkspaceDirectories returns the directories created in each home
func (c *Config) WorkspaceDirectories() []string {
	return clone(c.Workspace.Directories)
}

// RuntimeTarget describes the base configuration cloned into root
func (c *Config) RuntimeTarget(root string) types.ProvisionTarget {
	return types.ProvisionTarget{
		Label:       RepoName(c.Vim.BaseSource),
		Source:      c.Vim.BaseSource,
		Ref:         c.Vim.BaseRef,
		Destination: root,
		Depth:       c.Vim.BaseDepth,
	}
}

// PluginTargets describes the plugins cloned under root
func (c *Config) PluginTargets(root string) []types.ProvisionTarget {
	targets := make([]types.ProvisionTarget, 0, len(c.Vim.Plugins))
	for _, src := range c.Vim.Plugins {
		name := RepoName(src)
		targets = append(targets, types.ProvisionTarget{
			Label:       name,
			Source:      src,
			Destination: filepath.Join(root, c.Vim.PluginsDir, name),
			Depth:       c.Vim.PluginDepth,
			Submodules:  c.Vim.PluginSubmodules,
		})
	}
	return targets
}

// JournalPath returns the journal database location
func (c *Config) JournalPath() string {
	if c.Journal.Path != "" {
		return c.Journal.Path
	}
	return filepath.Join(xdg.DataHome, "workbench", "journal.db")
}

// RepoName returns the last path element of a repository URL without ".git"
func RepoName(source string) string {
	return strings.TrimSuffix(path.Base(strings.TrimRight(source, "/")), ".git")
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
