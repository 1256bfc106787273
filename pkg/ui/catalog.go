package ui

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/workbench/pkg/config"
	"github.com/charmbracelet/glamour"
)

// CatalogMarkdown describes the packages and repositories cfg provisions
func CatalogMarkdown(cfg *config.Config) string {
	var b strings.Builder

	b.WriteString("# Workbench catalog\n\n")

	b.WriteString("## Required packages\n\n")
	b.WriteString("Installed first for every user. A failure aborts that user.\n\n")
	writeList(&b, cfg.RequiredPackages())

	b.WriteString("## Profile packages\n\n")
	writeList(&b, cfg.ProfilePackages())

	b.WriteString("## Editor packages\n\n")
	writeList(&b, cfg.VimPackages())

	root := cfg.Vim.Runtime
	b.WriteString("## Editor runtime\n\n")
	b.WriteString("| Name | Source | Destination |\n|---|---|---|\n")
	base := cfg.RuntimeTarget(root)
	fmt.Fprintf(&b, "| %s | %s | `%s` |\n", base.Label, base.Source, base.Destination)
	for _, p := range cfg.PluginTargets(root) {
		fmt.Fprintf(&b, "| %s | %s | `%s` |\n", p.Label, p.Source, p.Destination)
	}
	b.WriteString("\n")

	b.WriteString("## Workspace directories\n\n")
	writeList(&b, cfg.WorkspaceDirectories())

	return b.String()
}

func writeList(b *strings.Builder, items []string) {
	if len(items) == 0 {
		b.WriteString("_none_\n\n")
		return
	}
	for _, it := range items {
		fmt.Fprintf(b, "- `%s`\n", it)
	}
	b.WriteString("\n")
}

// RenderMarkdown renders md through glamour for terminals and returns it
// unchanged for plain text
func RenderMarkdown(md string, f Format) string {
	if f == FormatText {
		return md
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
